// Package docs registra la especificación OpenAPI servida en /swagger.
// Regenerar con: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/pasture-types": {
            "get": {
                "produces": ["application/json"],
                "tags": ["paddocks"],
                "summary": "Tipos de pasto",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/forage.PastureTypeInfo"}}}}
            }
        },
        "/geometry/preview": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["paddocks"],
                "summary": "Validar y medir un lindero",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/paddocks.previewRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/paddocks.previewResponse"}},
                    "400": {"description": "entrada malformada", "schema": {"type": "string"}},
                    "422": {"description": "polygon self-intersects", "schema": {"type": "string"}}
                }
            }
        },
        "/paddocks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["paddocks"],
                "summary": "Listar potreros de una finca",
                "parameters": [{"type": "string", "description": "ID de la finca", "name": "farm_id", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/paddocks.paddockResponse"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["paddocks"],
                "summary": "Crear potrero",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/paddocks.createPaddockRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/paddocks.paddockResponse"}},
                    "400": {"description": "entrada inválida", "schema": {"type": "string"}},
                    "422": {"description": "polygon self-intersects", "schema": {"type": "string"}}
                }
            }
        },
        "/paddocks/geojson": {
            "get": {
                "produces": ["application/json"],
                "tags": ["paddocks"],
                "summary": "Mapa GeoJSON de la finca",
                "parameters": [{"type": "string", "description": "ID de la finca", "name": "farm_id", "in": "query", "required": true}],
                "responses": {"200": {"description": "FeatureCollection", "schema": {"type": "object"}}}
            }
        },
        "/paddocks/{paddockID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["paddocks"],
                "summary": "Ver potrero con geometría, capacidad y estado derivados",
                "parameters": [{"type": "string", "description": "ID del potrero", "name": "paddockID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/paddocks.paddockResponse"}},
                    "404": {"description": "paddock not found", "schema": {"type": "string"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["paddocks"],
                "summary": "Editar lindero o parámetros de pastoreo",
                "parameters": [
                    {"type": "string", "description": "ID del potrero", "name": "paddockID", "in": "path", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/paddocks.updatePaddockRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/paddocks.paddockResponse"}}}
            },
            "delete": {
                "tags": ["paddocks"],
                "summary": "Borrar potrero",
                "parameters": [{"type": "string", "description": "ID del potrero", "name": "paddockID", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "paddock is occupied by a lot", "schema": {"type": "string"}}
                }
            }
        },
        "/lots": {
            "get": {
                "produces": ["application/json"],
                "tags": ["lots"],
                "summary": "Listar lotes de una finca",
                "parameters": [{"type": "string", "description": "ID de la finca", "name": "farm_id", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/lots.LotResponse"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lots"],
                "summary": "Crear lote",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/lots.createLotRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/lots.LotResponse"}},
                    "400": {"description": "invalid input", "schema": {"type": "string"}}
                }
            }
        },
        "/lots/{lotID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["lots"],
                "summary": "Ver lote con días en potrero y alerta de permanencia",
                "parameters": [{"type": "string", "description": "ID del lote", "name": "lotID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/lots.LotResponse"}},
                    "404": {"description": "lot not found", "schema": {"type": "string"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lots"],
                "summary": "Actualizar rebaño",
                "parameters": [
                    {"type": "string", "description": "ID del lote", "name": "lotID", "in": "path", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/lots.updateLotRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/lots.LotResponse"}}}
            }
        },
        "/lots/{lotID}/rotate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["rotation"],
                "summary": "Rotar lote",
                "parameters": [
                    {"type": "string", "description": "ID del lote", "name": "lotID", "in": "path", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/rotation.rotateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rotation.rotateResponse"}},
                    "404": {"description": "lot or paddock not found", "schema": {"type": "string"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/rotation.conflictResponse"}}
                }
            }
        },
        "/lots/{lotID}/rotations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["rotation"],
                "summary": "Historial de rotaciones del lote",
                "parameters": [{"type": "string", "description": "ID del lote", "name": "lotID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/rotation.eventResponse"}}},
                    "404": {"description": "lot not found", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "geometry.Point": {
            "type": "object",
            "properties": {"lat": {"type": "number"}, "lng": {"type": "number"}}
        },
        "forage.PastureTypeInfo": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "heights": {"$ref": "#/definitions/forage.HeightRange"}
            }
        },
        "forage.HeightRange": {
            "type": "object",
            "properties": {
                "entry_cm": {"type": "number"},
                "exit_cm": {"type": "number"}
            }
        },
        "geometry.BBox": {
            "type": "object",
            "properties": {
                "min_lng": {"type": "number"},
                "min_lat": {"type": "number"},
                "max_lng": {"type": "number"},
                "max_lat": {"type": "number"}
            }
        },
        "forage.Capacity": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean"},
                "reason": {"type": "string"},
                "dry_matter_kg": {"type": "number"},
                "animal_units_per_day": {"type": "number"}
            }
        },
        "geometry.Metrics": {
            "type": "object",
            "properties": {
                "area_hectares": {"type": "number"},
                "perimeter_km": {"type": "number"},
                "centroid": {"$ref": "#/definitions/geometry.Point"},
                "bbox": {"$ref": "#/definitions/geometry.BBox"},
                "vertex_count": {"type": "integer"},
                "ring": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}}
            }
        },
        "paddocks.previewRequest": {
            "type": "object",
            "properties": {
                "vertices": {"type": "array", "items": {"$ref": "#/definitions/geometry.Point"}},
                "coordinates_text": {"type": "string"},
                "pasture_type": {"type": "string"},
                "entry_height_cm": {"type": "number"},
                "exit_height_cm": {"type": "number"},
                "grazing_efficiency": {"type": "number"}
            }
        },
        "paddocks.previewResponse": {
            "type": "object",
            "properties": {
                "geometry": {"$ref": "#/definitions/geometry.Metrics"},
                "capacity": {"$ref": "#/definitions/forage.Capacity"}
            }
        },
        "paddocks.createPaddockRequest": {
            "type": "object",
            "properties": {
                "farm_id": {"type": "string"},
                "name": {"type": "string"},
                "vertices": {"type": "array", "items": {"$ref": "#/definitions/geometry.Point"}},
                "coordinates_text": {"type": "string"},
                "pasture_type": {"type": "string"},
                "entry_height_cm": {"type": "number"},
                "exit_height_cm": {"type": "number"},
                "grazing_efficiency": {"type": "number"}
            }
        },
        "paddocks.updatePaddockRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "vertices": {"type": "array", "items": {"$ref": "#/definitions/geometry.Point"}},
                "coordinates_text": {"type": "string"},
                "pasture_type": {"type": "string"},
                "entry_height_cm": {"type": "number"},
                "exit_height_cm": {"type": "number"},
                "grazing_efficiency": {"type": "number"}
            }
        },
        "paddocks.paddockResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "farm_id": {"type": "string"},
                "name": {"type": "string"},
                "lot_id": {"type": "string"},
                "vertices": {"type": "array", "items": {"$ref": "#/definitions/geometry.Point"}},
                "pasture_type": {"type": "string"},
                "entry_height_cm": {"type": "number"},
                "exit_height_cm": {"type": "number"},
                "grazing_efficiency": {"type": "number"},
                "rotated_out_at": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "geometry": {"$ref": "#/definitions/geometry.Metrics"},
                "capacity": {"$ref": "#/definitions/forage.Capacity"},
                "status": {"type": "string", "enum": ["available", "occupied", "recovering"]},
                "recovery_ends_at": {"type": "string"},
                "recovery_remaining_days": {"type": "integer"}
            }
        },
        "lots.createLotRequest": {
            "type": "object",
            "properties": {
                "farm_id": {"type": "string"},
                "name": {"type": "string"},
                "head_count": {"type": "integer"},
                "average_weight_kg": {"type": "number"}
            }
        },
        "lots.updateLotRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "head_count": {"type": "integer"},
                "average_weight_kg": {"type": "number"}
            }
        },
        "lots.LotResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "farm_id": {"type": "string"},
                "name": {"type": "string"},
                "head_count": {"type": "integer"},
                "average_weight_kg": {"type": "number"},
                "paddock_id": {"type": "string"},
                "entered_at": {"type": "string"},
                "ideal_permanence_days": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "days_in_paddock": {"type": "integer"},
                "daily_consumption_kg": {"type": "number"},
                "severity": {"type": "string", "enum": ["unknown", "ok", "warning", "critical"]},
                "overdue": {"type": "string", "enum": ["unknown", "overdue", "on_time"]}
            }
        },
        "rotation.rotateRequest": {
            "type": "object",
            "properties": {
                "paddock_id": {"type": "string"},
                "override": {"type": "boolean"}
            }
        },
        "rotation.paddockSide": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "lot_id": {"type": "string"},
                "rotated_out_at": {"type": "string"},
                "status": {"type": "string"},
                "recovery_ends_at": {"type": "string"},
                "recovery_remaining_days": {"type": "integer"}
            }
        },
        "rotation.eventResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "lot_id": {"type": "string"},
                "from_paddock_id": {"type": "string"},
                "to_paddock_id": {"type": "string"},
                "occurred_at": {"type": "string"},
                "override": {"type": "boolean"},
                "reason": {"type": "string"}
            }
        },
        "rotation.rotateResponse": {
            "type": "object",
            "properties": {
                "changed": {"type": "boolean"},
                "lot": {"$ref": "#/definitions/lots.LotResponse"},
                "source": {"$ref": "#/definitions/rotation.paddockSide"},
                "destination": {"$ref": "#/definitions/rotation.paddockSide"},
                "displaced_lot": {"$ref": "#/definitions/lots.LotResponse"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/rotation.eventResponse"}}
            }
        },
        "rotation.conflictResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "paddock_id": {"type": "string"},
                "occupant_lot_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pasture Rotation API",
	Description:      "Linderos de potreros, presupuesto forrajero, estado de descanso y rotación de lotes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
