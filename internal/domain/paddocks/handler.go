package paddocks

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"pasture-rotation/internal/domain/forage"
	"pasture-rotation/internal/domain/geometry"
	"pasture-rotation/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/pasture-types", listPastureTypesHandler())
	r.Post("/geometry/preview", previewHandler(svc))

	r.Route("/paddocks", func(pr chi.Router) {
		pr.Post("/", createPaddockHandler(svc))
		pr.Get("/", listPaddocksHandler(svc))
		pr.Get("/geojson", farmMapHandler(svc))
		pr.Get("/{paddockID}", getPaddockHandler(svc))
		pr.Patch("/{paddockID}", updatePaddockHandler(svc))
		pr.Delete("/{paddockID}", deletePaddockHandler(svc))
	})
}

// polygonInput admite vértices dibujados o la carga masiva en texto.
type polygonInput struct {
	Vertices        []geometry.Point `json:"vertices"`
	CoordinatesText string           `json:"coordinates_text"` // JSON [[lat,lng],...] o filas "lat, lng"
}

func (in polygonInput) resolve() ([]geometry.Point, error) {
	if strings.TrimSpace(in.CoordinatesText) != "" {
		return geometry.ParseCoordinates(in.CoordinatesText)
	}
	return in.Vertices, nil
}

func (in polygonInput) present() bool {
	return in.Vertices != nil || strings.TrimSpace(in.CoordinatesText) != ""
}

type createPaddockRequest struct {
	polygonInput

	FarmID            string             `json:"farm_id"`
	Name              string             `json:"name"`
	PastureType       forage.PastureType `json:"pasture_type"`
	EntryHeightCm     *float64           `json:"entry_height_cm"`
	ExitHeightCm      *float64           `json:"exit_height_cm"`
	GrazingEfficiency *float64           `json:"grazing_efficiency"`
}

type updatePaddockRequest struct {
	polygonInput

	Name              *string             `json:"name"`
	PastureType       *forage.PastureType `json:"pasture_type"`
	EntryHeightCm     *float64            `json:"entry_height_cm"`
	ExitHeightCm      *float64            `json:"exit_height_cm"`
	GrazingEfficiency *float64            `json:"grazing_efficiency"`
}

type previewRequest struct {
	polygonInput

	PastureType       forage.PastureType `json:"pasture_type"`
	EntryHeightCm     *float64           `json:"entry_height_cm"`
	ExitHeightCm      *float64           `json:"exit_height_cm"`
	GrazingEfficiency *float64           `json:"grazing_efficiency"`
}

type paddockResponse struct {
	ID                string             `json:"id"`
	FarmID            string             `json:"farm_id"`
	Name              string             `json:"name"`
	LotID             *string            `json:"lot_id"`
	Vertices          []geometry.Point   `json:"vertices"`
	PastureType       forage.PastureType `json:"pasture_type"`
	EntryHeightCm     float64            `json:"entry_height_cm"`
	ExitHeightCm      float64            `json:"exit_height_cm"`
	GrazingEfficiency float64            `json:"grazing_efficiency"`
	RotatedOutAt      *time.Time         `json:"rotated_out_at"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`

	Geometry geometry.Metrics `json:"geometry"`
	Capacity forage.Capacity  `json:"capacity"`

	Status                Status     `json:"status"`
	RecoveryEndsAt        *time.Time `json:"recovery_ends_at,omitempty"`
	RecoveryRemainingDays int        `json:"recovery_remaining_days"`
}

type previewResponse struct {
	Geometry geometry.Metrics `json:"geometry"`
	Capacity forage.Capacity  `json:"capacity"`
}

// listPastureTypesHandler godoc
// @Summary Tipos de pasto
// @Description Enumeración fija de forrajes con alturas de entrada/salida recomendadas.
// @Tags paddocks
// @Produce json
// @Success 200 {array} forage.PastureTypeInfo
// @Router /pasture-types [get]
func listPastureTypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, forage.PastureTypes())
	}
}

// previewHandler godoc
// @Summary Validar y medir un lindero
// @Description Valida el polígono (>= 4 vértices, sin auto-intersección) y devuelve métricas y capacidad estimada sin guardar nada.
// @Tags paddocks
// @Accept json
// @Produce json
// @Param payload body previewRequest true "vértices o coordinates_text"
// @Success 200 {object} previewResponse
// @Failure 400 {string} string "entrada malformada"
// @Failure 422 {string} string "polygon self-intersects"
// @Router /geometry/preview [post]
func previewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		vertices, err := req.resolve()
		if err != nil {
			writeError(w, err)
			return
		}

		pv, err := svc.Preview(PreviewInput{
			Vertices:          vertices,
			PastureType:       req.PastureType,
			EntryHeightCm:     req.EntryHeightCm,
			ExitHeightCm:      req.ExitHeightCm,
			GrazingEfficiency: req.GrazingEfficiency,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, previewResponse{Geometry: pv.Geometry, Capacity: pv.Capacity})
	}
}

// createPaddockHandler godoc
// @Summary Crear potrero
// @Tags paddocks
// @Accept json
// @Produce json
// @Param payload body createPaddockRequest true "datos del potrero"
// @Success 201 {object} paddockResponse
// @Failure 400 {string} string "entrada inválida"
// @Failure 422 {string} string "polygon self-intersects"
// @Router /paddocks [post]
func createPaddockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		var req createPaddockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		vertices, err := req.resolve()
		if err != nil {
			writeError(w, err)
			return
		}

		v, err := svc.Create(r.Context(), CreateInput{
			FarmID:            req.FarmID,
			Name:              req.Name,
			Vertices:          vertices,
			PastureType:       req.PastureType,
			EntryHeightCm:     req.EntryHeightCm,
			ExitHeightCm:      req.ExitHeightCm,
			GrazingEfficiency: req.GrazingEfficiency,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPaddockResponse(v))
	}
}

// listPaddocksHandler godoc
// @Summary Listar potreros de una finca
// @Tags paddocks
// @Produce json
// @Param farm_id query string true "ID de la finca"
// @Success 200 {array} paddockResponse
// @Router /paddocks [get]
func listPaddocksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		items, err := svc.List(r.Context(), r.URL.Query().Get("farm_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]paddockResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toPaddockResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// farmMapHandler godoc
// @Summary Mapa GeoJSON de la finca
// @Description FeatureCollection con un Polygon por potrero y su estado en properties.
// @Tags paddocks
// @Produce json
// @Param farm_id query string true "ID de la finca"
// @Success 200 {object} object
// @Router /paddocks/geojson [get]
func farmMapHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		fc, err := svc.FarmMap(r.Context(), r.URL.Query().Get("farm_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(fc)
	}
}

// getPaddockHandler godoc
// @Summary Ver potrero con geometría, capacidad y estado derivados
// @Tags paddocks
// @Produce json
// @Param paddockID path string true "ID del potrero"
// @Success 200 {object} paddockResponse
// @Failure 404 {string} string "paddock not found"
// @Router /paddocks/{paddockID} [get]
func getPaddockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		v, err := svc.Get(r.Context(), chi.URLParam(r, "paddockID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPaddockResponse(v))
	}
}

// updatePaddockHandler godoc
// @Summary Editar lindero o parámetros de pastoreo
// @Description No cambia el lote vinculado; para eso está la rotación.
// @Tags paddocks
// @Accept json
// @Produce json
// @Param paddockID path string true "ID del potrero"
// @Param payload body updatePaddockRequest true "campos a cambiar"
// @Success 200 {object} paddockResponse
// @Router /paddocks/{paddockID} [patch]
func updatePaddockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		var req updatePaddockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:              req.Name,
			PastureType:       req.PastureType,
			EntryHeightCm:     req.EntryHeightCm,
			ExitHeightCm:      req.ExitHeightCm,
			GrazingEfficiency: req.GrazingEfficiency,
		}
		if req.present() {
			vertices, err := req.resolve()
			if err != nil {
				writeError(w, err)
				return
			}
			if vertices == nil {
				vertices = []geometry.Point{}
			}
			in.Vertices = vertices
		}

		v, err := svc.Update(r.Context(), chi.URLParam(r, "paddockID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPaddockResponse(v))
	}
}

// deletePaddockHandler godoc
// @Summary Borrar potrero
// @Tags paddocks
// @Param paddockID path string true "ID del potrero"
// @Success 204
// @Failure 409 {string} string "paddock is occupied by a lot"
// @Router /paddocks/{paddockID} [delete]
func deletePaddockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "paddockID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toPaddockResponse(v View) paddockResponse {
	p := v.Paddock
	return paddockResponse{
		ID:                    p.ID,
		FarmID:                p.FarmID,
		Name:                  p.Name,
		LotID:                 p.LotID,
		Vertices:              p.Vertices,
		PastureType:           p.PastureType,
		EntryHeightCm:         p.EntryHeightCm,
		ExitHeightCm:          p.ExitHeightCm,
		GrazingEfficiency:     p.GrazingEfficiency,
		RotatedOutAt:          p.RotatedOutAt,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
		Geometry:              v.Geometry,
		Capacity:              v.Capacity,
		Status:                v.Status.Status,
		RecoveryEndsAt:        v.Status.RecoveryEndsAt,
		RecoveryRemainingDays: v.Status.RecoveryRemainingDays,
	}
}

func authorized(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, geometry.ErrSelfIntersects):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, geometry.ErrMalformedInput), errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "paddock not found", http.StatusNotFound)
	case errors.Is(err, ErrOccupied):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
