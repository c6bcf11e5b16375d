package geometry

import (
	"errors"
	"fmt"
	"math"

	geojson "github.com/paulmach/go.geojson"

	"pasture-rotation/internal/platform/validation"
)

var (
	// ErrMalformedInput agrupa vértices insuficientes, coordenadas ilegibles o fuera de rango.
	ErrMalformedInput = errors.New("malformed polygon input")

	ErrTooFewVertices = fmt.Errorf("%w: at least %d vertices required", ErrMalformedInput, MinVertices)

	// ErrSelfIntersects: entrada sintácticamente válida pero el polígono no es simple.
	ErrSelfIntersects = errors.New("polygon self-intersects")
)

const (
	MetricDecimals     = 2
	CoordinateDecimals = 6
)

// CoordinateError señala un vértice concreto inválido.
type CoordinateError struct {
	Index  int // 1-based (fila o posición)
	Raw    string
	Reason string
}

func (e *CoordinateError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("coordinate %d (%q): %s", e.Index, e.Raw, e.Reason)
	}
	return fmt.Sprintf("coordinate %d: %s", e.Index, e.Reason)
}

func (e *CoordinateError) Unwrap() error { return ErrMalformedInput }

// Polygon es un anillo simple ya validado. El cierre es implícito.
type Polygon struct {
	vertices []Point
}

// NewPolygon normaliza (quita el punto de cierre repetido) y valida.
func NewPolygon(points []Point) (Polygon, error) {
	vs := Normalize(points)
	if len(vs) < MinVertices {
		return Polygon{}, ErrTooFewVertices
	}
	for i, p := range vs {
		if err := CheckPoint(p); err != nil {
			return Polygon{}, &CoordinateError{Index: i + 1, Reason: err.Error()}
		}
	}
	if SelfIntersects(vs) {
		return Polygon{}, ErrSelfIntersects
	}
	return Polygon{vertices: vs}, nil
}

// Normalize copia los puntos y descarta el último si repite el primero.
func Normalize(points []Point) []Point {
	vs := append([]Point(nil), points...)
	if len(vs) > 1 && vs[0] == vs[len(vs)-1] {
		vs = vs[:len(vs)-1]
	}
	return vs
}

// CheckPoint valida rango y finitud de un vértice.
func CheckPoint(p Point) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return errors.New("coordinate is not a finite number")
	}
	return validation.Struct(p)
}

func (p Polygon) Vertices() []Point { return append([]Point(nil), p.vertices...) }

func (p Polygon) Len() int { return len(p.vertices) }

// Metrics es el registro de geometría que se expone hacia afuera.
type Metrics struct {
	AreaHectares float64      `json:"area_hectares"`
	PerimeterKm  float64      `json:"perimeter_km"`
	Centroid     Point        `json:"centroid"`
	BBox         BBox         `json:"bbox"`
	VertexCount  int          `json:"vertex_count"`
	Ring         [][2]float64 `json:"ring"`
}

// Measure deriva todas las métricas; área y perímetro a 2 decimales,
// coordenadas a 6.
func Measure(p Polygon) Metrics {
	vs := p.vertices
	c := Centroid(vs)
	b := Bounds(vs)
	return Metrics{
		AreaHectares: Round(Area(vs), MetricDecimals),
		PerimeterKm:  Round(Perimeter(vs), MetricDecimals),
		Centroid: Point{
			Lat: Round(c.Lat, CoordinateDecimals),
			Lng: Round(c.Lng, CoordinateDecimals),
		},
		BBox: BBox{
			MinLng: Round(b.MinLng, CoordinateDecimals),
			MinLat: Round(b.MinLat, CoordinateDecimals),
			MaxLng: Round(b.MaxLng, CoordinateDecimals),
			MaxLat: Round(b.MaxLat, CoordinateDecimals),
		},
		VertexCount: len(vs),
		Ring:        Ring(vs),
	}
}

// GeoJSON arma la geometría Polygon (lng, lat) para los colaboradores de mapa.
func GeoJSON(p Polygon) *geojson.Geometry {
	ring := Ring(p.vertices)
	coords := make([][]float64, 0, len(ring))
	for _, c := range ring {
		coords = append(coords, []float64{c[0], c[1]})
	}
	return geojson.NewPolygonGeometry([][][]float64{coords})
}
