package geometry

import "math"

const (
	// KmPerDegree es la longitud aproximada de 1° de latitud.
	KmPerDegree = 111.32

	EarthRadiusKm = 6371.0

	// MinVertices es el mínimo para considerar un polígono de potrero.
	MinVertices = 4
)

// Point es un vértice en grados decimales.
type Point struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// BBox en orden (minLng, minLat, maxLng, maxLat).
type BBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// Area en hectáreas. Proyección equirectangular local con el coseno de la
// latitud media y fórmula del shoelace. Menos de 3 vértices => 0.
func Area(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}

	var meanLat float64
	for _, p := range points {
		meanLat += p.Lat
	}
	meanLat /= float64(n)

	kx := KmPerDegree * math.Cos(toRad(meanLat))
	ky := KmPerDegree

	// relativo al primer vértice para no perder precisión
	origin := points[0]
	var sum float64
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		ax, ay := (a.Lng-origin.Lng)*kx, (a.Lat-origin.Lat)*ky
		bx, by := (b.Lng-origin.Lng)*kx, (b.Lat-origin.Lat)*ky
		sum += ax*by - bx*ay
	}

	km2 := math.Abs(sum) / 2
	return km2 * 100
}

// Perimeter en km, Haversine incluyendo la arista de cierre.
func Perimeter(points []Point) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		total += Haversine(points[i], points[(i+1)%n])
	}
	return total
}

// Haversine devuelve la distancia de círculo máximo en km.
func Haversine(a, b Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Centroid es el promedio de vértices (no ponderado por área).
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range points {
		c.Lat += p.Lat
		c.Lng += p.Lng
	}
	c.Lat /= float64(len(points))
	c.Lng /= float64(len(points))
	return c
}

func Bounds(points []Point) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	b := BBox{
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
	}
	for _, p := range points[1:] {
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
	}
	return b
}

// SelfIntersects prueba todos los pares de aristas no adyacentes.
// O(n²): los linderos de un potrero tienen pocas decenas de vértices.
func SelfIntersects(points []Point) bool {
	n := len(points)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := points[i], points[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// comparten vértice
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := points[j], points[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// Ring convierte a anillo (lng, lat) cerrado.
func Ring(points []Point) [][2]float64 {
	if len(points) == 0 {
		return nil
	}
	ring := make([][2]float64, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, [2]float64{p.Lng, p.Lat})
	}
	first, last := points[0], points[len(points)-1]
	if first != last {
		ring = append(ring, [2]float64{first.Lng, first.Lat})
	}
	return ring
}

// orientation: >0 antihorario, <0 horario, 0 colineal (x=lng, y=lat).
func orientation(a, b, c Point) float64 {
	return (b.Lng-a.Lng)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lng-a.Lng)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func segmentsIntersect(p1, p2, q1, q2 Point) bool {
	o1 := sign(orientation(p1, p2, q1))
	o2 := sign(orientation(p1, p2, q2))
	o3 := sign(orientation(q1, q2, p1))
	o4 := sign(orientation(q1, q2, p2))

	if o1 != o2 && o3 != o4 {
		return true
	}

	// casos colineales: un extremo cae sobre el otro segmento
	if o1 == 0 && onSegment(p1, q1, p2) {
		return true
	}
	if o2 == 0 && onSegment(p1, q2, p2) {
		return true
	}
	if o3 == 0 && onSegment(q1, p1, q2) {
		return true
	}
	if o4 == 0 && onSegment(q1, p2, q2) {
		return true
	}
	return false
}

// onSegment asume a, b, c colineales y revisa si b está entre a y c.
func onSegment(a, b, c Point) bool {
	return b.Lng <= math.Max(a.Lng, c.Lng) && b.Lng >= math.Min(a.Lng, c.Lng) &&
		b.Lat <= math.Max(a.Lat, c.Lat) && b.Lat >= math.Min(a.Lat, c.Lat)
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

// Round redondea a n decimales.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
