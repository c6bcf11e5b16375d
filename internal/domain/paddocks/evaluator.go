package paddocks

import (
	"time"

	"pasture-rotation/internal/domain/forage"
	"pasture-rotation/internal/domain/geometry"
)

// Evaluator centraliza todas las derivaciones (geometría, capacidad, estado)
// para que HTTP, lotes y rotación usen exactamente las mismas funciones.
type Evaluator struct {
	Forage forage.Params
	Status StatusEngine
}

func NewEvaluator(params forage.Params, status StatusEngine) Evaluator {
	return Evaluator{Forage: params, Status: status}
}

// View es el potrero con sus valores derivados a un instante dado.
type View struct {
	Paddock  Paddock
	Geometry geometry.Metrics
	Capacity forage.Capacity
	Status   StatusReport
}

// Geometry mide los vértices guardados. Si el lindero guardado dejó de ser
// válido devuelve el error del kernel.
func (e Evaluator) Geometry(p Paddock) (geometry.Metrics, error) {
	poly, err := geometry.NewPolygon(p.Vertices)
	if err != nil {
		return geometry.Metrics{}, err
	}
	return geometry.Measure(poly), nil
}

// Capacity usa el área ya redondeada, la misma que ve el usuario.
func (e Evaluator) Capacity(p Paddock) forage.Capacity {
	m, err := e.Geometry(p)
	return e.capacity(p, m, err)
}

func (e Evaluator) View(p Paddock, now time.Time) View {
	m, err := e.Geometry(p)
	return View{
		Paddock:  p,
		Geometry: m,
		Capacity: e.capacity(p, m, err),
		Status:   e.Status.Evaluate(p, now),
	}
}

func (e Evaluator) capacity(p Paddock, m geometry.Metrics, geomErr error) forage.Capacity {
	if geomErr != nil {
		return forage.Unavailable(forage.ReasonNoArea)
	}
	return e.Forage.Compute(forage.Input{
		AreaHectares:      m.AreaHectares,
		EntryHeightCm:     p.EntryHeightCm,
		ExitHeightCm:      p.ExitHeightCm,
		GrazingEfficiency: p.GrazingEfficiency,
	})
}
