package paddocks

import (
	"time"

	"pasture-rotation/internal/domain/forage"
	"pasture-rotation/internal/domain/geometry"
)

// Paddock es un potrero con lindero poligonal. Área, capacidad y estado no se
// guardan: se derivan en cada lectura (ver Evaluator).
type Paddock struct {
	ID     string
	FarmID string
	Name   string

	// Lote que ocupa el potrero; a lo sumo uno. Solo lo modifica la rotación.
	LotID *string

	Vertices []geometry.Point

	PastureType       forage.PastureType
	EntryHeightCm     float64
	ExitHeightCm      float64
	GrazingEfficiency float64

	// Momento en que salió el último lote; inicia el descanso.
	RotatedOutAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Paddock) Occupied() bool { return p.LotID != nil && *p.LotID != "" }

// Clone copia slices y punteros para que nadie comparta estado mutable.
func (p Paddock) Clone() Paddock {
	out := p
	out.Vertices = append([]geometry.Point(nil), p.Vertices...)
	if p.LotID != nil {
		id := *p.LotID
		out.LotID = &id
	}
	if p.RotatedOutAt != nil {
		t := *p.RotatedOutAt
		out.RotatedOutAt = &t
	}
	return out
}
