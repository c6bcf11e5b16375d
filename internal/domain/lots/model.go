package lots

import "time"

// Lot es un grupo de animales manejado como unidad. Aquí solo interesa el
// rebaño (cabezas, peso medio) y la vinculación con un potrero.
type Lot struct {
	ID     string
	FarmID string
	Name   string

	HeadCount       int
	AverageWeightKg float64

	// nil = pasto suelto. Solo lo modifica la rotación.
	PaddockID *string
	EnteredAt *time.Time

	// Calculado al entrar al potrero; nil si no hay presupuesto o consumo.
	IdealPermanenceDays *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l Lot) Loose() bool { return l.PaddockID == nil || *l.PaddockID == "" }

func (l Lot) Clone() Lot {
	out := l
	if l.PaddockID != nil {
		id := *l.PaddockID
		out.PaddockID = &id
	}
	if l.EnteredAt != nil {
		t := *l.EnteredAt
		out.EnteredAt = &t
	}
	if l.IdealPermanenceDays != nil {
		d := *l.IdealPermanenceDays
		out.IdealPermanenceDays = &d
	}
	return out
}
