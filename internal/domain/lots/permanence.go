package lots

import (
	"time"

	"pasture-rotation/internal/domain/paddocks"
	"pasture-rotation/internal/domain/permanence"
)

// Calculator une un lote con el presupuesto forrajero de un potrero.
// La rotación lo usa al entrar; el servicio de lotes al cambiar el rebaño.
type Calculator struct {
	Evaluator      paddocks.Evaluator
	IntakeFraction float64
}

func NewCalculator(eval paddocks.Evaluator, intakeFraction float64) Calculator {
	if intakeFraction <= 0 {
		intakeFraction = permanence.DefaultIntakeFraction
	}
	return Calculator{Evaluator: eval, IntakeFraction: intakeFraction}
}

func (c Calculator) DailyConsumptionKg(l Lot) float64 {
	return permanence.DailyConsumptionKg(l.HeadCount, l.AverageWeightKg, c.IntakeFraction)
}

// IdealDays contra el presupuesto actual del potrero.
func (c Calculator) IdealDays(l Lot, p paddocks.Paddock) *int {
	return permanence.IdealDays(c.Evaluator.Capacity(p), c.DailyConsumptionKg(l))
}

// View es el lote con sus valores de alerta a un instante dado.
type View struct {
	Lot                Lot
	DaysInPaddock      *int
	DailyConsumptionKg float64
	Severity           permanence.Severity
	Overdue            permanence.Overdue
}

func (c Calculator) View(l Lot, now time.Time) View {
	var days *int
	if !l.Loose() {
		days = permanence.DaysSince(l.EnteredAt, now)
	}
	return View{
		Lot:                l,
		DaysInPaddock:      days,
		DailyConsumptionKg: c.DailyConsumptionKg(l),
		Severity:           permanence.Classify(l.IdealPermanenceDays),
		Overdue:            permanence.EvaluateOverdue(days, l.IdealPermanenceDays),
	}
}
