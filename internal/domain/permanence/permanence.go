package permanence

import (
	"math"
	"time"

	"pasture-rotation/internal/domain/forage"
)

// DefaultIntakeFraction: consumo diario de MS como fracción del peso vivo.
const DefaultIntakeFraction = 0.023

const (
	CriticalBelowDays = 3
	WarningBelowDays  = 7
)

// DailyConsumptionKg = cabezas × peso medio × fracción de consumo.
func DailyConsumptionKg(headCount int, averageWeightKg, intakeFraction float64) float64 {
	if headCount <= 0 || averageWeightKg <= 0 || intakeFraction <= 0 {
		return 0
	}
	return float64(headCount) * averageWeightKg * intakeFraction
}

// IdealDays = floor(MS del potrero / consumo diario). nil cuando no se puede
// calcular (sin presupuesto forrajero o consumo <= 0).
func IdealDays(c forage.Capacity, dailyConsumptionKg float64) *int {
	if !c.Available || dailyConsumptionKg <= 0 {
		return nil
	}
	d := int(math.Floor(c.DryMatterKg / dailyConsumptionKg))
	return &d
}

type Severity string

const (
	SeverityUnknown  Severity = "unknown"
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Classify es solo informativo para alertas.
func Classify(idealDays *int) Severity {
	switch {
	case idealDays == nil:
		return SeverityUnknown
	case *idealDays < CriticalBelowDays:
		return SeverityCritical
	case *idealDays < WarningBelowDays:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

// Overdue es tri-estado: sin datos no se asume "a tiempo".
type Overdue string

const (
	OverdueUnknown Overdue = "unknown"
	OverdueYes     Overdue = "overdue"
	OverdueNo      Overdue = "on_time"
)

func (o Overdue) Known() bool { return o != OverdueUnknown }

func EvaluateOverdue(daysSinceEntry, idealDays *int) Overdue {
	if daysSinceEntry == nil || idealDays == nil {
		return OverdueUnknown
	}
	if *daysSinceEntry > *idealDays {
		return OverdueYes
	}
	return OverdueNo
}

// DaysSince cuenta días completos desde enteredAt. nil si no hay fecha.
func DaysSince(enteredAt *time.Time, now time.Time) *int {
	if enteredAt == nil {
		return nil
	}
	elapsed := now.Sub(*enteredAt)
	if elapsed < 0 {
		elapsed = 0
	}
	d := int(elapsed / (24 * time.Hour))
	return &d
}
