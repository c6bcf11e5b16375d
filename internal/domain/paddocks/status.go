package paddocks

import (
	"time"
)

type Status string

const (
	StatusAvailable  Status = "available"
	StatusOccupied   Status = "occupied"
	StatusRecovering Status = "recovering"
)

const DefaultRecoveryDays = 30

// StatusEngine deriva el estado de un potrero a partir de
// (lote vinculado, fecha de salida, ahora). No hay transición explícita
// recovering -> available: vence sola con el tiempo.
type StatusEngine struct {
	RecoveryWindow time.Duration
}

func NewStatusEngine(recoveryDays int) StatusEngine {
	return StatusEngine{RecoveryWindow: time.Duration(recoveryDays) * 24 * time.Hour}
}

type StatusReport struct {
	Status                Status     `json:"status"`
	RecoveryEndsAt        *time.Time `json:"recovery_ends_at,omitempty"`
	RecoveryRemainingDays int        `json:"recovery_remaining_days"`
}

func (e StatusEngine) Evaluate(p Paddock, now time.Time) StatusReport {
	if p.Occupied() {
		return StatusReport{Status: StatusOccupied}
	}
	if p.RotatedOutAt == nil || e.RecoveryWindow <= 0 {
		return StatusReport{Status: StatusAvailable}
	}

	ends := p.RotatedOutAt.Add(e.RecoveryWindow)
	if !now.Before(ends) {
		return StatusReport{Status: StatusAvailable}
	}

	remaining := ends.Sub(now)
	if remaining > e.RecoveryWindow {
		// reloj adelantado en quien escribió RotatedOutAt
		remaining = e.RecoveryWindow
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}

	return StatusReport{
		Status:                StatusRecovering,
		RecoveryEndsAt:        &ends,
		RecoveryRemainingDays: days,
	}
}
