package rotation

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrLotNotFound     = errors.New("lot not found")
	ErrPaddockNotFound = errors.New("paddock not found")
	ErrConflict        = errors.New("paddock already occupied")
)

// ConflictError: el destino tiene otro lote y no se confirmó el override.
type ConflictError struct {
	PaddockID     string
	OccupantLotID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("paddock %s is occupied by lot %s", e.PaddockID, e.OccupantLotID)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

type Reason string

const (
	ReasonRotation  Reason = "rotation"
	ReasonDisplaced Reason = "displaced_by_override"
)

// Event es una línea del historial de rotaciones. From/To nil = pasto suelto.
type Event struct {
	ID            string
	FarmID        string
	LotID         string
	FromPaddockID *string
	ToPaddockID   *string
	OccurredAt    time.Time
	Override      bool
	Reason        Reason
}
