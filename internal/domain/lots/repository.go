package lots

import (
	"context"
	"time"

	"pasture-rotation/internal/domain/paddocks"
)

// Repository persiste lotes.
// Update escribe nombre, rebaño y permanencia ideal; PaddockID y EnteredAt
// son de la rotación. Solo aplica si el UpdatedAt guardado sigue siendo seen;
// si otra escritura llegó antes devuelve ErrStale.
type Repository interface {
	Create(ctx context.Context, l Lot) error
	Update(ctx context.Context, l Lot, seen time.Time) error
	GetByID(ctx context.Context, id string) (Lot, error)
	ListByFarm(ctx context.Context, farmID string) ([]Lot, error)
}

// PaddockReader es lo único que lotes necesita de potreros.
type PaddockReader interface {
	GetByID(ctx context.Context, id string) (paddocks.Paddock, error)
}
