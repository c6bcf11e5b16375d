package rotation

import (
	"context"

	"pasture-rotation/internal/domain/lots"
	"pasture-rotation/internal/domain/paddocks"
)

// Store ejecuta fn como una sola unidad: si fn devuelve error no queda
// ningún cambio aplicado. Los adapters devuelven lots.ErrNotFound y
// paddocks.ErrNotFound para ids inexistentes.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	ListEvents(ctx context.Context, lotID string) ([]Event, error)
}

// Tx lee con bloqueo y escribe filas completas, incluida la vinculación
// lote/potrero. Los bloqueos se toman siempre lotes primero y después
// potreros, cada grupo en orden de id; PeekPaddock lee sin bloquear para
// saber qué lote hay que bloquear antes.
type Tx interface {
	GetLot(ctx context.Context, id string) (lots.Lot, error)
	GetPaddock(ctx context.Context, id string) (paddocks.Paddock, error)
	PeekPaddock(ctx context.Context, id string) (paddocks.Paddock, error)
	SaveLot(ctx context.Context, l lots.Lot) error
	SavePaddock(ctx context.Context, p paddocks.Paddock) error
	AppendEvent(ctx context.Context, e Event) error
}

type LotReader interface {
	GetByID(ctx context.Context, id string) (lots.Lot, error)
}
