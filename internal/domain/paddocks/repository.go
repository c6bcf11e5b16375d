package paddocks

import "context"

// Repository persiste potreros.
// Update solo escribe los campos editables (nombre, lindero, pasto, alturas,
// eficiencia); LotID y RotatedOutAt son de la rotación.
// Delete debe fallar con ErrOccupied si hay un lote vinculado.
type Repository interface {
	Create(ctx context.Context, p Paddock) error
	Update(ctx context.Context, p Paddock) error
	GetByID(ctx context.Context, id string) (Paddock, error)
	ListByFarm(ctx context.Context, farmID string) ([]Paddock, error)
	Delete(ctx context.Context, id string) error
}
