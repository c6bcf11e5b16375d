package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"pasture-rotation/internal/domain/lots"
	"pasture-rotation/internal/domain/paddocks"
	"pasture-rotation/internal/domain/rotation"
)

const paddockLotConstraint = "paddocks_lot_unique"

// RotationStore implementa rotation.Store con BEGIN ... FOR UPDATE ... COMMIT.
type RotationStore struct {
	db *sql.DB
}

func NewRotationStore(db *sql.DB) *RotationStore {
	return &RotationStore{db: db}
}

func (s *RotationStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx rotation.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rotation tx: %w", err)
	}

	if err := fn(ctx, &rotationTx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		if isUniqueViolation(err, paddockLotConstraint) {
			return fmt.Errorf("%w: %v", rotation.ErrConflict, err)
		}
		return fmt.Errorf("commit rotation tx: %w", err)
	}
	return nil
}

func (s *RotationStore) ListEvents(ctx context.Context, lotID string) ([]rotation.Event, error) {
	lotID = strings.TrimSpace(lotID)
	if lotID == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, farm_id, lot_id, from_paddock_id, to_paddock_id, occurred_at, override, reason
		FROM rotation_events
		WHERE lot_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]rotation.Event, 0)
	for rows.Next() {
		var (
			e        rotation.Event
			from, to sql.NullString
			reason   string
		)
		if err := rows.Scan(&e.ID, &e.FarmID, &e.LotID, &from, &to, &e.OccurredAt, &e.Override, &reason); err != nil {
			return nil, err
		}
		e.FromPaddockID = fromNullString(from)
		e.ToPaddockID = fromNullString(to)
		e.Reason = rotation.Reason(reason)
		out = append(out, e)
	}
	return out, rows.Err()
}

type rotationTx struct {
	tx *sql.Tx
}

func (t *rotationTx) GetLot(ctx context.Context, id string) (lots.Lot, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1 FOR UPDATE`, id)
	return scanLot(row)
}

func (t *rotationTx) GetPaddock(ctx context.Context, id string) (paddocks.Paddock, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+paddockColumns+` FROM paddocks WHERE id = $1 FOR UPDATE`, id)
	return scanPaddock(row)
}

// PeekPaddock lee sin FOR UPDATE.
func (t *rotationTx) PeekPaddock(ctx context.Context, id string) (paddocks.Paddock, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+paddockColumns+` FROM paddocks WHERE id = $1`, id)
	return scanPaddock(row)
}

// SaveLot escribe también la vinculación; solo la usa la rotación.
func (t *rotationTx) SaveLot(ctx context.Context, l lots.Lot) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE lots
		SET
			paddock_id = $2,
			entered_at = $3,
			ideal_permanence_days = $4,
			updated_at = $5
		WHERE id = $1
	`,
		l.ID,
		toNullString(l.PaddockID),
		toNullTime(l.EnteredAt),
		toNullInt(l.IdealPermanenceDays),
		l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lots.ErrNotFound
	}
	return nil
}

// SavePaddock escribe la fila completa: la usan la rotación y las ediciones
// de potreros ocupados.
func (t *rotationTx) SavePaddock(ctx context.Context, p paddocks.Paddock) error {
	vertices, err := json.Marshal(p.Vertices)
	if err != nil {
		return fmt.Errorf("encode vertices: %w", err)
	}

	res, err := t.tx.ExecContext(ctx, `
		UPDATE paddocks
		SET
			name = $2,
			vertices = $3,
			pasture_type = $4,
			entry_height_cm = $5,
			exit_height_cm = $6,
			grazing_efficiency = $7,
			lot_id = $8,
			rotated_out_at = $9,
			updated_at = $10
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		vertices,
		string(p.PastureType),
		p.EntryHeightCm,
		p.ExitHeightCm,
		p.GrazingEfficiency,
		toNullString(p.LotID),
		toNullTime(p.RotatedOutAt),
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, paddockLotConstraint) {
			return fmt.Errorf("%w: %v", rotation.ErrConflict, err)
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return paddocks.ErrNotFound
	}
	return nil
}

func (t *rotationTx) AppendEvent(ctx context.Context, e rotation.Event) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO rotation_events (id, farm_id, lot_id, from_paddock_id, to_paddock_id, occurred_at, override, reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.FarmID,
		e.LotID,
		toNullString(e.FromPaddockID),
		toNullString(e.ToPaddockID),
		e.OccurredAt,
		e.Override,
		string(e.Reason),
	)
	return err
}
