package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"pasture-rotation/internal/domain/lots"
)

const lotColumns = `
	id, farm_id, name,
	head_count, average_weight_kg,
	paddock_id, entered_at, ideal_permanence_days,
	created_at, updated_at`

type LotsRepo struct {
	db *sql.DB
}

func NewLotsRepo(db *sql.DB) *LotsRepo {
	return &LotsRepo{db: db}
}

func (r *LotsRepo) Create(ctx context.Context, l lots.Lot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lots (`+lotColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		l.ID,
		l.FarmID,
		l.Name,
		l.HeadCount,
		l.AverageWeightKg,
		toNullString(l.PaddockID),
		toNullTime(l.EnteredAt),
		toNullInt(l.IdealPermanenceDays),
		l.CreatedAt,
		l.UpdatedAt,
	)
	return err
}

// Update no toca paddock_id ni entered_at. updated_at hace de versión.
func (r *LotsRepo) Update(ctx context.Context, l lots.Lot, seen time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lots
		SET
			name = $2,
			head_count = $3,
			average_weight_kg = $4,
			ideal_permanence_days = $5,
			updated_at = $6
		WHERE id = $1 AND updated_at = $7
	`,
		l.ID,
		l.Name,
		l.HeadCount,
		l.AverageWeightKg,
		toNullInt(l.IdealPermanenceDays),
		l.UpdatedAt,
		seen,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM lots WHERE id = $1)`, l.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return lots.ErrNotFound
	}
	return lots.ErrStale
}

func (r *LotsRepo) GetByID(ctx context.Context, id string) (lots.Lot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return lots.Lot{}, lots.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1`, id)
	return scanLot(row)
}

func (r *LotsRepo) ListByFarm(ctx context.Context, farmID string) ([]lots.Lot, error) {
	farmID = strings.TrimSpace(farmID)
	if farmID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+lotColumns+`
		FROM lots
		WHERE farm_id = $1
		ORDER BY name ASC, id ASC
	`, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]lots.Lot, 0)
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLot(row scanner) (lots.Lot, error) {
	var (
		l         lots.Lot
		paddockID sql.NullString
		entered   sql.NullTime
		ideal     sql.NullInt64
	)
	if err := row.Scan(
		&l.ID,
		&l.FarmID,
		&l.Name,
		&l.HeadCount,
		&l.AverageWeightKg,
		&paddockID,
		&entered,
		&ideal,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lots.Lot{}, lots.ErrNotFound
		}
		return lots.Lot{}, err
	}
	l.PaddockID = fromNullString(paddockID)
	l.EnteredAt = fromNullTime(entered)
	l.IdealPermanenceDays = fromNullInt(ideal)
	return l, nil
}
