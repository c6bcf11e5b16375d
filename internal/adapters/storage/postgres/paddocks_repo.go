package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"pasture-rotation/internal/domain/forage"
	"pasture-rotation/internal/domain/geometry"
	"pasture-rotation/internal/domain/paddocks"
)

const paddockColumns = `
	id, farm_id, name, lot_id,
	vertices, pasture_type,
	entry_height_cm, exit_height_cm, grazing_efficiency,
	rotated_out_at, created_at, updated_at`

type PaddocksRepo struct {
	db *sql.DB
}

func NewPaddocksRepo(db *sql.DB) *PaddocksRepo {
	return &PaddocksRepo{db: db}
}

func (r *PaddocksRepo) Create(ctx context.Context, p paddocks.Paddock) error {
	vertices, err := json.Marshal(p.Vertices)
	if err != nil {
		return fmt.Errorf("encode vertices: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO paddocks (`+paddockColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.FarmID,
		p.Name,
		toNullString(p.LotID),
		vertices,
		string(p.PastureType),
		p.EntryHeightCm,
		p.ExitHeightCm,
		p.GrazingEfficiency,
		toNullTime(p.RotatedOutAt),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// Update no toca lot_id ni rotated_out_at.
func (r *PaddocksRepo) Update(ctx context.Context, p paddocks.Paddock) error {
	vertices, err := json.Marshal(p.Vertices)
	if err != nil {
		return fmt.Errorf("encode vertices: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE paddocks
		SET
			name = $2,
			vertices = $3,
			pasture_type = $4,
			entry_height_cm = $5,
			exit_height_cm = $6,
			grazing_efficiency = $7,
			updated_at = $8
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		vertices,
		string(p.PastureType),
		p.EntryHeightCm,
		p.ExitHeightCm,
		p.GrazingEfficiency,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return paddocks.ErrNotFound
	}
	return nil
}

func (r *PaddocksRepo) GetByID(ctx context.Context, id string) (paddocks.Paddock, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return paddocks.Paddock{}, paddocks.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+paddockColumns+` FROM paddocks WHERE id = $1`, id)
	return scanPaddock(row)
}

func (r *PaddocksRepo) ListByFarm(ctx context.Context, farmID string) ([]paddocks.Paddock, error) {
	farmID = strings.TrimSpace(farmID)
	if farmID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+paddockColumns+`
		FROM paddocks
		WHERE farm_id = $1
		ORDER BY name ASC, id ASC
	`, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]paddocks.Paddock, 0)
	for rows.Next() {
		p, err := scanPaddock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PaddocksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM paddocks WHERE id = $1 AND lot_id IS NULL`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// no borró nada: o no existe o está ocupado
	var lotID sql.NullString
	err = r.db.QueryRowContext(ctx, `SELECT lot_id FROM paddocks WHERE id = $1`, id).Scan(&lotID)
	if errors.Is(err, sql.ErrNoRows) {
		return paddocks.ErrNotFound
	}
	if err != nil {
		return err
	}
	return paddocks.ErrOccupied
}

func scanPaddock(row scanner) (paddocks.Paddock, error) {
	var (
		p        paddocks.Paddock
		lotID    sql.NullString
		vertices []byte
		pasture  string
		outAt    sql.NullTime
	)
	if err := row.Scan(
		&p.ID,
		&p.FarmID,
		&p.Name,
		&lotID,
		&vertices,
		&pasture,
		&p.EntryHeightCm,
		&p.ExitHeightCm,
		&p.GrazingEfficiency,
		&outAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return paddocks.Paddock{}, paddocks.ErrNotFound
		}
		return paddocks.Paddock{}, err
	}

	var pts []geometry.Point
	if err := json.Unmarshal(vertices, &pts); err != nil {
		return paddocks.Paddock{}, fmt.Errorf("decode vertices of paddock %s: %w", p.ID, err)
	}
	p.Vertices = pts
	p.LotID = fromNullString(lotID)
	p.PastureType = forage.PastureType(pasture)
	p.RotatedOutAt = fromNullTime(outAt)
	return p, nil
}
