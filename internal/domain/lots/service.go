package lots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pasture-rotation/internal/platform/validation"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("lot not found")
	ErrStale        = errors.New("lot changed concurrently")
)

// updateAttempts acota los reintentos de UpdateHerd ante ErrStale.
const updateAttempts = 3

type Service struct {
	repo     Repository
	paddocks PaddockReader
	calc     Calculator
	now      func() time.Time
}

func NewService(repo Repository, paddocks PaddockReader, calc Calculator) *Service {
	return &Service{
		repo:     repo,
		paddocks: paddocks,
		calc:     calc,
		now:      time.Now,
	}
}

type CreateInput struct {
	FarmID          string  `json:"farm_id" validate:"required"`
	Name            string  `json:"name" validate:"required"`
	HeadCount       int     `json:"head_count" validate:"gte=0"`
	AverageWeightKg float64 `json:"average_weight_kg" validate:"gte=0"`
}

// Create arma un lote en pasto suelto; para entrar a un potrero se rota.
func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	in.FarmID = strings.TrimSpace(in.FarmID)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return View{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	l := Lot{
		ID:              uuid.NewString(),
		FarmID:          in.FarmID,
		Name:            in.Name,
		HeadCount:       in.HeadCount,
		AverageWeightKg: in.AverageWeightKg,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return View{}, err
	}
	return s.calc.View(l, now), nil
}

func (s *Service) Get(ctx context.Context, id string) (View, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.calc.View(l, s.now()), nil
}

func (s *Service) List(ctx context.Context, farmID string) ([]View, error) {
	farmID = strings.TrimSpace(farmID)
	if farmID == "" {
		return nil, fmt.Errorf("%w: farm_id is required", ErrInvalidInput)
	}
	items, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]View, 0, len(items))
	for _, l := range items {
		out = append(out, s.calc.View(l, now))
	}
	return out, nil
}

type UpdateHerdInput struct {
	// nil = no tocar
	Name            *string
	HeadCount       *int
	AverageWeightKg *float64
}

// UpdateHerd cambia el rebaño y, si el lote está en un potrero, recalcula la
// permanencia ideal contra el presupuesto actual. La fecha de entrada no cambia.
// Si una rotación o una edición del potrero toca el lote en medio, se relee y
// se recalcula.
func (s *Service) UpdateHerd(ctx context.Context, id string, in UpdateHerdInput) (View, error) {
	for attempt := 1; ; attempt++ {
		v, err := s.updateHerd(ctx, id, in)
		if errors.Is(err, ErrStale) && attempt < updateAttempts {
			continue
		}
		return v, err
	}
}

func (s *Service) updateHerd(ctx context.Context, id string, in UpdateHerdInput) (View, error) {
	l, err := s.get(ctx, id)
	if err != nil {
		return View{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return View{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		l.Name = name
	}
	if in.HeadCount != nil {
		if *in.HeadCount < 0 {
			return View{}, fmt.Errorf("%w: head_count must be >= 0", ErrInvalidInput)
		}
		l.HeadCount = *in.HeadCount
	}
	if in.AverageWeightKg != nil {
		if *in.AverageWeightKg < 0 {
			return View{}, fmt.Errorf("%w: average_weight_kg must be >= 0", ErrInvalidInput)
		}
		l.AverageWeightKg = *in.AverageWeightKg
	}

	if !l.Loose() {
		p, err := s.paddocks.GetByID(ctx, *l.PaddockID)
		if err != nil {
			return View{}, fmt.Errorf("load paddock %s: %w", *l.PaddockID, err)
		}
		l.IdealPermanenceDays = s.calc.IdealDays(l, p)
	}

	seen := l.UpdatedAt
	now := s.now()
	l.UpdatedAt = now
	if err := s.repo.Update(ctx, l, seen); err != nil {
		return View{}, err
	}
	return s.calc.View(l, now), nil
}

func (s *Service) get(ctx context.Context, id string) (Lot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Lot{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}
