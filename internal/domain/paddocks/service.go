package paddocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pasture-rotation/internal/domain/forage"
	"pasture-rotation/internal/domain/geometry"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("paddock not found")
	ErrOccupied     = errors.New("paddock is occupied by a lot")
)

const MaxHeightCm = 300

// Editor guarda la edición de un potrero junto con lo que dependa de ella
// (la permanencia ideal del lote que lo ocupa) en una sola transacción.
type Editor interface {
	ApplyEdit(ctx context.Context, p Paddock) (Paddock, error)
}

type Service struct {
	repo   Repository
	eval   Evaluator
	editor Editor
	now    func() time.Time

	defaultEfficiency float64
}

func NewService(repo Repository, eval Evaluator, defaultEfficiency float64) *Service {
	if defaultEfficiency <= 0 || defaultEfficiency > 1 {
		defaultEfficiency = forage.DefaultGrazingEfficiency
	}
	return &Service{
		repo:              repo,
		eval:              eval,
		now:               time.Now,
		defaultEfficiency: defaultEfficiency,
	}
}

func (s *Service) Evaluator() Evaluator { return s.eval }

// UseEditor hace que Update pase por e en vez de escribir directo en el repo.
func (s *Service) UseEditor(e Editor) { s.editor = e }

type CreateInput struct {
	FarmID      string
	Name        string
	Vertices    []geometry.Point
	PastureType forage.PastureType

	// nil = usar el default del tipo de pasto / de configuración
	EntryHeightCm     *float64
	ExitHeightCm      *float64
	GrazingEfficiency *float64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	farmID := strings.TrimSpace(in.FarmID)
	name := strings.TrimSpace(in.Name)
	if farmID == "" || name == "" {
		return View{}, fmt.Errorf("%w: farm_id and name are required", ErrInvalidInput)
	}
	if !in.PastureType.Valid() {
		return View{}, fmt.Errorf("%w: unknown pasture type %q", ErrInvalidInput, in.PastureType)
	}

	poly, err := geometry.NewPolygon(in.Vertices)
	if err != nil {
		return View{}, err
	}

	defaults, _ := in.PastureType.DefaultHeights()
	p := Paddock{
		ID:                uuid.NewString(),
		FarmID:            farmID,
		Name:              name,
		Vertices:          poly.Vertices(),
		PastureType:       in.PastureType,
		EntryHeightCm:     valueOr(in.EntryHeightCm, defaults.EntryCm),
		ExitHeightCm:      valueOr(in.ExitHeightCm, defaults.ExitCm),
		GrazingEfficiency: valueOr(in.GrazingEfficiency, s.defaultEfficiency),
	}
	if err := checkParams(p); err != nil {
		return View{}, err
	}

	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.Create(ctx, p); err != nil {
		return View{}, err
	}
	return s.eval.View(p, now), nil
}

type UpdateInput struct {
	// nil = no tocar
	Name              *string
	Vertices          []geometry.Point
	PastureType       *forage.PastureType
	EntryHeightCm     *float64
	ExitHeightCm      *float64
	GrazingEfficiency *float64
}

// Update edita parámetros y lindero. La vinculación con lotes no se toca aquí.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (View, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return View{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return View{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		p.Name = name
	}
	if in.Vertices != nil {
		poly, err := geometry.NewPolygon(in.Vertices)
		if err != nil {
			return View{}, err
		}
		p.Vertices = poly.Vertices()
	}
	if in.PastureType != nil {
		if !in.PastureType.Valid() {
			return View{}, fmt.Errorf("%w: unknown pasture type %q", ErrInvalidInput, *in.PastureType)
		}
		p.PastureType = *in.PastureType
	}
	p.EntryHeightCm = valueOr(in.EntryHeightCm, p.EntryHeightCm)
	p.ExitHeightCm = valueOr(in.ExitHeightCm, p.ExitHeightCm)
	p.GrazingEfficiency = valueOr(in.GrazingEfficiency, p.GrazingEfficiency)

	if err := checkParams(p); err != nil {
		return View{}, err
	}

	now := s.now()
	p.UpdatedAt = now
	if s.editor != nil {
		saved, err := s.editor.ApplyEdit(ctx, p)
		if err != nil {
			return View{}, err
		}
		return s.eval.View(saved, now), nil
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return View{}, err
	}
	return s.eval.View(p, now), nil
}

func (s *Service) Get(ctx context.Context, id string) (View, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.eval.View(p, s.now()), nil
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
	for _, p := range items {
		out = append(out, s.eval.View(p, now))
	}
	return out, nil
}

// Delete no borra potreros con lote vinculado (ErrOccupied).
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}

// Preview mide un lindero sin guardarlo y, si vienen parámetros, estima la capacidad.
type PreviewInput struct {
	Vertices          []geometry.Point
	PastureType       forage.PastureType
	EntryHeightCm     *float64
	ExitHeightCm      *float64
	GrazingEfficiency *float64
}

type Preview struct {
	Geometry geometry.Metrics
	Capacity forage.Capacity
}

func (s *Service) Preview(in PreviewInput) (Preview, error) {
	poly, err := geometry.NewPolygon(in.Vertices)
	if err != nil {
		return Preview{}, err
	}

	p := Paddock{
		Vertices:          poly.Vertices(),
		PastureType:       in.PastureType,
		GrazingEfficiency: valueOr(in.GrazingEfficiency, s.defaultEfficiency),
	}
	if defaults, ok := in.PastureType.DefaultHeights(); ok {
		p.EntryHeightCm, p.ExitHeightCm = defaults.EntryCm, defaults.ExitCm
	}
	p.EntryHeightCm = valueOr(in.EntryHeightCm, p.EntryHeightCm)
	p.ExitHeightCm = valueOr(in.ExitHeightCm, p.ExitHeightCm)
	if err := checkParams(p); err != nil {
		return Preview{}, err
	}

	m := geometry.Measure(poly)
	return Preview{Geometry: m, Capacity: s.eval.capacity(p, m, nil)}, nil
}

func (s *Service) get(ctx context.Context, id string) (Paddock, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Paddock{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

// checkParams valida rangos. Entrada <= salida se permite: la capacidad queda
// "no disponible" mientras el potrero se termina de configurar.
func checkParams(p Paddock) error {
	if p.EntryHeightCm < 0 || p.EntryHeightCm > MaxHeightCm || p.ExitHeightCm < 0 || p.ExitHeightCm > MaxHeightCm {
		return fmt.Errorf("%w: heights must be between 0 and %d cm", ErrInvalidInput, MaxHeightCm)
	}
	if p.GrazingEfficiency <= 0 || p.GrazingEfficiency > 1 {
		return fmt.Errorf("%w: grazing efficiency must be in (0, 1]", ErrInvalidInput)
	}
	return nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
