package lots

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"pasture-rotation/internal/domain/forage"
	"pasture-rotation/internal/domain/geometry"
	"pasture-rotation/internal/domain/paddocks"
	"pasture-rotation/internal/domain/permanence"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Lot

	// beforeUpdate simula una escritura concurrente entre la lectura y Update.
	beforeUpdate func(r *testRepo)
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Lot{}} }

func (r *testRepo) Create(ctx context.Context, l Lot) error {
	if _, ok := r.byID[l.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[l.ID] = l.Clone()
	return nil
}

func (r *testRepo) Update(ctx context.Context, l Lot, seen time.Time) error {
	if hook := r.beforeUpdate; hook != nil {
		r.beforeUpdate = nil
		hook(r)
	}
	cur, ok := r.byID[l.ID]
	if !ok {
		return ErrNotFound
	}
	if !cur.UpdatedAt.Equal(seen) {
		return ErrStale
	}
	l.PaddockID = cur.PaddockID
	l.EnteredAt = cur.EnteredAt
	r.byID[l.ID] = l.Clone()
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Lot, error) {
	l, ok := r.byID[id]
	if !ok {
		return Lot{}, ErrNotFound
	}
	return l.Clone(), nil
}

func (r *testRepo) ListByFarm(ctx context.Context, farmID string) ([]Lot, error) {
	out := make([]Lot, 0)
	for _, l := range r.byID {
		if l.FarmID == farmID {
			out = append(out, l.Clone())
		}
	}
	return out, nil
}

type testPaddocks map[string]paddocks.Paddock

func (t testPaddocks) GetByID(ctx context.Context, id string) (paddocks.Paddock, error) {
	p, ok := t[id]
	if !ok {
		return paddocks.Paddock{}, paddocks.ErrNotFound
	}
	return p, nil
}

// -------------------------
// Helpers
// -------------------------

var fixedNow = time.Date(2026, 5, 20, 7, 0, 0, 0, time.UTC)

func newCalculator() Calculator {
	eval := paddocks.NewEvaluator(forage.DefaultParams(), paddocks.NewStatusEngine(paddocks.DefaultRecoveryDays))
	return NewCalculator(eval, permanence.DefaultIntakeFraction)
}

func newTestService(repo Repository, pads PaddockReader) *Service {
	svc := NewService(repo, pads, newCalculator())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// oneHectare: 1 ha de marandu 25/15 al 50% => 250 kg de MS.
func oneHectare(id string) paddocks.Paddock {
	lat0, lng0 := -16.7, -49.3
	side := 0.1 / geometry.KmPerDegree
	dLng := 0.1 / (geometry.KmPerDegree * math.Cos((lat0+side/2)*math.Pi/180))
	return paddocks.Paddock{
		ID:     id,
		FarmID: "farm-1",
		Name:   id,
		Vertices: []geometry.Point{
			{Lat: lat0, Lng: lng0},
			{Lat: lat0, Lng: lng0 + dLng},
			{Lat: lat0 + side, Lng: lng0 + dLng},
			{Lat: lat0 + side, Lng: lng0},
		},
		PastureType:       forage.PastureMarandu,
		EntryHeightCm:     25,
		ExitHeightCm:      15,
		GrazingEfficiency: 0.5,
	}
}

func ptr[T any](v T) *T { return &v }

// -------------------------
// Tests
// -------------------------

func TestCreate_StartsLoose(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, testPaddocks{})

	v, err := svc.Create(context.Background(), CreateInput{FarmID: "farm-1", Name: "Novillos", HeadCount: 10, AverageWeightKg: 400})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !v.Lot.Loose() || v.Lot.EnteredAt != nil || v.Lot.IdealPermanenceDays != nil {
		t.Fatalf("new lot must be loose without permanence: %+v", v.Lot)
	}
	if v.DaysInPaddock != nil {
		t.Fatalf("loose lot has no days in paddock")
	}
	if math.Abs(v.DailyConsumptionKg-92) > 1e-9 {
		t.Fatalf("expected 92 kg/day, got %v", v.DailyConsumptionKg)
	}
	if v.Severity != permanence.SeverityUnknown || v.Overdue != permanence.OverdueUnknown {
		t.Fatalf("expected unknown alerts, got %s/%s", v.Severity, v.Overdue)
	}
	if _, ok := repo.byID[v.Lot.ID]; !ok {
		t.Fatalf("lot not stored")
	}
}

func TestCreate_ValidatesInput(t *testing.T) {
	svc := newTestService(newTestRepo(), testPaddocks{})

	cases := []CreateInput{
		{Name: "A", HeadCount: 1},
		{FarmID: "f", Name: "  "},
		{FarmID: "f", Name: "A", HeadCount: -1},
		{FarmID: "f", Name: "A", AverageWeightKg: -10},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestUpdateHerd_RefreshesPermanenceAgainstCurrentPaddock(t *testing.T) {
	repo := newTestRepo()
	pads := testPaddocks{"p1": oneHectare("p1")}
	svc := newTestService(repo, pads)
	ctx := context.Background()

	entered := fixedNow.Add(-24 * time.Hour)
	repo.byID["lot-1"] = Lot{
		ID: "lot-1", FarmID: "farm-1", Name: "Vacas",
		HeadCount: 10, AverageWeightKg: 400,
		PaddockID: ptr("p1"), EnteredAt: &entered, IdealPermanenceDays: ptr(2),
	}

	// 5 × 400 × 0.023 = 46 kg/día; 250 / 46 = 5.4 => 5 días
	v, err := svc.UpdateHerd(ctx, "lot-1", UpdateHerdInput{HeadCount: ptr(5)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if v.Lot.IdealPermanenceDays == nil || *v.Lot.IdealPermanenceDays != 5 {
		t.Fatalf("expected 5 ideal days, got %v", v.Lot.IdealPermanenceDays)
	}
	if v.Severity != permanence.SeverityWarning {
		t.Fatalf("expected warning, got %s", v.Severity)
	}
	if !v.Lot.EnteredAt.Equal(entered) {
		t.Fatalf("entry date must not change")
	}
	if v.DaysInPaddock == nil || *v.DaysInPaddock != 1 || v.Overdue != permanence.OverdueNo {
		t.Fatalf("expected 1 day on time, got %v/%s", v.DaysInPaddock, v.Overdue)
	}
	if got := repo.byID["lot-1"].IdealPermanenceDays; got == nil || *got != 5 {
		t.Fatalf("stored permanence not refreshed: %v", got)
	}
}

func TestUpdateHerd_RereadsWhenRotatedInBetween(t *testing.T) {
	repo := newTestRepo()
	p2 := oneHectare("p2")
	p2.ExitHeightCm = 5 // 20 cm de caída => 500 kg de MS
	pads := testPaddocks{"p1": oneHectare("p1"), "p2": p2}
	svc := newTestService(repo, pads)
	ctx := context.Background()

	entered := fixedNow.Add(-48 * time.Hour)
	repo.byID["lot-1"] = Lot{
		ID: "lot-1", FarmID: "farm-1", Name: "Vacas",
		HeadCount: 10, AverageWeightKg: 400,
		PaddockID: ptr("p1"), EnteredAt: &entered, IdealPermanenceDays: ptr(2),
		UpdatedAt: entered,
	}

	// la rotación a p2 se confirma entre la lectura y la escritura
	repo.beforeUpdate = func(r *testRepo) {
		l := r.byID["lot-1"]
		moved := fixedNow.Add(-time.Hour)
		l.PaddockID = ptr("p2")
		l.EnteredAt = &moved
		l.IdealPermanenceDays = ptr(1)
		l.UpdatedAt = moved
		r.byID["lot-1"] = l
	}

	// 5 × 400 × 0.023 = 46 kg/día; 500 / 46 = 10.8 => 10 días contra p2
	v, err := svc.UpdateHerd(ctx, "lot-1", UpdateHerdInput{HeadCount: ptr(5)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	stored := repo.byID["lot-1"]
	if stored.PaddockID == nil || *stored.PaddockID != "p2" {
		t.Fatalf("linkage must stay on p2, got %v", stored.PaddockID)
	}
	if stored.IdealPermanenceDays == nil || *stored.IdealPermanenceDays != 10 || stored.HeadCount != 5 {
		t.Fatalf("expected 5 head and 10 ideal days against p2, got %d/%v", stored.HeadCount, stored.IdealPermanenceDays)
	}
	if v.Lot.IdealPermanenceDays == nil || *v.Lot.IdealPermanenceDays != 10 {
		t.Fatalf("view out of sync: %v", v.Lot.IdealPermanenceDays)
	}
}

func TestUpdateHerd_GivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, testPaddocks{})
	repo.byID["lot-1"] = Lot{ID: "lot-1", FarmID: "farm-1", Name: "Vacas", HeadCount: 10, AverageWeightKg: 400}

	var bump func(r *testRepo)
	bump = func(r *testRepo) {
		l := r.byID["lot-1"]
		l.UpdatedAt = l.UpdatedAt.Add(time.Second)
		r.byID["lot-1"] = l
		r.beforeUpdate = bump
	}
	repo.beforeUpdate = bump

	if _, err := svc.UpdateHerd(context.Background(), "lot-1", UpdateHerdInput{HeadCount: ptr(5)}); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if repo.byID["lot-1"].HeadCount != 10 {
		t.Fatalf("stale write must not land")
	}
}

func TestUpdateHerd_LooseLotKeepsNoPermanence(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, testPaddocks{})

	repo.byID["lot-1"] = Lot{ID: "lot-1", FarmID: "farm-1", Name: "A", HeadCount: 3, AverageWeightKg: 300}
	v, err := svc.UpdateHerd(context.Background(), "lot-1", UpdateHerdInput{AverageWeightKg: ptr(350.0)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if v.Lot.AverageWeightKg != 350 || v.Lot.IdealPermanenceDays != nil {
		t.Fatalf("unexpected lot: %+v", v.Lot)
	}
}

func TestUpdateHerd_Errors(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, testPaddocks{})
	ctx := context.Background()

	if _, err := svc.UpdateHerd(ctx, "missing", UpdateHerdInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	repo.byID["lot-1"] = Lot{ID: "lot-1", FarmID: "f", Name: "A"}
	if _, err := svc.UpdateHerd(ctx, "lot-1", UpdateHerdInput{HeadCount: ptr(-2)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// potrero vinculado que ya no existe: error del store, no se guarda nada
	repo.byID["lot-2"] = Lot{ID: "lot-2", FarmID: "f", Name: "B", PaddockID: ptr("gone")}
	if _, err := svc.UpdateHerd(ctx, "lot-2", UpdateHerdInput{HeadCount: ptr(4)}); !errors.Is(err, paddocks.ErrNotFound) {
		t.Fatalf("expected paddocks.ErrNotFound, got %v", err)
	}
	if repo.byID["lot-2"].HeadCount != 0 {
		t.Fatalf("lot must not be saved on failure")
	}
}

func TestView_OverdueFlag(t *testing.T) {
	calc := newCalculator()

	cases := []struct {
		name  string
		days  int
		ideal *int
		want  permanence.Overdue
	}{
		{"ten days against seven", 10, ptr(7), permanence.OverdueYes},
		{"five days against seven", 5, ptr(7), permanence.OverdueNo},
		{"exactly the ideal", 7, ptr(7), permanence.OverdueNo},
		{"unknown ideal", 10, nil, permanence.OverdueUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entered := fixedNow.Add(-time.Duration(tc.days) * 24 * time.Hour)
			l := Lot{PaddockID: ptr("p1"), EnteredAt: &entered, IdealPermanenceDays: tc.ideal, HeadCount: 1, AverageWeightKg: 100}
			if got := calc.View(l, fixedNow).Overdue; got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCalculator_IdealDaysUnknownWithoutBudget(t *testing.T) {
	calc := newCalculator()
	p := oneHectare("p1")
	p.ExitHeightCm = p.EntryHeightCm

	if d := calc.IdealDays(Lot{HeadCount: 10, AverageWeightKg: 400}, p); d != nil {
		t.Fatalf("expected nil ideal days, got %d", *d)
	}
	if d := calc.IdealDays(Lot{}, oneHectare("p2")); d != nil {
		t.Fatalf("expected nil ideal days for empty herd, got %d", *d)
	}
}
