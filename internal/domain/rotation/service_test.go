package rotation

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pasture-rotation/internal/domain/forage"
	"pasture-rotation/internal/domain/geometry"
	"pasture-rotation/internal/domain/lots"
	"pasture-rotation/internal/domain/paddocks"
	"pasture-rotation/internal/domain/permanence"
	"pasture-rotation/internal/platform/logger"
)

// -------------------------
// Test store (in-memory, copy-on-tx)
// -------------------------

type state struct {
	lots     map[string]lots.Lot
	paddocks map[string]paddocks.Paddock
	events   []Event
}

func (s state) clone() state {
	out := state{
		lots:     make(map[string]lots.Lot, len(s.lots)),
		paddocks: make(map[string]paddocks.Paddock, len(s.paddocks)),
		events:   append([]Event(nil), s.events...),
	}
	for k, v := range s.lots {
		out.lots[k] = v.Clone()
	}
	for k, v := range s.paddocks {
		out.paddocks[k] = v.Clone()
	}
	return out
}

type testStore struct {
	st state

	// failAppend hace fallar la escritura del evento para probar atomicidad.
	failAppend error

	// stalePeek hace que la primera lectura sin bloqueo de un potrero vea
	// otro ocupante, como si alguien lo hubiera movido en el medio.
	stalePeek map[string]*string

	attempts  int
	lastTrace []string
}

func newTestStore() *testStore {
	return &testStore{st: state{lots: map[string]lots.Lot{}, paddocks: map[string]paddocks.Paddock{}}}
}

func (s *testStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.attempts++
	tx := &testTx{st: s.st.clone(), failAppend: s.failAppend, store: s}
	err := fn(ctx, tx)
	s.lastTrace = tx.trace
	if err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

func (s *testStore) ListEvents(ctx context.Context, lotID string) ([]Event, error) {
	out := make([]Event, 0)
	for _, e := range s.st.events {
		if e.LotID == lotID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *testStore) GetByID(ctx context.Context, id string) (lots.Lot, error) {
	l, ok := s.st.lots[id]
	if !ok {
		return lots.Lot{}, lots.ErrNotFound
	}
	return l.Clone(), nil
}

type testTx struct {
	st         state
	failAppend error
	store      *testStore

	// trace registra los bloqueos en orden
	trace []string
}

func (t *testTx) GetLot(ctx context.Context, id string) (lots.Lot, error) {
	t.trace = append(t.trace, "lot:"+id)
	l, ok := t.st.lots[id]
	if !ok {
		return lots.Lot{}, lots.ErrNotFound
	}
	return l.Clone(), nil
}

func (t *testTx) GetPaddock(ctx context.Context, id string) (paddocks.Paddock, error) {
	t.trace = append(t.trace, "paddock:"+id)
	p, ok := t.st.paddocks[id]
	if !ok {
		return paddocks.Paddock{}, paddocks.ErrNotFound
	}
	return p.Clone(), nil
}

func (t *testTx) PeekPaddock(ctx context.Context, id string) (paddocks.Paddock, error) {
	p, ok := t.st.paddocks[id]
	if !ok {
		return paddocks.Paddock{}, paddocks.ErrNotFound
	}
	p = p.Clone()
	if lotID, stale := t.store.stalePeek[id]; stale {
		delete(t.store.stalePeek, id)
		p.LotID = lotID
	}
	return p, nil
}

func (t *testTx) SaveLot(ctx context.Context, l lots.Lot) error {
	t.st.lots[l.ID] = l.Clone()
	return nil
}

func (t *testTx) SavePaddock(ctx context.Context, p paddocks.Paddock) error {
	if p.Occupied() {
		for id, other := range t.st.paddocks {
			if id != p.ID && other.Occupied() && *other.LotID == *p.LotID {
				return errors.New("unique violation on paddocks.lot_id")
			}
		}
	}
	t.st.paddocks[p.ID] = p.Clone()
	return nil
}

func (t *testTx) AppendEvent(ctx context.Context, e Event) error {
	if t.failAppend != nil {
		return t.failAppend
	}
	t.st.events = append(t.st.events, e)
	return nil
}

// -------------------------
// Helpers
// -------------------------

var fixedNow = time.Date(2026, 6, 1, 6, 30, 0, 0, time.UTC)

func newTestService(store *testStore) *Service {
	eval := paddocks.NewEvaluator(forage.DefaultParams(), paddocks.NewStatusEngine(paddocks.DefaultRecoveryDays))
	calc := lots.NewCalculator(eval, permanence.DefaultIntakeFraction)
	svc := NewService(store, store, calc, logger.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// hectares arma un rectángulo de ha hectáreas (100 m × ha·100 m).
func hectares(ha float64) []geometry.Point {
	lat0, lng0 := -21.1, -48.2
	dLat := ha * 0.1 / geometry.KmPerDegree
	dLng := 0.1 / (geometry.KmPerDegree * math.Cos((lat0+dLat/2)*math.Pi/180))
	return []geometry.Point{
		{Lat: lat0, Lng: lng0},
		{Lat: lat0, Lng: lng0 + dLng},
		{Lat: lat0 + dLat, Lng: lng0 + dLng},
		{Lat: lat0 + dLat, Lng: lng0},
	}
}

func addPaddock(s *testStore, id, farmID string, ha float64) {
	s.st.paddocks[id] = paddocks.Paddock{
		ID:                id,
		FarmID:            farmID,
		Name:              id,
		Vertices:          hectares(ha),
		PastureType:       forage.PastureMarandu,
		EntryHeightCm:     25,
		ExitHeightCm:      15,
		GrazingEfficiency: 0.5,
	}
}

func addLot(s *testStore, id, farmID string, head int, weight float64) {
	s.st.lots[id] = lots.Lot{ID: id, FarmID: farmID, Name: id, HeadCount: head, AverageWeightKg: weight}
}

// link simula un estado previo ya confirmado.
func link(s *testStore, lotID, paddockID string, entered time.Time) {
	l := s.st.lots[lotID]
	p := s.st.paddocks[paddockID]
	pid, lid := paddockID, lotID
	l.PaddockID = &pid
	l.EnteredAt = &entered
	p.LotID = &lid
	s.st.lots[lotID] = l
	s.st.paddocks[paddockID] = p
}

func assertLinked(t *testing.T, s *testStore, lotID, paddockID string) {
	t.Helper()
	l := s.st.lots[lotID]
	if l.PaddockID == nil || *l.PaddockID != paddockID {
		t.Fatalf("lot %s: expected paddock %s, got %v", lotID, paddockID, l.PaddockID)
	}
	p := s.st.paddocks[paddockID]
	if p.LotID == nil || *p.LotID != lotID {
		t.Fatalf("paddock %s: expected lot %s, got %v", paddockID, lotID, p.LotID)
	}
}

// -------------------------
// Tests
// -------------------------

func TestRotate_MovesLotBetweenPaddocks(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addPaddock(store, "p2", "farm-1", 4) // 1000 kg de MS
	addLot(store, "lot-a", "farm-1", 10, 400)
	link(store, "lot-a", "p1", fixedNow.Add(-5*24*time.Hour))
	svc := newTestService(store)

	res, err := svc.Rotate(context.Background(), RotateInput{LotID: "lot-a", Destination: ToPaddock("p2")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected a change")
	}

	if res.Source == nil || res.Source.Status.Status != paddocks.StatusRecovering {
		t.Fatalf("expected source recovering, got %+v", res.Source)
	}
	if res.Source.Status.RecoveryRemainingDays != paddocks.DefaultRecoveryDays {
		t.Fatalf("expected full recovery window, got %d", res.Source.Status.RecoveryRemainingDays)
	}
	if res.Destination == nil || res.Destination.Status.Status != paddocks.StatusOccupied {
		t.Fatalf("expected destination occupied, got %+v", res.Destination)
	}

	// 1000 kg / 92 kg/día = 10.8 => 10
	if res.Lot.Lot.IdealPermanenceDays == nil || *res.Lot.Lot.IdealPermanenceDays != 10 {
		t.Fatalf("expected 10 ideal days, got %v", res.Lot.Lot.IdealPermanenceDays)
	}
	if !res.Lot.Lot.EnteredAt.Equal(fixedNow) {
		t.Fatalf("expected entry date reset to now")
	}

	assertLinked(t, store, "lot-a", "p2")
	p1 := store.st.paddocks["p1"]
	if p1.LotID != nil || p1.RotatedOutAt == nil || !p1.RotatedOutAt.Equal(fixedNow) {
		t.Fatalf("source not released/stamped: %+v", p1)
	}
	if got := store.st.lots["lot-a"].IdealPermanenceDays; got == nil || *got != 10 {
		t.Fatalf("stored ideal permanence not updated: %v", got)
	}

	if len(store.st.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(store.st.events))
	}
	ev := store.st.events[0]
	if *ev.FromPaddockID != "p1" || *ev.ToPaddockID != "p2" || ev.Override || ev.Reason != ReasonRotation {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestRotate_RetryAfterSuccessIsNoOp(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addPaddock(store, "p2", "farm-1", 1)
	addLot(store, "lot-a", "farm-1", 10, 400)
	link(store, "lot-a", "p1", fixedNow.Add(-48*time.Hour))
	svc := newTestService(store)
	ctx := context.Background()

	in := RotateInput{LotID: "lot-a", Destination: ToPaddock("p2")}
	if _, err := svc.Rotate(ctx, in); err != nil {
		t.Fatalf("first rotate: %v", err)
	}
	before := store.st.clone()

	later := fixedNow.Add(3 * time.Hour)
	svc.now = func() time.Time { return later }
	res, err := svc.Rotate(ctx, in)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.Changed || len(res.Events) != 0 {
		t.Fatalf("retry must be a no-op, got %+v", res)
	}
	if res.Destination == nil || res.Destination.Paddock.ID != "p2" {
		t.Fatalf("no-op should still report the current paddock")
	}

	if diff := cmp.Diff(before.lots, store.st.lots); diff != "" {
		t.Fatalf("lots changed on retry (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(before.paddocks, store.st.paddocks); diff != "" {
		t.Fatalf("paddocks changed on retry (-before +after):\n%s", diff)
	}
	if len(store.st.events) != 1 {
		t.Fatalf("retry must not add events")
	}
}

func TestRotate_ConflictWithoutOverrideChangesNothing(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addPaddock(store, "p2", "farm-1", 1)
	addLot(store, "lot-a", "farm-1", 10, 400)
	addLot(store, "lot-b", "farm-1", 5, 300)
	link(store, "lot-a", "p1", fixedNow.Add(-24*time.Hour))
	link(store, "lot-b", "p2", fixedNow.Add(-24*time.Hour))
	svc := newTestService(store)
	before := store.st.clone()

	_, err := svc.Rotate(context.Background(), RotateInput{LotID: "lot-b", Destination: ToPaddock("p1")})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	var ce *ConflictError
	if !errors.As(err, &ce) || ce.PaddockID != "p1" || ce.OccupantLotID != "lot-a" {
		t.Fatalf("expected conflict details, got %#v", err)
	}

	assertLinked(t, store, "lot-a", "p1")
	assertLinked(t, store, "lot-b", "p2")
	if diff := cmp.Diff(before.paddocks, store.st.paddocks); diff != "" {
		t.Fatalf("paddocks changed (-before +after):\n%s", diff)
	}
	if len(store.st.events) != 0 {
		t.Fatalf("rejected rotation must not be logged as an event")
	}
}

func TestRotate_OverrideDisplacesOccupant(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addLot(store, "lot-a", "farm-1", 10, 400)
	addLot(store, "lot-b", "farm-1", 5, 300)
	link(store, "lot-a", "p1", fixedNow.Add(-24*time.Hour))
	svc := newTestService(store)

	res, err := svc.Rotate(context.Background(), RotateInput{LotID: "lot-b", Destination: ToPaddock("p1"), Override: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	assertLinked(t, store, "lot-b", "p1")
	a := store.st.lots["lot-a"]
	if !a.Loose() || a.EnteredAt != nil || a.IdealPermanenceDays != nil {
		t.Fatalf("occupant should be loose, got %+v", a)
	}
	if res.Displaced == nil || res.Displaced.Lot.ID != "lot-a" {
		t.Fatalf("expected displaced lot in result")
	}
	if res.Source != nil {
		t.Fatalf("lot-b came from loose pasture, no source expected")
	}
	if p1 := store.st.paddocks["p1"]; p1.RotatedOutAt != nil {
		t.Fatalf("destination is re-occupied, no rotated-out stamp expected")
	}

	if len(store.st.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(store.st.events))
	}
	disp, moved := store.st.events[0], store.st.events[1]
	if disp.LotID != "lot-a" || disp.Reason != ReasonDisplaced || disp.ToPaddockID != nil || !disp.Override {
		t.Fatalf("unexpected displacement event: %+v", disp)
	}
	if moved.LotID != "lot-b" || moved.FromPaddockID != nil || *moved.ToPaddockID != "p1" || !moved.Override {
		t.Fatalf("unexpected rotation event: %+v", moved)
	}
}

func TestRotate_ToLoosePasture(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addLot(store, "lot-a", "farm-1", 10, 400)
	link(store, "lot-a", "p1", fixedNow.Add(-24*time.Hour))
	svc := newTestService(store)
	ctx := context.Background()

	res, err := svc.Rotate(ctx, RotateInput{LotID: "lot-a", Destination: LoosePasture()})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Destination != nil || res.Lot.DaysInPaddock != nil || res.Lot.Overdue != permanence.OverdueUnknown {
		t.Fatalf("loose lot has no destination-side figures: %+v", res)
	}
	if res.Source.Status.Status != paddocks.StatusRecovering {
		t.Fatalf("expected source recovering")
	}
	if !store.st.lots["lot-a"].Loose() {
		t.Fatalf("expected loose lot")
	}

	// ya suelto: no-op
	res, err = svc.Rotate(ctx, RotateInput{LotID: "lot-a", Destination: LoosePasture()})
	if err != nil || res.Changed {
		t.Fatalf("expected no-op, got changed=%v err=%v", res.Changed, err)
	}
	if len(store.st.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.st.events))
	}
}

func TestRotate_IntoRecoveringPaddockIsAllowed(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	out := fixedNow.Add(-2 * 24 * time.Hour)
	p1 := store.st.paddocks["p1"]
	p1.RotatedOutAt = &out
	store.st.paddocks["p1"] = p1
	addLot(store, "lot-a", "farm-1", 10, 400)
	svc := newTestService(store)

	res, err := svc.Rotate(context.Background(), RotateInput{LotID: "lot-a", Destination: ToPaddock("p1")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Destination.Status.Status != paddocks.StatusOccupied || store.st.paddocks["p1"].RotatedOutAt != nil {
		t.Fatalf("expected occupied with cleared timestamp")
	}
	// 250 / 92 => 2 días
	if res.Lot.Severity != permanence.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", res.Lot.Severity)
	}
}

func TestRotate_NotFoundAndInvalid(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addPaddock(store, "other", "farm-2", 1)
	addLot(store, "lot-a", "farm-1", 10, 400)
	svc := newTestService(store)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RotateInput
		want error
	}{
		{"unknown lot", RotateInput{LotID: "ghost", Destination: ToPaddock("p1")}, ErrLotNotFound},
		{"unknown paddock", RotateInput{LotID: "lot-a", Destination: ToPaddock("ghost")}, ErrPaddockNotFound},
		{"missing lot id", RotateInput{Destination: LoosePasture()}, ErrInvalidInput},
		{"unset destination", RotateInput{LotID: "lot-a"}, ErrInvalidInput},
		{"empty paddock id", RotateInput{LotID: "lot-a", Destination: ToPaddock("")}, ErrInvalidInput},
		{"paddock of another farm", RotateInput{LotID: "lot-a", Destination: ToPaddock("other")}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Rotate(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !store.st.lots["lot-a"].Loose() || store.st.paddocks["p1"].Occupied() {
				t.Fatalf("state changed after failed rotation")
			}
		})
	}
}

func TestRotate_StoreFailureRollsBackEverything(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addPaddock(store, "p2", "farm-1", 1)
	addLot(store, "lot-a", "farm-1", 10, 400)
	link(store, "lot-a", "p1", fixedNow.Add(-24*time.Hour))
	before := store.st.clone()

	boom := errors.New("disk full")
	store.failAppend = boom
	svc := newTestService(store)

	if _, err := svc.Rotate(context.Background(), RotateInput{LotID: "lot-a", Destination: ToPaddock("p2")}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if diff := cmp.Diff(before.lots, store.st.lots); diff != "" {
		t.Fatalf("lots changed (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(before.paddocks, store.st.paddocks); diff != "" {
		t.Fatalf("paddocks changed (-before +after):\n%s", diff)
	}
}

func TestRotate_LocksLotsBeforePaddocks(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addPaddock(store, "p2", "farm-1", 1)
	addLot(store, "lot-a", "farm-1", 10, 400)
	addLot(store, "lot-b", "farm-1", 5, 300)
	link(store, "lot-a", "p1", fixedNow.Add(-24*time.Hour))
	link(store, "lot-b", "p2", fixedNow.Add(-24*time.Hour))
	svc := newTestService(store)

	if _, err := svc.Rotate(context.Background(), RotateInput{LotID: "lot-b", Destination: ToPaddock("p1"), Override: true}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := []string{"lot:lot-a", "lot:lot-b", "paddock:p1", "paddock:p2"}
	if diff := cmp.Diff(want, store.lastTrace); diff != "" {
		t.Fatalf("lock order (-want +got):\n%s", diff)
	}
}

func TestRotate_RetriesWhenOccupantMovedBeforeLock(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addLot(store, "lot-a", "farm-1", 10, 400)
	addLot(store, "lot-b", "farm-1", 5, 300)
	link(store, "lot-a", "p1", fixedNow.Add(-24*time.Hour))
	// la primera lectura ve p1 libre; el bloqueo encuentra a lot-a
	store.stalePeek = map[string]*string{"p1": nil}
	svc := newTestService(store)

	res, err := svc.Rotate(context.Background(), RotateInput{LotID: "lot-b", Destination: ToPaddock("p1"), Override: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if store.attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", store.attempts)
	}
	assertLinked(t, store, "lot-b", "p1")
	if a := store.st.lots["lot-a"]; !a.Loose() {
		t.Fatalf("occupant should be loose, got %+v", a)
	}
	if res.Displaced == nil || res.Displaced.Lot.ID != "lot-a" {
		t.Fatalf("expected lot-a displaced, got %+v", res.Displaced)
	}
}

func TestApplyEdit_RefreshesOccupantPermanence(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 4)
	addLot(store, "lot-a", "farm-1", 10, 400)
	svc := newTestService(store)

	if _, err := svc.Rotate(context.Background(), RotateInput{LotID: "lot-a", Destination: ToPaddock("p1")}); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	before := *store.st.lots["lot-a"].IdealPermanenceDays

	edited := store.st.paddocks["p1"]
	edited.Name = "Bajo"
	edited.ExitHeightCm = 5
	edited.LotID = nil // la vinculación no se toca desde una edición
	edited.UpdatedAt = fixedNow.Add(time.Hour)

	saved, err := svc.ApplyEdit(context.Background(), edited)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if saved.Name != "Bajo" || saved.ExitHeightCm != 5 {
		t.Fatalf("edit not applied: %+v", saved)
	}
	assertLinked(t, store, "lot-a", "p1")

	lot := store.st.lots["lot-a"]
	want := svc.calc.IdealDays(lot, store.st.paddocks["p1"])
	if lot.IdealPermanenceDays == nil || want == nil || *lot.IdealPermanenceDays != *want {
		t.Fatalf("expected %v ideal days, got %v", want, lot.IdealPermanenceDays)
	}
	if *lot.IdealPermanenceDays <= before {
		t.Fatalf("lower exit height should lengthen the stay: before %d, after %d", before, *lot.IdealPermanenceDays)
	}
	if !lot.UpdatedAt.Equal(edited.UpdatedAt) {
		t.Fatalf("lot UpdatedAt not stamped: %v", lot.UpdatedAt)
	}
}

func TestApplyEdit_EmptyPaddockAndMissing(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addLot(store, "lot-a", "farm-1", 10, 400)
	svc := newTestService(store)
	lotBefore := store.st.lots["lot-a"]

	edited := store.st.paddocks["p1"]
	edited.EntryHeightCm = 30
	if _, err := svc.ApplyEdit(context.Background(), edited); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := store.st.paddocks["p1"].EntryHeightCm; got != 30 {
		t.Fatalf("expected entry height 30, got %v", got)
	}
	if diff := cmp.Diff(lotBefore, store.st.lots["lot-a"]); diff != "" {
		t.Fatalf("loose lot changed (-before +after):\n%s", diff)
	}

	if _, err := svc.ApplyEdit(context.Background(), paddocks.Paddock{ID: "nope"}); !errors.Is(err, paddocks.ErrNotFound) {
		t.Fatalf("expected paddocks.ErrNotFound, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	store := newTestStore()
	addPaddock(store, "p1", "farm-1", 1)
	addPaddock(store, "p2", "farm-1", 1)
	addLot(store, "lot-a", "farm-1", 10, 400)
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.History(ctx, "ghost"); !errors.Is(err, ErrLotNotFound) {
		t.Fatalf("expected ErrLotNotFound, got %v", err)
	}

	for i, dest := range []Destination{ToPaddock("p1"), ToPaddock("p2"), LoosePasture()} {
		at := fixedNow.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		if _, err := svc.Rotate(ctx, RotateInput{LotID: "lot-a", Destination: dest}); err != nil {
			t.Fatalf("rotate %d: %v", i, err)
		}
	}

	items, err := svc.History(ctx, "lot-a")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 events, got %d", len(items))
	}
	if items[0].FromPaddockID != nil || *items[2].FromPaddockID != "p2" || items[2].ToPaddockID != nil {
		t.Fatalf("unexpected history: %+v", items)
	}
}

func TestDestination(t *testing.T) {
	if id, ok := ToPaddock("p1").PaddockID(); !ok || id != "p1" {
		t.Fatalf("expected paddock destination")
	}
	if _, ok := LoosePasture().PaddockID(); ok || !LoosePasture().IsLoose() {
		t.Fatalf("expected loose destination")
	}
	var zero Destination
	if zero.valid() || zero.IsLoose() {
		t.Fatalf("zero destination must be invalid")
	}
}
