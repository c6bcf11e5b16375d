package memory

import (
	"context"
	"fmt"
	"sync"

	"pasture-rotation/internal/domain/lots"
	"pasture-rotation/internal/domain/paddocks"
	"pasture-rotation/internal/domain/rotation"
)

type state struct {
	lots     map[string]lots.Lot
	paddocks map[string]paddocks.Paddock
	events   []rotation.Event
}

func (s *state) clone() *state {
	out := &state{
		lots:     make(map[string]lots.Lot, len(s.lots)),
		paddocks: make(map[string]paddocks.Paddock, len(s.paddocks)),
		events:   append([]rotation.Event(nil), s.events...),
	}
	for k, v := range s.lots {
		out.lots[k] = v.Clone()
	}
	for k, v := range s.paddocks {
		out.paddocks[k] = v.Clone()
	}
	return out
}

// checkExclusive: un lote ocupa a lo sumo un potrero.
func (s *state) checkExclusive() error {
	seen := make(map[string]string, len(s.paddocks))
	for id, p := range s.paddocks {
		if !p.Occupied() {
			continue
		}
		if other, dup := seen[*p.LotID]; dup {
			return fmt.Errorf("%w: lot %s linked to paddocks %s and %s", rotation.ErrConflict, *p.LotID, other, id)
		}
		seen[*p.LotID] = id
	}
	return nil
}

// Store guarda potreros, lotes y eventos en memoria. Las transacciones se
// serializan con el mismo mutex que protege las lecturas.
type Store struct {
	mu sync.RWMutex
	st *state
}

func NewStore() *Store {
	return &Store{st: &state{
		lots:     make(map[string]lots.Lot),
		paddocks: make(map[string]paddocks.Paddock),
	}}
}

func (s *Store) Paddocks() paddocks.Repository { return &paddockRepo{s: s} }

func (s *Store) Lots() lots.Repository { return &lotRepo{s: s} }

// RunInTx corre fn sobre una copia del estado y la publica solo si fn no
// falla y la exclusividad se mantiene.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx rotation.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()
	if err := fn(ctx, &tx{st: work}); err != nil {
		return err
	}
	if err := work.checkExclusive(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) ListEvents(ctx context.Context, lotID string) ([]rotation.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]rotation.Event, 0)
	for _, e := range s.st.events {
		if e.LotID == lotID {
			out = append(out, e)
		}
	}
	return out, nil
}

type tx struct {
	st *state
}

func (t *tx) GetLot(ctx context.Context, id string) (lots.Lot, error) {
	l, ok := t.st.lots[id]
	if !ok {
		return lots.Lot{}, lots.ErrNotFound
	}
	return l.Clone(), nil
}

func (t *tx) GetPaddock(ctx context.Context, id string) (paddocks.Paddock, error) {
	p, ok := t.st.paddocks[id]
	if !ok {
		return paddocks.Paddock{}, paddocks.ErrNotFound
	}
	return p.Clone(), nil
}

func (t *tx) PeekPaddock(ctx context.Context, id string) (paddocks.Paddock, error) {
	return t.GetPaddock(ctx, id)
}

func (t *tx) SaveLot(ctx context.Context, l lots.Lot) error {
	if _, ok := t.st.lots[l.ID]; !ok {
		return lots.ErrNotFound
	}
	t.st.lots[l.ID] = l.Clone()
	return nil
}

func (t *tx) SavePaddock(ctx context.Context, p paddocks.Paddock) error {
	if _, ok := t.st.paddocks[p.ID]; !ok {
		return paddocks.ErrNotFound
	}
	t.st.paddocks[p.ID] = p.Clone()
	return nil
}

func (t *tx) AppendEvent(ctx context.Context, e rotation.Event) error {
	t.st.events = append(t.st.events, e)
	return nil
}
