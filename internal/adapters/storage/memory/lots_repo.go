package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"pasture-rotation/internal/domain/lots"
)

type lotRepo struct {
	s *Store
}

func (r *lotRepo) Create(ctx context.Context, l lots.Lot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("lot id required")
	}
	if _, exists := r.s.st.lots[l.ID]; exists {
		return errors.New("lot already exists")
	}
	r.s.st.lots[l.ID] = l.Clone()
	return nil
}

func (r *lotRepo) Update(ctx context.Context, l lots.Lot, seen time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.st.lots[l.ID]
	if !exists {
		return lots.ErrNotFound
	}
	if !cur.UpdatedAt.Equal(seen) {
		return lots.ErrStale
	}
	next := l.Clone()
	next.PaddockID = cur.PaddockID
	next.EnteredAt = cur.EnteredAt
	next.CreatedAt = cur.CreatedAt
	r.s.st.lots[l.ID] = next
	return nil
}

func (r *lotRepo) GetByID(ctx context.Context, id string) (lots.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.st.lots[id]
	if !ok {
		return lots.Lot{}, lots.ErrNotFound
	}
	return l.Clone(), nil
}

func (r *lotRepo) ListByFarm(ctx context.Context, farmID string) ([]lots.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]lots.Lot, 0)
	for _, l := range r.s.st.lots {
		if l.FarmID == farmID {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
