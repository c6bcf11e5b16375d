package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pasture-rotation/internal/domain/paddocks"
)

type paddockRepo struct {
	s *Store
}

func (r *paddockRepo) Create(ctx context.Context, p paddocks.Paddock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("paddock id required")
	}
	if _, exists := r.s.st.paddocks[p.ID]; exists {
		return errors.New("paddock already exists")
	}
	r.s.st.paddocks[p.ID] = p.Clone()
	return nil
}

func (r *paddockRepo) Update(ctx context.Context, p paddocks.Paddock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.st.paddocks[p.ID]
	if !exists {
		return paddocks.ErrNotFound
	}
	next := p.Clone()
	next.LotID = cur.LotID
	next.RotatedOutAt = cur.RotatedOutAt
	next.CreatedAt = cur.CreatedAt
	r.s.st.paddocks[p.ID] = next
	return nil
}

func (r *paddockRepo) GetByID(ctx context.Context, id string) (paddocks.Paddock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.st.paddocks[id]
	if !ok {
		return paddocks.Paddock{}, paddocks.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *paddockRepo) ListByFarm(ctx context.Context, farmID string) ([]paddocks.Paddock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]paddocks.Paddock, 0)
	for _, p := range r.s.st.paddocks {
		if p.FarmID == farmID {
			out = append(out, p.Clone())
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

func (r *paddockRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.st.paddocks[id]
	if !ok {
		return paddocks.ErrNotFound
	}
	if p.Occupied() {
		return paddocks.ErrOccupied
	}
	delete(r.s.st.paddocks, id)
	return nil
}
