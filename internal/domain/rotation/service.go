package rotation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pasture-rotation/internal/domain/lots"
	"pasture-rotation/internal/domain/paddocks"
	"pasture-rotation/internal/platform/logger"
)

type Service struct {
	store Store
	lots  LotReader
	calc  lots.Calculator
	log   logger.Logger
	now   func() time.Time
}

func NewService(store Store, lotReader LotReader, calc lots.Calculator, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store: store,
		lots:  lotReader,
		calc:  calc,
		log:   log.With(map[string]any{"component": "rotation"}),
		now:   time.Now,
	}
}

type RotateInput struct {
	LotID       string
	Destination Destination

	// Override confirma que el ocupante actual del destino pasa a pasto suelto.
	Override bool
}

// Result refleja el estado ya confirmado. Changed=false cuando el lote ya
// estaba donde se pidió (reintento tras un éxito).
type Result struct {
	Changed bool

	Lot         lots.View
	Source      *paddocks.View
	Destination *paddocks.View
	Displaced   *lots.View

	Events []Event
}

// txAttempts acota los reintentos cuando el ocupante leído sin bloqueo ya no
// es el que quedó bloqueado.
const txAttempts = 3

var errOccupantMoved = fmt.Errorf("%w: paddock occupant changed during the transaction", ErrConflict)

// Rotate mueve un lote a un potrero o a pasto suelto en una sola transacción.
func (s *Service) Rotate(ctx context.Context, in RotateInput) (Result, error) {
	lotID := strings.TrimSpace(in.LotID)
	if lotID == "" {
		return Result{}, fmt.Errorf("%w: lot_id is required", ErrInvalidInput)
	}
	if !in.Destination.valid() {
		return Result{}, fmt.Errorf("%w: destination is required", ErrInvalidInput)
	}

	var out applied
	err := s.runInTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		out, err = s.apply(ctx, tx, lotID, in, s.now())
		return err
	})
	if err != nil {
		var ce *ConflictError
		if errors.As(err, &ce) {
			s.log.Warn("rotation rejected: destination occupied", map[string]any{
				"lot_id":          lotID,
				"paddock_id":      ce.PaddockID,
				"occupant_lot_id": ce.OccupantLotID,
			})
		}
		return Result{}, err
	}

	if out.changed {
		fields := map[string]any{
			"lot_id":      lotID,
			"destination": in.Destination.String(),
			"override":    in.Override,
		}
		if out.displaced != nil {
			fields["displaced_lot_id"] = out.displaced.ID
		}
		s.log.Info("lot rotated", fields)
	}
	return s.result(out), nil
}

// ApplyEdit guarda la edición de un potrero y, si está ocupado, recalcula la
// permanencia ideal del lote contra el presupuesto nuevo en la misma
// transacción. LotID y RotatedOutAt salen de la fila bloqueada.
func (s *Service) ApplyEdit(ctx context.Context, edited paddocks.Paddock) (paddocks.Paddock, error) {
	var (
		saved     paddocks.Paddock
		refreshed *lots.Lot
	)
	err := s.runInTx(ctx, func(ctx context.Context, tx Tx) error {
		saved, refreshed = paddocks.Paddock{}, nil

		peek, err := tx.PeekPaddock(ctx, edited.ID)
		if err != nil {
			return err
		}
		locked, err := lockLots(ctx, tx, peek.LotID)
		if err != nil {
			return err
		}
		cur, err := tx.GetPaddock(ctx, edited.ID)
		if err != nil {
			return err
		}
		if !sameLot(cur.LotID, peek.LotID) {
			return errOccupantMoved
		}

		cur.Name = edited.Name
		cur.Vertices = edited.Vertices
		cur.PastureType = edited.PastureType
		cur.EntryHeightCm = edited.EntryHeightCm
		cur.ExitHeightCm = edited.ExitHeightCm
		cur.GrazingEfficiency = edited.GrazingEfficiency
		cur.UpdatedAt = edited.UpdatedAt
		if err := tx.SavePaddock(ctx, cur); err != nil {
			return err
		}
		saved = cur

		if !cur.Occupied() {
			return nil
		}
		occupant, ok := locked[*cur.LotID]
		if !ok || occupant.PaddockID == nil || *occupant.PaddockID != cur.ID {
			return nil
		}
		occupant.IdealPermanenceDays = s.calc.IdealDays(occupant, cur)
		occupant.UpdatedAt = cur.UpdatedAt
		if err := tx.SaveLot(ctx, occupant); err != nil {
			return err
		}
		refreshed = &occupant
		return nil
	})
	if err != nil {
		return paddocks.Paddock{}, err
	}

	if refreshed != nil {
		fields := map[string]any{
			"paddock_id": saved.ID,
			"lot_id":     refreshed.ID,
		}
		if refreshed.IdealPermanenceDays != nil {
			fields["ideal_permanence_days"] = *refreshed.IdealPermanenceDays
		}
		s.log.Info("occupant permanence refreshed", fields)
	}
	return saved, nil
}

func (s *Service) runInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	var err error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		err = s.store.RunInTx(ctx, fn)
		if !errors.Is(err, errOccupantMoved) {
			return err
		}
	}
	return err
}

// History devuelve el historial de un lote, más antiguo primero.
func (s *Service) History(ctx context.Context, lotID string) ([]Event, error) {
	lotID = strings.TrimSpace(lotID)
	if lotID == "" {
		return nil, fmt.Errorf("%w: lot_id is required", ErrInvalidInput)
	}
	if _, err := s.lots.GetByID(ctx, lotID); err != nil {
		if errors.Is(err, lots.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrLotNotFound, lotID)
		}
		return nil, err
	}

	items, err := s.store.ListEvents(ctx, lotID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].OccurredAt.Before(items[j].OccurredAt) })
	return items, nil
}

type applied struct {
	changed bool
	now     time.Time

	lot         lots.Lot
	source      *paddocks.Paddock
	destination *paddocks.Paddock
	displaced   *lots.Lot
	events      []Event
}

func (s *Service) apply(ctx context.Context, tx Tx, lotID string, in RotateInput, now time.Time) (applied, error) {
	out := applied{now: now}
	destID, toPaddock := in.Destination.PaddockID()

	// ocupante del destino leído sin bloqueo; se confirma ya bloqueado
	var expected *string
	if toPaddock {
		peek, err := tx.PeekPaddock(ctx, destID)
		if errors.Is(err, paddocks.ErrNotFound) {
			return out, fmt.Errorf("%w: %s", ErrPaddockNotFound, destID)
		}
		if err != nil {
			return out, err
		}
		expected = peek.LotID
	}

	locked, err := lockLots(ctx, tx, &lotID, expected)
	if err != nil {
		return out, err
	}
	lot, ok := locked[lotID]
	if !ok {
		return out, fmt.Errorf("%w: %s", ErrLotNotFound, lotID)
	}

	// ya está donde se pidió
	if !toPaddock && lot.Loose() {
		out.lot = lot
		return out, nil
	}
	if toPaddock && !lot.Loose() && *lot.PaddockID == destID {
		dest, err := getPaddock(ctx, tx, destID)
		if err != nil {
			return out, err
		}
		out.lot, out.destination = lot, &dest
		return out, nil
	}

	ids := make([]string, 0, 2)
	if !lot.Loose() {
		ids = append(ids, *lot.PaddockID)
	}
	if toPaddock {
		ids = append(ids, destID)
	}
	sort.Strings(ids)
	loaded := make(map[string]paddocks.Paddock, len(ids))
	for _, id := range ids {
		p, err := getPaddock(ctx, tx, id)
		if err != nil {
			return out, err
		}
		loaded[id] = p
	}

	var dest paddocks.Paddock
	if toPaddock {
		dest = loaded[destID]
		if !sameLot(dest.LotID, expected) {
			return out, errOccupantMoved
		}
		if dest.FarmID != lot.FarmID {
			return out, fmt.Errorf("%w: paddock %s belongs to another farm", ErrInvalidInput, destID)
		}
		if dest.Occupied() && *dest.LotID != lot.ID {
			if !in.Override {
				return out, &ConflictError{PaddockID: destID, OccupantLotID: *dest.LotID}
			}
			if occupant, ok := locked[*dest.LotID]; ok {
				ev, err := s.displace(ctx, tx, &occupant, dest, now)
				if err != nil {
					return out, err
				}
				out.displaced = &occupant
				out.events = append(out.events, ev)
			}
		}
	}

	var from *string
	if !lot.Loose() {
		src := loaded[*lot.PaddockID]
		from = &src.ID
		src.LotID = nil
		src.RotatedOutAt = &now
		src.UpdatedAt = now
		// primero se libera el origen: lot_id es único entre potreros
		if err := tx.SavePaddock(ctx, src); err != nil {
			return out, err
		}
		out.source = &src
	}

	var to *string
	if toPaddock {
		to = &dest.ID
		dest.LotID = &lot.ID
		dest.RotatedOutAt = nil
		dest.UpdatedAt = now
		if err := tx.SavePaddock(ctx, dest); err != nil {
			return out, err
		}
		out.destination = &dest

		lot.PaddockID = &dest.ID
		lot.EnteredAt = &now
		lot.IdealPermanenceDays = s.calc.IdealDays(lot, dest)
	} else {
		lot.PaddockID = nil
		lot.EnteredAt = nil
		lot.IdealPermanenceDays = nil
	}
	lot.UpdatedAt = now
	if err := tx.SaveLot(ctx, lot); err != nil {
		return out, err
	}

	ev := Event{
		ID:            uuid.NewString(),
		FarmID:        lot.FarmID,
		LotID:         lot.ID,
		FromPaddockID: from,
		ToPaddockID:   to,
		OccurredAt:    now,
		Override:      out.displaced != nil,
		Reason:        ReasonRotation,
	}
	if err := tx.AppendEvent(ctx, ev); err != nil {
		return out, err
	}
	out.events = append(out.events, ev)

	out.lot = lot
	out.changed = true
	return out, nil
}

// displace manda al ocupante (ya bloqueado) de dest a pasto suelto. Si la
// vinculación apunta a un lote que ya no existe, el llamador solo pisa el
// potrero.
func (s *Service) displace(ctx context.Context, tx Tx, occupant *lots.Lot, dest paddocks.Paddock, now time.Time) (Event, error) {
	occupant.PaddockID = nil
	occupant.EnteredAt = nil
	occupant.IdealPermanenceDays = nil
	occupant.UpdatedAt = now
	if err := tx.SaveLot(ctx, *occupant); err != nil {
		return Event{}, err
	}

	ev := Event{
		ID:            uuid.NewString(),
		FarmID:        occupant.FarmID,
		LotID:         occupant.ID,
		FromPaddockID: &dest.ID,
		OccurredAt:    now,
		Override:      true,
		Reason:        ReasonDisplaced,
	}
	if err := tx.AppendEvent(ctx, ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (s *Service) result(a applied) Result {
	eval := s.calc.Evaluator
	res := Result{
		Changed: a.changed,
		Lot:     s.calc.View(a.lot, a.now),
		Events:  a.events,
	}
	if a.source != nil {
		v := eval.View(*a.source, a.now)
		res.Source = &v
	}
	if a.destination != nil {
		v := eval.View(*a.destination, a.now)
		res.Destination = &v
	}
	if a.displaced != nil {
		v := s.calc.View(*a.displaced, a.now)
		res.Displaced = &v
	}
	return res
}

// lockLots bloquea los lotes dados en orden de id, antes que cualquier
// potrero. Los ids nil o repetidos se ignoran y los lotes inexistentes no
// aparecen en el resultado.
func lockLots(ctx context.Context, tx Tx, ids ...*string) (map[string]lots.Lot, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == nil || seen[*id] {
			continue
		}
		seen[*id] = true
		uniq = append(uniq, *id)
	}
	sort.Strings(uniq)

	out := make(map[string]lots.Lot, len(uniq))
	for _, id := range uniq {
		l, err := tx.GetLot(ctx, id)
		if errors.Is(err, lots.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = l
	}
	return out, nil
}

func sameLot(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func getPaddock(ctx context.Context, tx Tx, id string) (paddocks.Paddock, error) {
	p, err := tx.GetPaddock(ctx, id)
	if errors.Is(err, paddocks.ErrNotFound) {
		return paddocks.Paddock{}, fmt.Errorf("%w: %s", ErrPaddockNotFound, id)
	}
	return p, err
}
