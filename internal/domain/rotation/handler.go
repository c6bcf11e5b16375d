package rotation

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"pasture-rotation/internal/domain/lots"
	"pasture-rotation/internal/domain/paddocks"
	"pasture-rotation/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/lots/{lotID}/rotate", rotateHandler(svc))
	r.Get("/lots/{lotID}/rotations", listRotationsHandler(svc))
}

// rotateRequest: paddock_id null o ausente = pasto suelto.
type rotateRequest struct {
	PaddockID *string `json:"paddock_id"`
	Override  bool    `json:"override"`
}

type paddockSide struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	LotID                 *string         `json:"lot_id"`
	RotatedOutAt          *time.Time      `json:"rotated_out_at"`
	Status                paddocks.Status `json:"status"`
	RecoveryEndsAt        *time.Time      `json:"recovery_ends_at,omitempty"`
	RecoveryRemainingDays int             `json:"recovery_remaining_days"`
}

type rotateResponse struct {
	Changed     bool              `json:"changed"`
	Lot         lots.LotResponse  `json:"lot"`
	Source      *paddockSide      `json:"source"`
	Destination *paddockSide      `json:"destination"`
	Displaced   *lots.LotResponse `json:"displaced_lot,omitempty"`
	Events      []eventResponse   `json:"events"`
}

type eventResponse struct {
	ID            string    `json:"id"`
	LotID         string    `json:"lot_id"`
	FromPaddockID *string   `json:"from_paddock_id"`
	ToPaddockID   *string   `json:"to_paddock_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	Override      bool      `json:"override"`
	Reason        Reason    `json:"reason"`
}

type conflictResponse struct {
	Error         string `json:"error"`
	PaddockID     string `json:"paddock_id"`
	OccupantLotID string `json:"occupant_lot_id"`
}

// rotateHandler godoc
// @Summary Rotar lote
// @Description Mueve el lote a un potrero o a pasto suelto (paddock_id null). Si el destino tiene otro lote responde 409 salvo override=true, que manda al ocupante a pasto suelto.
// @Tags rotation
// @Accept json
// @Produce json
// @Param lotID path string true "ID del lote"
// @Param payload body rotateRequest true "destino"
// @Success 200 {object} rotateResponse
// @Failure 404 {string} string "lot or paddock not found"
// @Failure 409 {object} conflictResponse
// @Router /lots/{lotID}/rotate [post]
func rotateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		var req rotateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		dest := LoosePasture()
		if req.PaddockID != nil {
			dest = ToPaddock(strings.TrimSpace(*req.PaddockID))
		}

		res, err := svc.Rotate(r.Context(), RotateInput{
			LotID:       chi.URLParam(r, "lotID"),
			Destination: dest,
			Override:    req.Override,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRotateResponse(res))
	}
}

// listRotationsHandler godoc
// @Summary Historial de rotaciones del lote
// @Tags rotation
// @Produce json
// @Param lotID path string true "ID del lote"
// @Success 200 {array} eventResponse
// @Failure 404 {string} string "lot not found"
// @Router /lots/{lotID}/rotations [get]
func listRotationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		items, err := svc.History(r.Context(), chi.URLParam(r, "lotID"))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toRotateResponse(res Result) rotateResponse {
	out := rotateResponse{
		Changed:     res.Changed,
		Lot:         lots.ToResponse(res.Lot),
		Source:      toPaddockSide(res.Source),
		Destination: toPaddockSide(res.Destination),
		Events:      make([]eventResponse, 0, len(res.Events)),
	}
	if res.Displaced != nil {
		d := lots.ToResponse(*res.Displaced)
		out.Displaced = &d
	}
	for _, e := range res.Events {
		out.Events = append(out.Events, toEventResponse(e))
	}
	return out
}

func toPaddockSide(v *paddocks.View) *paddockSide {
	if v == nil {
		return nil
	}
	return &paddockSide{
		ID:                    v.Paddock.ID,
		Name:                  v.Paddock.Name,
		LotID:                 v.Paddock.LotID,
		RotatedOutAt:          v.Paddock.RotatedOutAt,
		Status:                v.Status.Status,
		RecoveryEndsAt:        v.Status.RecoveryEndsAt,
		RecoveryRemainingDays: v.Status.RecoveryRemainingDays,
	}
}

func toEventResponse(e Event) eventResponse {
	return eventResponse{
		ID:            e.ID,
		LotID:         e.LotID,
		FromPaddockID: e.FromPaddockID,
		ToPaddockID:   e.ToPaddockID,
		OccurredAt:    e.OccurredAt,
		Override:      e.Override,
		Reason:        e.Reason,
	}
}

func authorized(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	var ce *ConflictError
	switch {
	case errors.As(err, &ce):
		writeJSON(w, http.StatusConflict, conflictResponse{
			Error:         ce.Error(),
			PaddockID:     ce.PaddockID,
			OccupantLotID: ce.OccupantLotID,
		})
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrLotNotFound), errors.Is(err, ErrPaddockNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
