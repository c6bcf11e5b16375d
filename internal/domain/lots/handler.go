package lots

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"pasture-rotation/internal/domain/permanence"
	"pasture-rotation/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/lots", func(lr chi.Router) {
		lr.Post("/", createLotHandler(svc))
		lr.Get("/", listLotsHandler(svc))
		lr.Get("/{lotID}", getLotHandler(svc))
		lr.Patch("/{lotID}", updateLotHandler(svc))
	})
}

type createLotRequest struct {
	FarmID          string  `json:"farm_id"`
	Name            string  `json:"name"`
	HeadCount       int     `json:"head_count"`
	AverageWeightKg float64 `json:"average_weight_kg"`
}

type updateLotRequest struct {
	Name            *string  `json:"name"`
	HeadCount       *int     `json:"head_count"`
	AverageWeightKg *float64 `json:"average_weight_kg"`
}

// LotResponse también la usa la rotación para devolver el lote movido.
type LotResponse struct {
	ID                  string     `json:"id"`
	FarmID              string     `json:"farm_id"`
	Name                string     `json:"name"`
	HeadCount           int        `json:"head_count"`
	AverageWeightKg     float64    `json:"average_weight_kg"`
	PaddockID           *string    `json:"paddock_id"`
	EnteredAt           *time.Time `json:"entered_at"`
	IdealPermanenceDays *int       `json:"ideal_permanence_days"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	DaysInPaddock      *int                `json:"days_in_paddock"`
	DailyConsumptionKg float64             `json:"daily_consumption_kg"`
	Severity           permanence.Severity `json:"severity"`
	Overdue            permanence.Overdue  `json:"overdue"`
}

// createLotHandler godoc
// @Summary Crear lote
// @Description El lote nace en pasto suelto; se asigna a un potrero rotándolo.
// @Tags lots
// @Accept json
// @Produce json
// @Param payload body createLotRequest true "datos del lote"
// @Success 201 {object} LotResponse
// @Failure 400 {string} string "invalid input"
// @Router /lots [post]
func createLotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		var req createLotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Create(r.Context(), CreateInput{
			FarmID:          req.FarmID,
			Name:            req.Name,
			HeadCount:       req.HeadCount,
			AverageWeightKg: req.AverageWeightKg,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ToResponse(v))
	}
}

// listLotsHandler godoc
// @Summary Listar lotes de una finca
// @Tags lots
// @Produce json
// @Param farm_id query string true "ID de la finca"
// @Success 200 {array} LotResponse
// @Router /lots [get]
func listLotsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		items, err := svc.List(r.Context(), r.URL.Query().Get("farm_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]LotResponse, 0, len(items))
		for _, v := range items {
			out = append(out, ToResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getLotHandler godoc
// @Summary Ver lote con días en potrero y alerta de permanencia
// @Tags lots
// @Produce json
// @Param lotID path string true "ID del lote"
// @Success 200 {object} LotResponse
// @Failure 404 {string} string "lot not found"
// @Router /lots/{lotID} [get]
func getLotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		v, err := svc.Get(r.Context(), chi.URLParam(r, "lotID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(v))
	}
}

// updateLotHandler godoc
// @Summary Actualizar rebaño
// @Description Recalcula la permanencia ideal si el lote está en un potrero.
// @Tags lots
// @Accept json
// @Produce json
// @Param lotID path string true "ID del lote"
// @Param payload body updateLotRequest true "campos a cambiar"
// @Success 200 {object} LotResponse
// @Router /lots/{lotID} [patch]
func updateLotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}

		var req updateLotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.UpdateHerd(r.Context(), chi.URLParam(r, "lotID"), UpdateHerdInput{
			Name:            req.Name,
			HeadCount:       req.HeadCount,
			AverageWeightKg: req.AverageWeightKg,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(v))
	}
}

func ToResponse(v View) LotResponse {
	l := v.Lot
	return LotResponse{
		ID:                  l.ID,
		FarmID:              l.FarmID,
		Name:                l.Name,
		HeadCount:           l.HeadCount,
		AverageWeightKg:     l.AverageWeightKg,
		PaddockID:           l.PaddockID,
		EnteredAt:           l.EnteredAt,
		IdealPermanenceDays: l.IdealPermanenceDays,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
		DaysInPaddock:       v.DaysInPaddock,
		DailyConsumptionKg:  v.DailyConsumptionKg,
		Severity:            v.Severity,
		Overdue:             v.Overdue,
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
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "lot not found", http.StatusNotFound)
	case errors.Is(err, ErrStale):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
