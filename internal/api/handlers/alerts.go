package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mahefa-ra/agentwatch/internal/api/dto"
	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/utils"
	"github.com/mahefa-ra/agentwatch/internal/services"
)

// Trigger requests an asynchronous re-evaluation of the detection rules.
type Trigger interface {
	Trigger(reason string)
}

type AlertHandler struct {
	detection *services.DetectionService
	evaluator Trigger
	logger    *logger.Logger
}

func NewAlertHandler(detection *services.DetectionService, evaluator Trigger, log *logger.Logger) *AlertHandler {
	return &AlertHandler{detection: detection, evaluator: evaluator, logger: log}
}

// List returns the ranked alert set. Dismissed alerts are excluded unless
// include_dismissed=true is passed, in which case they are flagged inline.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	includeDismissed := r.URL.Query().Get("include_dismissed") == "true"

	var dtos []dto.AlertDTO
	if includeDismissed {
		all := h.detection.All()
		dismissed := make(map[string]bool)
		ids, err := h.detection.ListDismissed(r.Context())
		if err != nil {
			utils.WriteError(w, errors.Internal("Failed to list dismissed alerts", err))
			return
		}
		for _, id := range ids {
			dismissed[id] = true
		}
		dtos = make([]dto.AlertDTO, len(all))
		for i, a := range all {
			dtos[i] = dto.NewAlertDTO(a, dismissed[a.ID])
		}
	} else {
		active := h.detection.Active()
		dtos = make([]dto.AlertDTO, len(active))
		for i, a := range active {
			dtos[i] = dto.NewAlertDTO(a, false)
		}
	}

	utils.WriteSuccess(w, http.StatusOK, dto.AlertListDTO{
		Alerts:      dtos,
		EvaluatedAt: h.detection.EvaluatedAt(),
	})
}

// Summary returns active alert counts per severity
func (h *AlertHandler) Summary(w http.ResponseWriter, r *http.Request) {
	counts := h.detection.ActiveCounts()
	utils.WriteSuccess(w, http.StatusOK, dto.AlertSummaryDTO{
		Critical: counts.Critical,
		Warning:  counts.Warning,
		Info:     counts.Info,
		Total:    counts.Total,
	})
}

// Evaluate forces a re-evaluation cycle. The cycle runs asynchronously;
// the refreshed set is visible on the next List call.
func (h *AlertHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	h.evaluator.Trigger("manual")
	utils.WriteSuccessWithMessage(w, http.StatusAccepted, "Evaluation triggered", nil)
}

// Dismiss suppresses an alert by ID
func (h *AlertHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "id")
	if alertID == "" {
		utils.WriteError(w, errors.BadRequest("Alert ID is required"))
		return
	}

	if err := h.detection.Dismiss(r.Context(), alertID); err != nil {
		writeServiceError(w, err, "Failed to dismiss alert")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert dismissed", nil)
}

// Restore lifts a dismissal by ID
func (h *AlertHandler) Restore(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "id")
	if alertID == "" {
		utils.WriteError(w, errors.BadRequest("Alert ID is required"))
		return
	}

	if err := h.detection.Restore(r.Context(), alertID); err != nil {
		writeServiceError(w, err, "Failed to restore alert")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert restored", nil)
}

// ListDismissed returns the dismissed alert IDs
func (h *AlertHandler) ListDismissed(w http.ResponseWriter, r *http.Request) {
	ids, err := h.detection.ListDismissed(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to list dismissed alerts")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string][]string{"dismissed": ids})
}
