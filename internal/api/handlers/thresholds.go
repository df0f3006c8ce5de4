package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mahefa-ra/agentwatch/internal/api/dto"
	"github.com/mahefa-ra/agentwatch/internal/domain/threshold"
	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/utils"
	"github.com/mahefa-ra/agentwatch/internal/pkg/validator"
)

type ThresholdHandler struct {
	service   threshold.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewThresholdHandler(service threshold.Service, log *logger.Logger, val *validator.Validator) *ThresholdHandler {
	return &ThresholdHandler{service: service, logger: log, validator: val}
}

// Get returns the active threshold configuration
func (h *ThresholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to load threshold configuration")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewThresholdDTO(cfg))
}

// Update replaces the threshold configuration with the request body.
// Partial updates are not supported; an invalid body changes nothing.
func (h *ThresholdHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ThresholdDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if verrs := h.validator.Validate(req); len(verrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Invalid threshold configuration", verrs))
		return
	}

	if err := h.service.Update(r.Context(), req.ToConfig()); err != nil {
		writeServiceError(w, err, "Failed to update threshold configuration")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Threshold configuration updated", req)
}

// Reset restores the default threshold configuration
func (h *ThresholdHandler) Reset(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Reset(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to reset threshold configuration")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Threshold configuration reset", dto.NewThresholdDTO(cfg))
}
