package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mahefa-ra/agentwatch/internal/api/dto"
	"github.com/mahefa-ra/agentwatch/internal/domain/audit"
	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/utils"
	"github.com/mahefa-ra/agentwatch/internal/pkg/validator"
)

type AuditHandler struct {
	service   audit.Service
	evaluator Trigger
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAuditHandler(service audit.Service, evaluator Trigger, log *logger.Logger, val *validator.Validator) *AuditHandler {
	return &AuditHandler{service: service, evaluator: evaluator, logger: log, validator: val}
}

// Record ingests one audit entry and triggers a re-evaluation
func (h *AuditHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if verrs := h.validator.Validate(req); len(verrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Invalid audit entry", verrs))
		return
	}

	id, err := h.service.Record(r.Context(), req.ToEntry())
	if err != nil {
		writeServiceError(w, err, "Failed to record audit entry")
		return
	}

	h.evaluator.Trigger("ingest")

	utils.WriteSuccess(w, http.StatusCreated, map[string]string{"id": id})
}

// List returns recent audit entries, newest first, with pagination and
// optional agent_id / action_type filters.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	params := utils.ParsePaginationParams(r)

	filter := audit.Filter{
		AgentID: r.URL.Query().Get("agent_id"),
		Action:  audit.ActionType(r.URL.Query().Get("action_type")),
	}

	entries, total, err := h.service.List(r.Context(), filter, params.PageSize, params.Offset)
	if err != nil {
		writeServiceError(w, err, "Failed to list audit entries")
		return
	}

	dtos := make([]dto.AuditEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = dto.NewAuditEntryDTO(e)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, params.Page, params.PageSize, total))
}
