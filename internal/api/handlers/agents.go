package handlers

import (
	"net/http"

	"github.com/mahefa-ra/agentwatch/internal/api/dto"
	"github.com/mahefa-ra/agentwatch/internal/domain/agent"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/utils"
)

type AgentHandler struct {
	repo   agent.Repository
	logger *logger.Logger
}

func NewAgentHandler(repo agent.Repository, log *logger.Logger) *AgentHandler {
	return &AgentHandler{repo: repo, logger: log}
}

// List returns the agent directory
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.repo.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to list agents")
		return
	}

	dtos := make([]dto.AgentDTO, len(agents))
	for i, a := range agents {
		dtos[i] = dto.AgentDTO{ID: a.ID, FullName: a.FullName, Email: a.Email}
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}
