package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
	"github.com/mahefa-ra/agentwatch/internal/pkg/utils"
)

// writeServiceError maps a service error onto the wire, preserving the
// status and code when it is already an AppError.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		utils.WriteError(w, appErr)
		return
	}
	utils.WriteError(w, errors.Internal(fallback, err))
}
