package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/htmlpage/engine/internal/api/middleware"
	"github.com/htmlpage/engine/internal/api/types"
	appErr "github.com/htmlpage/engine/pkg/errors"
)

// statusNotFound is the status field of htmlpage error bodies.
const statusNotFound = "NOT_FOUND"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeNotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, types.ErrorResponse{Status: statusNotFound, Message: msg})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, appErr.HTTPStatus(err), types.APIResponse{
		Success: false,
		Error:   types.FromAppError(err),
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}
