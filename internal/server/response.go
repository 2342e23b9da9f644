package server

import (
	"encoding/json"
	"net/http"

	perrors "github.com/matzehuels/printqueue/pkg/errors"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps err to a status code through its error code.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, perrors.HTTPStatus(err), errorResponse{
		Error: perrors.UserMessage(err),
		Code:  string(perrors.GetCode(err)),
	})
}
