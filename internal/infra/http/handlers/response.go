package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError renders usecase errors. Unknown errors are reported as a
// generic 500 without leaking the cause.
func writeError(w http.ResponseWriter, err error) {
	status := usecase.HTTPStatus(err)

	var de *usecase.DomainError
	var te *usecase.TechnicalError
	switch {
	case errors.As(err, &de):
		writeJSON(w, status, ErrorResponse{Error: de.Message, Code: de.Code, Details: de.Details})
	case errors.As(err, &te):
		writeJSON(w, status, ErrorResponse{Error: te.Message, Code: te.Code, Details: te.Details})
	default:
		writeJSON(w, status, ErrorResponse{Error: "Internal server error"})
	}
}
