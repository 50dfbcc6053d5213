package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

const internalErrorMessage = "internal server error"

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.LogError("failed to encode response", err)
	}
}

// statusFor maps the domain error taxonomy onto HTTP status codes and the
// message that is safe to show a client.
func statusFor(err error) (int, errorResponse) {
	var verr *domain.ValidationError
	var aerr *domain.AuthError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields}
	case errors.As(err, &aerr):
		return http.StatusUnauthorized, errorResponse{Error: aerr.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "not found"}
	default:
		return http.StatusInternalServerError, errorResponse{Error: internalErrorMessage}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.LogError("request failed", err, "method", r.Method, "path", r.URL.Path)
	} else {
		logger.LogDebug("request rejected", "status", status, "path", r.URL.Path, "error", err.Error())
	}
	writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError(errors.New("invalid request body"))
	}
	return nil
}

// redirectWithResult finishes a form post: client errors become a flash
// message, server errors are answered directly.
func redirectWithResult(w http.ResponseWriter, r *http.Request, to, success string, err error) {
	if err != nil {
		status, body := statusFor(err)
		if status >= http.StatusInternalServerError {
			writeError(w, r, err)
			return
		}
		session.SetFlash(w, body.Error)
	} else {
		session.SetFlash(w, success)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
