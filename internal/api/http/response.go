package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/service"
)

// errorResponse is the JSON body of every failed request
type errorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError translates err into a status code and a JSON body
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Code:    string(domain.CodeOf(err)),
		Message: domain.MessageOf(err),
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Code = string(domain.ErrCodeValidation)
		resp.Fields = verr.Fields
	}
	if resp.Code == "" {
		resp.Code = http.StatusText(status)
	}
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, service.ErrReadOnlyField):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrSubmitInProgress), errors.Is(err, service.ErrFormClosed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrAvailabilityQueryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func fieldError(field, code, message string) error {
	return domain.NewValidationError(domain.FieldError{Field: field, Code: code, Message: message})
}
