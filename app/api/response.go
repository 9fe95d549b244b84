// Package api holds what every handler shares: JSON responses, error
// mapping and the PIN gate.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sandyspace/catalog-manager/ai"
	"github.com/sandyspace/catalog-manager/logger"
	"github.com/sandyspace/catalog-manager/messages"
	"github.com/sandyspace/catalog-manager/models"
	"github.com/sandyspace/catalog-manager/remote"
)

// Localizer renders a message id for an Accept-Language header value.
type Localizer interface {
	Localize(acceptLanguage, id string, data map[string]any) string
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// Responder turns errors into localized JSON error responses.
type Responder struct {
	translator Localizer
	logger     logger.ZapLogger
}

func NewResponder(translator Localizer, log logger.ZapLogger) *Responder {
	return &Responder{translator: translator, logger: log}
}

// Message localizes id for the language the request asks for.
func (rs *Responder) Message(r *http.Request, id string, data map[string]any) string {
	return rs.translator.Localize(r.Header.Get("Accept-Language"), id, data)
}

// BadRequest writes a 400 with the localized message id.
func (rs *Responder) BadRequest(w http.ResponseWriter, r *http.Request, id string) {
	WriteError(w, http.StatusBadRequest, rs.Message(r, id, nil))
}

// Error maps err to a status code: validation 400, wrong PIN 401, unknown
// product 404, remote failure 502, anything else 500.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := models.IsValidation(err); ok {
		WriteError(w, http.StatusBadRequest, rs.Message(r, verr.MessageID, verr.Data))
		return
	}

	var apiErr *ai.APIError
	switch {
	case errors.Is(err, models.ErrPINIncorrect):
		WriteError(w, http.StatusUnauthorized, rs.Message(r, messages.PinIncorrect, nil))
	case errors.Is(err, models.ErrProductNotFound):
		WriteError(w, http.StatusNotFound, rs.Message(r, messages.ProductNotFound, nil))
	case errors.Is(err, ai.ErrMissingAPIKey):
		WriteError(w, http.StatusBadRequest, rs.Message(r, messages.APIKeyMissing, nil))
	case remote.IsUpstream(err), errors.As(err, &apiErr):
		rs.logger.Warn("upstream failure", zap.String("path", r.URL.Path), zap.Error(err))
		WriteError(w, http.StatusBadGateway, err.Error())
	default:
		rs.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
