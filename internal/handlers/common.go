package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/lcsh-assistant/internal/config"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/models"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/pipeline"
	"github.com/lehigh-university-libraries/lcsh-assistant/internal/storage"
)

// PipelineFactory builds a pipeline for the provider and model a session
// selected. An empty model lets the provider pick its default.
type PipelineFactory func(provider, model string) (*pipeline.Pipeline, error)

type Handler struct {
	sessionStore *storage.SessionStore
	newPipeline  PipelineFactory
	cfg          config.Config
}

func New(factory PipelineFactory, cfg config.Config) *Handler {
	return &Handler{
		sessionStore: storage.New(),
		newPipeline:  factory,
		cfg:          cfg,
	}
}

// Sessions exposes the store so the server can wipe credentials on
// shutdown.
func (h *Handler) Sessions() *storage.SessionStore {
	return h.sessionStore
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// errorStatus maps pipeline error kinds to HTTP status codes. The message
// the client sees is the error kind, not internal detail.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, models.ErrEmptyInput),
		errors.Is(err, models.ErrExtractionFailed):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, models.ErrContentPolicy):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrGenerationTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrGenerationFailed),
		errors.Is(err, models.ErrMalformedResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
