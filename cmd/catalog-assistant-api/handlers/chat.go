package handlers

import (
	"fmt"
	"net/http"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/assistant"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/intent"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
)

// ChatHandler answers chat questions.
type ChatHandler struct {
	logger      *observability.Logger
	service     *assistant.Service
	maxQueryLen int
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *observability.Logger, service *assistant.Service, maxQueryLen int) *ChatHandler {
	return &ChatHandler{
		logger:      logger,
		service:     service,
		maxQueryLen: maxQueryLen,
	}
}

// ChatQueryDTO represents the API request for a chat question.
type ChatQueryDTO struct {
	Text string `json:"text" validate:"required"`
}

// ChatResponseDTO represents the API response for a chat question.
type ChatResponseDTO struct {
	Response  string `json:"response"`
	Intent    string `json:"intent,omitempty"`
	Matched   bool   `json:"matched"`
	Cached    bool   `json:"cached"`
	LatencyMs int64  `json:"latencyMs"`
}

// IntentListDTO lists the intent rules in evaluation order.
type IntentListDTO struct {
	Intents []intent.RuleInfo `json:"intents"`
	Count   int               `json:"count"`
}

// Query handles POST /chat/query.
func (h *ChatHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req ChatQueryDTO
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if h.maxQueryLen > 0 && len(req.Text) > h.maxQueryLen {
		writeError(w, http.StatusBadRequest, "text is too long", fmt.Sprintf("at most %d bytes", h.maxQueryLen))
		return
	}

	answer := h.service.Ask(r.Context(), req.Text)

	writeJSON(w, http.StatusOK, ChatResponseDTO{
		Response:  answer.Text,
		Intent:    answer.Intent,
		Matched:   answer.Matched,
		Cached:    answer.Cached,
		LatencyMs: answer.LatencyMs,
	})
}

// Intents handles GET /intents.
func (h *ChatHandler) Intents(w http.ResponseWriter, r *http.Request) {
	rules := h.service.Rules()
	writeJSON(w, http.StatusOK, IntentListDTO{Intents: rules, Count: len(rules)})
}

// PurgeCache handles DELETE /chat/cache.
func (h *ChatHandler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if err := h.service.PurgeAnswers(r.Context()); err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Msg("Failed to purge answer cache")
		writeError(w, http.StatusInternalServerError, "failed to purge answer cache", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
