package handlers

import (
	"net/http"
	"strconv"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/monitoring"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
)

const defaultAuditLimit = 50

// AuditHandler exposes the in-memory audit trail.
type AuditHandler struct {
	logger *observability.Logger
	audit  *monitoring.AuditLogger
}

// NewAuditHandler creates a new audit handler. audit may be nil when auditing is disabled.
func NewAuditHandler(logger *observability.Logger, audit *monitoring.AuditLogger) *AuditHandler {
	return &AuditHandler{logger: logger, audit: audit}
}

// AuditQueryDTO holds the audit listing parameters.
type AuditQueryDTO struct {
	Limit int `validate:"gte=1,lte=256"`
}

// AuditEventListDTO lists recent audit events, newest first.
type AuditEventListDTO struct {
	Enabled bool                    `json:"enabled"`
	Events  []monitoring.AuditEvent `json:"events"`
	Count   int                     `json:"count"`
}

// Events handles GET /audit/events.
func (h *AuditHandler) Events(w http.ResponseWriter, r *http.Request) {
	q := AuditQueryDTO{Limit: defaultAuditLimit}
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid query", "limit must be an integer")
			return
		}
		q.Limit = limit
	}
	if err := validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	if h.audit == nil {
		writeJSON(w, http.StatusOK, AuditEventListDTO{Events: []monitoring.AuditEvent{}})
		return
	}

	events := h.audit.Recent(q.Limit)
	writeJSON(w, http.StatusOK, AuditEventListDTO{Enabled: true, Events: events, Count: len(events)})
}
