// Package monitoring provides audit logging for answered questions.
package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
)

// Resource types recorded in audit events.
const (
	ResourceQuery      = "chat_query"
	ResourceComparison = "comparison_query"
	ResourceCatalog    = "catalog"
)

// Publisher delivers audit events to subscribers. *cache.RedisClient satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// AuditLogger records audit events to the structured log, an in-memory trail
// and, when configured, a pub/sub channel.
type AuditLogger struct {
	logger    *observability.Logger
	publisher Publisher
	channel   string

	mu      sync.Mutex
	trail   []AuditEvent
	maxKept int
}

// AuditEvent represents an auditable action.
type AuditEvent struct {
	ID           uuid.UUID              `json:"id"`
	RequestID    string                 `json:"request_id,omitempty"`
	ResourceType string                 `json:"resource_type"`
	Action       string                 `json:"action"`
	Operator     string                 `json:"operator"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
	OccurredAt   time.Time              `json:"occurred_at"`
}

// QueryEvent describes one answered question.
type QueryEvent struct {
	Question  string
	Rule      string
	Matched   bool
	Cached    bool
	LatencyMs int64
	Failure   string
}

// NewAuditLogger creates a new audit logger. publisher may be nil.
func NewAuditLogger(logger *observability.Logger, publisher Publisher, channel string) *AuditLogger {
	if logger == nil {
		logger = observability.Nop()
	}
	return &AuditLogger{
		logger:    logger,
		publisher: publisher,
		channel:   channel,
		maxKept:   256,
	}
}

// LogEvent records an audit event.
func (a *AuditLogger) LogEvent(ctx context.Context, event AuditEvent) error {
	// Set defaults
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = observability.RequestIDFromContext(ctx)
	}

	a.logger.WithContext(ctx).Info().
		Str("event_id", event.ID.String()).
		Str("resource_type", event.ResourceType).
		Str("action", event.Action).
		Str("operator", event.Operator).
		Interface("payload", event.Payload).
		Msg("Audit event")

	a.mu.Lock()
	a.trail = append(a.trail, event)
	if len(a.trail) > a.maxKept {
		a.trail = a.trail[len(a.trail)-a.maxKept:]
	}
	a.mu.Unlock()

	if a.publisher == nil || a.channel == "" {
		return nil
	}
	return a.publisher.Publish(ctx, a.channel, event)
}

// LogQuery records an answered chat question.
func (a *AuditLogger) LogQuery(ctx context.Context, q QueryEvent) error {
	payload := map[string]interface{}{
		"question":   q.Question,
		"rule":       q.Rule,
		"matched":    q.Matched,
		"cached":     q.Cached,
		"latency_ms": q.LatencyMs,
	}
	if q.Failure != "" {
		payload["failure"] = q.Failure
	}

	return a.LogEvent(ctx, AuditEvent{
		ResourceType: ResourceQuery,
		Action:       "answered",
		Operator:     "assistant",
		Payload:      payload,
	})
}

// LogComparison records a comparison request.
func (a *AuditLogger) LogComparison(ctx context.Context, primaryID, secondaryID int, rows int) error {
	return a.LogEvent(ctx, AuditEvent{
		ResourceType: ResourceComparison,
		Action:       "compared",
		Operator:     "api",
		Payload: map[string]interface{}{
			"primary_product_id":   primaryID,
			"secondary_product_id": secondaryID,
			"result_count":         rows,
		},
	})
}

// LogCatalogLoad records a catalog being loaded at startup.
func (a *AuditLogger) LogCatalogLoad(ctx context.Context, source string, products, suppliers int) error {
	return a.LogEvent(ctx, AuditEvent{
		ResourceType: ResourceCatalog,
		Action:       "loaded",
		Operator:     "system",
		Payload: map[string]interface{}{
			"source":    source,
			"products":  products,
			"suppliers": suppliers,
		},
	})
}

// Recent returns up to limit of the most recent events, newest first.
func (a *AuditLogger) Recent(limit int) []AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	if limit <= 0 || limit > len(a.trail) {
		limit = len(a.trail)
	}
	out := make([]AuditEvent, 0, limit)
	for i := len(a.trail) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, a.trail[i])
	}
	return out
}
