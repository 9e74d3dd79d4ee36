// Package assistant answers catalog questions with caching and audit around
// the intent matcher.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/cache"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/intent"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/monitoring"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/query"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Answer is the reply to one question.
type Answer struct {
	Text      string `json:"response"`
	Intent    string `json:"intent,omitempty"`
	Matched   bool   `json:"matched"`
	Cached    bool   `json:"cached"`
	LatencyMs int64  `json:"latencyMs"`
}

// Options configures a Service. Zero values disable the optional parts.
type Options struct {
	Cache    cache.Client
	CacheTTL time.Duration
	Audit    *monitoring.AuditLogger
}

// Service answers questions against one catalog. It is safe for concurrent use.
type Service struct {
	logger  *observability.Logger
	lib     *query.Library
	matcher *intent.Matcher
	opts    Options
}

// New creates a service over store using the default rule table.
func New(logger *observability.Logger, store *catalog.Store, opts Options) *Service {
	if logger == nil {
		logger = observability.Nop()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	lib := query.NewLibrary(store)
	return &Service{
		logger:  logger,
		lib:     lib,
		matcher: intent.NewMatcher(intent.DefaultRules(lib), intent.WithLogger(logger)),
		opts:    opts,
	}
}

// Library returns the query library the service answers from.
func (s *Service) Library() *query.Library {
	return s.lib
}

// Rules lists the intent rules in evaluation order.
func (s *Service) Rules() []intent.RuleInfo {
	return s.matcher.Rules()
}

// Ask answers question. It always returns an answer; cache and audit failures
// are logged and never change the reply.
func (s *Service) Ask(ctx context.Context, question string) Answer {
	start := time.Now()
	log := s.logger.WithContext(ctx)

	key := cache.AnswerCacheKey(catalog.Fold(strings.TrimSpace(question)))

	if answer, ok := s.cached(ctx, key); ok {
		answer.Cached = true
		answer.LatencyMs = time.Since(start).Milliseconds()
		s.audit(ctx, question, answer, nil)
		return answer
	}

	res := s.matcher.Resolve(question)
	answer := Answer{
		Text:    res.Text,
		Intent:  res.Rule,
		Matched: res.Matched,
	}

	if res.Err != nil && !errors.Is(res.Err, intent.ErrNoIntentMatched) {
		log.Warn().Err(res.Err).Str("rule", res.Rule).Msg("Answer fell back after rule failure")
	}

	// Failed rules are retried on the next ask rather than cached.
	if res.Err == nil || errors.Is(res.Err, intent.ErrNoIntentMatched) {
		s.store(ctx, key, answer)
	}

	answer.LatencyMs = time.Since(start).Milliseconds()
	s.audit(ctx, question, answer, res.Err)

	log.Debug().
		Str("intent", answer.Intent).
		Bool("matched", answer.Matched).
		Int64("latency_ms", answer.LatencyMs).
		Msg("Question answered")

	return answer
}

// PurgeAnswers drops every cached answer. It is a no-op without a cache.
func (s *Service) PurgeAnswers(ctx context.Context) error {
	if s.opts.Cache == nil {
		return nil
	}
	if err := s.opts.Cache.DeleteByPrefix(ctx, cache.AnswerCachePrefix); err != nil {
		return fmt.Errorf("purge answers: %w", err)
	}
	s.logger.WithContext(ctx).Info().Msg("Answer cache purged")
	return nil
}

func (s *Service) cached(ctx context.Context, key string) (Answer, bool) {
	if s.opts.Cache == nil {
		return Answer{}, false
	}

	data, err := s.opts.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithContext(ctx).Warn().Err(err).Msg("Answer cache lookup failed")
		}
		return Answer{}, false
	}

	var answer Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		s.logger.WithContext(ctx).Warn().Err(err).Msg("Discarding corrupt cached answer")
		return Answer{}, false
	}
	return answer, true
}

func (s *Service) store(ctx context.Context, key string, answer Answer) {
	if s.opts.Cache == nil {
		return
	}

	data, err := json.Marshal(answer)
	if err != nil {
		return
	}
	if err := s.opts.Cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
		s.logger.WithContext(ctx).Warn().Err(err).Msg("Answer cache store failed")
	}
}

func (s *Service) audit(ctx context.Context, question string, answer Answer, failure error) {
	if s.opts.Audit == nil {
		return
	}

	event := monitoring.QueryEvent{
		Question:  question,
		Rule:      answer.Intent,
		Matched:   answer.Matched,
		Cached:    answer.Cached,
		LatencyMs: answer.LatencyMs,
	}
	if failure != nil && !errors.Is(failure, intent.ErrNoIntentMatched) {
		event.Failure = failure.Error()
	}

	if err := s.opts.Audit.LogQuery(ctx, event); err != nil {
		s.logger.WithContext(ctx).Warn().Err(err).Msg("Failed to record query audit event")
	}
}
