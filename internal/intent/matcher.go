// Package intent maps free-text questions onto an ordered table of trigger
// phrases and renders the answer of the first rule that fires.
package intent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
)

// Fallback is returned whenever a question cannot be answered.
const Fallback = "I'm sorry, I didn't understand your query."

// ErrNoIntentMatched indicates no rule trigger occurs in the input.
var ErrNoIntentMatched = errors.New("no intent matched")

// Handler produces the answer text for a rule.
type Handler func() (string, error)

// Rule binds a trigger phrase to a handler. A rule fires when the case-folded
// input contains the case-folded trigger.
type Rule struct {
	Name    string
	Trigger string
	Handle  Handler
}

// Resolution describes how an input was answered.
type Resolution struct {
	Rule    string
	Matched bool
	Text    string
	Err     error
}

// Matcher evaluates rules strictly in declaration order; the first match wins.
// It holds no per-query state and is safe for concurrent use.
type Matcher struct {
	rules    []Rule
	triggers []string
	logger   *observability.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger used to record rule selection.
func WithLogger(logger *observability.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMatcher creates a new matcher over rules.
func NewMatcher(rules []Rule, opts ...Option) *Matcher {
	m := &Matcher{
		rules:    append([]Rule(nil), rules...),
		triggers: make([]string, len(rules)),
		logger:   observability.Nop(),
	}
	for i, r := range rules {
		m.triggers[i] = catalog.Fold(r.Trigger)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Submit answers text. It never fails; anything that cannot be answered
// yields Fallback.
func (m *Matcher) Submit(text string) string {
	return m.Resolve(text).Text
}

// Resolve answers text and reports which rule, if any, produced the answer.
func (m *Matcher) Resolve(text string) Resolution {
	normalized := catalog.Fold(text)

	for i, trigger := range m.triggers {
		if !strings.Contains(normalized, trigger) {
			continue
		}

		rule := m.rules[i]
		answer, err := m.run(rule)
		if err != nil {
			m.logger.Debug().
				Str("rule", rule.Name).
				Err(err).
				Msg("Rule handler failed, using fallback")
			return Resolution{Rule: rule.Name, Matched: true, Text: Fallback, Err: err}
		}

		m.logger.Debug().Str("rule", rule.Name).Msg("Rule matched")
		return Resolution{Rule: rule.Name, Matched: true, Text: answer}
	}

	return Resolution{Text: Fallback, Err: ErrNoIntentMatched}
}

// run invokes the handler, converting a panic into an error.
func (m *Matcher) run(rule Rule) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule %s panicked: %v", rule.Name, r)
		}
	}()
	if rule.Handle == nil {
		return "", fmt.Errorf("rule %s has no handler", rule.Name)
	}
	return rule.Handle()
}

// RuleInfo describes a rule without its handler.
type RuleInfo struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Trigger  string `json:"trigger"`
}

// Rules lists the configured rules in evaluation order.
func (m *Matcher) Rules() []RuleInfo {
	out := make([]RuleInfo, len(m.rules))
	for i, r := range m.rules {
		out[i] = RuleInfo{Position: i + 1, Name: r.Name, Trigger: r.Trigger}
	}
	return out
}
