// Package grpc provides Connect service implementations for the catalog assistant.
package grpc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	jsoniter "github.com/json-iterator/go"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/assistant"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
)

// Procedure names.
const (
	ChatServiceName      = "catalog.v1.ChatService"
	ChatServiceAskPath   = "/" + ChatServiceName + "/Ask"
	ChatServiceRulesPath = "/" + ChatServiceName + "/ListRules"
)

// ChatService implements the Connect chat service.
type ChatService struct {
	logger      *observability.Logger
	service     *assistant.Service
	maxQueryLen int
}

// NewChatService creates a new chat service.
func NewChatService(logger *observability.Logger, service *assistant.Service, maxQueryLen int) *ChatService {
	if logger == nil {
		logger = observability.Nop()
	}
	return &ChatService{
		logger:      logger,
		service:     service,
		maxQueryLen: maxQueryLen,
	}
}

// AskRequest represents the Ask request message.
type AskRequest struct {
	Text string `json:"text"`
}

// AskResponse represents the Ask response message.
type AskResponse struct {
	Response  string `json:"response"`
	Intent    string `json:"intent,omitempty"`
	Matched   bool   `json:"matched"`
	Cached    bool   `json:"cached"`
	LatencyMs int64  `json:"latency_ms"`
}

// ListRulesRequest is the empty ListRules request.
type ListRulesRequest struct{}

// ListRulesResponse lists the intent rules in evaluation order.
type ListRulesResponse struct {
	Rules []*Rule `json:"rules"`
}

// Rule describes one intent rule.
type Rule struct {
	Position int32  `json:"position"`
	Name     string `json:"name"`
	Trigger  string `json:"trigger"`
}

// Ask answers a chat message.
func (s *ChatService) Ask(ctx context.Context, req *connect.Request[AskRequest]) (*connect.Response[AskResponse], error) {
	text := req.Msg.Text
	if strings.TrimSpace(text) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("text is required"))
	}
	if s.maxQueryLen > 0 && len(text) > s.maxQueryLen {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("text is too long"))
	}

	answer := s.service.Ask(ctx, text)

	s.logger.WithContext(ctx).Debug().
		Str("intent", answer.Intent).
		Msg("Connect ask served")

	return connect.NewResponse(&AskResponse{
		Response:  answer.Text,
		Intent:    answer.Intent,
		Matched:   answer.Matched,
		Cached:    answer.Cached,
		LatencyMs: answer.LatencyMs,
	}), nil
}

// ListRules returns the configured intent rules.
func (s *ChatService) ListRules(ctx context.Context, req *connect.Request[ListRulesRequest]) (*connect.Response[ListRulesResponse], error) {
	infos := s.service.Rules()
	resp := &ListRulesResponse{Rules: make([]*Rule, 0, len(infos))}
	for _, info := range infos {
		resp.Rules = append(resp.Rules, &Rule{
			Position: int32(info.Position),
			Name:     info.Name,
			Trigger:  info.Trigger,
		})
	}
	return connect.NewResponse(resp), nil
}

// Handler returns the service mount path and its HTTP handler.
func (s *ChatService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ChatServiceAskPath, connect.NewUnaryHandler(ChatServiceAskPath, s.Ask, opts...))
	mux.Handle(ChatServiceRulesPath, connect.NewUnaryHandler(ChatServiceRulesPath, s.ListRules, opts...))
	return "/" + ChatServiceName + "/", mux
}

// Codec encodes plain Go messages as JSON. It replaces the protobuf JSON codec
// since the messages are not generated protobuf types.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(message any) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(message)
}

// Unmarshal implements connect.Codec.
func (Codec) Unmarshal(data []byte, message any) error {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, message)
}
