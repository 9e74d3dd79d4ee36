package grpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/assistant"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/intent"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := NewChatService(nil, assistant.New(nil, catalog.Default(), assistant.Options{}), 100)
	path, handler := svc.Handler()

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestChatService_Ask(t *testing.T) {
	srv := newTestServer(t)
	client := connect.NewClient[AskRequest, AskResponse](srv.Client(), srv.URL+ChatServiceAskPath, connect.WithCodec(Codec{}))

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&AskRequest{Text: "Which supplier offers the cheapest product?"}))
	require.NoError(t, err)
	assert.Equal(t, "MobileWorld – Offers SmartPhone X20 (₹45,000)", resp.Msg.Response)
	assert.Equal(t, intent.RuleCheapestProductSupplier, resp.Msg.Intent)
	assert.True(t, resp.Msg.Matched)

	resp, err = client.CallUnary(context.Background(), connect.NewRequest(&AskRequest{Text: "good morning"}))
	require.NoError(t, err)
	assert.Equal(t, intent.Fallback, resp.Msg.Response)
	assert.False(t, resp.Msg.Matched)
}

func TestChatService_AskInvalid(t *testing.T) {
	srv := newTestServer(t)
	client := connect.NewClient[AskRequest, AskResponse](srv.Client(), srv.URL+ChatServiceAskPath, connect.WithCodec(Codec{}))

	_, err := client.CallUnary(context.Background(), connect.NewRequest(&AskRequest{Text: "   "}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = client.CallUnary(context.Background(), connect.NewRequest(&AskRequest{Text: strings.Repeat("a", 101)}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestChatService_PlainJSONPost(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Post(srv.URL+ChatServiceAskPath, "application/json",
		strings.NewReader(`{"text":"show me all mobile phones"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChatService_ListRules(t *testing.T) {
	srv := newTestServer(t)
	client := connect.NewClient[ListRulesRequest, ListRulesResponse](srv.Client(), srv.URL+ChatServiceRulesPath, connect.WithCodec(Codec{}))

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&ListRulesRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Rules, 30)
	assert.Equal(t, int32(1), resp.Msg.Rules[0].Position)
	assert.Equal(t, intent.RuleMobilePhones, resp.Msg.Rules[0].Name)
}
