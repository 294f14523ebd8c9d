package integrations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(tokenURL string) *Client {
	return NewClient(map[Provider]ProviderConfig{
		ProviderSlack: {
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			AuthorizeURL: "https://slack.example.com/authorize",
			TokenURL:     tokenURL,
			Scopes:       []string{"chat:write", "channels:read"},
		},
	}, zap.NewNop())
}

func TestAuthorizeURL(t *testing.T) {
	client := newTestClient("https://slack.example.com/token")

	raw, err := client.AuthorizeURL(ProviderSlack, "state-123", "https://app.example.com/callback")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "slack.example.com", parsed.Host)
	assert.Equal(t, "client-id", parsed.Query().Get("client_id"))
	assert.Equal(t, "state-123", parsed.Query().Get("state"))
	assert.Equal(t, "code", parsed.Query().Get("response_type"))
	assert.Equal(t, "chat:write channels:read", parsed.Query().Get("scope"))
}

func TestAuthorizeURL_UnknownProvider(t *testing.T) {
	client := newTestClient("https://slack.example.com/token")

	_, err := client.AuthorizeURL(ProviderTeams, "state", "https://app.example.com/callback")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"xoxb-token","token_type":"bot","scope":"chat:write"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	cred, err := client.ExchangeCode(context.Background(), ProviderSlack, "auth-code", "https://app.example.com/callback")
	require.NoError(t, err)
	assert.Equal(t, "xoxb-token", cred.AccessToken)
	assert.Equal(t, "bot", cred.TokenType)
}

func TestExchangeCode_UnknownProvider(t *testing.T) {
	client := newTestClient("https://slack.example.com/token")

	_, err := client.ExchangeCode(context.Background(), ProviderTeams, "code", "https://app.example.com/callback")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestExchangeCode_TokenEndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ExchangeCode(context.Background(), ProviderSlack, "auth-code", "https://app.example.com/callback")
	assert.Error(t, err)
}

func TestExchangeCode_MissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ExchangeCode(context.Background(), ProviderSlack, "auth-code", "https://app.example.com/callback")
	assert.Error(t, err)
}
