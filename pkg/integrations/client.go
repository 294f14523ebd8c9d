package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	pkgerrors "stackmap-backend/pkg/errors"
)

// Provider identifies a supported chat integration
type Provider string

const (
	ProviderSlack Provider = "slack"
	ProviderTeams Provider = "teams"
)

// ErrUnknownProvider is returned for providers this deployment does not support
var ErrUnknownProvider = errors.New("unknown integration provider")

// ProviderConfig holds the OAuth endpoints and credentials for one provider
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	AuthorizeURL string
	TokenURL     string
	Scopes       []string
}

// Credential is the result of a successful authorization code exchange
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// Client performs OAuth connect flows against chat providers. Outbound
// calls run through a per-provider circuit breaker so a failing provider
// cannot exhaust server resources.
type Client struct {
	providers map[Provider]ProviderConfig
	breakers  map[Provider]*gobreaker.CircuitBreaker
	http      *http.Client
	logger    *zap.Logger
}

// NewClient creates an integrations client for the configured providers
func NewClient(providers map[Provider]ProviderConfig, logger *zap.Logger) *Client {
	breakers := make(map[Provider]*gobreaker.CircuitBreaker, len(providers))
	for provider := range providers {
		name := string(provider)
		breakers[Provider(name)] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    30 * time.Second,
			Timeout:     60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < 5 {
					return false
				}
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return failureRatio >= 0.8
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn("Integration circuit breaker state changed",
					zap.String("provider", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}

	return &Client{
		providers: providers,
		breakers:  breakers,
		http:      &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

// AuthorizeURL builds the provider authorization URL for the connect flow
func (c *Client) AuthorizeURL(provider Provider, state, redirectURI string) (string, error) {
	cfg, ok := c.providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}

	params := url.Values{}
	params.Set("client_id", cfg.ClientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("response_type", "code")
	params.Set("state", state)
	if len(cfg.Scopes) > 0 {
		params.Set("scope", strings.Join(cfg.Scopes, " "))
	}

	return cfg.AuthorizeURL + "?" + params.Encode(), nil
}

// ExchangeCode exchanges an authorization code for provider credentials
func (c *Client) ExchangeCode(ctx context.Context, provider Provider, code, redirectURI string) (*Credential, error) {
	cfg, ok := c.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	breaker := c.breakers[provider]
	result, err := breaker.Execute(func() (interface{}, error) {
		return c.exchange(ctx, cfg, code, redirectURI)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, pkgerrors.NewExternalError(
				fmt.Sprintf("%s integration temporarily unavailable", provider), err)
		}
		return nil, err
	}

	return result.(*Credential), nil
}

func (c *Client) exchange(ctx context.Context, cfg ProviderConfig, code, redirectURI string) (*Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", cfg.ClientID)
	form.Set("client_secret", cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.NewExternalError("token exchange request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.NewExternalError(
			fmt.Sprintf("token endpoint returned status %d", resp.StatusCode), nil)
	}

	var cred Credential
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return nil, pkgerrors.NewExternalError("invalid token response", err)
	}
	if cred.AccessToken == "" {
		return nil, pkgerrors.NewExternalError("token response missing access token", nil)
	}

	return &cred, nil
}
