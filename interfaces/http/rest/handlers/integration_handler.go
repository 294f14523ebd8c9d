package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stackmap-backend/application/ports"
	"stackmap-backend/pkg/auth"
	"stackmap-backend/pkg/common"
	"stackmap-backend/pkg/integrations"
)

// IntegrationHandler serves the workspace integration OAuth flow. The
// frontend opens the authorize URL, the provider redirects back to it,
// and the frontend completes the flow through the callback endpoint.
type IntegrationHandler struct {
	client       *integrations.Client
	repo         ports.IntegrationRepository
	redirectURIs map[integrations.Provider]string
	logger       *zap.Logger
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(
	client *integrations.Client,
	repo ports.IntegrationRepository,
	redirectURIs map[integrations.Provider]string,
	logger *zap.Logger,
) *IntegrationHandler {
	return &IntegrationHandler{
		client:       client,
		repo:         repo,
		redirectURIs: redirectURIs,
		logger:       logger,
	}
}

type connectResponse struct {
	AuthorizeURL string `json:"authorizeUrl"`
	State        string `json:"state"`
}

type integrationStatus struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
}

// Connect handles GET /integrations/{provider}/connect
func (h *IntegrationHandler) Connect(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.provider(w, r)
	if !ok {
		return
	}

	state := uuid.NewString()
	authorizeURL, err := h.client.AuthorizeURL(provider, state, h.redirectURIs[provider])
	if err != nil {
		common.RespondError(w, http.StatusNotFound,
			common.StandardErrorCodes.NotFound, "integration provider not configured")
		return
	}

	common.RespondJSON(w, http.StatusOK, connectResponse{
		AuthorizeURL: authorizeURL,
		State:        state,
	})
}

// Callback handles GET /integrations/{provider}/callback. The provider
// redirects here with the authorization code in the query string.
func (h *IntegrationHandler) Callback(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	provider, ok := h.provider(w, r)
	if !ok {
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		common.RespondError(w, http.StatusBadRequest,
			common.StandardErrorCodes.ValidationError, "authorization code is required")
		return
	}

	credential, err := h.client.ExchangeCode(r.Context(), provider, code, h.redirectURIs[provider])
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	blob, err := json.Marshal(credential)
	if err != nil {
		common.RespondError(w, http.StatusInternalServerError,
			common.StandardErrorCodes.InternalError, "failed to store credential")
		return
	}
	if err := h.repo.SaveCredential(r.Context(), user.OrganizationID, string(provider), blob); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.logger.Info("integration connected",
		zap.String("organization_id", user.OrganizationID),
		zap.String("provider", string(provider)))
	common.RespondJSON(w, http.StatusOK, integrationStatus{
		Provider:  string(provider),
		Connected: true,
	})
}

// Disconnect handles DELETE /integrations/{provider}
func (h *IntegrationHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	provider, ok := h.provider(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteCredential(r.Context(), user.OrganizationID, string(provider)); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, integrationStatus{
		Provider:  string(provider),
		Connected: false,
	})
}

// Status handles GET /integrations/{provider}
func (h *IntegrationHandler) Status(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	provider, ok := h.provider(w, r)
	if !ok {
		return
	}

	_, err = h.repo.GetCredential(r.Context(), user.OrganizationID, string(provider))
	common.RespondJSON(w, http.StatusOK, integrationStatus{
		Provider:  string(provider),
		Connected: err == nil,
	})
}

func (h *IntegrationHandler) provider(w http.ResponseWriter, r *http.Request) (integrations.Provider, bool) {
	provider := integrations.Provider(chi.URLParam(r, "provider"))
	switch provider {
	case integrations.ProviderSlack, integrations.ProviderTeams:
		return provider, true
	default:
		common.RespondError(w, http.StatusNotFound,
			common.StandardErrorCodes.NotFound, "unknown integration provider")
		return "", false
	}
}
