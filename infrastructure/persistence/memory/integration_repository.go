package memory

import (
	"context"
	"sync"

	pkgerrors "stackmap-backend/pkg/errors"
)

// IntegrationRepository is an in-memory ports.IntegrationRepository
type IntegrationRepository struct {
	mu          sync.RWMutex
	credentials map[string][]byte
}

// NewIntegrationRepository creates an empty repository
func NewIntegrationRepository() *IntegrationRepository {
	return &IntegrationRepository{credentials: make(map[string][]byte)}
}

func credentialKey(organizationID, provider string) string {
	return organizationID + "/" + provider
}

// SaveCredential stores an OAuth credential blob
func (r *IntegrationRepository) SaveCredential(_ context.Context, organizationID, provider string, credential []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.credentials[credentialKey(organizationID, provider)] = credential
	return nil
}

// GetCredential retrieves a stored credential blob
func (r *IntegrationRepository) GetCredential(_ context.Context, organizationID, provider string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	credential, exists := r.credentials[credentialKey(organizationID, provider)]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("integration credential")
	}
	return credential, nil
}

// DeleteCredential removes a stored credential blob
func (r *IntegrationRepository) DeleteCredential(_ context.Context, organizationID, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := credentialKey(organizationID, provider)
	if _, exists := r.credentials[key]; !exists {
		return pkgerrors.NewNotFoundError("integration credential")
	}
	delete(r.credentials, key)
	return nil
}
