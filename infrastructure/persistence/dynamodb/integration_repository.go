package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"stackmap-backend/application/ports"
	pkgerrors "stackmap-backend/pkg/errors"
)

// IntegrationRepository implements ports.IntegrationRepository on
// DynamoDB. Credential blobs are stored opaque; encryption is the
// table's job (SSE) rather than the application's.
type IntegrationRepository struct {
	client    *dynamodb.Client
	tableName string
}

// NewIntegrationRepository creates a new IntegrationRepository
func NewIntegrationRepository(client *dynamodb.Client, tableName string) ports.IntegrationRepository {
	return &IntegrationRepository{client: client, tableName: tableName}
}

type credentialItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Credential []byte `dynamodbav:"Credential"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

func integrationPK(organizationID string) string {
	return fmt.Sprintf("ORG#%s#INTEGRATIONS", organizationID)
}

// SaveCredential stores an OAuth credential blob
func (r *IntegrationRepository) SaveCredential(ctx context.Context, organizationID, provider string, credential []byte) error {
	av, err := attributevalue.MarshalMap(credentialItem{
		PK:         integrationPK(organizationID),
		SK:         "PROVIDER#" + provider,
		EntityType: "CREDENTIAL",
		Credential: credential,
		UpdatedAt:  time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("failed to save credential", err)
	}
	return nil
}

// GetCredential retrieves a stored credential blob
func (r *IntegrationRepository) GetCredential(ctx context.Context, organizationID, provider string) ([]byte, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": integrationPK(organizationID),
		"SK": "PROVIDER#" + provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to get credential", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("integration credential")
	}

	var item credentialItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return item.Credential, nil
}

// DeleteCredential removes a stored credential blob
func (r *IntegrationRepository) DeleteCredential(ctx context.Context, organizationID, provider string) error {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": integrationPK(organizationID),
		"SK": "PROVIDER#" + provider,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("failed to delete credential", err)
	}
	return nil
}
