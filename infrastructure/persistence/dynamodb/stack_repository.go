// Package dynamodb implements the persistence ports on a DynamoDB
// single-table design. Every item carries a composite PK/SK pair;
// project stacks decompose into one item per tool and connection plus
// a single positions item.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/aggregates"
	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/core/valueobjects"
	pkgerrors "stackmap-backend/pkg/errors"
	"stackmap-backend/pkg/observability"
)

const batchWriteLimit = 25

// StackRepository implements ports.StackRepository on DynamoDB
type StackRepository struct {
	client    *dynamodb.Client
	tableName string
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewStackRepository creates a new StackRepository
func NewStackRepository(client *dynamodb.Client, tableName string, metrics *observability.Collector, logger *zap.Logger) ports.StackRepository {
	return &StackRepository{
		client:    client,
		tableName: tableName,
		metrics:   metrics,
		logger:    logger,
	}
}

type toolItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	EntityType    string `dynamodbav:"EntityType"`
	ToolID        string `dynamodbav:"ToolID"`
	ApplicationID string `dynamodbav:"ApplicationID"`
	Name          string `dynamodbav:"Name"`
	Category      string `dynamodbav:"Category"`
	Status        string `dynamodbav:"Status"`
	Website       string `dynamodbav:"Website,omitempty"`
	LogoURL       string `dynamodbav:"LogoURL,omitempty"`
	Note          string `dynamodbav:"Note,omitempty"`
	AddedBy       string `dynamodbav:"AddedBy"`
	AddedAt       string `dynamodbav:"AddedAt"`
}

type connectionItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	ConnectionID string `dynamodbav:"ConnectionID"`
	SourceID     string `dynamodbav:"SourceID"`
	TargetID     string `dynamodbav:"TargetID"`
	Label        string `dynamodbav:"Label,omitempty"`
	Active       bool   `dynamodbav:"Active"`
	ChainID      string `dynamodbav:"ChainID"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
}

type positionsItem struct {
	PK         string                `dynamodbav:"PK"`
	SK         string                `dynamodbav:"SK"`
	EntityType string                `dynamodbav:"EntityType"`
	Positions  map[string]positionAv `dynamodbav:"Positions"`
}

type positionAv struct {
	X float64 `dynamodbav:"X"`
	Y float64 `dynamodbav:"Y"`
}

func stackPK(organizationID, projectID string) string {
	return fmt.Sprintf("ORG#%s#PROJECT#%s", organizationID, projectID)
}

// Save persists the stack, replacing the project's stored tool and
// connection items with the aggregate's current state.
func (r *StackRepository) Save(ctx context.Context, stack *aggregates.ToolStack) error {
	start := time.Now()
	err := r.save(ctx, stack)
	r.observe("save", start, err)
	return err
}

func (r *StackRepository) save(ctx context.Context, stack *aggregates.ToolStack) error {
	pk := stackPK(stack.OrganizationID(), stack.ProjectID())

	existing, err := r.queryKeys(ctx, pk)
	if err != nil {
		return err
	}

	current := make(map[string]types.WriteRequest)
	for _, tool := range stack.Tools() {
		sk := "TOOL#" + tool.ID().String()
		av, err := attributevalue.MarshalMap(toolItem{
			PK:            pk,
			SK:            sk,
			EntityType:    "TOOL",
			ToolID:        tool.ID().String(),
			ApplicationID: tool.ApplicationID().String(),
			Name:          tool.Name(),
			Category:      tool.Category(),
			Status:        string(tool.Status()),
			Website:       tool.Website(),
			LogoURL:       tool.LogoURL(),
			Note:          tool.Note(),
			AddedBy:       tool.AddedBy(),
			AddedAt:       tool.AddedAt().Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal tool: %w", err)
		}
		current[sk] = types.WriteRequest{PutRequest: &types.PutRequest{Item: av}}
	}
	for _, conn := range stack.Connections() {
		sk := "CONN#" + conn.ID().String()
		av, err := attributevalue.MarshalMap(connectionItem{
			PK:           pk,
			SK:           sk,
			EntityType:   "CONNECTION",
			ConnectionID: conn.ID().String(),
			SourceID:     conn.SourceID().String(),
			TargetID:     conn.TargetID().String(),
			Label:        conn.Label(),
			Active:       conn.Active(),
			ChainID:      conn.ChainID().String(),
			CreatedAt:    conn.CreatedAt().Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal connection: %w", err)
		}
		current[sk] = types.WriteRequest{PutRequest: &types.PutRequest{Item: av}}
	}

	requests := make([]types.WriteRequest, 0, len(current)+len(existing))
	for _, req := range current {
		requests = append(requests, req)
	}
	// Items no longer present on the aggregate are deleted in the same
	// batch. The positions item is kept; stale entries in it are ignored
	// at read time.
	for _, sk := range existing {
		if sk == "POSITIONS" {
			continue
		}
		if _, kept := current[sk]; !kept {
			key, err := attributevalue.MarshalMap(map[string]string{"PK": pk, "SK": sk})
			if err != nil {
				return fmt.Errorf("failed to marshal delete key: %w", err)
			}
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}
	}

	for len(requests) > 0 {
		chunk := requests
		if len(chunk) > batchWriteLimit {
			chunk = requests[:batchWriteLimit]
		}
		requests = requests[len(chunk):]

		_, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.tableName: chunk},
		})
		if err != nil {
			return pkgerrors.NewDatabaseError("failed to write stack items", err)
		}
	}
	return nil
}

// GetByProjectID loads a project's stack; a project with no stored
// items yet gets an empty stack.
func (r *StackRepository) GetByProjectID(ctx context.Context, organizationID, projectID string) (*aggregates.ToolStack, error) {
	start := time.Now()
	stack, err := r.getByProjectID(ctx, organizationID, projectID)
	r.observe("get", start, err)
	return stack, err
}

func (r *StackRepository) getByProjectID(ctx context.Context, organizationID, projectID string) (*aggregates.ToolStack, error) {
	pk := stackPK(organizationID, projectID)

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to query stack", err)
	}

	tools := make([]*entities.Tool, 0)
	connections := make([]*entities.Connection, 0)

	for _, raw := range out.Items {
		entityType := ""
		if av, ok := raw["EntityType"].(*types.AttributeValueMemberS); ok {
			entityType = av.Value
		}

		switch entityType {
		case "TOOL":
			var item toolItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal tool: %w", err)
			}
			tool, err := r.toolFromItem(item)
			if err != nil {
				r.logger.Warn("skipping malformed tool item",
					zap.String("sk", item.SK), zap.Error(err))
				continue
			}
			tools = append(tools, tool)
		case "CONNECTION":
			var item connectionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal connection: %w", err)
			}
			conn, err := r.connectionFromItem(item)
			if err != nil {
				r.logger.Warn("skipping malformed connection item",
					zap.String("sk", item.SK), zap.Error(err))
				continue
			}
			connections = append(connections, conn)
		}
	}

	now := time.Now()
	return aggregates.ReconstructToolStack(projectID, organizationID, tools, connections, now, now)
}

// SaveNodePositions merges positions into the project's positions item
func (r *StackRepository) SaveNodePositions(ctx context.Context, organizationID, projectID string, positions map[string]valueobjects.Position) error {
	start := time.Now()

	stored, err := r.GetNodePositions(ctx, organizationID, projectID)
	if err != nil {
		return err
	}
	for nodeID, pos := range positions {
		stored[nodeID] = pos
	}

	avPositions := make(map[string]positionAv, len(stored))
	for nodeID, pos := range stored {
		avPositions[nodeID] = positionAv{X: pos.X(), Y: pos.Y()}
	}

	av, err := attributevalue.MarshalMap(positionsItem{
		PK:         stackPK(organizationID, projectID),
		SK:         "POSITIONS",
		EntityType: "POSITIONS",
		Positions:  avPositions,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		err = pkgerrors.NewDatabaseError("failed to save positions", err)
	}
	r.observe("save_positions", start, err)
	return err
}

// GetNodePositions loads the project's stored position overrides
func (r *StackRepository) GetNodePositions(ctx context.Context, organizationID, projectID string) (map[string]valueobjects.Position, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": stackPK(organizationID, projectID),
		"SK": "POSITIONS",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to get positions", err)
	}

	positions := make(map[string]valueobjects.Position)
	if out.Item == nil {
		return positions, nil
	}

	var item positionsItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal positions: %w", err)
	}
	for nodeID, pos := range item.Positions {
		positions[nodeID] = valueobjects.NewPosition(pos.X, pos.Y)
	}
	return positions, nil
}

func (r *StackRepository) queryKeys(ctx context.Context, pk string) ([]string, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ProjectionExpression:   aws.String("SK"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to query stack keys", err)
	}

	keys := make([]string, 0, len(out.Items))
	for _, raw := range out.Items {
		if av, ok := raw["SK"].(*types.AttributeValueMemberS); ok {
			keys = append(keys, av.Value)
		}
	}
	return keys, nil
}

func (r *StackRepository) toolFromItem(item toolItem) (*entities.Tool, error) {
	toolID, err := valueobjects.NewToolIDFromString(item.ToolID)
	if err != nil {
		return nil, err
	}
	appID, err := valueobjects.NewApplicationID(item.ApplicationID)
	if err != nil {
		return nil, err
	}
	addedAt, err := time.Parse(time.RFC3339, item.AddedAt)
	if err != nil {
		addedAt = time.Now()
	}
	return entities.ReconstructTool(
		toolID, appID,
		item.Name, item.Category,
		entities.ToolStatus(item.Status),
		item.Website, item.LogoURL, item.Note, item.AddedBy,
		addedAt,
	)
}

func (r *StackRepository) connectionFromItem(item connectionItem) (*entities.Connection, error) {
	connID, err := valueobjects.NewConnectionIDFromString(item.ConnectionID)
	if err != nil {
		return nil, err
	}
	sourceID, err := valueobjects.NewApplicationID(item.SourceID)
	if err != nil {
		return nil, err
	}
	targetID, err := valueobjects.NewApplicationID(item.TargetID)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		createdAt = time.Now()
	}
	return entities.ReconstructConnection(connID, sourceID, targetID, item.Label, item.Active, item.ChainID, createdAt)
}

func (r *StackRepository) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.ObserveDB(operation, "stacks", status, time.Since(start))
}
