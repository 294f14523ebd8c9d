package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/entities"
	pkgerrors "stackmap-backend/pkg/errors"
	"stackmap-backend/pkg/observability"
)

// IdeaRepository implements ports.IdeaRepository on DynamoDB
type IdeaRepository struct {
	client    *dynamodb.Client
	tableName string
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewIdeaRepository creates a new IdeaRepository
func NewIdeaRepository(client *dynamodb.Client, tableName string, metrics *observability.Collector, logger *zap.Logger) ports.IdeaRepository {
	return &IdeaRepository{
		client:    client,
		tableName: tableName,
		metrics:   metrics,
		logger:    logger,
	}
}

type ideaItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	IdeaID     string `dynamodbav:"IdeaID"`
	AuthorID   string `dynamodbav:"AuthorID"`
	Title      string `dynamodbav:"Title"`
	Body       string `dynamodbav:"Body,omitempty"`
	Status     string `dynamodbav:"Status"`
	ReviewerID string `dynamodbav:"ReviewerID,omitempty"`
	ReviewNote string `dynamodbav:"ReviewNote,omitempty"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	ReviewedAt string `dynamodbav:"ReviewedAt,omitempty"`
}

func ideaPK(organizationID string) string {
	return fmt.Sprintf("ORG#%s#IDEAS", organizationID)
}

// Save persists an idea
func (r *IdeaRepository) Save(ctx context.Context, idea *entities.Idea) error {
	start := time.Now()

	item := ideaItem{
		PK:         ideaPK(idea.OrganizationID()),
		SK:         "IDEA#" + idea.ID(),
		EntityType: "IDEA",
		IdeaID:     idea.ID(),
		AuthorID:   idea.AuthorID(),
		Title:      idea.Title(),
		Body:       idea.Body(),
		Status:     string(idea.Status()),
		ReviewerID: idea.ReviewerID(),
		ReviewNote: idea.ReviewNote(),
		CreatedAt:  idea.CreatedAt().Format(time.RFC3339),
	}
	if !idea.ReviewedAt().IsZero() {
		item.ReviewedAt = idea.ReviewedAt().Format(time.RFC3339)
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal idea: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		err = pkgerrors.NewDatabaseError("failed to save idea", err)
	}
	r.observe("save", start, err)
	return err
}

// GetByID retrieves an idea
func (r *IdeaRepository) GetByID(ctx context.Context, organizationID, ideaID string) (*entities.Idea, error) {
	start := time.Now()
	idea, err := r.getByID(ctx, organizationID, ideaID)
	r.observe("get", start, err)
	return idea, err
}

func (r *IdeaRepository) getByID(ctx context.Context, organizationID, ideaID string) (*entities.Idea, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": ideaPK(organizationID),
		"SK": "IDEA#" + ideaID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to get idea", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("idea")
	}

	var item ideaItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idea: %w", err)
	}
	return r.ideaFromItem(organizationID, item)
}

// ListByStatus lists ideas newest first, optionally filtered by status
func (r *IdeaRepository) ListByStatus(ctx context.Context, organizationID string, status entities.IdeaStatus, limit, offset int) ([]*entities.Idea, int, error) {
	start := time.Now()
	ideas, total, err := r.listByStatus(ctx, organizationID, status, limit, offset)
	r.observe("list", start, err)
	return ideas, total, err
}

func (r *IdeaRepository) listByStatus(ctx context.Context, organizationID string, status entities.IdeaStatus, limit, offset int) ([]*entities.Idea, int, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(ideaPK(organizationID)))
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if status != "" {
		builder = builder.WithFilter(expression.Name("Status").Equal(expression.Value(string(status))))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build expression: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, 0, pkgerrors.NewDatabaseError("failed to query ideas", err)
	}

	ideas := make([]*entities.Idea, 0, len(out.Items))
	for _, raw := range out.Items {
		var item ideaItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal idea: %w", err)
		}
		idea, err := r.ideaFromItem(organizationID, item)
		if err != nil {
			r.logger.Warn("skipping malformed idea item",
				zap.String("sk", item.SK), zap.Error(err))
			continue
		}
		ideas = append(ideas, idea)
	}

	sort.Slice(ideas, func(i, j int) bool {
		if ideas[i].CreatedAt().Equal(ideas[j].CreatedAt()) {
			return ideas[i].ID() > ideas[j].ID()
		}
		return ideas[i].CreatedAt().After(ideas[j].CreatedAt())
	})

	total := len(ideas)
	if offset >= total {
		return []*entities.Idea{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return ideas[offset:end], total, nil
}

func (r *IdeaRepository) ideaFromItem(organizationID string, item ideaItem) (*entities.Idea, error) {
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		createdAt = time.Now()
	}
	var reviewedAt time.Time
	if item.ReviewedAt != "" {
		reviewedAt, _ = time.Parse(time.RFC3339, item.ReviewedAt)
	}

	return entities.ReconstructIdea(
		item.IdeaID, organizationID, item.AuthorID,
		item.Title, item.Body,
		entities.IdeaStatus(item.Status),
		item.ReviewerID, item.ReviewNote,
		createdAt, reviewedAt,
	)
}

func (r *IdeaRepository) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.ObserveDB(operation, "ideas", status, time.Since(start))
}
