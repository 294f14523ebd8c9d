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
	"stackmap-backend/domain/core/valueobjects"
	pkgerrors "stackmap-backend/pkg/errors"
	"stackmap-backend/pkg/observability"
)

// CommentRepository implements ports.CommentRepository on DynamoDB
type CommentRepository struct {
	client    *dynamodb.Client
	tableName string
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(client *dynamodb.Client, tableName string, metrics *observability.Collector, logger *zap.Logger) ports.CommentRepository {
	return &CommentRepository{
		client:    client,
		tableName: tableName,
		metrics:   metrics,
		logger:    logger,
	}
}

type commentItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	CommentID  string `dynamodbav:"CommentID"`
	ChainID    string `dynamodbav:"ChainID"`
	AuthorID   string `dynamodbav:"AuthorID"`
	Body       string `dynamodbav:"Body"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func commentPK(projectID string) string {
	return fmt.Sprintf("PROJECT#%s#COMMENTS", projectID)
}

// Save persists a comment
func (r *CommentRepository) Save(ctx context.Context, comment *entities.ChainComment) error {
	start := time.Now()

	av, err := attributevalue.MarshalMap(commentItem{
		PK:         commentPK(comment.ProjectID()),
		SK:         "COMMENT#" + comment.ID(),
		EntityType: "COMMENT",
		CommentID:  comment.ID(),
		ChainID:    comment.ChainID().String(),
		AuthorID:   comment.AuthorID(),
		Body:       comment.Body(),
		CreatedAt:  comment.CreatedAt().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		err = pkgerrors.NewDatabaseError("failed to save comment", err)
	}
	r.observe("save", start, err)
	return err
}

// GetByID retrieves a comment
func (r *CommentRepository) GetByID(ctx context.Context, projectID, commentID string) (*entities.ChainComment, error) {
	start := time.Now()
	comment, err := r.getByID(ctx, projectID, commentID)
	r.observe("get", start, err)
	return comment, err
}

func (r *CommentRepository) getByID(ctx context.Context, projectID, commentID string) (*entities.ChainComment, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": commentPK(projectID),
		"SK": "COMMENT#" + commentID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to get comment", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("comment")
	}

	var item commentItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}
	return r.commentFromItem(projectID, item)
}

// ListByChain returns a chain's comments, oldest first
func (r *CommentRepository) ListByChain(ctx context.Context, projectID string, chainID valueobjects.ChainID) ([]*entities.ChainComment, error) {
	start := time.Now()
	comments, err := r.listByChain(ctx, projectID, chainID)
	r.observe("list", start, err)
	return comments, err
}

func (r *CommentRepository) listByChain(ctx context.Context, projectID string, chainID valueobjects.ChainID) ([]*entities.ChainComment, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(commentPK(projectID)))
	filter := expression.Name("ChainID").Equal(expression.Value(chainID.String()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to query comments", err)
	}

	comments := make([]*entities.ChainComment, 0, len(out.Items))
	for _, raw := range out.Items {
		var item commentItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
		}
		comment, err := r.commentFromItem(projectID, item)
		if err != nil {
			r.logger.Warn("skipping malformed comment item",
				zap.String("sk", item.SK), zap.Error(err))
			continue
		}
		comments = append(comments, comment)
	}

	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt().Equal(comments[j].CreatedAt()) {
			return comments[i].ID() < comments[j].ID()
		}
		return comments[i].CreatedAt().Before(comments[j].CreatedAt())
	})
	return comments, nil
}

// Delete removes a comment
func (r *CommentRepository) Delete(ctx context.Context, projectID, commentID string) error {
	start := time.Now()

	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": commentPK(projectID),
		"SK": "COMMENT#" + commentID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		err = pkgerrors.NewDatabaseError("failed to delete comment", err)
	}
	r.observe("delete", start, err)
	return err
}

func (r *CommentRepository) commentFromItem(projectID string, item commentItem) (*entities.ChainComment, error) {
	chainID, err := valueobjects.NewChainID(item.ChainID)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		createdAt = time.Now()
	}
	return entities.ReconstructChainComment(item.CommentID, projectID, chainID, item.AuthorID, item.Body, createdAt)
}

func (r *CommentRepository) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.ObserveDB(operation, "comments", status, time.Since(start))
}
