package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/entities"
	pkgerrors "stackmap-backend/pkg/errors"
	"stackmap-backend/pkg/observability"
)

// PostRepository implements ports.PostRepository on DynamoDB
type PostRepository struct {
	client    *dynamodb.Client
	tableName string
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(client *dynamodb.Client, tableName string, metrics *observability.Collector, logger *zap.Logger) ports.PostRepository {
	return &PostRepository{
		client:    client,
		tableName: tableName,
		metrics:   metrics,
		logger:    logger,
	}
}

type postItem struct {
	PK          string            `dynamodbav:"PK"`
	SK          string            `dynamodbav:"SK"`
	EntityType  string            `dynamodbav:"EntityType"`
	PostID      string            `dynamodbav:"PostID"`
	AuthorID    string            `dynamodbav:"AuthorID"`
	Kind        string            `dynamodbav:"Kind"`
	Body        string            `dynamodbav:"Body"`
	Options     []pollOptionAv    `dynamodbav:"Options,omitempty"`
	VotesByUser map[string]string `dynamodbav:"VotesByUser,omitempty"`
	PublishAt   string            `dynamodbav:"PublishAt"`
	CreatedAt   string            `dynamodbav:"CreatedAt"`
}

type pollOptionAv struct {
	ID    string `dynamodbav:"ID"`
	Text  string `dynamodbav:"Text"`
	Votes int    `dynamodbav:"Votes"`
}

func feedPK(organizationID string) string {
	return fmt.Sprintf("ORG#%s#FEED", organizationID)
}

// Save persists a post
func (r *PostRepository) Save(ctx context.Context, post *entities.Post) error {
	start := time.Now()

	options := make([]pollOptionAv, 0, len(post.Options()))
	for _, opt := range post.Options() {
		options = append(options, pollOptionAv{ID: opt.ID, Text: opt.Text, Votes: opt.Votes})
	}

	av, err := attributevalue.MarshalMap(postItem{
		PK:          feedPK(post.OrganizationID()),
		SK:          "POST#" + post.ID(),
		EntityType:  "POST",
		PostID:      post.ID(),
		AuthorID:    post.AuthorID(),
		Kind:        string(post.Kind()),
		Body:        post.Body(),
		Options:     options,
		VotesByUser: post.Votes(),
		PublishAt:   post.PublishAt().Format(time.RFC3339),
		CreatedAt:   post.CreatedAt().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		err = pkgerrors.NewDatabaseError("failed to save post", err)
	}
	r.observe("save", start, err)
	return err
}

// GetByID retrieves a post
func (r *PostRepository) GetByID(ctx context.Context, organizationID, postID string) (*entities.Post, error) {
	start := time.Now()
	post, err := r.getByID(ctx, organizationID, postID)
	r.observe("get", start, err)
	return post, err
}

func (r *PostRepository) getByID(ctx context.Context, organizationID, postID string) (*entities.Post, error) {
	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": feedPK(organizationID),
		"SK": "POST#" + postID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to get post", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("post")
	}

	var item postItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}
	return r.postFromItem(organizationID, item)
}

// ListPublished returns published posts, newest first. The feed
// partition is queried whole and filtered in memory; feeds are bounded
// per organization.
func (r *PostRepository) ListPublished(ctx context.Context, organizationID string, limit, offset int) ([]*entities.Post, int, error) {
	start := time.Now()
	posts, total, err := r.listPublished(ctx, organizationID, limit, offset)
	r.observe("list", start, err)
	return posts, total, err
}

func (r *PostRepository) listPublished(ctx context.Context, organizationID string, limit, offset int) ([]*entities.Post, int, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: feedPK(organizationID)},
		},
	})
	if err != nil {
		return nil, 0, pkgerrors.NewDatabaseError("failed to query feed", err)
	}

	now := time.Now()
	posts := make([]*entities.Post, 0, len(out.Items))
	for _, raw := range out.Items {
		var item postItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal post: %w", err)
		}
		post, err := r.postFromItem(organizationID, item)
		if err != nil {
			r.logger.Warn("skipping malformed post item",
				zap.String("sk", item.SK), zap.Error(err))
			continue
		}
		if post.IsPublished(now) {
			posts = append(posts, post)
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt().Equal(posts[j].CreatedAt()) {
			return posts[i].ID() > posts[j].ID()
		}
		return posts[i].CreatedAt().After(posts[j].CreatedAt())
	})

	total := len(posts)
	if offset >= total {
		return []*entities.Post{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return posts[offset:end], total, nil
}

// Delete removes a post
func (r *PostRepository) Delete(ctx context.Context, organizationID, postID string) error {
	start := time.Now()

	key, err := attributevalue.MarshalMap(map[string]string{
		"PK": feedPK(organizationID),
		"SK": "POST#" + postID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		err = pkgerrors.NewDatabaseError("failed to delete post", err)
	}
	r.observe("delete", start, err)
	return err
}

func (r *PostRepository) postFromItem(organizationID string, item postItem) (*entities.Post, error) {
	options := make([]entities.PollOption, 0, len(item.Options))
	for _, opt := range item.Options {
		options = append(options, entities.PollOption{ID: opt.ID, Text: opt.Text, Votes: opt.Votes})
	}

	publishAt, err := time.Parse(time.RFC3339, item.PublishAt)
	if err != nil {
		publishAt = time.Now()
	}
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		createdAt = time.Now()
	}

	return entities.ReconstructPost(
		item.PostID, organizationID, item.AuthorID,
		entities.PostKind(item.Kind),
		item.Body, options, item.VotesByUser,
		publishAt, createdAt,
	)
}

func (r *PostRepository) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.ObserveDB(operation, "feed", status, time.Since(start))
}
