package ports

import (
	"context"

	"stackmap-backend/domain/core/aggregates"
	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/core/valueobjects"
	"stackmap-backend/domain/events"
)

// StackRepository persists project tool stacks. The stack aggregate is
// loaded and saved whole; the repository decides how to decompose it
// into storage records.
type StackRepository interface {
	// Save persists the stack (create or update)
	Save(ctx context.Context, stack *aggregates.ToolStack) error

	// GetByProjectID retrieves a project's stack. A project without any
	// tools yet gets an empty stack, not an error.
	GetByProjectID(ctx context.Context, organizationID, projectID string) (*aggregates.ToolStack, error)

	// SaveNodePositions persists user-dragged canvas positions for a project
	SaveNodePositions(ctx context.Context, organizationID, projectID string, positions map[string]valueobjects.Position) error

	// GetNodePositions retrieves the stored canvas position overrides
	GetNodePositions(ctx context.Context, organizationID, projectID string) (map[string]valueobjects.Position, error)
}

// PostRepository persists feed posts
type PostRepository interface {
	Save(ctx context.Context, post *entities.Post) error

	GetByID(ctx context.Context, organizationID, postID string) (*entities.Post, error)

	// ListPublished returns posts visible on the feed, newest first
	ListPublished(ctx context.Context, organizationID string, limit, offset int) ([]*entities.Post, int, error)

	Delete(ctx context.Context, organizationID, postID string) error
}

// IdeaRepository persists ideas on the review board
type IdeaRepository interface {
	Save(ctx context.Context, idea *entities.Idea) error

	GetByID(ctx context.Context, organizationID, ideaID string) (*entities.Idea, error)

	// ListByStatus returns the organization's ideas, optionally filtered
	// by status; an empty status returns everything.
	ListByStatus(ctx context.Context, organizationID string, status entities.IdeaStatus, limit, offset int) ([]*entities.Idea, int, error)
}

// CommentRepository persists chain comments
type CommentRepository interface {
	Save(ctx context.Context, comment *entities.ChainComment) error

	GetByID(ctx context.Context, projectID, commentID string) (*entities.ChainComment, error)

	// ListByChain returns a chain's comments, oldest first
	ListByChain(ctx context.Context, projectID string, chainID valueobjects.ChainID) ([]*entities.ChainComment, error)

	Delete(ctx context.Context, projectID, commentID string) error
}

// CatalogApplication is one entry of the application catalog
type CatalogApplication struct {
	ID       string
	Name     string
	Category string
	Website  string
	LogoURL  string
}

// ApplicationCatalog provides the searchable catalog of applications
// that tools can instantiate.
type ApplicationCatalog interface {
	// Search returns catalog entries matching the query; an empty query
	// lists everything up to limit.
	Search(ctx context.Context, query string, limit int) ([]CatalogApplication, error)

	// GetByID retrieves a single catalog entry
	GetByID(ctx context.Context, id valueobjects.ApplicationID) (*CatalogApplication, error)
}

// IntegrationRepository persists OAuth credentials for workspace
// integrations such as Slack and Teams.
type IntegrationRepository interface {
	SaveCredential(ctx context.Context, organizationID, provider string, credential []byte) error

	GetCredential(ctx context.Context, organizationID, provider string) ([]byte, error)

	DeleteCredential(ctx context.Context, organizationID, provider string) error
}

// EventPublisher publishes domain events to the outside world
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
