package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"stackmap-backend/domain/config"
	"stackmap-backend/domain/core/valueobjects"
	pkgerrors "stackmap-backend/pkg/errors"
)

// ChainComment is a free-text comment attached to one chain of a
// project's tool stack.
type ChainComment struct {
	id        string
	projectID string
	chainID   valueobjects.ChainID
	authorID  string
	body      string
	createdAt time.Time
}

// NewChainComment creates a comment with validation
func NewChainComment(projectID string, chainID valueobjects.ChainID, authorID, body string) (*ChainComment, error) {
	cfg := config.DefaultDomainConfig()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.NewValidationError("comment body cannot be empty")
	}
	if utf8.RuneCountInString(body) > cfg.MaxCommentLength {
		return nil, pkgerrors.NewValidationError("comment exceeds maximum length")
	}
	if projectID == "" || chainID.IsZero() || authorID == "" {
		return nil, pkgerrors.NewValidationError("comment requires a project, chain and author")
	}

	return &ChainComment{
		id:        uuid.New().String(),
		projectID: projectID,
		chainID:   chainID,
		authorID:  authorID,
		body:      body,
		createdAt: time.Now(),
	}, nil
}

// ReconstructChainComment reconstructs a comment from repository data
func ReconstructChainComment(id, projectID string, chainID valueobjects.ChainID, authorID, body string, createdAt time.Time) (*ChainComment, error) {
	if id == "" || projectID == "" || chainID.IsZero() {
		return nil, pkgerrors.NewValidationError("comment identity is incomplete")
	}

	return &ChainComment{
		id:        id,
		projectID: projectID,
		chainID:   chainID,
		authorID:  authorID,
		body:      body,
		createdAt: createdAt,
	}, nil
}

// ID returns the comment's unique identifier
func (c *ChainComment) ID() string {
	return c.id
}

// ProjectID returns the owning project
func (c *ChainComment) ProjectID() string {
	return c.projectID
}

// ChainID returns the chain the comment is attached to
func (c *ChainComment) ChainID() valueobjects.ChainID {
	return c.chainID
}

// AuthorID returns the comment author
func (c *ChainComment) AuthorID() string {
	return c.authorID
}

// Body returns the comment text
func (c *ChainComment) Body() string {
	return c.body
}

// CreatedAt returns when the comment was posted
func (c *ChainComment) CreatedAt() time.Time {
	return c.createdAt
}
