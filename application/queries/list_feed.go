package queries

import (
	"errors"

	"stackmap-backend/domain/core/entities"
)

// ListFeedQuery lists the organization's published feed posts
type ListFeedQuery struct {
	OrganizationID string
	Page           int
	PageSize       int
}

// Validate validates the ListFeedQuery
func (q ListFeedQuery) Validate() error {
	if q.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if q.Page < 1 {
		return errors.New("page must be at least 1")
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		return errors.New("page size must be between 1 and 100")
	}
	return nil
}

// PostView is the read model of one feed post
type PostView struct {
	ID         string                `json:"id"`
	AuthorID   string                `json:"authorId"`
	Kind       string                `json:"kind"`
	Body       string                `json:"body"`
	Options    []entities.PollOption `json:"options,omitempty"`
	TotalVotes int                   `json:"totalVotes"`
	PublishAt  string                `json:"publishAt"`
	CreatedAt  string                `json:"createdAt"`
}

// FeedPage is the result of ListFeedQuery
type FeedPage struct {
	Posts      []PostView `json:"posts"`
	TotalCount int        `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
}
