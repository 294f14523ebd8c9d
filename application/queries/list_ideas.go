package queries

import (
	"errors"

	"stackmap-backend/domain/core/entities"
)

// ListIdeasQuery lists the organization's ideas, optionally filtered by
// review status.
type ListIdeasQuery struct {
	OrganizationID string
	Status         string
	Page           int
	PageSize       int
}

// Validate validates the ListIdeasQuery
func (q ListIdeasQuery) Validate() error {
	if q.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if q.Status != "" {
		switch entities.IdeaStatus(q.Status) {
		case entities.IdeaStatusSubmitted, entities.IdeaStatusInReview,
			entities.IdeaStatusApproved, entities.IdeaStatusRejected:
		default:
			return errors.New("unknown idea status")
		}
	}
	if q.Page < 1 {
		return errors.New("page must be at least 1")
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		return errors.New("page size must be between 1 and 100")
	}
	return nil
}

// IdeaView is the read model of one idea
type IdeaView struct {
	ID         string `json:"id"`
	AuthorID   string `json:"authorId"`
	Title      string `json:"title"`
	Body       string `json:"body,omitempty"`
	Status     string `json:"status"`
	ReviewerID string `json:"reviewerId,omitempty"`
	ReviewNote string `json:"reviewNote,omitempty"`
	CreatedAt  string `json:"createdAt"`
	ReviewedAt string `json:"reviewedAt,omitempty"`
}

// IdeaPage is the result of ListIdeasQuery
type IdeaPage struct {
	Ideas      []IdeaView `json:"ideas"`
	TotalCount int        `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
}
