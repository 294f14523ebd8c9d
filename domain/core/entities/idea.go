package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"stackmap-backend/domain/config"
	pkgerrors "stackmap-backend/pkg/errors"
)

// IdeaStatus represents the review state of a strategic idea
type IdeaStatus string

const (
	IdeaStatusSubmitted IdeaStatus = "submitted"
	IdeaStatusInReview  IdeaStatus = "in_review"
	IdeaStatusApproved  IdeaStatus = "approved"
	IdeaStatusRejected  IdeaStatus = "rejected"
)

// ReviewDecision is the outcome recorded by a reviewer
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

// Idea is a strategic idea moving through the review workflow:
// submitted -> in_review -> approved|rejected. Approved and rejected
// are terminal.
type Idea struct {
	id             string
	organizationID string
	authorID       string
	title          string
	body           string
	status         IdeaStatus
	reviewerID     string
	reviewNote     string
	createdAt      time.Time
	reviewedAt     time.Time
}

// NewIdea creates a submitted idea with validation
func NewIdea(organizationID, authorID, title, body string) (*Idea, error) {
	cfg := config.DefaultDomainConfig()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.NewValidationError("idea title cannot be empty")
	}
	if utf8.RuneCountInString(title) > cfg.MaxIdeaTitleLength {
		return nil, pkgerrors.NewValidationError("idea title exceeds maximum length")
	}
	if utf8.RuneCountInString(body) > cfg.MaxIdeaBodyLength {
		return nil, pkgerrors.NewValidationError("idea body exceeds maximum length")
	}
	if organizationID == "" || authorID == "" {
		return nil, pkgerrors.NewValidationError("idea requires an organization and an author")
	}

	return &Idea{
		id:             uuid.New().String(),
		organizationID: organizationID,
		authorID:       authorID,
		title:          title,
		body:           body,
		status:         IdeaStatusSubmitted,
		createdAt:      time.Now(),
	}, nil
}

// ReconstructIdea reconstructs an idea from repository data
func ReconstructIdea(
	id, organizationID, authorID, title, body string,
	status IdeaStatus,
	reviewerID, reviewNote string,
	createdAt, reviewedAt time.Time,
) (*Idea, error) {
	if id == "" || organizationID == "" {
		return nil, pkgerrors.NewValidationError("idea identity is incomplete")
	}

	return &Idea{
		id:             id,
		organizationID: organizationID,
		authorID:       authorID,
		title:          title,
		body:           body,
		status:         status,
		reviewerID:     reviewerID,
		reviewNote:     reviewNote,
		createdAt:      createdAt,
		reviewedAt:     reviewedAt,
	}, nil
}

// ID returns the idea's unique identifier
func (i *Idea) ID() string {
	return i.id
}

// OrganizationID returns the owning organization
func (i *Idea) OrganizationID() string {
	return i.organizationID
}

// AuthorID returns the idea author
func (i *Idea) AuthorID() string {
	return i.authorID
}

// Title returns the idea title
func (i *Idea) Title() string {
	return i.title
}

// Body returns the idea body
func (i *Idea) Body() string {
	return i.body
}

// Status returns the current review status
func (i *Idea) Status() IdeaStatus {
	return i.status
}

// ReviewerID returns who reviewed the idea, if reviewed
func (i *Idea) ReviewerID() string {
	return i.reviewerID
}

// ReviewNote returns the reviewer's note, if any
func (i *Idea) ReviewNote() string {
	return i.reviewNote
}

// CreatedAt returns when the idea was submitted
func (i *Idea) CreatedAt() time.Time {
	return i.createdAt
}

// ReviewedAt returns when the review decision was recorded
func (i *Idea) ReviewedAt() time.Time {
	return i.reviewedAt
}

// StartReview moves the idea from submitted into review
func (i *Idea) StartReview(reviewerID string) error {
	if i.status != IdeaStatusSubmitted {
		return pkgerrors.NewConflictError("idea is not awaiting review")
	}
	if reviewerID == "" {
		return pkgerrors.NewValidationError("reviewer is required")
	}

	i.status = IdeaStatusInReview
	i.reviewerID = reviewerID
	return nil
}

// Review records a terminal review decision. Ideas still in the
// submitted state may be decided directly.
func (i *Idea) Review(reviewerID string, decision ReviewDecision, note string) error {
	cfg := config.DefaultDomainConfig()

	if i.status == IdeaStatusApproved || i.status == IdeaStatusRejected {
		return pkgerrors.NewConflictError("idea has already been reviewed")
	}
	if reviewerID == "" {
		return pkgerrors.NewValidationError("reviewer is required")
	}
	if utf8.RuneCountInString(note) > cfg.MaxReviewNoteLength {
		return pkgerrors.NewValidationError("review note exceeds maximum length")
	}

	switch decision {
	case DecisionApprove:
		i.status = IdeaStatusApproved
	case DecisionReject:
		i.status = IdeaStatusRejected
	default:
		return pkgerrors.NewValidationError("decision must be approve or reject")
	}

	i.reviewerID = reviewerID
	i.reviewNote = note
	i.reviewedAt = time.Now()
	return nil
}
