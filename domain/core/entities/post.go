package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"stackmap-backend/domain/config"
	pkgerrors "stackmap-backend/pkg/errors"
)

// PostKind distinguishes feed post types
type PostKind string

const (
	PostKindNote PostKind = "note"
	PostKindPoll PostKind = "poll"
)

// PollOption is one selectable answer of a poll post
type PollOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Post is a note or poll on the organization feed. Polls carry options
// and at most one vote per user; notes carry only a body. A post with a
// future publish time stays hidden from the feed until that time.
type Post struct {
	id             string
	organizationID string
	authorID       string
	kind           PostKind
	body           string
	options        []PollOption
	votesByUser    map[string]string // userID -> optionID
	publishAt      time.Time
	createdAt      time.Time
}

// NewNotePost creates a plain note post
func NewNotePost(organizationID, authorID, body string, publishAt time.Time) (*Post, error) {
	cfg := config.DefaultDomainConfig()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.NewValidationError("post body cannot be empty")
	}
	if utf8.RuneCountInString(body) > cfg.MaxPostLength {
		return nil, pkgerrors.NewValidationError("post body exceeds maximum length")
	}
	if organizationID == "" || authorID == "" {
		return nil, pkgerrors.NewValidationError("post requires an organization and an author")
	}

	now := time.Now()
	if publishAt.IsZero() {
		publishAt = now
	}

	return &Post{
		id:             uuid.New().String(),
		organizationID: organizationID,
		authorID:       authorID,
		kind:           PostKindNote,
		body:           body,
		votesByUser:    map[string]string{},
		publishAt:      publishAt,
		createdAt:      now,
	}, nil
}

// NewPollPost creates a poll post with the given options
func NewPollPost(organizationID, authorID, body string, options []string, publishAt time.Time) (*Post, error) {
	cfg := config.DefaultDomainConfig()

	post, err := NewNotePost(organizationID, authorID, body, publishAt)
	if err != nil {
		return nil, err
	}

	if len(options) < cfg.MinPollOptions {
		return nil, pkgerrors.NewValidationError("poll requires at least two options")
	}
	if len(options) > cfg.MaxPollOptions {
		return nil, pkgerrors.NewValidationError("poll has too many options")
	}

	seen := make(map[string]bool, len(options))
	pollOptions := make([]PollOption, 0, len(options))
	for _, text := range options {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, pkgerrors.NewValidationError("poll option cannot be empty")
		}
		if seen[text] {
			return nil, pkgerrors.NewValidationError("poll options must be distinct")
		}
		seen[text] = true
		pollOptions = append(pollOptions, PollOption{
			ID:   uuid.New().String(),
			Text: text,
		})
	}

	post.kind = PostKindPoll
	post.options = pollOptions
	return post, nil
}

// ReconstructPost reconstructs a post from repository data
func ReconstructPost(
	id, organizationID, authorID string,
	kind PostKind,
	body string,
	options []PollOption,
	votesByUser map[string]string,
	publishAt, createdAt time.Time,
) (*Post, error) {
	if id == "" || organizationID == "" {
		return nil, pkgerrors.NewValidationError("post identity is incomplete")
	}
	if votesByUser == nil {
		votesByUser = map[string]string{}
	}

	return &Post{
		id:             id,
		organizationID: organizationID,
		authorID:       authorID,
		kind:           kind,
		body:           body,
		options:        options,
		votesByUser:    votesByUser,
		publishAt:      publishAt,
		createdAt:      createdAt,
	}, nil
}

// ID returns the post's unique identifier
func (p *Post) ID() string {
	return p.id
}

// OrganizationID returns the owning organization
func (p *Post) OrganizationID() string {
	return p.organizationID
}

// AuthorID returns the post author
func (p *Post) AuthorID() string {
	return p.authorID
}

// Kind returns the post kind
func (p *Post) Kind() PostKind {
	return p.kind
}

// Body returns the post body text
func (p *Post) Body() string {
	return p.body
}

// Options returns a copy of the poll options
func (p *Post) Options() []PollOption {
	options := make([]PollOption, len(p.options))
	copy(options, p.options)
	return options
}

// PublishAt returns when the post becomes visible on the feed
func (p *Post) PublishAt() time.Time {
	return p.publishAt
}

// CreatedAt returns when the post was created
func (p *Post) CreatedAt() time.Time {
	return p.createdAt
}

// IsPublished reports whether the post is visible at the given time
func (p *Post) IsPublished(at time.Time) bool {
	return !p.publishAt.After(at)
}

// Votes returns a copy of the user vote map
func (p *Post) Votes() map[string]string {
	votes := make(map[string]string, len(p.votesByUser))
	for k, v := range p.votesByUser {
		votes[k] = v
	}
	return votes
}

// Vote records a poll vote for the user. A user votes once; repeat
// votes are rejected rather than moved.
func (p *Post) Vote(userID, optionID string) error {
	if p.kind != PostKindPoll {
		return pkgerrors.NewValidationError("only polls accept votes")
	}
	if userID == "" {
		return pkgerrors.NewValidationError("vote requires a user")
	}
	if _, voted := p.votesByUser[userID]; voted {
		return pkgerrors.NewConflictError("user has already voted on this poll")
	}

	for i := range p.options {
		if p.options[i].ID == optionID {
			p.options[i].Votes++
			p.votesByUser[userID] = optionID
			return nil
		}
	}

	return pkgerrors.NewNotFoundError("poll option")
}
