package events

import (
	"time"

	"stackmap-backend/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Stack events

// ToolAttached is raised when a tool is attached to a project stack
type ToolAttached struct {
	BaseEvent
	ProjectID     string                     `json:"project_id"`
	ToolID        valueobjects.ToolID        `json:"tool_id"`
	ApplicationID valueobjects.ApplicationID `json:"application_id"`
	AddedBy       string                     `json:"added_by"`
}

// NewToolAttached creates a ToolAttached event
func NewToolAttached(projectID string, toolID valueobjects.ToolID, appID valueobjects.ApplicationID, addedBy string, timestamp time.Time) ToolAttached {
	return ToolAttached{
		BaseEvent: BaseEvent{
			AggregateID: projectID,
			EventType:   "stack.tool_attached",
			Timestamp:   timestamp,
			Version:     1,
		},
		ProjectID:     projectID,
		ToolID:        toolID,
		ApplicationID: appID,
		AddedBy:       addedBy,
	}
}

// ToolRemoved is raised when a tool is removed from a project stack
type ToolRemoved struct {
	BaseEvent
	ProjectID          string              `json:"project_id"`
	ToolID             valueobjects.ToolID `json:"tool_id"`
	ConnectionsRemoved int                 `json:"connections_removed"`
}

// NewToolRemoved creates a ToolRemoved event
func NewToolRemoved(projectID string, toolID valueobjects.ToolID, connectionsRemoved int, timestamp time.Time) ToolRemoved {
	return ToolRemoved{
		BaseEvent: BaseEvent{
			AggregateID: projectID,
			EventType:   "stack.tool_removed",
			Timestamp:   timestamp,
			Version:     1,
		},
		ProjectID:          projectID,
		ToolID:             toolID,
		ConnectionsRemoved: connectionsRemoved,
	}
}

// ConnectionCreated is raised when two tools are connected
type ConnectionCreated struct {
	BaseEvent
	ProjectID    string                     `json:"project_id"`
	ConnectionID valueobjects.ConnectionID  `json:"connection_id"`
	SourceID     valueobjects.ApplicationID `json:"source_id"`
	TargetID     valueobjects.ApplicationID `json:"target_id"`
	ChainID      valueobjects.ChainID       `json:"chain_id"`
}

// NewConnectionCreated creates a ConnectionCreated event
func NewConnectionCreated(projectID string, connectionID valueobjects.ConnectionID, sourceID, targetID valueobjects.ApplicationID, chainID valueobjects.ChainID, timestamp time.Time) ConnectionCreated {
	return ConnectionCreated{
		BaseEvent: BaseEvent{
			AggregateID: projectID,
			EventType:   "stack.connection_created",
			Timestamp:   timestamp,
			Version:     1,
		},
		ProjectID:    projectID,
		ConnectionID: connectionID,
		SourceID:     sourceID,
		TargetID:     targetID,
		ChainID:      chainID,
	}
}

// ConnectionDeleted is raised when a connection is removed
type ConnectionDeleted struct {
	BaseEvent
	ProjectID    string                    `json:"project_id"`
	ConnectionID valueobjects.ConnectionID `json:"connection_id"`
	ChainID      valueobjects.ChainID      `json:"chain_id"`
}

// NewConnectionDeleted creates a ConnectionDeleted event
func NewConnectionDeleted(projectID string, connectionID valueobjects.ConnectionID, chainID valueobjects.ChainID, timestamp time.Time) ConnectionDeleted {
	return ConnectionDeleted{
		BaseEvent: BaseEvent{
			AggregateID: projectID,
			EventType:   "stack.connection_deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		ProjectID:    projectID,
		ConnectionID: connectionID,
		ChainID:      chainID,
	}
}

// Feed events

// PostCreated is raised when a note or poll is published on the feed
type PostCreated struct {
	BaseEvent
	PostID         string `json:"post_id"`
	OrganizationID string `json:"organization_id"`
	AuthorID       string `json:"author_id"`
	Kind           string `json:"kind"`
}

// NewPostCreated creates a PostCreated event
func NewPostCreated(postID, organizationID, authorID, kind string, timestamp time.Time) PostCreated {
	return PostCreated{
		BaseEvent: BaseEvent{
			AggregateID: postID,
			EventType:   "feed.post_created",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID:         postID,
		OrganizationID: organizationID,
		AuthorID:       authorID,
		Kind:           kind,
	}
}

// Idea board events

// IdeaReviewed is raised when a review decision is recorded for an idea
type IdeaReviewed struct {
	BaseEvent
	IdeaID     string `json:"idea_id"`
	ReviewerID string `json:"reviewer_id"`
	Decision   string `json:"decision"`
}

// NewIdeaReviewed creates an IdeaReviewed event
func NewIdeaReviewed(ideaID, reviewerID, decision string, timestamp time.Time) IdeaReviewed {
	return IdeaReviewed{
		BaseEvent: BaseEvent{
			AggregateID: ideaID,
			EventType:   "board.idea_reviewed",
			Timestamp:   timestamp,
			Version:     1,
		},
		IdeaID:     ideaID,
		ReviewerID: reviewerID,
		Decision:   decision,
	}
}
