package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"stackmap-backend/domain/config"
	"stackmap-backend/domain/core/valueobjects"
	pkgerrors "stackmap-backend/pkg/errors"
)

// Connection is a directed edge between two tools' application ids.
// The chain id groups connections into a visual pipeline; when absent
// the connection forms a chain of its own, keyed by its own id.
type Connection struct {
	id       valueobjects.ConnectionID
	sourceID valueobjects.ApplicationID
	targetID valueobjects.ApplicationID
	label    string
	active   bool
	chainID  valueobjects.ChainID
	createdAt time.Time
}

// NewConnection creates a connection with business rule validation.
// An empty chainID means the connection starts its own chain.
func NewConnection(sourceID, targetID valueobjects.ApplicationID, label, chainID string) (*Connection, error) {
	return NewConnectionWithConfig(sourceID, targetID, label, chainID, config.DefaultDomainConfig())
}

// NewConnectionWithConfig creates a connection with validation and configuration
func NewConnectionWithConfig(sourceID, targetID valueobjects.ApplicationID, label, chainID string, cfg *config.DomainConfig) (*Connection, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if sourceID.IsZero() || targetID.IsZero() {
		return nil, pkgerrors.NewValidationError("connection requires a source and a target")
	}

	if !cfg.AllowSelfConnections && sourceID.Equals(targetID) {
		return nil, pkgerrors.NewValidationError("a tool cannot connect to itself")
	}

	label = strings.TrimSpace(label)
	if utf8.RuneCountInString(label) > cfg.MaxLabelLength {
		return nil, pkgerrors.NewValidationError("connection label exceeds maximum length")
	}

	id := valueobjects.NewConnectionID()
	return &Connection{
		id:        id,
		sourceID:  sourceID,
		targetID:  targetID,
		label:     label,
		active:    true,
		chainID:   valueobjects.ChainIDOrFallback(chainID, id),
		createdAt: time.Now(),
	}, nil
}

// ReconstructConnection reconstructs a connection from repository data
func ReconstructConnection(
	id valueobjects.ConnectionID,
	sourceID, targetID valueobjects.ApplicationID,
	label string,
	active bool,
	chainID string,
	createdAt time.Time,
) (*Connection, error) {
	if id.IsZero() || sourceID.IsZero() || targetID.IsZero() {
		return nil, pkgerrors.NewValidationError("connection identity is incomplete")
	}

	return &Connection{
		id:        id,
		sourceID:  sourceID,
		targetID:  targetID,
		label:     label,
		active:    active,
		chainID:   valueobjects.ChainIDOrFallback(chainID, id),
		createdAt: createdAt,
	}, nil
}

// ID returns the connection's unique identifier
func (c *Connection) ID() valueobjects.ConnectionID {
	return c.id
}

// SourceID returns the source application id
func (c *Connection) SourceID() valueobjects.ApplicationID {
	return c.sourceID
}

// TargetID returns the target application id
func (c *Connection) TargetID() valueobjects.ApplicationID {
	return c.targetID
}

// Label returns the free-text label
func (c *Connection) Label() string {
	return c.label
}

// Active returns whether the connection is active
func (c *Connection) Active() bool {
	return c.active
}

// ChainID returns the chain this connection belongs to. Never zero:
// connections without an explicit chain fall back to their own id.
func (c *Connection) ChainID() valueobjects.ChainID {
	return c.chainID
}

// CreatedAt returns when the connection was created
func (c *Connection) CreatedAt() time.Time {
	return c.createdAt
}

// Deactivate marks the connection inactive without removing it
func (c *Connection) Deactivate() {
	c.active = false
}

// Involves reports whether the connection touches the given application
func (c *Connection) Involves(appID valueobjects.ApplicationID) bool {
	return c.sourceID.Equals(appID) || c.targetID.Equals(appID)
}
