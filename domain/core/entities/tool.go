package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"stackmap-backend/domain/config"
	"stackmap-backend/domain/core/valueobjects"
	pkgerrors "stackmap-backend/pkg/errors"
)

// ToolStatus represents the adoption state of a tool on a project
type ToolStatus string

const (
	ToolStatusActive  ToolStatus = "active"
	ToolStatusPlanned ToolStatus = "planned"
)

// Tool is an application instance attached to a project. Tools are
// created and deleted whole; only the status toggles after creation.
type Tool struct {
	id            valueobjects.ToolID
	applicationID valueobjects.ApplicationID
	name          string
	category      string
	status        ToolStatus
	website       string
	logoURL       string
	note          string
	addedBy       string
	addedAt       time.Time
}

// NewTool creates a tool with business rule validation
func NewTool(applicationID valueobjects.ApplicationID, name, category string, status ToolStatus, addedBy string) (*Tool, error) {
	return NewToolWithConfig(applicationID, name, category, status, addedBy, config.DefaultDomainConfig())
}

// NewToolWithConfig creates a tool with validation and configuration
func NewToolWithConfig(applicationID valueobjects.ApplicationID, name, category string, status ToolStatus, addedBy string, cfg *config.DomainConfig) (*Tool, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if applicationID.IsZero() {
		return nil, pkgerrors.NewValidationError("application ID cannot be empty")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("tool name cannot be empty")
	}

	if addedBy == "" {
		return nil, pkgerrors.NewValidationError("addedBy cannot be empty")
	}

	if !isValidToolStatus(status) {
		return nil, pkgerrors.NewValidationError("tool status must be active or planned")
	}

	return &Tool{
		id:            valueobjects.NewToolID(),
		applicationID: applicationID,
		name:          name,
		category:      category,
		status:        status,
		addedBy:       addedBy,
		addedAt:       time.Now(),
	}, nil
}

// ReconstructTool reconstructs a tool from repository data with
// preserved identity and timestamps.
func ReconstructTool(
	id valueobjects.ToolID,
	applicationID valueobjects.ApplicationID,
	name, category string,
	status ToolStatus,
	website, logoURL, note, addedBy string,
	addedAt time.Time,
) (*Tool, error) {
	if id.IsZero() || applicationID.IsZero() {
		return nil, pkgerrors.NewValidationError("tool identity is incomplete")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("tool name cannot be empty")
	}

	return &Tool{
		id:            id,
		applicationID: applicationID,
		name:          name,
		category:      category,
		status:        status,
		website:       website,
		logoURL:       logoURL,
		note:          note,
		addedBy:       addedBy,
		addedAt:       addedAt,
	}, nil
}

// ID returns the tool's unique identifier
func (t *Tool) ID() valueobjects.ToolID {
	return t.id
}

// ApplicationID returns the catalog application this tool instantiates
func (t *Tool) ApplicationID() valueobjects.ApplicationID {
	return t.applicationID
}

// Name returns the display name
func (t *Tool) Name() string {
	return t.name
}

// Category returns the tool category
func (t *Tool) Category() string {
	return t.category
}

// Status returns the tool's adoption status
func (t *Tool) Status() ToolStatus {
	return t.status
}

// Website returns the tool's website URL
func (t *Tool) Website() string {
	return t.website
}

// LogoURL returns the tool's logo URL
func (t *Tool) LogoURL() string {
	return t.logoURL
}

// Note returns the free-text note
func (t *Tool) Note() string {
	return t.note
}

// AddedBy returns the user who attached the tool
func (t *Tool) AddedBy() string {
	return t.addedBy
}

// AddedAt returns when the tool was attached
func (t *Tool) AddedAt() time.Time {
	return t.addedAt
}

// SetDetails sets the optional presentation fields at creation time
func (t *Tool) SetDetails(website, logoURL, note string) error {
	cfg := config.DefaultDomainConfig()
	if utf8.RuneCountInString(note) > cfg.MaxNoteLength {
		return pkgerrors.NewValidationError("note exceeds maximum length")
	}
	t.website = website
	t.logoURL = logoURL
	t.note = note
	return nil
}

// ToggleStatus flips the tool between active and planned
func (t *Tool) ToggleStatus() {
	if t.status == ToolStatusActive {
		t.status = ToolStatusPlanned
	} else {
		t.status = ToolStatusActive
	}
}

func isValidToolStatus(s ToolStatus) bool {
	return s == ToolStatusActive || s == ToolStatusPlanned
}
