package queries

import "errors"

// GetStackQuery retrieves a project's tools and connections
type GetStackQuery struct {
	OrganizationID string
	ProjectID      string
}

// Validate validates the GetStackQuery
func (q GetStackQuery) Validate() error {
	if q.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	return nil
}

// ToolView is the read model of one tool
type ToolView struct {
	ID            string `json:"id"`
	ApplicationID string `json:"applicationId"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Status        string `json:"status"`
	Website       string `json:"website,omitempty"`
	LogoURL       string `json:"logoUrl,omitempty"`
	Note          string `json:"note,omitempty"`
	AddedBy       string `json:"addedBy"`
	AddedAt       string `json:"addedAt"`
}

// ConnectionView is the read model of one connection
type ConnectionView struct {
	ID        string `json:"id"`
	SourceID  string `json:"sourceId"`
	TargetID  string `json:"targetId"`
	Label     string `json:"label,omitempty"`
	ChainID   string `json:"chainId"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
}

// StackView is the result of GetStackQuery
type StackView struct {
	ProjectID   string           `json:"projectId"`
	Tools       []ToolView       `json:"tools"`
	Connections []ConnectionView `json:"connections"`
	UpdatedAt   string           `json:"updatedAt"`
}
