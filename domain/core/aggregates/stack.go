package aggregates

import (
	"sort"
	"time"

	"stackmap-backend/domain/config"
	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/core/valueobjects"
	"stackmap-backend/domain/events"
	pkgerrors "stackmap-backend/pkg/errors"
)

// ToolStack is the aggregate root for a project's tools and their
// connections. It is the consistency boundary that enforces the chain
// rules: no self-loops, no duplicate source/target pair inside one
// chain, and at most one inbound and one outbound connection per tool
// within a chain unless the chain is explicitly extended.
type ToolStack struct {
	projectID      string
	organizationID string
	tools          map[valueobjects.ToolID]*entities.Tool
	connections    map[valueobjects.ConnectionID]*entities.Connection
	cfg            *config.DomainConfig
	createdAt      time.Time
	updatedAt      time.Time
	version        int
	events         []events.DomainEvent
}

// NewToolStack creates an empty stack for a project
func NewToolStack(projectID, organizationID string) (*ToolStack, error) {
	if projectID == "" {
		return nil, pkgerrors.NewValidationError("projectID required")
	}
	if organizationID == "" {
		return nil, pkgerrors.NewValidationError("organizationID required")
	}

	now := time.Now()
	return &ToolStack{
		projectID:      projectID,
		organizationID: organizationID,
		tools:          make(map[valueobjects.ToolID]*entities.Tool),
		connections:    make(map[valueobjects.ConnectionID]*entities.Connection),
		cfg:            config.DefaultDomainConfig(),
		createdAt:      now,
		updatedAt:      now,
		version:        1,
	}, nil
}

// ReconstructToolStack recreates a stack from stored tools and connections
func ReconstructToolStack(
	projectID, organizationID string,
	tools []*entities.Tool,
	connections []*entities.Connection,
	createdAt, updatedAt time.Time,
) (*ToolStack, error) {
	stack, err := NewToolStack(projectID, organizationID)
	if err != nil {
		return nil, err
	}

	for _, tool := range tools {
		stack.tools[tool.ID()] = tool
	}
	for _, conn := range connections {
		stack.connections[conn.ID()] = conn
	}
	stack.createdAt = createdAt
	stack.updatedAt = updatedAt
	return stack, nil
}

// ProjectID returns the owning project's identifier
func (s *ToolStack) ProjectID() string {
	return s.projectID
}

// OrganizationID returns the owning organization's identifier
func (s *ToolStack) OrganizationID() string {
	return s.organizationID
}

// CreatedAt returns when the stack was created
func (s *ToolStack) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns when the stack last changed
func (s *ToolStack) UpdatedAt() time.Time {
	return s.updatedAt
}

// Tools returns the stack's tools, ordered by the time they were added
func (s *ToolStack) Tools() []*entities.Tool {
	tools := make([]*entities.Tool, 0, len(s.tools))
	for _, tool := range s.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		if tools[i].AddedAt().Equal(tools[j].AddedAt()) {
			return tools[i].ID().String() < tools[j].ID().String()
		}
		return tools[i].AddedAt().Before(tools[j].AddedAt())
	})
	return tools
}

// Connections returns the stack's connections, ordered by creation time
func (s *ToolStack) Connections() []*entities.Connection {
	connections := make([]*entities.Connection, 0, len(s.connections))
	for _, conn := range s.connections {
		connections = append(connections, conn)
	}
	sort.Slice(connections, func(i, j int) bool {
		if connections[i].CreatedAt().Equal(connections[j].CreatedAt()) {
			return connections[i].ID().String() < connections[j].ID().String()
		}
		return connections[i].CreatedAt().Before(connections[j].CreatedAt())
	})
	return connections
}

// GetTool retrieves a tool by id
func (s *ToolStack) GetTool(id valueobjects.ToolID) (*entities.Tool, error) {
	tool, exists := s.tools[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("tool")
	}
	return tool, nil
}

// HasApplication reports whether any tool instantiates the application
func (s *ToolStack) HasApplication(appID valueobjects.ApplicationID) bool {
	for _, tool := range s.tools {
		if tool.ApplicationID().Equals(appID) {
			return true
		}
	}
	return false
}

// AttachTool adds a tool to the stack
func (s *ToolStack) AttachTool(tool *entities.Tool) error {
	if tool == nil {
		return pkgerrors.NewValidationError("tool cannot be nil")
	}

	if _, exists := s.tools[tool.ID()]; exists {
		return pkgerrors.NewConflictError("tool already attached to project")
	}

	if s.HasApplication(tool.ApplicationID()) {
		return pkgerrors.NewConflictError("application already attached to project")
	}

	if len(s.tools) >= s.cfg.MaxToolsPerProject {
		return pkgerrors.NewValidationError("maximum tools per project reached")
	}

	s.tools[tool.ID()] = tool
	s.touch()

	s.addEvent(events.NewToolAttached(s.projectID, tool.ID(), tool.ApplicationID(), tool.AddedBy(), s.updatedAt))
	return nil
}

// RemoveTool removes a tool and every connection involving it
func (s *ToolStack) RemoveTool(id valueobjects.ToolID) error {
	tool, exists := s.tools[id]
	if !exists {
		return pkgerrors.NewNotFoundError("tool")
	}

	removed := 0
	for connID, conn := range s.connections {
		if conn.Involves(tool.ApplicationID()) {
			delete(s.connections, connID)
			removed++
		}
	}

	delete(s.tools, id)
	s.touch()

	s.addEvent(events.NewToolRemoved(s.projectID, id, removed, s.updatedAt))
	return nil
}

// Connect creates a connection between two applications on the stack.
// When chainID is empty the connection starts a new chain. extend marks
// a deliberate chain extension, which relaxes the one-outbound /
// one-inbound rule for the named chain.
func (s *ToolStack) Connect(sourceID, targetID valueobjects.ApplicationID, label, chainID string, extend bool) (*entities.Connection, error) {
	if !s.HasApplication(sourceID) || !s.HasApplication(targetID) {
		return nil, pkgerrors.NewNotFoundError("tool")
	}

	if len(s.connections) >= s.cfg.MaxConnectionsPerProject {
		return nil, pkgerrors.NewValidationError("maximum connections per project reached")
	}

	if chainID != "" {
		if err := s.validateChainMembership(sourceID, targetID, chainID, extend); err != nil {
			return nil, err
		}
	}

	conn, err := entities.NewConnectionWithConfig(sourceID, targetID, label, chainID, s.cfg)
	if err != nil {
		return nil, err
	}

	s.connections[conn.ID()] = conn
	s.touch()

	s.addEvent(events.NewConnectionCreated(s.projectID, conn.ID(), sourceID, targetID, conn.ChainID(), s.updatedAt))
	return conn, nil
}

// validateChainMembership enforces the per-chain rules for an existing chain
func (s *ToolStack) validateChainMembership(sourceID, targetID valueobjects.ApplicationID, chainID string, extend bool) error {
	chain, err := valueobjects.NewChainID(chainID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	for _, conn := range s.connections {
		if !conn.ChainID().Equals(chain) {
			continue
		}

		// Duplicate source/target pair is never allowed inside one chain.
		if !s.cfg.AllowDuplicatePairInChain &&
			conn.SourceID().Equals(sourceID) && conn.TargetID().Equals(targetID) {
			return pkgerrors.NewConflictError("connection already exists in this chain")
		}

		if extend {
			// An extension appends to the chain; the target must not
			// already be part of it.
			if conn.SourceID().Equals(targetID) || conn.TargetID().Equals(targetID) {
				return pkgerrors.NewConflictError("target tool is already part of this chain")
			}
			continue
		}

		if conn.SourceID().Equals(sourceID) {
			return pkgerrors.NewConflictError("tool already has an outgoing connection in this chain")
		}
		if conn.TargetID().Equals(targetID) {
			return pkgerrors.NewConflictError("tool already has an incoming connection in this chain")
		}
	}

	return nil
}

// GetConnection retrieves a connection by id
func (s *ToolStack) GetConnection(id valueobjects.ConnectionID) (*entities.Connection, error) {
	conn, exists := s.connections[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("connection")
	}
	return conn, nil
}

// DeleteConnection removes a single connection
func (s *ToolStack) DeleteConnection(id valueobjects.ConnectionID) error {
	conn, exists := s.connections[id]
	if !exists {
		return pkgerrors.NewNotFoundError("connection")
	}

	delete(s.connections, id)
	s.touch()

	s.addEvent(events.NewConnectionDeleted(s.projectID, id, conn.ChainID(), s.updatedAt))
	return nil
}

// RemoveToolFromChain deletes every connection in the chain that
// involves the given tool. Returns the number of connections removed.
func (s *ToolStack) RemoveToolFromChain(toolID valueobjects.ToolID, chainID valueobjects.ChainID) (int, error) {
	tool, exists := s.tools[toolID]
	if !exists {
		return 0, pkgerrors.NewNotFoundError("tool")
	}

	removed := 0
	for connID, conn := range s.connections {
		if conn.ChainID().Equals(chainID) && conn.Involves(tool.ApplicationID()) {
			delete(s.connections, connID)
			s.addEvent(events.NewConnectionDeleted(s.projectID, connID, chainID, time.Now()))
			removed++
		}
	}

	if removed == 0 {
		return 0, pkgerrors.NewNotFoundError("connection")
	}

	s.touch()
	return removed, nil
}

// ChainIDs returns the distinct chain ids present on the stack, sorted
func (s *ToolStack) ChainIDs() []valueobjects.ChainID {
	seen := make(map[string]bool)
	ids := make([]valueobjects.ChainID, 0)
	for _, conn := range s.connections {
		key := conn.ChainID().String()
		if !seen[key] {
			seen[key] = true
			ids = append(ids, conn.ChainID())
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// ConnectionsInChain returns the connections belonging to one chain
func (s *ToolStack) ConnectionsInChain(chainID valueobjects.ChainID) []*entities.Connection {
	result := make([]*entities.Connection, 0)
	for _, conn := range s.Connections() {
		if conn.ChainID().Equals(chainID) {
			result = append(result, conn)
		}
	}
	return result
}

// Validate ensures stack invariants hold
func (s *ToolStack) Validate() error {
	for _, conn := range s.connections {
		if !s.HasApplication(conn.SourceID()) {
			return pkgerrors.NewValidationError("connection references missing source tool")
		}
		if !s.HasApplication(conn.TargetID()) {
			return pkgerrors.NewValidationError("connection references missing target tool")
		}
	}
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (s *ToolStack) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, len(s.events))
	copy(all, s.events)
	return all
}

// MarkEventsAsCommitted clears the uncommitted events
func (s *ToolStack) MarkEventsAsCommitted() {
	s.events = nil
}

func (s *ToolStack) addEvent(event events.DomainEvent) {
	s.events = append(s.events, event)
}

func (s *ToolStack) touch() {
	s.updatedAt = time.Now()
	s.version++
}
