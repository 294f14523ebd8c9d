package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// ToolID is a value object identifying a tool attached to a project.
// Value objects are immutable and have no identity beyond their value.
type ToolID struct {
	value string
}

// NewToolID creates a new random ToolID
func NewToolID() ToolID {
	return ToolID{value: uuid.New().String()}
}

// NewToolIDFromString creates a ToolID from an existing string
func NewToolIDFromString(id string) (ToolID, error) {
	if id == "" {
		return ToolID{}, errors.New("tool ID cannot be empty")
	}
	if !isValidUUID(id) {
		return ToolID{}, errors.New("tool ID must be a valid UUID")
	}
	return ToolID{value: id}, nil
}

// String returns the string representation of the ToolID
func (id ToolID) String() string {
	return id.value
}

// Equals checks if two ToolIDs are equal
func (id ToolID) Equals(other ToolID) bool {
	return id.value == other.value
}

// IsZero checks if the ToolID is the zero value
func (id ToolID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ToolID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ToolID) UnmarshalJSON(data []byte) error {
	return unmarshalIDString(data, &id.value, "ToolID")
}

// ConnectionID is a value object identifying a directed connection
// between two tools.
type ConnectionID struct {
	value string
}

// NewConnectionID creates a new random ConnectionID
func NewConnectionID() ConnectionID {
	return ConnectionID{value: uuid.New().String()}
}

// NewConnectionIDFromString creates a ConnectionID from an existing string
func NewConnectionIDFromString(id string) (ConnectionID, error) {
	if id == "" {
		return ConnectionID{}, errors.New("connection ID cannot be empty")
	}
	if !isValidUUID(id) {
		return ConnectionID{}, errors.New("connection ID must be a valid UUID")
	}
	return ConnectionID{value: id}, nil
}

// String returns the string representation of the ConnectionID
func (id ConnectionID) String() string {
	return id.value
}

// Equals checks if two ConnectionIDs are equal
func (id ConnectionID) Equals(other ConnectionID) bool {
	return id.value == other.value
}

// IsZero checks if the ConnectionID is the zero value
func (id ConnectionID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ConnectionID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ConnectionID) UnmarshalJSON(data []byte) error {
	return unmarshalIDString(data, &id.value, "ConnectionID")
}

// ApplicationID identifies an application in the catalog. Tools on a
// project reference applications by this id, and connections are drawn
// between application ids rather than tool record ids.
type ApplicationID struct {
	value string
}

// NewApplicationID creates an ApplicationID from a string
func NewApplicationID(id string) (ApplicationID, error) {
	if id == "" {
		return ApplicationID{}, errors.New("application ID cannot be empty")
	}
	return ApplicationID{value: id}, nil
}

// String returns the string representation of the ApplicationID
func (id ApplicationID) String() string {
	return id.value
}

// Equals checks if two ApplicationIDs are equal
func (id ApplicationID) Equals(other ApplicationID) bool {
	return id.value == other.value
}

// IsZero checks if the ApplicationID is the zero value
func (id ApplicationID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ApplicationID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ApplicationID) UnmarshalJSON(data []byte) error {
	return unmarshalIDString(data, &id.value, "ApplicationID")
}

// ChainID groups connections into a visual pipeline. A connection
// without an explicit chain id falls back to its own id, so every
// connection belongs to exactly one chain.
type ChainID struct {
	value string
}

// NewChainID creates a ChainID from a string
func NewChainID(id string) (ChainID, error) {
	if id == "" {
		return ChainID{}, errors.New("chain ID cannot be empty")
	}
	return ChainID{value: id}, nil
}

// ChainIDOrFallback returns the chain id when set, otherwise a chain id
// derived from the owning connection's id.
func ChainIDOrFallback(chainID string, connectionID ConnectionID) ChainID {
	if chainID != "" {
		return ChainID{value: chainID}
	}
	return ChainID{value: connectionID.String()}
}

// String returns the string representation of the ChainID
func (id ChainID) String() string {
	return id.value
}

// Equals checks if two ChainIDs are equal
func (id ChainID) Equals(other ChainID) bool {
	return id.value == other.value
}

// IsZero checks if the ChainID is the zero value
func (id ChainID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ChainID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ChainID) UnmarshalJSON(data []byte) error {
	return unmarshalIDString(data, &id.value, "ChainID")
}

// unmarshalIDString decodes a JSON string into an id value
func unmarshalIDString(data []byte, target *string, typeName string) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New(typeName + " must be a string")
	}
	*target = string(data[1 : len(data)-1])
	return nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
