package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Stack constraints
	MaxToolsPerProject       int
	MaxConnectionsPerProject int
	MaxLabelLength           int
	MaxNoteLength            int

	// Chain rules. A tool keeps at most one inbound and one outbound
	// connection inside a single chain unless the chain is explicitly
	// extended; the same source/target pair may repeat across chains.
	AllowSelfConnections    bool
	AllowDuplicatePairInChain bool

	// Feed constraints
	MaxPostLength  int
	MaxPollOptions int
	MinPollOptions int

	// Idea board constraints
	MaxIdeaTitleLength  int
	MaxIdeaBodyLength   int
	MaxReviewNoteLength int

	// Comment constraints
	MaxCommentLength int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxToolsPerProject:       500,
		MaxConnectionsPerProject: 2000,
		MaxLabelLength:           120,
		MaxNoteLength:            1000,

		AllowSelfConnections:      false,
		AllowDuplicatePairInChain: false,

		MaxPostLength:  4000,
		MaxPollOptions: 10,
		MinPollOptions: 2,

		MaxIdeaTitleLength:  200,
		MaxIdeaBodyLength:   8000,
		MaxReviewNoteLength: 2000,

		MaxCommentLength: 2000,
	}
}
