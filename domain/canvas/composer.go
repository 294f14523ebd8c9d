package canvas

import (
	pkgerrors "stackmap-backend/pkg/errors"
)

// ComposerState is one step of the connection creation flow.
type ComposerState string

const (
	ComposerClosed          ComposerState = "closed"
	ComposerSelectingSource ComposerState = "selecting_source"
	ComposerSelectingTarget ComposerState = "selecting_target"
	ComposerChoosingLabel   ComposerState = "choosing_label"
	ComposerSubmitting      ComposerState = "submitting"
)

// ConnectionDraft is the composer's output, ready to be sent to the
// connection creation operation.
type ConnectionDraft struct {
	SourceID string
	TargetID string
	Label    string
	ChainID  string
	Extend   bool
}

// Composer drives connection creation step by step: pick a source tool,
// pick a different target tool, choose a label, submit. Transitions out
// of order are rejected, and Cancel returns to closed from any state.
type Composer struct {
	state ComposerState
	draft ConnectionDraft
}

// NewComposer creates a closed composer
func NewComposer() *Composer {
	return &Composer{state: ComposerClosed}
}

// State returns the current composer state
func (c *Composer) State() ComposerState {
	return c.state
}

// Draft returns the draft accumulated so far
func (c *Composer) Draft() ConnectionDraft {
	return c.draft
}

// Open starts a new connection flow. chainID and extend carry the chain
// context when the flow was started from an existing chain; both are
// empty/false for a fresh connection.
func (c *Composer) Open(chainID string, extend bool) error {
	if c.state != ComposerClosed {
		return pkgerrors.NewConflictError("a connection is already being composed")
	}
	c.draft = ConnectionDraft{ChainID: chainID, Extend: extend}
	c.state = ComposerSelectingSource
	return nil
}

// SelectSource records the source tool
func (c *Composer) SelectSource(appID string) error {
	if c.state != ComposerSelectingSource {
		return pkgerrors.NewConflictError("composer is not selecting a source")
	}
	if appID == "" {
		return pkgerrors.NewValidationError("source tool is required")
	}
	c.draft.SourceID = appID
	c.state = ComposerSelectingTarget
	return nil
}

// SelectTarget records the target tool, which must differ from the source
func (c *Composer) SelectTarget(appID string) error {
	if c.state != ComposerSelectingTarget {
		return pkgerrors.NewConflictError("composer is not selecting a target")
	}
	if appID == "" {
		return pkgerrors.NewValidationError("target tool is required")
	}
	if appID == c.draft.SourceID {
		return pkgerrors.NewValidationError("a tool cannot connect to itself")
	}
	c.draft.TargetID = appID
	c.state = ComposerChoosingLabel
	return nil
}

// ChooseLabel records the label and moves to submission. An empty label
// is allowed.
func (c *Composer) ChooseLabel(label string) error {
	if c.state != ComposerChoosingLabel {
		return pkgerrors.NewConflictError("composer is not choosing a label")
	}
	c.draft.Label = label
	c.state = ComposerSubmitting
	return nil
}

// Complete finishes the flow and returns the draft
func (c *Composer) Complete() (ConnectionDraft, error) {
	if c.state != ComposerSubmitting {
		return ConnectionDraft{}, pkgerrors.NewConflictError("composer has nothing to submit")
	}
	draft := c.draft
	c.reset()
	return draft, nil
}

// Cancel abandons the flow from any state
func (c *Composer) Cancel() {
	c.reset()
}

func (c *Composer) reset() {
	c.draft = ConnectionDraft{}
	c.state = ComposerClosed
}
