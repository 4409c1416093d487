package core

import (
	"encoding/json"
	"fmt"
)

// Projection is the canonical JSON snapshot of a prompt: the text with its
// placeholder tokens, the relevant variables, and the master command. It is
// regenerable idempotently - the same inputs produce byte-identical JSON.
type Projection struct {
	Prompt        string     `json:"prompt"`
	Variables     []Variable `json:"variables"`
	MasterCommand string     `json:"master_command,omitempty"`
}

// ClipboardText returns the resolved prompt as plain text with no markup
// and no placeholder tokens, using only relevant variables. This is the
// string safe to hand to an external clipboard.
func (s *Session) ClipboardText() string {
	return ResolveText(s.Prompt, s.Vars.RelevantOnly())
}

// Projection builds the export snapshot from current state without mutating
// the session.
func (s *Session) Projection() Projection {
	vars := s.Vars.RelevantOnly()
	if vars == nil {
		vars = []Variable{}
	}
	return Projection{
		Prompt:        s.Prompt,
		Variables:     vars,
		MasterCommand: s.MasterCommand,
	}
}

// ProjectionJSON marshals the projection with stable formatting.
func (s *Session) ProjectionJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.Projection(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal projection: %w", err)
	}
	return data, nil
}
