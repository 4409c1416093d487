package tui

import (
	"strings"

	"github.com/dhabedank/promptsmith/internal/core"
)

// RenderPrompt renders tokenized prompt text for display: literal segments
// pass through, variable segments show the variable's current value styled,
// excluded variables render struck through, and references to unknown
// variables collapse to nothing.
func RenderPrompt(text string, vars *core.Store) string {
	var b strings.Builder
	for _, seg := range core.Segments(text) {
		if seg.VariableID == "" {
			b.WriteString(seg.Literal)
			continue
		}
		v, ok := vars.Get(seg.VariableID)
		if !ok {
			continue // Dangling reference renders empty
		}
		if !v.Relevant() {
			b.WriteString(ExcludedStyle.Render(v.Value))
			continue
		}
		b.WriteString(VariableStyle.Render(v.Value))
	}
	return b.String()
}
