package core

import (
	"fmt"
	"strings"
)

// Placeholder tokens embed a variable reference directly in prompt text.
// The syntax round-trips through persisted prompts, so it must never change:
//
//	{{value::<variableId>}}
//
// The delimiter is reserved: values and names containing it are rejected at
// creation time, so a token can never be matched by accident inside a
// literal.
const (
	tokenPrefix = "{{value::"
	tokenSuffix = "}}"
)

// PlaceholderToken returns the token for a variable id.
func PlaceholderToken(id string) string {
	return tokenPrefix + id + tokenSuffix
}

// ContainsToken reports whether s contains the reserved token delimiter.
func ContainsToken(s string) bool {
	return strings.Contains(s, tokenPrefix)
}

// OverlapsToken reports whether the rune range [start, end) intersects any
// placeholder token in text. Splicing over such a range would corrupt the
// token, so callers reject it.
func OverlapsToken(text string, start, end int) bool {
	off := 0
	for _, seg := range Segments(text) {
		if seg.VariableID != "" {
			n := len([]rune(PlaceholderToken(seg.VariableID)))
			if start < off+n && end > off {
				return true
			}
			off += n
			continue
		}
		off += len([]rune(seg.Literal))
	}
	return false
}

// Segment is one piece of decoded prompt text: either literal text or a
// reference to a variable. The UI renders segments directly instead of
// splicing strings, so display markup never touches the canonical text.
type Segment struct {
	Literal    string // Set when this segment is plain text
	VariableID string // Set when this segment references a variable
}

// Segments decodes prompt text into an ordered list of literal and
// variable-reference segments. An unterminated token is treated as literal
// text rather than an error.
func Segments(text string) []Segment {
	var segs []Segment
	for len(text) > 0 {
		start := strings.Index(text, tokenPrefix)
		if start == -1 {
			segs = append(segs, Segment{Literal: text})
			break
		}
		end := strings.Index(text[start+len(tokenPrefix):], tokenSuffix)
		if end == -1 {
			// No closing delimiter: the rest is literal.
			segs = append(segs, Segment{Literal: text})
			break
		}
		if start > 0 {
			segs = append(segs, Segment{Literal: text[:start]})
		}
		id := text[start+len(tokenPrefix) : start+len(tokenPrefix)+end]
		segs = append(segs, Segment{VariableID: id})
		text = text[start+len(tokenPrefix)+end+len(tokenSuffix):]
	}
	return segs
}

// SplicePlaceholder replaces the half-open rune range [start, end) of text
// with the placeholder token for the given variable id. Offsets are always
// against the raw text form, never a rendered form.
func SplicePlaceholder(text string, start, end int, id string) (string, error) {
	runes := []rune(text)
	if start < 0 || end < start || end > len(runes) {
		return "", fmt.Errorf("invalid splice range [%d, %d) for text of %d runes", start, end, len(runes))
	}
	return string(runes[:start]) + PlaceholderToken(id) + string(runes[end:]), nil
}

// RestoreLiteral replaces every occurrence of the variable's placeholder
// token with the given literal value. Used when a variable is removed so its
// last known value survives in-line.
func RestoreLiteral(text, id, literal string) string {
	return strings.ReplaceAll(text, PlaceholderToken(id), literal)
}

// ResolveText renders prompt text as plain text with no markup: placeholders
// for relevant variables become their current value, everything else
// (excluded, undecided, dangling) renders empty. This output is safe to copy
// to the clipboard or persist as the resolved prompt.
func ResolveText(text string, vars []Variable) string {
	byID := make(map[string]Variable, len(vars))
	for _, v := range vars {
		byID[v.ID] = v
	}

	var sb strings.Builder
	for _, seg := range Segments(text) {
		if seg.VariableID == "" {
			sb.WriteString(seg.Literal)
			continue
		}
		if v, ok := byID[seg.VariableID]; ok && v.Relevant() {
			sb.WriteString(v.Value)
		}
		// Dangling or non-relevant references render as empty.
	}
	return sb.String()
}

// PlainText is ResolveText over a Store's current contents.
func PlainText(text string, vars *Store) string {
	if vars == nil {
		return ResolveText(text, nil)
	}
	return ResolveText(text, vars.All())
}
