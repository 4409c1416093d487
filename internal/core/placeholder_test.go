package core

import (
	"reflect"
	"testing"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Segment
	}{
		{
			name: "plain text only",
			text: "write a poem",
			want: []Segment{{Literal: "write a poem"}},
		},
		{
			name: "token in the middle",
			text: "write about {{value::abc}} today",
			want: []Segment{
				{Literal: "write about "},
				{VariableID: "abc"},
				{Literal: " today"},
			},
		},
		{
			name: "token at start",
			text: "{{value::abc}} first",
			want: []Segment{
				{VariableID: "abc"},
				{Literal: " first"},
			},
		},
		{
			name: "token at end",
			text: "ends with {{value::abc}}",
			want: []Segment{
				{Literal: "ends with "},
				{VariableID: "abc"},
			},
		},
		{
			name: "adjacent tokens",
			text: "{{value::a}}{{value::b}}",
			want: []Segment{
				{VariableID: "a"},
				{VariableID: "b"},
			},
		},
		{
			name: "unterminated token stays literal",
			text: "broken {{value::abc",
			want: []Segment{{Literal: "broken {{value::abc"}},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segments(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segments(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplicePlaceholder(t *testing.T) {
	got, err := SplicePlaceholder("write about SUBJECT today", 12, 19, "id-1")
	if err != nil {
		t.Fatalf("SplicePlaceholder failed: %v", err)
	}
	want := "write about {{value::id-1}} today"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplicePlaceholderRuneOffsets(t *testing.T) {
	// Offsets count runes, not bytes.
	got, err := SplicePlaceholder("héllo wörld", 6, 11, "id-1")
	if err != nil {
		t.Fatalf("SplicePlaceholder failed: %v", err)
	}
	want := "héllo {{value::id-1}}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplicePlaceholderInvalidRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 3},
		{"end before start", 5, 2},
		{"end past text", 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SplicePlaceholder("short", tt.start, tt.end, "x"); err == nil {
				t.Errorf("expected error for range [%d, %d)", tt.start, tt.end)
			}
		})
	}
}

func TestSpliceRestoreRoundTrip(t *testing.T) {
	original := "write about SUBJECT today"

	spliced, err := SplicePlaceholder(original, 12, 19, "id-1")
	if err != nil {
		t.Fatalf("splice failed: %v", err)
	}
	restored := RestoreLiteral(spliced, "id-1", "SUBJECT")
	if restored != original {
		t.Errorf("round trip lost text: got %q, want %q", restored, original)
	}
}

func TestRestoreLiteralAllOccurrences(t *testing.T) {
	text := "{{value::a}} and {{value::a}} and {{value::b}}"
	got := RestoreLiteral(text, "a", "X")
	want := "X and X and {{value::b}}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveText(t *testing.T) {
	yes, no := true, false
	vars := []Variable{
		{ID: "a", Value: "cats", IsRelevant: &yes},
		{ID: "b", Value: "dogs", IsRelevant: &no},
		{ID: "c", Value: "birds"}, // undecided
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "relevant renders value",
			text: "about {{value::a}}",
			want: "about cats",
		},
		{
			name: "excluded renders empty",
			text: "about {{value::b}}",
			want: "about ",
		},
		{
			name: "undecided renders empty",
			text: "about {{value::c}}",
			want: "about ",
		},
		{
			name: "dangling reference renders empty",
			text: "about {{value::missing}} still fine",
			want: "about  still fine",
		},
		{
			name: "mixed",
			text: "{{value::a}} vs {{value::b}}",
			want: "cats vs ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveText(tt.text, vars)
			if got != tt.want {
				t.Errorf("ResolveText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestResolveTextNoVars(t *testing.T) {
	got := ResolveText("plain {{value::x}} text", nil)
	if got != "plain  text" {
		t.Errorf("got %q", got)
	}
}

func TestPlainTextNilStore(t *testing.T) {
	got := PlainText("hi {{value::z}}", nil)
	if got != "hi " {
		t.Errorf("got %q", got)
	}
}

func TestContainsToken(t *testing.T) {
	if !ContainsToken("has {{value::x}} inside") {
		t.Error("expected token to be detected")
	}
	if ContainsToken("plain text {{braces}} only") {
		t.Error("plain braces are not the reserved syntax")
	}
}

func TestOverlapsToken(t *testing.T) {
	text := "héllo {{value::v1}} world" // token spans runes [6, 19)
	tests := []struct {
		name       string
		start, end int
		want       bool
	}{
		{"literal before", 0, 5, false},
		{"literal after", 20, 25, false},
		{"touching start", 0, 6, false},
		{"touching end", 19, 25, false},
		{"inside", 8, 12, true},
		{"straddles start", 4, 10, true},
		{"straddles end", 12, 22, true},
		{"covers whole token", 0, 25, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverlapsToken(text, tt.start, tt.end); got != tt.want {
				t.Errorf("OverlapsToken(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}
