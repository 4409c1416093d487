package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func finalizeSession(t *testing.T) *Session {
	t.Helper()
	s := refineSession(t)
	s.Prompt = "write about SUBJECT today"
	if _, err := s.CreateVariable(12, 19, "Topic", "Task"); err != nil {
		t.Fatalf("CreateVariable failed: %v", err)
	}
	token, _ := s.BeginEnhancement()
	s.ApplyEnhancement(token, s.Prompt)
	return s
}

func TestProjectionIdempotent(t *testing.T) {
	s := finalizeSession(t)

	first, err := s.ProjectionJSON()
	if err != nil {
		t.Fatalf("ProjectionJSON failed: %v", err)
	}
	second, err := s.ProjectionJSON()
	if err != nil {
		t.Fatalf("ProjectionJSON failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("repeated projection must be byte-identical")
	}
}

func TestProjectionDoesNotMutate(t *testing.T) {
	s := finalizeSession(t)
	prompt := s.Prompt
	varCount := s.Vars.Len()

	_ = s.Projection()
	_, _ = s.ProjectionJSON()

	if s.Prompt != prompt || s.Vars.Len() != varCount {
		t.Error("projection must not mutate the session")
	}
}

func TestProjectionFiltersExcluded(t *testing.T) {
	s := finalizeSession(t)
	all := s.Vars.All()
	_ = s.Vars.SetRelevance(all[1].ID, false) // The spliced Topic variable

	p := s.Projection()
	for _, v := range p.Variables {
		if v.ID == all[1].ID {
			t.Error("excluded variable leaked into the projection")
		}
	}
}

func TestProjectionEmptyVariablesIsArray(t *testing.T) {
	s := NewSession()
	s.Prompt = "no variables here"

	data, err := s.ProjectionJSON()
	if err != nil {
		t.Fatalf("ProjectionJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"variables": []`) {
		t.Errorf("variables must serialize as an empty array, got %s", data)
	}

	var round Projection
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("projection JSON does not round-trip: %v", err)
	}
}

func TestProjectionKeepsTokens(t *testing.T) {
	s := finalizeSession(t)

	p := s.Projection()
	if !ContainsToken(p.Prompt) {
		t.Error("the projected prompt keeps its placeholder tokens")
	}
}

func TestClipboardTextResolvesTokens(t *testing.T) {
	s := finalizeSession(t)

	got := s.ClipboardText()
	if got != "write about SUBJECT today" {
		t.Errorf("ClipboardText = %q", got)
	}
	if ContainsToken(got) {
		t.Error("clipboard text must not contain placeholder syntax")
	}
}

func TestClipboardTextSkipsExcluded(t *testing.T) {
	s := finalizeSession(t)
	all := s.Vars.All()
	_ = s.Vars.SetRelevance(all[1].ID, false)

	got := s.ClipboardText()
	if strings.Contains(got, "SUBJECT") {
		t.Errorf("excluded variable rendered in clipboard text: %q", got)
	}
}
