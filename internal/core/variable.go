package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Variable is a named slot in the prompt. The id is the only key used inside
// placeholder text; name and code may change without breaking substitution.
type Variable struct {
	ID         string `json:"id"`          // Opaque stable identifier, never reused
	Name       string `json:"name"`        // 1-3 word human label
	Value      string `json:"value"`       // Current value, substituted at render time
	IsRelevant *bool  `json:"is_relevant"` // nil = undecided, false = excluded but recoverable
	Category   string `json:"category"`    // Grouping label (pillar or custom)
	Code       string `json:"code"`        // Display-stable VAR_n, for audit only
}

// Relevant reports whether the variable participates in substitution and
// export.
func (v Variable) Relevant() bool {
	return v.IsRelevant != nil && *v.IsRelevant
}

// The four pillar names structure a prompt template. They are reserved:
// analysis output using them as variable names is treated as section headers
// and filtered out of variable lists.
var pillarOrder = []string{"Task", "Persona", "Conditions", "Instructions"}

// IsPillar reports whether name is a reserved pillar header.
func IsPillar(name string) bool {
	for _, p := range pillarOrder {
		if strings.EqualFold(name, p) {
			return true
		}
	}
	return false
}

// Store is the authoritative ordered collection of variables for the active
// prompt. Ids are append-only within a session: a variable marked irrelevant
// keeps its record because placeholder tokens may still reference it.
type Store struct {
	vars []*Variable
	byID map[string]*Variable
	seq  int // Ordinal for VAR_n codes, never decremented
}

// NewStore creates an empty variable store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*Variable)}
}

// Create adds a variable with a fresh id. Relevance defaults to undecided
// unless the initial value is non-empty, in which case the variable is
// auto-promoted to relevant.
func (s *Store) Create(name, value, category string) (*Variable, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateValue(value, FieldValueMaxLen); err != nil {
		return nil, err
	}

	s.seq++
	v := &Variable{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(name),
		Value:    value,
		Category: category,
		Code:     fmt.Sprintf("VAR_%d", s.seq),
	}
	if value != "" {
		t := true
		v.IsRelevant = &t
	}

	s.vars = append(s.vars, v)
	s.byID[v.ID] = v
	return v, nil
}

// ImportSeeds adds analysis-proposed variables. Seeds named after a pillar
// header are section markers, not variables, and are skipped. Over-long
// names are truncated rather than rejected.
func (s *Store) ImportSeeds(seeds []VariableSeed) []*Variable {
	var added []*Variable
	for _, seed := range seeds {
		if IsPillar(seed.Name) {
			continue
		}
		name := TruncateName(seed.Name)
		v, err := s.Create(name, seed.Value, seed.Category)
		if err != nil {
			continue // Skip malformed seeds, never fail the import
		}
		added = append(added, v)
	}
	return added
}

// Get returns the variable with the given id.
func (s *Store) Get(id string) (*Variable, bool) {
	v, ok := s.byID[id]
	return v, ok
}

// SetRelevance flips the relevance flag. It never deletes the record:
// removal in this domain means isRelevant = false plus a placeholder
// restore, so it is always reversible.
func (s *Store) SetRelevance(id string, relevant bool) error {
	v, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("unknown variable id %s", id)
	}
	v.IsRelevant = &relevant
	return nil
}

// SetValue updates the value. An undecided variable gaining a non-empty
// value is auto-promoted to relevant, so users are not asked twice.
func (s *Store) SetValue(id, value string) error {
	v, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("unknown variable id %s", id)
	}
	if err := ValidateValue(value, FieldValueMaxLen); err != nil {
		return err
	}
	v.Value = value
	if v.IsRelevant == nil && value != "" {
		t := true
		v.IsRelevant = &t
	}
	return nil
}

// All returns every variable in insertion order.
func (s *Store) All() []Variable {
	out := make([]Variable, len(s.vars))
	for i, v := range s.vars {
		out[i] = *v
	}
	return out
}

// RelevantOnly returns the variables with isRelevant == true, in insertion
// order. Every consumer that must not see excluded variables (export,
// clipboard, display) goes through this.
func (s *Store) RelevantOnly() []Variable {
	var out []Variable
	for _, v := range s.vars {
		if v.Relevant() {
			out = append(out, *v)
		}
	}
	return out
}

// Len returns the number of variables, including excluded ones.
func (s *Store) Len() int {
	return len(s.vars)
}

// CategoryGroup is one category bucket from ByCategory.
type CategoryGroup struct {
	Category  string
	Variables []Variable
}

// ByCategory groups variables by category: the four pillars first in their
// fixed order, then custom categories alphabetically. Within a group,
// insertion order is preserved.
func (s *Store) ByCategory() []CategoryGroup {
	buckets := make(map[string][]Variable)
	for _, v := range s.vars {
		buckets[v.Category] = append(buckets[v.Category], *v)
	}

	var groups []CategoryGroup
	seen := make(map[string]bool)
	for _, p := range pillarOrder {
		if vars, ok := buckets[p]; ok {
			groups = append(groups, CategoryGroup{Category: p, Variables: vars})
			seen[p] = true
		}
	}

	var rest []string
	for cat := range buckets {
		if !seen[cat] {
			rest = append(rest, cat)
		}
	}
	sort.Strings(rest)
	for _, cat := range rest {
		groups = append(groups, CategoryGroup{Category: cat, Variables: buckets[cat]})
	}
	return groups
}
