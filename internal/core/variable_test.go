package core

import (
	"strings"
	"testing"
)

func TestCreateAutoPromotion(t *testing.T) {
	s := NewStore()

	withValue, err := s.Create("Topic", "space travel", "Task")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !withValue.Relevant() {
		t.Error("variable created with a value should be auto-promoted to relevant")
	}

	empty, err := s.Create("Tone", "", "Conditions")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if empty.IsRelevant != nil {
		t.Error("variable created without a value should stay undecided")
	}
}

func TestCreateAssignsStableCodes(t *testing.T) {
	s := NewStore()

	v1, _ := s.Create("First", "a", "Task")
	v2, _ := s.Create("Second", "b", "Task")

	if v1.Code != "VAR_1" || v2.Code != "VAR_2" {
		t.Errorf("codes = %s, %s; want VAR_1, VAR_2", v1.Code, v2.Code)
	}
	if v1.ID == v2.ID {
		t.Error("ids must be unique")
	}

	// Removal never frees a code.
	_ = s.SetRelevance(v1.ID, false)
	v3, _ := s.Create("Third", "c", "Task")
	if v3.Code != "VAR_3" {
		t.Errorf("code after removal = %s, want VAR_3", v3.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	s := NewStore()

	tests := []struct {
		name    string
		varName string
		value   string
	}{
		{"empty name", "", "x"},
		{"too many words", "one two three four", "x"},
		{"token syntax in name", "bad {{value::x}}", "x"},
		{"token syntax in value", "Name", "sneaky {{value::x}}"},
		{"value too long", "Name", strings.Repeat("a", FieldValueMaxLen+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Create(tt.varName, tt.value, "Task"); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSetValueAutoPromotes(t *testing.T) {
	s := NewStore()
	v, _ := s.Create("Tone", "", "Conditions")

	if err := s.SetValue(v.ID, "formal"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	got, _ := s.Get(v.ID)
	if !got.Relevant() {
		t.Error("undecided variable gaining a value should become relevant")
	}
}

func TestSetValueKeepsExplicitExclusion(t *testing.T) {
	s := NewStore()
	v, _ := s.Create("Tone", "", "Conditions")
	_ = s.SetRelevance(v.ID, false)

	if err := s.SetValue(v.ID, "formal"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	got, _ := s.Get(v.ID)
	if got.Relevant() {
		t.Error("explicitly excluded variable must not be promoted by an edit")
	}
}

func TestSetRelevanceKeepsRecord(t *testing.T) {
	s := NewStore()
	v, _ := s.Create("Topic", "cats", "Task")

	if err := s.SetRelevance(v.ID, false); err != nil {
		t.Fatalf("SetRelevance failed: %v", err)
	}
	if s.Len() != 1 {
		t.Error("exclusion must not delete the record")
	}
	got, ok := s.Get(v.ID)
	if !ok || got.Value != "cats" {
		t.Error("excluded variable must keep its last value")
	}

	// And it comes back.
	_ = s.SetRelevance(v.ID, true)
	if got, _ := s.Get(v.ID); !got.Relevant() {
		t.Error("re-inclusion failed")
	}
}

func TestImportSeedsSkipsPillars(t *testing.T) {
	s := NewStore()
	added := s.ImportSeeds([]VariableSeed{
		{Name: "Task", Value: "x", Category: "Task"},
		{Name: "persona", Value: "x", Category: "Persona"}, // Case-insensitive
		{Name: "Topic", Value: "cats", Category: "Task"},
	})

	if len(added) != 1 {
		t.Fatalf("added %d variables, want 1", len(added))
	}
	if added[0].Name != "Topic" {
		t.Errorf("kept %q, want Topic", added[0].Name)
	}
}

func TestImportSeedsTruncatesLongNames(t *testing.T) {
	s := NewStore()
	added := s.ImportSeeds([]VariableSeed{
		{Name: "a very long variable name", Value: "x", Category: "Task"},
	})

	if len(added) != 1 {
		t.Fatalf("added %d variables, want 1", len(added))
	}
	if added[0].Name != "a very long" {
		t.Errorf("name = %q, want the first three words", added[0].Name)
	}
}

func TestImportSeedsNeverFails(t *testing.T) {
	s := NewStore()
	added := s.ImportSeeds([]VariableSeed{
		{Name: "Bad", Value: "has {{value::x}} inside", Category: "Task"},
		{Name: "Good", Value: "fine", Category: "Task"},
	})

	if len(added) != 1 || added[0].Name != "Good" {
		t.Errorf("malformed seed should be skipped, got %d added", len(added))
	}
}

func TestRelevantOnlyInsertionOrder(t *testing.T) {
	s := NewStore()
	a, _ := s.Create("A", "1", "Task")
	b, _ := s.Create("B", "2", "Task")
	c, _ := s.Create("C", "3", "Task")
	_ = s.SetRelevance(b.ID, false)

	got := s.RelevantOnly()
	if len(got) != 2 {
		t.Fatalf("got %d relevant, want 2", len(got))
	}
	if got[0].ID != a.ID || got[1].ID != c.ID {
		t.Error("relevant variables must keep insertion order")
	}
}

func TestByCategoryOrdering(t *testing.T) {
	s := NewStore()
	_, _ = s.Create("Format", "list", "Zebra")
	_, _ = s.Create("Audience", "devs", "Persona")
	_, _ = s.Create("Topic", "cats", "Task")
	_, _ = s.Create("Extra", "x", "Custom")

	groups := s.ByCategory()
	var order []string
	for _, g := range groups {
		order = append(order, g.Category)
	}

	want := []string{"Task", "Persona", "Custom", "Zebra"}
	if len(order) != len(want) {
		t.Fatalf("got groups %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got groups %v, want %v", order, want)
		}
	}
}

func TestIsPillar(t *testing.T) {
	for _, name := range []string{"Task", "persona", "CONDITIONS", "instructions"} {
		if !IsPillar(name) {
			t.Errorf("IsPillar(%q) = false, want true", name)
		}
	}
	if IsPillar("Topic") {
		t.Error("IsPillar(Topic) = true, want false")
	}
}
