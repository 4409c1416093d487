package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dhabedank/promptsmith/internal/core"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func samplePrompt(title string) *SavedPrompt {
	yes := true
	return &SavedPrompt{
		UserID:        DefaultUserID,
		Title:         title,
		PromptText:    "write about {{value::v1}}",
		MasterCommand: "Write an article",
		Variables: []core.Variable{
			{ID: "v1", Name: "Topic", Value: "cats", IsRelevant: &yes, Category: "Task", Code: "VAR_1"},
		},
		Tags: []string{"writing"},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	p := samplePrompt("Cat article")
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p.ID == "" {
		t.Fatal("Save must assign an id")
	}

	got, err := store.Load(ctx, p.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Title != "Cat article" || got.PromptText != p.PromptText {
		t.Errorf("loaded prompt = %+v", got)
	}
	if len(got.Variables) != 1 || got.Variables[0].ID != "v1" {
		t.Errorf("variables did not round-trip: %+v", got.Variables)
	}
	if got.Variables[0].IsRelevant == nil || !*got.Variables[0].IsRelevant {
		t.Error("relevance flag did not round-trip")
	}
	if len(got.Tags) != 1 || got.Tags[0] != "writing" {
		t.Errorf("tags did not round-trip: %v", got.Tags)
	}
}

func TestSaveUpdatesExisting(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	p := samplePrompt("Original")
	_ = store.Save(ctx, p)
	created := p.CreatedAt

	p.Title = "Updated"
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, _ := store.Load(ctx, p.ID)
	if got.Title != "Updated" {
		t.Errorf("title = %q", got.Title)
	}
	if !got.CreatedAt.Equal(created) {
		t.Error("update must not change created_at")
	}

	list, _ := store.ListByUser(ctx, DefaultUserID)
	if len(list) != 1 {
		t.Errorf("update created a duplicate row: %d rows", len(list))
	}
}

func TestLoadMissing(t *testing.T) {
	store := testStore(t)
	if _, err := store.Load(context.Background(), "nope"); err == nil {
		t.Error("loading a missing prompt should fail")
	}
}

func TestListByUser(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first := samplePrompt("First")
	second := samplePrompt("Second")
	other := samplePrompt("Other user")
	other.UserID = "someone-else"

	_ = store.Save(ctx, first)
	_ = store.Save(ctx, second)
	_ = store.Save(ctx, other)

	list, err := store.ListByUser(ctx, DefaultUserID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d prompts, want 2", len(list))
	}
	// Newest first.
	if list[0].Title != "Second" || list[1].Title != "First" {
		t.Errorf("order = %s, %s; want Second, First", list[0].Title, list[1].Title)
	}
}

func TestDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	p := samplePrompt("Doomed")
	_ = store.Save(ctx, p)

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, p.ID); err == nil {
		t.Error("deleted prompt still loads")
	}
	if err := store.Delete(ctx, p.ID); err == nil {
		t.Error("deleting a missing prompt should fail")
	}
}

func TestRename(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	p := samplePrompt("Old name")
	_ = store.Save(ctx, p)

	if err := store.Rename(ctx, p.ID, "New name"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	got, _ := store.Load(ctx, p.ID)
	if got.Title != "New name" {
		t.Errorf("title = %q", got.Title)
	}
	if err := store.Rename(ctx, "nope", "x"); err == nil {
		t.Error("renaming a missing prompt should fail")
	}
}

func TestDuplicate(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	p := samplePrompt("Template")
	_ = store.Save(ctx, p)

	dup, err := store.Duplicate(ctx, p.ID)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if dup.ID == p.ID {
		t.Error("duplicate must get a fresh id")
	}
	if dup.Title != "Template (copy)" {
		t.Errorf("title = %q", dup.Title)
	}
	if dup.PromptText != p.PromptText || len(dup.Variables) != 1 {
		t.Error("duplicate must copy prompt text and variables")
	}

	list, _ := store.ListByUser(ctx, DefaultUserID)
	if len(list) != 2 {
		t.Errorf("got %d prompts after duplicate, want 2", len(list))
	}
}

func TestDraftRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if d, err := store.LoadDraft(ctx, DefaultUserID); err != nil || d != nil {
		t.Fatalf("missing draft should be (nil, nil), got (%v, %v)", d, err)
	}

	if err := store.SaveDraft(ctx, DefaultUserID, "half-typed prompt"); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	d, err := store.LoadDraft(ctx, DefaultUserID)
	if err != nil {
		t.Fatalf("LoadDraft failed: %v", err)
	}
	if d.RawText != "half-typed prompt" {
		t.Errorf("draft text = %q", d.RawText)
	}

	// Drafts are a single slot per user.
	_ = store.SaveDraft(ctx, DefaultUserID, "newer text")
	d, _ = store.LoadDraft(ctx, DefaultUserID)
	if d.RawText != "newer text" {
		t.Errorf("draft not overwritten: %q", d.RawText)
	}
}
