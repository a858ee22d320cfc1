package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/novahq/nova/internal/storage"
)

func TestCreateNote(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()

	note, err := store.CreateNote(context.Background(), storage.NoteParams{
		Title:   "groceries",
		Content: "milk, eggs",
		UserID:  user.ID,
		Tags:    []string{"Errands", "errands", "home"},
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if note.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if note.Title != "groceries" {
		t.Errorf("expected title 'groceries', got %q", note.Title)
	}
	// Tag names normalize to lowercase and duplicates collapse.
	if len(note.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", note.Tags)
	}
	if note.Tags[0] != "errands" || note.Tags[1] != "home" {
		t.Errorf("unexpected tags: %v", note.Tags)
	}
	if note.Pinned || note.Archived {
		t.Error("expected new note to be neither pinned nor archived")
	}
}

func TestCreateNote_MissingFields(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()

	_, err := store.CreateNote(context.Background(), storage.NoteParams{
		Title:  "no content",
		UserID: user.ID,
	})
	if !errors.Is(err, storage.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestCreateNote_UnknownCategory(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()

	missing := int64(999)
	_, err := store.CreateNote(context.Background(), storage.NoteParams{
		Title:      "x",
		Content:    "y",
		UserID:     user.ID,
		CategoryID: &missing,
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown category, got %v", err)
	}
}

func TestCreateNote_SharedTagAcrossNotes(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	for _, title := range []string{"first", "second"} {
		_, err := store.CreateNote(ctx, storage.NoteParams{
			Title:   title,
			Content: "body",
			UserID:  user.ID,
			Tags:    []string{"shared"},
		})
		if err != nil {
			t.Fatalf("CreateNote %q failed: %v", title, err)
		}
	}

	notes, err := store.ListNotesByTag(ctx, user.ID, "shared")
	if err != nil {
		t.Fatalf("ListNotesByTag failed: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("expected 2 notes with the shared tag, got %d", len(notes))
	}
}

func TestGetNote_OtherUsersNote(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	other, err := store.CreateUser(ctx, "other", "other@example.com", "x")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	note, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "private", Content: "body", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	// Scoping by owner means another user simply does not see it.
	if _, err := store.GetNote(ctx, note.ID, other.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user's note, got %v", err)
	}
}

func TestUpdateNote_PartialPatch(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	note, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "draft", Content: "original", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	newTitle := "final"
	if err := store.UpdateNote(ctx, note.ID, user.ID, storage.NotePatch{Title: &newTitle}); err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}

	got, err := store.GetNote(ctx, note.ID, user.ID)
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if got.Title != "final" {
		t.Errorf("expected updated title, got %q", got.Title)
	}
	if got.Content != "original" {
		t.Errorf("expected content untouched, got %q", got.Content)
	}
}

func TestUpdateNote_EmptyTitle(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	note, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "draft", Content: "body", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	empty := "  "
	err = store.UpdateNote(ctx, note.ID, user.ID, storage.NotePatch{Title: &empty})
	if !errors.Is(err, storage.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestSetNotePinned_Idempotent(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	note, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "keep", Content: "body", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if err := store.SetNotePinned(ctx, note.ID, user.ID, true); err != nil {
		t.Fatalf("first pin failed: %v", err)
	}
	// Pinning an already-pinned note succeeds without complaint.
	if err := store.SetNotePinned(ctx, note.ID, user.ID, true); err != nil {
		t.Fatalf("second pin failed: %v", err)
	}

	got, err := store.GetNote(ctx, note.ID, user.ID)
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if !got.Pinned {
		t.Error("expected note to be pinned")
	}
}

func TestSetNotePinned_NotFound(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()

	err := store.SetNotePinned(context.Background(), 999, user.ID, true)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListNotes_ExcludesArchived(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	active, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "active", Content: "body", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	archived, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "old", Content: "body", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	if err := store.SetNoteArchived(ctx, archived.ID, user.ID, true); err != nil {
		t.Fatalf("SetNoteArchived failed: %v", err)
	}

	notes, err := store.ListNotes(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != active.ID {
		t.Errorf("expected only the active note, got %d notes", len(notes))
	}

	all, err := store.ListNotes(ctx, user.ID, true)
	if err != nil {
		t.Fatalf("ListNotes(all) failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 notes including archived, got %d", len(all))
	}

	onlyArchived, err := store.ListArchivedNotes(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListArchivedNotes failed: %v", err)
	}
	if len(onlyArchived) != 1 || onlyArchived[0].ID != archived.ID {
		t.Errorf("expected only the archived note, got %d notes", len(onlyArchived))
	}
}

func TestListPinnedNotes_ExcludesArchivedPins(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	note, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "pinned then archived", Content: "body", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	if err := store.SetNotePinned(ctx, note.ID, user.ID, true); err != nil {
		t.Fatalf("SetNotePinned failed: %v", err)
	}
	if err := store.SetNoteArchived(ctx, note.ID, user.ID, true); err != nil {
		t.Fatalf("SetNoteArchived failed: %v", err)
	}

	pinned, err := store.ListPinnedNotes(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListPinnedNotes failed: %v", err)
	}
	if len(pinned) != 0 {
		t.Errorf("expected no pinned notes, got %d", len(pinned))
	}
}

func TestRemoveNoteTag_KeepsTagRow(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	note, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "tagged", Content: "body", UserID: user.ID, Tags: []string{"solo"},
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if err := store.RemoveNoteTag(ctx, note.ID, user.ID, "solo"); err != nil {
		t.Fatalf("RemoveNoteTag failed: %v", err)
	}

	got, err := store.GetNote(ctx, note.ID, user.ID)
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("expected no tags on note, got %v", got.Tags)
	}
	// The tag row survives its last reference.
	if !store.TagExists(ctx, "solo") {
		t.Error("expected tag row to remain after last reference removed")
	}
}

func TestAddNoteTag_Idempotent(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	note, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "tagged", Content: "body", UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if err := store.AddNoteTag(ctx, note.ID, user.ID, "work"); err != nil {
		t.Fatalf("first AddNoteTag failed: %v", err)
	}
	if err := store.AddNoteTag(ctx, note.ID, user.ID, "Work"); err != nil {
		t.Fatalf("second AddNoteTag failed: %v", err)
	}

	if got := store.CountNoteTags(ctx, note.ID); got != 1 {
		t.Errorf("expected 1 note_tags row, got %d", got)
	}
}

func TestDeleteNote_CascadesTagLinks(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	note, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "doomed", Content: "body", UserID: user.ID, Tags: []string{"x", "y"},
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if err := store.DeleteNote(ctx, note.ID, user.ID); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}
	if got := store.CountNoteTags(ctx, note.ID); got != 0 {
		t.Errorf("expected junction rows to cascade, got %d", got)
	}
}

func TestDeleteCategory_ClearsNoteReference(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "work", "")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	note, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "report", Content: "body", UserID: user.ID, CategoryID: &cat.ID,
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if err := store.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	// The note survives with its category reference cleared.
	got, err := store.GetNote(ctx, note.ID, user.ID)
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("expected category_id cleared, got %v", *got.CategoryID)
	}
}

func TestAssignCategory_Clear(t *testing.T) {
	store, user := newTestStoreWithUser(t)
	defer store.Close()
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "work", "")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	note, err := store.CreateNote(ctx, storage.NoteParams{
		Title: "report", Content: "body", UserID: user.ID, CategoryID: &cat.ID,
	})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if err := store.AssignCategory(ctx, note.ID, user.ID, nil); err != nil {
		t.Fatalf("AssignCategory(nil) failed: %v", err)
	}

	got, err := store.GetNote(ctx, note.ID, user.ID)
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if got.CategoryID != nil {
		t.Error("expected category cleared")
	}
}
