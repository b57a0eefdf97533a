package badger

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestNoteStorage_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	notes := newTestManager(t).NoteStorage()

	for i := 0; i < 5; i++ {
		require.NoError(t, notes.SaveNote(ctx, &models.Note{
			ID: fmt.Sprintf("note_%c", 'e'-i), Name: fmt.Sprintf("Typed Note %d", i+1),
			Kind: models.NoteKindTyped, Content: fmt.Sprint(i),
		}))
	}
	require.NoError(t, notes.DeleteNote(ctx, "note_c"))
	require.NoError(t, notes.SaveNote(ctx, &models.Note{ID: "note_z", Name: "late", Kind: models.NoteKindTyped, Content: "5"}))

	list, err := notes.ListNotes(ctx)
	require.NoError(t, err)

	var contents []string
	for _, n := range list {
		contents = append(contents, n.Content)
	}
	assert.Equal(t, []string{"0", "1", "3", "4", "5"}, contents)
	assert.False(t, list[0].CreatedAt.IsZero())

	count, err := notes.CountNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestNoteStorage_GetDeleteClear(t *testing.T) {
	ctx := context.Background()
	notes := newTestManager(t).NoteStorage()

	require.NoError(t, notes.SaveNote(ctx, &models.Note{ID: "n1", Name: "a", Kind: models.NoteKindTyped, Content: "x"}))
	require.NoError(t, notes.SaveNote(ctx, &models.Note{ID: "n2", Name: "b", Kind: models.NoteKindTyped, Content: "y"}))

	got, err := notes.GetNote(ctx, "n2")
	require.NoError(t, err)
	assert.Equal(t, "y", got.Content)

	_, err = notes.GetNote(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrNoteNotFound)
	assert.ErrorIs(t, notes.DeleteNote(ctx, "missing"), interfaces.ErrNoteNotFound)

	removed, err := notes.ClearNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list, err := notes.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDocumentStorage(t *testing.T) {
	ctx := context.Background()
	docs := newTestManager(t).DocumentStorage()
	now := time.Now()

	for i, age := range []time.Duration{72 * time.Hour, time.Hour, 10 * 24 * time.Hour} {
		require.NoError(t, docs.SaveDocument(ctx, &models.MergedDocument{
			ID:        fmt.Sprintf("doc_%d", i),
			Text:      "merged",
			PDF:       []byte("%PDF-1.3"),
			CreatedAt: now.Add(-age),
		}))
	}

	got, err := docs.GetDocument(ctx, "doc_1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), got.PDF)

	list, err := docs.ListDocuments(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "doc_1", list[0].ID)
	assert.Equal(t, "doc_2", list[2].ID)

	limited, err := docs.ListDocuments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "doc_1", limited[0].ID)

	removed, err := docs.DeleteDocumentsBefore(ctx, now.Add(-48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = docs.GetDocument(ctx, "doc_0")
	assert.ErrorIs(t, err, interfaces.ErrDocumentNotFound)
	assert.ErrorIs(t, docs.DeleteDocument(ctx, "doc_0"), interfaces.ErrDocumentNotFound)
	require.NoError(t, docs.DeleteDocument(ctx, "doc_1"))
}

func TestKVStorage(t *testing.T) {
	ctx := context.Background()
	kv := newTestManager(t).KeyValueStorage()

	require.NoError(t, kv.Set(ctx, " Gemini_API_Key ", "secret", "Gemini key"))
	require.NoError(t, kv.Set(ctx, "anthropic_api_key", "other", ""))

	value, err := kv.Get(ctx, "GEMINI_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "secret", value)

	pairs, err := kv.List(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "anthropic_api_key", pairs[0].Key)
	assert.Equal(t, "gemini_api_key", pairs[1].Key)

	require.NoError(t, kv.Delete(ctx, "gemini_api_key"))
	_, err = kv.Get(ctx, "gemini_api_key")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
	assert.ErrorIs(t, kv.Delete(ctx, "gemini_api_key"), interfaces.ErrKeyNotFound)
	assert.Error(t, kv.Set(ctx, "  ", "v", ""))
}

func TestNewManager_ResetOnStartup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db")

	m, err := NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, m.KeyValueStorage().Set(ctx, "k", "v", ""))
	require.NoError(t, m.Close())

	m, err = NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: path, ResetOnStartup: true})
	require.NoError(t, err)
	defer m.Close()

	_, err = m.KeyValueStorage().Get(ctx, "k")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}
