package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteValidate(t *testing.T) {
	tests := []struct {
		name    string
		note    Note
		wantErr string
	}{
		{"typed", Note{ID: "1", Name: "Typed Note 1", Kind: NoteKindTyped, Content: "A"}, ""},
		{"empty content allowed", Note{ID: "1", Name: "Typed Note 1", Kind: NoteKindTyped}, ""},
		{"missing id", Note{Name: "x", Kind: NoteKindPDF}, "id failed on 'required'"},
		{"unknown kind", Note{ID: "1", Name: "x", Kind: "audio"}, "kind failed on 'oneof'"},
		{"handwritten data uri", Note{ID: "1", Name: "board.png", Kind: NoteKindHandwritten, Content: "data:image/png;base64,iVBORw0KGgo="}, ""},
		{"pdf data uri", Note{ID: "1", Name: "handout.pdf", Kind: NoteKindPDF, Content: "data:application/pdf;base64,JVBERi0xLjQ="}, ""},
		{"handwritten plain text", Note{ID: "1", Name: "board.png", Kind: NoteKindHandwritten, Content: "not a data uri"}, "content failed on 'datauri'"},
		{"pdf without payload", Note{ID: "1", Name: "handout.pdf", Kind: NoteKindPDF, Content: "data:application/pdf;base64,"}, "content failed on 'datauri'"},
		{"pdf empty content", Note{ID: "1", Name: "handout.pdf", Kind: NoteKindPDF}, "content failed on 'datauri'"},
		{"typed data uri allowed", Note{ID: "1", Name: "Typed Note 1", Kind: NoteKindTyped, Content: "data:text/plain;base64,QQ=="}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.note.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewBatch_CopiesNotes(t *testing.T) {
	notes := []Note{{ID: "1", Content: "A"}, {ID: "2", Content: "B"}}
	batch := NewBatch("b", notes)

	notes[0].Content = "changed"

	assert.Equal(t, "A", batch.Notes[0].Content)
	assert.Equal(t, 2, batch.Len())
	assert.Equal(t, 0, (*Batch)(nil).Len())
}

func TestTexts(t *testing.T) {
	results := []ExtractionResult{{Text: "a"}, {Text: "[Could not recognize: x]", Placeholder: true}, {Text: ""}}
	assert.Equal(t, []string{"a", "[Could not recognize: x]", ""}, Texts(results))
}

func TestLayoutCounts(t *testing.T) {
	layout := PageLayout{Pages: []Page{{Lines: make([]LinePlacement, 3)}, {Lines: make([]LinePlacement, 2)}}}
	assert.Equal(t, 5, layout.LineCount())

	opts := LayoutOptions{PageWidth: 200, Margin: 50}
	assert.Equal(t, 100.0, opts.ContentWidth())
}
