package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

func TestCheckBatch(t *testing.T) {
	tests := []struct {
		name    string
		batch   *models.Batch
		reason  Reason
		message string
	}{
		{"nil batch", nil, ReasonNoNotes, "No notes provided."},
		{"no notes", models.NewBatch("b", nil), ReasonEmptyBatch, "Please add at least one note to merge."},
		{"one note", models.NewBatch("b", []models.Note{{ID: "n1"}}), ReasonTooFewNotes, "Please add more than one note to merge."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rej := CheckBatch(tt.batch)
			require.NotNil(t, rej)
			assert.Equal(t, tt.reason, rej.Reason)
			assert.Equal(t, tt.message, rej.Error())
		})
	}

	assert.Nil(t, CheckBatch(models.NewBatch("b", []models.Note{{ID: "n1"}, {ID: "n2"}})))
}

func TestCheckService(t *testing.T) {
	assert.Nil(t, CheckService(true))

	rej := CheckService(false)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonNotConfigured, rej.Reason)
	assert.Equal(t, MessageNotConfigured, rej.Message)
}

func TestCheckContent(t *testing.T) {
	results := func(texts ...string) []models.ExtractionResult {
		out := make([]models.ExtractionResult, len(texts))
		for i, text := range texts {
			out[i] = models.ExtractionResult{Text: text}
		}
		return out
	}

	assert.Equal(t, 0, CountNonBlank(results("", "  ", "\n\t")))
	assert.Equal(t, 2, CountNonBlank(results("a", " ", "[Could not recognize: x.png]")))

	rej := CheckContent(results("hello", "   "))
	require.NotNil(t, rej)
	assert.Equal(t, ReasonInsufficientContent, rej.Reason)
	assert.Equal(t, MessageInsufficientContent, rej.Error())

	assert.Nil(t, CheckContent(results("[Could not recognize: img1]", "hello")))
}
