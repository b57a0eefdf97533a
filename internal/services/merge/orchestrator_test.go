package merge

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

type MockMerger struct {
	mock.Mock
}

func (m *MockMerger) MergeNotes(ctx context.Context, notes []string) (string, error) {
	args := m.Called(ctx, notes)
	return args.String(0), args.Error(1)
}

type staticStatus bool

func (s staticStatus) Configured() bool { return bool(s) }

// funcExtractor adapts a function to SourceExtractor and counts calls.
type funcExtractor struct {
	calls atomic.Int32
	fn    func(note models.Note) models.ExtractionResult
}

func (f *funcExtractor) Extract(_ context.Context, note models.Note) models.ExtractionResult {
	f.calls.Add(1)
	return f.fn(note)
}

func passthrough() *funcExtractor {
	return &funcExtractor{fn: func(note models.Note) models.ExtractionResult {
		return models.ExtractionResult{NoteID: note.ID, Text: note.Content}
	}}
}

func typedBatch(contents ...string) *models.Batch {
	notes := make([]models.Note, len(contents))
	for i, c := range contents {
		notes[i] = models.Note{ID: fmt.Sprintf("n%d", i), Name: fmt.Sprintf("Typed Note %d", i+1), Kind: models.NoteKindTyped, Content: c}
	}
	return models.NewBatch("batch_test", notes)
}

func requireRejection(t *testing.T, err error) *Rejection {
	t.Helper()
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	return rej
}

func TestRun_TooFewNotesMakesNoCalls(t *testing.T) {
	for _, batch := range []*models.Batch{nil, typedBatch(), typedBatch("only")} {
		extractor := passthrough()
		merger := new(MockMerger)
		o := NewOrchestrator(extractor, merger, staticStatus(true), 0, arbor.NewLogger())

		outcome, err := o.Run(context.Background(), batch)

		assert.Nil(t, outcome)
		rej := requireRejection(t, err)
		assert.Contains(t, []Reason{ReasonNoNotes, ReasonEmptyBatch, ReasonTooFewNotes}, rej.Reason)
		assert.Equal(t, int32(0), extractor.calls.Load())
		merger.AssertNotCalled(t, "MergeNotes", mock.Anything, mock.Anything)
	}
}

func TestRun_NotConfigured(t *testing.T) {
	extractor := passthrough()
	merger := new(MockMerger)
	o := NewOrchestrator(extractor, merger, staticStatus(false), 0, arbor.NewLogger())

	_, err := o.Run(context.Background(), typedBatch("A", "B"))

	rej := requireRejection(t, err)
	assert.Equal(t, ReasonNotConfigured, rej.Reason)
	assert.Equal(t, MessageNotConfigured, err.Error())
	assert.Equal(t, int32(0), extractor.calls.Load())
	merger.AssertNotCalled(t, "MergeNotes", mock.Anything, mock.Anything)
}

func TestRun_Success(t *testing.T) {
	merger := new(MockMerger)
	merger.On("MergeNotes", mock.Anything, []string{"A", "B"}).Return("AB", nil)
	o := NewOrchestrator(passthrough(), merger, staticStatus(true), 0, arbor.NewLogger())

	outcome, err := o.Run(context.Background(), typedBatch("A", "B"))

	require.NoError(t, err)
	assert.Equal(t, "AB", outcome.Text)
	assert.Len(t, outcome.Results, 2)
	assert.Equal(t, 0, outcome.Placeholders)
	merger.AssertExpectations(t)
}

func TestRun_InsufficientContent(t *testing.T) {
	merger := new(MockMerger)
	o := NewOrchestrator(passthrough(), merger, staticStatus(true), 0, arbor.NewLogger())

	_, err := o.Run(context.Background(), typedBatch("hello", "   "))

	rej := requireRejection(t, err)
	assert.Equal(t, ReasonInsufficientContent, rej.Reason)
	assert.Equal(t, "Not enough content to merge after processing. Please check your notes.", err.Error())
	merger.AssertNotCalled(t, "MergeNotes", mock.Anything, mock.Anything)
}

func TestRun_PlaceholderCountsAsContent(t *testing.T) {
	extractor := &funcExtractor{fn: func(note models.Note) models.ExtractionResult {
		if note.ID == "n0" {
			return models.ExtractionResult{NoteID: note.ID, Text: "[Could not recognize: img1]", Placeholder: true}
		}
		return models.ExtractionResult{NoteID: note.ID, Text: note.Content}
	}}
	merger := new(MockMerger)
	merger.On("MergeNotes", mock.Anything, []string{"[Could not recognize: img1]", "hello"}).Return("merged", nil)
	o := NewOrchestrator(extractor, merger, staticStatus(true), 0, arbor.NewLogger())

	outcome, err := o.Run(context.Background(), typedBatch("ignored", "hello"))

	require.NoError(t, err)
	assert.Equal(t, "merged", outcome.Text)
	assert.Equal(t, 1, outcome.Placeholders)
	merger.AssertExpectations(t)
}

func TestRun_PreservesOrder(t *testing.T) {
	const n = 24
	contents := make([]string, n)
	for i := range contents {
		contents[i] = fmt.Sprintf("note-%02d", i)
	}

	extractor := &funcExtractor{fn: func(note models.Note) models.ExtractionResult {
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
		if rand.Intn(3) == 0 {
			return models.ExtractionResult{NoteID: note.ID, Text: "[Could not recognize: " + note.Content + "]", Placeholder: true}
		}
		return models.ExtractionResult{NoteID: note.ID, Text: note.Content}
	}}

	var got []string
	merger := new(MockMerger)
	merger.On("MergeNotes", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).([]string) }).
		Return("merged", nil)

	o := NewOrchestrator(extractor, merger, staticStatus(true), 4, arbor.NewLogger())
	outcome, err := o.Run(context.Background(), typedBatch(contents...))

	require.NoError(t, err)
	require.Len(t, got, n)
	for i, text := range got {
		assert.Contains(t, text, contents[i])
		assert.Equal(t, fmt.Sprintf("n%d", i), outcome.Results[i].NoteID)
	}
	assert.Equal(t, int32(n), extractor.calls.Load())
}

func TestRun_InvalidCredentials(t *testing.T) {
	merger := new(MockMerger)
	merger.On("MergeNotes", mock.Anything, mock.Anything).Return("", &interfaces.CapabilityError{
		Capability: interfaces.CapabilityMerge,
		Kind:       interfaces.ErrorKindInvalidCredentials,
		Err:        errors.New("API key not valid. Please pass a valid API key."),
	})
	o := NewOrchestrator(passthrough(), merger, staticStatus(true), 0, arbor.NewLogger())

	_, err := o.Run(context.Background(), typedBatch("A", "B"))

	rej := requireRejection(t, err)
	assert.Equal(t, ReasonInvalidCredentials, rej.Reason)
	assert.Equal(t, MessageInvalidCredentials, err.Error())
	assert.Equal(t, interfaces.ErrorKindInvalidCredentials, interfaces.ErrorKindOf(err))
}

func TestRun_MergeFailure(t *testing.T) {
	merger := new(MockMerger)
	merger.On("MergeNotes", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))
	o := NewOrchestrator(passthrough(), merger, staticStatus(true), 0, arbor.NewLogger())

	_, err := o.Run(context.Background(), typedBatch("A", "B"))

	rej := requireRejection(t, err)
	assert.Equal(t, ReasonMergeFailed, rej.Reason)
	assert.Equal(t, "Failed to merge notes: quota exceeded", err.Error())
}

func TestRun_EmptyMergeIsFailure(t *testing.T) {
	merger := new(MockMerger)
	merger.On("MergeNotes", mock.Anything, mock.Anything).Return("  \n", nil)
	o := NewOrchestrator(passthrough(), merger, staticStatus(true), 0, arbor.NewLogger())

	_, err := o.Run(context.Background(), typedBatch("A", "B"))

	rej := requireRejection(t, err)
	assert.Equal(t, ReasonMergeFailed, rej.Reason)
	assert.Equal(t, interfaces.ErrorKindEmptyResponse, interfaces.ErrorKindOf(err))
}

func TestRun_ExtractionPanic(t *testing.T) {
	extractor := &funcExtractor{fn: func(note models.Note) models.ExtractionResult {
		if note.ID == "n1" {
			panic("decoder exploded")
		}
		return models.ExtractionResult{NoteID: note.ID, Text: note.Content}
	}}
	merger := new(MockMerger)
	o := NewOrchestrator(extractor, merger, staticStatus(true), 0, arbor.NewLogger())

	_, err := o.Run(context.Background(), typedBatch("A", "B", "C"))

	rej := requireRejection(t, err)
	assert.Equal(t, ReasonMergeFailed, rej.Reason)
	assert.Contains(t, err.Error(), "decoder exploded")
	merger.AssertNotCalled(t, "MergeNotes", mock.Anything, mock.Anything)
}

func TestRun_DoesNotModifyBatch(t *testing.T) {
	merger := new(MockMerger)
	merger.On("MergeNotes", mock.Anything, mock.Anything).Return("AB", nil)
	o := NewOrchestrator(passthrough(), merger, staticStatus(true), 0, arbor.NewLogger())
	batch := typedBatch("A", "B")

	_, err := o.Run(context.Background(), batch)

	require.NoError(t, err)
	assert.Equal(t, 2, batch.Len())
	assert.Equal(t, "A", batch.Notes[0].Content)
}
