package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) RecognizeHandwriting(ctx context.Context, image []byte, mimeType string) (string, error) {
	args := m.Called(ctx, image, mimeType)
	return args.String(0), args.Error(1)
}

type MockPDFExtractor struct {
	mock.Mock
}

func (m *MockPDFExtractor) ExtractPDFText(ctx context.Context, pdf []byte) (string, error) {
	args := m.Called(ctx, pdf)
	return args.String(0), args.Error(1)
}

func TestExtract_Typed(t *testing.T) {
	recognizer := new(MockRecognizer)
	pdfExtractor := new(MockPDFExtractor)
	extractor := NewExtractor(recognizer, pdfExtractor, arbor.NewLogger())

	result := extractor.Extract(context.Background(), models.Note{ID: "n1", Name: "Typed Note 1", Kind: models.NoteKindTyped, Content: "  keep  spacing \n"})

	assert.Equal(t, "  keep  spacing \n", result.Text)
	assert.False(t, result.Placeholder)
	assert.Equal(t, "n1", result.NoteID)
	recognizer.AssertNotCalled(t, "RecognizeHandwriting", mock.Anything, mock.Anything, mock.Anything)
	pdfExtractor.AssertNotCalled(t, "ExtractPDFText", mock.Anything, mock.Anything)
}

func TestExtract_Handwritten(t *testing.T) {
	recognizer := new(MockRecognizer)
	extractor := NewExtractor(recognizer, new(MockPDFExtractor), arbor.NewLogger())
	image := []byte{0x89, 'P', 'N', 'G'}

	recognizer.On("RecognizeHandwriting", mock.Anything, image, "image/png").Return("the krebs cycle", nil)

	result := extractor.Extract(context.Background(), models.Note{
		ID: "n2", Name: "page1.png", Kind: models.NoteKindHandwritten,
		Content: common.EncodeDataURI("image/png", image),
	})

	assert.Equal(t, "the krebs cycle", result.Text)
	assert.False(t, result.Placeholder)
	recognizer.AssertExpectations(t)
}

func TestExtract_HandwrittenFailure(t *testing.T) {
	recognizer := new(MockRecognizer)
	extractor := NewExtractor(recognizer, new(MockPDFExtractor), arbor.NewLogger())

	recognizer.On("RecognizeHandwriting", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("model overloaded"))

	result := extractor.Extract(context.Background(), models.Note{
		ID: "n3", Name: "blurry.jpg", Kind: models.NoteKindHandwritten,
		Content: common.EncodeDataURI("image/jpeg", []byte("jpeg")),
	})

	assert.Equal(t, "[Could not recognize: blurry.jpg]", result.Text)
	assert.True(t, result.Placeholder)
}

func TestExtract_PDF(t *testing.T) {
	pdfExtractor := new(MockPDFExtractor)
	extractor := NewExtractor(new(MockRecognizer), pdfExtractor, arbor.NewLogger())
	doc := []byte("%PDF-1.4")

	pdfExtractor.On("ExtractPDFText", mock.Anything, doc).Return("lecture slides", nil)

	result := extractor.Extract(context.Background(), models.Note{
		ID: "n4", Name: "slides.pdf", Kind: models.NoteKindPDF,
		Content: common.EncodeDataURI("application/pdf", doc),
	})

	assert.Equal(t, "lecture slides", result.Text)
	pdfExtractor.AssertExpectations(t)
}

func TestExtract_PDFFailure(t *testing.T) {
	pdfExtractor := new(MockPDFExtractor)
	extractor := NewExtractor(new(MockRecognizer), pdfExtractor, arbor.NewLogger())

	pdfExtractor.On("ExtractPDFText", mock.Anything, mock.Anything).Return("", errors.New("encrypted"))

	result := extractor.Extract(context.Background(), models.Note{
		ID: "n5", Name: "locked.pdf", Kind: models.NoteKindPDF,
		Content: common.EncodeDataURI("application/pdf", []byte("%PDF")),
	})

	assert.Equal(t, "[Could not extract text from PDF: locked.pdf]", result.Text)
	assert.True(t, result.Placeholder)
}

func TestExtract_InvalidDataURIBecomesPlaceholder(t *testing.T) {
	recognizer := new(MockRecognizer)
	pdfExtractor := new(MockPDFExtractor)
	extractor := NewExtractor(recognizer, pdfExtractor, arbor.NewLogger())

	hw := extractor.Extract(context.Background(), models.Note{ID: "a", Name: "a.png", Kind: models.NoteKindHandwritten, Content: "not a data uri"})
	pdf := extractor.Extract(context.Background(), models.Note{ID: "b", Name: "b.pdf", Kind: models.NoteKindPDF, Content: "data:application/pdf;base64,"})

	assert.Equal(t, "[Could not recognize: a.png]", hw.Text)
	assert.Equal(t, "[Could not extract text from PDF: b.pdf]", pdf.Text)
	recognizer.AssertNotCalled(t, "RecognizeHandwriting", mock.Anything, mock.Anything, mock.Anything)
	pdfExtractor.AssertNotCalled(t, "ExtractPDFText", mock.Anything, mock.Anything)
}

func TestExtract_UnknownKind(t *testing.T) {
	extractor := NewExtractor(new(MockRecognizer), new(MockPDFExtractor), arbor.NewLogger())

	result := extractor.Extract(context.Background(), models.Note{ID: "x", Name: "audio.mp3", Kind: "audio", Content: "..."})

	assert.Equal(t, "[Unsupported note type: audio.mp3]", result.Text)
	assert.True(t, result.Placeholder)
}
