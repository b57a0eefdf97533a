// Package pipeline runs a batch of notes through merge, illustration,
// layout and rendering, and reports the outcome as a models.MergeResult.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/compose"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/merge"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/pdf"
)

const pdfMIMEType = "application/pdf"

// Pipeline is the root of a merge run.
type Pipeline struct {
	orchestrator  *merge.Orchestrator
	visual        interfaces.VisualGenerator
	composer      *compose.Composer
	renderer      interfaces.DocumentRenderer
	documents     interfaces.DocumentStorage
	stripMarkdown bool
	logger        arbor.ILogger
}

// Options holds the optional collaborators of a Pipeline.
type Options struct {
	// Visual is skipped when nil
	Visual interfaces.VisualGenerator
	// Documents stores successful runs when non-nil
	Documents     interfaces.DocumentStorage
	StripMarkdown bool
}

// New creates a pipeline.
func New(
	orchestrator *merge.Orchestrator,
	composer *compose.Composer,
	renderer interfaces.DocumentRenderer,
	opts Options,
	logger arbor.ILogger,
) *Pipeline {
	return &Pipeline{
		orchestrator:  orchestrator,
		visual:        opts.Visual,
		composer:      composer,
		renderer:      renderer,
		documents:     opts.Documents,
		stripMarkdown: opts.StripMarkdown,
		logger:        logger,
	}
}

// Merge runs the batch and converts every failure, including panics, into an
// unsuccessful MergeResult carrying one message.
func (p *Pipeline) Merge(ctx context.Context, batch *models.Batch) (result models.MergeResult) {
	defer func() {
		if pe := common.RecoverPanic(recover()); pe != nil {
			p.logger.Error().
				Str("panic", pe.Error()).
				Str("stack", pe.Stack).
				Msg("Recovered from panic in merge pipeline")
			result = models.MergeResult{Message: merge.MessageMergeFailedPrefix + pe.Error()}
		}
	}()

	doc, err := p.Run(ctx, batch)
	if err != nil {
		var rej *merge.Rejection
		if errors.As(err, &rej) {
			return models.MergeResult{Message: rej.Message}
		}
		return models.MergeResult{Message: merge.MessageMergeFailedPrefix + err.Error()}
	}

	return models.MergeResult{
		Success:    true,
		Message:    merge.MessageSuccess,
		Data:       common.EncodeDataURI(pdfMIMEType, doc.PDF),
		DocumentID: doc.ID,
	}
}

// Run produces the merged document for batch. Failures are *merge.Rejection.
func (p *Pipeline) Run(ctx context.Context, batch *models.Batch) (*models.MergedDocument, error) {
	start := time.Now()

	outcome, err := p.orchestrator.Run(ctx, batch)
	if err != nil {
		return nil, err
	}

	text := outcome.Text
	if p.stripMarkdown {
		text = compose.PlainText(text)
	}

	image, err := p.illustrate(ctx, text)
	if err != nil {
		return nil, documentRejection(err)
	}

	layout := p.composer.Compose(text, image)
	data, err := p.renderer.Render(ctx, layout)
	if err != nil {
		return nil, documentRejection(err)
	}

	doc := &models.MergedDocument{
		ID:               common.NewDocumentID(),
		BatchID:          batch.ID,
		Text:             text,
		PDF:              data,
		PageCount:        len(layout.Pages),
		NoteCount:        batch.Len(),
		PlaceholderCount: outcome.Placeholders,
		HasImage:         image != nil,
		CreatedAt:        time.Now(),
	}

	if p.documents != nil {
		if err := p.documents.SaveDocument(ctx, doc); err != nil {
			// The document is still returned to the caller
			p.logger.Warn().Err(err).Str("document_id", doc.ID).Msg("Failed to store merged document")
		}
	}

	p.logger.Info().
		Str("batch_id", batch.ID).
		Str("document_id", doc.ID).
		Int("notes", doc.NoteCount).
		Int("placeholders", doc.PlaceholderCount).
		Int("pages", doc.PageCount).
		Bool("image", doc.HasImage).
		Dur("duration", time.Since(start)).
		Msg("Merged document generated")

	return doc, nil
}

// illustrate asks the visual capability for an image. It returns nil without
// error when no visual capability is configured.
func (p *Pipeline) illustrate(ctx context.Context, text string) (*models.RasterImage, error) {
	if p.visual == nil {
		return nil, nil
	}
	data, mimeType, err := p.visual.GenerateVisual(ctx, text)
	if err != nil {
		return nil, err
	}
	image, err := pdf.DecodeImage(data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("illustration: %w", err)
	}
	return image, nil
}

func documentRejection(err error) *merge.Rejection {
	if interfaces.ErrorKindOf(err) == interfaces.ErrorKindInvalidCredentials {
		return &merge.Rejection{Reason: merge.ReasonInvalidCredentials, Message: merge.MessageInvalidCredentials, Err: err}
	}
	return &merge.Rejection{
		Reason:  merge.ReasonDocumentFailed,
		Message: merge.MessageDocumentFailedPrefix + err.Error(),
		Err:     err,
	}
}
