// Package merge gates a batch of notes, extracts every note concurrently and
// asks the merge capability to combine the results.
package merge

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
)

// SourceExtractor converts one note to text and never fails.
type SourceExtractor interface {
	Extract(ctx context.Context, note models.Note) models.ExtractionResult
}

// Outcome is the result of a successful run.
type Outcome struct {
	Text         string
	Results      []models.ExtractionResult
	Placeholders int
}

// Orchestrator runs the gates, the extraction fan-out and the merge call.
type Orchestrator struct {
	extractor      SourceExtractor
	merger         interfaces.NoteMerger
	status         interfaces.ServiceStatus
	maxConcurrency int
	logger         arbor.ILogger
}

// NewOrchestrator creates an orchestrator. maxConcurrency <= 0 extracts every
// note at once.
func NewOrchestrator(
	extractor SourceExtractor,
	merger interfaces.NoteMerger,
	status interfaces.ServiceStatus,
	maxConcurrency int,
	logger arbor.ILogger,
) *Orchestrator {
	return &Orchestrator{
		extractor:      extractor,
		merger:         merger,
		status:         status,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// Run merges the notes in batch. Every failure is returned as a *Rejection.
// The batch is never modified.
func (o *Orchestrator) Run(ctx context.Context, batch *models.Batch) (*Outcome, error) {
	if rej := CheckBatch(batch); rej != nil {
		o.logRejection(batch, rej)
		return nil, rej
	}
	if rej := CheckService(o.status.Configured()); rej != nil {
		o.logRejection(batch, rej)
		return nil, rej
	}

	start := time.Now()
	results, err := o.extractAll(ctx, batch.Notes)
	if err != nil {
		rej := &Rejection{Reason: ReasonMergeFailed, Message: MessageMergeFailedPrefix + err.Error(), Err: err}
		o.logRejection(batch, rej)
		return nil, rej
	}

	placeholders := 0
	for _, r := range results {
		if r.Placeholder {
			placeholders++
		}
	}

	o.logger.Info().
		Str("batch_id", batch.ID).
		Int("notes", len(results)).
		Int("placeholders", placeholders).
		Int("non_blank", CountNonBlank(results)).
		Dur("duration", time.Since(start)).
		Msg("Extraction complete")

	if rej := CheckContent(results); rej != nil {
		o.logRejection(batch, rej)
		return nil, rej
	}

	merged, err := o.merger.MergeNotes(ctx, models.Texts(results))
	if err == nil && strings.TrimSpace(merged) == "" {
		err = &interfaces.CapabilityError{Capability: interfaces.CapabilityMerge, Kind: interfaces.ErrorKindEmptyResponse}
	}
	if err != nil {
		rej := mergeRejection(err)
		o.logRejection(batch, rej)
		return nil, rej
	}

	return &Outcome{
		Text:         merged,
		Results:      results,
		Placeholders: placeholders,
	}, nil
}

// extractAll runs the extractor for every note concurrently. results[i]
// always belongs to notes[i]. A panic in any extraction fails the run.
func (o *Orchestrator) extractAll(ctx context.Context, notes []models.Note) ([]models.ExtractionResult, error) {
	results := make([]models.ExtractionResult, len(notes))

	var g errgroup.Group
	if o.maxConcurrency > 0 {
		g.SetLimit(o.maxConcurrency)
	}

	for i, note := range notes {
		g.Go(func() (err error) {
			defer func() {
				if p := common.RecoverPanic(recover()); p != nil {
					o.logger.Error().
						Str("note_id", note.ID).
						Str("panic", p.Error()).
						Str("stack", p.Stack).
						Msg("Recovered from panic during extraction")
					err = p
				}
			}()
			results[i] = o.extractor.Extract(ctx, note)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func mergeRejection(err error) *Rejection {
	if interfaces.ErrorKindOf(err) == interfaces.ErrorKindInvalidCredentials {
		return &Rejection{Reason: ReasonInvalidCredentials, Message: MessageInvalidCredentials, Err: err}
	}
	return &Rejection{Reason: ReasonMergeFailed, Message: MessageMergeFailedPrefix + err.Error(), Err: err}
}

func (o *Orchestrator) logRejection(batch *models.Batch, rej *Rejection) {
	event := o.logger.Warn()
	if rej.Reason == ReasonNoNotes || rej.Reason == ReasonEmptyBatch || rej.Reason == ReasonTooFewNotes {
		event = o.logger.Info()
	}
	if rej.Err != nil {
		event = event.Err(rej.Err)
	}
	event.
		Int("notes", batch.Len()).
		Str("reason", rej.Reason.String()).
		Msg("Merge rejected")
}
