package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/models"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/compose"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/extraction"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/llm"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/merge"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/pdf"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/services/pipeline"
)

// Engine is the merge pipeline together with the pieces other entry points
// reuse on their own.
type Engine struct {
	Capabilities *llm.Capabilities
	Extractor    *extraction.Extractor
	Pipeline     *pipeline.Pipeline
}

// LayoutOptions converts [document] into composer options
func LayoutOptions(cfg common.DocumentConfig) models.LayoutOptions {
	return models.LayoutOptions{
		PageWidth:  cfg.PageWidth,
		PageHeight: cfg.PageHeight,
		Margin:     cfg.Margin,
		FontFamily: cfg.FontFamily,
		FontSize:   cfg.FontSize,
		LineHeight: cfg.LineHeight,
		ImageScale: cfg.ImageScale,
		ImageGap:   cfg.ImageGap,
	}
}

// NewEngine wires capabilities, extraction, merge, layout and rendering from
// configuration. kvStorage and documents may be nil.
func NewEngine(cfg *common.Config, kvStorage interfaces.KeyValueStorage, documents interfaces.DocumentStorage, logger arbor.ILogger) (*Engine, error) {
	caps, err := llm.NewCapabilities(cfg, kvStorage, pdf.NewExtractor(logger), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure AI capabilities: %w", err)
	}

	layout := LayoutOptions(cfg.Document)
	family, ok := pdf.CoreFamily(layout.FontFamily)
	if !ok {
		logger.Warn().
			Str("font_family", layout.FontFamily).
			Str("using", family).
			Msg("Font family is not a PDF core font")
	}
	layout.FontFamily = family

	composer, err := compose.NewComposer(pdf.NewMeasurer(), layout)
	if err != nil {
		return nil, fmt.Errorf("invalid [document] settings: %w", err)
	}

	extractor := extraction.NewExtractor(caps.Recognizer, caps.PDF, logger)
	orchestrator := merge.NewOrchestrator(extractor, caps.Merger, caps, cfg.Extraction.MaxConcurrency, logger)

	opts := pipeline.Options{
		Visual:        caps.Visual,
		Documents:     documents,
		StripMarkdown: cfg.Document.StripMarkdown,
	}

	return &Engine{
		Capabilities: caps,
		Extractor:    extractor,
		Pipeline:     pipeline.New(orchestrator, composer, pdf.NewRenderer(logger, cfg.Document.Title), opts, logger),
	}, nil
}
