package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
)

// Capabilities is the set of external operations the pipeline uses, each
// bound to the provider selected in [llm].
type Capabilities struct {
	Recognizer interfaces.HandwritingRecognizer
	PDF        interfaces.PDFTextExtractor
	Merger     interfaces.NoteMerger
	// Visual is nil when illustrations are disabled
	Visual interfaces.VisualGenerator

	factory       *ProviderFactory
	mergeProvider common.LLMProvider
}

// Compile-time assertion
var _ interfaces.ServiceStatus = (*Capabilities)(nil)

// NewCapabilities builds provider services from configuration. localPDF is
// used when [pdf] backend is "local" and may be nil otherwise.
func NewCapabilities(cfg *common.Config, kvStorage interfaces.KeyValueStorage, localPDF interfaces.PDFTextExtractor, logger arbor.ILogger) (*Capabilities, error) {
	factory := NewProviderFactory(&cfg.Gemini, &cfg.Claude, kvStorage, logger)
	gemini := NewGeminiService(factory, &cfg.Gemini, logger)
	claude := NewClaudeService(factory, &cfg.Claude, logger)

	pick := func(capability string, provider common.LLMProvider) (textProvider, error) {
		switch provider {
		case common.LLMProviderGemini, "":
			return gemini, nil
		case common.LLMProviderClaude:
			return claude, nil
		default:
			return nil, fmt.Errorf("unknown %s provider %q: must be 'gemini' or 'claude'", capability, provider)
		}
	}

	recognizer, err := pick("recognition", cfg.LLM.Recognition)
	if err != nil {
		return nil, err
	}
	merger, err := pick("merge", cfg.LLM.Merge)
	if err != nil {
		return nil, err
	}

	var pdfExtractor interfaces.PDFTextExtractor
	switch cfg.PDF.Backend {
	case "local":
		if localPDF == nil {
			return nil, fmt.Errorf("pdf backend 'local' requires a local extractor")
		}
		pdfExtractor = localPDF
	case "llm", "":
		p, err := pick("pdf_extraction", cfg.LLM.PDFExtraction)
		if err != nil {
			return nil, err
		}
		pdfExtractor = p
	default:
		return nil, fmt.Errorf("unknown pdf backend %q: must be 'llm' or 'local'", cfg.PDF.Backend)
	}

	caps := &Capabilities{
		Recognizer:    recognizer,
		PDF:           pdfExtractor,
		Merger:        merger,
		factory:       factory,
		mergeProvider: cfg.LLM.Merge,
	}
	if cfg.Document.Visual {
		caps.Visual = gemini
	}

	logger.Info().
		Str("recognition", providerName(cfg.LLM.Recognition)).
		Str("pdf_extraction", pdfBackendName(cfg)).
		Str("merge", providerName(cfg.LLM.Merge)).
		Bool("visual", caps.Visual != nil).
		Msg("AI capabilities configured")

	if caps.Visual != nil && !factory.HasKey(context.Background(), common.LLMProviderGemini) {
		logger.Warn().Msg("Illustrations are enabled but no Gemini API key resolves; merges will be rejected until one is set or document.visual is false")
	}

	return caps, nil
}

// textProvider is implemented by both provider services.
type textProvider interface {
	interfaces.HandwritingRecognizer
	interfaces.PDFTextExtractor
	interfaces.NoteMerger
}

// Configured reports whether every provider a successful run depends on has
// an API key: the merge provider, and Gemini when illustrations are enabled.
// Recognition and PDF extraction failures only produce placeholders, so their
// providers are not required here.
func (c *Capabilities) Configured() bool {
	ctx := context.Background()
	if !c.factory.HasKey(ctx, c.mergeProvider) {
		return false
	}
	if c.Visual != nil && !c.factory.HasKey(ctx, common.LLMProviderGemini) {
		return false
	}
	return true
}

func providerName(p common.LLMProvider) string {
	if p == "" {
		return string(common.LLMProviderGemini)
	}
	return string(p)
}

func pdfBackendName(cfg *common.Config) string {
	if cfg.PDF.Backend == "local" {
		return "local"
	}
	return providerName(cfg.LLM.PDFExtraction)
}
