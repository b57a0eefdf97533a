package llm

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
)

// GeminiService implements every capability with the Gemini API.
type GeminiService struct {
	factory *ProviderFactory
	config  *common.GeminiConfig
	retry   *RetryConfig
	timeout time.Duration
	logger  arbor.ILogger
}

// Compile-time interface assertions
var (
	_ interfaces.HandwritingRecognizer = (*GeminiService)(nil)
	_ interfaces.PDFTextExtractor      = (*GeminiService)(nil)
	_ interfaces.NoteMerger            = (*GeminiService)(nil)
	_ interfaces.VisualGenerator       = (*GeminiService)(nil)
)

// NewGeminiService creates a Gemini-backed capability service
func NewGeminiService(factory *ProviderFactory, config *common.GeminiConfig, logger arbor.ILogger) *GeminiService {
	return &GeminiService{
		factory: factory,
		config:  config,
		retry:   NewRetryConfig(config.MaxRetries),
		timeout: common.ParseDurationOr(config.Timeout, 2*time.Minute),
		logger:  logger,
	}
}

// RecognizeHandwriting transcribes a photo of handwritten notes
func (s *GeminiService) RecognizeHandwriting(ctx context.Context, image []byte, mimeType string) (string, error) {
	return s.generateText(ctx, interfaces.CapabilityHandwriting, []*genai.Part{
		genai.NewPartFromText(handwritingPrompt),
		genai.NewPartFromBytes(image, mimeType),
	})
}

// ExtractPDFText reads the text of a PDF document
func (s *GeminiService) ExtractPDFText(ctx context.Context, pdf []byte) (string, error) {
	return s.generateText(ctx, interfaces.CapabilityPDFText, []*genai.Part{
		genai.NewPartFromText(pdfPrompt),
		genai.NewPartFromBytes(pdf, "application/pdf"),
	})
}

// MergeNotes combines note texts into one organized document
func (s *GeminiService) MergeNotes(ctx context.Context, notes []string) (string, error) {
	return s.generateText(ctx, interfaces.CapabilityMerge, []*genai.Part{
		genai.NewPartFromText(BuildMergePrompt(notes)),
	})
}

// GenerateVisual asks the image model for a header illustration and returns
// the first inline image in the response
func (s *GeminiService) GenerateVisual(ctx context.Context, notes string) ([]byte, string, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := s.generate(ctx, interfaces.CapabilityVisual, s.config.ImageModel, []*genai.Part{
		genai.NewPartFromText(BuildVisualPrompt(notes)),
	}, config)
	if err != nil {
		return nil, "", err
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, part.InlineData.MIMEType, nil
			}
		}
	}

	return nil, "", emptyResponse(interfaces.CapabilityVisual, "Gemini")
}

func (s *GeminiService) generateText(ctx context.Context, capability interfaces.Capability, parts []*genai.Part) (string, error) {
	resp, err := s.generate(ctx, capability, s.config.Model, parts, nil)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", emptyResponse(capability, "Gemini")
	}
	return text, nil
}

func (s *GeminiService) generate(ctx context.Context, capability interfaces.Capability, model string, parts []*genai.Part, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	client, err := s.factory.GeminiClient(ctx)
	if err != nil {
		return nil, classifyError(capability, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	start := time.Now()

	var resp *genai.GenerateContentResponse
	err = withRetry(ctx, s.retry, s.logger, "gemini", func(ctx context.Context) error {
		if err := s.factory.waitGemini(ctx); err != nil {
			return err
		}
		var callErr error
		resp, callErr = client.Models.GenerateContent(ctx, model, contents, config)
		return callErr
	})
	if err != nil {
		s.logger.Debug().
			Str("capability", string(capability)).
			Str("model", model).
			Err(err).
			Msg("Gemini call failed")
		return nil, classifyError(capability, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, emptyResponse(capability, "Gemini")
	}

	s.logger.Debug().
		Str("capability", string(capability)).
		Str("model", model).
		Dur("duration", time.Since(start)).
		Msg("Gemini call completed")

	return resp, nil
}
