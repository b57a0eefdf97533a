package llm

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
)

// ClaudeService implements the text capabilities with the Anthropic API.
// Claude cannot generate images, so it is never a VisualGenerator.
type ClaudeService struct {
	factory *ProviderFactory
	config  *common.ClaudeConfig
	retry   *RetryConfig
	timeout time.Duration
	logger  arbor.ILogger
}

// Compile-time interface assertions
var (
	_ interfaces.HandwritingRecognizer = (*ClaudeService)(nil)
	_ interfaces.PDFTextExtractor      = (*ClaudeService)(nil)
	_ interfaces.NoteMerger            = (*ClaudeService)(nil)
)

// NewClaudeService creates a Claude-backed capability service
func NewClaudeService(factory *ProviderFactory, config *common.ClaudeConfig, logger arbor.ILogger) *ClaudeService {
	return &ClaudeService{
		factory: factory,
		config:  config,
		retry:   NewRetryConfig(config.MaxRetries),
		timeout: common.ParseDurationOr(config.Timeout, 2*time.Minute),
		logger:  logger,
	}
}

// RecognizeHandwriting transcribes a photo of handwritten notes
func (s *ClaudeService) RecognizeHandwriting(ctx context.Context, image []byte, mimeType string) (string, error) {
	return s.generate(ctx, interfaces.CapabilityHandwriting,
		anthropic.NewImageBlockBase64(mimeType, base64.StdEncoding.EncodeToString(image)),
		anthropic.NewTextBlock(handwritingPrompt),
	)
}

// ExtractPDFText reads the text of a PDF document
func (s *ClaudeService) ExtractPDFText(ctx context.Context, pdf []byte) (string, error) {
	return s.generate(ctx, interfaces.CapabilityPDFText,
		anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{
			Data: base64.StdEncoding.EncodeToString(pdf),
		}),
		anthropic.NewTextBlock(pdfPrompt),
	)
}

// MergeNotes combines note texts into one organized document
func (s *ClaudeService) MergeNotes(ctx context.Context, notes []string) (string, error) {
	return s.generate(ctx, interfaces.CapabilityMerge, anthropic.NewTextBlock(BuildMergePrompt(notes)))
}

func (s *ClaudeService) generate(ctx context.Context, capability interfaces.Capability, blocks ...anthropic.ContentBlockParamUnion) (string, error) {
	client, err := s.factory.ClaudeClient(ctx)
	if err != nil {
		return "", classifyError(capability, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.config.MaxTokens),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	}
	start := time.Now()

	var resp *anthropic.Message
	err = withRetry(ctx, s.retry, s.logger, "claude", func(ctx context.Context) error {
		if err := s.factory.waitClaude(ctx); err != nil {
			return err
		}
		var callErr error
		resp, callErr = client.Messages.New(ctx, params)
		return callErr
	})
	if err != nil {
		s.logger.Debug().
			Str("capability", string(capability)).
			Str("model", s.config.Model).
			Err(err).
			Msg("Claude call failed")
		return "", classifyError(capability, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	result := strings.TrimSpace(text.String())
	if result == "" {
		return "", emptyResponse(capability, "Claude")
	}

	s.logger.Debug().
		Str("capability", string(capability)).
		Str("model", s.config.Model).
		Dur("duration", time.Since(start)).
		Msg("Claude call completed")

	return result, nil
}
