package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
)

const (
	geminiKeyName = "gemini_api_key"
	claudeKeyName = "anthropic_api_key"
)

// ProviderFactory creates provider clients on first use and paces requests
// per provider.
type ProviderFactory struct {
	geminiConfig *common.GeminiConfig
	claudeConfig *common.ClaudeConfig
	kvStorage    interfaces.KeyValueStorage
	logger       arbor.ILogger

	mu            sync.Mutex
	geminiClient  *genai.Client
	claudeClient  *anthropic.Client
	geminiLimiter *rate.Limiter
	claudeLimiter *rate.Limiter
}

// NewProviderFactory creates a new provider factory. kvStorage may be nil.
func NewProviderFactory(
	geminiConfig *common.GeminiConfig,
	claudeConfig *common.ClaudeConfig,
	kvStorage interfaces.KeyValueStorage,
	logger arbor.ILogger,
) *ProviderFactory {
	return &ProviderFactory{
		geminiConfig:  geminiConfig,
		claudeConfig:  claudeConfig,
		kvStorage:     kvStorage,
		logger:        logger,
		geminiLimiter: newLimiter(geminiConfig.RateLimit, 4*time.Second),
		claudeLimiter: newLimiter(claudeConfig.RateLimit, time.Second),
	}
}

// newLimiter allows one request per interval; a zero interval disables pacing.
func newLimiter(interval string, fallback time.Duration) *rate.Limiter {
	d := common.ParseDurationOr(interval, fallback)
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// HasKey reports whether an API key resolves for provider.
func (f *ProviderFactory) HasKey(ctx context.Context, provider common.LLMProvider) bool {
	var err error
	switch provider {
	case common.LLMProviderClaude:
		_, err = common.ResolveAPIKey(ctx, f.kvStorage, claudeKeyName, f.claudeConfig.APIKey)
	default:
		_, err = common.ResolveAPIKey(ctx, f.kvStorage, geminiKeyName, f.geminiConfig.APIKey)
	}
	return err == nil
}

// GeminiClient returns a Gemini client, creating one if necessary
func (f *ProviderFactory) GeminiClient(ctx context.Context) (*genai.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.geminiClient != nil {
		return f.geminiClient, nil
	}

	apiKey, err := common.ResolveAPIKey(ctx, f.kvStorage, geminiKeyName, f.geminiConfig.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Gemini API key: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	f.logger.Debug().Str("model", f.geminiConfig.Model).Msg("Gemini client created")
	f.geminiClient = client
	return client, nil
}

// ClaudeClient returns a Claude client, creating one if necessary
func (f *ProviderFactory) ClaudeClient(ctx context.Context) (*anthropic.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claudeClient != nil {
		return f.claudeClient, nil
	}

	apiKey, err := common.ResolveAPIKey(ctx, f.kvStorage, claudeKeyName, f.claudeConfig.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Anthropic API key: %w", err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	f.logger.Debug().Str("model", f.claudeConfig.Model).Msg("Claude client created")
	f.claudeClient = &client
	return f.claudeClient, nil
}

// waitGemini blocks until the Gemini limiter admits a request.
func (f *ProviderFactory) waitGemini(ctx context.Context) error {
	return f.geminiLimiter.Wait(ctx)
}

// waitClaude blocks until the Claude limiter admits a request.
func (f *ProviderFactory) waitClaude(ctx context.Context) error {
	return f.claudeLimiter.Wait(ctx)
}
