package services

import (
	"context"
	"errors"
	"strings"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	log "github.com/sirupsen/logrus"
)

// AnthropicFeedbackGenerator asks a Claude model for the feedback document.
type AnthropicFeedbackGenerator struct {
	client      *anthropic.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

func NewAnthropicFeedbackGenerator(cfg GeneratorConfig) *AnthropicFeedbackGenerator {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &AnthropicFeedbackGenerator{
		client:      anthropic.NewClient(cfg.AnthropicKey),
		model:       cfg.AnthropicModel,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
}

func (g *AnthropicFeedbackGenerator) Name() string {
	return LLMProviderAnthropic
}

func (g *AnthropicFeedbackGenerator) GenerateFeedback(ctx context.Context, req FeedbackRequest) ([]byte, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	temperature := g.temperature
	msgReq := anthropic.MessagesRequest{
		Model: anthropic.Model(g.model),
		MultiSystem: []anthropic.MessageSystemPart{
			{Type: "text", Text: BuildSystemPrompt(req)},
		},
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(BuildUserMessage(req.UserLines))},
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: &temperature,
	}

	resp, err := g.client.CreateMessages(ctx, msgReq)
	if err != nil {
		log.WithFields(log.Fields{
			"session_id": req.SessionID,
			"model":      g.model,
			"error":      err.Error(),
		}).Error("Anthropic feedback request failed")
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text.WriteString(*block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("empty response from Anthropic")
	}

	if resp.StopReason == "max_tokens" {
		log.WithField("session_id", req.SessionID).Warn("Anthropic feedback hit max tokens")
	}

	return []byte(text.String()), nil
}
