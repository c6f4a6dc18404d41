package services

import (
	"context"
	"errors"
	"time"

	openai "github.com/meguminnnnnnnnn/go-openai"
	log "github.com/sirupsen/logrus"
)

// OpenAIFeedbackGenerator asks a chat completion model for the feedback document.
type OpenAIFeedbackGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

func NewOpenAIFeedbackGenerator(cfg GeneratorConfig) *OpenAIFeedbackGenerator {
	config := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		config.BaseURL = cfg.OpenAIBaseURL
	}

	return &OpenAIFeedbackGenerator{
		client:      openai.NewClientWithConfig(config),
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
}

func (g *OpenAIFeedbackGenerator) Name() string {
	return LLMProviderOpenAI
}

func (g *OpenAIFeedbackGenerator) GenerateFeedback(ctx context.Context, req FeedbackRequest) ([]byte, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: BuildUserMessage(req.UserLines)},
		},
	}
	if g.maxTokens > 0 {
		chatReq.MaxTokens = g.maxTokens
	}
	if g.temperature > 0 {
		temperature := g.temperature
		chatReq.Temperature = &temperature
	}

	started := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		log.WithFields(log.Fields{
			"session_id": req.SessionID,
			"model":      g.model,
			"error":      err.Error(),
		}).Error("OpenAI feedback request failed")
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from OpenAI")
	}

	log.WithFields(log.Fields{
		"session_id": req.SessionID,
		"model":      g.model,
		"elapsed":    time.Since(started).String(),
	}).Debug("OpenAI feedback generated")

	return []byte(resp.Choices[0].Message.Content), nil
}
