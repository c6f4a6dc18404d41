package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeedbackGenerator(t *testing.T) {
	gen, err := NewFeedbackGenerator(GeneratorConfig{Provider: LLMProviderMock})
	require.NoError(t, err)
	assert.Equal(t, LLMProviderMock, gen.Name())

	gen, err = NewFeedbackGenerator(GeneratorConfig{Provider: LLMProviderOpenAI, OpenAIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, LLMProviderOpenAI, gen.Name())

	gen, err = NewFeedbackGenerator(GeneratorConfig{Provider: LLMProviderAnthropic, AnthropicKey: "sk-ant"})
	require.NoError(t, err)
	assert.Equal(t, LLMProviderAnthropic, gen.Name())

	_, err = NewFeedbackGenerator(GeneratorConfig{Provider: LLMProviderOpenAI})
	assert.Error(t, err)
	_, err = NewFeedbackGenerator(GeneratorConfig{Provider: LLMProviderAnthropic})
	assert.Error(t, err)
	_, err = NewFeedbackGenerator(GeneratorConfig{Provider: "gemini"})
	assert.Error(t, err)
}

func TestBuildUserMessage(t *testing.T) {
	msg := BuildUserMessage([]string{"Mabuti po.", "Salamat."})
	assert.Equal(t, "Analyze the following user's spoken lines from the conversation transcript:\n\n- Mabuti po.\n- Salamat.", msg)

	msg = BuildUserMessage(nil)
	assert.Equal(t, "Analyze the following user's spoken lines from the conversation transcript:\n\n(no learner lines)", msg)
	assert.NotContains(t, msg, "- ")
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(FeedbackRequest{CorrectionIntensity: "aggressive", TaglishMode: true})
	assert.True(t, strings.HasPrefix(prompt, feedbackSystemPrompt))
	assert.Contains(t, prompt, "correctionIntensity: aggressive")
	assert.Contains(t, prompt, "taglishMode: true")
	assert.Contains(t, prompt, "code switching")

	prompt = BuildSystemPrompt(FeedbackRequest{CorrectionIntensity: "moderate"})
	assert.Contains(t, prompt, "taglishMode: false")
	assert.NotContains(t, prompt, "code switching")
}

func TestStaticFeedbackGenerator(t *testing.T) {
	gen := NewStaticFeedbackGenerator(DefaultMockFeedback())

	raw, err := gen.GenerateFeedback(context.Background(), FeedbackRequest{})
	require.NoError(t, err)
	_, err = newTestSchema(t).Parse(raw)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gen.GenerateFeedback(ctx, FeedbackRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenAIFeedbackGenerator(t *testing.T) {
	payload, err := sonic.MarshalString(DefaultMockFeedback())
	require.NoError(t, err)

	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, sonic.Unmarshal(body, &captured))

		resp := map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "gpt-4o-mini",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]interface{}{"role": "assistant", "content": payload},
				},
			},
		}
		out, _ := sonic.Marshal(resp)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(out)
	}))
	defer server.Close()

	gen := NewOpenAIFeedbackGenerator(GeneratorConfig{
		OpenAIKey:     "sk-test",
		OpenAIModel:   "gpt-4o-mini",
		OpenAIBaseURL: server.URL + "/v1",
		MaxTokens:     512,
		Temperature:   0.2,
		Timeout:       5 * time.Second,
	})

	raw, err := gen.GenerateFeedback(context.Background(), FeedbackRequest{
		UserLines:           []string{"Mabuti po."},
		CorrectionIntensity: "moderate",
	})
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(raw))

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	messages, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Contains(t, messages[1].(map[string]interface{})["content"], "- Mabuti po.")
}

func TestOpenAIFeedbackGenerator_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-2","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	gen := NewOpenAIFeedbackGenerator(GeneratorConfig{OpenAIKey: "sk-test", OpenAIBaseURL: server.URL})

	_, err := gen.GenerateFeedback(context.Background(), FeedbackRequest{UserLines: []string{"Oo."}})
	assert.Error(t, err)
}
