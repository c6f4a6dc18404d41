package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/lac-hong-legacy/salita_api/model"
	log "github.com/sirupsen/logrus"
)

const GENERATOR_SVC = "generator_svc"

const (
	LLMProviderOpenAI    = "openai"
	LLMProviderAnthropic = "anthropic"
	LLMProviderMock      = "mock"
)

// FeedbackRequest is everything a generator is allowed to see about a session.
type FeedbackRequest struct {
	UserID              string
	SessionID           string
	UserLines           []string
	CorrectionIntensity string
	TaglishMode         bool
}

// FeedbackGenerator turns the learner's lines into raw feedback JSON. The
// caller validates the output, implementations must not repair it.
type FeedbackGenerator interface {
	Name() string
	GenerateFeedback(ctx context.Context, req FeedbackRequest) ([]byte, error)
}

type GeneratorConfig struct {
	Provider       string
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	AnthropicKey   string
	AnthropicModel string
	MaxTokens      int
	Temperature    float32
	Timeout        time.Duration
}

func generatorConfigFromEnv() GeneratorConfig {
	return GeneratorConfig{
		Provider:       getEnv("LLM_PROVIDER", LLMProviderOpenAI),
		OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel: getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		MaxTokens:      getEnvInt("LLM_MAX_TOKENS", 4096),
		Temperature:    0.2,
		Timeout:        getEnvDuration("LLM_TIMEOUT", 90*time.Second),
	}
}

// NewFeedbackGenerator picks the provider named in cfg.
func NewFeedbackGenerator(cfg GeneratorConfig) (FeedbackGenerator, error) {
	switch cfg.Provider {
	case LLMProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return NewOpenAIFeedbackGenerator(cfg), nil
	case LLMProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		return NewAnthropicFeedbackGenerator(cfg), nil
	case LLMProviderMock:
		return NewStaticFeedbackGenerator(DefaultMockFeedback()), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// GeneratorService owns the configured feedback generator and the schema its
// output is checked against.
type GeneratorService struct {
	appContext.DefaultService

	generator FeedbackGenerator
	schema    *FeedbackSchema
}

func (svc GeneratorService) Id() string {
	return GENERATOR_SVC
}

func (svc *GeneratorService) Configure(ctx *appContext.Context) error {
	cfg := generatorConfigFromEnv()

	generator, err := NewFeedbackGenerator(cfg)
	if err != nil {
		return err
	}
	svc.generator = generator

	schema, err := NewFeedbackSchema()
	if err != nil {
		return err
	}
	svc.schema = schema

	log.WithFields(log.Fields{
		"provider": generator.Name(),
		"timeout":  cfg.Timeout.String(),
	}).Info("Feedback generator configured")

	return svc.DefaultService.Configure(ctx)
}

func (svc *GeneratorService) Start() error {
	return nil
}

func (svc *GeneratorService) Generator() FeedbackGenerator {
	return svc.generator
}

func (svc *GeneratorService) Schema() *FeedbackSchema {
	return svc.schema
}

const noLearnerLines = "(no learner lines)"

// BuildUserMessage renders the learner's lines as a bulleted list. A
// transcript where only the AI spoke gets an explicit marker instead.
func BuildUserMessage(lines []string) string {
	header := "Analyze the following user's spoken lines from the conversation transcript:\n\n"
	if len(lines) == 0 {
		return header + noLearnerLines
	}
	return header + "- " + strings.Join(lines, "\n- ")
}

// BuildSystemPrompt appends the session's coaching preferences to the base prompt.
func BuildSystemPrompt(req FeedbackRequest) string {
	var b strings.Builder
	b.WriteString(feedbackSystemPrompt)
	b.WriteString("\n# Session Preferences\n")
	fmt.Fprintf(&b, "- correctionIntensity: %s\n", req.CorrectionIntensity)
	switch req.CorrectionIntensity {
	case "minimal":
		b.WriteString("  Only flag mistakes that block understanding.\n")
	case "aggressive":
		b.WriteString("  Flag every mistake you can justify from the lines, including small ones.\n")
	default:
		b.WriteString("  Flag recurring patterns and clear errors, skip tiny slips.\n")
	}
	fmt.Fprintf(&b, "- taglishMode: %t\n", req.TaglishMode)
	if req.TaglishMode {
		b.WriteString("  The learner is allowed to mix English. Do not count code switching as a mistake by itself.\n")
	}
	return b.String()
}

// StaticFeedbackGenerator returns a fixed document. It backs LLM_PROVIDER=mock.
type StaticFeedbackGenerator struct {
	payload []byte
}

func NewStaticFeedbackGenerator(content model.FeedbackContent) *StaticFeedbackGenerator {
	payload, _ := sonic.Marshal(content)
	return &StaticFeedbackGenerator{payload: payload}
}

func (g *StaticFeedbackGenerator) Name() string {
	return LLMProviderMock
}

func (g *StaticFeedbackGenerator) GenerateFeedback(ctx context.Context, req FeedbackRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]byte, len(g.payload))
	copy(out, g.payload)
	return out, nil
}

func DefaultMockFeedback() model.FeedbackContent {
	return model.FeedbackContent{
		Overview: model.FeedbackOverview{
			EstimatedLevel: model.LevelBeginner,
			Confidence:     0.3,
			FluencyNotes: []string{
				"Maikli pa ang transcript kaya mahirap husgahan ang fluency.",
				"Malinaw ang intent ng mga sagot mo.",
				"Madalas kang bumalik sa English kapag naghahanap ng salita.",
			},
		},
		Highlights: []string{
			"Magalang ang paggamit mo ng po at opo.",
			"Maayos ang mga simpleng pagbati.",
			"Sinubukan mong sumagot nang buo ang pangungusap.",
		},
		TopRecurringMistakes: []model.RecurringMistake{
			{
				Category:   "particles",
				Mistake:    "Nalilipat ang posisyon ng po sa pangungusap.",
				Why:        "Enclitic ang po kaya sumusunod ito sa unang salita o phrase.",
				ExampleFix: "Instead of: Po salamat → Say: Salamat po",
			},
			{
				Category:   "grammar",
				Mistake:    "Napagpapalit ang ng at nang.",
				Why:        "Ang ng ay marker ng object, ang nang ay para sa paraan o oras.",
				ExampleFix: "Instead of: Kumain nang kanin → Say: Kumain ng kanin",
			},
			{
				Category:   "vocab",
				Mistake:    "English filler habang nag-iisip.",
				Why:        "Mas natural gamitin ang ano o kasi bilang pause word.",
				ExampleFix: "Instead of: Um, gusto ko → Say: Ano, gusto ko",
			},
		},
		ImprovedPhrases: []model.ImprovedPhrase{
			{Original: "Mabuti ako.", Improved: "Mabuti naman ako.", Explanation: "Mas natural ang naman sa sagot sa kumusta.", Category: "naturalness"},
			{Original: "Gusto ko kain.", Improved: "Gusto kong kumain.", Explanation: "Kailangan ng linker na -ng at verb form na kumain.", Category: "grammar"},
			{Original: "Bigay mo sa akin.", Improved: "Pakibigay naman sa akin.", Explanation: "Mas magalang ang paki-.", Category: "tone"},
			{Original: "Saan ang CR?", Improved: "Saan po ang CR?", Explanation: "Dagdagan ng po kapag nagtatanong sa hindi kakilala.", Category: "tone"},
			{Original: "Ako ay pupunta palengke.", Improved: "Pupunta ako sa palengke.", Explanation: "Mas karaniwan ang verb-first at kailangan ng sa.", Category: "clarity"},
		},
		NextPractice: []model.PracticeSuggestion{
			{
				Goal:     "Mas maging natural ang paglalagay ng po.",
				Drill:    "Sabihin nang malakas ang limang pangungusap na may po pagkatapos ng unang salita.",
				Examples: []string{"Salamat po.", "Opo, kumain na po ako.", "Saan po kayo galing?"},
			},
			{
				Goal:     "Gamitin nang tama ang ng at nang.",
				Drill:    "Gumawa ng tatlong pangungusap para sa bawat isa.",
				Examples: []string{"Bumili ako ng tinapay.", "Tumakbo siya nang mabilis.", "Uminom ka ng tubig."},
			},
			{
				Goal:     "Bawasan ang English filler.",
				Drill:    "Magkwento ng isang minuto tungkol sa araw mo gamit ang ano at kasi bilang pause.",
				Examples: []string{"Ano, pumasok ako sa trabaho.", "Kasi, traffic kanina.", "Tapos, umuwi na ako."},
			},
		},
	}
}
