package model

import "time"

// Proficiency levels in ascending order.
const (
	LevelBeginner          = "Beginner"
	LevelLowerIntermediate = "Lower-Intermediate"
	LevelIntermediate      = "Intermediate"
	LevelUpperIntermediate = "Upper-Intermediate"
	LevelAdvanced          = "Advanced"
)

var ProficiencyLevels = []string{
	LevelBeginner,
	LevelLowerIntermediate,
	LevelIntermediate,
	LevelUpperIntermediate,
	LevelAdvanced,
}

// ProficiencyRank returns the position of level in ProficiencyLevels, or -1.
func ProficiencyRank(level string) int {
	for i, l := range ProficiencyLevels {
		if l == level {
			return i
		}
	}
	return -1
}

type FeedbackOverview struct {
	EstimatedLevel string   `json:"estimatedLevel"`
	Confidence     float64  `json:"confidence"`
	FluencyNotes   []string `json:"fluencyNotes"`
}

type RecurringMistake struct {
	Category   string `json:"category"`
	Mistake    string `json:"mistake"`
	Why        string `json:"why"`
	ExampleFix string `json:"exampleFix"`
}

type ImprovedPhrase struct {
	Original    string `json:"original"`
	Improved    string `json:"improved"`
	Explanation string `json:"explanation"`
	Category    string `json:"category"`
}

type PracticeSuggestion struct {
	Goal     string   `json:"goal"`
	Drill    string   `json:"drill"`
	Examples []string `json:"examples"`
}

// FeedbackContent is exactly the document a feedback generator must return.
type FeedbackContent struct {
	Overview             FeedbackOverview     `json:"overview"`
	Highlights           []string             `json:"highlights"`
	TopRecurringMistakes []RecurringMistake   `json:"topRecurringMistakes"`
	ImprovedPhrases      []ImprovedPhrase     `json:"improvedPhrases"`
	NextPractice         []PracticeSuggestion `json:"nextPractice"`
}

type FeedbackSummary struct {
	ID        string `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string `json:"user_id" gorm:"type:text;not null;index"`
	SessionID string `json:"session_id" gorm:"type:text;not null;uniqueIndex"`

	Overview             FeedbackOverview     `json:"overview" gorm:"serializer:json;type:text;not null"`
	Highlights           []string             `json:"highlights" gorm:"serializer:json;type:text;not null"`
	TopRecurringMistakes []RecurringMistake   `json:"top_recurring_mistakes" gorm:"serializer:json;type:text;not null"`
	ImprovedPhrases      []ImprovedPhrase     `json:"improved_phrases" gorm:"serializer:json;type:text;not null"`
	NextPractice         []PracticeSuggestion `json:"next_practice" gorm:"serializer:json;type:text;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func NewFeedbackSummary(userID, sessionID string, content FeedbackContent) *FeedbackSummary {
	return &FeedbackSummary{
		UserID:               userID,
		SessionID:            sessionID,
		Overview:             content.Overview,
		Highlights:           content.Highlights,
		TopRecurringMistakes: content.TopRecurringMistakes,
		ImprovedPhrases:      content.ImprovedPhrases,
		NextPractice:         content.NextPractice,
	}
}

func (f *FeedbackSummary) Content() FeedbackContent {
	return FeedbackContent{
		Overview:             f.Overview,
		Highlights:           f.Highlights,
		TopRecurringMistakes: f.TopRecurringMistakes,
		ImprovedPhrases:      f.ImprovedPhrases,
		NextPractice:         f.NextPractice,
	}
}
