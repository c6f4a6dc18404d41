package dto

import (
	"time"

	"github.com/lac-hong-legacy/salita_api/model"
)

// ==================== SESSION REQUEST DTOs ====================

type StartSessionRequest struct {
	Mode                *string `json:"mode,omitempty" validate:"omitempty,oneof=conversation beginner repeat_after_me speak_like_a_local assessment" example:"conversation"`
	Scenario            *string `json:"scenario,omitempty" validate:"omitempty,oneof=daily_life ordering_food directions meeting_someone dating family" example:"ordering_food"`
	CorrectionIntensity *string `json:"correction_intensity,omitempty" validate:"omitempty,oneof=minimal moderate aggressive" example:"moderate"`
	TaglishMode         *bool   `json:"taglish_mode,omitempty" example:"true"`
}

func (r StartSessionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type TranscriptTurnRequest struct {
	Order   *int   `json:"order,omitempty" validate:"omitempty,min=0" example:"0"`
	Speaker string `json:"speaker" validate:"required" example:"user"`
	Text    string `json:"text" validate:"required,not_blank" example:"Mabuti po."`
}

type SaveTranscriptRequest struct {
	Transcript []TranscriptTurnRequest `json:"transcript" validate:"dive"`
}

func (r SaveTranscriptRequest) Validate() error {
	return GetValidator().Struct(r)
}

type FinalizeSessionRequest struct {
	Transcript      []TranscriptTurnRequest `json:"transcript" validate:"dive"`
	DurationSeconds *int                    `json:"duration_seconds,omitempty" validate:"omitempty,min=0" example:"312"`
	EndedAt         *time.Time              `json:"ended_at,omitempty"`
}

func (r FinalizeSessionRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ToTranscriptTurns converts request turns into stored turns, keeping the
// array index as the insertion position.
func ToTranscriptTurns(turns []TranscriptTurnRequest) []model.TranscriptTurn {
	out := make([]model.TranscriptTurn, 0, len(turns))
	for i, t := range turns {
		out = append(out, model.TranscriptTurn{
			Position: i,
			Order:    t.Order,
			Speaker:  model.ParseSpeaker(t.Speaker),
			Text:     t.Text,
		})
	}
	return out
}

// ==================== SESSION RESPONSE DTOs ====================

type TranscriptTurnResponse struct {
	Order   *int   `json:"order,omitempty"`
	Speaker string `json:"speaker" example:"user"`
	Text    string `json:"text" example:"Mabuti po."`
}

type SessionResponse struct {
	ID                  string                   `json:"id" example:"01928f5e-7c1a-7b3e-9d2a-5f1e8c3b4a21"`
	Mode                *string                  `json:"mode,omitempty" example:"conversation"`
	Scenario            *string                  `json:"scenario,omitempty" example:"ordering_food"`
	Transcript          []TranscriptTurnResponse `json:"transcript"`
	CorrectionIntensity string                   `json:"correction_intensity" example:"moderate"`
	TaglishMode         bool                     `json:"taglish_mode" example:"false"`
	State               string                   `json:"state" example:"created"`
	FeedbackSummaryID   *string                  `json:"feedback_summary_id,omitempty"`
	AssessmentID        *string                  `json:"assessment_id,omitempty"`
	StartedAt           time.Time                `json:"started_at"`
	EndedAt             *time.Time               `json:"ended_at,omitempty"`
	DurationSeconds     int                      `json:"duration_seconds" example:"0"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int               `json:"total" example:"3"`
}

func NewSessionResponse(s *model.PracticeSession) SessionResponse {
	turns := make([]TranscriptTurnResponse, 0, len(s.Transcript))
	for _, t := range s.Transcript {
		turns = append(turns, TranscriptTurnResponse{
			Order:   t.Order,
			Speaker: string(t.Speaker),
			Text:    t.Text,
		})
	}

	return SessionResponse{
		ID:                  s.ID,
		Mode:                s.Mode,
		Scenario:            s.Scenario,
		Transcript:          turns,
		CorrectionIntensity: s.CorrectionIntensity,
		TaglishMode:         s.TaglishMode,
		State:               string(s.State()),
		FeedbackSummaryID:   s.FeedbackSummaryID,
		AssessmentID:        s.AssessmentID,
		StartedAt:           s.StartedAt,
		EndedAt:             s.EndedAt,
		DurationSeconds:     s.DurationSeconds,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// ==================== FEEDBACK DTOs ====================

type FeedbackSummaryResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	model.FeedbackContent
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewFeedbackSummaryResponse(f *model.FeedbackSummary) *FeedbackSummaryResponse {
	return &FeedbackSummaryResponse{
		ID:              f.ID,
		SessionID:       f.SessionID,
		FeedbackContent: f.Content(),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// FeedbackResult reports the outcome of finalizing a session. Generated is
// false when the transcript held nothing to review.
type FeedbackResult struct {
	Generated bool                     `json:"generated" example:"true"`
	SessionID string                   `json:"session_id"`
	State     string                   `json:"state" example:"feedback_ready"`
	Feedback  *FeedbackSummaryResponse `json:"feedback,omitempty"`
}

// ==================== USAGE DTOs ====================

type DailyUsageResponse struct {
	TotalSeconds      int       `json:"total_seconds" example:"450"`
	DailyLimitSeconds int       `json:"daily_limit_seconds" example:"600"`
	RemainingSeconds  int       `json:"remaining_seconds" example:"150"`
	WindowStart       time.Time `json:"window_start"`
	WindowEnd         time.Time `json:"window_end"`
}
