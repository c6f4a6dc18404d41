package model

import (
	"sort"
	"time"
)

type Speaker string

const (
	SpeakerUser    Speaker = "user"
	SpeakerAI      Speaker = "ai"
	SpeakerUnknown Speaker = "unknown"
)

// ParseSpeaker maps a client supplied speaker tag onto the stored enumeration.
func ParseSpeaker(s string) Speaker {
	switch s {
	case "user":
		return SpeakerUser
	case "ai", "assistant":
		return SpeakerAI
	default:
		return SpeakerUnknown
	}
}

type SessionState string

const (
	SessionCreated             SessionState = "created"
	SessionTranscriptFinalized SessionState = "transcript_finalized"
	SessionFeedbackReady       SessionState = "feedback_ready"
)

// PracticeSession is a single voice practice attempt owned by one user.
type PracticeSession struct {
	ID     string `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID string `json:"user_id" gorm:"not null;index:idx_practice_sessions_user_created,priority:1"`

	Mode     *string `json:"mode,omitempty" gorm:"size:32"`
	Scenario *string `json:"scenario,omitempty" gorm:"size:32"`

	Transcript []TranscriptTurn `json:"transcript" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`

	CorrectionIntensity string `json:"correction_intensity" gorm:"size:16;not null;default:moderate"`
	TaglishMode         bool   `json:"taglish_mode" gorm:"not null;default:false"`

	FeedbackSummaryID *string `json:"feedback_summary_id,omitempty" gorm:"type:text"`
	AssessmentID      *string `json:"assessment_id,omitempty" gorm:"type:text"`

	StartedAt       time.Time  `json:"started_at" gorm:"not null"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index:idx_practice_sessions_user_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (s *PracticeSession) State() SessionState {
	switch {
	case s.FeedbackSummaryID != nil:
		return SessionFeedbackReady
	case len(s.Transcript) > 0:
		return SessionTranscriptFinalized
	default:
		return SessionCreated
	}
}

// UserLines returns the text of every turn spoken by the learner, in conversation order.
func (s *PracticeSession) UserLines() []string {
	lines := make([]string, 0, len(s.Transcript))
	for _, turn := range s.Transcript {
		if turn.Speaker == SpeakerUser {
			lines = append(lines, turn.Text)
		}
	}
	return lines
}

type TranscriptTurn struct {
	ID        uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	SessionID string  `json:"-" gorm:"type:text;not null;index"`
	Position  int     `json:"-" gorm:"not null"`
	Order     *int    `json:"order,omitempty" gorm:"column:turn_order"`
	Speaker   Speaker `json:"speaker" gorm:"size:16;not null"`
	Text      string  `json:"text" gorm:"type:text;not null"`
}

func (t TranscriptTurn) sortKey() int {
	if t.Order != nil {
		return *t.Order
	}
	return t.Position
}

// SortTranscript orders turns by their explicit order when present, falling
// back to insertion position. Ties keep insertion order.
func SortTranscript(turns []TranscriptTurn) {
	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].sortKey() < turns[j].sortKey()
	})
}

// TranscriptUpdate replaces a session transcript. EndedAt and DurationSeconds
// are left untouched when nil.
type TranscriptUpdate struct {
	Turns           []TranscriptTurn
	EndedAt         *time.Time
	DurationSeconds *int
}
