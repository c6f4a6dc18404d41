package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/lac-hong-legacy/salita_api/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sessionNotFound = "Session not found"

// SessionRepository handles practice sessions and their transcript turns.
// Every lookup is scoped by owner.
type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func orderTurns(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *SessionRepository) CreateSession(ctx context.Context, session *model.PracticeSession) (*model.PracticeSession, error) {
	if session.ID == "" {
		id, _ := uuid.NewV7()
		session.ID = id.String()
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error; err != nil {
		return nil, r.HandleError(err, sessionNotFound)
	}

	if session.Transcript == nil {
		session.Transcript = []model.TranscriptTurn{}
	}
	return session, nil
}

func (r *SessionRepository) GetSession(ctx context.Context, id, userID string) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := r.db.WithContext(ctx).
		Preload("Transcript", orderTurns).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error
	if err != nil {
		return nil, r.HandleError(err, sessionNotFound)
	}

	model.SortTranscript(session.Transcript)
	return &session, nil
}

// ListSessions returns the user's sessions, newest first.
func (r *SessionRepository) ListSessions(ctx context.Context, userID string) ([]model.PracticeSession, error) {
	var sessions []model.PracticeSession
	err := r.db.WithContext(ctx).
		Preload("Transcript", orderTurns).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, r.HandleError(err, sessionNotFound)
	}

	for i := range sessions {
		model.SortTranscript(sessions[i].Transcript)
	}
	return sessions, nil
}

// ListSessionsCreatedBetween returns sessions created in [start, end).
// Transcripts are not loaded.
func (r *SessionRepository) ListSessionsCreatedBetween(ctx context.Context, userID string, start, end time.Time) ([]model.PracticeSession, error) {
	var sessions []model.PracticeSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start.UTC(), end.UTC()).
		Find(&sessions).Error
	if err != nil {
		return nil, r.HandleError(err, sessionNotFound)
	}
	return sessions, nil
}

// ReplaceTranscript swaps the stored transcript for update.Turns.
func (r *SessionRepository) ReplaceTranscript(ctx context.Context, id, userID string, update model.TranscriptUpdate) (*model.PracticeSession, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.PracticeSession
		if err := tx.Select("id").Where("id = ? AND user_id = ?", id, userID).First(&session).Error; err != nil {
			return err
		}

		if err := tx.Where("session_id = ?", id).Delete(&model.TranscriptTurn{}).Error; err != nil {
			return err
		}

		if len(update.Turns) > 0 {
			turns := make([]model.TranscriptTurn, len(update.Turns))
			for i, t := range update.Turns {
				turns[i] = model.TranscriptTurn{
					SessionID: id,
					Position:  t.Position,
					Order:     t.Order,
					Speaker:   t.Speaker,
					Text:      t.Text,
				}
			}
			if err := tx.Create(&turns).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"updated_at": time.Now().UTC(),
		}
		if update.EndedAt != nil {
			updates["ended_at"] = update.EndedAt.UTC()
		}
		if update.DurationSeconds != nil {
			updates["duration_seconds"] = *update.DurationSeconds
		}

		return tx.Model(&model.PracticeSession{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, r.HandleError(err, sessionNotFound)
	}

	return r.GetSession(ctx, id, userID)
}

func (r *SessionRepository) AttachFeedback(ctx context.Context, id, userID, feedbackID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.PracticeSession{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"feedback_summary_id": feedbackID,
			"updated_at":          time.Now().UTC(),
		})
	if result.Error != nil {
		return r.HandleError(result.Error, sessionNotFound)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(nil, sessionNotFound)
	}
	return nil
}

// DeleteSession removes the session along with its turns and feedback.
func (r *SessionRepository) DeleteSession(ctx context.Context, id, userID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.PracticeSession{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("session_id = ? AND user_id = ?", id, userID).Delete(&model.FeedbackSummary{}).Error; err != nil {
			return err
		}
		return tx.Where("session_id = ?", id).Delete(&model.TranscriptTurn{}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(err, sessionNotFound)
	}
	return r.HandleError(err, sessionNotFound)
}
