package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/lac-hong-legacy/salita_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const feedbackNotFound = "Feedback not found"

type FeedbackRepository struct {
	BaseRepository
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// SaveFeedback upserts on session_id so a session never holds more than one
// summary. The stored row is returned, which keeps the original id on retry.
func (r *FeedbackRepository) SaveFeedback(ctx context.Context, feedback *model.FeedbackSummary) (*model.FeedbackSummary, error) {
	if feedback.ID == "" {
		id, _ := uuid.NewV7()
		feedback.ID = id.String()
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"overview",
			"highlights",
			"top_recurring_mistakes",
			"improved_phrases",
			"next_practice",
			"updated_at",
		}),
	}).Create(feedback).Error
	if err != nil {
		return nil, r.HandleError(err, feedbackNotFound)
	}

	return r.GetFeedbackBySession(ctx, feedback.SessionID, feedback.UserID)
}

func (r *FeedbackRepository) GetFeedbackBySession(ctx context.Context, sessionID, userID string) (*model.FeedbackSummary, error) {
	var feedback model.FeedbackSummary
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&feedback).Error
	if err != nil {
		return nil, r.HandleError(err, feedbackNotFound)
	}
	return &feedback, nil
}
