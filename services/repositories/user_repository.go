package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/lac-hong-legacy/salita_api/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const userNotFound = "User not found"

// UserRepository handles user profiles and account level cascades
type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, r.HandleError(err, userNotFound)
	}
	return &user, nil
}

// CreateUser inserts the user unless one with the same id already exists and
// returns the stored row either way.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(user).Error
	if err != nil {
		return nil, r.HandleError(err, userNotFound)
	}
	return r.GetUser(ctx, user.ID)
}

func (r *UserRepository) UpdatePreferences(ctx context.Context, id string, prefs model.UserPreferences) (*model.User, error) {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pref_version":              prefs.Version,
			"pref_correction_intensity": prefs.CorrectionIntensity,
			"pref_taglish_mode":         prefs.TaglishMode,
			"pref_preferred_tone":       prefs.PreferredTone,
			"pref_wallpaper":            prefs.Wallpaper,
			"updated_at":                time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, r.HandleError(result.Error, userNotFound)
	}
	if result.RowsAffected == 0 {
		return nil, shared.NewNotFoundError(nil, userNotFound)
	}
	return r.GetUser(ctx, id)
}

// DeleteAccount removes the user with every session, turn and feedback
// summary they own in a single transaction.
func (r *UserRepository) DeleteAccount(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.FeedbackSummary{}).Error; err != nil {
			return err
		}

		owned := tx.Model(&model.PracticeSession{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("session_id IN (?)", owned).Delete(&model.TranscriptTurn{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.PracticeSession{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(err, userNotFound)
	}
	return r.HandleError(err, userNotFound)
}
