package dto

import (
	"time"

	"github.com/lac-hong-legacy/salita_api/model"
)

type UpdatePreferencesRequest struct {
	CorrectionIntensity *string `json:"correction_intensity,omitempty" validate:"omitempty,oneof=minimal moderate aggressive" example:"aggressive"`
	TaglishMode         *bool   `json:"taglish_mode,omitempty" example:"true"`
	PreferredTone       *string `json:"preferred_tone,omitempty" validate:"omitempty,oneof=casual polite playful coach" example:"coach"`
	Wallpaper           *string `json:"wallpaper,omitempty" validate:"omitempty,max=512" example:"sunset"`
}

func (r UpdatePreferencesRequest) Validate() error {
	return GetValidator().Struct(r)
}

// Apply returns a copy of prefs with every supplied field overwritten.
func (r UpdatePreferencesRequest) Apply(prefs model.UserPreferences) model.UserPreferences {
	if r.CorrectionIntensity != nil {
		prefs.CorrectionIntensity = *r.CorrectionIntensity
	}
	if r.TaglishMode != nil {
		prefs.TaglishMode = *r.TaglishMode
	}
	if r.PreferredTone != nil {
		prefs.PreferredTone = *r.PreferredTone
	}
	if r.Wallpaper != nil {
		prefs.Wallpaper = *r.Wallpaper
	}
	prefs.Version = model.PreferencesVersion
	return prefs
}

type PreferencesResponse struct {
	Version             int    `json:"version" example:"1"`
	CorrectionIntensity string `json:"correction_intensity" example:"moderate"`
	TaglishMode         bool   `json:"taglish_mode" example:"false"`
	PreferredTone       string `json:"preferred_tone" example:"casual"`
	Wallpaper           string `json:"wallpaper" example:""`
}

type UserProfileResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name" example:"Juan dela Cruz"`
	Email       string              `json:"email" example:"juan@example.com"`
	Image       string              `json:"image,omitempty"`
	Preferences PreferencesResponse `json:"preferences"`
	CreatedAt   time.Time           `json:"created_at"`
}

func NewUserProfileResponse(u *model.User) *UserProfileResponse {
	return &UserProfileResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Image: u.Image,
		Preferences: PreferencesResponse{
			Version:             u.Preferences.Version,
			CorrectionIntensity: u.Preferences.CorrectionIntensity,
			TaglishMode:         u.Preferences.TaglishMode,
			PreferredTone:       u.Preferences.PreferredTone,
			Wallpaper:           u.Preferences.Wallpaper,
		},
		CreatedAt: u.CreatedAt,
	}
}
