package model

import "time"

const PreferencesVersion = 1

type UserPreferences struct {
	Version             int    `json:"version" gorm:"not null;default:1"`
	CorrectionIntensity string `json:"correction_intensity" gorm:"size:16;not null;default:moderate"`
	TaglishMode         bool   `json:"taglish_mode" gorm:"not null;default:false"`
	PreferredTone       string `json:"preferred_tone" gorm:"size:16;not null;default:casual"`
	Wallpaper           string `json:"wallpaper" gorm:"size:512;not null;default:''"`
}

func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Version:             PreferencesVersion,
		CorrectionIntensity: "moderate",
		TaglishMode:         false,
		PreferredTone:       "casual",
	}
}

// User mirrors the identity provider's subject. Passwords never live here.
type User struct {
	ID          string          `json:"id" gorm:"primaryKey;type:text;not null"`
	Name        string          `json:"name" gorm:"size:255"`
	Email       string          `json:"email" gorm:"size:255;index"`
	Image       string          `json:"image,omitempty" gorm:"size:1024"`
	Preferences UserPreferences `json:"preferences" gorm:"embedded;embeddedPrefix:pref_"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null"`
}
