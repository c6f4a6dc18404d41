package repositories

import (
	"github.com/lac-hong-legacy/salita_api/model"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents before children.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.PracticeSession{},
		&model.TranscriptTurn{},
		&model.FeedbackSummary{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
