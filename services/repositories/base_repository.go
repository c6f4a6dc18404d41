package repositories

import (
	"errors"
	"strings"

	"github.com/lac-hong-legacy/salita_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BaseRepository provides common database functionality
type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB returns the underlying database connection
func (r *BaseRepository) DB() *gorm.DB {
	return r.db
}

// HandleError maps driver and gorm errors onto AppError kinds. A missing
// record is reported as NotFound with the given message.
func (r *BaseRepository) HandleError(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}

	var appErr *shared.AppError
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(err, notFoundMessage)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "duplicate key value violates unique constraint"):
		errorType = "UNIQUE_CONSTRAINT"
		appErr = shared.NewStorageError(err, "Record conflicts with an existing one")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		errorType = "FOREIGN_KEY_VIOLATION"
		appErr = shared.NewStorageError(err, "Related record is missing")
	case errors.Is(err, gorm.ErrInvalidTransaction):
		errorType = "TRANSACTION_ERROR"
		appErr = shared.NewStorageError(err, "Database transaction failed")
	case strings.Contains(err.Error(), "connection refused"),
		strings.Contains(err.Error(), "database is closed"):
		errorType = "DATABASE_CONNECTION_ERROR"
		appErr = shared.NewStorageUnavailableError(err, "Database unavailable")
	case strings.Contains(err.Error(), "no such table"),
		strings.Contains(err.Error(), "does not exist"):
		errorType = "SCHEMA_ERROR"
		appErr = shared.NewStorageError(err, "Database schema error")
	default:
		errorType = "INTERNAL_ERROR"
		appErr = shared.NewStorageError(err, "Database operation failed")
	}

	log.WithFields(log.Fields{
		"status_code": appErr.StatusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	}).Error("Database error occurred")

	return appErr
}
