package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/lac-hong-legacy/salita_api/services/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DATABASE_SVC = "database_svc"

	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type Database interface {
	Db() *gorm.DB
	Sessions() *repositories.SessionRepository
	Feedback() *repositories.FeedbackRepository
	Users() *repositories.UserRepository
}

// SessionStore is the persistence the usage ledger and session coordinator rely on.
type SessionStore interface {
	CreateSession(ctx context.Context, session *model.PracticeSession) (*model.PracticeSession, error)
	GetSession(ctx context.Context, id, userID string) (*model.PracticeSession, error)
	ListSessions(ctx context.Context, userID string) ([]model.PracticeSession, error)
	ListSessionsCreatedBetween(ctx context.Context, userID string, start, end time.Time) ([]model.PracticeSession, error)
	ReplaceTranscript(ctx context.Context, id, userID string, update model.TranscriptUpdate) (*model.PracticeSession, error)
	AttachFeedback(ctx context.Context, id, userID, feedbackID string) error
	DeleteSession(ctx context.Context, id, userID string) error
}

type FeedbackStore interface {
	SaveFeedback(ctx context.Context, feedback *model.FeedbackSummary) (*model.FeedbackSummary, error)
	GetFeedbackBySession(ctx context.Context, sessionID, userID string) (*model.FeedbackSummary, error)
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdatePreferences(ctx context.Context, id string, prefs model.UserPreferences) (*model.User, error)
	DeleteAccount(ctx context.Context, id string) error
}

// gormStore holds the connection and repositories shared by the driver services.
type gormStore struct {
	db *gorm.DB

	sessions *repositories.SessionRepository
	feedback *repositories.FeedbackRepository
	users    *repositories.UserRepository
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Error),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func (s *gormStore) init(db *gorm.DB) error {
	if err := repositories.AutoMigrate(db); err != nil {
		return err
	}

	s.db = db
	s.sessions = repositories.NewSessionRepository(db)
	s.feedback = repositories.NewFeedbackRepository(db)
	s.users = repositories.NewUserRepository(db)
	return nil
}

func (s *gormStore) close() {
	if s.db == nil {
		return
	}
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (s *gormStore) Db() *gorm.DB {
	return s.db
}

func (s *gormStore) Sessions() *repositories.SessionRepository {
	return s.sessions
}

func (s *gormStore) Feedback() *repositories.FeedbackRepository {
	return s.feedback
}

func (s *gormStore) Users() *repositories.UserRepository {
	return s.users
}

// DatabaseService opens the driver named by DB_DRIVER and migrates the schema.
type DatabaseService struct {
	appContext.DefaultService
	gormStore

	driver string
	dsn    string
}

func (ds DatabaseService) Id() string {
	return DATABASE_SVC
}

func (ds *DatabaseService) Configure(ctx *appContext.Context) error {
	ds.configureFromEnv()
	return ds.DefaultService.Configure(ctx)
}

func (ds *DatabaseService) configureFromEnv() {
	ds.driver = strings.ToLower(getEnv("DB_DRIVER", DriverPostgres))
	switch ds.driver {
	case DriverSqlite:
		ds.dsn = getEnv("DB_DATABASE", "salita.db")
	default:
		ds.dsn = postgresDSN()
	}
}

// Start the service and open connection to the database
// Migrate any tables that have changed since last runtime
func (ds *DatabaseService) Start() error {
	var db *gorm.DB
	var err error

	switch ds.driver {
	case DriverSqlite:
		db, err = openSqlite(ds.dsn)
	case DriverPostgres:
		db, err = openPostgres(ds.dsn)
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", ds.driver)
	}
	if err != nil {
		return err
	}

	if err := ds.init(db); err != nil {
		log.WithError(err).Error("Failed to migrate database")
		return err
	}

	log.WithField("driver", ds.driver).Info("Database connected and migrated successfully")
	return nil
}

func (ds *DatabaseService) Shutdown() {
	ds.close()
}

// ConnectDatabase opens the configured database outside the service container.
func ConnectDatabase() (*DatabaseService, error) {
	ds := &DatabaseService{}
	ds.configureFromEnv()
	if err := ds.Start(); err != nil {
		return nil, err
	}
	return ds, nil
}
