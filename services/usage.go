package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/salita_api/dto"
	log "github.com/sirupsen/logrus"
)

const (
	USAGE_SVC = "usage_svc"

	DefaultDailyLimitSeconds = 600
)

// UsageService computes how much practice time a user has spent on the
// current calendar day.
type UsageService struct {
	appContext.DefaultService

	sessions     SessionStore
	limitSeconds int
	location     *time.Location
}

func NewUsageService(sessions SessionStore, limitSeconds int, location *time.Location) *UsageService {
	if location == nil {
		location = time.Local
	}
	return &UsageService{
		sessions:     sessions,
		limitSeconds: limitSeconds,
		location:     location,
	}
}

func (svc UsageService) Id() string {
	return USAGE_SVC
}

func (svc *UsageService) Configure(ctx *appContext.Context) error {
	svc.limitSeconds = getEnvInt("DAILY_LIMIT_SECONDS", DefaultDailyLimitSeconds)
	if svc.limitSeconds < 0 {
		svc.limitSeconds = 0
	}

	svc.location = time.Local
	if tz := getEnv("USAGE_TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return err
		}
		svc.location = loc
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *UsageService) Start() error {
	svc.sessions = svc.Service(DATABASE_SVC).(Database).Sessions()

	log.WithFields(log.Fields{
		"daily_limit_seconds": svc.limitSeconds,
		"timezone":            svc.location.String(),
	}).Info("Usage ledger ready")
	return nil
}

func (svc *UsageService) DailyLimitSeconds() int {
	return svc.limitSeconds
}

// DayWindow returns the calendar day containing asOf in the ledger's
// location as a half open range [start, next midnight).
func (svc *UsageService) DayWindow(asOf time.Time) (time.Time, time.Time) {
	local := asOf.In(svc.location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, svc.location)
	return start, start.AddDate(0, 0, 1)
}

// GetDailyUsage sums the duration of every session the user created on the
// day containing asOf.
func (svc *UsageService) GetDailyUsage(ctx context.Context, userID string, asOf time.Time) (*dto.DailyUsageResponse, error) {
	start, end := svc.DayWindow(asOf)

	sessions, err := svc.sessions.ListSessionsCreatedBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, s := range sessions {
		if s.DurationSeconds > 0 {
			total += s.DurationSeconds
		}
	}

	remaining := svc.limitSeconds - total
	if remaining < 0 {
		remaining = 0
	}

	return &dto.DailyUsageResponse{
		TotalSeconds:      total,
		DailyLimitSeconds: svc.limitSeconds,
		RemainingSeconds:  remaining,
		WindowStart:       start,
		WindowEnd:         end.Add(-time.Millisecond),
	}, nil
}
