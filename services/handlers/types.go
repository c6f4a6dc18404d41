package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/salita_api/dto"
)

type PracticeServiceInterface interface {
	StartSession(ctx context.Context, userID string, req dto.StartSessionRequest) (*dto.SessionResponse, error)
	FinalizeSession(ctx context.Context, sessionID, userID string, req dto.FinalizeSessionRequest) (*dto.FeedbackResult, error)
	SaveTranscript(ctx context.Context, sessionID, userID string, req dto.SaveTranscriptRequest) (*dto.SessionResponse, error)
	RegenerateFeedback(ctx context.Context, sessionID, userID string) (*dto.FeedbackResult, error)
	GetSession(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, userID string) (*dto.SessionListResponse, error)
	GetFeedback(ctx context.Context, sessionID, userID string) (*dto.FeedbackSummaryResponse, error)
	DeleteSession(ctx context.Context, sessionID, userID string) error
}

type UsageServiceInterface interface {
	GetDailyUsage(ctx context.Context, userID string, asOf time.Time) (*dto.DailyUsageResponse, error)
}

type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	UpdatePreferences(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*dto.UserProfileResponse, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type RateLimiterInterface interface {
	UserBasedRateLimit(endpointType string) fiber.Handler
}
