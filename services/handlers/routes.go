package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/salita_api/shared"
)

// RegisterRoutes mounts every authenticated API route on v1.
func RegisterRoutes(v1 fiber.Router, auth fiber.Handler, limiter RateLimiterInterface, sessions *SessionHandler, usage *UsageHandler, users *UserHandler) {
	v1.Get("/usage/daily", auth, usage.GetDailyUsage)

	s := v1.Group("/sessions", auth)
	s.Post("/", limiter.UserBasedRateLimit(shared.RateLimitSessionStart), sessions.StartSession)
	s.Get("/", sessions.ListSessions)
	s.Get("/:id", sessions.GetSession)
	s.Patch("/:id/transcript", sessions.SaveTranscript)
	s.Post("/:id/complete", limiter.UserBasedRateLimit(shared.RateLimitFeedbackGenerate), sessions.FinalizeSession)
	s.Post("/:id/feedback", limiter.UserBasedRateLimit(shared.RateLimitFeedbackGenerate), sessions.RegenerateFeedback)
	s.Get("/:id/feedback", sessions.GetFeedback)
	s.Delete("/:id", sessions.DeleteSession)

	u := v1.Group("/users/me", auth)
	u.Get("/", users.GetProfile)
	u.Patch("/preferences", users.UpdatePreferences)
	u.Delete("/", users.DeleteAccount)
}
