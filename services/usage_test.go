package services

import (
	"context"
	"testing"
	"time"

	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsage(t *testing.T, store *gormStore, userID string, createdAt time.Time, duration int) {
	t.Helper()
	_, err := store.Sessions().CreateSession(context.Background(), &model.PracticeSession{
		UserID:              userID,
		CorrectionIntensity: "moderate",
		StartedAt:           createdAt.UTC(),
		DurationSeconds:     duration,
		CreatedAt:           createdAt.UTC(),
	})
	require.NoError(t, err)
}

func TestUsageService_DayWindow(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)
	svc := NewUsageService(nil, 600, manila)

	// 17:30 UTC is already the next day in Manila
	start, end := svc.DayWindow(time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, manila), start)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, manila), end)
}

func TestUsageService_GetDailyUsage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewUsageService(store.Sessions(), 600, time.UTC)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedUsage(t, store, "user-1", day, 120)
	seedUsage(t, store, "user-1", day.Add(23*time.Hour+59*time.Minute), 200)
	seedUsage(t, store, "user-1", day.Add(-time.Second), 500)
	seedUsage(t, store, "user-1", day.Add(24*time.Hour), 500)
	seedUsage(t, store, "user-2", day.Add(time.Hour), 400)

	usage, err := svc.GetDailyUsage(ctx, "user-1", day.Add(12*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 320, usage.TotalSeconds)
	assert.Equal(t, 600, usage.DailyLimitSeconds)
	assert.Equal(t, 280, usage.RemainingSeconds)
	assert.Equal(t, day, usage.WindowStart)
	assert.Equal(t, day.Add(24*time.Hour-time.Millisecond), usage.WindowEnd)
}

func TestUsageService_WindowEdges(t *testing.T) {
	ctx := context.Background()
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	store := newTestStore(t)
	svc := NewUsageService(store.Sessions(), 600, manila)

	asOf := time.Date(2026, 3, 10, 15, 0, 0, 0, manila)
	start, end := svc.DayWindow(asOf)

	seedUsage(t, store, "user-1", start, 1)
	seedUsage(t, store, "user-1", end.Add(-time.Millisecond), 10)
	seedUsage(t, store, "user-1", end, 100)
	seedUsage(t, store, "user-1", start.Add(-time.Millisecond), 1000)
	seedUsage(t, store, "user-1", start.Add(time.Hour).UTC(), 10000)

	usage, err := svc.GetDailyUsage(ctx, "user-1", asOf)
	require.NoError(t, err)
	assert.Equal(t, 10011, usage.TotalSeconds)
	assert.Equal(t, 0, usage.RemainingSeconds)

	// the next day's first millisecond belongs to the next window
	next, err := svc.GetDailyUsage(ctx, "user-1", end)
	require.NoError(t, err)
	assert.Equal(t, 100, next.TotalSeconds)
	assert.Equal(t, 500, next.RemainingSeconds)
}

func TestUsageService_RemainingClampsAtZero(t *testing.T) {
	store := newTestStore(t)
	svc := NewUsageService(store.Sessions(), 600, time.UTC)

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	seedUsage(t, store, "user-1", now, 450)
	seedUsage(t, store, "user-1", now.Add(time.Minute), 450)

	usage, err := svc.GetDailyUsage(context.Background(), "user-1", now)
	require.NoError(t, err)
	assert.Equal(t, 900, usage.TotalSeconds)
	assert.Equal(t, 0, usage.RemainingSeconds)
}

func TestUsageService_NoSessions(t *testing.T) {
	store := newTestStore(t)
	svc := NewUsageService(store.Sessions(), 600, time.UTC)

	usage, err := svc.GetDailyUsage(context.Background(), "nobody", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, usage.TotalSeconds)
	assert.Equal(t, 600, usage.RemainingSeconds)
}
