package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lac-hong-legacy/salita_api/dto"
	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/lac-hong-legacy/salita_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type practiceFixture struct {
	svc       *PracticeService
	store     *gormStore
	generator *stubGenerator
	archive   *stubArchive
	metrics   *recordingMetrics
	clock     *fakeClock
}

func newPracticeFixture(t *testing.T, limitSeconds int, policy SessionPolicy) *practiceFixture {
	t.Helper()

	store := newTestStore(t)
	schema, err := NewFeedbackSchema()
	require.NoError(t, err)

	f := &practiceFixture{
		store:     store,
		generator: newStubGenerator(DefaultMockFeedback()),
		archive:   &stubArchive{},
		metrics:   &recordingMetrics{},
		clock:     newFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
	}

	f.svc = NewPracticeService(PracticeDeps{
		Sessions:  store.Sessions(),
		Feedback:  store.Feedback(),
		Users:     store.Users(),
		Usage:     NewUsageService(store.Sessions(), limitSeconds, time.UTC),
		Generator: f.generator,
		Schema:    schema,
		Policy:    policy,
		Archive:   f.archive,
		Metrics:   f.metrics,
		Now:       f.clock.Now,
	})
	return f
}

func sampleTranscript() []dto.TranscriptTurnRequest {
	return []dto.TranscriptTurnRequest{
		{Speaker: "ai", Text: "Kumusta ka?"},
		{Speaker: "user", Text: "Mabuti po."},
		{Speaker: "assistant", Text: "Saan ka pupunta?"},
		{Speaker: "user", Text: "Sa palengke po."},
	}
}

func TestPracticeService_StartSessionUsesPreferences(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)

	prefs := model.DefaultPreferences()
	prefs.CorrectionIntensity = shared.IntensityAggressive
	prefs.TaglishMode = true
	_, err := f.store.Users().CreateUser(ctx, &model.User{ID: "user-1", Preferences: prefs})
	require.NoError(t, err)

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{Mode: strPtr(shared.ModeConversation)})
	require.NoError(t, err)

	assert.Equal(t, shared.IntensityAggressive, session.CorrectionIntensity)
	assert.True(t, session.TaglishMode)
	assert.Equal(t, string(model.SessionCreated), session.State)
	assert.Equal(t, 0, session.DurationSeconds)
	assert.Empty(t, session.Transcript)
	assert.Equal(t, f.clock.Now(), session.StartedAt)
	assert.Equal(t, []string{shared.ModeConversation}, f.metrics.started)
}

func TestPracticeService_StartSessionDefaultsWithoutUser(t *testing.T) {
	f := newPracticeFixture(t, 600, nil)

	session, err := f.svc.StartSession(context.Background(), "ghost", dto.StartSessionRequest{
		TaglishMode: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, shared.IntensityModerate, session.CorrectionIntensity)
	assert.True(t, session.TaglishMode)
	assert.Nil(t, session.Mode)
}

func TestPracticeService_StartSessionQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 300, nil)

	first, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)

	_, err = f.svc.FinalizeSession(ctx, first.ID, "user-1", dto.FinalizeSessionRequest{
		Transcript:      sampleTranscript(),
		DurationSeconds: intPtr(300),
	})
	require.NoError(t, err)

	_, err = f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindQuotaExceeded))

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	usage, ok := appErr.Data.(*dto.DailyUsageResponse)
	require.True(t, ok)
	assert.Equal(t, 300, usage.TotalSeconds)
	assert.Equal(t, 0, usage.RemainingSeconds)

	list, err := f.svc.ListSessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 1, f.metrics.rejected)
}

func finishSession(t *testing.T, f *practiceFixture, userID string, seconds int) {
	t.Helper()
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, userID, dto.StartSessionRequest{})
	require.NoError(t, err)
	_, err = f.svc.FinalizeSession(ctx, session.ID, userID, dto.FinalizeSessionRequest{
		Transcript:      sampleTranscript(),
		DurationSeconds: intPtr(seconds),
	})
	require.NoError(t, err)
}

func TestPracticeService_StartSessionWithPartialUsage(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)

	finishSession(t, f, "user-1", 200)

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(model.SessionCreated), session.State)

	list, err := f.svc.ListSessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.Zero(t, f.metrics.rejected)
}

func TestPracticeService_QuotaOvershootThenRejects(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)
	usage := NewUsageService(f.store.Sessions(), 600, time.UTC)

	before, err := usage.GetDailyUsage(ctx, "user-1", f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, before.TotalSeconds)

	finishSession(t, f, "user-1", 450)

	// 150 seconds left is enough to start another session
	finishSession(t, f, "user-1", 200)

	after, err := usage.GetDailyUsage(ctx, "user-1", f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 650, after.TotalSeconds)
	assert.Equal(t, 0, after.RemainingSeconds)

	_, err = f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindQuotaExceeded))

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	data, ok := appErr.Data.(*dto.DailyUsageResponse)
	require.True(t, ok)
	assert.Equal(t, 650, data.TotalSeconds)
	assert.Equal(t, 0, data.RemainingSeconds)
}

func TestPracticeService_QuotaResetsNextDay(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 60, nil)

	first, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)
	_, err = f.svc.FinalizeSession(ctx, first.ID, "user-1", dto.FinalizeSessionRequest{
		Transcript:      sampleTranscript(),
		DurationSeconds: intPtr(90),
	})
	require.NoError(t, err)

	_, err = f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	assert.True(t, shared.IsKind(err, shared.KindQuotaExceeded))

	f.clock.Advance(24 * time.Hour)
	_, err = f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	assert.NoError(t, err)
}

func TestPracticeService_StartSessionPolicyBlock(t *testing.T) {
	policy := &stubPolicy{decision: PolicyBlock}
	f := newPracticeFixture(t, 600, policy)

	_, err := f.svc.StartSession(context.Background(), "user-1", dto.StartSessionRequest{
		Mode:     strPtr(shared.ModeAssessment),
		Scenario: strPtr(shared.ScenarioFamily),
	})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindForbidden))

	require.Len(t, policy.inputs, 1)
	assert.Equal(t, shared.ModeAssessment, policy.inputs[0].Mode)
	assert.Equal(t, shared.ScenarioFamily, policy.inputs[0].Scenario)
	assert.Equal(t, 600, policy.inputs[0].RemainingSeconds)
	assert.Empty(t, f.metrics.started)
}

func TestPracticeService_StartSessionPolicyError(t *testing.T) {
	f := newPracticeFixture(t, 600, &stubPolicy{err: errors.New("boom")})

	_, err := f.svc.StartSession(context.Background(), "user-1", dto.StartSessionRequest{})
	assert.True(t, shared.IsKind(err, shared.KindInternal))
}

func TestPracticeService_FinalizeSendsOnlyUserLines(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{
		CorrectionIntensity: strPtr(shared.IntensityMinimal),
	})
	require.NoError(t, err)

	f.clock.Advance(95*time.Second + 400*time.Millisecond)
	result, err := f.svc.FinalizeSession(ctx, session.ID, "user-1", dto.FinalizeSessionRequest{
		Transcript: sampleTranscript(),
	})
	require.NoError(t, err)

	assert.True(t, result.Generated)
	assert.Equal(t, string(model.SessionFeedbackReady), result.State)
	require.NotNil(t, result.Feedback)
	assert.Equal(t, model.LevelBeginner, result.Feedback.Overview.EstimatedLevel)

	calls := f.generator.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"Mabuti po.", "Sa palengke po."}, calls[0].UserLines)
	assert.Equal(t, shared.IntensityMinimal, calls[0].CorrectionIntensity)

	stored, err := f.svc.GetSession(ctx, session.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 95, stored.DurationSeconds)
	require.NotNil(t, stored.EndedAt)
	assert.Len(t, stored.Transcript, 4)
	assert.Equal(t, string(model.SpeakerAI), stored.Transcript[2].Speaker)
	assert.Equal(t, result.Feedback.ID, *stored.FeedbackSummaryID)

	assert.Equal(t, []string{session.ID}, f.archive.archived)
	assert.Equal(t, []string{OutcomeSuccess}, f.metrics.outcomes)
}

func TestPracticeService_FinalizeEmptyTranscript(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)

	result, err := f.svc.FinalizeSession(ctx, session.ID, "user-1", dto.FinalizeSessionRequest{})
	require.NoError(t, err)
	assert.False(t, result.Generated)
	assert.Equal(t, string(model.SessionCreated), result.State)
	assert.Nil(t, result.Feedback)
	assert.Empty(t, f.generator.Calls())

	_, err = f.svc.GetFeedback(ctx, session.ID, "user-1")
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestPracticeService_FinalizeForeignSession(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)

	session, err := f.svc.StartSession(ctx, "owner", dto.StartSessionRequest{})
	require.NoError(t, err)

	_, err = f.svc.FinalizeSession(ctx, session.ID, "intruder", dto.FinalizeSessionRequest{
		Transcript: sampleTranscript(),
	})
	assert.True(t, shared.IsKind(err, shared.KindNotFound))

	_, err = f.svc.FinalizeSession(ctx, session.ID, "intruder", dto.FinalizeSessionRequest{})
	assert.True(t, shared.IsKind(err, shared.KindNotFound))

	_, err = f.svc.GetFeedback(ctx, session.ID, "intruder")
	assert.True(t, shared.IsKind(err, shared.KindNotFound))

	assert.Empty(t, f.generator.Calls())
}

func TestPracticeService_SchemaFailureKeepsTranscript(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)
	f.generator.raw = []byte(`{"overview": {"estimatedLevel": "Expert", "confidence": 2, "fluencyNotes": []}}`)

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)

	_, err = f.svc.FinalizeSession(ctx, session.ID, "user-1", dto.FinalizeSessionRequest{
		Transcript:      sampleTranscript(),
		DurationSeconds: intPtr(42),
	})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindSchemaValidation))

	stored, err := f.svc.GetSession(ctx, session.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, string(model.SessionTranscriptFinalized), stored.State)
	assert.Equal(t, 42, stored.DurationSeconds)
	assert.Nil(t, stored.FeedbackSummaryID)

	_, err = f.svc.GetFeedback(ctx, session.ID, "user-1")
	assert.True(t, shared.IsKind(err, shared.KindNotFound))

	assert.Equal(t, []string{OutcomeSchemaFailed}, f.metrics.outcomes)
}

func TestPracticeService_MissingConfidenceSavesNoFeedback(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)

	raw, err := sonic.Marshal(DefaultMockFeedback())
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &doc))
	delete(doc["overview"].(map[string]interface{}), "confidence")
	f.generator.raw, err = sonic.Marshal(doc)
	require.NoError(t, err)

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)

	_, err = f.svc.FinalizeSession(ctx, session.ID, "user-1", dto.FinalizeSessionRequest{
		Transcript: sampleTranscript(),
	})
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindSchemaValidation))

	stored, err := f.svc.GetSession(ctx, session.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, string(model.SessionTranscriptFinalized), stored.State)
	assert.Len(t, stored.Transcript, 4)
	assert.Nil(t, stored.FeedbackSummaryID)

	_, err = f.svc.GetFeedback(ctx, session.ID, "user-1")
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestPracticeService_GeneratorErrorIsGenerationFailure(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)
	f.generator.err = errors.New("upstream unavailable")

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)

	_, err = f.svc.FinalizeSession(ctx, session.ID, "user-1", dto.FinalizeSessionRequest{
		Transcript: sampleTranscript(),
	})
	assert.True(t, shared.IsKind(err, shared.KindGenerationFailed))
	assert.Equal(t, []string{OutcomeGenerationFailed}, f.metrics.outcomes)
}

func TestPracticeService_RegenerateUpsertsFeedback(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)

	first, err := f.svc.FinalizeSession(ctx, session.ID, "user-1", dto.FinalizeSessionRequest{
		Transcript: sampleTranscript(),
	})
	require.NoError(t, err)

	updated := DefaultMockFeedback()
	updated.Overview.EstimatedLevel = model.LevelIntermediate
	f.generator.raw = NewStaticFeedbackGenerator(updated).payload

	second, err := f.svc.RegenerateFeedback(ctx, session.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, second.Generated)
	assert.Equal(t, first.Feedback.ID, second.Feedback.ID)
	assert.Equal(t, model.LevelIntermediate, second.Feedback.Overview.EstimatedLevel)

	got, err := f.svc.GetFeedback(ctx, session.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.LevelIntermediate, got.Overview.EstimatedLevel)
	assert.Len(t, f.generator.Calls(), 2)
}

func TestPracticeService_RegenerateWithoutTranscript(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)

	result, err := f.svc.RegenerateFeedback(ctx, session.ID, "user-1")
	require.NoError(t, err)
	assert.False(t, result.Generated)
	assert.Empty(t, f.generator.Calls())
}

func TestPracticeService_SaveTranscriptDoesNotGenerate(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)

	saved, err := f.svc.SaveTranscript(ctx, session.ID, "user-1", dto.SaveTranscriptRequest{
		Transcript: []dto.TranscriptTurnRequest{
			{Order: intPtr(2), Speaker: "user", Text: "Salamat po."},
			{Order: intPtr(1), Speaker: "ai", Text: "Heto ang kape mo."},
		},
	})
	require.NoError(t, err)

	require.Len(t, saved.Transcript, 2)
	assert.Equal(t, "Heto ang kape mo.", saved.Transcript[0].Text)
	assert.Equal(t, string(model.SessionTranscriptFinalized), saved.State)
	assert.Empty(t, f.generator.Calls())
}

func TestPracticeService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)
	_, err = f.svc.FinalizeSession(ctx, session.ID, "user-1", dto.FinalizeSessionRequest{
		Transcript: sampleTranscript(),
	})
	require.NoError(t, err)

	err = f.svc.DeleteSession(ctx, session.ID, "intruder")
	assert.True(t, shared.IsKind(err, shared.KindNotFound))

	require.NoError(t, f.svc.DeleteSession(ctx, session.ID, "user-1"))
	assert.Equal(t, []string{session.ID}, f.archive.removed)

	_, err = f.svc.GetSession(ctx, session.ID, "user-1")
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
	_, err = f.svc.GetFeedback(ctx, session.ID, "user-1")
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestPracticeService_ArchiveFailureDoesNotBlockFeedback(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t, 600, nil)
	f.archive.err = errors.New("bucket offline")

	session, err := f.svc.StartSession(ctx, "user-1", dto.StartSessionRequest{})
	require.NoError(t, err)

	result, err := f.svc.FinalizeSession(ctx, session.ID, "user-1", dto.FinalizeSessionRequest{
		Transcript: sampleTranscript(),
	})
	require.NoError(t, err)
	assert.True(t, result.Generated)
}
