package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/salita_api/dto"
	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/lac-hong-legacy/salita_api/shared"
	log "github.com/sirupsen/logrus"
)

const PRACTICE_SVC = "practice_svc"

type UsageLedger interface {
	GetDailyUsage(ctx context.Context, userID string, asOf time.Time) (*dto.DailyUsageResponse, error)
}

// PracticeDeps wires a PracticeService outside the service container.
// Policy, Archive and Metrics are optional.
type PracticeDeps struct {
	Sessions  SessionStore
	Feedback  FeedbackStore
	Users     UserStore
	Usage     UsageLedger
	Generator FeedbackGenerator
	Schema    *FeedbackSchema
	Policy    SessionPolicy
	Archive   TranscriptArchive
	Metrics   PracticeMetrics
	Now       func() time.Time
}

// PracticeService runs a practice session from start through feedback.
type PracticeService struct {
	appContext.DefaultService

	sessions  SessionStore
	feedback  FeedbackStore
	users     UserStore
	usage     UsageLedger
	generator FeedbackGenerator
	schema    *FeedbackSchema
	policy    SessionPolicy
	archive   TranscriptArchive
	metrics   PracticeMetrics
	now       func() time.Time
}

func NewPracticeService(deps PracticeDeps) *PracticeService {
	svc := &PracticeService{}
	svc.wire(deps)
	return svc
}

func (svc PracticeService) Id() string {
	return PRACTICE_SVC
}

func (svc *PracticeService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *PracticeService) Start() error {
	db := svc.Service(DATABASE_SVC).(Database)
	generatorSvc := svc.Service(GENERATOR_SVC).(*GeneratorService)

	deps := PracticeDeps{
		Sessions:  db.Sessions(),
		Feedback:  db.Feedback(),
		Users:     db.Users(),
		Usage:     svc.Service(USAGE_SVC).(*UsageService),
		Generator: generatorSvc.Generator(),
		Schema:    generatorSvc.Schema(),
	}
	if policySvc, ok := svc.Service(POLICY_SVC).(*PolicyService); ok {
		deps.Policy = policySvc.Engine()
	}
	if minioSvc, ok := svc.Service(MINIO_SVC).(*MinIOService); ok {
		deps.Archive = minioSvc
	}
	if monitoringSvc, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		deps.Metrics = monitoringSvc
	}

	svc.wire(deps)
	return nil
}

func (svc *PracticeService) wire(deps PracticeDeps) {
	svc.sessions = deps.Sessions
	svc.feedback = deps.Feedback
	svc.users = deps.Users
	svc.usage = deps.Usage
	svc.generator = deps.Generator
	svc.schema = deps.Schema
	svc.policy = deps.Policy
	svc.archive = deps.Archive
	svc.metrics = deps.Metrics
	svc.now = deps.Now

	if svc.metrics == nil {
		svc.metrics = noopMetrics{}
	}
	if svc.now == nil {
		svc.now = time.Now
	}
}

// ==================== SESSION LIFECYCLE ====================

// StartSession opens a new session if the user still has practice time left today.
func (svc *PracticeService) StartSession(ctx context.Context, userID string, req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	now := svc.now()

	usage, err := svc.usage.GetDailyUsage(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if usage.RemainingSeconds <= 0 {
		svc.metrics.QuotaRejected()
		log.WithFields(log.Fields{
			"user_id":       userID,
			"total_seconds": usage.TotalSeconds,
		}).Info("Session start refused, daily limit reached")
		return nil, shared.NewQuotaExceededError(usage)
	}

	if err := svc.checkPolicy(ctx, userID, req, usage); err != nil {
		return nil, err
	}

	prefs, err := svc.preferencesFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.CorrectionIntensity != nil {
		prefs.CorrectionIntensity = *req.CorrectionIntensity
	}
	if req.TaglishMode != nil {
		prefs.TaglishMode = *req.TaglishMode
	}

	session, err := svc.sessions.CreateSession(ctx, &model.PracticeSession{
		UserID:              userID,
		Mode:                req.Mode,
		Scenario:            req.Scenario,
		Transcript:          []model.TranscriptTurn{},
		CorrectionIntensity: prefs.CorrectionIntensity,
		TaglishMode:         prefs.TaglishMode,
		StartedAt:           now.UTC(),
		DurationSeconds:     0,
		CreatedAt:           now.UTC(),
	})
	if err != nil {
		return nil, err
	}

	svc.metrics.SessionStarted(derefString(req.Mode))

	log.WithFields(log.Fields{
		"user_id":    userID,
		"session_id": session.ID,
		"mode":       derefString(req.Mode),
	}).Info("Practice session started")

	resp := dto.NewSessionResponse(session)
	return &resp, nil
}

func (svc *PracticeService) checkPolicy(ctx context.Context, userID string, req dto.StartSessionRequest, usage *dto.DailyUsageResponse) error {
	if svc.policy == nil {
		return nil
	}

	decision, err := svc.policy.Evaluate(ctx, SessionPolicyInput{
		UserID:            userID,
		Mode:              derefString(req.Mode),
		Scenario:          derefString(req.Scenario),
		TotalSeconds:      usage.TotalSeconds,
		RemainingSeconds:  usage.RemainingSeconds,
		DailyLimitSeconds: usage.DailyLimitSeconds,
	})
	if err != nil {
		return shared.NewInternalError(err, "Failed to evaluate session policy")
	}
	if decision != PolicyAllow {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"decision": decision,
		}).Info("Session start refused by policy")
		return shared.NewForbiddenError(nil, "Session not allowed")
	}
	return nil
}

func (svc *PracticeService) preferencesFor(ctx context.Context, userID string) (model.UserPreferences, error) {
	user, err := svc.users.GetUser(ctx, userID)
	if err != nil {
		if shared.IsKind(err, shared.KindNotFound) {
			return model.DefaultPreferences(), nil
		}
		return model.UserPreferences{}, err
	}

	prefs := user.Preferences
	if prefs.CorrectionIntensity == "" {
		prefs.CorrectionIntensity = shared.IntensityModerate
	}
	return prefs, nil
}

// FinalizeSession stores the final transcript and generates feedback for it.
// An empty transcript only checks ownership and reports Generated=false.
func (svc *PracticeService) FinalizeSession(ctx context.Context, sessionID, userID string, req dto.FinalizeSessionRequest) (*dto.FeedbackResult, error) {
	session, err := svc.sessions.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if len(req.Transcript) == 0 {
		return &dto.FeedbackResult{
			Generated: false,
			SessionID: session.ID,
			State:     string(session.State()),
		}, nil
	}

	endedAt := svc.now().UTC()
	if req.EndedAt != nil {
		endedAt = req.EndedAt.UTC()
	}

	duration := 0
	if req.DurationSeconds != nil {
		duration = *req.DurationSeconds
	} else if elapsed := endedAt.Sub(session.StartedAt); elapsed > 0 {
		duration = int(elapsed / time.Second)
	}

	updated, err := svc.sessions.ReplaceTranscript(ctx, sessionID, userID, model.TranscriptUpdate{
		Turns:           dto.ToTranscriptTurns(req.Transcript),
		EndedAt:         &endedAt,
		DurationSeconds: &duration,
	})
	if err != nil {
		return nil, err
	}

	svc.archiveTranscript(ctx, updated)

	return svc.generateFeedback(ctx, updated)
}

// SaveTranscript replaces the transcript without generating feedback.
func (svc *PracticeService) SaveTranscript(ctx context.Context, sessionID, userID string, req dto.SaveTranscriptRequest) (*dto.SessionResponse, error) {
	updated, err := svc.sessions.ReplaceTranscript(ctx, sessionID, userID, model.TranscriptUpdate{
		Turns: dto.ToTranscriptTurns(req.Transcript),
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewSessionResponse(updated)
	return &resp, nil
}

// RegenerateFeedback runs generation again on the stored transcript.
func (svc *PracticeService) RegenerateFeedback(ctx context.Context, sessionID, userID string) (*dto.FeedbackResult, error) {
	session, err := svc.sessions.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if len(session.Transcript) == 0 {
		return &dto.FeedbackResult{
			Generated: false,
			SessionID: session.ID,
			State:     string(session.State()),
		}, nil
	}

	return svc.generateFeedback(ctx, session)
}

func (svc *PracticeService) generateFeedback(ctx context.Context, session *model.PracticeSession) (*dto.FeedbackResult, error) {
	started := time.Now()
	fields := log.Fields{
		"user_id":    session.UserID,
		"session_id": session.ID,
		"provider":   svc.generator.Name(),
	}

	raw, err := svc.generator.GenerateFeedback(ctx, FeedbackRequest{
		UserID:              session.UserID,
		SessionID:           session.ID,
		UserLines:           session.UserLines(),
		CorrectionIntensity: session.CorrectionIntensity,
		TaglishMode:         session.TaglishMode,
	})
	if err != nil {
		svc.metrics.FeedbackGenerated(OutcomeGenerationFailed, time.Since(started))
		log.WithFields(fields).WithError(err).Error("Feedback generation failed")
		if appErr, ok := shared.GetAppError(err); ok {
			return nil, appErr
		}
		return nil, shared.NewGenerationError(err, "Feedback generation failed")
	}

	content, err := svc.schema.Parse(raw)
	if err != nil {
		outcome := OutcomeGenerationFailed
		if shared.IsKind(err, shared.KindSchemaValidation) {
			outcome = OutcomeSchemaFailed
		}
		svc.metrics.FeedbackGenerated(outcome, time.Since(started))
		log.WithFields(fields).WithError(err).Error("Feedback output rejected")
		return nil, err
	}

	summary, err := svc.feedback.SaveFeedback(ctx, model.NewFeedbackSummary(session.UserID, session.ID, *content))
	if err != nil {
		svc.metrics.FeedbackGenerated(OutcomeStorageFailed, time.Since(started))
		return nil, err
	}

	if err := svc.sessions.AttachFeedback(ctx, session.ID, session.UserID, summary.ID); err != nil {
		svc.metrics.FeedbackGenerated(OutcomeStorageFailed, time.Since(started))
		return nil, err
	}

	svc.metrics.FeedbackGenerated(OutcomeSuccess, time.Since(started))
	log.WithFields(fields).WithField("feedback_id", summary.ID).Info("Feedback generated")

	return &dto.FeedbackResult{
		Generated: true,
		SessionID: session.ID,
		State:     string(model.SessionFeedbackReady),
		Feedback:  dto.NewFeedbackSummaryResponse(summary),
	}, nil
}

func (svc *PracticeService) archiveTranscript(ctx context.Context, session *model.PracticeSession) {
	if svc.archive == nil {
		return
	}
	if err := svc.archive.ArchiveTranscript(ctx, session); err != nil {
		log.WithFields(log.Fields{
			"session_id": session.ID,
			"error":      err.Error(),
		}).Warn("Failed to archive transcript")
	}
}

// ==================== READS AND DELETES ====================

func (svc *PracticeService) GetSession(ctx context.Context, sessionID, userID string) (*dto.SessionResponse, error) {
	session, err := svc.sessions.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewSessionResponse(session)
	return &resp, nil
}

func (svc *PracticeService) ListSessions(ctx context.Context, userID string) (*dto.SessionListResponse, error) {
	sessions, err := svc.sessions.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, dto.NewSessionResponse(&sessions[i]))
	}

	return &dto.SessionListResponse{Sessions: out, Total: len(out)}, nil
}

func (svc *PracticeService) GetFeedback(ctx context.Context, sessionID, userID string) (*dto.FeedbackSummaryResponse, error) {
	if _, err := svc.sessions.GetSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	summary, err := svc.feedback.GetFeedbackBySession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewFeedbackSummaryResponse(summary), nil
}

func (svc *PracticeService) DeleteSession(ctx context.Context, sessionID, userID string) error {
	if err := svc.sessions.DeleteSession(ctx, sessionID, userID); err != nil {
		return err
	}

	if svc.archive != nil {
		if err := svc.archive.RemoveTranscript(ctx, userID, sessionID); err != nil {
			log.WithFields(log.Fields{
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Failed to remove archived transcript")
		}
	}

	log.WithFields(log.Fields{"user_id": userID, "session_id": sessionID}).Info("Practice session deleted")
	return nil
}

type noopMetrics struct{}

func (noopMetrics) SessionStarted(string) {}
func (noopMetrics) QuotaRejected() {}
func (noopMetrics) FeedbackGenerated(string, time.Duration) {}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
