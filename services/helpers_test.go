package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *gormStore {
	t.Helper()

	db, err := openSqlite(":memory:")
	require.NoError(t, err)

	store := &gormStore{}
	require.NoError(t, store.init(db))
	t.Cleanup(store.close)
	return store
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int { return &v }
func boolPtr(b bool) *bool { return &b }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type stubGenerator struct {
	mu    sync.Mutex
	raw   []byte
	err   error
	calls []FeedbackRequest
}

func newStubGenerator(content model.FeedbackContent) *stubGenerator {
	static := NewStaticFeedbackGenerator(content)
	return &stubGenerator{raw: static.payload}
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) GenerateFeedback(ctx context.Context, req FeedbackRequest) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return g.raw, nil
}

func (g *stubGenerator) Calls() []FeedbackRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]FeedbackRequest(nil), g.calls...)
}

type stubPolicy struct {
	decision string
	err      error
	inputs   []SessionPolicyInput
}

func (p *stubPolicy) Evaluate(ctx context.Context, input SessionPolicyInput) (string, error) {
	p.inputs = append(p.inputs, input)
	return p.decision, p.err
}

type stubArchive struct {
	archived    []string
	removed     []string
	removedUser []string
	err         error
}

func (a *stubArchive) ArchiveTranscript(ctx context.Context, session *model.PracticeSession) error {
	a.archived = append(a.archived, session.ID)
	return a.err
}

func (a *stubArchive) RemoveTranscript(ctx context.Context, userID, sessionID string) error {
	a.removed = append(a.removed, sessionID)
	return a.err
}

func (a *stubArchive) RemoveUserTranscripts(ctx context.Context, userID string) error {
	a.removedUser = append(a.removedUser, userID)
	return a.err
}

type recordingMetrics struct {
	started  []string
	rejected int
	outcomes []string
}

func (m *recordingMetrics) SessionStarted(mode string) { m.started = append(m.started, mode) }
func (m *recordingMetrics) QuotaRejected() { m.rejected++ }
func (m *recordingMetrics) FeedbackGenerated(outcome string, elapsed time.Duration) {
	m.outcomes = append(m.outcomes, outcome)
}
