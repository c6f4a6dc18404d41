package services

import (
	"context"
	"testing"

	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/stretchr/testify/assert"
)

func TestTranscriptObjectName(t *testing.T) {
	assert.Equal(t, "transcripts/user-1/session-1.json", TranscriptObjectName("user-1", "session-1"))
	assert.Equal(t, "transcripts/user-1/", transcriptPrefix("user-1"))
}

func TestMinIOService_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	svc := &MinIOService{}

	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.ArchiveTranscript(ctx, &model.PracticeSession{ID: "s", UserID: "u"}))
	assert.NoError(t, svc.RemoveTranscript(ctx, "u", "s"))
	assert.NoError(t, svc.RemoveUserTranscripts(ctx, "u"))
}
