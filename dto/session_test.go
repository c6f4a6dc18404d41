package dto

import (
	"testing"

	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestStartSessionRequestValidate(t *testing.T) {
	assert.NoError(t, StartSessionRequest{}.Validate())
	assert.NoError(t, StartSessionRequest{
		Mode:                strPtr("repeat_after_me"),
		Scenario:            strPtr("family"),
		CorrectionIntensity: strPtr("aggressive"),
	}.Validate())

	err := StartSessionRequest{Mode: strPtr("karaoke")}.Validate()
	require.Error(t, err)
	errs := FormatValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "must be one of")

	assert.Error(t, StartSessionRequest{Scenario: strPtr("space")}.Validate())
	assert.Error(t, StartSessionRequest{CorrectionIntensity: strPtr("brutal")}.Validate())
}

func TestFinalizeSessionRequestValidate(t *testing.T) {
	t.Run("empty transcript is legal", func(t *testing.T) {
		assert.NoError(t, FinalizeSessionRequest{}.Validate())
	})

	t.Run("blank text rejected", func(t *testing.T) {
		err := FinalizeSessionRequest{Transcript: []TranscriptTurnRequest{
			{Speaker: "user", Text: "   "},
		}}.Validate()
		require.Error(t, err)
		errs := FormatValidationErrors(err)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Field, "Transcript[0]")
	})

	t.Run("negative duration rejected", func(t *testing.T) {
		d := -1
		assert.Error(t, FinalizeSessionRequest{DurationSeconds: &d}.Validate())
	})
}

func TestToTranscriptTurns(t *testing.T) {
	order := 5
	turns := ToTranscriptTurns([]TranscriptTurnRequest{
		{Speaker: "assistant", Text: "Kumusta?"},
		{Speaker: "user", Text: "Mabuti po.", Order: &order},
		{Speaker: "robot", Text: "beep"},
	})

	require.Len(t, turns, 3)
	assert.Equal(t, model.SpeakerAI, turns[0].Speaker)
	assert.Equal(t, 0, turns[0].Position)
	assert.Equal(t, model.SpeakerUser, turns[1].Speaker)
	assert.Equal(t, 5, *turns[1].Order)
	assert.Equal(t, model.SpeakerUnknown, turns[2].Speaker)
	assert.Equal(t, 2, turns[2].Position)
}

func TestUpdatePreferencesApply(t *testing.T) {
	prefs := model.DefaultPreferences()
	taglish := true
	updated := UpdatePreferencesRequest{
		PreferredTone: strPtr("coach"),
		TaglishMode:   &taglish,
	}.Apply(prefs)

	assert.Equal(t, "coach", updated.PreferredTone)
	assert.True(t, updated.TaglishMode)
	assert.Equal(t, "moderate", updated.CorrectionIntensity)
	assert.Equal(t, model.PreferencesVersion, updated.Version)

	assert.Error(t, UpdatePreferencesRequest{PreferredTone: strPtr("rude")}.Validate())
}
