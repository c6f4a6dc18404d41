package shared

const (
	UserID    = "user_id"
	UserEmail = "user_email"

	ModeConversation     = "conversation"
	ModeBeginner         = "beginner"
	ModeRepeatAfterMe    = "repeat_after_me"
	ModeSpeakLikeALocal  = "speak_like_a_local"
	ModeAssessment       = "assessment"
	ScenarioDailyLife    = "daily_life"
	ScenarioOrderingFood = "ordering_food"
	ScenarioDirections   = "directions"
	ScenarioMeeting      = "meeting_someone"
	ScenarioDating       = "dating"
	ScenarioFamily       = "family"

	IntensityMinimal    = "minimal"
	IntensityModerate   = "moderate"
	IntensityAggressive = "aggressive"

	ToneCasual  = "casual"
	TonePolite  = "polite"
	TonePlayful = "playful"
	ToneCoach   = "coach"

	RateLimitSessionStart     = "session_start"
	RateLimitFeedbackGenerate = "feedback_generate"
)
