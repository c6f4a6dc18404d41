package dto

// ==================== ERROR RESPONSE DTOs ====================

type ErrorResponse struct {
	Code    int    `json:"code" example:"403"`
	Message string `json:"message" example:"Daily limit reached"`
	Error   string `json:"error,omitempty" example:"QUOTA_EXCEEDED"`
}

type ValidationError struct {
	Field   string `json:"field" example:"FinalizeSessionRequest.Transcript[0].Text"`
	Message string `json:"message" example:"Text must not be blank"`
}

type ValidationErrorResponse struct {
	Code    int               `json:"code" example:"400"`
	Message string            `json:"message" example:"Validation failed"`
	Error   string            `json:"error" example:"BAD_REQUEST"`
	Errors  []ValidationError `json:"errors"`
}
