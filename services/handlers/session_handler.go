package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/salita_api/dto"
	"github.com/lac-hong-legacy/salita_api/shared"
)

type SessionHandler struct {
	practiceSvc PracticeServiceInterface
}

func NewSessionHandler(practiceSvc PracticeServiceInterface) *SessionHandler {
	return &SessionHandler{practiceSvc: practiceSvc}
}

// @Summary Start practice session
// @Description Start a new voice practice session. Refused once the daily practice limit is used up.
// @Tags sessions
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param request body dto.StartSessionRequest true "Session options"
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 403 {object} shared.Response{data=dto.DailyUsageResponse}
// @Failure 429 {object} shared.Response{data=dto.RateLimitInfo}
// @Router /api/v1/sessions [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.StartSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return shared.NewBadRequestError(err, "Invalid request")
		}
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	session, err := h.practiceSvc.StartSession(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary List practice sessions
// @Description List the caller's sessions, newest first
// @Tags sessions
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.SessionListResponse}
// @Router /api/v1/sessions [get]
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	sessions, err := h.practiceSvc.ListSessions(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", sessions)
}

// @Summary Get practice session
// @Tags sessions
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	session, err := h.practiceSvc.GetSession(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Save transcript
// @Description Replace the session transcript without generating feedback
// @Tags sessions
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Session ID"
// @Param request body dto.SaveTranscriptRequest true "Transcript"
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} shared.Response
// @Router /api/v1/sessions/{id}/transcript [patch]
func (h *SessionHandler) SaveTranscript(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.SaveTranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	session, err := h.practiceSvc.SaveTranscript(c.UserContext(), c.Params("id"), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Complete session
// @Description Store the final transcript and generate feedback. An empty transcript returns generated=false.
// @Tags sessions
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Session ID"
// @Param request body dto.FinalizeSessionRequest true "Final transcript"
// @Success 200 {object} shared.Response{data=dto.FeedbackResult}
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} shared.Response
// @Failure 502 {object} shared.Response
// @Router /api/v1/sessions/{id}/complete [post]
func (h *SessionHandler) FinalizeSession(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.FinalizeSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	result, err := h.practiceSvc.FinalizeSession(c.UserContext(), c.Params("id"), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Regenerate feedback
// @Description Run feedback generation again on the stored transcript
// @Tags feedback
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.FeedbackResult}
// @Failure 404 {object} shared.Response
// @Failure 502 {object} shared.Response
// @Router /api/v1/sessions/{id}/feedback [post]
func (h *SessionHandler) RegenerateFeedback(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	result, err := h.practiceSvc.RegenerateFeedback(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Get feedback
// @Tags feedback
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.FeedbackSummaryResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/sessions/{id}/feedback [get]
func (h *SessionHandler) GetFeedback(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	feedback, err := h.practiceSvc.GetFeedback(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", feedback)
}

// @Summary Delete practice session
// @Description Delete a session with its transcript and feedback
// @Tags sessions
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Session ID"
// @Success 200 {object} shared.Response
// @Failure 404 {object} shared.Response
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.practiceSvc.DeleteSession(c.UserContext(), c.Params("id"), userID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Session deleted", nil)
}
