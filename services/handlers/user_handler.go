package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/salita_api/dto"
	"github.com/lac-hong-legacy/salita_api/shared"
)

type UserHandler struct {
	userSvc UserServiceInterface
}

func NewUserHandler(userSvc UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// @Summary Get user profile
// @Description Get the caller's profile and practice preferences
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	profile, err := h.userSvc.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", profile)
}

// @Summary Update preferences
// @Description Update coaching preferences. Omitted fields keep their value.
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param request body dto.UpdatePreferencesRequest true "Preferences"
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/v1/users/me/preferences [patch]
func (h *UserHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	profile, err := h.userSvc.UpdatePreferences(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", profile)
}

// @Summary Delete account
// @Description Delete the caller's account with every session and feedback summary
// @Tags user
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response
// @Router /api/v1/users/me [delete]
func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.userSvc.DeleteAccount(c.UserContext(), userID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Account deleted", nil)
}
