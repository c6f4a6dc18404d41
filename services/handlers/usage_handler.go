package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/salita_api/shared"
)

type UsageHandler struct {
	usageSvc UsageServiceInterface
	now      func() time.Time
}

func NewUsageHandler(usageSvc UsageServiceInterface) *UsageHandler {
	return &UsageHandler{usageSvc: usageSvc, now: time.Now}
}

// @Summary Daily usage
// @Description Seconds practiced today against the daily limit
// @Tags usage
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.DailyUsageResponse}
// @Router /api/v1/usage/daily [get]
func (h *UsageHandler) GetDailyUsage(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	usage, err := h.usageSvc.GetDailyUsage(c.UserContext(), userID, h.now())
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", usage)
}
