package shared

import (
	"errors"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Error   ErrorKind   `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

var jsonAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

var (
	successResponse       = mustMarshal(Response{Code: 200, Message: "Success"})
	createdResponse       = mustMarshal(Response{Code: 201, Message: "Created"})
	notFoundResponse      = mustMarshal(Response{Code: 404, Message: "Not Found", Error: KindNotFound})
	unauthorizedResponse  = mustMarshal(Response{Code: 401, Message: "Unauthorized", Error: KindUnauthorized})
	internalErrorResponse = mustMarshal(Response{Code: 500, Message: "Internal Server Error", Error: KindInternal})
)

func mustMarshal(v interface{}) []byte {
	b, _ := jsonAPI.Marshal(v)
	return b
}

func send(c *fiber.Ctx, httpCode int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(httpCode).Send(body)
}

func ResponseJSON(c *fiber.Ctx, httpCode int, message string, data interface{}) error {
	if data == nil {
		switch {
		case httpCode == 200 && message == "Success":
			return send(c, httpCode, successResponse)
		case httpCode == 201 && message == "Created":
			return send(c, httpCode, createdResponse)
		}
	}

	body, err := jsonAPI.Marshal(Response{
		Code:    httpCode,
		Message: message,
		Data:    data,
	})
	if err != nil {
		return err
	}
	return send(c, httpCode, body)
}

// ResponseError writes an AppError using the standard envelope.
func ResponseError(c *fiber.Ctx, appErr *AppError) error {
	body, err := jsonAPI.Marshal(Response{
		Code:    appErr.StatusCode,
		Message: appErr.Message,
		Error:   appErr.Kind,
		Data:    appErr.Data,
	})
	if err != nil {
		return err
	}
	return send(c, appErr.StatusCode, body)
}

func ResponseNotFound(c *fiber.Ctx) error {
	return send(c, fiber.StatusNotFound, notFoundResponse)
}

func ResponseUnauthorized(c *fiber.Ctx) error {
	return send(c, fiber.StatusUnauthorized, unauthorizedResponse)
}

func ResponseInternalError(c *fiber.Ctx) error {
	return send(c, fiber.StatusInternalServerError, internalErrorResponse)
}

// ErrorHandler is the fiber error handler shared by every app in the service.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := GetAppError(err); ok {
		if appErr.StatusCode >= 500 {
			log.WithFields(log.Fields{
				"path":       c.Path(),
				"method":     c.Method(),
				"error_type": appErr.Kind,
			}).WithError(err).Error("Request failed")
		}
		return ResponseError(c, appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return ResponseNotFound(c)
		case fiber.StatusUnauthorized:
			return ResponseUnauthorized(c)
		}
		kind := KindBadRequest
		if fiberErr.Code >= 500 {
			kind = KindInternal
		}
		return ResponseError(c, &AppError{
			StatusCode: fiberErr.Code,
			Kind:       kind,
			Message:    fiberErr.Message,
		})
	}

	log.WithFields(log.Fields{
		"path":   c.Path(),
		"method": c.Method(),
	}).WithError(err).Error("Unhandled request error")
	return ResponseInternalError(c)
}
