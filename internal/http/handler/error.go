package handler

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"sp3clock/internal/http/middleware"
	"sp3clock/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeInternal hides err from the client. The request logger picks it up.
func writeInternal(c *fiber.Ctx, err error) error {
	c.Locals(middleware.ErrorLocalKey, err.Error())
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// serviceError maps service sentinels onto status codes and error codes.
func serviceError(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", what+" not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrInvalidFilename):
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILENAME", service.ErrInvalidFilename.Error())
	case errors.Is(err, service.ErrAlreadyExists):
		return writeError(c, fiber.StatusConflict, "CONFLICT", service.ErrAlreadyExists.Error())
	case errors.Is(err, service.ErrNoSatellites):
		return writeError(c, fiber.StatusBadRequest, "NO_SATELLITES", service.ErrNoSatellites.Error())
	case errors.Is(err, service.ErrUnknownPreset):
		return writeError(c, fiber.StatusBadRequest, "UNKNOWN_PRESET", err.Error())
	case errors.Is(err, service.ErrInvalidRange):
		return writeError(c, fiber.StatusBadRequest, "INVALID_RANGE", service.ErrInvalidRange.Error())
	case errors.Is(err, service.ErrInvalidWindow):
		return writeError(c, fiber.StatusBadRequest, "INVALID_WINDOW", service.ErrInvalidWindow.Error())
	case errors.Is(err, service.ErrInvalidUnit):
		return writeError(c, fiber.StatusBadRequest, "INVALID_UNIT", service.ErrInvalidUnit.Error())
	case errors.Is(err, service.ErrInvalidTauMode):
		return writeError(c, fiber.StatusBadRequest, "INVALID_TAU_MODE", service.ErrInvalidTauMode.Error())
	case errors.Is(err, service.ErrNoProducts):
		return writeError(c, fiber.StatusUnprocessableEntity, "NO_PRODUCTS", service.ErrNoProducts.Error())
	case errors.Is(err, service.ErrUpstream):
		c.Locals(middleware.ErrorLocalKey, err.Error())
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", service.ErrUpstream.Error())
	default:
		return writeInternal(c, err)
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body too large")
		default:
			return writeInternal(c, err)
		}
	}
}
