package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"portfolioapi/internal/assets"
	"portfolioapi/internal/assistant"
	"portfolioapi/internal/http/middleware"
	"portfolioapi/internal/service"
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

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NO_SELECTION", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message
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

// writeServiceError maps domain errors onto HTTP responses. Unknown errors are logged
// and reported as a generic 500 so internals never leak.
func writeServiceError(c *fiber.Ctx, err error) error {
	var upstream *assistant.UpstreamError
	switch {
	case errors.Is(err, service.ErrNoFiles):
		return writeError(c, fiber.StatusBadRequest, "NO_FILES", "no files provided")
	case errors.Is(err, service.ErrNoSelection):
		return writeError(c, fiber.StatusBadRequest, "NO_SELECTION", "select at least one image")
	case errors.Is(err, service.ErrUnknownSession):
		return writeError(c, fiber.StatusBadRequest, "UNKNOWN_SESSION", "upload session not found or already used")
	case errors.Is(err, assets.ErrInvalidSession):
		return writeError(c, fiber.StatusBadRequest, "INVALID_SESSION", "invalid session id")
	case errors.Is(err, assets.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "image not found")
	case errors.Is(err, assistant.ErrEmptyInstruction):
		return writeError(c, fiber.StatusBadRequest, "INSTRUCTION_REQUIRED", "instruction is required")
	case errors.Is(err, assistant.ErrUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "ASSISTANT_UNAVAILABLE", "the writing assistant is not configured")
	case errors.As(err, &upstream):
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_FAILURE", upstream.Error())
	default:
		zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
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
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "upload exceeds the size limit")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
