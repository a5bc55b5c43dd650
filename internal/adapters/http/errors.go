package http

import "github.com/gofiber/fiber/v2"

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

func errTooManyRequests(c *fiber.Ctx) error {
	return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
}

func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

// errInternal logs err with the request logger and returns a 500 that
// does not leak the cause.
func errInternal(c *fiber.Ctx, err error) error {
	LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return newError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
}
