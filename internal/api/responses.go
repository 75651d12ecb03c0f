package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adify/rewards/internal/domain/currency"
	"github.com/adify/rewards/internal/domain/pools"
	"github.com/adify/rewards/internal/domain/valuation"
	"github.com/adify/rewards/internal/gateways/database/repositories"
)

// APIResponse is the envelope for every admin API response.
type APIResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func sendSuccess(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func sendError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success:   false,
		Error:     &APIError{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}

func badRequest(message string) error {
	return fiber.NewError(http.StatusBadRequest, message)
}

// statusFor maps domain and repository errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, codeFor(fe.Code)
	case errors.Is(err, pools.ErrPoolNotFound), repositories.IsNotFound(err):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, pools.ErrAlreadyDistributed),
		errors.Is(err, pools.ErrDistributionInProgress),
		errors.Is(err, valuation.ErrRefreshInProgress):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, pools.ErrDistributionIncomplete):
		return http.StatusAccepted, "INCOMPLETE"
	case errors.Is(err, pools.ErrInvalidMonth),
		errors.Is(err, currency.ErrInvalidRate),
		errors.Is(err, currency.ErrInvalidCurrencyPair):
		return http.StatusBadRequest, "BAD_REQUEST"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
	}
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		if status >= 500 {
			return "INTERNAL_SERVER_ERROR"
		}
		return "ERROR"
	}
}
