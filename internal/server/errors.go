package server

import (
	"errors"
	"net/http"

	judgingdomain "github.com/forgehack/platform/internal/judging/domain"
	otpdomain "github.com/forgehack/platform/internal/otp/domain"
	regdomain "github.com/forgehack/platform/internal/registration/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts errors attached to the context into the
// shared error payload. Handlers report failures with AbortWithError and
// never shape error JSON themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "unauthorized"}

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, regdomain.ErrInvalidRequest),
		errors.Is(err, judgingdomain.ErrInvalidSubmission):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: "invalid request"}

	case errors.Is(err, regdomain.ErrInvalidEmail),
		errors.Is(err, otpdomain.ErrInvalidEmail):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: "invalid email address"}

	case errors.Is(err, regdomain.ErrInvalidStatus):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: "invalid review status"}

	case errors.Is(err, judgingdomain.ErrScoreOutOfRange):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: "scores must be between 0 and 10"}

	case errors.Is(err, otpdomain.ErrCodeMismatch),
		errors.Is(err, otpdomain.ErrCodeExpired):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: "invalid or expired verification code"}

	case errors.Is(err, otpdomain.ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{Type: "rate_limited", Message: "too many requests"}

	case errors.Is(err, regdomain.ErrDuplicateTeam):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: "a team with this name is already registered"}

	case errors.Is(err, regdomain.ErrTeamNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "not found"}

	case errors.Is(err, otpdomain.ErrDeliveryFailed):
		return http.StatusServiceUnavailable, errorPayload{Type: "service_unavailable", Message: "could not deliver the verification code"}

	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}

// classifyErrorForLog labels request errors for the access log without
// leaking internals.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return "internal", payload.Type
	}
	return "client", payload.Type
}
