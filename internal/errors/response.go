package errors

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error     string `json:"error"`                // error code, see codes.go
	Message   string `json:"message"`              // generic, user-facing
	RequestID string `json:"request_id,omitempty"` // correlates with server logs
}

// RespondWithError writes the error envelope and aborts the handler chain.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: c.GetString("request_id"),
	})
}

// Shorthands for common replies

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "An author token is required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, errorCode string, message string) {
	if message == "" {
		message = "You are not allowed to do that"
	}
	RespondWithError(c, http.StatusForbidden, errorCode, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

// TooManyRequests sets Retry-After in whole seconds, rounded up.
func TooManyRequests(c *gin.Context, errorCode string, message string, retryAfter time.Duration) {
	if retryAfter > 0 {
		secs := int((retryAfter + time.Second - 1) / time.Second)
		c.Header("Retry-After", strconv.Itoa(secs))
	}
	if message == "" {
		message = "Too many requests. Please slow down and try again shortly"
	}
	RespondWithError(c, http.StatusTooManyRequests, errorCode, message)
}

func GatewayTimeout(c *gin.Context, message string) {
	if message == "" {
		message = "The upstream service took too long to respond. Please try again"
	}
	RespondWithError(c, http.StatusGatewayTimeout, UpstreamTimeout, message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "The service is temporarily unavailable. Please try again later"
	}
	RespondWithError(c, http.StatusServiceUnavailable, UpstreamUnavailable, message)
}

func BadGateway(c *gin.Context, message string) {
	if message == "" {
		message = "An upstream service failed. Please try again later"
	}
	RespondWithError(c, http.StatusBadGateway, UpstreamError, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong. Please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries per-field messages
type ValidationError struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationError{
		Error:     ValidationInvalidInput,
		Message:   "Some fields are invalid",
		Fields:    fields,
		RequestID: c.GetString("request_id"),
	})
}
