package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo pairs a status and code with a message that is safe to show.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError turns a storage error into a client-safe ErrorInfo. Driver
// messages are never passed through.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: getDefaultErrorMessage(context)}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "That already exists"}
	}

	errLower := strings.ToLower(err.Error())

	// Postgres 23505 / SQLite UNIQUE
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "That already exists"}
	}
	// Postgres 23503 / SQLite FOREIGN KEY
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}
	if strings.Contains(errLower, "violates not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: "A required field is missing"}
	}
	if strings.Contains(errLower, "check constraint") {
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationInvalidInput, Message: "Some fields are invalid"}
	}
	if strings.Contains(errLower, "connection refused") || strings.Contains(errLower, "no such host") {
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: InternalDatabase, Message: "The service is temporarily unavailable. Please try again later"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "comment"):
		return "Comment not found"
	case strings.Contains(contextLower, "anime"):
		return "Anime not found"
	case strings.Contains(contextLower, "share"):
		return "Shared roast not found"
	default:
		return "The requested resource was not found"
	}
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Could not save that. Please try again later"
	case strings.Contains(contextLower, "update"), strings.Contains(contextLower, "edit"):
		return "Could not update that. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Could not delete that. Please try again later"
	default:
		return "Something went wrong. Please try again later"
	}
}

// ParseAndRespond parses err and writes the matching error reply.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, info.Status, info.Code, info.Message)
}
