package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/animeroast-backend/internal/app/service"
	apperrors "github.com/ikkim/animeroast-backend/internal/errors"
	"github.com/ikkim/animeroast-backend/internal/middleware"
)

const spamRetryAfter = time.Minute

// respondServiceError maps a service error onto the HTTP error envelope.
// Wrapped detail is only logged.
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	var spamErr *service.SpamError
	switch {
	case errors.As(err, &spamErr):
		log.Warn("Comment rejected as spam", map[string]interface{}{"reason": spamErr.Reason})
		apperrors.TooManyRequests(c, apperrors.CommentSpam, spamErr.Reason, spamRetryAfter)
	case errors.Is(err, service.ErrSpamDetected):
		apperrors.TooManyRequests(c, apperrors.CommentSpam, "", spamRetryAfter)
	case errors.Is(err, service.ErrValidation):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, validationMessage(err))
	case errors.Is(err, service.ErrInvalidCursor):
		apperrors.BadRequest(c, apperrors.ValidationInvalidCursor, "The cursor does not match any comment")
	case errors.Is(err, service.ErrCommentNotFound):
		apperrors.NotFound(c, apperrors.CommentNotFound, "Comment not found")
	case errors.Is(err, service.ErrParentNotFound):
		apperrors.NotFound(c, apperrors.CommentParentNotFound, "The comment you replied to does not exist")
	case errors.Is(err, service.ErrAnimeNotFound):
		apperrors.NotFound(c, apperrors.AnimeNotFound, "Anime not found")
	case errors.Is(err, service.ErrShareNotFound):
		apperrors.NotFound(c, apperrors.ShareNotFound, "Shared roast not found")
	case errors.Is(err, service.ErrPermissionDenied):
		apperrors.Forbidden(c, apperrors.AuthzOwnerOnly, "Only the author can do that")
	case errors.Is(err, service.ErrEditWindowExpired):
		apperrors.Forbidden(c, apperrors.CommentEditExpired, "The edit window for this comment has closed")
	case errors.Is(err, service.ErrCommentDeleted):
		apperrors.Conflict(c, apperrors.CommentDeleted, "That comment has been deleted")
	case errors.Is(err, service.ErrUpstreamTimeout):
		log.Warn("Upstream timed out", map[string]interface{}{"context": context, "error": err.Error()})
		apperrors.GatewayTimeout(c, "")
	case errors.Is(err, service.ErrUpstreamUnavailable):
		log.Warn("Upstream unavailable", map[string]interface{}{"context": context, "error": err.Error()})
		apperrors.ServiceUnavailable(c, "")
	case errors.Is(err, service.ErrUpstreamFailed):
		log.Error("Upstream failed", err, map[string]interface{}{"context": context})
		apperrors.BadGateway(c, "")
	default:
		log.Error("Request failed", err, map[string]interface{}{"context": context})
		apperrors.ParseAndRespond(c, err, context)
	}
}

// validationMessage keeps the detail after the sentinel prefix; those
// messages are written for users.
func validationMessage(err error) string {
	if detail, ok := strings.CutPrefix(err.Error(), service.ErrValidation.Error()+": "); ok && detail != "" {
		return detail
	}
	return "Some fields are invalid"
}

// bindJSON binds the body into dst, replying 400 or 413 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apperrors.RespondWithError(c, http.StatusRequestEntityTooLarge, apperrors.ValidationBodyTooLarge, "The request body is too large")
			return false
		}
		middleware.GetLoggerFromContext(c).Debug("Invalid request body", map[string]interface{}{"error": err.Error()})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The request body is invalid")
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "The id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func identityFrom(c *gin.Context) service.Identity {
	id, _ := middleware.GetAuthorID(c)
	return service.Identity{
		AuthorID:   id,
		AuthorName: middleware.GetAuthorName(c),
		IPHash:     middleware.GetIPHash(c),
	}
}
