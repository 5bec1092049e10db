package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/animeroast-backend/internal/app/service"
	apperrors "github.com/ikkim/animeroast-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "validation", err: fmt.Errorf("%w: content is empty", service.ErrValidation), wantStatus: http.StatusBadRequest, wantCode: apperrors.ValidationInvalidInput},
		{name: "cursor", err: service.ErrInvalidCursor, wantStatus: http.StatusBadRequest, wantCode: apperrors.ValidationInvalidCursor},
		{name: "comment missing", err: service.ErrCommentNotFound, wantStatus: http.StatusNotFound, wantCode: apperrors.CommentNotFound},
		{name: "parent missing", err: service.ErrParentNotFound, wantStatus: http.StatusNotFound, wantCode: apperrors.CommentParentNotFound},
		{name: "anime missing", err: service.ErrAnimeNotFound, wantStatus: http.StatusNotFound, wantCode: apperrors.AnimeNotFound},
		{name: "share missing", err: service.ErrShareNotFound, wantStatus: http.StatusNotFound, wantCode: apperrors.ShareNotFound},
		{name: "not author", err: service.ErrPermissionDenied, wantStatus: http.StatusForbidden, wantCode: apperrors.AuthzOwnerOnly},
		{name: "edit expired", err: service.ErrEditWindowExpired, wantStatus: http.StatusForbidden, wantCode: apperrors.CommentEditExpired},
		{name: "deleted", err: service.ErrCommentDeleted, wantStatus: http.StatusConflict, wantCode: apperrors.CommentDeleted},
		{name: "spam", err: &service.SpamError{Reason: service.SpamDuplicate}, wantStatus: http.StatusTooManyRequests, wantCode: apperrors.CommentSpam},
		{name: "timeout", err: fmt.Errorf("%w: deadline", service.ErrUpstreamTimeout), wantStatus: http.StatusGatewayTimeout, wantCode: apperrors.UpstreamTimeout},
		{name: "quota", err: fmt.Errorf("%w: quota", service.ErrUpstreamUnavailable), wantStatus: http.StatusServiceUnavailable, wantCode: apperrors.UpstreamUnavailable},
		{name: "upstream", err: fmt.Errorf("%w: 500 from provider: secret", service.ErrUpstreamFailed), wantStatus: http.StatusBadGateway, wantCode: apperrors.UpstreamError},
		{name: "storage", err: fmt.Errorf("failed: %w", gorm.ErrRecordNotFound), wantStatus: http.StatusNotFound, wantCode: apperrors.ResourceNotFound},
		{name: "unknown", err: errors.New("disk on fire"), wantStatus: http.StatusInternalServerError, wantCode: apperrors.InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(c, tt.err, "test")

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"])
			assert.NotContains(t, body["message"], "secret")
		})
	}
}

func TestRespondServiceError_SpamSetsRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	respondServiceError(c, &service.SpamError{Reason: service.SpamBurst}, "create comment")

	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), service.SpamBurst)
}

func TestValidationMessage(t *testing.T) {
	assert.Equal(t, "content is empty", validationMessage(fmt.Errorf("%w: content is empty", service.ErrValidation)))
	assert.Equal(t, "Some fields are invalid", validationMessage(service.ErrValidation))
}
