package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		context    string
		wantStatus int
		wantCode   string
	}{
		{name: "Record not found", err: fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), context: "get comment", wantStatus: http.StatusNotFound, wantCode: ResourceNotFound},
		{name: "Postgres duplicate", err: errors.New(`ERROR: duplicate key value violates unique constraint "idx_comment_voter"`), wantStatus: http.StatusConflict, wantCode: ResourceAlreadyExists},
		{name: "SQLite unique", err: errors.New("UNIQUE constraint failed: roast_shares.slug"), wantStatus: http.StatusConflict, wantCode: ResourceAlreadyExists},
		{name: "Foreign key", err: errors.New("violates foreign key constraint"), context: "create comment", wantStatus: http.StatusNotFound, wantCode: ResourceNotFound},
		{name: "Unknown", err: errors.New("disk on fire"), context: "create comment", wantStatus: http.StatusInternalServerError, wantCode: InternalServerError},
		{name: "Nil", err: nil, wantStatus: http.StatusInternalServerError, wantCode: InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantCode, info.Code)
			if tt.err != nil {
				assert.NotContains(t, info.Message, tt.err.Error())
			}
		})
	}
}

func TestParseError_NotFoundMessageUsesContext(t *testing.T) {
	assert.Equal(t, "Comment not found", ParseError(gorm.ErrRecordNotFound, "get comment").Message)
	assert.Equal(t, "Shared roast not found", ParseError(gorm.ErrRecordNotFound, "get share").Message)
}

func TestTooManyRequests_SetsRetryAfterAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-123")

	TooManyRequests(c, RateLimitExceeded, "", 1500*time.Millisecond)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, RateLimitExceeded, body["error"])
	assert.Equal(t, "req-123", body["request_id"])
	assert.NotEmpty(t, body["message"])
	assert.True(t, c.IsAborted())
}
