package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/animeroast-backend/internal/errors"
	"github.com/ikkim/animeroast-backend/pkg/util"
)

const (
	AuthorTokenHeader = "X-Author-Token"
	AuthorIDKey       = "author_id"
	AuthorNameKey     = "author_name"
)

type AuthorMiddleware struct {
	secret string
}

func NewAuthorMiddleware(secret string) *AuthorMiddleware {
	return &AuthorMiddleware{secret: secret}
}

// Identify reads an author token when one is sent. Requests without a
// token continue anonymously; a token that fails verification is refused.
func (m *AuthorMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, present, ok := extractAuthorToken(c)
		if !present {
			c.Next()
			return
		}
		if !ok {
			log.Warn("Malformed authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "The author token is malformed")
			return
		}

		claims, err := util.ValidateAuthorToken(token, m.secret)
		if err != nil {
			log.Warn("Author token rejected", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if stderrors.Is(err, util.ErrExpiredToken) {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "The author token has expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "The author token is invalid")
			}
			return
		}

		c.Set(AuthorIDKey, claims.AuthorID())
		c.Set(AuthorNameKey, claims.Name)
		log.Debug("Author identified", map[string]interface{}{
			"author_id": claims.AuthorID(),
		})

		c.Next()
	}
}

// RequireAuthor refuses requests that Identify did not attach an author to.
func (m *AuthorMiddleware) RequireAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetAuthorID(c); !ok {
			GetLoggerFromContext(c).Warn("Author token required", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			return
		}
		c.Next()
	}
}

// extractAuthorToken prefers X-Author-Token, then "Authorization: Bearer".
func extractAuthorToken(c *gin.Context) (token string, present bool, ok bool) {
	if token = strings.TrimSpace(c.GetHeader(AuthorTokenHeader)); token != "" {
		return token, true, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false, false
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true, false
	}
	return parts[1], true, true
}

func GetAuthorID(c *gin.Context) (string, bool) {
	id := c.GetString(AuthorIDKey)
	return id, id != ""
}

func GetAuthorName(c *gin.Context) string {
	return c.GetString(AuthorNameKey)
}
