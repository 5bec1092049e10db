package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/ikkim/animeroast-backend/internal/app/service"
	"github.com/ikkim/animeroast-backend/internal/middleware"
)

type AuthorController struct {
	authorService service.AuthorService
}

func NewAuthorController(authorService service.AuthorService) *AuthorController {
	return &AuthorController{authorService: authorService}
}

// IssueToken hands out a new author identity. The body is optional.
// @Summary Issue an author token
// @Tags Authors
// @Router /author-token [post]
func (ctrl *AuthorController) IssueToken(c *gin.Context) {
	var req model.AuthorTokenRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req) {
			return
		}
	}

	token, err := ctrl.authorService.IssueToken(req.AuthorName)
	if err != nil {
		respondServiceError(c, err, "issue author token")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Author token issued", map[string]interface{}{
		"author_id": token.AuthorID,
	})
	c.JSON(http.StatusOK, token)
}
