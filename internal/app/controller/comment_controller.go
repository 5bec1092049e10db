package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/ikkim/animeroast-backend/internal/app/service"
	apperrors "github.com/ikkim/animeroast-backend/internal/errors"
	"github.com/ikkim/animeroast-backend/internal/middleware"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// ListComments returns one page of threads for an anime.
// @Summary Comment threads for an anime
// @Tags Comments
// @Produce json
// @Param id path int true "anime id"
// @Param sort query string false "best, new or top" default(best)
// @Param cursor query string false "id of the last thread on the previous page"
// @Param limit query int false "threads per page" default(20)
// @Success 200 {object} model.CommentListResult
// @Router /anime/{id}/comments [get]
func (ctrl *CommentController) ListComments(c *gin.Context) {
	animeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var query model.CommentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "limit must be an integer")
		return
	}

	result, err := ctrl.commentService.List(c.Request.Context(), animeID, query, identityFrom(c))
	if err != nil {
		respondServiceError(c, err, "list comments")
		return
	}

	c.JSON(http.StatusOK, result)
}

// CountComments
// @Router /anime/{id}/comments/count [get]
func (ctrl *CommentController) CountComments(c *gin.Context) {
	animeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	total, err := ctrl.commentService.Count(c.Request.Context(), animeID)
	if err != nil {
		respondServiceError(c, err, "count comments")
		return
	}

	c.JSON(http.StatusOK, model.CommentCount{AnimeID: animeID, Total: total})
}

// CreateComment
// @Summary Post a top-level comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path int true "anime id"
// @Success 201 {object} model.CommentNode
// @Router /anime/{id}/comments [post]
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	animeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	node, err := ctrl.commentService.Create(c.Request.Context(), animeID, nil, &req, identityFrom(c))
	if err != nil {
		respondServiceError(c, err, "create comment")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Comment created", map[string]interface{}{
		"comment_id": node.ID,
		"anime_id":   animeID,
	})
	c.JSON(http.StatusCreated, node)
}

// GetComment
// @Router /comments/{id} [get]
func (ctrl *CommentController) GetComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	node, err := ctrl.commentService.Get(c.Request.Context(), id, identityFrom(c))
	if err != nil {
		respondServiceError(c, err, "get comment")
		return
	}

	c.JSON(http.StatusOK, node)
}

// ReplyToComment
// @Summary Reply to a comment
// @Tags Comments
// @Success 201 {object} model.CommentNode
// @Router /comments/{id}/reply [post]
func (ctrl *CommentController) ReplyToComment(c *gin.Context) {
	parentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	node, err := ctrl.commentService.Reply(c.Request.Context(), parentID, &req, identityFrom(c))
	if err != nil {
		respondServiceError(c, err, "create reply")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Reply created", map[string]interface{}{
		"comment_id": node.ID,
		"parent_id":  parentID,
	})
	c.JSON(http.StatusCreated, node)
}

// VoteComment sets, switches or clears the caller's vote.
// @Router /comments/{id}/vote [post]
func (ctrl *CommentController) VoteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.VoteRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := ctrl.commentService.Vote(c.Request.Context(), id, *req.VoteType, identityFrom(c))
	if err != nil {
		respondServiceError(c, err, "vote comment")
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateComment
// @Summary Edit a comment within the edit window
// @Tags Comments
// @Router /comments/{id} [put]
func (ctrl *CommentController) UpdateComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	node, err := ctrl.commentService.Edit(c.Request.Context(), id, req.Content, identityFrom(c))
	if err != nil {
		respondServiceError(c, err, "edit comment")
		return
	}

	c.JSON(http.StatusOK, node)
}

// DeleteComment
// @Router /comments/{id} [delete]
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.commentService.Delete(c.Request.Context(), id, identityFrom(c)); err != nil {
		respondServiceError(c, err, "delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}
