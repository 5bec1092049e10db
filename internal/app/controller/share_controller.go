package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/ikkim/animeroast-backend/internal/app/service"
)

type ShareController struct {
	shareService service.ShareService
}

func NewShareController(shareService service.ShareService) *ShareController {
	return &ShareController{shareService: shareService}
}

// CreateShare
// @Summary Publish a roast under a short link
// @Tags Shares
// @Accept json
// @Produce json
// @Success 201 {object} model.ShareResponse
// @Router /roasts/share [post]
func (ctrl *ShareController) CreateShare(c *gin.Context) {
	var req model.CreateShareRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := ctrl.shareService.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "create share")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetShare
// @Summary Shared roast by slug
// @Tags Shares
// @Router /roasts/share/{slug} [get]
func (ctrl *ShareController) GetShare(c *gin.Context) {
	share, err := ctrl.shareService.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "get share")
		return
	}

	c.JSON(http.StatusOK, share)
}
