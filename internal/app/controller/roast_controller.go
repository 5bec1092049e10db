package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/ikkim/animeroast-backend/internal/app/service"
)

type RoastController struct {
	roastService service.RoastService
}

func NewRoastController(roastService service.RoastService) *RoastController {
	return &RoastController{roastService: roastService}
}

// GenerateRoast
// @Summary Roast an anime
// @Tags Roasts
// @Accept json
// @Produce json
// @Param roast body model.GenerateRoastRequest true "anime to roast"
// @Success 200 {object} model.RoastResponse
// @Router /generate-roast [post]
func (ctrl *RoastController) GenerateRoast(c *gin.Context) {
	var req model.GenerateRoastRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := ctrl.roastService.Generate(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "generate roast")
		return
	}

	c.JSON(http.StatusOK, resp)
}
