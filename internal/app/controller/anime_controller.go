package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/animeroast-backend/internal/app/service"
	apperrors "github.com/ikkim/animeroast-backend/internal/errors"
)

const defaultSearchPerPage = 10

type AnimeController struct {
	animeService service.AnimeService
}

func NewAnimeController(animeService service.AnimeService) *AnimeController {
	return &AnimeController{animeService: animeService}
}

// SearchAnime
// @Summary Search anime by title
// @Tags Anime
// @Produce json
// @Param q query string true "search text"
// @Param per_page query int false "results per page" default(10)
// @Router /search-anime [get]
func (ctrl *AnimeController) SearchAnime(c *gin.Context) {
	perPage := defaultSearchPerPage
	if raw := c.Query("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "per_page must be an integer")
			return
		}
		perPage = n
	}

	results, err := ctrl.animeService.Search(c.Request.Context(), c.Query("q"), perPage)
	if err != nil {
		respondServiceError(c, err, "search anime")
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetAnime
// @Summary Anime details
// @Tags Anime
// @Router /anime/{id} [get]
func (ctrl *AnimeController) GetAnime(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	details, err := ctrl.animeService.Details(c.Request.Context(), int(id))
	if err != nil {
		respondServiceError(c, err, "get anime")
		return
	}

	c.JSON(http.StatusOK, details)
}
