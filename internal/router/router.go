package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/animeroast-backend/config"
	"github.com/ikkim/animeroast-backend/internal/app/controller"
	apperrors "github.com/ikkim/animeroast-backend/internal/errors"
	"github.com/ikkim/animeroast-backend/internal/middleware"
	"github.com/ikkim/animeroast-backend/pkg/logger"
	"github.com/ikkim/animeroast-backend/pkg/util"
)

type Router struct {
	animeController   *controller.AnimeController
	roastController   *controller.RoastController
	commentController *controller.CommentController
	authorController  *controller.AuthorController
	shareController   *controller.ShareController
	authorMiddleware  *middleware.AuthorMiddleware
	rateLimiter       *middleware.RateLimiter
	ipHasher          *util.IPHasher
	config            *config.Config
}

func NewRouter(
	animeController *controller.AnimeController,
	roastController *controller.RoastController,
	commentController *controller.CommentController,
	authorController *controller.AuthorController,
	shareController *controller.ShareController,
	authorMiddleware *middleware.AuthorMiddleware,
	rateLimiter *middleware.RateLimiter,
	ipHasher *util.IPHasher,
	cfg *config.Config,
) *Router {
	return &Router{
		animeController:   animeController,
		roastController:   roastController,
		commentController: commentController,
		authorController:  authorController,
		shareController:   shareController,
		authorMiddleware:  authorMiddleware,
		rateLimiter:       rateLimiter,
		ipHasher:          ipHasher,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	if err := router.SetTrustedProxies(r.config.Server.TrustedProxies); err != nil {
		logger.Warn("Ignoring invalid trusted proxy list", map[string]interface{}{"error": err.Error()})
	}

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware(r.ipHasher))
	router.Use(middleware.SecurityHeaders(r.config.Server.Environment == "production"))
	router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))
	router.Use(middleware.BodyLimit(r.config.Server.MaxBodyBytes))

	router.NoRoute(func(c *gin.Context) {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Route not found")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Anime roast API is running",
		})
	})

	limits := r.config.RateLimit
	limit := r.rateLimiter.Limit
	identify := r.authorMiddleware.Identify()
	requireAuthor := r.authorMiddleware.RequireAuthor()

	api := router.Group("/api")
	{
		api.GET("/search-anime", limit("search", limits.Search), r.animeController.SearchAnime)
		api.POST("/generate-roast", limit("roast", limits.GenerateRoast), r.roastController.GenerateRoast)
		api.POST("/author-token", limit("author_token", limits.AuthorToken), r.authorController.IssueToken)

		anime := api.Group("/anime/:id")
		{
			anime.GET("", limit("anime", limits.AnimeDetails), r.animeController.GetAnime)
			anime.GET("/comments", limit("comment_read", limits.CommentRead), identify, r.commentController.ListComments)
			anime.GET("/comments/count", limit("comment_read", limits.CommentRead), r.commentController.CountComments)
			anime.POST("/comments",
				limit("comment_create", limits.CommentCreate),
				identify, requireAuthor,
				r.commentController.CreateComment,
			)
		}

		comments := api.Group("/comments/:id")
		{
			comments.GET("", limit("comment_read", limits.CommentRead), identify, r.commentController.GetComment)
			comments.POST("/reply",
				limit("comment_create", limits.CommentCreate),
				identify, requireAuthor,
				r.commentController.ReplyToComment,
			)
			comments.POST("/vote", limit("comment_vote", limits.CommentVote), identify, r.commentController.VoteComment)
			comments.PUT("",
				limit("comment_edit", limits.CommentEdit),
				identify, requireAuthor,
				r.commentController.UpdateComment,
			)
			comments.DELETE("",
				limit("comment_delete", limits.CommentDelete),
				identify, requireAuthor,
				r.commentController.DeleteComment,
			)
		}

		shares := api.Group("/roasts/share")
		{
			shares.POST("", limit("share", limits.Share), r.shareController.CreateShare)
			shares.GET("/:slug", limit("share_read", limits.CommentRead), r.shareController.GetShare)
		}
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.AuthorTokenHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = allowedOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cfg
}
