package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gridfan/paddock/internal/auth"
	"github.com/gridfan/paddock/internal/feed"
	"github.com/gridfan/paddock/internal/news"
	"github.com/gridfan/paddock/internal/realtime"
	"github.com/gridfan/paddock/internal/standings"
	"github.com/gridfan/paddock/pkg/config"
	"github.com/gridfan/paddock/pkg/logging"
)

// Router sets up API routes
type Router struct {
	feedSvc   *feed.Service
	pageSize  int
	bus       *realtime.Bus
	news      *news.Aggregator
	standings *standings.Client
	jwtSecret string
	logger    *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(cfg *config.Config, feedSvc *feed.Service, bus *realtime.Bus, newsAgg *news.Aggregator, standingsClient *standings.Client) *Router {
	return &Router{
		feedSvc:   feedSvc,
		pageSize:  cfg.Feed.PageSize,
		bus:       bus,
		news:      newsAgg,
		standings: standingsClient,
		jwtSecret: cfg.Auth.JWTSecret,
		logger:    logging.WithComponent("api-router"),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", r.healthHandler)

	api := engine.Group("/api")
	api.Use(auth.Middleware(r.jwtSecret))

	api.GET("/feed", r.getFeed)
	api.GET("/news", r.getNews)
	api.GET("/standings/drivers", r.getDriverStandings)
	api.GET("/standings/constructors", r.getConstructorStandings)

	authed := api.Group("")
	authed.Use(auth.RequireSession())

	authed.POST("/threads", r.createThread)
	authed.DELETE("/threads/:id", r.deleteThread)
	authed.POST("/threads/:id/like", r.likeThread)
	authed.DELETE("/threads/:id/like", r.unlikeThread)
	authed.POST("/threads/:id/bookmark", r.bookmarkThread)
	authed.DELETE("/threads/:id/bookmark", r.unbookmarkThread)

	authed.POST("/reposts", r.createRepost)
	authed.DELETE("/reposts/:id", r.deleteRepost)
	authed.POST("/reposts/:id/like", r.likeRepost)
	authed.DELETE("/reposts/:id/like", r.unlikeRepost)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "paddock-api",
	})
}
