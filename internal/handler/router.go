package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wheelgate/wheelgate/internal/config"
	"github.com/wheelgate/wheelgate/internal/middleware"
	"github.com/wheelgate/wheelgate/internal/service"
	"github.com/wheelgate/wheelgate/internal/stream"
)

// NewRouter mounts every HTTP route of the gateway.
func NewRouter(cfg *config.Config, sessions *service.SessionManager, hub *stream.Hub, idem middleware.IdempotencyStore) *gin.Engine {
	if cfg == nil {
		cfg = &config.Config{}
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Global Middleware
	r.Use(middleware.RequestLogMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "wheelgate"})
	})

	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	game := NewGameHandler(sessions)
	autobet := NewAutoBetHandler()
	idempotent := middleware.IdempotencyMiddleware(idem)

	v1 := r.Group("/v1")
	v1.Use(middleware.SessionMiddleware(sessions))
	v1.Use(middleware.RateLimitMiddleware(sessions))
	{
		v1.GET("/tables", game.Tables)
		v1.GET("/state", game.State)
		v1.GET("/history", game.History)
		v1.POST("/bets", idempotent, game.PlaceBet)
		v1.POST("/deposit", idempotent, game.Deposit)

		v1.POST("/autobet", idempotent, autobet.Start)
		v1.GET("/autobet", autobet.Status)
		v1.DELETE("/autobet", autobet.Cancel)
	}

	if hub != nil {
		streamHandler := NewStreamHandler(hub)
		// no rate limit: one long-lived request per client
		r.GET("/v1/stream", middleware.SessionMiddleware(sessions), streamHandler.Stream)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AdminMiddleware(cfg))
	{
		admin.GET("/sessions", game.Sessions)
	}

	return r
}
