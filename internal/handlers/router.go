package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"casino-backend/internal/config"
	"casino-backend/internal/middleware"
	"casino-backend/internal/services"
)

type RouterDeps struct {
	Casino *services.Casino
	Store  services.Store
	Feed   *FeedHub
	Config *config.Config
	Log    logrus.FieldLogger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(d.Log),
		middleware.Metrics(),
		middleware.CORS(),
	)

	health := NewHealthHandler(d.Store, d.Config)
	players := NewPlayerHandler(d.Casino)
	games := NewGameHandler(d.Casino)

	router.GET("/", health.Root)
	router.GET("/test", health.Diagnostics)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws/feed", d.Feed.HandleFeed)

	player := router.Group("/player")
	{
		player.POST("/create", players.CreatePlayer)
		player.GET("/:id", players.GetPlayer)
		player.GET("/:id/history", players.GetHistory)
	}

	bet := router.Group("/bet")
	blackjack := router.Group("/blackjack")
	if d.Config.RateLimitPerMinute > 0 {
		limit := middleware.RateLimit(d.Store, d.Config.RateLimitPerMinute, time.Minute)
		bet.Use(limit)
		blackjack.Use(limit)
	}

	bet.POST("/roulette", games.PlayRoulette)
	bet.POST("/slots", games.PlaySlots)

	blackjack.POST("/start", games.StartBlackjack)
	blackjack.POST("/hit", games.HitBlackjack)
	blackjack.POST("/stand", games.StandBlackjack)

	return router
}
