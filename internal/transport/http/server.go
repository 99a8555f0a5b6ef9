package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/haikuchat/internal/config"
	"github.com/vovakirdan/haikuchat/internal/identity"
	"github.com/vovakirdan/haikuchat/internal/log"
	"github.com/vovakirdan/haikuchat/internal/relay"
	"github.com/vovakirdan/haikuchat/internal/store"
)

// NewServer builds the relay HTTP server: the socket endpoint and the room,
// history and guest APIs.
func NewServer(hub *relay.Hub, ids *identity.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *http.Server {
	logger = log.OrNop(logger)
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, ids, cfg, logger)))

	apiHandlers := NewAPIHandlers(ids, st, cfg.HistoryLimit, logger)
	roomHandlers := NewRoomHandlers(st, logger)

	api := router.Group("/api")
	{
		api.POST("/guest", apiHandlers.Guest)
		api.GET("/messages", apiHandlers.History)

		api.POST("/rooms", roomHandlers.CreateRoom)
		api.GET("/rooms", roomHandlers.ListRooms)
		api.POST("/rooms/join", roomHandlers.JoinRoom)
	}

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
