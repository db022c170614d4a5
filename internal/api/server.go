package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"musicflow/internal/api/middleware"
	"musicflow/internal/camelot"
	"musicflow/internal/coherence"
	"musicflow/internal/config"
	database "musicflow/internal/db"
	"musicflow/internal/dj"
	"musicflow/internal/storage"
)

type Server struct {
	cfg     *config.Config
	db      *database.Client
	storage *storage.Client
	wheel   *camelot.Wheel
	metrics *coherence.Metrics
	builder *dj.Builder
	router  *gin.Engine
}

func New(cfg *config.Config, db *database.Client, store *storage.Client) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	wheel := camelot.New()
	metrics, err := coherence.New(coherence.Weights{
		BPM:     cfg.Builder.WeightBPM,
		Key:     cfg.Builder.WeightKey,
		Valence: cfg.Builder.WeightValence,
		Energy:  cfg.Builder.WeightEnergy,
	}, wheel)
	if err != nil {
		// Misconfigured weights fall back to the stock tuning.
		metrics = coherence.NewDefault(wheel)
	}

	if cfg.Server.JWTSecret != "" {
		middleware.SetSecret(cfg.Server.JWTSecret)
	}

	s := &Server{
		cfg:     cfg,
		db:      db,
		storage: store,
		wheel:   wheel,
		metrics: metrics,
		builder: dj.New(dj.NewGormSource(db.DB), wheel, metrics, nil),
		router:  gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SilentLogger())

	// CORS Configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "musicflow"})
	})

	// API Group
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/tracks", s.GetTracks)
		v1.GET("/stats", s.GetStats)

		// Camelot Wheel lookups
		v1.GET("/keys", s.GetKeys)
		v1.GET("/keys/:key/compatible", s.GetCompatibleKeys)
		v1.POST("/transitions/score", s.ScoreTransition)

		// Playlist Workflow
		v1.POST("/playlists/generate", s.GeneratePlaylist)
		v1.GET("/playlists", s.GetPlaylists)
		v1.GET("/playlists/:id", s.GetPlaylist)
		v1.GET("/playlists/:id/export", s.ExportPlaylist)

		// Stored export artifacts
		v1.GET("/exports", s.ListExports)
		v1.GET("/exports/*key", s.GetExport)
	}

	// Mutations that destroy data need a valid token
	admin := s.router.Group("/api/v1", middleware.RequireAuth(), middleware.RequireRole("dj"))
	{
		admin.DELETE("/playlists/:id", s.DeletePlaylist)
		admin.DELETE("/exports/*key", s.DeleteExport)
	}
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
