package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freightdocs/invoice-extractor/internal/common"
	"github.com/freightdocs/invoice-extractor/internal/export"
	"github.com/freightdocs/invoice-extractor/internal/pipeline"
	"github.com/freightdocs/invoice-extractor/internal/session"
)

// Server owns the HTTP surface: upload, export, settings, health.
type Server struct {
	cfg       *common.Config
	engine    *gin.Engine
	processor *pipeline.Processor
	sessions  *session.Store
	writer    *export.Writer
	logger    *slog.Logger
}

func New(cfg *common.Config, processor *pipeline.Processor, sessions *session.Store, writer *export.Writer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(RequestID(), Logging(logger), Recovery(logger))

	s := &Server{
		cfg:       cfg,
		engine:    engine,
		processor: processor,
		sessions:  sessions,
		writer:    writer,
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the router for net/http servers and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api/v1")
	api.Use(s.ensureSession())

	api.POST("/extract", s.handleExtract)
	api.GET("/export", s.handleExport)
	api.POST("/results/clear", s.handleClearResults)
	api.GET("/settings", s.handleGetSettings)
	api.PUT("/settings", s.handlePutSettings)
}
