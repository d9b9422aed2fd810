package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"msngraph/internal/attribution"
	"msngraph/internal/chronology"
	"msngraph/internal/dot"
	"msngraph/internal/msnlog"
	"msngraph/pkg/config"
	"msngraph/pkg/logger"
)

// graphserver runs the introduction-graph pipeline once at startup and
// serves the result over HTTP, for pointing a Graphviz-capable viewer at.
// No layout or rendering happens here; /graph.dot is the same text the
// CLI writes to stdout.
func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting graph server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	// Run the pipeline once; the dataset is immutable, so the result can
	// be served as-is for the lifetime of the process.
	ds, err := msnlog.LoadDirectory(context.Background(), cfg.InputDir, cfg.MainUser, log)
	if err != nil {
		log.Fatal("Failed to load chat logs", zap.Error(err))
	}
	idx := chronology.BuildIndex(ds)
	edges := attribution.NewEngine(ds, idx, log).Attribute()

	var dotText strings.Builder
	opts := dot.Options{FontName: cfg.FontName, IncludeMainUser: cfg.IncludeMainUser}
	if err := dot.Write(&dotText, ds, edges, opts); err != nil {
		log.Fatal("Failed to build graph description", zap.Error(err))
	}
	log.Info("Graph built",
		zap.Int("conversations", len(ds.Conversations)),
		zap.Int("edges", len(edges)),
	)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// The graph description for external layout tools
	router.GET("/graph.dot", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(dotText.String()))
	})

	// API routes
	api := router.Group("/api")
	{
		api.GET("/edges", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"main_user": ds.MainUser,
				"edges":     edges,
			})
		})
		api.GET("/contacts", func(c *gin.Context) {
			contacts := make([]gin.H, 0, len(ds.Participants))
			for _, id := range ds.Contacts() {
				contacts = append(contacts, gin.H{
					"id":    id,
					"label": ds.Participants[id].Label(),
				})
			}
			c.JSON(http.StatusOK, gin.H{"contacts": contacts})
		})
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("HTTP Request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
