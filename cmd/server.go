package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"karaoke/config"
	"karaoke/handlers"
	"karaoke/logging"
	"karaoke/middleware"
	"karaoke/services"
	"karaoke/websocket"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// App wires the services behind the HTTP server
type App struct {
	Router    *gin.Engine
	Hub       websocket.Hub
	Queue     services.QueueCoordinator
	Catalogue *services.Catalogue
}

// NewApp loads the catalogues and builds the router. The hub is not started.
func NewApp(cfg *config.Config, logger *log.Logger) *App {
	catalogue := services.LoadCatalogue(cfg.Catalogue, logging.Component(logger, "catalogue"))
	return NewAppWithCatalogue(cfg, logger, catalogue)
}

// NewAppWithCatalogue builds the app around an already loaded catalogue
func NewAppWithCatalogue(cfg *config.Config, logger *log.Logger, catalogue *services.Catalogue) *App {
	hub := websocket.NewHub(logging.Component(logger, "websocket"))
	queue := services.NewQueueCoordinator(hub, logging.Component(logger, "queue"))

	app := &App{
		Hub:       hub,
		Queue:     queue,
		Catalogue: catalogue,
	}
	app.Router = newRouter(cfg, logger, app)

	return app
}

// StartWebServer serves until ctx is cancelled, then shuts down gracefully
func StartWebServer(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	gin.SetMode(config.GinMode())

	app := NewApp(cfg, logger)
	go app.Hub.Run()
	defer app.Hub.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("karaoke server starting", "port", cfg.Server.Port)
		logger.Info("guest page", "url", "http://<your-ip>:"+cfg.Server.Port+"/guest.html")
		logger.Info("host page", "url", "http://localhost:"+cfg.Server.Port+"/host.html")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newRouter creates the gin engine with middleware and routes
func newRouter(cfg *config.Config, logger *log.Logger, app *App) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.Logging(logging.Component(logger, "http")))

	queueHandler := handlers.NewQueueHandler(app.Queue, app.Hub, logging.Component(logger, "queue"))
	hostHandler := handlers.NewHostHandler(app.Queue)
	catalogueHandler := handlers.NewCatalogueHandler(app.Catalogue)
	searchHandler := handlers.NewSearchHandler(app.Catalogue)
	healthHandler := handlers.NewHealthHandler(app.Catalogue, app.Queue, app.Hub)
	staticHandler := handlers.NewStaticHandler(cfg.Server.StaticDir)

	setupRoutes(r, queueHandler, hostHandler, catalogueHandler, searchHandler, healthHandler, staticHandler)

	return r
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, queueHandler *handlers.QueueHandler, hostHandler *handlers.HostHandler, catalogueHandler *handlers.CatalogueHandler, searchHandler *handlers.SearchHandler, healthHandler *handlers.HealthHandler, staticHandler *handlers.StaticHandler) {
	r.GET("/health", healthHandler.HealthCheck)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		catalogueGroup := apiGroup.Group("/catalogue")
		{
			catalogueGroup.GET("/jk", catalogueHandler.JKaraoke)
			catalogueGroup.GET("/jk-popular", catalogueHandler.JKaraokePopular)
			catalogueGroup.GET("/kf-genres", catalogueHandler.KaraFunGenres)
		}

		apiGroup.GET("/search", searchHandler.Search)

		// Guest queue
		apiGroup.GET("/queue", queueHandler.GetQueue)
		apiGroup.POST("/queue", queueHandler.Submit)

		// Host controls
		hostGroup := apiGroup.Group("/host")
		{
			hostGroup.POST("/next", hostHandler.Next)
			hostGroup.POST("/done", hostHandler.Done)
			hostGroup.POST("/remove/:queueId", hostHandler.Remove)
			hostGroup.POST("/reorder", hostHandler.Reorder)
			hostGroup.POST("/move-up/:queueId", hostHandler.MoveUp)
			hostGroup.POST("/move-down/:queueId", hostHandler.MoveDown)
		}

		// Real-time queue updates
		apiGroup.GET("/ws", queueHandler.HandleWebSocketConnection)
	}

	// Guest and host pages
	r.NoRoute(staticHandler.ServePage)
}
