// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AtRiskMedia/crosstrace-go/internal/application/container"
	"github.com/AtRiskMedia/crosstrace-go/internal/application/services"
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/email"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/persistence/database"
	persistence "github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/persistence/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/remote"
	"github.com/AtRiskMedia/crosstrace-go/internal/presentation/http/server"
	"github.com/AtRiskMedia/crosstrace-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete engine startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `
   ___________  ____  ___________________  ___  ____________
  / ____/ __ \/ __ \/ ___/ ___/_  __/ __ \/   |/ ____/ ____/
 / /   / /_/ / / / /\__ \\__ \ / / / /_/ / /| / /   / __/
/ /___/ _, _/ /_/ /___/ /__/ // / / _, _/ ___ / /___/ /___
\____/_/ |_|\____//____/____//_/ /_/ |_/_/  |_\____/_____/
` + "\033[97m" + `
  made by At Risk Media
` + "\033[0m")

	// Step 1: Initialize channeled logging
	log.Println("Initializing...")
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Initialize cache system
	logger.Startup().Info("Initializing cache system...")
	cacheManager := manager.NewManager(manager.DefaultOptions(), logger)

	// Step 3: Wire the journey store and correlation source. Remote URLs
	// select the production backends; otherwise the engine runs standalone
	// against the local database.
	logger.Startup().Info("Wiring session backends...")
	journeyStore, correlationSource, db, err := wireBackends(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to wire session backends: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	// Step 4: Start the alert broadcaster
	var broadcaster *messaging.AlertBroadcaster
	if config.BroadcastAlerts {
		logger.Startup().Info("Starting alert broadcaster...")
		broadcaster = messaging.NewAlertBroadcaster(logger)
		go broadcaster.Run(ctx)
	}

	// Step 5: Initialize the alert mailer when configured
	var mailer email.Service
	if config.AlertEmailTo != "" {
		mailer, err = email.NewService()
		if err != nil {
			logger.Startup().Warn("Alert email disabled", "reason", err.Error())
			mailer = nil
		} else {
			logger.Startup().Info("Alert email enabled", "to", config.AlertEmailTo)
		}
	}

	// Step 6: Create dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(container.Deps{
		Logger:            logger,
		CacheManager:      cacheManager,
		JourneyStore:      journeyStore,
		CorrelationSource: correlationSource,
		AlertBroadcaster:  broadcaster,
		EmailService:      mailer,
	})
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 7: Start background cleanup worker
	logger.Startup().Info("Starting background cleanup worker...")
	cleanupWorker := cleanup.NewWorker(cacheManager, cleanup.NewConfig(), logger)
	go cleanupWorker.Start(ctx)

	// Step 8: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Engine startup complete",
		"totalDuration", time.Since(start),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	// Cancel background tasks
	cancelBackgroundTasks()

	// Stop server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Engine shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// wireBackends selects remote or local implementations of the journey
// store and correlation source from configuration. The returned DB is
// non-nil only when a local backend was opened and must be closed by the
// caller.
func wireBackends(ctx context.Context, logger *logging.ChanneledLogger) (sessions.JourneyStore, sessions.CorrelationSource, *database.DB, error) {
	var journeyStore sessions.JourneyStore
	var correlationSource sessions.CorrelationSource
	var db *database.DB
	var localStore *persistence.SQLJourneyStore

	openLocal := func() error {
		if localStore != nil {
			return nil
		}
		var err error
		db, err = database.NewConnectionWithLogger(config.DBDriver, config.DBPath, logger)
		if err != nil {
			return err
		}
		localStore = persistence.NewSQLJourneyStore(db, logger)
		return localStore.EnsureSchema(ctx)
	}

	if config.SessionStoreURL != "" {
		logger.Startup().Info("Using remote session store", "url", config.SessionStoreURL)
		journeyStore = remote.NewJourneyClient(config.SessionStoreURL, config.ServiceJWTSecret, config.RemoteTimeout, config.ServiceTokenTTL, logger)
	} else {
		logger.Startup().Info("Using local session store", "driver", config.DBDriver, "path", config.DBPath)
		if err := openLocal(); err != nil {
			return nil, nil, nil, err
		}
		journeyStore = localStore
	}

	if config.CorrelationServiceURL != "" {
		logger.Startup().Info("Using remote correlation service", "url", config.CorrelationServiceURL)
		correlationSource = remote.NewCorrelationClient(config.CorrelationServiceURL, config.ServiceJWTSecret, config.RemoteTimeout, config.ServiceTokenTTL, logger)
	} else {
		logger.Startup().Info("Using local correlation scan")
		if err := openLocal(); err != nil {
			return nil, nil, nil, err
		}
		correlationSource = persistence.NewSQLCorrelationSource(localStore, services.NewSimilarityService(), logger)
	}

	return journeyStore, correlationSource, db, nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
