package app

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"commit-relay/internal/common/errors"
	"commit-relay/internal/common/logging"
	"commit-relay/internal/config"
	"commit-relay/internal/server"
)

// Run is the main entry point for the application
func Run() error {
	// Load environment variables
	_ = godotenv.Load()

	// Set up CPU usage
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Parse command line flags
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	// Initialize logging
	logging.InitGlobalLogger()
	defer logging.MustSync()

	logging.Info("Starting commit relay",
		logging.Field{Key: "cpus", Value: runtime.NumCPU()},
		logging.Field{Key: "config", Value: configPath},
	)

	// Load and validate configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		logging.Error("Failed to load configuration", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		logging.Error("Configuration validation failed", err)
		return err
	}

	app := New(cfg)

	// Connect to chat in the background; webhook deliveries that arrive
	// before registration completes are dropped by the send path.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionErr := make(chan error, 1)
	go func() {
		sessionErr <- app.Session.Run(ctx)
	}()

	// Start the HTTP server
	router := mux.NewRouter()
	SetupRoutes(router, app.Handlers)

	srv := server.New(cfg.HTTP.Addr(), router, nil)
	srvErr := srv.Start()

	// Wait for a reload request, a component failure, or an interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)

	for {
		select {
		case <-reload:
			logging.Info("Received SIGHUP, reloading configuration")
			app.Reload(configPath)

		case err := <-srvErr:
			logging.Error("HTTP server failed", err)
			cancel()
			<-sessionErr
			return err

		case err := <-sessionErr:
			if err == nil {
				err = errors.ConnectionError("chat session ended unexpectedly", nil)
			}
			logging.Error("Chat session failed", err)
			shutdownServer(srv)
			return err

		case <-quit:
			logging.Info("Shutting down")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logging.Warn("HTTP server forced to shut down", logging.Err(err))
			}

			cancel()
			select {
			case <-sessionErr:
			case <-shutdownCtx.Done():
				logging.Warn("Chat session did not stop in time")
			}
			shutdownCancel()

			logging.Info("Server exited")
			return nil
		}
	}
}

func shutdownServer(srv *server.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("HTTP server forced to shut down", logging.Err(err))
	}
}
