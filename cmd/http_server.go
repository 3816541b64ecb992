package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/auth"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/blob"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/core/events"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/cv"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/dashboard"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport/middleware"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport/rest"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/user"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const (
	dashboardSweepInterval = 5 * time.Minute
	dashboardMaxIdle       = time.Hour
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger
	cfg := deps.Config

	archiver := cv.NewArchiver(deps.CV.ArchiveFunc(), cv.ArchiverConfig{
		Workers:   cfg.CV.ArchiveWorkers,
		QueueSize: cfg.CV.ArchiveQueueSize,
	}, lg)
	if cfg.CV.ArchiveOnChange {
		deps.EventBus.Subscribe(events.EventTypeEmployeeCreated, archiver.HandleEmployeeChanged)
		deps.EventBus.Subscribe(events.EventTypeEmployeeUpdated, archiver.HandleEmployeeChanged)
	}

	registry := dashboard.NewRegistry(deps.Employees, deps.Blobs, deps.Messages, lg)
	deps.EventBus.Subscribe(events.EventTypeSessionRevoked, registry.HandleSessionRevoked)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go registry.RunSweeper(sweepCtx, dashboardSweepInterval, dashboardMaxIdle)

	routerCfg := rest.RouterConfig{
		AllowedOrigins: cfg.Server.Origins(),
		OpenAPIPath:    cfg.Server.OpenAPIPath,
	}
	if cfg.Server.ValidateRequests {
		validator, err := middleware.NewOpenAPIValidator(cfg.Server.OpenAPIPath, lg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load OpenAPI contract: %v\n", err)
			os.Exit(1)
		}
		routerCfg.Validator = validator
	}

	health := rest.NewHealthHandler(map[string]rest.Check{
		"postgres": deps.DB.PingContext,
	})

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:      auth.NewHandler(deps.Auth, deps.Messages, cfg.Security.SecureCookies),
		User:      user.NewHandler(user.NewService(deps.Users, lg)),
		Employee:  employee.NewHandler(deps.Employees),
		Files:     blob.NewHandler(deps.Blobs),
		Dashboard: dashboard.NewHandler(registry, deps.CV),
		CV:        cv.NewHandler(deps.CV),
		Health:    health,
	}, deps.Auth, routerCfg, lg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.Info("Starting HTTP server", "address", addr, "storage_driver", cfg.Storage.Driver, "locale", deps.Messages.Locale())

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("Server failed to start", "error", err)
			archiver.Shutdown()
			deps.Close()
			os.Exit(1)
		}
	}

	stopSweep()
	deps.EventBus.Wait()
	archiver.Wait()
	archiver.Shutdown()
	deps.Close()

	lg.Info("Server stopped")
}
