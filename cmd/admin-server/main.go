package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/churchconnect/admin/internal/config"
	"github.com/churchconnect/admin/internal/domain/family"
	"github.com/churchconnect/admin/internal/domain/group"
	"github.com/churchconnect/admin/internal/domain/member"
	"github.com/churchconnect/admin/internal/domain/pledge"
	"github.com/churchconnect/admin/internal/domain/report"
	"github.com/churchconnect/admin/internal/platform/auth"
	"github.com/churchconnect/admin/internal/platform/middleware"
	"github.com/churchconnect/admin/internal/platform/notify"
	"github.com/churchconnect/admin/internal/platform/rest"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "admin-server",
		Short: "ChurchConnect membership admin gateway",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gateway version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Backend client
	client := rest.NewClient(cfg.APIBaseURL,
		rest.WithTokenSource(auth.FromConfig(cfg.APIToken)),
		rest.WithTimeout(cfg.RequestTimeout),
		rest.WithLogger(logger.With().Str("component", "rest").Logger()),
	)
	logger.Info().Str("backend", cfg.APIBaseURL).Msg("backend client configured")

	// Toast queue
	toasts := notify.NewQueue(cfg.ToastTTL)

	// Screen services
	familySvc := family.NewService(client, toasts, logger, cfg.DefaultPageSize)
	memberSvc := member.NewService(client, toasts, logger, cfg.DefaultPageSize)
	groupSvc := group.NewService(client, toasts, logger, cfg.DefaultPageSize)
	pledgeSvc := pledge.NewService(client, toasts, logger, cfg.DefaultPageSize)
	reportSvc := report.NewService(client, toasts, logger, cfg.DefaultPageSize)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Admin screens
	admin := e.Group("/admin")
	family.NewHandler(familySvc).RegisterRoutes(admin)
	member.NewHandler(memberSvc).RegisterRoutes(admin)
	group.NewHandler(groupSvc).RegisterRoutes(admin)
	pledge.NewHandler(pledgeSvc).RegisterRoutes(admin)
	report.NewHandler(reportSvc).RegisterRoutes(admin)

	// Toast drain for the UI
	admin.GET("/notifications", func(c echo.Context) error {
		return c.JSON(http.StatusOK, toasts.Drain())
	})

	// Unmatched admin paths land on the family list
	e.RouteNotFound("/admin/*", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/admin/families")
	})
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/admin/families")
	})

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": version})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}

	familySvc.Close()
	memberSvc.Close()
	groupSvc.Close()
	pledgeSvc.Close()
	reportSvc.Close()

	logger.Info().Msg("server stopped")
	return nil
}
