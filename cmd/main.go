package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "fermentation_dashboard/docs"
	"fermentation_dashboard/internal/client"
	"fermentation_dashboard/internal/config"
	"fermentation_dashboard/internal/handlers"
	"fermentation_dashboard/internal/logger"
	"fermentation_dashboard/internal/repository"
	"fermentation_dashboard/internal/repository/db"
	"fermentation_dashboard/internal/server"
	"fermentation_dashboard/internal/service"
	"fermentation_dashboard/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const shutdownTimeout = 10 * time.Second

var configPath string

// @title        Fermentation Dashboard API
// @version      1.0
// @description  Live dashboard over the fermentation monitoring backend.
// @BasePath     /
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		RunE:  runServe,
	}
	rootCmd := &cobra.Command{
		Use:          "fermdash",
		Short:        "Fermentation monitoring dashboard",
		Long:         `fermdash polls the fermentation backend and serves a live dashboard of sensor readings, fermentation activity and sessions.`,
		RunE:         runServe,
		SilenceUsage: true,
	}
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the dashboard in the terminal",
		RunE:  runWatch,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a config file (default configs/config.yml)")
	flags.String("port", "", "HTTP port")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("backend", "", "Base URL of the monitoring backend")
	flags.String("db", "", "SQLite database path")
	flags.String("view", "", "Dashboard view: fermentation or dough_size")

	rootCmd.AddCommand(serveCmd, watchCmd)
	return rootCmd
}

func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	return config.Load(configPath, flags)
}

func newServices(cfg *config.Config, repos *repository.Repository, log *logger.Logger) (*service.Service, error) {
	backend, err := client.New(cfg.Backend.BaseURL,
		client.WithTimeout(cfg.Client.Timeout),
		client.WithUserAgent(cfg.Client.UserAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}

	opts, err := service.OptionsFromConfig(cfg.Dashboard)
	if err != nil {
		return nil, err
	}
	return service.NewService(opts, backend, repos, log)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	log := logger.Get(cfg.LogLevel)

	// open DB
	conn, err := openDB(cfg.DB.Path, log)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services, err := newServices(cfg, repos, log)
	if err != nil {
		return err
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := services.Restore(ctx); err != nil {
		log.Warnw("restore_failed", "err", err)
	}
	go services.Run(ctx, cfg.Dashboard.RefreshInterval)

	apiHandler := handlers.NewHandler(services, log, handlers.WithWSInterval(cfg.WS.Interval))

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
	return nil
}

// runWatch polls the backend without a database and draws the dashboard
// in the terminal. Logging is discarded so it does not tear the screen.
func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	services, err := newServices(cfg, nil, logger.Nop())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go services.Run(ctx, cfg.Dashboard.RefreshInterval)

	return tui.Run(services.Dashboard, func() { services.RefreshPass(ctx) })
}

// openDB initializes the SQLite database at path.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "fermdash.db")
		path = "fermdash.db"
	}
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		log.Infow("http_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the refresh loop
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
