package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AgusMolinaCode/Insider_Api/internal/config"
	"github.com/AgusMolinaCode/Insider_Api/internal/database"
	"github.com/AgusMolinaCode/Insider_Api/internal/middleware"
	"github.com/AgusMolinaCode/Insider_Api/internal/repository"
	routes "github.com/AgusMolinaCode/Insider_Api/internal/server"
	"github.com/AgusMolinaCode/Insider_Api/internal/services"
	"github.com/AgusMolinaCode/Insider_Api/internal/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "insider-api"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "api",
		Short: "API de movers e insider trades",
		Long: `Sirve las tablas de stock movers e insider transactions que consume la web.
Cada request consulta el store (postgres o sqlite), normaliza las filas y responde JSON.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Cargar variables de entorno
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "No se pudo cargar el archivo .env: %v\n", err)
			}
			slog.SetDefault(newLogger(logLevel))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Archivo de configuración (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Nivel de log (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Levantar el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Crear las tablas en un store local",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(configPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Mostrar la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuración inválida: %w", err)
	}
	return cfg, nil
}

func serve(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializar base de datos
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("inicializar la base de datos: %w", err)
	}
	defer db.Close()

	store, err := repository.New(cfg.Store.Client, db, cfg.Database.Driver)
	if err != nil {
		return err
	}

	if cfg.Tracing.Enabled {
		shutdown, err := telemetry.InitTracing(os.Stdout)
		if err != nil {
			return err
		}
		defer stopTracing(logger, shutdown)
	}

	var metricsHandler http.Handler
	var registerer prometheus.Registerer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewDBStatsCollector(db, cfg.Database.Name))
		registerer = reg
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	svc := services.NewMarketService(store, services.Options{
		QueryTimeout: cfg.Store.QueryTimeout,
		InsiderLimit: cfg.Store.InsiderLimit,
		Metrics:      telemetry.NewMetrics(registerer),
	})

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := routes.NewRouter(cfg.Server.AllowOrigins, logger)
	routes.RegisterRoutes(router, middleware.NewMarketHandlers(svc, logger), metricsHandler, cfg.Metrics.AdminKey)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Servidor iniciado", "port", cfg.Server.Port, "driver", cfg.Database.Driver, "store", store.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error al iniciar el servidor: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Apagando el servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// stopTracing vacía el exporter; una falla al cerrar solo se loguea
func stopTracing(logger *slog.Logger, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Warn("Error al cerrar el exporter de trazas", "error", err)
	}
}

func migrate(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("inicializar la base de datos: %w", err)
	}
	defer db.Close()

	return database.RunMigrations(ctx, db, cfg.Database.Driver)
}
