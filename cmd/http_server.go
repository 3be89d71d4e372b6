package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hasinarivo/expense-tracker/internal"
	"github.com/hasinarivo/expense-tracker/internal/core/events"
	"github.com/hasinarivo/expense-tracker/internal/expense"
	expenseDatabase "github.com/hasinarivo/expense-tracker/internal/expense/database"
	"github.com/hasinarivo/expense-tracker/internal/notification"
	"github.com/hasinarivo/expense-tracker/internal/settings"
	settingsDatabase "github.com/hasinarivo/expense-tracker/internal/settings/database"
	"github.com/hasinarivo/expense-tracker/internal/transport/rest"
	"github.com/hasinarivo/expense-tracker/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Store  *expense.Service
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	// warm the snapshot so the first request never sees an empty store
	if err := deps.Store.FetchExpenses(context.Background()); err != nil {
		slog.Error("Initial snapshot load failed", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus := events.NewEventBus(lg)

	expenseRepo := expenseDatabase.NewExpenseRepository(gormDB)
	store := expense.NewService(expenseRepo, bus, lg)

	settingsRepo := settingsDatabase.NewSettingsRepository(gormDB)
	settingsService := settings.NewService(settingsRepo, lg)

	monitor := notification.NewAlertMonitor(store, settingsService, notification.NewLogNotifier(lg), lg)
	monitor.Register(bus)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB,
		rest.NewExpenseHandler(store),
		rest.NewAnalyticsHandler(store),
		rest.NewCategoryHandler(store),
		rest.NewSettingsHandler(settingsService),
		lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		GormDB: gormDB,
		Router: router,
		Store:  store,
		Logger: lg,
	}, nil
}

// initDB opens the configured database through sqlx for pooling, then
// hands the same connection to GORM so both layers share one pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	dbConn, err := sqlx.Connect(cfg.DriverName(), cfg.GetDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var dialector gorm.Dialector
	if cfg.Driver == "postgres" {
		dialector = postgres.New(postgres.Config{Conn: dbConn.DB})
	} else {
		dialector = sqlite.Dialector{Conn: dbConn.DB}
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	return dbConn, gormDB, nil
}
