package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/untapfree/untap-server-go/internal/auth"
	"github.com/untapfree/untap-server-go/internal/catalog"
	"github.com/untapfree/untap-server-go/internal/config"
	"github.com/untapfree/untap-server-go/internal/match"
	"github.com/untapfree/untap-server-go/internal/repository"
	"github.com/untapfree/untap-server-go/internal/server"
	"github.com/untapfree/untap-server-go/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting untap server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var (
		store        match.Store
		catalogStore catalog.Store
		verifier     auth.Authenticator
	)

	switch cfg.Database.Driver {
	case "postgres":
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)

		store = repository.NewMatchRepository(db)
		catalogStore = catalog.NewPostgresStore(db.Pool)
		verifier = auth.NewVerifier(repository.NewUserRepository(db))
	case "memory":
		logger.Warn("using in-memory store; state is lost on shutdown and any username is accepted")
		store = repository.NewMemoryStore()
		catalogStore = catalog.NewStaticStore()
		verifier = auth.AllowAny{}
	default:
		logger.Fatal("unknown database driver", zap.String("driver", cfg.Database.Driver))
	}

	sessionMgr := session.NewManager(cfg.Server.LeasePeriod, logger)
	logger.Info("session manager initialized",
		zap.Duration("lease_period", cfg.Server.LeasePeriod),
	)
	go sessionMgr.CleanupExpiredSessions(ctx)

	matchSvc := match.NewService(store, catalogStore, logger)
	logger.Info("match service initialized",
		zap.Int("initial_life", cfg.Game.InitialLife),
	)

	hub := server.NewHub(matchSvc, verifier, sessionMgr, cfg.Game.InitialLife, logger)
	srv := server.New(cfg.Server, hub, logger)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Run(ctx)
	}()

	logger.Info("untap server initialized",
		zap.String("version", version),
		zap.String("address", cfg.Server.Address),
	)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}

	logger.Info("shutting down gracefully...")
	cancel()
	<-serveErr

	logger.Info("untap server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
