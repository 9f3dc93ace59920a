package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ianus-labs/ianus/server/internal/config"
	"github.com/ianus-labs/ianus/server/internal/db"
	"github.com/ianus-labs/ianus/server/internal/httpapi"
	"github.com/ianus-labs/ianus/server/internal/ianus/matcher"
	"github.com/ianus-labs/ianus/server/internal/ianus/service"
	"github.com/ianus-labs/ianus/server/internal/ianus/store/sqlite"
	"github.com/ianus-labs/ianus/server/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("config", "error", err.Error())
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		log.Fatal("open database", "error", err.Error())
	}
	defer conn.Close()

	if cfg.Env == "dev" {
		if err := db.SeedDev(ctx, conn); err != nil {
			log.Fatal("seed dev data", "error", err.Error())
		}
	}

	writer := db.NewWriter(conn)
	defer writer.Close()

	// Stores
	deviceStore := sqlite.NewDeviceStore(conn, writer)
	heartbeatStore := sqlite.NewHeartbeatStore(conn, writer)
	enrollmentStore := sqlite.NewEnrollmentStore(conn, writer)
	directory := sqlite.NewDirectoryStore(conn)

	// Matcher session.  The dev matcher stands in for a vendor SDK; it
	// is still treated as a single shared session and serialized.
	sessions := matcher.NewSessionGuard(matcher.NewDevMatcher(cfg.MatcherThreshold))

	// Services
	registry := service.NewDeviceRegistry(deviceStore)
	heartbeatSvc := service.NewHeartbeatService(heartbeatStore, registry)
	engine := service.NewEngine(sessions, directory, enrollmentStore, registry, log)
	boundary := service.NewBoundary(engine, cfg.DecisionTimeout, log)

	pruner := service.NewHeartbeatPruner(heartbeatStore, service.PrunerConfig{
		RetentionDays: cfg.HeartbeatRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, log)
	pruner.Start(ctx)
	defer pruner.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:           log,
		Addr:             cfg.HTTPAddr,
		Boundary:         boundary,
		HeartbeatService: heartbeatSvc,
		Reports:          enrollmentStore,
	})

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.Start(); err != nil {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
