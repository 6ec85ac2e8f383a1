package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/contracts"
	"github.com/joseph-ayodele/contracts-tracker/internal/export"
	"github.com/joseph-ayodele/contracts-tracker/internal/extract"
	"github.com/joseph-ayodele/contracts-tracker/internal/llm/openai"
	"github.com/joseph-ayodele/contracts-tracker/internal/pipeline"
	"github.com/joseph-ayodele/contracts-tracker/internal/reminder"
	"github.com/joseph-ayodele/contracts-tracker/internal/repository"
	"github.com/joseph-ayodele/contracts-tracker/internal/server"
	"github.com/joseph-ayodele/contracts-tracker/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "contractsd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := common.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)
	if cfg.Env == common.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close(logger)
	if err := repository.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store, err := storage.NewMinioStore(cfg.ObjectStore, logger)
	if err != nil {
		return fmt.Errorf("object store: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("object store bucket: %w", err)
	}

	provider := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		VisionModel: cfg.LLM.VisionModel,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	processor := pipeline.NewProcessor(logger, extract.New(cfg.Extract, logger), pipeline.NewOrchestrator(logger, provider, nil))

	sched := reminder.NewScheduler(logger)
	defer sched.Close()

	repo := repository.NewContractRepository(db, logger)
	svc := contracts.NewService(repo, store, processor, sched, logger)
	health := &server.HealthChecker{DB: db, Provider: provider, Timeout: cfg.Database.DialTimeout, Logger: logger}

	router := server.NewRouter(server.Deps{
		Contracts: svc,
		Exporter:  export.NewService(repo, logger),
		Health:    health,
		Logger:    logger,
		Server:    cfg.Server,
		RateLimit: cfg.RateLimit,
	})
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	grpcSrv, hs := server.NewGRPCHealthServer()
	reflection.Register(grpcSrv)
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http.serving", "addr", httpSrv.Addr, "env", cfg.Env)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("grpc.serving", "addr", lis.Addr().String())
		if err := grpcSrv.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		health.WatchHealth(gctx, hs, 15*time.Second)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown.started")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcSrv.GracefulStop()
		return httpSrv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("shutdown.failed", "error", err)
		return err
	}
	logger.Info("shutdown.complete")
	return nil
}
