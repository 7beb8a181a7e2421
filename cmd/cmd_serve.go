package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-service/internal/api"
	"inventory-service/internal/metrics"
	"inventory-service/internal/service"
	"inventory-service/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply pending migrations and start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := boot(ctx)
	if err != nil {
		return err
	}
	logger := a.logger
	defer logger.Sync() //nolint:errcheck

	if err := store.MigrateUp(a.db); err != nil {
		a.db.Close()
		return err
	}
	logger.Info("database schema is up to date")

	dbStore := store.NewPostgresStore(a.db, logger)
	m := metrics.New(a.db)
	categories := service.NewCategoryService(dbStore, dbStore, logger, m)
	products := service.NewProductService(dbStore, dbStore, logger, m)

	httpHandler := api.NewHTTPHandler(categories, products, dbStore, logger, !a.cfg.IsProduction())
	router := api.NewRouter(httpHandler, api.RouterConfig{
		AllowedOrigins: a.cfg.CORS.AllowedOrigins,
		RequestTimeout: a.cfg.HttpServer.RequestTimeout,
		Logger:         logger,
		Metrics:        m,
	})

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.HttpServer.Port,
		Handler:      router,
		ReadTimeout:  a.cfg.HttpServer.TimeoutRead,
		WriteTimeout: a.cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  a.cfg.HttpServer.TimeoutIdle,
	}

	grpcServer := api.NewGRPCServer(logger)
	grpcListener, err := net.Listen("tcp", ":"+a.cfg.GrpcServer.Port)
	if err != nil {
		dbStore.Close()
		return fmt.Errorf("listen for gRPC on port %s: %w", a.cfg.GrpcServer.Port, err)
	}

	serverErrs := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", zap.String("port", a.cfg.HttpServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrs <- fmt.Errorf("HTTP server: %w", err)
		}
	}()
	go func() {
		logger.Info("gRPC server listening", zap.String("port", a.cfg.GrpcServer.Port))
		if err := grpcServer.Server().Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serverErrs <- fmt.Errorf("gRPC server: %w", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-sigCtx.Done():
		logger.Info("shutdown signal received, starting graceful shutdown")
	case runErr = <-serverErrs:
		logger.Error("server failed, shutting down", zap.Error(runErr))
	}

	shutdown(logger, httpServer, grpcServer, dbStore)
	return runErr
}

func shutdown(logger *zap.Logger, httpServer *http.Server, grpcServer *api.GRPCServer, dbStore *store.PostgresStore) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	grpcServer.SetServing(false)

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.Server().GracefulStop()
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("HTTP server stopped")
	}

	select {
	case <-stoppedGrpc:
		logger.Info("gRPC server stopped")
	case <-shutdownCtx.Done():
		logger.Warn("gRPC graceful shutdown timed out, forcing stop", zap.Error(shutdownCtx.Err()))
		grpcServer.Server().Stop()
	}

	if err := dbStore.Close(); err != nil {
		logger.Warn("error closing database connection", zap.Error(err))
	}
	logger.Info("graceful shutdown completed")
}
