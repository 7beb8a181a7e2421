package api

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// InventoryServiceName is the name reported by the gRPC health service next
// to the overall ("") status.
const InventoryServiceName = "inventory.v1.InventoryService"

// GRPCServer exposes grpc.health.v1 and server reflection on the ops port.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// NewGRPCServer builds the gRPC server. Both health entries start as SERVING.
func NewGRPCServer(logger *zap.Logger) *GRPCServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("grpc")

	s := grpc.NewServer(grpc.ChainUnaryInterceptor(unaryLoggingInterceptor(logger)))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	reflection.Register(s)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(InventoryServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	logger.Info("gRPC health and reflection services registered")

	return &GRPCServer{server: s, health: healthServer, logger: logger}
}

// Server returns the underlying grpc.Server.
func (g *GRPCServer) Server() *grpc.Server {
	return g.server
}

// SetServing flips every health entry to SERVING or NOT_SERVING.
func (g *GRPCServer) SetServing(serving bool) {
	if serving {
		g.health.Resume()
		return
	}
	g.health.Shutdown()
}

func unaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("gRPC request completed",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
