package router

import (
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/mindweave/mindweave-server/internal/api/grpc/health"
	"github.com/mindweave/mindweave-server/internal/api/grpc/middleware"
	"github.com/mindweave/mindweave-server/internal/logger"
)

// Router builds the ops gRPC server.
type Router struct {
	checker *health.Checker
	logger  *logger.Logger
}

func New(checker *health.Checker, logger *logger.Logger) *Router {
	return &Router{checker: checker, logger: logger}
}

// Register returns a server exposing grpc.health.v1 and server reflection.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recoverOpt := middleware.RecoveryOption(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoverOpt),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleStream,
			recovery.StreamServerInterceptor(recoverOpt),
		),
	)
	healthpb.RegisterHealthServer(s, r.checker.Server())
	reflection.Register(s)

	return s
}
