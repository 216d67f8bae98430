package router

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/krishisakhi/sakhi-session/internal/api/grpc/handler"
	"github.com/krishisakhi/sakhi-session/internal/api/grpc/middleware"
	"github.com/krishisakhi/sakhi-session/internal/logger"
)

// Router wires the session service and its middleware into a gRPC server.
type Router struct {
	controller handler.SessionController
	logger     *logger.Logger
}

// New creates new gRPC Router instance.
func New(controller handler.SessionController, logger *logger.Logger) *Router {
	return &Router{
		controller: controller,
		logger:     logger,
	}
}

// State is polled by the shell, so it is kept out of the request log.
func logSkip(_ context.Context, c interceptors.CallMeta) bool {
	return c.FullMethod() != handler.StateFullMethod
}

// Register builds the gRPC server with logging and panic recovery and
// registers the session service on it.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recoveryOpt := recovery.WithRecoveryHandler(r.recoverPanic)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			selector.UnaryServerInterceptor(
				logging.HandleGRPC,
				selector.MatchFunc(logSkip),
			),
			recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleGRPCStream,
			recovery.StreamServerInterceptor(recoveryOpt),
		),
	)
	r.registerSessionRoutes(s)

	return s
}

func (r *Router) recoverPanic(p any) error {
	r.logger.Error("gRPC handler panicked",
		"panic", fmt.Sprint(p))
	return status.Error(codes.Internal, "internal server error")
}

func (r *Router) registerSessionRoutes(server *grpc.Server) {
	sessionHandler := handler.NewSession(r.controller, r.logger)
	handler.RegisterSessionServer(server, sessionHandler)
}
