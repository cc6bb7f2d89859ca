package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/bibbank/loan-origination/pkg/auth"
	"github.com/bibbank/loan-origination/pkg/tlsutil"
)

// healthServiceName is the name reported to gRPC health checks.
const healthServiceName = "loan-origination"

// ServerOptions carries the transport settings for NewServer.
type ServerOptions struct {
	TLSCertFile     string
	TLSKeyFile      string
	TLSClientCAFile string
	Reflection      bool
}

// Server wraps a gRPC server with the origination handler registered.
type Server struct {
	gs      *grpc.Server
	health  *health.Server
	handler *Handler
	logger  *slog.Logger
}

// StaffRoles lists who may call each mutating RPC. Read RPCs are open to any
// authenticated caller and then scoped per customer by the handler.
var StaffRoles = map[string][]string{
	MethodSanctionLoan:            {auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleSalesAgent},
	MethodRecordSalarySlip:        {auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleSalesAgent},
	MethodChangeApplicationStatus: {auth.RoleAdmin, auth.RoleUnderwriter},
}

// NewServer creates and configures the gRPC server.
func NewServer(handler *Handler, logger *slog.Logger, jwtService *auth.JWTService, opts ServerOptions) (*Server, error) {
	// Auth interceptor skips the health check methods.
	authInterceptor := auth.UnaryAuthInterceptor(jwtService, []string{
		"/grpc.health.v1.Health/Check",
		"/grpc.health.v1.Health/Watch",
	})

	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(authInterceptor, auth.MethodRoles(StaffRoles)),
	}

	if opts.TLSCertFile != "" && opts.TLSKeyFile != "" {
		creds, err := tlsutil.ServerTLSConfig(opts.TLSCertFile, opts.TLSKeyFile, opts.TLSClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("load TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", opts.TLSCertFile, "mtls", opts.TLSClientCAFile != "")
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpc.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_SERVING)

	if opts.Reflection {
		reflection.Register(gs)
	}

	RegisterOriginationServiceServer(gs, handler)

	return &Server{
		gs:      gs,
		health:  healthSrv,
		handler: handler,
		logger:  logger,
	}, nil
}

// Serve starts the gRPC server on the specified address.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.logger.Info("gRPC server listening", "addr", addr)
	return s.gs.Serve(lis)
}

// GracefulStop marks the service as not serving and drains in-flight RPCs.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	s.gs.GracefulStop()
}
