package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/secureguard/internal/logging"
	"github.com/dmitrijs2005/secureguard/internal/roles"
	"google.golang.org/grpc"
)

// GRPCServer serves the role directory over gRPC.
type GRPCServer struct {
	address   string
	directory roles.Directory
	logger    logging.Logger
	apiKey    string
}

func NewGRPCServer(a string, l logging.Logger, d roles.Directory, apiKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		directory: d,
		apiKey:    apiKey,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.apiKeyInterceptor))

	// registers service
	roles.RegisterDirectoryServer(srv, s.directory)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
