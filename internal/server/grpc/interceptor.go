package grpc

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/dmitrijs2005/secureguard/internal/common"
	"github.com/dmitrijs2005/secureguard/internal/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// apiKeyInterceptor rejects calls without the configured API key. An empty
// key on the server lets every call through.
func (s *GRPCServer) apiKeyInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if s.apiKey != "" {

		var apiKey string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.APIKeyHeaderName)
			if len(values) > 0 {
				apiKey = values[0]
			}
		}
		if len(apiKey) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing api key")
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.apiKey)) != 1 {
			return nil, status.Error(codes.PermissionDenied, "invalid api key")
		}

	}

	return handler(ctx, req)
}

// loggingInterceptor logs every call and counts it by status code.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	started := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	metrics.RPCRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()

	if err != nil {
		s.logger.Warn(ctx, "request failed", "method", info.FullMethod, "code", code.String(), "duration", time.Since(started), "error", err)
	} else {
		s.logger.Debug(ctx, "request served", "method", info.FullMethod, "duration", time.Since(started))
	}
	return resp, err
}
