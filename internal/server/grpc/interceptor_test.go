package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/secureguard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// helper to build server
func newTestServer(apiKey string) *GRPCServer {
	return &GRPCServer{
		logger: nopLogger{},
		apiKey: apiKey,
	}
}

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/secureguard.roles.RoleDirectory/FindByEmail"}

func withKey(key string) context.Context {
	md := metadata.New(map[string]string{common.APIKeyHeaderName: key})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestInterceptor_NoKeyConfigured_AllowsAll(t *testing.T) {
	s := newTestServer("")

	handlerCalled := false
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.apiKeyInterceptor(context.Background(), nil, testInfo, h)
	require.NoError(t, err)
	assert.True(t, handlerCalled)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_MissingKey(t *testing.T) {
	s := newTestServer("secret")

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called when key missing")
		return nil, nil
	}

	_, err := s.apiKeyInterceptor(context.Background(), nil, testInfo, h)
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "missing api key", status.Convert(err).Message())
}

func TestInterceptor_WrongKey(t *testing.T) {
	s := newTestServer("secret")

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called with a wrong key")
		return nil, nil
	}

	_, err := s.apiKeyInterceptor(withKey("guess"), nil, testInfo, h)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestInterceptor_ValidKey(t *testing.T) {
	s := newTestServer("secret")

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	resp, err := s.apiKeyInterceptor(withKey("secret"), nil, testInfo, h)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := newTestServer("")
	boom := status.Error(codes.Internal, "boom")

	_, err := s.loggingInterceptor(context.Background(), nil, testInfo, func(context.Context, interface{}) (interface{}, error) {
		return nil, boom
	})
	assert.True(t, errors.Is(err, boom))

	resp, err := s.loggingInterceptor(context.Background(), nil, testInfo, func(context.Context, interface{}) (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, resp)
}
