package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/secureguard/internal/common"
	"github.com/dmitrijs2005/secureguard/internal/logging"
	"github.com/dmitrijs2005/secureguard/internal/metrics"
	"github.com/dmitrijs2005/secureguard/internal/roles"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, roles.NewStaticDirectory(nil), "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "Run returned error on graceful stop")
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, roles.NewStaticDirectory(nil), "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.Error(t, srv.Run(ctx), "expected error from Run on bad address")
}

// serveBufconn starts s on an in-memory listener and returns a client for it.
func serveBufconn(t *testing.T, s *GRPCServer, clientKey string) *roles.GRPCDirectory {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Serve(ctx, lis)
	}()

	d, err := roles.NewGRPCDirectory("passthrough:///bufnet", clientKey,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = d.Close()
		cancel()
		<-done
	})
	return d
}

func TestServe_EndToEnd(t *testing.T) {
	dir := roles.NewStaticDirectory(map[string][]string{roles.PartitionParents: {"mom@example.com"}})
	s := NewGRPCServer("", nopLogger{}, dir, "k3y")

	okBefore := testutil.ToFloat64(metrics.RPCRequestsTotal.WithLabelValues(roles.FindByEmailMethod, "OK"))
	deniedBefore := testutil.ToFloat64(metrics.RPCRequestsTotal.WithLabelValues(roles.FindByEmailMethod, "PermissionDenied"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	good := serveBufconn(t, s, "k3y")
	found, err := good.FindByEmailInPartition(ctx, roles.PartitionParents, "mom@example.com")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = good.FindByEmailInPartition(ctx, roles.PartitionParents, "kid@example.com")
	require.NoError(t, err)
	assert.False(t, found)

	bad := serveBufconn(t, s, "wrong")
	_, err = bad.FindByEmailInPartition(ctx, roles.PartitionParents, "mom@example.com")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(metrics.RPCRequestsTotal.WithLabelValues(roles.FindByEmailMethod, "OK")))
	assert.Equal(t, deniedBefore+1, testutil.ToFloat64(metrics.RPCRequestsTotal.WithLabelValues(roles.FindByEmailMethod, "PermissionDenied")))
}
