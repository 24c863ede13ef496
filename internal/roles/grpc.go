package roles

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/secureguard/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GRPCDirectory queries a remote role-directory server.
type GRPCDirectory struct {
	conn   *grpc.ClientConn
	apiKey string
}

// NewGRPCDirectory connects lazily to addr. Extra options are applied after
// the defaults (insecure transport, API-key interceptor).
func NewGRPCDirectory(addr, apiKey string, opts ...grpc.DialOption) (*GRPCDirectory, error) {
	d := &GRPCDirectory{apiKey: apiKey}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(d.apiKeyInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	d.conn = conn
	return d, nil
}

func withAPIKey(ctx context.Context, key string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.APIKeyHeaderName, key)
	return metadata.NewOutgoingContext(ctx, md)
}

func (d *GRPCDirectory) apiKeyInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if d.apiKey != "" {
		ctx = withAPIKey(ctx, d.apiKey)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (d *GRPCDirectory) FindByEmailInPartition(ctx context.Context, partition, email string) (bool, error) {
	req, err := NewFindByEmailRequest(partition, email)
	if err != nil {
		return false, err
	}

	resp := new(wrapperspb.BoolValue)
	if err := d.conn.Invoke(ctx, FindByEmailMethod, req, resp); err != nil {
		return false, mapError(err)
	}
	return resp.GetValue(), nil
}

func (d *GRPCDirectory) Close() error {
	return d.conn.Close()
}

func mapError(err error) error {
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Canceled, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", ErrLookupCanceled, err)
	case codes.Unauthenticated, codes.PermissionDenied:
		return common.ErrorUnauthorized
	case codes.Unavailable:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
