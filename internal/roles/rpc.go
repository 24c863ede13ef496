package roles

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Wire names of the role-directory service. Requests are structpb.Struct
// values with "partition" and "email" fields; responses are BoolValue.
const (
	ServiceName       = "secureguard.roles.RoleDirectory"
	FindByEmailMethod = "/" + ServiceName + "/FindByEmail"
)

// NewFindByEmailRequest encodes a lookup request.
func NewFindByEmailRequest(partition, email string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"partition": partition,
		"email":     email,
	})
}

// ParseFindByEmailRequest decodes and checks a lookup request.
func ParseFindByEmailRequest(req *structpb.Struct) (partition, email string, err error) {
	fields := req.GetFields()
	partition = strings.TrimSpace(fields["partition"].GetStringValue())
	email = strings.TrimSpace(fields["email"].GetStringValue())
	if partition == "" || email == "" {
		return "", "", errors.New("partition and email are required")
	}
	return partition, email, nil
}

// RegisterDirectoryServer exposes d as the role-directory service on s.
func RegisterDirectoryServer(s grpc.ServiceRegistrar, d Directory) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*Directory)(nil),
		Methods: []grpc.MethodDesc{{
			MethodName: "FindByEmail",
			Handler:    findByEmailHandler,
		}},
		Metadata: "secureguard/roles.proto",
	}, d)
}

func findByEmailHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	handler := func(ctx context.Context, req any) (any, error) {
		partition, email, err := ParseFindByEmailRequest(req.(*structpb.Struct))
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		found, err := srv.(Directory).FindByEmailInPartition(ctx, partition, email)
		if err != nil {
			if errors.Is(err, ErrLookupCanceled) {
				return nil, status.Error(codes.Canceled, err.Error())
			}
			return nil, status.Error(codes.Internal, "lookup failed")
		}
		return wrapperspb.Bool(found), nil
	}

	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FindByEmailMethod}
	return interceptor(ctx, in, info, handler)
}
