package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Full method names of the session service.
const (
	SessionServiceName  = "krishisakhi.session.v1.Session"
	StateFullMethod     = "/" + SessionServiceName + "/State"
	LoginFullMethod     = "/" + SessionServiceName + "/Login"
	LogoutFullMethod    = "/" + SessionServiceName + "/Logout"
	AllowedFullMethod   = "/" + SessionServiceName + "/Allowed"
	WatchFullMethod     = "/" + SessionServiceName + "/Watch"
	watchStreamName     = "Watch"
	sessionProtoPackage = "krishisakhi/session/v1/session.proto"
)

// SessionServer is the server API of the session service. Messages are
// protobuf well-known types so the UI shell needs no generated stubs.
type SessionServer interface {
	State(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Allowed(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	Watch(*emptypb.Empty, grpc.ServerStream) error
}

// RegisterSessionServer registers srv on s.
func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&SessionServiceDesc, srv)
}

// SessionServiceDesc describes the session service.
var SessionServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "State", Handler: stateHandler},
		{MethodName: "Login", Handler: loginHandler},
		{MethodName: "Logout", Handler: logoutHandler},
		{MethodName: "Allowed", Handler: allowedHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: watchStreamName, Handler: watchHandler, ServerStreams: true},
	},
	Metadata: sessionProtoPackage,
}

func stateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).State(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: StateFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServer).State(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func loginHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Login(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LoginFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServer).Login(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func logoutHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Logout(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LogoutFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServer).Logout(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func allowedHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Allowed(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AllowedFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServer).Allowed(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(SessionServer).Watch(in, stream)
}
