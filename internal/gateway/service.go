// Package gateway exposes the conversation engine over gRPC so that chat
// front-ends other than Telegram (the console, for one) can drive it. The
// service has a single unary method whose messages are
// google.protobuf.Struct values:
//
//	request:  {"chat_id": "<int64 as string>", "text": "<message>"}
//	response: {"replies": [{"text": "...", "menu": [["label", ...], ...], "secret": false}]}
//
// "menu" is omitted when the keyboard stays unchanged.
package gateway

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName   = "gophnotes.ChatGateway"
	DeliverMethod = "/" + ServiceName + "/Deliver"
)

// ChatGatewayServer is the server API of the chat gateway service.
type ChatGatewayServer interface {
	Deliver(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func deliverHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatGatewayServer).Deliver(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DeliverMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChatGatewayServer).Deliver(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc describes the chat gateway for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatGatewayServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Deliver",
			Handler:    deliverHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophnotes/gateway.proto",
}

func RegisterChatGatewayServer(s grpc.ServiceRegistrar, srv ChatGatewayServer) {
	s.RegisterService(&ServiceDesc, srv)
}
