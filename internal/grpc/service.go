// Package grpc exposes the draft over gRPC. Messages are protobuf well-known
// types (structpb.Struct and emptypb.Empty) so no generated code is needed;
// the service descriptor below plays the role protoc-gen-go-grpc output would.
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "draft.v1.DraftService"

// DraftServiceServer is the server API for the draft service
type DraftServiceServer interface {
	CreateSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectPlayer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DraftSelected(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdvanceTurn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPlayers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StreamEvents(*emptypb.Empty, EventStream) error
}

// EventStream is the server side of StreamEvents
type EventStream interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type eventStream struct {
	grpc.ServerStream
}

func (s *eventStream) Send(m *structpb.Struct) error {
	return s.ServerStream.SendMsg(m)
}

// Register adds srv to a gRPC server
func Register(r grpc.ServiceRegistrar, srv DraftServiceServer) {
	r.RegisterService(&ServiceDesc, srv)
}

type unaryMethod func(DraftServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DraftServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(DraftServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func streamEventsHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DraftServiceServer).StreamEvents(m, &eventStream{stream})
}

// ServiceDesc is the grpc.ServiceDesc for the draft service
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DraftServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreateSession", DraftServiceServer.CreateSession),
		unaryHandler("GetState", DraftServiceServer.GetState),
		unaryHandler("SelectPlayer", DraftServiceServer.SelectPlayer),
		unaryHandler("DraftSelected", DraftServiceServer.DraftSelected),
		unaryHandler("AdvanceTurn", DraftServiceServer.AdvanceTurn),
		unaryHandler("ListPlayers", DraftServiceServer.ListPlayers),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamEvents",
			Handler:       streamEventsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "draft/v1/draft.proto",
}
