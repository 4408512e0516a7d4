package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client is a thin client for the draft service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) call(ctx context.Context, method string, req map[string]interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSession starts a draft. Nil teams uses the server's default order.
func (c *Client) CreateSession(ctx context.Context, teams []string) (*structpb.Struct, error) {
	req := map[string]interface{}{}
	if teams != nil {
		list := make([]interface{}, len(teams))
		for i, t := range teams {
			list[i] = t
		}
		req["teams"] = list
	}
	return c.call(ctx, "CreateSession", req)
}

func (c *Client) GetState(ctx context.Context, session string) (*structpb.Struct, error) {
	return c.call(ctx, "GetState", map[string]interface{}{"session": session})
}

func (c *Client) SelectPlayer(ctx context.Context, session string, playerID int) (*structpb.Struct, error) {
	return c.call(ctx, "SelectPlayer", map[string]interface{}{"session": session, "playerId": playerID})
}

// DraftSelected drafts the selection. A positive playerID drafts that player directly.
func (c *Client) DraftSelected(ctx context.Context, session string, playerID int) (*structpb.Struct, error) {
	req := map[string]interface{}{"session": session}
	if playerID > 0 {
		req["playerId"] = playerID
	}
	return c.call(ctx, "DraftSelected", req)
}

func (c *Client) AdvanceTurn(ctx context.Context, session string) (*structpb.Struct, error) {
	return c.call(ctx, "AdvanceTurn", map[string]interface{}{"session": session})
}

// ListPlayers takes the same filter fields as the HTTP API
func (c *Client) ListPlayers(ctx context.Context, filter map[string]interface{}) (*structpb.Struct, error) {
	if filter == nil {
		filter = map[string]interface{}{}
	}
	return c.call(ctx, "ListPlayers", filter)
}

// EventReceiver reads events from StreamEvents
type EventReceiver struct {
	stream grpc.ClientStream
}

// Recv blocks for the next event
func (r *EventReceiver) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := r.stream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// StreamEvents subscribes to draft events until ctx is cancelled
func (c *Client) StreamEvents(ctx context.Context) (*EventReceiver, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], "/"+ServiceName+"/StreamEvents")
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &EventReceiver{stream: stream}, nil
}
