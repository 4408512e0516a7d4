package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/dal"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/draft"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/logger"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/pubsub"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/scouting"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/session"
)

// Server implements the gRPC DraftService
type Server struct {
	store    dal.LeagueDAL
	sessions *session.Manager
	pubsub   *pubsub.PubSub
}

// NewServer creates a new gRPC server
func NewServer(store dal.LeagueDAL, sessions *session.Manager, ps *pubsub.PubSub) *Server {
	return &Server{
		store:    store,
		sessions: sessions,
		pubsub:   ps,
	}
}

// CreateSession starts a draft. Request: {"teams": [string]} (optional).
func (s *Server) CreateSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var teams []string
	if v, ok := req.GetFields()["teams"]; ok {
		for _, t := range v.GetListValue().GetValues() {
			name := t.GetStringValue()
			if name == "" {
				return nil, status.Error(codes.InvalidArgument, "team names must be non-empty strings")
			}
			teams = append(teams, name)
		}
	}

	snap, err := s.sessions.Create(teams)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(snap)
}

// GetState returns a session. Request: {"session": string}.
func (s *Server) GetState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	snap, err := s.sessions.Get(id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(snap)
}

// SelectPlayer highlights a player. Request: {"session": string, "playerId": number}.
func (s *Server) SelectPlayer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	playerID, ok, err := playerID(req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "playerId is required")
	}

	snap, err := s.sessions.Select(id, playerID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(snap)
}

// DraftSelected drafts the selection, or playerId when given.
// Response: {"pick": DraftedPlayer, "state": Snapshot}.
func (s *Server) DraftSelected(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	playerID, ok, err := playerID(req)
	if err != nil {
		return nil, err
	}

	var (
		snap session.Snapshot
		pick models.DraftedPlayer
	)
	if ok {
		snap, pick, err = s.sessions.Draft(id, playerID)
	} else {
		snap, pick, err = s.sessions.DraftSelected(id)
	}
	if err != nil {
		return nil, toStatus(err)
	}

	logger.Info("gRPC: Player drafted", "session", id, "player", pick.Name, "team", pick.Team)
	return toStruct(map[string]interface{}{"pick": pick, "state": snap})
}

// AdvanceTurn skips the team on the clock. Request: {"session": string}.
func (s *Server) AdvanceTurn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	snap, err := s.sessions.Advance(id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(snap)
}

// ListPlayers returns the player table. Request fields mirror the HTTP filters:
// position, minHeight, maxHeight, minWeight, maxWeight and q.
func (s *Server) ListPlayers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()
	filter := scouting.Filter{
		Position:  f["position"].GetStringValue(),
		MinHeight: f["minHeight"].GetStringValue(),
		MaxHeight: f["maxHeight"].GetStringValue(),
		MinWeight: int(f["minWeight"].GetNumberValue()),
		MaxWeight: int(f["maxWeight"].GetNumberValue()),
	}

	players, err := s.store.ListPlayers()
	if err != nil {
		return nil, toStatus(err)
	}
	players, err = filter.Apply(players)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	players = scouting.Search(players, f["q"].GetStringValue())

	return toStruct(map[string]interface{}{"players": players})
}

// StreamEvents streams pubsub events to the client until it disconnects
func (s *Server) StreamEvents(_ *emptypb.Empty, stream EventStream) error {
	logger.Debug("gRPC: New client connected to event stream")
	eventChan := s.pubsub.Subscribe()
	defer s.pubsub.Unsubscribe(eventChan)

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return nil
			}
			msg, err := toStruct(event)
			if err != nil {
				return err
			}
			if err := stream.Send(msg); err != nil {
				logger.Error("gRPC: Failed to send event to stream", "error", err)
				return err
			}
		case <-stream.Context().Done():
			logger.Debug("gRPC: Client disconnected from event stream")
			return nil
		}
	}
}

// LoggingInterceptor logs every unary call with its status code
func LoggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)
	if code == codes.Internal || code == codes.Unknown {
		logger.Error("gRPC call failed", "method", info.FullMethod, "code", code.String(), "error", err)
	} else {
		logger.Debug("gRPC call", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start).String())
	}
	return resp, err
}

func sessionID(req *structpb.Struct) (string, error) {
	id := req.GetFields()["session"].GetStringValue()
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "session is required")
	}
	return id, nil
}

func playerID(req *structpb.Struct) (int, bool, error) {
	v, ok := req.GetFields()["playerId"]
	if !ok {
		return 0, false, nil
	}
	n, isNum := v.GetKind().(*structpb.Value_NumberValue)
	if !isNum || n.NumberValue != float64(int(n.NumberValue)) {
		return 0, false, status.Error(codes.InvalidArgument, "playerId must be an integer")
	}
	return int(n.NumberValue), true, nil
}

// toStruct converts any JSON-encodable value into a protobuf Struct
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatus maps domain errors onto gRPC status codes
func toStatus(err error) error {
	switch {
	case draft.IsNotFound(err), errors.Is(err, session.ErrSessionNotFound), errors.Is(err, dal.ErrPlayerNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, draft.ErrNoSelection):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, draft.ErrNoTeams), errors.Is(err, session.ErrTooManyTeams):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
