// Package mcpserver lets an assistant follow a draft and make picks through
// Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/scouting"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/session"
	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/units"
)

const defaultLimit = 25

type SessionArgs struct {
	Session string `json:"session" jsonschema:"Draft session id"`
}

type CreateSessionArgs struct {
	Teams []string `json:"teams,omitempty" jsonschema:"Draft order (default: the configured teams)"`
}

type ListPlayersArgs struct {
	Session  string `json:"session" jsonschema:"Draft session id"`
	Position string `json:"position,omitempty" jsonschema:"Raw position code, e.g. wrdb"`
	Query    string `json:"q,omitempty" jsonschema:"Fuzzy player name search"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max players to return (default 25)"`
}

type DraftPlayerArgs struct {
	Session  string `json:"session" jsonschema:"Draft session id"`
	PlayerID int    `json:"player_id" jsonschema:"Id of an undrafted player"`
}

// availablePlayer is a pool entry as the tools report it
type availablePlayer struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Height   string `json:"height"`
	Weight   int    `json:"weight"`
	ADP      int    `json:"adp"`
	Speed    int    `json:"speed"`
	Route    int    `json:"route_running"`
	Coverage int    `json:"pass_defense"`
	Tackling int    `json:"tackling"`
}

type stateSummary struct {
	Session     string                 `json:"session"`
	Teams       []string               `json:"teams"`
	CurrentTeam string                 `json:"current_team"`
	Pick        int                    `json:"pick"`
	Selected    *int                   `json:"selected,omitempty"`
	Available   int                    `json:"available"`
	Drafted     []models.DraftedPlayer `json:"drafted"`
}

// New builds the MCP server with the draft tools registered
func New(sessions *session.Manager, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "turkey-bowl-draft",
			Version: version,
		},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_session",
		Description: "Start a new draft session over the current player table",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CreateSessionArgs) (*mcp.CallToolResult, any, error) {
		snap, err := sessions.Create(args.Teams)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(summarize(snap))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_available_players",
		Description: "Undrafted players in a session, best ADP first",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListPlayersArgs) (*mcp.CallToolResult, any, error) {
		snap, err := sessions.Get(args.Session)
		if err != nil {
			return toolError(err), nil, nil
		}

		players, err := scouting.Filter{Position: args.Position}.Apply(snap.Pool)
		if err != nil {
			return toolError(err), nil, nil
		}
		if args.Query != "" {
			players = scouting.Search(players, args.Query)
		} else {
			sortByADP(players)
		}

		limit := args.Limit
		if limit <= 0 {
			limit = defaultLimit
		}
		if len(players) > limit {
			players = players[:limit]
		}

		out := make([]availablePlayer, len(players))
		for i, p := range players {
			out[i] = availablePlayer{
				ID:       p.ID,
				Name:     p.Name,
				Position: units.FormatPosition(p.Position),
				Height:   units.CmToHeight(p.Height),
				Weight:   p.Weight,
				ADP:      p.ADP,
				Speed:    p.Speed,
				Route:    p.RouteRunning,
				Coverage: p.PassDefense,
				Tackling: p.Tackling,
			}
		}
		return toolJSON(map[string]any{"session": snap.Session, "current_team": snap.CurrentTeam, "players": out})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "draft_state",
		Description: "Team on the clock, pick number and picks so far",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SessionArgs) (*mcp.CallToolResult, any, error) {
		snap, err := sessions.Get(args.Session)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(summarize(snap))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "draft_player",
		Description: "Draft a player to the team on the clock",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DraftPlayerArgs) (*mcp.CallToolResult, any, error) {
		snap, pick, err := sessions.Draft(args.Session, args.PlayerID)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(map[string]any{"pick": pick, "state": summarize(snap)})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "advance_turn",
		Description: "Skip the team on the clock without a pick",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SessionArgs) (*mcp.CallToolResult, any, error) {
		snap, err := sessions.Advance(args.Session)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(summarize(snap))
	})

	return server
}

// Handler serves server over streamable HTTP
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func summarize(s session.Snapshot) stateSummary {
	out := stateSummary{
		Session:     s.Session,
		Teams:       s.Teams,
		CurrentTeam: s.CurrentTeam,
		Pick:        s.Pick,
		Available:   len(s.Pool),
		Drafted:     s.Drafted,
	}
	if s.Selected != nil {
		id := s.Selected.ID
		out.Selected = &id
	}
	return out
}

// sortByADP orders players by ADP; 0 means unranked and goes last
func sortByADP(players []models.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i].ADP, players[j].ADP
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
