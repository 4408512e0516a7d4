package dal

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
)

// playerColumns is the shared select list for the SQL drivers, matched by scanPlayer
const playerColumns = `id, name, position, height, weight, speed, route_running, pass_defense, tackling, adp,
	rec_yards, pass_yds, rec_tds, rush_yds, pass_tds, rush_tds, rec, overall, team_id, anytime_td`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	var recYards, passYds, recTDs, rushYds, passTDs, rushTDs, rec, overall, teamID, anytimeTD sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Position, &p.Height, &p.Weight, &p.Speed, &p.RouteRunning, &p.PassDefense, &p.Tackling, &p.ADP,
		&recYards, &passYds, &recTDs, &rushYds, &passTDs, &rushTDs, &rec, &overall, &teamID, &anytimeTD)
	if err != nil {
		return nil, err
	}
	p.RecYards = intFromNull(recYards)
	p.PassYds = intFromNull(passYds)
	p.RecTDs = intFromNull(recTDs)
	p.RushYds = intFromNull(rushYds)
	p.PassTDs = intFromNull(passTDs)
	p.RushTDs = intFromNull(rushTDs)
	p.Rec = intFromNull(rec)
	p.Overall = intFromNull(overall)
	p.TeamID = intFromNull(teamID)
	p.AnytimeTD = intFromNull(anytimeTD)
	return &p, nil
}

func scanPlayers(rows *sql.Rows) ([]models.Player, error) {
	defer rows.Close()
	players := []models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// playerArgs returns the insert arguments in playerColumns order
func playerArgs(p *models.Player) []any {
	return []any{p.ID, p.Name, p.Position, p.Height, p.Weight, p.Speed, p.RouteRunning, p.PassDefense, p.Tackling, p.ADP,
		nullInt(p.RecYards), nullInt(p.PassYds), nullInt(p.RecTDs), nullInt(p.RushYds), nullInt(p.PassTDs), nullInt(p.RushTDs), nullInt(p.Rec),
		nullInt(p.Overall), nullInt(p.TeamID), nullInt(p.AnytimeTD)}
}

func statsArgs(s models.Stats) []any {
	return []any{nullInt(s.RecYards), nullInt(s.PassYds), nullInt(s.RecTDs), nullInt(s.RushYds), nullInt(s.PassTDs), nullInt(s.RushTDs), nullInt(s.Rec)}
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func validatePlayer(p *models.Player) error {
	if p == nil {
		return fmt.Errorf("player is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

func sortTeams(teams []models.Team) {
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Odds < teams[j].Odds })
}

// sortStandings matches the SQL drivers' ORDER BY wins DESC, name
func sortStandings(standings []models.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].Name < standings[j].Name
	})
}
