package dal

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
)

// SQLiteDAL implements LeagueDAL using SQLite
type SQLiteDAL struct {
	db *sql.DB
}

// NewSQLiteDAL creates a new SQLite data access layer
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY under concurrent handlers
	db.SetMaxOpenConns(1)

	dal := &SQLiteDAL{db: db}

	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		height INTEGER NOT NULL,
		weight INTEGER NOT NULL,
		speed INTEGER NOT NULL,
		route_running INTEGER NOT NULL,
		pass_defense INTEGER NOT NULL,
		tackling INTEGER NOT NULL,
		adp INTEGER NOT NULL DEFAULT 0,
		rec_yards INTEGER,
		pass_yds INTEGER,
		rec_tds INTEGER,
		rush_yds INTEGER,
		pass_tds INTEGER,
		rush_tds INTEGER,
		rec INTEGER,
		overall INTEGER,
		team_id INTEGER,
		anytime_td INTEGER
	);

	CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		captain TEXT NOT NULL DEFAULT '',
		odds INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS standings (
		name TEXT PRIMARY KEY,
		wins INTEGER NOT NULL,
		losses INTEGER NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Seed default data if empty
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return err
	}

	if count == 0 {
		if err := s.seedData(); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteDAL) seedData() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range getDefaultPlayers() {
		if _, err := tx.Exec(`INSERT INTO players (`+playerColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, playerArgs(&p)...); err != nil {
			return fmt.Errorf("failed to seed player %d: %w", p.ID, err)
		}
	}

	for _, t := range getDefaultTeams() {
		if _, err := tx.Exec(`INSERT INTO teams (id, name, captain, odds) VALUES (?, ?, ?, ?)`,
			t.ID, t.Name, t.Captain, t.Odds); err != nil {
			return fmt.Errorf("failed to seed team %d: %w", t.ID, err)
		}
	}

	for _, st := range getDefaultStandings() {
		if _, err := tx.Exec(`INSERT INTO standings (name, wins, losses) VALUES (?, ?, ?)`,
			st.Name, st.Wins, st.Losses); err != nil {
			return fmt.Errorf("failed to seed standing %s: %w", st.Name, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteDAL) ListPlayers() ([]models.Player, error) {
	rows, err := s.db.Query(`SELECT ` + playerColumns + ` FROM players ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanPlayers(rows)
}

func (s *SQLiteDAL) GetPlayer(id int) (*models.Player, error) {
	p, err := scanPlayer(s.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", id, ErrPlayerNotFound)
	}
	return p, err
}

func (s *SQLiteDAL) AddPlayer(player *models.Player) (*models.Player, error) {
	if err := validatePlayer(player); err != nil {
		return nil, err
	}

	args := playerArgs(player)
	if player.ID == 0 {
		// NULL id lets sqlite assign max(rowid)+1
		args[0] = nil
	}

	result, err := s.db.Exec(`INSERT INTO players (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	player.ID = int(id)
	return player, nil
}

func (s *SQLiteDAL) SetPlayerStats(id int, stats models.Stats) (*models.Player, error) {
	args := append(statsArgs(stats), id)
	result, err := s.db.Exec(`
		UPDATE players
		SET rec_yards = ?, pass_yds = ?, rec_tds = ?, rush_yds = ?, pass_tds = ?, rush_tds = ?, rec = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("player %d: %w", id, ErrPlayerNotFound)
	}

	return s.GetPlayer(id)
}

func (s *SQLiteDAL) ListTeams() ([]models.Team, error) {
	rows, err := s.db.Query(`SELECT id, name, captain, odds FROM teams ORDER BY odds, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Captain, &t.Odds); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *SQLiteDAL) ListStandings() ([]models.Standing, error) {
	rows, err := s.db.Query(`SELECT name, wins, losses FROM standings ORDER BY wins DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := []models.Standing{}
	for rows.Next() {
		var st models.Standing
		if err := rows.Scan(&st.Name, &st.Wins, &st.Losses); err != nil {
			return nil, err
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}

func (s *SQLiteDAL) Reset() error {
	for _, table := range []string{"players", "teams", "standings"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return s.seedData()
}

func (s *SQLiteDAL) Close() error {
	return s.db.Close()
}
