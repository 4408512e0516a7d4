package dal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Billy-Davies-2/turkey-bowl-draft/internal/models"
)

// PostgresDAL implements LeagueDAL using PostgreSQL
type PostgresDAL struct {
	db *sql.DB
}

// NewPostgresDAL creates a new PostgreSQL data access layer optimized for CloudNativePG
func NewPostgresDAL(connString string) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// CloudNativePG default max_connections is 100
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute) // recycle across failovers
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Retry the first ping while Kubernetes DNS settles
	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()

		if lastErr == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if lastErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	dal := &PostgresDAL{db: db}

	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (p *PostgresDAL) initSchema() error {
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
		anytime_td INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		captain TEXT NOT NULL DEFAULT '',
		odds INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS standings (
		name TEXT PRIMARY KEY,
		wins INTEGER NOT NULL,
		losses INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_players_team_id ON players(team_id);
	CREATE INDEX IF NOT EXISTS idx_players_anytime_td ON players(anytime_td);
	CREATE INDEX IF NOT EXISTS idx_teams_odds ON teams(odds);
	`

	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var count int
	if err := p.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return err
	}

	if count == 0 {
		if err := p.seedData(); err != nil {
			return err
		}
	}

	return nil
}

func (p *PostgresDAL) seedData() error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, pl := range getDefaultPlayers() {
		if _, err := tx.Exec(`INSERT INTO players (`+playerColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
			ON CONFLICT (id) DO NOTHING`, playerArgs(&pl)...); err != nil {
			return fmt.Errorf("failed to seed player %d: %w", pl.ID, err)
		}
	}

	for _, t := range getDefaultTeams() {
		if _, err := tx.Exec(`INSERT INTO teams (id, name, captain, odds) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
			t.ID, t.Name, t.Captain, t.Odds); err != nil {
			return fmt.Errorf("failed to seed team %d: %w", t.ID, err)
		}
	}

	for _, st := range getDefaultStandings() {
		if _, err := tx.Exec(`INSERT INTO standings (name, wins, losses) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			st.Name, st.Wins, st.Losses); err != nil {
			return fmt.Errorf("failed to seed standing %s: %w", st.Name, err)
		}
	}

	return tx.Commit()
}

func (p *PostgresDAL) ListPlayers() ([]models.Player, error) {
	rows, err := p.db.Query(`SELECT ` + playerColumns + ` FROM players ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanPlayers(rows)
}

func (p *PostgresDAL) GetPlayer(id int) (*models.Player, error) {
	pl, err := scanPlayer(p.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", id, ErrPlayerNotFound)
	}
	return pl, err
}

func (p *PostgresDAL) AddPlayer(player *models.Player) (*models.Player, error) {
	if err := validatePlayer(player); err != nil {
		return nil, err
	}

	args := playerArgs(player)
	if player.ID == 0 {
		args[0] = nil
	}

	var id int
	err := p.db.QueryRow(`
		INSERT INTO players (`+playerColumns+`)
		VALUES (COALESCE($1::INTEGER, (SELECT COALESCE(MAX(id), 0) + 1 FROM players)),
			$2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`, args...).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}

	player.ID = id
	return player, nil
}

func (p *PostgresDAL) SetPlayerStats(id int, stats models.Stats) (*models.Player, error) {
	args := append(statsArgs(stats), id)
	result, err := p.db.Exec(`
		UPDATE players
		SET rec_yards = $1, pass_yds = $2, rec_tds = $3, rush_yds = $4, pass_tds = $5, rush_tds = $6, rec = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
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

	return p.GetPlayer(id)
}

func (p *PostgresDAL) ListTeams() ([]models.Team, error) {
	rows, err := p.db.Query(`SELECT id, name, captain, odds FROM teams ORDER BY odds, id`)
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

func (p *PostgresDAL) ListStandings() ([]models.Standing, error) {
	rows, err := p.db.Query(`SELECT name, wins, losses FROM standings ORDER BY wins DESC, name`)
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

func (p *PostgresDAL) Reset() error {
	if _, err := p.db.Exec("TRUNCATE players, teams, standings"); err != nil {
		return err
	}
	return p.seedData()
}

func (p *PostgresDAL) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
