// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/bugbash/gameserver/models"
)

// PostgreSQL is a plain database/sql implementation of Database, for
// deployments that prefer raw SQL over the GORM layer.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_code TEXT NOT NULL,
            rounds INT NOT NULL,
            winner TEXT NOT NULL,
            reason TEXT NOT NULL,
            players JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS player_stats (
            id SERIAL PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            games INT NOT NULL DEFAULT 0,
            wins INT NOT NULL DEFAULT 0,
            losses INT NOT NULL DEFAULT 0,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	return err
}

func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(`
        INSERT INTO game_records (room_code, rounds, winner, reason, players)
        VALUES ($1, $2, $3, $4, $5)`,
		record.RoomCode, record.Rounds, record.Winner, record.Reason, players)
	return err
}

func (p *PostgreSQL) RecordPlayerResult(name string, won bool) error {
	wins := 0
	losses := 0
	if won {
		wins = 1
	} else {
		losses = 1
	}

	_, err := p.db.Exec(`
        INSERT INTO player_stats (name, games, wins, losses)
        VALUES ($1, 1, $2, $3)
        ON CONFLICT (name) DO UPDATE SET
            games = player_stats.games + 1,
            wins = player_stats.wins + $2,
            losses = player_stats.losses + $3,
            updated_at = CURRENT_TIMESTAMP`,
		name, wins, losses)
	return err
}

func (p *PostgreSQL) GetPlayerStats(name string) (*models.PlayerStats, error) {
	stats := &models.PlayerStats{}
	err := p.db.QueryRow(`
        SELECT name, games, wins, losses FROM player_stats WHERE name = $1`,
		name).Scan(&stats.Name, &stats.TotalGames, &stats.Wins, &stats.Losses)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
