package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"movierec-backend/internal/config"
)

// NewPostgres creates a new PostgreSQL connection and runs migrations.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		// The unique index on email is what makes concurrent signups safe;
		// the application-level duplicate check alone cannot be.
		`CREATE TABLE IF NOT EXISTS accounts (
			id SERIAL PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			email VARCHAR(320) UNIQUE NOT NULL,
			phone VARCHAR(20) NOT NULL,
			password_hash VARCHAR(200) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS movies (
			id SERIAL PRIMARY KEY,
			title VARCHAR(500) NOT NULL,
			genres TEXT[] NOT NULL DEFAULT '{}'
		)`,
		// Current-state aggregates. Composite primary keys give the set
		// semantics: ON CONFLICT DO NOTHING for idempotent membership,
		// ON CONFLICT DO UPDATE for last-write-wins ratings.
		`CREATE TABLE IF NOT EXISTS watchlist (
			account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
			movie_id INTEGER NOT NULL,
			added_at TIMESTAMP DEFAULT NOW(),
			PRIMARY KEY (account_id, movie_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
			movie_id INTEGER NOT NULL,
			rating DOUBLE PRECISION NOT NULL,
			rated_at TIMESTAMP DEFAULT NOW(),
			PRIMARY KEY (account_id, movie_id)
		)`,
		`CREATE TABLE IF NOT EXISTS watched (
			account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
			movie_id INTEGER NOT NULL,
			watched_at TIMESTAMP DEFAULT NOW(),
			PRIMARY KEY (account_id, movie_id)
		)`,
		// Append-only interaction log. Rows are never updated or deleted;
		// per-account ordering is the id sequence, created_at is advisory.
		`CREATE TABLE IF NOT EXISTS interactions (
			id BIGSERIAL PRIMARY KEY,
			event_id UUID NOT NULL,
			account_id INTEGER NOT NULL,
			movie_id INTEGER NOT NULL,
			action VARCHAR(20) NOT NULL,
			rating DOUBLE PRECISION,
			currently_watched BOOLEAN NOT NULL DEFAULT FALSE,
			session_id VARCHAR(100) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_account ON interactions(account_id, id)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	if err := seedCatalog(db); err != nil {
		return err
	}

	slog.Info("database migrations completed")
	return nil
}

// seedCatalog loads a starter catalog so search and watchlist resolution work
// out of the box. Skipped once the table has rows.
func seedCatalog(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count movies: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO movies (title, genres) VALUES
			('The Matrix', '{"Action","Sci-Fi"}'),
			('Inception', '{"Action","Thriller"}'),
			('The Godfather', '{"Crime","Drama"}'),
			('Spirited Away', '{"Animation","Fantasy"}'),
			('Parasite', '{"Drama","Thriller"}'),
			('Interstellar', '{"Adventure","Sci-Fi"}'),
			('The Dark Knight', '{"Action","Crime"}'),
			('Pulp Fiction', '{"Crime","Drama"}'),
			('Forrest Gump', '{"Drama","Romance"}'),
			('Whiplash', '{"Drama","Music"}')
	`)
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	slog.Info("seeded movie catalog", "count", 10)
	return nil
}
