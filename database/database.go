// Package database owns the PostgreSQL connection and schema setup.
package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// ConnectDB opens a connection using either DATABASE_URL or the discrete
// DB_* environment variables.
func ConnectDB() (*sql.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_PORT", "5432"),
			getenv("DB_USER", "postgres"),
			os.Getenv("DB_PASS"),
			getenv("DB_NAME", "emotion_board"),
		)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	return db, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Migrate creates the schema. The unique constraints here back the
// one-click, one-report and signup-field invariants; everything else in
// the code treats them as given.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(50) NOT NULL,
			email VARCHAR(120) NOT NULL,
			nickname VARCHAR(50) NOT NULL,
			password VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uk_users_username UNIQUE (username),
			CONSTRAINT uk_users_email UNIQUE (email),
			CONSTRAINT uk_users_nickname UNIQUE (nickname)
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			author_id BIGINT NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			emotion VARCHAR(20) NOT NULL,
			llm_reply TEXT,
			hidden BOOLEAN NOT NULL DEFAULT FALSE,
			reported_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS post_buttons (
			id BIGSERIAL PRIMARY KEY,
			post_id BIGINT NOT NULL REFERENCES posts(id),
			button_type VARCHAR(20) NOT NULL,
			button_label VARCHAR(50) NOT NULL,
			click_count INT NOT NULL DEFAULT 0,
			CONSTRAINT uk_post_button UNIQUE (post_id, button_type)
		)`,
		`CREATE TABLE IF NOT EXISTS button_clicks (
			id BIGSERIAL PRIMARY KEY,
			post_id BIGINT NOT NULL REFERENCES posts(id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			button_type VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uk_click_post_user UNIQUE (post_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS post_reports (
			id BIGSERIAL PRIMARY KEY,
			post_id BIGINT NOT NULL REFERENCES posts(id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uk_report_post_user UNIQUE (post_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			token TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT uk_fcm_user_token UNIQUE (user_id, token)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
