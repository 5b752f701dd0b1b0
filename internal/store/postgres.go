// Package store provides storage backends for Truffle session state.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "embed"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists session state in PostgreSQL for multi-instance
// deployments.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "dsn_set", cfg.DSN != "")

	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open PostgreSQL connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("PostgreSQL ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run PostgreSQL migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgreSQL store ready")

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) AddTurn(sessionID string, turn models.ConversationTurn) error {
	_, err := s.db.Exec(
		`INSERT INTO conversation_turns (session_id, role, text, is_question, created_at) VALUES ($1, $2, $3, $4, $5)`,
		sessionID, turn.Role, turn.Text, turn.IsQuestion, turn.Timestamp)
	if err != nil {
		slog.Error("PostgresStore AddTurn failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to insert turn for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *PostgresStore) GetTurns(sessionID string) ([]models.ConversationTurn, error) {
	rows, err := s.db.Query(
		`SELECT role, text, is_question, created_at FROM conversation_turns WHERE session_id = $1 ORDER BY id`,
		sessionID)
	if err != nil {
		slog.Error("PostgresStore GetTurns query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []models.ConversationTurn
	for rows.Next() {
		var t models.ConversationTurn
		if err := rows.Scan(&t.Role, &t.Text, &t.IsQuestion, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan turn row: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (s *PostgresStore) AddQuestionRecord(sessionID string, record models.QuestionRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO question_records (session_id, question_id, category, asked_at) VALUES ($1, $2, $3, $4)`,
		sessionID, record.QuestionID, record.Category, record.AskedAt)
	if err != nil {
		slog.Error("PostgresStore AddQuestionRecord failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to insert question record for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *PostgresStore) GetQuestionRecords(sessionID string) ([]models.QuestionRecord, error) {
	rows, err := s.db.Query(
		`SELECT question_id, category, asked_at FROM question_records WHERE session_id = $1 ORDER BY id`,
		sessionID)
	if err != nil {
		slog.Error("PostgresStore GetQuestionRecords query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query question records: %w", err)
	}
	defer rows.Close()

	var records []models.QuestionRecord
	for rows.Next() {
		var r models.QuestionRecord
		if err := rows.Scan(&r.QuestionID, &r.Category, &r.AskedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question record row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *PostgresStore) SaveProfile(sessionID string, profile models.UserProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO user_profiles (session_id, profile, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = EXCLUDED.updated_at`,
		sessionID, payload, profile.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveProfile failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to save profile for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *PostgresStore) GetProfile(sessionID string) (*models.UserProfile, error) {
	var payload []byte
	err := s.db.QueryRow(
		`SELECT profile FROM user_profiles WHERE session_id = $1`, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetProfile failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (s *PostgresStore) ListSessions() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT session_id FROM conversation_turns
		UNION
		SELECT DISTINCT session_id FROM question_records
		UNION
		SELECT DISTINCT session_id FROM user_profiles
		ORDER BY session_id`)
	if err != nil {
		slog.Error("PostgresStore ListSessions query failed", "error", err)
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, id)
	}
	return sessions, rows.Err()
}

// Close closes the PostgreSQL database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing PostgreSQL database connection")
	return s.db.Close()
}
