// Package store provides storage backends for Truffle session state.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists session state in a local SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN. The DSN is a
// file path; missing parent directories are created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "dsn_set", cfg.DSN != "")

	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(cfg.DSN)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run SQLite migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite store ready", "path", cfg.DSN)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) AddTurn(sessionID string, turn models.ConversationTurn) error {
	_, err := s.db.Exec(
		`INSERT INTO conversation_turns (session_id, role, text, is_question, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, turn.Role, turn.Text, turn.IsQuestion, turn.Timestamp)
	if err != nil {
		slog.Error("SQLiteStore AddTurn failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to insert turn for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *SQLiteStore) GetTurns(sessionID string) ([]models.ConversationTurn, error) {
	rows, err := s.db.Query(
		`SELECT role, text, is_question, created_at FROM conversation_turns WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		slog.Error("SQLiteStore GetTurns query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []models.ConversationTurn
	for rows.Next() {
		var t models.ConversationTurn
		if err := rows.Scan(&t.Role, &t.Text, &t.IsQuestion, &t.Timestamp); err != nil {
			slog.Error("SQLiteStore GetTurns scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan turn row: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turn rows: %w", err)
	}
	return turns, nil
}

func (s *SQLiteStore) AddQuestionRecord(sessionID string, record models.QuestionRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO question_records (session_id, question_id, category, asked_at) VALUES (?, ?, ?, ?)`,
		sessionID, record.QuestionID, record.Category, record.AskedAt)
	if err != nil {
		slog.Error("SQLiteStore AddQuestionRecord failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to insert question record for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *SQLiteStore) GetQuestionRecords(sessionID string) ([]models.QuestionRecord, error) {
	rows, err := s.db.Query(
		`SELECT question_id, category, asked_at FROM question_records WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		slog.Error("SQLiteStore GetQuestionRecords query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query question records: %w", err)
	}
	defer rows.Close()

	var records []models.QuestionRecord
	for rows.Next() {
		var r models.QuestionRecord
		if err := rows.Scan(&r.QuestionID, &r.Category, &r.AskedAt); err != nil {
			slog.Error("SQLiteStore GetQuestionRecords scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan question record row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate question record rows: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) SaveProfile(sessionID string, profile models.UserProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		slog.Error("SQLiteStore SaveProfile marshal failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO user_profiles (session_id, profile, updated_at) VALUES (?, ?, ?)`,
		sessionID, string(payload), profile.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveProfile failed", "error", err, "sessionID", sessionID)
		return fmt.Errorf("failed to save profile for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *SQLiteStore) GetProfile(sessionID string) (*models.UserProfile, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT profile FROM user_profiles WHERE session_id = ?`, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetProfile failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		slog.Error("SQLiteStore GetProfile unmarshal failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

func (s *SQLiteStore) ListSessions() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT session_id FROM conversation_turns
		UNION
		SELECT DISTINCT session_id FROM question_records
		UNION
		SELECT DISTINCT session_id FROM user_profiles
		ORDER BY session_id`)
	if err != nil {
		slog.Error("SQLiteStore ListSessions query failed", "error", err)
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

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
