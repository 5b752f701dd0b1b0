// Package store provides storage backends for Truffle session state.
//
// It includes an in-memory store for tests and single-process use, plus
// SQLite and PostgreSQL backed stores selected by DSN detection.
package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
)

// Store defines the persistence operations the session layer needs: the
// ordered per-session turn log, the append-only question records, and the
// user profile.
type Store interface {
	AddTurn(sessionID string, turn models.ConversationTurn) error
	GetTurns(sessionID string) ([]models.ConversationTurn, error)

	AddQuestionRecord(sessionID string, record models.QuestionRecord) error
	GetQuestionRecords(sessionID string) ([]models.QuestionRecord, error)

	SaveProfile(sessionID string, profile models.UserProfile) error
	// GetProfile returns nil without error when no profile exists.
	GetProfile(sessionID string) (*models.UserProfile, error)

	ListSessions() ([]string, error)
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithSQLiteDSN sets a SQLite file path DSN.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets a PostgreSQL connection DSN.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType determines whether a DSN refers to PostgreSQL or SQLite.
// PostgreSQL DSNs use URL schemes or key=value connection strings; anything
// else is treated as a SQLite file path.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname=") {
		return "postgres"
	}
	return "sqlite"
}

// InMemoryStore is a mutex-guarded map-backed store. It is the default when
// no DSN is configured and the workhorse of the test suite.
type InMemoryStore struct {
	mu       sync.RWMutex
	turns    map[string][]models.ConversationTurn
	records  map[string][]models.QuestionRecord
	profiles map[string]models.UserProfile
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		turns:    make(map[string][]models.ConversationTurn),
		records:  make(map[string][]models.QuestionRecord),
		profiles: make(map[string]models.UserProfile),
	}
}

func (s *InMemoryStore) AddTurn(sessionID string, turn models.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

func (s *InMemoryStore) GetTurns(sessionID string) ([]models.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.turns[sessionID]
	out := make([]models.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *InMemoryStore) AddQuestionRecord(sessionID string, record models.QuestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sessionID] = append(s.records[sessionID], record)
	return nil
}

func (s *InMemoryStore) GetQuestionRecords(sessionID string) ([]models.QuestionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.records[sessionID]
	out := make([]models.QuestionRecord, len(records))
	copy(out, records)
	return out, nil
}

func (s *InMemoryStore) SaveProfile(sessionID string, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[sessionID] = profile
	return nil
}

func (s *InMemoryStore) GetProfile(sessionID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[sessionID]
	if !ok {
		return nil, nil
	}
	p := profile
	return &p, nil
}

func (s *InMemoryStore) ListSessions() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	for id := range s.turns {
		seen[id] = true
	}
	for id := range s.records {
		seen[id] = true
	}
	for id := range s.profiles {
		seen[id] = true
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *InMemoryStore) Close() error {
	return nil
}
