// Package session owns per-session conversational state: the ordered turn
// log, the asked-question records, and the user profile, all backed by a
// store. It also enforces the one-turn-in-flight-per-session discipline.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/store"
)

// Manager mediates all session state access. Cross-session operations run
// with unbounded parallelism; turns within one session are serialized by a
// per-session lock.
type Manager struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a session manager over the given store.
func NewManager(st store.Store) *Manager {
	slog.Debug("Creating session manager")
	return &Manager{
		store: st,
		locks: make(map[string]*sync.Mutex),
	}
}

// Acquire takes the per-session lock and returns its release function. Every
// turn must run inside an Acquire/release pair; no two turns for one session
// may be in flight at once.
func (m *Manager) Acquire(sessionID string) func() {
	m.mu.Lock()
	lock, ok := m.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[sessionID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Snapshot is the read-only view of a session handed to the turn pipeline.
type Snapshot struct {
	Turns   []models.ConversationTurn
	Records []models.QuestionRecord
	Profile *models.UserProfile
}

// ConversationLength returns the number of user exchanges so far.
func (s Snapshot) ConversationLength() int {
	n := 0
	for _, t := range s.Turns {
		if t.Role == models.RoleUser {
			n++
		}
	}
	return n
}

// LastWasQuestion reports whether the most recent assistant utterance was a
// question.
func (s Snapshot) LastWasQuestion() bool {
	for i := len(s.Turns) - 1; i >= 0; i-- {
		if s.Turns[i].Role == models.RoleAssistant {
			return s.Turns[i].IsQuestion
		}
	}
	return false
}

// Snapshot loads the full session state from the store.
func (m *Manager) Snapshot(sessionID string) (Snapshot, error) {
	turns, err := m.store.GetTurns(sessionID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load turns for session %s: %w", sessionID, err)
	}
	records, err := m.store.GetQuestionRecords(sessionID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load question records for session %s: %w", sessionID, err)
	}
	profile, err := m.store.GetProfile(sessionID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load profile for session %s: %w", sessionID, err)
	}
	return Snapshot{Turns: turns, Records: records, Profile: profile}, nil
}

// AppendTurn persists one conversation turn.
func (m *Manager) AppendTurn(sessionID string, role models.Role, text string, isQuestion bool, at time.Time) error {
	turn := models.ConversationTurn{
		Role:       role,
		Text:       text,
		IsQuestion: isQuestion,
		Timestamp:  at,
	}
	if err := m.store.AddTurn(sessionID, turn); err != nil {
		return fmt.Errorf("failed to append %s turn: %w", role, err)
	}
	slog.Debug("Session turn appended", "sessionID", sessionID, "role", role, "is_question", isQuestion)
	return nil
}

// RecordQuestion persists one asked-question record.
func (m *Manager) RecordQuestion(sessionID string, record models.QuestionRecord) error {
	if err := m.store.AddQuestionRecord(sessionID, record); err != nil {
		return fmt.Errorf("failed to record question: %w", err)
	}
	slog.Debug("Question record appended", "sessionID", sessionID,
		"question_id", record.QuestionID, "category", record.Category)
	return nil
}

// SaveProfile persists the user profile for a session.
func (m *Manager) SaveProfile(sessionID string, profile models.UserProfile) error {
	profile.UpdatedAt = time.Now()
	if err := m.store.SaveProfile(sessionID, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	slog.Info("Profile saved", "sessionID", sessionID, "name_set", profile.Name != "")
	return nil
}

// Profile loads the user profile, or nil when none exists.
func (m *Manager) Profile(sessionID string) (*models.UserProfile, error) {
	return m.store.GetProfile(sessionID)
}

// Sessions lists the known session IDs.
func (m *Manager) Sessions() ([]string, error) {
	return m.store.ListSessions()
}
