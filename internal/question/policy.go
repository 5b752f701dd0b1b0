package question

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/emotion"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
)

// PolicyState is the outcome of evaluating whether to ask a question on the
// current turn.
type PolicyState string

const (
	StateEligible             PolicyState = "ELIGIBLE"
	StateSuppressedDistress   PolicyState = "SUPPRESSED_BY_DISTRESS"
	StateSuppressedCooldown   PolicyState = "SUPPRESSED_BY_COOLDOWN"
	StateSuppressedRepetition PolicyState = "SUPPRESSED_BY_REPETITION"
	StateSuppressedPacing     PolicyState = "SUPPRESSED_BY_PACING"
)

// Policy constants.
const (
	// MinConversationLength is the pacing floor: at least this many exchanges
	// must exist before the first reflective question.
	MinConversationLength = 2
	// CategoryCooldown is the minimum elapsed time before a question from the
	// same category may be asked again.
	CategoryCooldown = 5 * time.Minute
	// historyWindow bounds how far back Generate looks when avoiding
	// questions already phrased in recent turns.
	historyWindow = 10
)

// State is the mutable per-session question policy state. It is owned by the
// caller's session object, passed into every call, and never shared across
// sessions. Records are append-only.
type State struct {
	Records []models.QuestionRecord

	// lastEval caches the most recent ShouldAsk outcome so Generate can warn
	// about misuse without re-running the safety checks itself.
	lastEval PolicyState
}

// NewState creates a policy state seeded with previously persisted records.
func NewState(records []models.QuestionRecord) *State {
	return &State{Records: records, lastEval: ""}
}

// LastEval returns the most recent evaluation outcome.
func (s *State) LastEval() PolicyState {
	return s.lastEval
}

// latest returns the most recently appended record, or nil.
func (s *State) latest() *models.QuestionRecord {
	if len(s.Records) == 0 {
		return nil
	}
	return &s.Records[len(s.Records)-1]
}

// asked reports whether a question ID appears in the session records.
func (s *State) asked(id string) bool {
	for _, r := range s.Records {
		if r.QuestionID == id {
			return true
		}
	}
	return false
}

// askedAt returns when a question ID was last asked, or the zero time.
func (s *State) askedAt(id string) time.Time {
	var latest time.Time
	for _, r := range s.Records {
		if r.QuestionID == id && r.AskedAt.After(latest) {
			latest = r.AskedAt
		}
	}
	return latest
}

// Engine decides, per turn, whether to ask a reflective question and selects
// one from the bank. The engine itself holds no session state; all mutable
// state lives in the State passed to each call.
type Engine struct {
	bank *Bank
	now  func() time.Time
	intn func(n int) int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIntN overrides the selection randomness, for tests.
func WithIntN(intn func(n int) int) Option {
	return func(e *Engine) { e.intn = intn }
}

// NewEngine creates a policy engine over the given bank. A nil bank falls
// back to the built-in one.
func NewEngine(bank *Bank, opts ...Option) *Engine {
	if bank == nil {
		bank = DefaultBank()
	}
	e := &Engine{
		bank: bank,
		now:  time.Now,
		intn: rand.Intn,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ShouldAsk is the single gate deciding whether a reflective question is
// appropriate on this turn. It must return true before Generate is called;
// Generate does not re-check these conditions itself.
func (e *Engine) ShouldAsk(st *State, conversationLength int, lastWasQuestion bool, cue models.EmotionalCue) bool {
	state := e.Evaluate(st, conversationLength, lastWasQuestion, cue)
	return state == StateEligible
}

// Evaluate runs the suppression checks in safety order and records the
// outcome on the session state.
func (e *Engine) Evaluate(st *State, conversationLength int, lastWasQuestion bool, cue models.EmotionalCue) PolicyState {
	state := e.evaluate(st, conversationLength, lastWasQuestion, cue)
	st.lastEval = state
	if state != StateEligible {
		slog.Debug("question.Engine.Evaluate: suppressed",
			"state", state, "conversation_length", conversationLength,
			"last_was_question", lastWasQuestion, "emotion", cue.PrimaryEmotion)
	}
	return state
}

func (e *Engine) evaluate(st *State, conversationLength int, lastWasQuestion bool, cue models.EmotionalCue) PolicyState {
	// Pacing: need conversational context first, and never two questions in
	// a row.
	if conversationLength < MinConversationLength {
		return StateSuppressedPacing
	}
	if lastWasQuestion {
		return StateSuppressedPacing
	}

	// Safety: no probing while someone is in acute distress or expressing at
	// high intensity.
	if !emotion.ShouldAskFollowUp(cue) {
		return StateSuppressedDistress
	}

	candidates := CategoriesFor(cue.PrimaryEmotion)

	// Cooldown: the most recent question's category must rest before this
	// emotional context draws from it again.
	if latest := st.latest(); latest != nil && e.now().Sub(latest.AskedAt) < CategoryCooldown {
		for _, cat := range candidates {
			if cat == latest.Category {
				return StateSuppressedCooldown
			}
		}
	}

	// Repetition: if every candidate question was already asked and the
	// least-recently-asked fallback would repeat the question just asked,
	// there is nothing fresh to say.
	fresh, fallback := e.pool(st, candidates, nil)
	if len(fresh) == 0 {
		latest := st.latest()
		if fallback == nil || (latest != nil && fallback.ID == latest.QuestionID) {
			return StateSuppressedRepetition
		}
	}

	return StateEligible
}

// Generate selects a context-appropriate question, appends a QuestionRecord
// to the session state, and returns the question. Calling it while the last
// evaluation was not ELIGIBLE is a contract violation: the engine returns nil
// and surfaces a warning rather than asking anyway, since safety must degrade
// to asking nothing.
func (e *Engine) Generate(st *State, emo models.Emotion, history []models.ConversationTurn, profile *models.UserProfile) *models.Question {
	if st.lastEval != StateEligible {
		slog.Warn("question.Engine.Generate: called while not eligible, returning nil",
			"last_eval", st.lastEval, "emotion", emo)
		return nil
	}

	candidates := e.biasCategories(CategoriesFor(emo), profile)
	fresh, fallback := e.pool(st, candidates, recentTexts(history))

	var chosen models.Question
	switch {
	case len(fresh) > 0:
		chosen = fresh[e.intn(len(fresh))]
	case fallback != nil:
		// Every candidate was asked this session; reuse the one asked
		// longest ago.
		chosen = *fallback
	default:
		slog.Warn("question.Engine.Generate: no candidate questions available", "emotion", emo)
		return nil
	}

	record := models.QuestionRecord{
		QuestionID: chosen.ID,
		Category:   chosen.Category,
		AskedAt:    e.now(),
	}
	st.Records = append(st.Records, record)
	st.lastEval = ""

	slog.Debug("question.Engine.Generate: selected question",
		"question_id", chosen.ID, "category", chosen.Category, "emotion", emo)
	return &chosen
}

// pool splits the candidate questions into the unasked pool and the
// least-recently-asked fallback. The fallback never equals the most recent
// record while an alternative exists. Questions whose text already appears in
// the recent history are excluded from the fresh pool.
func (e *Engine) pool(st *State, categories []models.QuestionCategory, recent map[string]bool) (fresh []models.Question, fallback *models.Question) {
	var exhausted []models.Question
	for _, cat := range categories {
		for _, q := range e.bank.In(cat) {
			if !st.asked(q.ID) {
				if !recent[q.Text] {
					fresh = append(fresh, q)
				}
				continue
			}
			exhausted = append(exhausted, q)
		}
	}

	fallback = leastRecentlyAsked(st, exhausted, "")
	if latest := st.latest(); latest != nil && fallback != nil && fallback.ID == latest.QuestionID {
		// Never repeat the question just asked while an alternative exists.
		if alt := leastRecentlyAsked(st, exhausted, latest.QuestionID); alt != nil {
			fallback = alt
		}
	}
	return fresh, fallback
}

// leastRecentlyAsked returns the question asked longest ago, skipping the
// excluded ID.
func leastRecentlyAsked(st *State, questions []models.Question, exclude string) *models.Question {
	var best *models.Question
	var bestAt time.Time
	for i, q := range questions {
		if q.ID == exclude {
			continue
		}
		when := st.askedAt(q.ID)
		if best == nil || when.Before(bestAt) {
			best = &questions[i]
			bestAt = when
		}
	}
	return best
}

// biasCategories reorders candidate categories using the user profile: a user
// with known coping strategies gets coping questions first so the
// conversation can build on what already works for them.
func (e *Engine) biasCategories(categories []models.QuestionCategory, profile *models.UserProfile) []models.QuestionCategory {
	if profile == nil || len(profile.CopingStrategies) == 0 {
		return categories
	}
	out := make([]models.QuestionCategory, 0, len(categories))
	for _, cat := range categories {
		if cat == models.CategoryCopingResilience {
			out = append([]models.QuestionCategory{cat}, out...)
			continue
		}
		out = append(out, cat)
	}
	return out
}

// recentTexts collects assistant utterances from the tail of the history so
// Generate avoids re-asking something already phrased organically.
func recentTexts(history []models.ConversationTurn) map[string]bool {
	if len(history) == 0 {
		return nil
	}
	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	out := make(map[string]bool)
	for _, t := range history[start:] {
		if t.Role == models.RoleAssistant {
			out[t.Text] = true
		}
	}
	return out
}
