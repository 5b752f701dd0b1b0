package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/emotion"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/genai"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/question"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/session"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/voice"
)

// Orchestrator sequences the emotional response pipeline for one turn:
// crisis detection, classification, tone resolution, voice parameters,
// the follow-up question decision, and the reply generation call.
type Orchestrator struct {
	classifier *emotion.Classifier
	crisis     *emotion.CrisisDetector
	engine     *question.Engine
	sessions   *session.Manager
	genai      genai.ClientInterface
	now        func() time.Time
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates the per-turn pipeline with its dependencies.
// Classifier, detector, and engine fall back to the built-in tables when nil.
func NewOrchestrator(classifier *emotion.Classifier, crisis *emotion.CrisisDetector, engine *question.Engine, sessions *session.Manager, genaiClient genai.ClientInterface, opts ...OrchestratorOption) *Orchestrator {
	if classifier == nil {
		classifier = emotion.NewClassifier(nil)
	}
	if crisis == nil {
		crisis = emotion.NewCrisisDetector()
	}
	if engine == nil {
		engine = question.NewEngine(nil)
	}
	o := &Orchestrator{
		classifier: classifier,
		crisis:     crisis,
		engine:     engine,
		sessions:   sessions,
		genai:      genaiClient,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessTurn runs one user turn through the full pipeline and persists the
// resulting conversation state. Turns for the same session are serialized;
// different sessions proceed in parallel.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req models.TurnRequest) (*models.TurnResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	release := o.sessions.Acquire(req.SessionID)
	defer release()

	snap, err := o.sessions.Snapshot(req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}

	crisisDetected := o.crisis.Detect(req.Text)
	cue := o.classifier.Analyze(req.Text)

	// A crisis match overrides the classifier's read unconditionally. The
	// effective cue drives tone, voice, and question suppression; the raw cue
	// stays in the result for explainability.
	effective := cue
	if crisisDetected {
		effective.PrimaryEmotion = models.EmotionDistress
		if effective.IntensityLevel < models.MaxIntensityLevel {
			effective.IntensityLevel = models.MaxIntensityLevel
		}
	}

	tone := emotion.ResolveTone(effective)
	params := voice.Map(tone)
	summary := emotion.ContextSummary(effective)

	slog.Info("Turn classified", "sessionID", req.SessionID, "tone", tone,
		"crisis", crisisDetected, "summary", summary)

	// Question decision. The current turn counts toward the pacing floor.
	conversationLength := snap.ConversationLength() + 1
	policyState := question.NewState(snap.Records)
	askQuestion := o.engine.ShouldAsk(policyState, conversationLength, snap.LastWasQuestion(), effective)

	reply, err := o.genai.GenerateReply(ctx, BuildSystemPrompt(tone, snap.Profile), snap.Turns, req.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	var followUp *models.Question
	if askQuestion {
		followUp = o.engine.Generate(policyState, effective.PrimaryEmotion, snap.Turns, snap.Profile)
		if followUp != nil {
			record := policyState.Records[len(policyState.Records)-1]
			if err := o.sessions.RecordQuestion(req.SessionID, record); err != nil {
				// Losing the record risks a repeat later; the turn itself
				// still succeeds.
				slog.Error("Failed to persist question record", "error", err, "sessionID", req.SessionID)
			}
		}
	}

	now := o.now()
	if err := o.sessions.AppendTurn(req.SessionID, models.RoleUser, req.Text, isQuestionText(req.Text), now); err != nil {
		return nil, err
	}
	if err := o.sessions.AppendTurn(req.SessionID, models.RoleAssistant, reply, false, now); err != nil {
		return nil, err
	}
	if followUp != nil {
		if err := o.sessions.AppendTurn(req.SessionID, models.RoleAssistant, followUp.Text, true, now); err != nil {
			return nil, err
		}
	}

	return &models.TurnResult{
		SessionID:       req.SessionID,
		Reply:           reply,
		Tone:            tone,
		Cue:             cue,
		CrisisDetected:  crisisDetected,
		VoiceParameters: params,
		FollowUp:        followUp,
		ContextSummary:  summary,
	}, nil
}

// EmotionalPattern returns the normalized primary-emotion frequency over the
// recent user turns of a session.
func (o *Orchestrator) EmotionalPattern(sessionID string, window int) (map[models.Emotion]float64, error) {
	snap, err := o.sessions.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}
	return o.classifier.TrackPattern(snap.Turns, window), nil
}

// isQuestionText is the lightweight user-side question check used only for
// the turn log; assistant questions are flagged by the policy engine.
func isQuestionText(text string) bool {
	return strings.HasSuffix(strings.TrimSpace(text), "?")
}
