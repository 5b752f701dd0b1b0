package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/question"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/session"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/store"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/voice"
)

var testBase = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// fakeGenAI returns a canned reply and captures the prompt it was given.
type fakeGenAI struct {
	reply        string
	err          error
	systemPrompt string
	historyLen   int
	userText     string
}

func (f *fakeGenAI) GenerateReply(ctx context.Context, systemPrompt string, history []models.ConversationTurn, userText string) (string, error) {
	f.systemPrompt = systemPrompt
	f.historyLen = len(history)
	f.userText = userText
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestOrchestrator(gen *fakeGenAI) (*Orchestrator, *session.Manager) {
	sessions := session.NewManager(store.NewInMemoryStore())
	engine := question.NewEngine(nil,
		question.WithClock(func() time.Time { return testBase }),
		question.WithIntN(func(n int) int { return 0 }),
	)
	orch := NewOrchestrator(nil, nil, engine, sessions, gen,
		WithClock(func() time.Time { return testBase }))
	return orch, sessions
}

func TestProcessTurn_ValidatesRequest(t *testing.T) {
	orch, _ := newTestOrchestrator(&fakeGenAI{reply: "hi"})
	_, err := orch.ProcessTurn(context.Background(), models.TurnRequest{SessionID: "", Text: "hello"})
	if !errors.Is(err, models.ErrEmptySessionID) {
		t.Errorf("expected ErrEmptySessionID, got %v", err)
	}
}

func TestProcessTurn_CrisisForcesDistressDelivery(t *testing.T) {
	gen := &fakeGenAI{reply: "I'm right here with you."}
	orch, sessions := newTestOrchestrator(gen)

	result, err := orch.ProcessTurn(context.Background(), models.TurnRequest{
		SessionID: "s1",
		Text:      "I can't take this anymore, I want to die",
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if !result.CrisisDetected {
		t.Error("expected crisis detection")
	}
	if result.Tone != models.ToneDistress {
		t.Errorf("expected distress tone, got %q", result.Tone)
	}
	if result.VoiceParameters != voice.Map(models.ToneDistress) {
		t.Errorf("expected distress voice parameters, got %+v", result.VoiceParameters)
	}
	if result.FollowUp != nil {
		t.Errorf("expected no follow-up question during crisis, got %+v", result.FollowUp)
	}
	if !strings.Contains(gen.systemPrompt, "DISTRESS DETECTED") {
		t.Error("expected distress guidance in the system prompt")
	}

	snap, _ := sessions.Snapshot("s1")
	if len(snap.Turns) != 2 {
		t.Fatalf("expected user and assistant turns persisted, got %d", len(snap.Turns))
	}
	if snap.Turns[0].Role != models.RoleUser || snap.Turns[1].Role != models.RoleAssistant {
		t.Errorf("unexpected turn roles: %+v", snap.Turns)
	}
}

func TestProcessTurn_CrisisOverridesPositiveClassification(t *testing.T) {
	gen := &fakeGenAI{reply: "I'm here."}
	orch, _ := newTestOrchestrator(gen)

	result, err := orch.ProcessTurn(context.Background(), models.TurnRequest{
		SessionID: "s1",
		Text:      "honestly everyone would be better off without me, but whatever, today was good",
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if !result.CrisisDetected {
		t.Fatal("expected crisis detection")
	}
	if result.Tone != models.ToneDistress {
		t.Errorf("expected distress tone despite positive wording, got %q", result.Tone)
	}
	// The raw cue keeps the classifier's read for explainability.
	if result.Cue.PrimaryEmotion == models.EmotionDistress {
		t.Errorf("expected raw cue to keep the classifier output, got %q", result.Cue.PrimaryEmotion)
	}
}

func TestProcessTurn_HappyTurnGetsFollowUp(t *testing.T) {
	gen := &fakeGenAI{reply: "That's wonderful to hear."}
	orch, sessions := newTestOrchestrator(gen)

	// Seed one prior exchange so the pacing floor is met.
	sessions.AppendTurn("s1", models.RoleUser, "hey", false, testBase.Add(-time.Hour))
	sessions.AppendTurn("s1", models.RoleAssistant, "Hey, good to hear from you.", false, testBase.Add(-time.Hour))

	result, err := orch.ProcessTurn(context.Background(), models.TurnRequest{
		SessionID: "s1",
		Text:      "I'm feeling really happy and grateful today",
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if result.Tone != models.ToneHappiness {
		t.Fatalf("expected happiness tone, got %q", result.Tone)
	}
	if result.FollowUp == nil {
		t.Fatal("expected a follow-up question")
	}
	if result.FollowUp.Category != models.CategoryReflection {
		t.Errorf("expected an exploratory category for happiness, got %q", result.FollowUp.Category)
	}

	snap, _ := sessions.Snapshot("s1")
	last := snap.Turns[len(snap.Turns)-1]
	if last.Role != models.RoleAssistant || !last.IsQuestion || last.Text != result.FollowUp.Text {
		t.Errorf("expected the follow-up appended as an assistant question, got %+v", last)
	}
	if len(snap.Records) != 1 || snap.Records[0].QuestionID != result.FollowUp.ID {
		t.Errorf("expected the question record persisted, got %v", snap.Records)
	}
}

func TestProcessTurn_FirstExchangeNeverAsks(t *testing.T) {
	gen := &fakeGenAI{reply: "Good to meet you."}
	orch, _ := newTestOrchestrator(gen)

	result, err := orch.ProcessTurn(context.Background(), models.TurnRequest{
		SessionID: "s1",
		Text:      "I'm feeling pretty happy today",
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if result.FollowUp != nil {
		t.Errorf("expected no follow-up on the first exchange, got %+v", result.FollowUp)
	}
}

func TestProcessTurn_NoQuestionAfterAssistantQuestion(t *testing.T) {
	gen := &fakeGenAI{reply: "That sounds nice."}
	orch, sessions := newTestOrchestrator(gen)

	sessions.AppendTurn("s1", models.RoleUser, "hey", false, testBase.Add(-time.Hour))
	sessions.AppendTurn("s1", models.RoleAssistant, "What's been on your mind lately?", true, testBase.Add(-time.Hour))

	result, err := orch.ProcessTurn(context.Background(), models.TurnRequest{
		SessionID: "s1",
		Text:      "I'm feeling really happy and grateful today",
	})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if result.FollowUp != nil {
		t.Errorf("expected no back-to-back questions, got %+v", result.FollowUp)
	}
}

func TestProcessTurn_GenAIFailureAbortsTurn(t *testing.T) {
	gen := &fakeGenAI{err: errors.New("api down")}
	orch, sessions := newTestOrchestrator(gen)

	_, err := orch.ProcessTurn(context.Background(), models.TurnRequest{SessionID: "s1", Text: "hello"})
	if err == nil {
		t.Fatal("expected error when reply generation fails")
	}
	snap, _ := sessions.Snapshot("s1")
	if len(snap.Turns) != 0 {
		t.Errorf("expected no turns persisted on failure, got %v", snap.Turns)
	}
}

func TestProcessTurn_ProfileFactsReachThePrompt(t *testing.T) {
	gen := &fakeGenAI{reply: "ok"}
	orch, sessions := newTestOrchestrator(gen)
	sessions.SaveProfile("s1", models.UserProfile{Name: "Mira"})

	if _, err := orch.ProcessTurn(context.Background(), models.TurnRequest{SessionID: "s1", Text: "hello"}); err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if !strings.Contains(gen.systemPrompt, "Mira") {
		t.Error("expected profile name in the system prompt")
	}
}

func TestEmotionalPattern_UsesSessionHistory(t *testing.T) {
	gen := &fakeGenAI{reply: "ok"}
	orch, sessions := newTestOrchestrator(gen)
	sessions.AppendTurn("s1", models.RoleUser, "I'm sad", false, testBase)
	sessions.AppendTurn("s1", models.RoleUser, "still sad honestly", false, testBase)

	pattern, err := orch.EmotionalPattern("s1", 5)
	if err != nil {
		t.Fatalf("EmotionalPattern: %v", err)
	}
	if pattern[models.EmotionSadness] != 1.0 {
		t.Errorf("expected sadness frequency 1.0, got %f", pattern[models.EmotionSadness])
	}
}
