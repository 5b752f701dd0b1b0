package question

import (
	"testing"
	"time"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/emotion"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
)

var testBase = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func firstPick(n int) int { return 0 }

func calmCue(emotion models.Emotion) models.EmotionalCue {
	return models.EmotionalCue{PrimaryEmotion: emotion, Confidence: 0.4, IntensityLevel: 2}
}

func TestEvaluate_PacingFloorBlocksFirstExchange(t *testing.T) {
	e := NewEngine(nil, WithClock(fixedClock(testBase)))
	st := NewState(nil)
	if got := e.Evaluate(st, 1, false, calmCue(models.EmotionSadness)); got != StateSuppressedPacing {
		t.Errorf("expected %q at conversation length 1, got %q", StateSuppressedPacing, got)
	}
	if got := e.Evaluate(st, MinConversationLength, false, calmCue(models.EmotionSadness)); got != StateEligible {
		t.Errorf("expected %q at the pacing floor, got %q", StateEligible, got)
	}
}

func TestEvaluate_NeverTwoQuestionsInARow(t *testing.T) {
	e := NewEngine(nil, WithClock(fixedClock(testBase)))
	st := NewState(nil)
	if got := e.Evaluate(st, 5, true, calmCue(models.EmotionNeutral)); got != StateSuppressedPacing {
		t.Errorf("expected %q after an assistant question, got %q", StateSuppressedPacing, got)
	}
}

func TestEvaluate_DistressSuppressesUnconditionally(t *testing.T) {
	e := NewEngine(nil, WithClock(fixedClock(testBase)))
	st := NewState(nil)
	cue := models.EmotionalCue{PrimaryEmotion: models.EmotionDistress, Confidence: 0.9, IntensityLevel: 2}
	if got := e.Evaluate(st, 10, false, cue); got != StateSuppressedDistress {
		t.Errorf("expected %q for distress, got %q", StateSuppressedDistress, got)
	}
}

func TestEvaluate_HighIntensitySuppresses(t *testing.T) {
	e := NewEngine(nil, WithClock(fixedClock(testBase)))
	st := NewState(nil)
	cue := models.EmotionalCue{PrimaryEmotion: models.EmotionSadness, Confidence: 0.8, IntensityLevel: 4}
	if got := e.Evaluate(st, 10, false, cue); got != StateSuppressedDistress {
		t.Errorf("expected %q at intensity 4, got %q", StateSuppressedDistress, got)
	}
}

func TestEvaluate_CategoryCooldown(t *testing.T) {
	e := NewEngine(nil, WithClock(fixedClock(testBase)))
	st := NewState([]models.QuestionRecord{{
		QuestionID: "ee_tell_me_more",
		Category:   models.CategoryEmotionalExploration,
		AskedAt:    testBase.Add(-time.Minute),
	}})
	// Sadness draws from emotional exploration, so the category is resting.
	if got := e.Evaluate(st, 10, false, calmCue(models.EmotionSadness)); got != StateSuppressedCooldown {
		t.Errorf("expected %q inside the cooldown window, got %q", StateSuppressedCooldown, got)
	}
}

func TestEvaluate_CooldownExpires(t *testing.T) {
	e := NewEngine(nil, WithClock(fixedClock(testBase)))
	st := NewState([]models.QuestionRecord{{
		QuestionID: "ee_tell_me_more",
		Category:   models.CategoryEmotionalExploration,
		AskedAt:    testBase.Add(-CategoryCooldown - time.Second),
	}})
	if got := e.Evaluate(st, 10, false, calmCue(models.EmotionSadness)); got != StateEligible {
		t.Errorf("expected %q after the cooldown, got %q", StateEligible, got)
	}
}

func TestEvaluate_CooldownScopedToCandidateCategories(t *testing.T) {
	e := NewEngine(nil, WithClock(fixedClock(testBase)))
	st := NewState([]models.QuestionRecord{{
		QuestionID: "rf_looking_back",
		Category:   models.CategoryReflection,
		AskedAt:    testBase.Add(-time.Minute),
	}})
	// Sadness never draws from reflection, so the recent record is no bar.
	if got := e.Evaluate(st, 10, false, calmCue(models.EmotionSadness)); got != StateEligible {
		t.Errorf("expected %q for an unrelated category, got %q", StateEligible, got)
	}
}

func TestEvaluate_RepetitionWhenPoolExhausted(t *testing.T) {
	b := NewBank()
	b.Add(models.Question{ID: "only", Text: "How are you doing?", Category: models.CategoryGeneralWellbeing})
	e := NewEngine(b, WithClock(fixedClock(testBase)))
	st := NewState([]models.QuestionRecord{{
		QuestionID: "only",
		Category:   models.CategoryGeneralWellbeing,
		AskedAt:    testBase.Add(-time.Hour),
	}})
	cue := models.EmotionalCue{PrimaryEmotion: models.EmotionNeutral, IntensityLevel: 1}
	if got := e.Evaluate(st, 10, false, cue); got != StateSuppressedRepetition {
		t.Errorf("expected %q when the only candidate was just asked, got %q", StateSuppressedRepetition, got)
	}
}

func TestEvaluate_ExhaustedPoolStillEligibleWithAlternative(t *testing.T) {
	b := NewBank()
	b.Add(models.Question{ID: "first", Text: "One?", Category: models.CategoryGeneralWellbeing})
	b.Add(models.Question{ID: "second", Text: "Two?", Category: models.CategoryGeneralWellbeing})
	e := NewEngine(b, WithClock(fixedClock(testBase)))
	st := NewState([]models.QuestionRecord{
		{QuestionID: "first", Category: models.CategoryGeneralWellbeing, AskedAt: testBase.Add(-2 * time.Hour)},
		{QuestionID: "second", Category: models.CategoryGeneralWellbeing, AskedAt: testBase.Add(-time.Hour)},
	})
	cue := models.EmotionalCue{PrimaryEmotion: models.EmotionNeutral, IntensityLevel: 1}
	if got := e.Evaluate(st, 10, false, cue); got != StateEligible {
		t.Errorf("expected %q with a non-repeating fallback available, got %q", StateEligible, got)
	}
}

func TestShouldAsk_ExcitedTurnGetsQuestion(t *testing.T) {
	classifier := emotion.NewClassifier(nil)
	e := NewEngine(nil, WithClock(fixedClock(testBase)), WithIntN(firstPick))
	st := NewState(nil)

	cue := classifier.Analyze("I'm so excited, today was the best day!")
	if cue.PrimaryEmotion != models.EmotionHappiness {
		t.Fatalf("expected happiness, got %q", cue.PrimaryEmotion)
	}
	if !e.ShouldAsk(st, 5, false, cue) {
		t.Fatalf("expected eligibility for an excited turn, got %q", st.LastEval())
	}
	q := e.Generate(st, cue.PrimaryEmotion, nil, nil)
	if q == nil {
		t.Fatal("expected a question")
	}
	if q.Category != models.CategoryReflection {
		t.Errorf("expected an exploratory category for happiness, got %q", q.Category)
	}
}

func TestGenerate_WithoutEligibleEvaluationReturnsNil(t *testing.T) {
	e := NewEngine(nil, WithClock(fixedClock(testBase)), WithIntN(firstPick))
	st := NewState(nil)
	if q := e.Generate(st, models.EmotionSadness, nil, nil); q != nil {
		t.Errorf("expected nil without a prior eligible evaluation, got %+v", q)
	}
	if len(st.Records) != 0 {
		t.Errorf("expected no record appended, got %v", st.Records)
	}
}

func TestGenerate_AppendsRecordAndConsumesEligibility(t *testing.T) {
	e := NewEngine(nil, WithClock(fixedClock(testBase)), WithIntN(firstPick))
	st := NewState(nil)
	cue := calmCue(models.EmotionSadness)
	if !e.ShouldAsk(st, 5, false, cue) {
		t.Fatal("expected eligibility for a calm sadness cue")
	}
	q := e.Generate(st, cue.PrimaryEmotion, nil, nil)
	if q == nil {
		t.Fatal("expected a question")
	}
	if q.Category != models.CategoryEmotionalExploration {
		t.Errorf("expected a question from the first candidate category, got %q", q.Category)
	}
	if len(st.Records) != 1 || st.Records[0].QuestionID != q.ID || !st.Records[0].AskedAt.Equal(testBase) {
		t.Errorf("unexpected record: %+v", st.Records)
	}

	// Eligibility is consumed: a second Generate without a fresh evaluation
	// is a contract violation and yields nil.
	if again := e.Generate(st, cue.PrimaryEmotion, nil, nil); again != nil {
		t.Errorf("expected nil on repeated Generate, got %+v", again)
	}
}

func TestGenerate_NeverRepeatsWithinSessionWhileFreshRemain(t *testing.T) {
	now := testBase
	e := NewEngine(nil, WithClock(func() time.Time { return now }), WithIntN(firstPick))
	st := NewState(nil)
	cue := calmCue(models.EmotionSadness)

	seen := make(map[string]bool)
	bank := DefaultBank()
	total := 0
	for _, cat := range CategoriesFor(models.EmotionSadness) {
		total += len(bank.In(cat))
	}
	for i := 0; i < total; i++ {
		// Advance past the cooldown between asks so only repetition applies.
		now = now.Add(CategoryCooldown + time.Minute)
		if !e.ShouldAsk(st, 10, false, cue) {
			t.Fatalf("expected eligibility on iteration %d", i)
		}
		q := e.Generate(st, cue.PrimaryEmotion, nil, nil)
		if q == nil {
			t.Fatalf("expected a question on iteration %d", i)
		}
		if seen[q.ID] {
			t.Fatalf("question %q repeated while fresh questions remained", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestGenerate_ExhaustedPoolFallsBackToLeastRecentlyAsked(t *testing.T) {
	b := NewBank()
	b.Add(models.Question{ID: "first", Text: "One?", Category: models.CategoryGeneralWellbeing})
	b.Add(models.Question{ID: "second", Text: "Two?", Category: models.CategoryGeneralWellbeing})
	e := NewEngine(b, WithClock(fixedClock(testBase)), WithIntN(firstPick))
	st := NewState([]models.QuestionRecord{
		{QuestionID: "first", Category: models.CategoryGeneralWellbeing, AskedAt: testBase.Add(-2 * time.Hour)},
		{QuestionID: "second", Category: models.CategoryGeneralWellbeing, AskedAt: testBase.Add(-time.Hour)},
	})
	cue := models.EmotionalCue{PrimaryEmotion: models.EmotionNeutral, IntensityLevel: 1}
	if !e.ShouldAsk(st, 10, false, cue) {
		t.Fatal("expected eligibility")
	}
	q := e.Generate(st, cue.PrimaryEmotion, nil, nil)
	if q == nil || q.ID != "first" {
		t.Errorf("expected the question asked longest ago, got %+v", q)
	}
}

func TestGenerate_ProfileBiasesTowardCoping(t *testing.T) {
	e := NewEngine(nil, WithClock(fixedClock(testBase)), WithIntN(firstPick))
	st := NewState(nil)
	cue := calmCue(models.EmotionSadness)
	profile := &models.UserProfile{CopingStrategies: []string{"long walks"}}
	if !e.ShouldAsk(st, 5, false, cue) {
		t.Fatal("expected eligibility")
	}
	q := e.Generate(st, cue.PrimaryEmotion, nil, profile)
	if q == nil {
		t.Fatal("expected a question")
	}
	if q.Category != models.CategoryCopingResilience {
		t.Errorf("expected a coping question for a profile with known strategies, got %q", q.Category)
	}
}

func TestGenerate_SkipsQuestionsAlreadyPhrasedInHistory(t *testing.T) {
	b := NewBank()
	b.Add(models.Question{ID: "a", Text: "How are you doing?", Category: models.CategoryGeneralWellbeing})
	b.Add(models.Question{ID: "b", Text: "What's new?", Category: models.CategoryGeneralWellbeing})
	e := NewEngine(b, WithClock(fixedClock(testBase)), WithIntN(firstPick))
	st := NewState(nil)
	cue := models.EmotionalCue{PrimaryEmotion: models.EmotionNeutral, IntensityLevel: 1}
	history := []models.ConversationTurn{
		{Role: models.RoleAssistant, Text: "How are you doing?", IsQuestion: true},
		{Role: models.RoleUser, Text: "fine I guess"},
	}
	if !e.ShouldAsk(st, 5, false, cue) {
		t.Fatal("expected eligibility")
	}
	q := e.Generate(st, cue.PrimaryEmotion, history, nil)
	if q == nil || q.ID != "b" {
		t.Errorf("expected the question not yet phrased in history, got %+v", q)
	}
}
