package emotion

import (
	"testing"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
)

func TestResolveTone_MapsEveryEmotion(t *testing.T) {
	cases := []struct {
		emotion models.Emotion
		want    models.ToneLabel
	}{
		{models.EmotionDistress, models.ToneDistress},
		{models.EmotionSadness, models.ToneSadness},
		{models.EmotionAnxiety, models.ToneAnxiety},
		{models.EmotionAnger, models.ToneAnger},
		{models.EmotionHappiness, models.ToneHappiness},
		{models.EmotionHopeEncouragement, models.ToneEncouragement},
		{models.EmotionCuriosity, models.ToneCuriosity},
		{models.EmotionNeutral, models.ToneNeutral},
	}
	for _, tc := range cases {
		got := ResolveTone(models.EmotionalCue{PrimaryEmotion: tc.emotion})
		if got != tc.want {
			t.Errorf("ResolveTone(%q) = %q, want %q", tc.emotion, got, tc.want)
		}
	}
}

func TestResolveTone_UnknownEmotionFallsBackToNeutral(t *testing.T) {
	got := ResolveTone(models.EmotionalCue{PrimaryEmotion: models.Emotion("bewilderment")})
	if got != models.ToneNeutral {
		t.Errorf("expected neutral fallback for unknown emotion, got %q", got)
	}
}

func TestShouldAskFollowUp_DistressAlwaysBlocks(t *testing.T) {
	cue := models.EmotionalCue{
		PrimaryEmotion: models.EmotionDistress,
		Confidence:     0.9,
		IntensityLevel: 2,
	}
	if ShouldAskFollowUp(cue) {
		t.Error("expected no follow-up during distress regardless of intensity")
	}
}

func TestShouldAskFollowUp_HighIntensityBlocks(t *testing.T) {
	cue := models.EmotionalCue{
		PrimaryEmotion: models.EmotionSadness,
		Confidence:     0.9,
		IntensityLevel: FollowUpMaxIntensity,
	}
	if ShouldAskFollowUp(cue) {
		t.Errorf("expected no follow-up at intensity %d", FollowUpMaxIntensity)
	}
	cue.IntensityLevel = FollowUpMaxIntensity - 1
	if !ShouldAskFollowUp(cue) {
		t.Errorf("expected follow-up at intensity %d", FollowUpMaxIntensity-1)
	}
}

func TestShouldAskFollowUp_NeutralStaysEligible(t *testing.T) {
	cue := models.EmotionalCue{
		PrimaryEmotion: models.EmotionNeutral,
		Confidence:     0,
		IntensityLevel: 1,
	}
	if !ShouldAskFollowUp(cue) {
		t.Error("expected neutral read to stay eligible even at zero confidence")
	}
}

func TestShouldAskFollowUp_ConfidenceFloor(t *testing.T) {
	cue := models.EmotionalCue{
		PrimaryEmotion: models.EmotionHappiness,
		IntensityLevel: 2,
	}
	cue.Confidence = FollowUpMinConfidence - 0.01
	if ShouldAskFollowUp(cue) {
		t.Error("expected no follow-up below the confidence floor")
	}
	cue.Confidence = FollowUpMinConfidence
	if !ShouldAskFollowUp(cue) {
		t.Error("expected follow-up at the confidence floor")
	}
}
