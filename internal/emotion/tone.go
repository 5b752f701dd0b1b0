package emotion

import (
	"log/slog"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
)

// Follow-up gating constants.
const (
	// FollowUpMaxIntensity is the highest intensity at which probing is still
	// appropriate; at 4 and above the user gets space instead of questions.
	FollowUpMaxIntensity = 4
	// FollowUpMinConfidence is the minimum confidence for a follow-up on an
	// emotional read. One mild lexicon match (score 2 of 15) clears it.
	FollowUpMinConfidence = 0.13
)

// ResolveTone converts an emotional cue into the discrete response-tone label
// consumed by the reply prompt and the voice mapper. Pure mapping, no state.
func ResolveTone(cue models.EmotionalCue) models.ToneLabel {
	switch cue.PrimaryEmotion {
	case models.EmotionDistress:
		return models.ToneDistress
	case models.EmotionSadness:
		return models.ToneSadness
	case models.EmotionAnxiety:
		return models.ToneAnxiety
	case models.EmotionAnger:
		return models.ToneAnger
	case models.EmotionHappiness:
		return models.ToneHappiness
	case models.EmotionHopeEncouragement:
		return models.ToneEncouragement
	case models.EmotionCuriosity:
		return models.ToneCuriosity
	case models.EmotionNeutral:
		return models.ToneNeutral
	default:
		slog.Warn("ResolveTone: unknown emotion, falling back to neutral", "emotion", cue.PrimaryEmotion)
		return models.ToneNeutral
	}
}

// ShouldAskFollowUp reports whether a reflective follow-up question is safe
// and useful for this cue. It is false while the user is in acute distress or
// expressing at high intensity, and false for ambiguous low-confidence reads.
// A neutral read stays eligible so the conversation keeps flowing.
func ShouldAskFollowUp(cue models.EmotionalCue) bool {
	if cue.PrimaryEmotion == models.EmotionDistress {
		return false
	}
	if cue.IntensityLevel >= FollowUpMaxIntensity {
		return false
	}
	if cue.PrimaryEmotion == models.EmotionNeutral {
		return true
	}
	return cue.Confidence >= FollowUpMinConfidence
}
