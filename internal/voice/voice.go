// Package voice maps response-tone labels to speech-delivery parameters for
// the downstream synthesizer. A single voice identity is used throughout;
// emotional variation comes only from the delivery tuple.
package voice

import (
	"log/slog"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
)

// Default voice identity handed to the external synthesizer.
const (
	DefaultVoiceID   = "KRo-uwfno-KcEgBM"
	DefaultVoiceName = "Abigail"
)

// paramTable is the fixed tone-to-delivery mapping:
//
//	SpeedBias:      -4 faster ... 0 normal ... +4 slower
//	Expressiveness:  0 flat ... 0.7 natural ... 1.4 very expressive
//	Fidelity:        1 loose ... 2 default ... 4 tight
var paramTable = map[models.ToneLabel]models.VoiceParameters{
	// Maximum gentleness: slow, very stable, tight voice fidelity.
	models.ToneDistress: {SpeedBias: 1.5, Expressiveness: 0.3, Fidelity: 2.5},
	// Tender pace, stable with slight warmth.
	models.ToneSadness: {SpeedBias: 1.0, Expressiveness: 0.4, Fidelity: 2.2},
	// Measured, grounding. Unhurried and very consistent.
	models.ToneAnxiety: {SpeedBias: 0.8, Expressiveness: 0.35, Fidelity: 2.2},
	// Calm and steady. Does not escalate.
	models.ToneAnger: {SpeedBias: 0.5, Expressiveness: 0.4, Fidelity: 2.0},
	// Slightly quicker, more expressive. Matches positive energy.
	models.ToneHappiness: {SpeedBias: -0.3, Expressiveness: 0.85, Fidelity: 2.0},
	// Gently uplifting, balanced expressiveness.
	models.ToneEncouragement: {SpeedBias: -0.2, Expressiveness: 0.7, Fidelity: 2.0},
	// Lightly engaged, a touch brighter than baseline.
	models.ToneCuriosity: {SpeedBias: -0.1, Expressiveness: 0.75, Fidelity: 2.0},
	// Natural conversational baseline.
	models.ToneNeutral: {SpeedBias: 0.0, Expressiveness: 0.7, Fidelity: 2.0},
}

// Map returns the delivery parameters for a tone label. It is total: an
// unrecognized label resolves to the neutral row, logged as a warning since
// it indicates a mapping-table gap, so a synthesis request always succeeds.
func Map(tone models.ToneLabel) models.VoiceParameters {
	if params, ok := paramTable[tone]; ok {
		return params
	}
	slog.Warn("voice.Map: unknown tone label, falling back to neutral", "tone", tone)
	return paramTable[models.ToneNeutral]
}

// SynthesisRequest is the payload handed to the external text-to-speech
// collaborator. Built here, executed elsewhere.
type SynthesisRequest struct {
	VoiceID    string                 `json:"voice_id"`
	VoiceName  string                 `json:"voice_name"`
	Text       string                 `json:"text"`
	Tone       models.ToneLabel       `json:"tone"`
	Parameters models.VoiceParameters `json:"parameters"`
}

// BuildSynthesisRequest assembles the synthesis payload for one reply.
func BuildSynthesisRequest(text string, tone models.ToneLabel) SynthesisRequest {
	params := Map(tone)
	slog.Debug("voice.BuildSynthesisRequest: built request",
		"tone", tone, "speed_bias", params.SpeedBias,
		"expressiveness", params.Expressiveness, "fidelity", params.Fidelity)
	return SynthesisRequest{
		VoiceID:    DefaultVoiceID,
		VoiceName:  DefaultVoiceName,
		Text:       text,
		Tone:       tone,
		Parameters: params,
	}
}

// Tones lists every tone label with a defined parameter row.
func Tones() []models.ToneLabel {
	out := make([]models.ToneLabel, 0, len(paramTable))
	for tone := range paramTable {
		out = append(out, tone)
	}
	return out
}
