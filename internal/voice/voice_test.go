package voice

import (
	"testing"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
)

func TestMap_CoversEveryTone(t *testing.T) {
	for _, tone := range Tones() {
		params := Map(tone)
		if params.Fidelity == 0 {
			t.Errorf("Map(%q) returned a zero row", tone)
		}
	}
}

func TestMap_DistressSlowsDownAndFlattens(t *testing.T) {
	params := Map(models.ToneDistress)
	if params.SpeedBias != 1.5 {
		t.Errorf("expected speed bias 1.5, got %f", params.SpeedBias)
	}
	if params.Expressiveness != 0.3 {
		t.Errorf("expected expressiveness 0.3, got %f", params.Expressiveness)
	}
	if params.Fidelity != 2.5 {
		t.Errorf("expected fidelity 2.5, got %f", params.Fidelity)
	}
}

func TestMap_HappinessSpeedsUp(t *testing.T) {
	params := Map(models.ToneHappiness)
	if params.SpeedBias >= 0 {
		t.Errorf("expected negative speed bias for happiness, got %f", params.SpeedBias)
	}
	neutral := Map(models.ToneNeutral)
	if params.Expressiveness <= neutral.Expressiveness {
		t.Errorf("expected happiness more expressive than neutral: %f vs %f",
			params.Expressiveness, neutral.Expressiveness)
	}
}

func TestMap_UnknownToneFallsBackToNeutral(t *testing.T) {
	got := Map(models.ToneLabel("sardonic"))
	want := Map(models.ToneNeutral)
	if got != want {
		t.Errorf("expected neutral fallback, got %+v", got)
	}
}

func TestBuildSynthesisRequest(t *testing.T) {
	req := BuildSynthesisRequest("I'm right here with you.", models.ToneSadness)
	if req.VoiceID != DefaultVoiceID || req.VoiceName != DefaultVoiceName {
		t.Errorf("expected default voice identity, got %q/%q", req.VoiceID, req.VoiceName)
	}
	if req.Text != "I'm right here with you." {
		t.Errorf("unexpected text %q", req.Text)
	}
	if req.Tone != models.ToneSadness {
		t.Errorf("unexpected tone %q", req.Tone)
	}
	if req.Parameters != Map(models.ToneSadness) {
		t.Errorf("expected parameters for the given tone, got %+v", req.Parameters)
	}
}
