package emotion

import (
	"fmt"
	"strings"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
)

var intensityWords = []string{"minimal", "mild", "moderate", "strong", "critical"}

// ContextSummary renders a brief human-readable description of an emotional
// cue, e.g. "Moderate sadness (with anxiety, anger)". Used for logging and
// API payloads, never for decisions.
func ContextSummary(cue models.EmotionalCue) string {
	level := cue.IntensityLevel
	if level < models.MinIntensityLevel {
		level = models.MinIntensityLevel
	}
	if level > models.MaxIntensityLevel {
		level = models.MaxIntensityLevel
	}
	word := intensityWords[level-1]
	summary := fmt.Sprintf("%s%s %s", strings.ToUpper(word[:1]), word[1:], cue.PrimaryEmotion)

	if len(cue.SecondaryEmotions) > 0 {
		names := make([]string, 0, 2)
		for _, se := range cue.SecondaryEmotions {
			names = append(names, string(se.Emotion))
			if len(names) == 2 {
				break
			}
		}
		summary += fmt.Sprintf(" (with %s)", strings.Join(names, ", "))
	}
	return summary
}

// TrackPattern classifies the most recent user turns and returns the
// normalized frequency of each primary emotion across that window.
func (c *Classifier) TrackPattern(turns []models.ConversationTurn, window int) map[models.Emotion]float64 {
	if window <= 0 {
		window = 5
	}

	var userTexts []string
	for _, t := range turns {
		if t.Role == models.RoleUser {
			userTexts = append(userTexts, t.Text)
		}
	}
	if len(userTexts) > window {
		userTexts = userTexts[len(userTexts)-window:]
	}

	counts := make(map[models.Emotion]int)
	for _, text := range userTexts {
		cue := c.Analyze(text)
		counts[cue.PrimaryEmotion]++
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	patterns := make(map[models.Emotion]float64, len(counts))
	if total == 0 {
		return patterns
	}
	for emo, n := range counts {
		patterns[emo] = float64(n) / float64(total)
	}
	return patterns
}
