package emotion

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
)

// Scoring constants. MaxScoreNormalization is the empirical score ceiling
// used to map raw accumulated scores into the [0,1] confidence range; the
// exact boundary values are pinned by unit tests.
const (
	// MinScoreThreshold is the minimum winning score for a non-neutral read.
	MinScoreThreshold = 2
	// MaxScoreNormalization divides the winning score to derive confidence.
	MaxScoreNormalization = 15.0
	// DistressConfidenceBonus is added to confidence when distress wins.
	DistressConfidenceBonus = 0.2
)

// Classifier scores text against a tiered keyword lexicon and produces an
// EmotionalCue. It holds no per-session state and is safe for concurrent use
// once constructed.
type Classifier struct {
	lexicon Lexicon
}

// NewClassifier creates a Classifier over the given lexicon.
// A nil lexicon falls back to the built-in table.
func NewClassifier(lexicon Lexicon) *Classifier {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Classifier{lexicon: lexicon}
}

// categoryScore accumulates match results for one emotion category.
type categoryScore struct {
	emotion  models.Emotion
	score    int
	bestTier Tier // strongest tier with at least one match
	keywords []string
}

// Analyze classifies one turn of user text into an EmotionalCue. It is total:
// empty or unmatched text yields the neutral default rather than an error.
func (c *Classifier) Analyze(text string) models.EmotionalCue {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		slog.Debug("Classifier.Analyze: empty input, returning neutral default")
		return neutralCue()
	}

	scores := c.scan(lowered)
	if len(scores) == 0 {
		slog.Debug("Classifier.Analyze: no lexicon match, returning neutral default")
		return neutralCue()
	}

	winner := pickWinner(scores)

	// Distress overrides all other candidates whenever its score is nonzero,
	// regardless of relative magnitude.
	for _, cs := range scores {
		if cs.emotion == models.EmotionDistress {
			winner = cs
			break
		}
	}

	if winner.score < MinScoreThreshold {
		slog.Debug("Classifier.Analyze: winning score below threshold, returning neutral default",
			"emotion", winner.emotion, "score", winner.score)
		return neutralCue()
	}

	confidence := clamp01(float64(winner.score) / MaxScoreNormalization)
	if winner.emotion == models.EmotionDistress {
		confidence = clamp01(confidence + DistressConfidenceBonus)
	}

	cue := models.EmotionalCue{
		PrimaryEmotion:    winner.emotion,
		Confidence:        confidence,
		SecondaryEmotions: secondaries(scores, winner.emotion),
		IntensityLevel:    winner.bestTier.IntensityLevel(),
		MatchedKeywords:   allKeywords(scores),
	}

	slog.Debug("Classifier.Analyze: classified turn",
		"primary", cue.PrimaryEmotion, "confidence", cue.Confidence,
		"intensity", cue.IntensityLevel, "matches", len(cue.MatchedKeywords))
	return cue
}

// scan matches the lowered text against every category and tier, returning
// one categoryScore per category with a nonzero score, in scan order.
func (c *Classifier) scan(lowered string) []categoryScore {
	var results []categoryScore
	for _, emo := range scanOrder {
		tiers, ok := c.lexicon[emo]
		if !ok {
			continue
		}
		cs := categoryScore{emotion: emo}
		for _, tier := range tierOrder {
			for _, term := range tiers[tier] {
				if !strings.Contains(lowered, term) {
					continue
				}
				cs.score += tier.Weight()
				cs.keywords = append(cs.keywords, term)
				if cs.bestTier == "" {
					// tiers iterate strongest-first, so the first matched
					// tier is the strongest one.
					cs.bestTier = tier
				}
			}
		}
		if cs.score > 0 {
			results = append(results, cs)
		}
	}
	return results
}

// pickWinner returns the highest-scoring category. Ties resolve by the fixed
// priority order, never randomly.
func pickWinner(scores []categoryScore) categoryScore {
	winner := scores[0]
	for _, cs := range scores[1:] {
		if cs.score > winner.score {
			winner = cs
			continue
		}
		if cs.score == winner.score && priorityRank(cs.emotion) < priorityRank(winner.emotion) {
			winner = cs
		}
	}
	return winner
}

// priorityRank returns the position of an emotion in the fixed tiebreak
// order. Distress ranks first; unknown categories rank last.
func priorityRank(e models.Emotion) int {
	if e == models.EmotionDistress {
		return -1
	}
	for i, p := range models.PriorityOrder {
		if p == e {
			return i
		}
	}
	return len(models.PriorityOrder)
}

// secondaries lists every non-primary category with a nonzero score, ordered
// by descending score with priority-order tiebreak.
func secondaries(scores []categoryScore, primary models.Emotion) []models.ScoredEmotion {
	var rest []categoryScore
	for _, cs := range scores {
		if cs.emotion != primary {
			rest = append(rest, cs)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].score != rest[j].score {
			return rest[i].score > rest[j].score
		}
		return priorityRank(rest[i].emotion) < priorityRank(rest[j].emotion)
	})

	var out []models.ScoredEmotion
	for _, cs := range rest {
		out = append(out, models.ScoredEmotion{
			Emotion: cs.emotion,
			Score:   clamp01(float64(cs.score) / MaxScoreNormalization),
		})
	}
	return out
}

// allKeywords collects the matched terms across all categories, deduplicated
// and sorted for stable output.
func allKeywords(scores []categoryScore) []string {
	seen := make(map[string]bool)
	var out []string
	for _, cs := range scores {
		for _, kw := range cs.keywords {
			if !seen[kw] {
				seen[kw] = true
				out = append(out, kw)
			}
		}
	}
	sort.Strings(out)
	return out
}

// neutralCue is the documented classification default for empty or unmatched
// input.
func neutralCue() models.EmotionalCue {
	return models.EmotionalCue{
		PrimaryEmotion: models.EmotionNeutral,
		Confidence:     0,
		IntensityLevel: models.MinIntensityLevel,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
