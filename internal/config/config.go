// Package config loads the optional content overlay file: extra lexicon
// terms, crisis patterns, and bank questions layered on top of the built-in
// tables without a rebuild.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/emotion"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/question"
	"gopkg.in/yaml.v3"
)

// Overlay is the content overlay file layout.
type Overlay struct {
	Crisis struct {
		Patterns []string `yaml:"patterns"`
	} `yaml:"crisis"`
	Lexicon   []LexiconEntry  `yaml:"lexicon"`
	Questions []QuestionEntry `yaml:"questions"`
}

// LexiconEntry adds terms to one emotion category tier.
type LexiconEntry struct {
	Emotion string   `yaml:"emotion"`
	Tier    string   `yaml:"tier"`
	Terms   []string `yaml:"terms"`
}

// QuestionEntry adds one question to the bank.
type QuestionEntry struct {
	ID        string   `yaml:"id"`
	Text      string   `yaml:"text"`
	Category  string   `yaml:"category"`
	Intensity int      `yaml:"intensity"`
	Emotions  []string `yaml:"emotions"`
}

// Load reads and parses an overlay file.
func Load(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay file: %w", err)
	}
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse overlay file: %w", err)
	}
	slog.Info("Content overlay loaded", "path", path,
		"crisis_patterns", len(o.Crisis.Patterns),
		"lexicon_entries", len(o.Lexicon),
		"questions", len(o.Questions))
	return &o, nil
}

// ApplyLexicon merges the overlay's extra terms into a lexicon. Entries with
// an unknown emotion or tier are skipped with a warning.
func (o *Overlay) ApplyLexicon(lex emotion.Lexicon) {
	for _, entry := range o.Lexicon {
		emo := models.Emotion(entry.Emotion)
		if !models.IsValidEmotion(emo) || emo == models.EmotionNeutral {
			slog.Warn("Overlay lexicon entry skipped: unknown emotion", "emotion", entry.Emotion)
			continue
		}
		tier := emotion.Tier(entry.Tier)
		if tier.Weight() == 0 {
			slog.Warn("Overlay lexicon entry skipped: unknown tier", "tier", entry.Tier)
			continue
		}
		lex.AddTerms(emo, tier, entry.Terms...)
	}
}

// ApplyBank adds the overlay's questions to a bank. Duplicate IDs are
// ignored by the bank itself.
func (o *Overlay) ApplyBank(bank *question.Bank) {
	for _, entry := range o.Questions {
		cat := models.QuestionCategory(entry.Category)
		var fits []models.Emotion
		for _, e := range entry.Emotions {
			emo := models.Emotion(e)
			if models.IsValidEmotion(emo) {
				fits = append(fits, emo)
			}
		}
		bank.Add(models.Question{
			ID:           entry.ID,
			Text:         entry.Text,
			Category:     cat,
			EmotionalFit: fits,
			Intensity:    entry.Intensity,
		})
	}
}
