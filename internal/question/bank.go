// Package question provides the categorized reflective-question bank and the
// per-turn policy engine that decides whether and what to ask.
package question

import (
	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
)

// Bank holds the reflective questions grouped by category. Questions are
// hand-authored in the spirit of motivational interviewing and
// solution-focused counseling: open-ended, natural, never clinical.
type Bank struct {
	byCategory map[models.QuestionCategory][]models.Question
	byID       map[string]models.Question
}

// NewBank creates an empty bank.
func NewBank() *Bank {
	return &Bank{
		byCategory: make(map[models.QuestionCategory][]models.Question),
		byID:       make(map[string]models.Question),
	}
}

// Add inserts a question into the bank. Later additions with a duplicate ID
// are ignored so overlay files cannot shadow built-in questions.
func (b *Bank) Add(q models.Question) {
	if q.ID == "" || q.Text == "" {
		return
	}
	if _, exists := b.byID[q.ID]; exists {
		return
	}
	b.byID[q.ID] = q
	b.byCategory[q.Category] = append(b.byCategory[q.Category], q)
}

// In returns the questions of one category in insertion order.
func (b *Bank) In(cat models.QuestionCategory) []models.Question {
	return b.byCategory[cat]
}

// ByID looks up a question by its identifier.
func (b *Bank) ByID(id string) (models.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Size returns the total number of questions in the bank.
func (b *Bank) Size() int {
	return len(b.byID)
}

// CategoriesFor returns the ordered candidate categories for an emotional
// context: softer, validating categories for lower-valence emotions,
// exploratory/goal/values categories for neutral-to-positive states.
func CategoriesFor(emotion models.Emotion) []models.QuestionCategory {
	switch emotion {
	case models.EmotionSadness, models.EmotionDistress, models.EmotionAnxiety:
		return []models.QuestionCategory{
			models.CategoryEmotionalExploration,
			models.CategoryCopingResilience,
			models.CategoryProblemSolving,
		}
	case models.EmotionAnger:
		return []models.QuestionCategory{
			models.CategoryCopingResilience,
			models.CategoryProblemSolving,
			models.CategoryReflection,
		}
	case models.EmotionHappiness:
		return []models.QuestionCategory{
			models.CategoryReflection,
			models.CategoryGoalsAspirations,
			models.CategoryValuesMeaning,
		}
	case models.EmotionCuriosity:
		return []models.QuestionCategory{
			models.CategoryValuesMeaning,
			models.CategoryGoalsAspirations,
			models.CategoryReflection,
		}
	default: // neutral, hope_encouragement
		return []models.QuestionCategory{
			models.CategoryGeneralWellbeing,
			models.CategoryCopingResilience,
		}
	}
}

// DefaultBank returns the built-in question bank.
func DefaultBank() *Bank {
	b := NewBank()
	for _, q := range defaultQuestions {
		b.Add(q)
	}
	return b
}

var defaultQuestions = []models.Question{
	// General wellbeing
	{
		ID:           "gw_check_in",
		Text:         "How are you doing with everything today?",
		Category:     models.CategoryGeneralWellbeing,
		EmotionalFit: []models.Emotion{models.EmotionNeutral, models.EmotionHappiness, models.EmotionHopeEncouragement},
		Intensity:    1,
	},
	{
		ID:           "gw_on_your_mind",
		Text:         "What's been on your mind lately?",
		Category:     models.CategoryGeneralWellbeing,
		EmotionalFit: []models.Emotion{models.EmotionNeutral, models.EmotionAnxiety, models.EmotionSadness},
		Intensity:    1,
	},
	{
		ID:           "gw_typical_day",
		Text:         "Tell me what a typical day is like for you right now.",
		Category:     models.CategoryGeneralWellbeing,
		EmotionalFit: []models.Emotion{models.EmotionNeutral, models.EmotionHappiness},
		Intensity:    2,
	},
	{
		ID:           "gw_small_lift",
		Text:         "What's something small that made you feel better this week?",
		Category:     models.CategoryGeneralWellbeing,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety, models.EmotionNeutral},
		Intensity:    2,
	},

	// Emotional exploration
	{
		ID:           "ee_tell_me_more",
		Text:         "Can you tell me more about what that feels like?",
		Category:     models.CategoryEmotionalExploration,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety, models.EmotionAnger},
		Intensity:    2,
	},
	{
		ID:           "ee_hardest_part",
		Text:         "What was the hardest part of that for you?",
		Category:     models.CategoryEmotionalExploration,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnger},
		Intensity:    3,
	},
	{
		ID:           "ee_first_noticed",
		Text:         "When did you first notice you were feeling this way?",
		Category:     models.CategoryEmotionalExploration,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety, models.EmotionAnger},
		Intensity:    2,
	},
	{
		ID:           "ee_duration",
		Text:         "How long has this been going on?",
		Category:     models.CategoryEmotionalExploration,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety},
		Intensity:    1,
	},
	{
		ID:           "ee_why_share",
		Text:         "What made you decide to talk about this with me?",
		Category:     models.CategoryEmotionalExploration,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety},
		Intensity:    2,
	},

	// Coping and resilience
	{
		ID:           "cr_what_helps",
		Text:         "What helps you get through difficult moments like this?",
		Category:     models.CategoryCopingResilience,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety, models.EmotionAnger},
		Intensity:    2,
	},
	{
		ID:           "cr_past_resilience",
		Text:         "When things have been hard before, what helped you move forward?",
		Category:     models.CategoryCopingResilience,
		EmotionalFit: []models.Emotion{models.EmotionSadness},
		Intensity:    3,
	},
	{
		ID:           "cr_support_system",
		Text:         "Who or what do you lean on when you need support?",
		Category:     models.CategoryCopingResilience,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety},
		Intensity:    2,
	},
	{
		ID:           "cr_small_wins",
		Text:         "What's something you're proud of managing, even if it felt small?",
		Category:     models.CategoryCopingResilience,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety},
		Intensity:    2,
	},
	{
		ID:           "cr_self_care",
		Text:         "Have you been able to do anything that usually makes you feel better?",
		Category:     models.CategoryCopingResilience,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety},
		Intensity:    1,
	},

	// Values and meaning
	{
		ID:           "vm_what_matters",
		Text:         "What matters most to you right now?",
		Category:     models.CategoryValuesMeaning,
		EmotionalFit: []models.Emotion{models.EmotionNeutral, models.EmotionSadness, models.EmotionHappiness},
		Intensity:    3,
	},
	{
		ID:           "vm_most_yourself",
		Text:         "When do you feel most like yourself?",
		Category:     models.CategoryValuesMeaning,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionNeutral, models.EmotionCuriosity},
		Intensity:    2,
	},
	{
		ID:           "vm_at_peace",
		Text:         "What would help you feel more at peace?",
		Category:     models.CategoryValuesMeaning,
		EmotionalFit: []models.Emotion{models.EmotionAnxiety, models.EmotionSadness},
		Intensity:    3,
	},
	{
		ID:           "vm_different",
		Text:         "If things could be different, what would that look like?",
		Category:     models.CategoryValuesMeaning,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety, models.EmotionAnger},
		Intensity:    3,
	},

	// Relationships
	{
		ID:           "rel_closest_people",
		Text:         "How are the people closest to you doing with all of this?",
		Category:     models.CategoryRelationships,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety},
		Intensity:    2,
	},
	{
		ID:           "rel_someone_to_talk",
		Text:         "Is there someone you'd like to talk to about what you're going through?",
		Category:     models.CategoryRelationships,
		EmotionalFit: []models.Emotion{models.EmotionSadness},
		Intensity:    2,
	},
	{
		ID:           "rel_support_looks_like",
		Text:         "What does support look like for you? How do people best help you?",
		Category:     models.CategoryRelationships,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety},
		Intensity:    2,
	},

	// Goals and aspirations
	{
		ID:           "ga_small_step",
		Text:         "What's something you'd like to work toward, even just a small step?",
		Category:     models.CategoryGoalsAspirations,
		EmotionalFit: []models.Emotion{models.EmotionNeutral, models.EmotionSadness, models.EmotionAnxiety},
		Intensity:    2,
	},
	{
		ID:           "ga_weekly_win",
		Text:         "What would make a difference for you this week?",
		Category:     models.CategoryGoalsAspirations,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety},
		Intensity:    2,
	},
	{
		ID:           "ga_one_focus",
		Text:         "If you could focus on one thing, what would be most helpful right now?",
		Category:     models.CategoryGoalsAspirations,
		EmotionalFit: []models.Emotion{models.EmotionAnxiety},
		Intensity:    2,
	},

	// Problem solving
	{
		ID:           "ps_control",
		Text:         "What's the part of this you have the most control over?",
		Category:     models.CategoryProblemSolving,
		EmotionalFit: []models.Emotion{models.EmotionAnxiety},
		Intensity:    2,
	},
	{
		ID:           "ps_tried_anything",
		Text:         "Have you tried anything to address this? What happened?",
		Category:     models.CategoryProblemSolving,
		EmotionalFit: []models.Emotion{models.EmotionAnxiety, models.EmotionAnger},
		Intensity:    2,
	},
	{
		ID:           "ps_listen_or_ideas",
		Text:         "What would help right now: a practical idea, or just someone to listen?",
		Category:     models.CategoryProblemSolving,
		EmotionalFit: []models.Emotion{models.EmotionAnxiety, models.EmotionSadness},
		Intensity:    2,
	},

	// Reflection
	{
		ID:           "rf_looking_back",
		Text:         "Looking back, what do you notice about how you handled that?",
		Category:     models.CategoryReflection,
		EmotionalFit: []models.Emotion{models.EmotionNeutral, models.EmotionHappiness},
		Intensity:    3,
	},
	{
		ID:           "rf_learned_recently",
		Text:         "What's one thing you've learned about yourself recently?",
		Category:     models.CategoryReflection,
		EmotionalFit: []models.Emotion{models.EmotionNeutral, models.EmotionHappiness, models.EmotionCuriosity},
		Intensity:    2,
	},
	{
		ID:           "rf_friend_advice",
		Text:         "If you were talking to a friend in this situation, what would you tell them?",
		Category:     models.CategoryReflection,
		EmotionalFit: []models.Emotion{models.EmotionSadness, models.EmotionAnxiety},
		Intensity:    3,
	},
}
