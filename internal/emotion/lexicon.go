// Package emotion provides keyword-lexicon emotion classification, crisis
// detection, and tone resolution for conversational turns.
package emotion

import "github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"

// Tier identifies one intensity band inside an emotion category.
type Tier string

const (
	TierCritical Tier = "critical"
	TierSevere   Tier = "severe"
	TierModerate Tier = "moderate"
	TierMild     Tier = "mild"
)

// tierOrder lists tiers from strongest to weakest.
var tierOrder = []Tier{TierCritical, TierSevere, TierModerate, TierMild}

// Weight returns the score contributed by one matched term of this tier.
func (t Tier) Weight() int {
	switch t {
	case TierCritical:
		return 5
	case TierSevere:
		return 4
	case TierModerate:
		return 3
	case TierMild:
		return 2
	default:
		return 0
	}
}

// IntensityLevel returns the 1-5 intensity implied by a match in this tier.
func (t Tier) IntensityLevel() int {
	switch t {
	case TierCritical:
		return 5
	case TierSevere:
		return 4
	case TierModerate:
		return 3
	case TierMild:
		return 2
	default:
		return models.MinIntensityLevel
	}
}

// Lexicon maps emotion categories to tiered term sets. It is a hand-authored
// rule table, kept as data so terms and tiers can be extended and tested
// independently of the scoring algorithm.
type Lexicon map[models.Emotion]map[Tier][]string

// scanOrder fixes the category iteration order so matched-keyword output and
// tie resolution are deterministic.
var scanOrder = []models.Emotion{
	models.EmotionDistress,
	models.EmotionSadness,
	models.EmotionAnxiety,
	models.EmotionAnger,
	models.EmotionHappiness,
	models.EmotionHopeEncouragement,
	models.EmotionCuriosity,
}

// DefaultLexicon returns the built-in emotion lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		models.EmotionDistress: {
			TierCritical: {
				"i want to die",
				"i can't go on",
				"i'm falling apart",
				"i can't take it anymore",
				"i can't take this anymore",
			},
			TierSevere: {
				"i can't do this",
				"help me",
				"emergency",
				"can't breathe",
			},
			TierModerate: {
				"overwhelmed",
				"desperate",
				"panic",
				"breaking point",
			},
			TierMild: {
				"stressed",
				"struggling",
				"difficult",
			},
		},
		models.EmotionSadness: {
			TierSevere: {
				"i'm so sad",
				"heartbroken",
				"lost someone",
				"grieving",
			},
			TierModerate: {
				"crying",
				"depressed",
				"empty inside",
				"miserable",
			},
			TierMild: {
				"sad",
				"lonely",
				"down",
				"miss",
			},
		},
		models.EmotionAnxiety: {
			TierSevere: {
				"panicking",
				"terrified",
				"racing thoughts",
				"can't stop worrying",
			},
			TierModerate: {
				"anxious",
				"worried",
				"scared",
			},
			TierMild: {
				"nervous",
				"concerned",
				"uneasy",
			},
		},
		models.EmotionAnger: {
			TierSevere: {
				"furious",
				"livid",
				"enraged",
			},
			TierModerate: {
				"angry",
				"frustrated",
				"hate it",
				"fed up",
			},
			TierMild: {
				"annoyed",
				"irritated",
				"bothered",
				"upset",
			},
		},
		models.EmotionHappiness: {
			TierSevere: {
				"thrilled",
				"overjoyed",
				"ecstatic",
			},
			TierModerate: {
				"happy",
				"excited",
				"grateful",
				"wonderful",
				"best day",
			},
			TierMild: {
				"good",
				"nice",
				"pleased",
			},
		},
		models.EmotionHopeEncouragement: {
			TierModerate: {
				"looking forward",
				"hopeful",
				"getting better",
				"proud",
			},
			TierMild: {
				"feeling better",
				"improving",
				"positive",
			},
		},
		models.EmotionCuriosity: {
			TierModerate: {
				"curious",
				"fascinated",
				"fascinating",
			},
			TierMild: {
				"wondering",
				"interested",
				"what if",
				"how does",
			},
		},
	}
}

// AddTerms appends extra terms to a category tier, creating the tier if
// needed. Used by the content overlay loader.
func (l Lexicon) AddTerms(emotion models.Emotion, tier Tier, terms ...string) {
	if len(terms) == 0 {
		return
	}
	tiers, ok := l[emotion]
	if !ok {
		tiers = make(map[Tier][]string)
		l[emotion] = tiers
	}
	tiers[tier] = append(tiers[tier], terms...)
}
