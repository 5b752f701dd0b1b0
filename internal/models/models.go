// Package models defines the core data structures for Truffle.
//
// It includes the emotional-cue, tone, voice-parameter, and question types
// shared across the classifier, policy engine, and API modules.
package models

import (
	"errors"
	"time"
)

// Emotion identifies one of the fixed emotion categories the classifier scores.
type Emotion string

const (
	EmotionDistress          Emotion = "distress"
	EmotionSadness           Emotion = "sadness"
	EmotionAnxiety           Emotion = "anxiety"
	EmotionAnger             Emotion = "anger"
	EmotionHappiness         Emotion = "happiness"
	EmotionHopeEncouragement Emotion = "hope_encouragement"
	EmotionCuriosity         Emotion = "curiosity"
	EmotionNeutral           Emotion = "neutral"
)

// PriorityOrder is the fixed tiebreak order applied when two categories score
// equally. Distress-adjacent states come before upbeat ones so ambiguous input
// is acknowledged conservatively.
var PriorityOrder = []Emotion{
	EmotionSadness,
	EmotionAnxiety,
	EmotionAnger,
	EmotionHappiness,
	EmotionHopeEncouragement,
	EmotionCuriosity,
	EmotionNeutral,
}

// IsValidEmotion checks if the given emotion is one of the fixed categories.
func IsValidEmotion(e Emotion) bool {
	switch e {
	case EmotionDistress, EmotionSadness, EmotionAnxiety, EmotionAnger,
		EmotionHappiness, EmotionHopeEncouragement, EmotionCuriosity, EmotionNeutral:
		return true
	default:
		return false
	}
}

// ToneLabel is the discrete response-tone category consumed by both the reply
// prompt guidance and the voice parameter mapper.
type ToneLabel string

const (
	ToneDistress      ToneLabel = "distress"
	ToneSadness       ToneLabel = "sadness"
	ToneAnxiety       ToneLabel = "anxiety"
	ToneAnger         ToneLabel = "anger"
	ToneHappiness     ToneLabel = "happiness"
	ToneEncouragement ToneLabel = "encouragement"
	ToneCuriosity     ToneLabel = "curiosity"
	ToneNeutral       ToneLabel = "neutral"
)

// IsValidToneLabel checks if the given tone label is supported.
func IsValidToneLabel(t ToneLabel) bool {
	switch t {
	case ToneDistress, ToneSadness, ToneAnxiety, ToneAnger,
		ToneHappiness, ToneEncouragement, ToneCuriosity, ToneNeutral:
		return true
	default:
		return false
	}
}

// ScoredEmotion pairs a non-primary emotion with its normalized score.
type ScoredEmotion struct {
	Emotion Emotion `json:"emotion"`
	Score   float64 `json:"score"`
}

// EmotionalCue is the structured result of classifying one turn of user text.
// It is created fresh each turn and never mutated.
type EmotionalCue struct {
	PrimaryEmotion    Emotion         `json:"primary_emotion"`
	Confidence        float64         `json:"confidence"`        // 0.0-1.0
	SecondaryEmotions []ScoredEmotion `json:"secondary_emotions,omitempty"`
	IntensityLevel    int             `json:"intensity_level"` // 1-5
	MatchedKeywords   []string        `json:"matched_keywords,omitempty"`
}

// VoiceParameters is the delivery tuple handed to the external speech
// synthesizer. One fixed row exists per tone label.
type VoiceParameters struct {
	SpeedBias      float64 `json:"speed_bias"`     // negative = faster, positive = slower
	Expressiveness float64 `json:"expressiveness"` // 0 flat ... 1.4 very expressive
	Fidelity       float64 `json:"fidelity"`       // 1 loose ... 4 tight
}

// QuestionCategory groups reflective questions by conversational context.
type QuestionCategory string

const (
	CategoryGeneralWellbeing     QuestionCategory = "general_wellbeing"
	CategoryEmotionalExploration QuestionCategory = "emotional_exploration"
	CategoryCopingResilience     QuestionCategory = "coping_and_resilience"
	CategoryValuesMeaning        QuestionCategory = "values_and_meaning"
	CategoryRelationships        QuestionCategory = "relationships"
	CategoryGoalsAspirations     QuestionCategory = "goals_and_aspirations"
	CategoryProblemSolving       QuestionCategory = "problem_solving"
	CategoryReflection           QuestionCategory = "reflection"
)

// Question is one reflective follow-up question from the categorized bank.
type Question struct {
	ID           string           `json:"id"`
	Text         string           `json:"text"`
	Category     QuestionCategory `json:"category"`
	EmotionalFit []Emotion        `json:"emotional_fit,omitempty"`
	Intensity    int              `json:"intensity"` // 1=gentle, 5=deep/challenging
}

// QuestionRecord tracks one asked question for cooldown and repetition
// control. Records accumulate for the session lifetime, append-only.
type QuestionRecord struct {
	QuestionID string           `json:"question_id"`
	Category   QuestionCategory `json:"category"`
	AskedAt    time.Time        `json:"asked_at"`
}

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one entry in the ordered per-session turn log.
type ConversationTurn struct {
	Role       Role      `json:"role"`
	Text       string    `json:"text"`
	IsQuestion bool      `json:"is_question"`
	Timestamp  time.Time `json:"timestamp"`
}

// UserProfile holds the stored facts about a user. It biases question
// category selection only; it never alters emotion classification.
type UserProfile struct {
	Name             string    `json:"name,omitempty"`
	Preferences      []string  `json:"preferences,omitempty"`
	CopingStrategies []string  `json:"coping_strategies,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// TurnResult is the full outcome of orchestrating one conversational turn.
type TurnResult struct {
	SessionID       string          `json:"session_id"`
	Reply           string          `json:"reply"`
	Tone            ToneLabel       `json:"tone"`
	Cue             EmotionalCue    `json:"cue"`
	CrisisDetected  bool            `json:"crisis_detected"`
	VoiceParameters VoiceParameters `json:"voice_parameters"`
	FollowUp        *Question       `json:"follow_up,omitempty"`
	ContextSummary  string          `json:"context_summary,omitempty"`
}

// Validation constants for input validation
const (
	// MaxTurnTextLength defines the maximum allowed length for user turn text
	MaxTurnTextLength = 8192
	// MaxProfileNameLength defines the maximum allowed length for profile names
	MaxProfileNameLength = 200
	// MinIntensityLevel is the floor of the intensity scale
	MinIntensityLevel = 1
	// MaxIntensityLevel is the ceiling of the intensity scale
	MaxIntensityLevel = 5
)

// Error variables for better error handling and testability
var (
	ErrEmptySessionID     = errors.New("session id cannot be empty")
	ErrTurnTextTooLong    = errors.New("turn text exceeds maximum length")
	ErrInvalidEmotion     = errors.New("invalid emotion category")
	ErrInvalidToneLabel   = errors.New("invalid tone label")
	ErrProfileNameTooLong = errors.New("profile name exceeds maximum length")
)

// TurnRequest is the inbound payload for processing one user turn.
type TurnRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// Validate performs validation on a TurnRequest structure.
func (r *TurnRequest) Validate() error {
	if r.SessionID == "" {
		return ErrEmptySessionID
	}
	if len(r.Text) > MaxTurnTextLength {
		return ErrTurnTextTooLong
	}
	return nil
}

// Validate performs validation on a UserProfile structure.
func (p *UserProfile) Validate() error {
	if len(p.Name) > MaxProfileNameLength {
		return ErrProfileNameTooLong
	}
	return nil
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	APIStatusOK    APIStatus = "ok"
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with the given message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
