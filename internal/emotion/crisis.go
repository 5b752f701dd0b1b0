package emotion

import (
	"log/slog"
	"strings"
)

// defaultCrisisPatterns are phrasings of self-harm intent or hopelessness
// framed as intent. Matching is substring-based and case-insensitive; a
// single match is sufficient because false negatives are the unacceptable
// failure mode here, not false positives.
var defaultCrisisPatterns = []string{
	"i want to die",
	"i'm going to kill myself",
	"i am going to kill myself",
	"kill myself",
	"i'm going to hurt myself",
	"i am going to hurt myself",
	"hurt myself",
	"i can't go on",
	"i cannot go on",
	"end it all",
	"i'm a burden",
	"i am a burden",
	"no reason to live",
	"better off without me",
}

// CrisisDetector scans text for crisis indicators independently of, and with
// priority over, ordinary emotion scoring.
type CrisisDetector struct {
	patterns []string
}

// NewCrisisDetector creates a detector with the built-in pattern set plus any
// extra patterns from the content overlay.
func NewCrisisDetector(extra ...string) *CrisisDetector {
	patterns := make([]string, 0, len(defaultCrisisPatterns)+len(extra))
	patterns = append(patterns, defaultCrisisPatterns...)
	for _, p := range extra {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return &CrisisDetector{patterns: patterns}
}

// Detect reports whether the text contains any crisis indicator. The result
// is binary: no confidence scoring, no partial matches. When true, the caller
// must treat the turn as distress unconditionally, bypassing the classifier's
// own output.
func (d *CrisisDetector) Detect(text string) bool {
	lowered := strings.ToLower(text)
	for _, pattern := range d.patterns {
		if strings.Contains(lowered, pattern) {
			slog.Warn("CrisisDetector.Detect: crisis indicator matched")
			return true
		}
	}
	return false
}
