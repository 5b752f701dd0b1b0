package util

import "github.com/google/uuid"

// GenerateSessionID generates a unique session ID with "s_" prefix.
func GenerateSessionID() string {
	return "s_" + uuid.NewString()
}
