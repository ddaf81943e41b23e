package common

import (
	"github.com/google/uuid"
)

// NewAnalysisID generates a unique analysis ID with the "ana_" prefix
// Format: ana_<uuid>
func NewAnalysisID() string {
	return "ana_" + uuid.New().String()
}
