package storage

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultNameGenerator generates names of the form
// <YYYYMMDD_HHMMSS>_<8 hex chars>.<ext>. The second-resolution timestamp plus
// the random suffix is treated as sufficiently unique; there is no existence
// check, so a same-second suffix collision silently overwrites.
type DefaultNameGenerator struct{}

// NewDefaultNameGenerator creates a new default name generator.
func NewDefaultNameGenerator() *DefaultNameGenerator {
	return &DefaultNameGenerator{}
}

// Generate creates an object name with the given extension.
func (g *DefaultNameGenerator) Generate(extension string) string {
	timestamp := time.Now().Format("20060102_150405")
	u := uuid.New()
	suffix := hex.EncodeToString(u[:4])
	return fmt.Sprintf("%s_%s.%s", timestamp, suffix, extension)
}
