package changeset

import (
	"crypto/rand"
	"fmt"
	"time"
)

// charset is the alphabet new changeset IDs draw their random suffix from.
const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID produces a new changeset id: "YYYYMMDD-HHMMSS-<random6>".
func GenerateID(timestamp time.Time) (string, error) {
	dateTime := timestamp.UTC().Format("20060102-150405")

	randomBytes := make([]byte, 6)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generating changeset id: %w", err)
	}
	for i := range randomBytes {
		randomBytes[i] = charset[int(randomBytes[i])%len(charset)]
	}

	return fmt.Sprintf("%s-%s", dateTime, string(randomBytes)), nil
}
