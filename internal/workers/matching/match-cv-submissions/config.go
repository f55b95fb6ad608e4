// internal/workers/matching/match-cv-submissions/config.go
package matchcvsubmissions

import (
	"time"

	"brv-workers/internal/matcher"
)

type Config struct {
	Timeout       time.Duration
	SpreadsheetID string
	ReadRange     string
	Matcher       matcher.Config
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   60 * time.Second,
		ReadRange: "Form Responses 2",
		Matcher:   matcher.DefaultConfig(),
	}
}
