// internal/workers/matching/refresh-form-responses/config.go
package refreshformresponses

import "time"

type Config struct {
	Timeout       time.Duration
	SpreadsheetID string
	ReadRange     string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   45 * time.Second,
		ReadRange: "Form Responses 2",
	}
}
