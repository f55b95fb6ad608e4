// internal/workers/matching/assign-candidate-id/config.go
package assigncandidateid

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
