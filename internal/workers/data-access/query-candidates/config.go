// internal/workers/data-access/query-candidates/config.go
package querycandidates

import "time"

type Config struct {
	Timeout    time.Duration
	MaxResults int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    15 * time.Second,
		MaxResults: 50,
	}
}
