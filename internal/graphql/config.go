package graphql

import "time"

// Config holds transport settings for the GraphQL client.
type Config struct {
	Endpoint  string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultConfig points at a locally running API.
func DefaultConfig() Config {
	return Config{
		Endpoint:  "http://localhost:8000/graphql",
		Timeout:   15 * time.Second,
		CacheSize: 64,
		CacheTTL:  5 * time.Minute,
	}
}
