package anilist

import (
	"net/http"
	"time"
)

const DefaultBaseURL = "https://graphql.anilist.co"

// Config represents the configuration for the AniList client
type Config struct {
	// BaseURL is the GraphQL endpoint
	BaseURL string

	// Timeout bounds every call, including reading the response body
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}
