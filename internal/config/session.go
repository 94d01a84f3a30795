// Package config - session.go provides session token configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// SessionConfig holds configuration for signing the questionnaire session
// tokens handed out by the server.
type SessionConfig struct {
	Secret          string
	ExpirationHours int
}

// NewSessionConfig creates a session configuration from environment
// variables. It reads SESSION_SECRET (required) and SESSION_TTL_HOURS
// (default: 24).
func NewSessionConfig() (*SessionConfig, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required but not set")
	}

	expirationStr := os.Getenv("SESSION_TTL_HOURS")
	if expirationStr == "" {
		expirationStr = "24" // default
	}

	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %v", err)
	}

	config := &SessionConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *SessionConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("SESSION_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("SESSION_TTL_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
