package utils

import (
	"fmt"
	"os"
)

// GetEnv returns the value of an environment variable or the supplied
// fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// CreateFolder creates a directory (and parents) if it does not exist.
func CreateFolder(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create folder %q: %w", path, err)
		}
	}
	return nil
}
