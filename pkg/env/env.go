package env

import "os"

// Get reads an environment variable, falling back to the provided default.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
