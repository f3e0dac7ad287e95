// Package restcountries provides a client for the REST Countries API.
package restcountries

import "time"

// DefaultBaseURL is the public REST Countries v3.1 endpoint.
const DefaultBaseURL = "https://restcountries.com/v3.1"

// Config holds configuration for the REST Countries client.
type Config struct {
	BaseURL string        // Base URL for the API (e.g., "https://restcountries.com/v3.1")
	Timeout time.Duration // HTTP request timeout
}
