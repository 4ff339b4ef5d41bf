package fs

import (
	"os"
)

// EnvProvider is the source of the AMXX_RELEASE_* settings and the API token.
type EnvProvider interface {
	// Get returns the value of key, or "" when it is unset.
	Get(key string) string
}

// OSEnvProvider reads the process environment.
type OSEnvProvider struct{}

// NewEnvProvider returns an OSEnvProvider.
func NewEnvProvider() *OSEnvProvider {
	return &OSEnvProvider{}
}

func (e *OSEnvProvider) Get(key string) string {
	return os.Getenv(key)
}

// MapEnvProvider serves a fixed set of variables. Keys it does not hold read
// as unset, whatever the process environment says.
type MapEnvProvider map[string]string

func (m MapEnvProvider) Get(key string) string {
	return m[key]
}
