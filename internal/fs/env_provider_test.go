package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOSEnvProvider(t *testing.T) {
	t.Parallel()

	t.Run("Get returns environment variable", func(t *testing.T) {
		t.Parallel()
		provider := NewEnvProvider()

		assert.NotEmpty(t, provider.Get("PATH"))
	})

	t.Run("Get returns empty for unset variable", func(t *testing.T) {
		t.Parallel()
		provider := NewEnvProvider()

		assert.Empty(t, provider.Get("UNLIKELY_TO_BE_SET_12345"))
	})
}

func TestMapEnvProvider(t *testing.T) {
	t.Parallel()

	env := MapEnvProvider{"GITHUB_TOKEN": "tok"}
	assert.Equal(t, "tok", env.Get("GITHUB_TOKEN"))
	assert.Empty(t, env.Get("PATH"), "the process environment is not consulted")

	var nilEnv MapEnvProvider
	assert.Empty(t, nilEnv.Get("GITHUB_TOKEN"))
}
