package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	type endpoint struct {
		URL string `yaml:"url" validate:"required,url"`
	}

	type chainEntry struct {
		ChainID  string   `yaml:"chainId" validate:"required"`
		Name     string   `validate:"required"`
		Env      string   `envconfig:"LOG_LEVEL" validate:"oneof=debug info"`
		Endpoint endpoint `yaml:"endpoint"`
	}

	t.Run("valid struct passes", func(t *testing.T) {
		err := Validate(chainEntry{
			ChainID:  "cosmoshub-4",
			Name:     "Cosmos Hub",
			Env:      "info",
			Endpoint: endpoint{URL: "https://rest.cosmos.directory/cosmoshub"},
		})
		assert.NoError(t, err)
	})

	t.Run("reports every failed field by its tag name", func(t *testing.T) {
		err := Validate(chainEntry{Env: "trace", Endpoint: endpoint{URL: "not a url"}})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "'chainEntry.chainId': value '' does not meet the requirements for the 'required' validation")
		assert.Contains(t, err.Error(), "'chainEntry.Name'")
		assert.Contains(t, err.Error(), "'chainEntry.LOG_LEVEL': value 'trace'")
		assert.Contains(t, err.Error(), "'chainEntry.endpoint.url': value 'not a url' does not meet the requirements for the 'url' validation")
	})

	t.Run("non struct input returns the raw error", func(t *testing.T) {
		err := Validate("plain string")

		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrValidationFailed))
	})
}
