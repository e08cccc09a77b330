package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/pkg/errors"
)

func TestGetString_FallsBackToEnv(t *testing.T) {
	t.Setenv("SHELF_TEST_TOKEN", "from-env")
	assert.Equal(t, "from-env", GetString("SHELF_TEST_TOKEN"))

	viper.Set("SHELF_TEST_TOKEN", "from-viper")
	t.Cleanup(func() { viper.Set("SHELF_TEST_TOKEN", "") })
	assert.Equal(t, "from-viper", GetString("SHELF_TEST_TOKEN"))
}

func TestGetAPIKey(t *testing.T) {
	t.Setenv("SHELF_TEST_KEY", "sk-123")

	key, err := GetAPIKey(APIKey{Env: "SHELF_TEST_KEY", Pattern: `^sk-\d+$`})
	require.NoError(t, err)
	assert.Equal(t, "sk-123", key)

	_, err = GetAPIKey(APIKey{Env: "SHELF_TEST_KEY", Pattern: `^pk-`})
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "SHELF_TEST_KEY", cfgErr.Component)

	key, err = GetAPIKey(APIKey{Env: "SHELF_TEST_UNSET"})
	require.NoError(t, err)
	assert.Empty(t, key)

	_, err = GetAPIKey(APIKey{Env: "SHELF_TEST_UNSET", Required: true})
	require.ErrorAs(t, err, &cfgErr)

	key, err = GetAPIKey(APIKey{})
	require.NoError(t, err)
	assert.Empty(t, key)
}
