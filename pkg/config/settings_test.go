package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "absent.toml"))

	settings, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "main", settings.RootRule)
	assert.Contains(t, settings.CarTypes, "DE6")
	assert.NotEmpty(t, settings.CarTypes)
}

func TestLoadSettingsFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carcue.toml")
	content := `
root_rule = "freight"
car_types = ["DE6", "DM3"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(EnvConfigFile, path)

	settings, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "freight", settings.RootRule)
	assert.Equal(t, []string{"DE6", "DM3"}, settings.CarTypes)
}
