package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, float64(-1), cfg.Indent)
	assert.Equal(t, ImagesAuto, cfg.Images)
	assert.Equal(t, TableGrid, cfg.Table)
	assert.NoError(t, cfg.Validate())
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(`
indent: 12
trim: true
width: 100
images: kitty
table: link
resources: [images, assets]
resource_db: drawables.db
log_level: debug
`), "yaml")
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Indent:     12,
		Trim:       true,
		Width:      100,
		Images:     ImagesKitty,
		Table:      TableLink,
		Resources:  []string{"images", "assets"},
		ResourceDB: "drawables.db",
		LogLevel:   "debug",
	}, cfg)
}

func TestParseTOML(t *testing.T) {
	cfg, err := Parse([]byte(`
width = 72
theme = "html-textview-plain"
resources = ["img"]
`), "toml")
	require.NoError(t, err)

	assert.Equal(t, 72, cfg.Width)
	assert.Equal(t, "html-textview-plain", cfg.Theme)
	assert.Equal(t, []string{"img"}, cfg.Resources)
	assert.Equal(t, float64(-1), cfg.Indent)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("table: fancy\n"), "yaml")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("images: sixel\n"), "yaml")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("width = -1\n"), "toml")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse([]byte("width = [\n"), "toml")
	assert.Error(t, err)

	_, err = Parse(nil, "ini")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("width = 40\n"), 0o600))
	cfg, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)

	yamlPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("width: 50\n"), 0o600))
	cfg, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	env := map[string]string{
		EnvPrefix + "WIDTH":     "33",
		EnvPrefix + "TABLE":     "link",
		EnvPrefix + "RESOURCES": "[a, b]",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, 33, cfg.Width)
	assert.Equal(t, TableLink, cfg.Table)
	assert.Equal(t, []string{"a", "b"}, cfg.Resources)

	env[EnvPrefix+"WIDTH"] = "wide"
	assert.ErrorIs(t, Default().applyEnv(lookup), ErrInvalid)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv(EnvPrefix+"LOG_LEVEL", "error")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}
