package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Taly-projects/taly-lang/pkgs/config"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), config.DefaultFileName))
	require.NoError(t, err)
	require.Equal(t, "./out", cfg.Out)
	require.Empty(t, cfg.IncludePaths)
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
out: build/
include_paths:
  - vendor/c-includes
language_version: "1.2.0"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "build/", cfg.Out)
	require.Equal(t, []string{"vendor/c-includes"}, cfg.IncludePaths)
	require.Equal(t, "1.2.0", cfg.LanguageVersion)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, `
out: build/
bogus_field: true
`)

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidSemver(t *testing.T) {
	path := writeConfig(t, `language_version: "not-a-version"`)

	_, err := config.Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "language_version")
}

func TestLoadAcceptsVPrefixedSemver(t *testing.T) {
	path := writeConfig(t, `language_version: "v2.0.0"`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "v2.0.0", cfg.LanguageVersion)
}
