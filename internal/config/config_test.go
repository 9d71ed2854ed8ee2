package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "wire", cfg.DefaultNettype)
	require.Empty(t, cfg.Predefines)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slang.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
predefines:
  WIDTH: "8"
includeDirs:
  - ./include
defaultNettype: none
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "8", cfg.Predefines["WIDTH"])
	require.Equal(t, []string{"./include"}, cfg.UserIncludeDirs)
	require.Equal(t, "none", cfg.DefaultNettype)
	require.Equal(t, "1800-2017", cfg.LanguageVersion, "unset fields keep their default")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
