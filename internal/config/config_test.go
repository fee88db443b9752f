package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "./src", cfg.Book.Src)
	require.Equal(t, "./out", cfg.Book.Output)
	require.Equal(t, "2021", cfg.Resolver.Edition)
	require.Nil(t, cfg.Links.Relative)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdlinks.yaml")
	content := `book:
  src: ./book/src
  output: ./book/out
resolver:
  binary: /opt/rust/bin/rustdoc
  edition: "2024"
links:
  relative: false
metrics:
  listen: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./book/src", cfg.Book.Src)
	require.Equal(t, "./book/out", cfg.Book.Output)
	require.Equal(t, "/opt/rust/bin/rustdoc", cfg.Resolver.Binary)
	require.Equal(t, "2024", cfg.Resolver.Edition)
	require.NotNil(t, cfg.Links.Relative)
	require.False(t, *cfg.Links.Relative)
	require.Equal(t, ":9090", cfg.Metrics.Listen)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdlinks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("book: [not a mapping"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestRelativeLinks_DefaultTrue(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.RelativeLinks())
}

func TestRelativeLinks_ConfigFalse(t *testing.T) {
	f := false
	cfg := Default()
	cfg.Links.Relative = &f
	require.False(t, cfg.RelativeLinks())
}

func TestRelativeLinks_EnvOverride(t *testing.T) {
	cfg := Default()

	t.Setenv(RelativeEnvVar, "0")
	require.False(t, cfg.RelativeLinks())

	// Only the exact value "0" disables relative output.
	t.Setenv(RelativeEnvVar, "")
	require.True(t, cfg.RelativeLinks())
	t.Setenv(RelativeEnvVar, "1")
	require.True(t, cfg.RelativeLinks())
}

func TestInit_WritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdlinks.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./src", cfg.Book.Src)
	require.NotNil(t, cfg.Links.Relative)
	require.True(t, *cfg.Links.Relative)
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdlinks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("book: {}\n"), 0o644))

	err := Init(path, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))
}
