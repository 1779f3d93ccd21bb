// internal/config/loader_test.go
//
// Unit-tests for the layered loader.
//
// Run: go test ./internal/config -v

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRoot creates <tmp>/conf/global.yaml and points FORMHOOK_ROOT at it.
func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	t.Setenv(envPrefix+"ROOT", root)
	return root
}

func TestLoad_YAMLOverDefaults(t *testing.T) {
	root := writeRoot(t, `
http:
  listen_addr: "127.0.0.1:9090"
storage:
  backend: http
  endpoint: https://example.supabase.co
  timeout: 5s
`)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.ListenAddr)
	assert.Equal(t, "http", cfg.Storage.Backend)
	assert.Equal(t, 5*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, "form-hook-zod-bucket", cfg.Storage.Bucket, "default kept")
	assert.Equal(t, "info", cfg.Log.Level, "default kept")
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	writeRoot(t, "storage:\n  bucket: from-yaml\n")
	t.Setenv("FORMHOOK_STORAGE__BUCKET", "from-env")
	t.Setenv("FORMHOOK_LOG__LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Storage.Bucket)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	root := writeRoot(t, "log:\n  level: info\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", ".env"),
		[]byte("FORMHOOK_HTTP__FORCE_HTTPS=true\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("FORMHOOK_HTTP__FORCE_HTTPS") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.HTTP.ForceHTTPS)
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"unknown backend": "storage:\n  backend: ftp\n",
		"http no endpoint": "storage:\n  backend: http\n",
		"sql no dsn":       "storage:\n  backend: sql\n",
		"bad level":        "log:\n  level: loud\n",
		"bad listen addr":  "http:\n  listen_addr: nowhere\n",
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			writeRoot(t, yaml)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingYAML(t *testing.T) {
	t.Setenv(envPrefix+"ROOT", t.TempDir())
	_, err := Load()
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "storage.bucket", envKey("FORMHOOK_STORAGE__BUCKET"))
	assert.Equal(t, "http.listen_addr", envKey("FORMHOOK_HTTP__LISTEN_ADDR"))
}
