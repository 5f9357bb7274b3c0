package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "erp-client", cfg.App.Name)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.API.UseMock)
	assert.Equal(t, []string{"/auth/login", "/auth/logout"}, cfg.API.RealPaths)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.True(t, cfg.Storage.AllowMemoryFallback)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr())
	assert.Equal(t, "zhangsan", cfg.MockServer.DemoUsername)
	assert.Equal(t, "erp_client", cfg.Metrics.Namespace)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[api]
base_url = "https://erp.example.com/api"
timeout = "3s"
use_mock = false
real_paths = ["/auth/login", "/auth/logout", "/auth/info"]

[storage]
driver = "bolt"
path = "/tmp/erp-session.db"

[log]
level = "debug"
format = "json"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://erp.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.API.UseMock)
	assert.Len(t, cfg.API.RealPaths, 3)
	assert.Equal(t, "bolt", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/erp-session.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, "[api]\nuse_mock = true\n")
	t.Setenv("ERP_API_USE_MOCK", "false")
	t.Setenv("ERP_API_BASE_URL", "http://10.0.0.1:9000/api")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.False(t, cfg.API.UseMock)
	assert.Equal(t, "http://10.0.0.1:9000/api", cfg.API.BaseURL)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "relative base url",
			body: "[api]\nbase_url = \"/api\"\n",
			want: "api.base_url",
		},
		{
			name: "unknown driver",
			body: "[storage]\ndriver = \"sqlite\"\n",
			want: "storage.driver",
		},
		{
			name: "real path without slash",
			body: "[api]\nreal_paths = [\"auth/login\"]\n",
			want: "api.real_paths",
		},
		{
			name: "production without secret",
			body: "[app]\nenv = \"production\"\n",
			want: "jwt_secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithViper(viper.New(), writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
