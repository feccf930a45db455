package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"booklog-backend/domain/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "STORE_DRIVER", "SQLITE_PATH", "SUPABASE_URL", "SUPABASE_ANON_KEY",
		"JWT_SECRET", "TOKEN_TTL", "FAMILY", "IS_LAMBDA", "AWS_LAMBDA_FUNCTION_NAME",
		"CORS_ALLOWED_ORIGINS", "ENABLE_TRACING",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "booklog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile("")

	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, []string{"아빠", "엄마", "찬민", "재민"}, cfg.Family)
	assert.Equal(t, layout.DefaultParams(), cfg.Layout)
	assert.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFile_Layering(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), `
server_address: ":9090"
store:
  driver: sqlite
  sqlite_path: /tmp/family.db
auth:
  token_ttl: 2h
layout:
  link_distance: 120
member_colors:
  할머니: "#123456"
stop_words: [감동, 최고]
`)
	t.Setenv("SQLITE_PATH", "/data/override.db")
	t.Setenv("FAMILY", "아빠, 엄마 ,할머니")

	cfg, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "/data/override.db", cfg.Store.SQLitePath)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 120.0, cfg.Layout.LinkDistance)
	assert.Equal(t, layout.DefaultParams().ChargeStrength, cfg.Layout.ChargeStrength)
	assert.Equal(t, []string{"아빠", "엄마", "할머니"}, cfg.Family)
	assert.Equal(t, "#123456", cfg.MemberColors["할머니"])
	assert.Equal(t, []string{"감동", "최고"}, cfg.StopWords)
	assert.Equal(t, path, cfg.File)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid default", mutate: func(c *Config) {}},
		{
			name:    "supabase without credentials",
			mutate:  func(c *Config) { c.Store.Driver = StoreSupabase },
			wantErr: "SUPABASE_URL",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Store.Driver = "dynamodb" },
			wantErr: "unknown store driver",
		},
		{
			name: "production without secret",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.Auth.JWTSecret = ""
			},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "empty family",
			mutate:  func(c *Config) { c.Family = nil },
			wantErr: "family",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.JWTSecret = "secret"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "layout: [not, a, map]")
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestLayoutWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "layout:\n  link_distance: 90\n")

	w, err := NewLayoutWatcher(path, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()
	assert.Equal(t, 90.0, w.Current().LinkDistance)

	changes := make(chan layout.Params, 4)
	w.OnChange(func(p layout.Params) { changes <- p })
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte("layout:\n  link_distance: 150\n"), 0o600))

	select {
	case p := <-changes:
		assert.Equal(t, 150.0, p.LinkDistance)
	case <-time.After(5 * time.Second):
		t.Fatal("layout change was not delivered")
	}
	assert.Equal(t, 150.0, w.Current().LinkDistance)
}
