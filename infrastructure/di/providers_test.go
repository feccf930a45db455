package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"booklog-backend/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.LogLevel = "error"
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "di_test.db")
	cfg.Auth.JWTSecret = "test-secret"
	return cfg
}

func TestInitializeContainer_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	container, cleanup, err := InitializeContainer(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	profiles, err := container.Store.Profiles.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, len(cfg.Family))
	assert.NotNil(t, container.Metrics)

	handler := container.Router.Setup()
	for _, path := range []string{"/health", "/api/v1/profiles", "/api/v1/challenge", "/metrics"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestInitializeContainer_ReopensExistingStore(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	_, cleanup, err := InitializeContainer(ctx, cfg)
	require.NoError(t, err)
	cleanup()

	container, cleanup, err := InitializeContainer(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	profiles, err := container.Store.Profiles.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, len(cfg.Family), "profiles are seeded once")
}

func TestProvideStore_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Driver = "mongo"

	_, _, err := ProvideStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestProvideLogger(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "loud"
	_, err := ProvideLogger(cfg)
	assert.Error(t, err)

	cfg.LogLevel = "debug"
	cfg.Environment = "production"
	logger, err := ProvideLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestProvideMetrics_Disabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.EnableMetrics = false
	assert.Nil(t, ProvideMetrics(cfg))
}

func TestProvideMetadataExtractor_WithoutFunctions(t *testing.T) {
	cfg := testConfig(t)
	extractor := ProvideMetadataExtractor(cfg, &Store{}, zap.NewNop())

	_, err := extractor.ExtractBookMetadata(context.Background(), "link", "https://store.example/1")
	assert.Error(t, err)
}

func TestProvideKeywordFilter(t *testing.T) {
	cfg := testConfig(t)
	assert.True(t, ProvideKeywordFilter(cfg).IsStopWord("책"))

	cfg.StopWords = []string{"감동"}
	filter := ProvideKeywordFilter(cfg)
	assert.True(t, filter.IsStopWord("감동"))
	assert.False(t, filter.IsStopWord("책"))
}
