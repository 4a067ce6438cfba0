package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	require.NoError(t, Load())
	cfg := Cfg

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "database", cfg.Storage.Driver)
	assert.Equal(t, "./data/jobs.json", cfg.Catalog.JobsSource)
	assert.Equal(t, 15*time.Second, cfg.Catalog.FetchTimeout)
	assert.Empty(t, cfg.Catalog.RefreshSpec)
	assert.Equal(t, 12, cfg.Listing.PageSize)
	assert.Equal(t, 10, cfg.Listing.RecentSearchCap)
	assert.Equal(t, 300*time.Millisecond, cfg.UI.SearchDebounce)
	assert.Equal(t, 30*time.Minute, cfg.UI.IdleTimeout)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxSize)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8080"}, cfg.CORS.Origins)
	assert.Empty(t, cfg.Admin.APIKey)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("JOBS_PER_PAGE", "20")
	t.Setenv("CATALOG_REFRESH_SPEC", "@every 30m")
	t.Setenv("TOAST_DURATION", "2s")
	t.Setenv("ADMIN_API_KEY", "secret")

	require.NoError(t, Load())
	cfg := Cfg

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, 20, cfg.Listing.PageSize)
	assert.Equal(t, "@every 30m", cfg.Catalog.RefreshSpec)
	assert.Equal(t, 2*time.Second, cfg.UI.ToastDuration)
	assert.Equal(t, "secret", cfg.Admin.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("page_size", func(t *testing.T) {
		t.Setenv("JOBS_PER_PAGE", "many")
		assert.ErrorContains(t, Load(), "JOBS_PER_PAGE")
	})

	t.Run("storage_driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "cassandra")
		assert.ErrorContains(t, Load(), "unsupported storage driver")
	})
}

func TestGetDSN(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "./data/jobflow.db", cfg.GetDSN())

	cfg.Database = DatabaseConfig{
		Driver: "postgres", Host: "db", Port: "5432", User: "app",
		Password: "pw", Name: "jobflow", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=jobflow sslmode=disable", cfg.GetDSN())
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, ParseDuration("90s"))
	assert.Equal(t, time.Hour, ParseDuration("soon"))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
