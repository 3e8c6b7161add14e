package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/api/v1", cfg.Server.APIPrefix)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiry)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Database.SeedDemo)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY", "5m")
	t.Setenv("JWT_REFRESH_TOKEN_EXPIRY", "not-a-duration")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("ALLOWED_ORIGINS", " https://shop.example.com , ,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiry, "invalid duration falls back")
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 0, cfg.Redis.DB, "invalid integer falls back")
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestConnectionStrings(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", db.DSN())

	redis := RedisConfig{Host: "cache", Port: "6380"}
	assert.Equal(t, "cache:6380", redis.Addr())
}
