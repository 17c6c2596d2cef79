package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAX_QUESTIONS", "")
	t.Setenv("LLM_RETRY_COUNT", "")
	t.Setenv("LLM_RETRY_DELAY", "")
	t.Setenv("DB_DRIVER", "")

	cfg := Load()

	assert.Equal(t, 8, cfg.Interview.MaxQuestions)
	assert.Equal(t, 1, cfg.Interview.MaxFollowUps)
	assert.Equal(t, 2, cfg.LLM.RetryCount)
	assert.Equal(t, 3*time.Second, cfg.LLM.RetryDelay)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Cache.SessionTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_QUESTIONS", "5")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("CACHE_DRIVER", "Badger")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, 5, cfg.Interview.MaxQuestions)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.0001)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "badger", cfg.Cache.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Cache.SessionTTL)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.GetDatabaseDSN())

	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", cfg.GetDatabaseDSN())
}
