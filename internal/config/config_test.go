package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "sql", cfg.History.Backend)
	assert.Equal(t, 5*time.Minute, cfg.History.CacheTTL)
	assert.Equal(t, 2, cfg.Assessment.MaxRetries)
	assert.Equal(t, 60.0, cfg.Assessment.CorrectThreshold)
	assert.Equal(t, 2*time.Hour, cfg.Assessment.SessionTTL)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, time.Minute, cfg.LLM.Timeout)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{DB: DBConfig{Driver: "sqlite", Path: "/tmp/skills.db"}}
	assert.Equal(t, "/tmp/skills.db", cfg.GetDSN())

	cfg.DB = DBConfig{Driver: "oracle", User: "app", Password: "secret", Host: "db", Port: 1521, DBName: "XEPDB1"}
	assert.Equal(t, "oracle://app:secret@db:1521/XEPDB1", cfg.GetDSN())
}
