package connection

import (
	"testing"

	"github.com/Noxter68/habit-tracking-sub006/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	base := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "habits",
		Password: "secret",
		Name:     "habits_db",
	}

	t.Run("defaults to sslmode disable", func(t *testing.T) {
		dsn := buildDSN(base)
		assert.Equal(t, "host=localhost port=5432 user=habits password=secret dbname=habits_db sslmode=disable", dsn)
	})

	t.Run("configured sslmode and timezone are carried", func(t *testing.T) {
		cfg := base
		cfg.SSLMode = "require"
		cfg.Timezone = "Europe/Paris"
		dsn := buildDSN(cfg)
		assert.Contains(t, dsn, "sslmode=require")
		assert.Contains(t, dsn, "TimeZone=Europe/Paris")
	})
}
