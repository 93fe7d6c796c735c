package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDatabaseConfig_Defaults(t *testing.T) {
	t.Setenv("PORTAL_DB_HOSTNAME", "")
	t.Setenv("PORTAL_DB_PORT", "")
	t.Setenv("PORTAL_DB_USERNAME", "")
	t.Setenv("PORTAL_DB_PASSWORD", "")
	t.Setenv("PORTAL_DB_DATABASENAME", "")
	t.Setenv("DB_SSLMODE", "")

	config := NewDatabaseConfig()

	assert.Equal(t, "localhost", config.Host)
	assert.Equal(t, "5432", config.Port)
	assert.Equal(t, "admissions", config.Database)
	assert.Equal(t, "require", config.SSLMode)
	assert.Equal(t, 25, config.MaxOpenConns)
	assert.Equal(t, 5, config.MaxIdleConns)
	assert.Equal(t, time.Hour, config.ConnMaxLifetime)
}

func TestNewDatabaseConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORTAL_DB_HOSTNAME", "db.internal")
	t.Setenv("PORTAL_DB_PORT", "6432")
	t.Setenv("PORTAL_DB_DATABASENAME", "admissions_test")
	t.Setenv("DB_SSLMODE", "disable")

	config := NewDatabaseConfig()

	assert.Equal(t, "db.internal", config.Host)
	assert.Equal(t, "6432", config.Port)
	assert.Equal(t, "admissions_test", config.Database)
	assert.Equal(t, "disable", config.SSLMode)
}
