package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("DB_HOST", "db.internal")
	for _, k := range []string{"DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PORT", "DB_SSLMODE"} {
		t.Setenv(k, "")
	}

	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "firestore", c.StoreBackend)
	assert.Equal(t, "host=db.internal user=postgres password= dbname=nutrilog port=5432 sslmode=disable", c.PostgresDSN())
}

func TestGetEnv(t *testing.T) {
	t.Setenv("NUTRILOG_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnv("NUTRILOG_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("NUTRILOG_TEST_MISSING", "fallback"))
}

func TestOpenStore(t *testing.T) {
	s, err := OpenStore(context.Background(), &Config{StoreBackend: "memory"})
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	_, err = OpenStore(context.Background(), &Config{StoreBackend: "sqlite"})
	assert.Error(t, err)

	_, err = OpenStore(context.Background(), &Config{StoreBackend: "firestore"})
	assert.Error(t, err)
}
