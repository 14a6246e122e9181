package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lot-backend/pkg/apperror"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "lot.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Database.PoolSize)
	assert.Zero(t, cfg.Database.Port)
	assert.True(t, cfg.Database.AutoSchema)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	file := filepath.Join(dir, "lot.yaml")
	require.NoError(t, os.WriteFile(file, []byte("database:\n  driver: postgres\n  name: assets\n  pool_size: 4\nlog:\n  level: debug\n"), 0o644))
	t.Setenv("LOT_DATABASE_POOL_SIZE", "20")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "assets", cfg.Database.Name)
	assert.Equal(t, 20, cfg.Database.PoolSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load("nope.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]DatabaseConfig{
		"unknown driver":   {Driver: "oracle", PoolSize: 1},
		"no sqlite path":   {Driver: "sqlite", PoolSize: 1},
		"no mysql name":    {Driver: "mysql", Host: "db", PoolSize: 1},
		"zero pool":        {Driver: "sqlite", Path: "x.db"},
		"no postgres host": {Driver: "postgres", Name: "lot", PoolSize: 1},
	}
	for name, db := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Config{Database: db}
			err := cfg.Validate()
			assert.True(t, apperror.Is(err, apperror.Config), "got %v", err)
		})
	}

	ok := Config{Database: DatabaseConfig{Driver: "mysql", Host: "db", Name: "lot", PoolSize: 5}}
	assert.NoError(t, ok.Validate())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
