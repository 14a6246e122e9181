package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lot-backend/controller"
	"lot-backend/pkg/apperror"
)

func startCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestStartUnreachableDatabase(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LOT_DATABASE_DRIVER", "sqlite")
	t.Setenv("LOT_DATABASE_PATH", filepath.Join(t.TempDir(), "missing", "lot.db"))
	t.Setenv("LOT_LOG_LEVEL", "error")

	a := &app{}
	err := a.start(startCommand(), nil)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.Database))
	assert.Equal(t, 5, controller.ExitCode(err))
	a.stop()
}

func TestStartWiresUsecases(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LOT_DATABASE_DRIVER", "sqlite")
	t.Setenv("LOT_DATABASE_PATH", filepath.Join(t.TempDir(), "lot.db"))
	t.Setenv("LOT_LOG_LEVEL", "error")

	a := &app{}
	require.NoError(t, a.start(startCommand(), nil))
	defer a.stop()

	assert.NotNil(t, a.items)
	assert.NotNil(t, a.tags)
	assert.NoError(t, a.ping(context.Background()))
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
