package pidfile_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/infrastructure/pidfile"
)

func TestAcquireWritesCurrentPID(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "run", "daemon.pid")
	pf := pidfile.New(path)

	// Act
	err := pf.Acquire()

	// Assert
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n", os.Getpid()), string(data))

	require.NoError(t, pf.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquireFailsWhileOwnerIsAlive(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, pidfile.New(path).Acquire())

	// Act
	err := pidfile.New(path).Acquire()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestAcquireReplacesGarbage(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0644))

	// Act
	err := pidfile.New(path).Acquire()

	// Assert
	require.NoError(t, err)
}

func TestReleaseKeepsForeignFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getppid())), 0644))

	// Act
	err := pidfile.New(path).Release()

	// Assert
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestKillExistingWithoutFile(t *testing.T) {
	// Arrange
	pf := pidfile.New(filepath.Join(t.TempDir(), "daemon.pid"))

	// Act
	err := pf.KillExisting()

	// Assert
	assert.ErrorIs(t, err, pidfile.ErrNotRunning)
}

func TestKillExistingRefusesSelf(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	pf := pidfile.New(path)
	require.NoError(t, pf.Acquire())

	// Act
	err := pf.KillExisting()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing")
}
