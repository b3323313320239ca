package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-ai/lodestone/internal/core/domain"
)

func TestClearCmd_Use(t *testing.T) {
	assert.Equal(t, "clear", clearCmd.Use)
}

func TestClearCmd_NoFlagsClearsEverything(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"clear"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, ingestService.(*mockIngestor).cleared)
	assert.True(t, chatService.(*mockChat).cleared)
	assert.Contains(t, buf.String(), "Database and source documents cleared.")
	assert.Contains(t, buf.String(), "Session memory cleared.")
}

func TestClearCmd_MemoryOnly(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"clear", "--memory"})
	defer func() {
		rootCmd.SetArgs(nil)
		clearMemory = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.False(t, ingestService.(*mockIngestor).cleared)
	assert.True(t, chatService.(*mockChat).cleared)
}

func TestClearCmd_DatabaseOnly(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"clear", "--database"})
	defer func() {
		rootCmd.SetArgs(nil)
		clearDatabase = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, ingestService.(*mockIngestor).cleared)
	assert.False(t, chatService.(*mockChat).cleared)
}

func TestClearCmd_BusyIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestService = &mockIngestor{err: domain.ErrIndexBusy}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"clear", "--database"})
	defer func() {
		rootCmd.SetArgs(nil)
		clearDatabase = false
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}
