package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "lodestone", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "ingest")
	assert.Contains(t, names, "ask")
	assert.Contains(t, names, "refresh")
	assert.Contains(t, names, "clear")
	assert.Contains(t, names, "settings")
	assert.Contains(t, names, "files")
	assert.Contains(t, names, "mcp")
	assert.Contains(t, names, "version")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("data-dir"))
}

func TestNeedsServices(t *testing.T) {
	assert.False(t, needsServices(versionCmd))
	assert.True(t, needsServices(askCmd))
	assert.True(t, needsServices(serveCmd))
}

func TestServeCmd_DefaultAddr(t *testing.T) {
	flag := serveCmd.Flags().Lookup("addr")
	assert.NotNil(t, flag)
	assert.Equal(t, "127.0.0.1:8000", flag.DefValue)
}
