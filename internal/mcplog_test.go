package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPLogWritesToFile(t *testing.T) {
	dir := t.TempDir()
	initMCPLogger(true, dir)
	t.Cleanup(func() { initMCPLogger(false, "") })

	MCPLogInfo("request %s handled", "abc123")
	MCPLogError("request %s failed", "def456")

	data, err := os.ReadFile(filepath.Join(dir, "mcp.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[MCP] [INFO] request abc123 handled")
	assert.Contains(t, string(data), "[MCP] [ERROR] request def456 failed")
}

func TestMCPLogDisabled(t *testing.T) {
	dir := t.TempDir()
	initMCPLogger(false, dir)

	MCPLogInfo("should not appear")

	_, err := os.Stat(filepath.Join(dir, "mcp.log"))
	assert.True(t, os.IsNotExist(err))
}
