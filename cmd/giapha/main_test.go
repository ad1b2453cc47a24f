package main

import (
	"bytes"
	"testing"

	"giapha-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand(logger.NewNop())

	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "create-admin")
}

func TestCreateAdminRequiresCredentials(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")

	root := newRootCommand(logger.NewNop())
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"create-admin", "--username", "truongtoc"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password")
}

func TestServeRejectsArgs(t *testing.T) {
	root := newRootCommand(logger.NewNop())
	root.SetArgs([]string{"serve", "extra"})

	assert.Error(t, root.Execute())
}
