package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"migrate", "seed", "check"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestSubcommands_RejectArguments(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"migrate", "seed", "check"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Error(t, cmd.Args(cmd, []string{"extra"}), name)
	}
}

func TestSeedCmd_HasCredentialsFlag(t *testing.T) {
	cmd, _, err := newRootCmd().Find([]string{"seed"})
	require.NoError(t, err)
	assert.NotNil(t, cmd.Flags().Lookup("print-credentials"))
}
