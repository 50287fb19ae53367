package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugFlagIsPersistent(t *testing.T) {
	for _, name := range []string{"play", "term"} {
		t.Run(name, func(t *testing.T) {
			t.Cleanup(func() { flagDebug = false })

			cmd, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			require.Equal(t, name, cmd.Name())

			require.NoError(t, cmd.ParseFlags([]string{"--debug"}))
			assert.True(t, flagDebug)
		})
	}

	require.NoError(t, rootCmd.ParseFlags([]string{"--debug"}))
	assert.True(t, flagDebug)
	flagDebug = false
}
