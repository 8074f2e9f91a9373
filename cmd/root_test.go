package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SyncsLogsOnFailure(t *testing.T) {
	synced := 0
	prev := syncLogs
	syncLogs = func() { synced++ }
	t.Cleanup(func() {
		syncLogs = prev
		rootCmd.SetArgs(nil)
	})

	var stderr bytes.Buffer
	rootCmd.SetArgs([]string{"export", "bogus"})

	require.Equal(t, 1, run(&stderr))
	assert.Equal(t, 1, synced)
	assert.Contains(t, stderr.String(), `unknown dataset "bogus"`)
}
