//go:build small_tests || all_tests

package cmd

import (
	"strings"
	"testing"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

func TestCmdExecute(t *testing.T) {
	origRootCmd := *rootCmd
	defer func() {
		*rootCmd = origRootCmd
	}()

	output := &strings.Builder{}
	rootCmd.SetArgs([]string{})
	rootCmd.SetOut(output)

	err := Execute()

	assert.NilError(t, err)
	assert.Assert(t, len(output.String()) != 0)
}

func TestRootCmdRegistersSubcommands(t *testing.T) {
	names := make([]string, 0, 3)
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}
	joined := strings.Join(names, " ")

	assert.Assert(t, is.Contains(joined, "serve"))
	assert.Assert(t, is.Contains(joined, "create-subscriptions-table"))
	assert.Assert(t, is.Contains(joined, "send-email"))
}
