// Package testkit runs cobra command trees inside tests with captured
// streams.
package testkit

import (
	"bytes"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

var executeCommandForTestMu sync.Mutex

// ExecuteCommandForTest runs command with the given stdin and args and
// returns its stdout.
func ExecuteCommandForTest(command *cobra.Command, stdin string, args ...string) (string, error) {
	output, _, err := ExecuteCommandForTestWithStreams(command, stdin, args...)
	return output, err
}

// ExecuteCommandForTestWithStreams runs command and returns stdout and
// stderr separately, for tests that assert on warnings or status lines.
func ExecuteCommandForTestWithStreams(command *cobra.Command, stdin string, args ...string) (string, string, error) {
	// Cobra mutates command/flag annotation maps while serving completion and help output.
	// Many CLI tests run in parallel, so serialize execution to avoid test-only races.
	executeCommandForTestMu.Lock()
	defer executeCommandForTestMu.Unlock()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	command.SetOut(stdout)
	command.SetErr(stderr)
	command.SetIn(strings.NewReader(stdin))
	command.SetArgs(args)

	err := command.Execute()
	return stdout.String(), stderr.String(), err
}

// RegisteredPaths walks the command tree and collects every visible command
// path below command, skipping help and cobra's hidden __complete commands.
func RegisteredPaths(command *cobra.Command, prefix []string) [][]string {
	paths := make([][]string, 0)
	for _, child := range command.Commands() {
		name := child.Name()
		if name == "help" || strings.HasPrefix(name, "__") {
			continue
		}
		current := append(append([]string{}, prefix...), name)
		paths = append(paths, current)
		paths = append(paths, RegisteredPaths(child, current)...)
	}
	return paths
}

// JoinPath renders a command path for test names; the empty path is "root".
func JoinPath(path []string) string {
	if len(path) == 0 {
		return "root"
	}
	return strings.Join(path, " ")
}
