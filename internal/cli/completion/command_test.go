package completion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/spf13/cobra"
)

func TestCompletionGeneratesScriptForEachShell(t *testing.T) {
	t.Parallel()

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			t.Parallel()

			root := &cobra.Command{Use: "netforge"}
			root.AddCommand(NewCommand(common.CommandDependencies{}, &common.GlobalFlags{}))

			output := &bytes.Buffer{}
			root.SetOut(output)
			root.SetErr(output)
			root.SetArgs([]string{"completion", shell})

			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s returned error: %v", shell, err)
			}
			if !strings.Contains(output.String(), "netforge") {
				t.Fatalf("expected generated script to target the root command, got %q", output.String()[:min(200, output.Len())])
			}
		})
	}
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "netforge"}
	root.AddCommand(NewCommand(common.CommandDependencies{}, &common.GlobalFlags{}))
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"completion", "tcsh"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected unknown shell to be rejected")
	}
}
