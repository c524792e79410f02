package common

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// IsInteractiveTerminal reports whether the command's stdin and stdout are
// both attached to a terminal. The setup wizard and confirmation prompts
// require it; piped invocations take the non-interactive paths.
func IsInteractiveTerminal(command *cobra.Command) bool {
	in, ok := terminalFile(command.InOrStdin())
	if !ok {
		return false
	}
	out, ok := terminalFile(command.OutOrStdout())
	if !ok {
		return false
	}

	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// HasPipedInput reports whether stdin carries redirected data instead of a
// terminal. Non-file readers (test buffers) count as not piped.
func HasPipedInput(command *cobra.Command) bool {
	in, ok := terminalFile(command.InOrStdin())
	if !ok {
		return false
	}
	return !term.IsTerminal(int(in.Fd()))
}

func terminalFile(stream any) (*os.File, bool) {
	file, ok := stream.(*os.File)
	return file, ok
}
