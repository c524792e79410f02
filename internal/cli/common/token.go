package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// PromptToken reads a secret from the terminal with echo disabled. It refuses
// to run when stdin is not a terminal so tokens never arrive via pipes by
// accident.
func PromptToken(command *cobra.Command, prompt string) (string, error) {
	inputFile, ok := command.InOrStdin().(*os.File)
	if !ok {
		return "", ValidationError("token prompt requires a terminal", nil)
	}

	fd := int(inputFile.Fd())
	if !term.IsTerminal(fd) {
		return "", ValidationError("token prompt requires a terminal", nil)
	}

	fmt.Fprint(command.ErrOrStderr(), normalizePrompt(prompt)+": ")
	tokenBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(command.ErrOrStderr())
	if err != nil {
		return "", ValidationError("failed to read token from terminal", err)
	}

	return strings.TrimSpace(string(tokenBytes)), nil
}
