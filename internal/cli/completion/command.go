package completion

import (
	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	_ = deps
	_ = globalFlags

	command := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Args:  cobra.NoArgs,
	}
	command.AddCommand(
		newBashCommand(),
		newZshCommand(),
		newFishCommand(),
		newPowerShellCommand(),
	)

	return command
}

func newBashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bash",
		Short: "Generate Bash completion",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Root().GenBashCompletionV2(command.OutOrStdout(), true)
		},
	}
}

func newZshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zsh",
		Short: "Generate Zsh completion",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Root().GenZshCompletion(command.OutOrStdout())
		},
	}
}

func newFishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fish",
		Short: "Generate Fish completion",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Root().GenFishCompletion(command.OutOrStdout(), true)
		},
	}
}

func newPowerShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "powershell",
		Short: "Generate PowerShell completion",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Root().GenPowerShellCompletionWithDesc(command.OutOrStdout())
		},
	}
}
