package secret

import (
	"io"
	"strings"

	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "secret",
		Short: "Manage stored API tokens",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newInitCommand(deps),
		newSetCommand(deps),
		newGetCommand(deps),
		newDeleteCommand(deps),
		newListCommand(deps, globalFlags),
	)

	return command
}

func newInitCommand(deps common.CommandDependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the token store",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			tokenStore, err := common.RequireTokenStore(deps)
			if err != nil {
				return err
			}

			return tokenStore.Init(command.Context())
		},
	}
}

func newSetCommand(deps common.CommandDependencies) *cobra.Command {
	command := &cobra.Command{
		Use:   "set <name> [value]",
		Short: "Store a token under a name",
		Long: strings.Join([]string{
			"Store a token under a name so contexts can reference it via netbox.auth.secret-ref.",
			"When the value argument is omitted the token is read from a hidden terminal prompt,",
			"or from stdin when input is piped.",
		}, " "),
		Example: strings.Join([]string{
			"  netforge secret set netbox-token",
			"  netforge secret set netbox-token 0123456789abcdef",
			"  pass show netbox | netforge secret set netbox-token",
		}, "\n"),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(command *cobra.Command, args []string) error {
			tokenStore, err := common.RequireTokenStore(deps)
			if err != nil {
				return err
			}

			value, err := resolveSecretValue(command, args)
			if err != nil {
				return err
			}

			return tokenStore.Store(command.Context(), args[0], value)
		},
	}
	registerSecretNameArgCompletion(command, deps)
	return command
}

func resolveSecretValue(command *cobra.Command, args []string) (string, error) {
	if len(args) == 2 {
		value := strings.TrimSpace(args[1])
		if value == "" {
			return "", common.ValidationError("token value must not be empty", nil)
		}
		return value, nil
	}

	if common.HasPipedInput(command) {
		data, err := io.ReadAll(command.InOrStdin())
		if err != nil {
			return "", err
		}
		value := strings.TrimSpace(string(data))
		if value == "" {
			return "", common.ValidationError("token value must not be empty", nil)
		}
		return value, nil
	}

	value, err := common.PromptToken(command, "Token value")
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", common.ValidationError("token value must not be empty", nil)
	}
	return value, nil
}

func newGetCommand(deps common.CommandDependencies) *cobra.Command {
	command := &cobra.Command{
		Use:   "get <name>",
		Short: "Read a stored token",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			tokenStore, err := common.RequireTokenStore(deps)
			if err != nil {
				return err
			}

			value, err := tokenStore.Get(command.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(command.OutOrStdout(), value+"\n")
			return err
		},
	}
	registerSecretNameArgCompletion(command, deps)
	return command
}

func newDeleteCommand(deps common.CommandDependencies) *cobra.Command {
	command := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored token",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			tokenStore, err := common.RequireTokenStore(deps)
			if err != nil {
				return err
			}

			return tokenStore.Delete(command.Context(), args[0])
		},
	}
	registerSecretNameArgCompletion(command, deps)
	return command
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored token names",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			tokenStore, err := common.RequireTokenStore(deps)
			if err != nil {
				return err
			}

			items, err := tokenStore.List(command.Context())
			if err != nil {
				return err
			}

			return common.WriteOutput(command, globalFlags.Output, items, func(w io.Writer, value []string) error {
				for _, item := range value {
					if _, writeErr := io.WriteString(w, item+"\n"); writeErr != nil {
						return writeErr
					}
				}
				return nil
			})
		},
	}
}

func registerSecretNameArgCompletion(command *cobra.Command, deps common.CommandDependencies) {
	command.ValidArgsFunction = func(
		cmd *cobra.Command,
		args []string,
		toComplete string,
	) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		tokenStore, err := common.RequireTokenStore(deps)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		items, err := tokenStore.List(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return common.CompleteValues(items, toComplete)
	}
}
