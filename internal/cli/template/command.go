package template

import (
	"fmt"
	"io"
	"strings"

	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/netforge-io/netforge/netbox"
	"github.com/netforge-io/netforge/schema"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "template",
		Short: "Manage device-type component templates",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newAddCommand(deps, globalFlags),
		newListCommand(deps, globalFlags),
		newKindsCommand(deps, globalFlags),
	)

	return command
}

// registryOrBuiltin returns the configured schema registry, falling back to
// the built-in definitions so flag sets and completions exist even when the
// command tree is built without a resolved context.
func registryOrBuiltin(deps common.CommandDependencies) *schema.Registry {
	if deps.Schemas != nil {
		return deps.Schemas
	}
	return schema.NewRegistry()
}

func newKindsCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List component template kinds",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			registry, err := common.RequireSchemas(deps)
			if err != nil {
				return err
			}

			outputFormat := selectedOutputFormat(globalFlags)
			if err := common.ValidateOutputFormatForCommandPath(command.CommandPath(), outputFormat); err != nil {
				return err
			}

			views := make([]kindView, 0, len(registry.Definitions()))
			for _, def := range registry.Definitions() {
				if !def.Creatable() {
					continue
				}
				views = append(views, newKindView(def))
			}

			return common.WriteOutput(command, outputFormat, views, renderKindsText)
		},
	}
}

// kindView is the serializable description of one creatable kind: its flag
// surface as the add command accepts it.
type kindView struct {
	Kind       string   `json:"kind" yaml:"kind"`
	Endpoint   string   `json:"endpoint" yaml:"endpoint"`
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
	Required   []string `json:"required,omitempty" yaml:"required,omitempty"`
}

func newKindView(def schema.Definition) kindView {
	view := kindView{Kind: string(def.Kind), Endpoint: def.Endpoint}
	for _, attr := range def.Attributes {
		view.Attributes = append(view.Attributes, flagNameForField(attr.Name))
		if attr.Required {
			view.Required = append(view.Required, flagNameForField(attr.Name))
		}
	}
	for _, ref := range def.References {
		view.References = append(view.References, flagNameForField(ref.PayloadAs))
		if ref.Required {
			view.Required = append(view.Required, flagNameForField(ref.PayloadAs))
		}
	}
	return view
}

func renderKindsText(w io.Writer, views []kindView) error {
	for _, view := range views {
		flags := make([]string, 0, len(view.Attributes)+len(view.References))
		for _, name := range view.Attributes {
			flags = append(flags, "--"+name)
		}
		for _, name := range view.References {
			flags = append(flags, "--"+name)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", view.Kind, strings.Join(flags, " ")); err != nil {
			return err
		}
	}
	return nil
}

// flagNameForField maps a payload field name onto its CLI flag name.
func flagNameForField(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func registerKindArgCompletion(command *cobra.Command, deps common.CommandDependencies) {
	command.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		registry := registryOrBuiltin(deps)
		kinds := registry.CreatableKinds()
		values := make([]string, 0, len(kinds))
		for _, kind := range kinds {
			values = append(values, string(kind))
		}
		return common.CompleteValues(values, toComplete)
	}
}

func parseKindArg(deps common.CommandDependencies, arg string) (schema.Definition, error) {
	registry, err := common.RequireSchemas(deps)
	if err != nil {
		return schema.Definition{}, err
	}

	def, err := registry.Lookup(netbox.Kind(strings.TrimSpace(arg)))
	if err != nil {
		return schema.Definition{}, err
	}
	if !def.Creatable() {
		return schema.Definition{}, common.ValidationError(
			fmt.Sprintf("kind %s is not a component template kind", def.Kind), nil)
	}
	return def, nil
}

func selectedOutputFormat(globalFlags *common.GlobalFlags) string {
	if globalFlags == nil || strings.TrimSpace(globalFlags.Output) == "" {
		return common.OutputAuto
	}
	return globalFlags.Output
}
