package library

import (
	"fmt"
	"io"
	"strings"

	"github.com/netforge-io/netforge/internal/cli/common"
	librarydomain "github.com/netforge-io/netforge/library"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "library",
		Short: "Manage the device-type library",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newSyncCommand(deps, globalFlags),
		newListCommand(deps, globalFlags),
		newApplyCommand(deps, globalFlags),
	)

	return command
}

func bindFilterFlags(command *cobra.Command, vendor *string, model *string) {
	command.Flags().StringVar(vendor, "vendor", "", "limit to one vendor directory")
	command.Flags().StringVar(model, "model", "", "limit to one device type model")
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var vendor string
	var model string

	command := &cobra.Command{
		Use:   "list",
		Short: "List definitions in the library checkout",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			loader, err := common.RequireLibraryLoader(deps)
			if err != nil {
				return err
			}

			outputFormat := selectedOutputFormat(globalFlags)
			if err := common.ValidateOutputFormatForCommandPath(command.CommandPath(), outputFormat); err != nil {
				return err
			}

			definitions, err := loader.Load(command.Context(), librarydomain.Filter{Vendor: vendor, Model: model})
			if err != nil {
				return err
			}

			views := make([]definitionView, 0, len(definitions))
			for _, def := range definitions {
				views = append(views, newDefinitionView(def))
			}
			return common.WriteOutput(command, outputFormat, views, renderDefinitionsText)
		},
	}

	bindFilterFlags(command, &vendor, &model)
	return command
}

// definitionView is the serializable summary of one library definition.
type definitionView struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Model        string `json:"model" yaml:"model"`
	Slug         string `json:"slug,omitempty" yaml:"slug,omitempty"`
	PartNumber   string `json:"part-number,omitempty" yaml:"part-number,omitempty"`
	Path         string `json:"path" yaml:"path"`
	Components   int    `json:"components" yaml:"components"`
}

func newDefinitionView(def librarydomain.Definition) definitionView {
	return definitionView{
		Manufacturer: def.Manufacturer,
		Model:        def.Model,
		Slug:         def.Slug,
		PartNumber:   def.PartNumber,
		Path:         def.Path,
		Components:   def.ComponentCount(),
	}
}

func renderDefinitionsText(w io.Writer, views []definitionView) error {
	for _, view := range views {
		if _, err := fmt.Fprintf(w, "%s/%s (%d components)\n",
			view.Manufacturer, view.Model, view.Components); err != nil {
			return err
		}
	}
	return nil
}

func selectedOutputFormat(globalFlags *common.GlobalFlags) string {
	if globalFlags == nil || strings.TrimSpace(globalFlags.Output) == "" {
		return common.OutputAuto
	}
	return globalFlags.Output
}
