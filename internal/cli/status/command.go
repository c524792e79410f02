package status

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/netforge-io/netforge/netbox"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show NetBox instance status",
		Long: "Probe the configured NetBox instance and report its version, " +
			"Python runtime and installed plugins.",
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			client, err := common.RequireClient(deps)
			if err != nil {
				return err
			}

			outputFormat := selectedOutputFormat(globalFlags)
			if err := common.ValidateOutputFormatForCommandPath(command.CommandPath(), outputFormat); err != nil {
				return err
			}

			instance, err := client.Status(command.Context())
			if err != nil {
				return err
			}

			return common.WriteOutput(command, outputFormat, newStatusView(instance), renderStatusText)
		},
	}
}

// statusView is the serializable form of an instance probe.
type statusView struct {
	Version        string            `json:"version" yaml:"version"`
	PythonVersion  string            `json:"python-version,omitempty" yaml:"python-version,omitempty"`
	ResponseTimeMS int64             `json:"response-time-ms" yaml:"response-time-ms"`
	Plugins        map[string]string `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

func newStatusView(instance netbox.InstanceStatus) statusView {
	return statusView{
		Version:        instance.Version,
		PythonVersion:  instance.PythonVersion,
		ResponseTimeMS: instance.ResponseTime.Milliseconds(),
		Plugins:        instance.Plugins,
	}
}

func renderStatusText(w io.Writer, view statusView) error {
	if _, err := fmt.Fprintf(w, "netbox %s", view.Version); err != nil {
		return err
	}
	if view.PythonVersion != "" {
		if _, err := fmt.Fprintf(w, " (python %s)", view.PythonVersion); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, ", response time %dms\n", view.ResponseTimeMS); err != nil {
		return err
	}

	if len(view.Plugins) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "plugins:"); err != nil {
		return err
	}
	names := make([]string, 0, len(view.Plugins))
	for name := range view.Plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "  %s %s\n", name, view.Plugins[name]); err != nil {
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
