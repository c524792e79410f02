package library

import (
	"fmt"
	"io"

	"github.com/netforge-io/netforge/internal/cli/common"
	librarydomain "github.com/netforge-io/netforge/library"
	"github.com/spf13/cobra"
)

func newSyncCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Clone or update the device-type library checkout",
		Long: "Clone the configured devicetype-library repository on first use and " +
			"fast-forward the checkout to the remote branch head on every later run. " +
			"Local edits in the checkout are discarded.",
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			syncer, err := common.RequireLibrarySyncer(deps)
			if err != nil {
				return err
			}

			outputFormat := selectedOutputFormat(globalFlags)
			if err := common.ValidateOutputFormatForCommandPath(command.CommandPath(), outputFormat); err != nil {
				return err
			}

			report, err := syncer.Sync(command.Context())
			if err != nil {
				return err
			}

			return common.WriteOutput(command, outputFormat, newSyncView(report),
				func(w io.Writer, view syncView) error {
					return renderSyncReportText(w, view)
				})
		},
	}
}

// syncView is the serializable form of a sync report.
type syncView struct {
	Path    string `json:"path" yaml:"path"`
	Branch  string `json:"branch" yaml:"branch"`
	Commit  string `json:"commit" yaml:"commit"`
	Cloned  bool   `json:"cloned" yaml:"cloned"`
	Updated bool   `json:"updated" yaml:"updated"`
}

func newSyncView(report librarydomain.SyncReport) syncView {
	return syncView{
		Path:    report.Path,
		Branch:  report.Branch,
		Commit:  report.Commit,
		Cloned:  report.Cloned,
		Updated: report.Updated,
	}
}

func renderSyncReportText(w io.Writer, view syncView) error {
	switch {
	case view.Cloned:
		_, err := fmt.Fprintf(w, "cloned %s at %s (branch %s)\n", view.Path, view.Commit, view.Branch)
		return err
	case view.Updated:
		_, err := fmt.Fprintf(w, "updated %s to %s (branch %s)\n", view.Path, view.Commit, view.Branch)
		return err
	default:
		_, err := fmt.Fprintf(w, "%s already at %s (branch %s)\n", view.Path, view.Commit, view.Branch)
		return err
	}
}
