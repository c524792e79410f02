package library

import (
	"fmt"
	"io"
	"strings"

	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/internal/cli/common"
	librarydomain "github.com/netforge-io/netforge/library"
	"github.com/spf13/cobra"
)

func newApplyCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var vendor string
	var model string
	var confirm bool
	var skipExisting bool
	var concurrency int

	command := &cobra.Command{
		Use:   "apply",
		Short: "Provision library definitions through the mutation pipeline",
		Long: strings.Join([]string{
			"Run every component template of the matching library definitions through the mutation pipeline.",
			"Without --confirm the whole batch is previewed and nothing is written.",
			"Per-component failures are collected and reported; they do not stop the batch.",
		}, " "),
		Example: strings.Join([]string{
			"  netforge library apply --vendor Cisco --model C9300-48P",
			"  netforge library apply --vendor Cisco --model C9300-48P --confirm",
			"  netforge library apply --vendor APC --confirm --skip-existing",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			loader, err := common.RequireLibraryLoader(deps)
			if err != nil {
				return err
			}
			engineService, err := common.RequireEngine(deps)
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
			if len(definitions) == 0 {
				return faults.NotFound("no library definitions matched the filter", nil)
			}

			applier := &librarydomain.Applier{
				Engine:       engineService,
				Log:          deps.Log,
				Concurrency:  concurrency,
				SkipExisting: skipExisting,
			}
			report, err := applier.Apply(command.Context(), definitions, confirm)
			if err != nil {
				return err
			}

			verbose := common.IsVerbose(globalFlags)
			if writeErr := common.WriteOutput(command, outputFormat, newApplyView(report),
				func(w io.Writer, view applyView) error {
					return renderApplyReportText(w, view, report.Summary(), verbose)
				}); writeErr != nil {
				return writeErr
			}

			if report.Failed > 0 {
				return common.ValidationError(
					fmt.Sprintf("library apply failed: %d component(s) failed", report.Failed), nil)
			}
			return nil
		},
	}

	bindFilterFlags(command, &vendor, &model)
	command.Flags().BoolVar(&confirm, "confirm", false, "apply the creates instead of previewing them")
	command.Flags().BoolVar(&skipExisting, "skip-existing", false, "treat components already present as skipped instead of failed")
	command.Flags().IntVar(&concurrency, "concurrency", 0, "pipeline runs in flight per component group (default 4)")

	return command
}

// applyView is the serializable form of an apply report.
type applyView struct {
	Definitions int          `json:"definitions" yaml:"definitions"`
	Created     int          `json:"created" yaml:"created"`
	Planned     int          `json:"planned" yaml:"planned"`
	Skipped     int          `json:"skipped" yaml:"skipped"`
	Failed      int          `json:"failed" yaml:"failed"`
	Results     []resultView `json:"results,omitempty" yaml:"results,omitempty"`
}

type resultView struct {
	Definition string `json:"definition" yaml:"definition"`
	Kind       string `json:"kind" yaml:"kind"`
	Name       string `json:"name" yaml:"name"`
	Status     string `json:"status" yaml:"status"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newApplyView(report librarydomain.Report) applyView {
	view := applyView{
		Definitions: report.Definitions,
		Created:     report.Created,
		Planned:     report.Planned,
		Skipped:     report.Skipped,
		Failed:      report.Failed,
		Results:     make([]resultView, 0, len(report.Results)),
	}
	for _, result := range report.Results {
		entry := resultView{
			Definition: result.Definition,
			Kind:       string(result.Kind),
			Name:       result.Name,
			Status:     statusForResult(result),
		}
		if result.Err != nil {
			entry.Error = result.Err.Error()
		}
		view.Results = append(view.Results, entry)
	}
	return view
}

func statusForResult(result librarydomain.Result) string {
	switch {
	case result.Err != nil:
		return "failed"
	case result.Skipped:
		return "skipped"
	case result.Outcome.Status == engine.StatusCreated:
		return "created"
	default:
		return "planned"
	}
}

// renderApplyReportText prints failures always and the full result list
// only in verbose mode, then the one-line summary.
func renderApplyReportText(w io.Writer, view applyView, summary string, verbose bool) error {
	for _, result := range view.Results {
		if result.Status != "failed" && !verbose {
			continue
		}
		marker := fmt.Sprintf("[%s]", strings.ToUpper(result.Status))
		line := fmt.Sprintf("%-9s %s %s %q", marker, result.Definition, result.Kind, result.Name)
		if result.Error != "" {
			line += ": " + result.Error
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, summary)
	return err
}
