package template

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/netforge-io/netforge/netbox"
)

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var deviceType string
	var fresh bool
	var jqExpression string

	command := &cobra.Command{
		Use:   "list <kind>",
		Short: "List component templates of a device type",
		Long: strings.Join([]string{
			"List the component templates of one kind attached to a device type.",
			"Reads may be served from the client cache; --fresh forces them past it.",
			"With --jq the raw records are piped through a jq expression before output.",
		}, " "),
		Example: strings.Join([]string{
			"  netforge template list interface-template --device-type C9300-48P",
			"  netforge template list power-outlet-template --device-type PDU-2000 --fresh",
			"  netforge template list interface-template --device-type C9300-48P --jq '.[] | .name'",
		}, "\n"),
		Args: cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			def, err := parseKindArg(deps, args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(deviceType) == "" {
				return common.ValidationError("flag --device-type is required", nil)
			}

			client, err := common.RequireClient(deps)
			if err != nil {
				return err
			}
			registry, err := common.RequireSchemas(deps)
			if err != nil {
				return err
			}
			parentDef, err := registry.Lookup(def.ParentKind)
			if err != nil {
				return err
			}

			outputFormat := selectedOutputFormat(globalFlags)
			if err := common.ValidateOutputFormatForCommandPath(command.CommandPath(), outputFormat); err != nil {
				return err
			}

			runCtx := command.Context()
			parents, err := client.Filter(runCtx, parentDef.Kind, netbox.Query{
				Params: map[string]string{parentDef.NaturalKey: deviceType},
			})
			if err != nil {
				return err
			}
			if len(parents) == 0 {
				return faults.NotFound(fmt.Sprintf("%s %q not found", parentDef.Kind, deviceType), nil)
			}

			items, err := client.Filter(runCtx, def.Kind, netbox.Query{
				Params: map[string]string{def.ParentQuery: strconv.FormatInt(parents[0].ID, 10)},
				Fresh:  fresh,
			})
			if err != nil {
				return err
			}

			payloads := make([]map[string]any, 0, len(items))
			for _, item := range items {
				payloads = append(payloads, item.Attrs)
			}

			if strings.TrimSpace(jqExpression) != "" {
				results, err := applyJQFilter(runCtx, jqExpression, payloads)
				if err != nil {
					return err
				}
				return common.WriteOutput(command, outputFormat, results, renderJQText)
			}

			return common.WriteOutput(command, outputFormat, payloads, func(w io.Writer, _ []map[string]any) error {
				return renderTemplateListText(w, items)
			})
		},
	}

	command.Flags().StringVarP(&deviceType, "device-type", "t", "", "device type model to list templates of")
	command.Flags().BoolVar(&fresh, "fresh", false, "bypass cached reads")
	command.Flags().StringVar(&jqExpression, "jq", "", "jq expression applied to the record list")
	registerKindArgCompletion(command, deps)

	return command
}

func renderTemplateListText(w io.Writer, items []netbox.Object) error {
	for _, item := range items {
		name := item.Name()
		if name == "" {
			name = item.Display
		}
		if _, err := fmt.Fprintf(w, "%s (id %d)\n", name, item.ID); err != nil {
			return err
		}
	}
	return nil
}

// applyJQFilter runs the expression over the whole record list, so
// expressions address records as elements of the input array.
func applyJQFilter(ctx context.Context, expression string, payloads []map[string]any) ([]any, error) {
	query, err := gojq.Parse(strings.TrimSpace(expression))
	if err != nil {
		return nil, common.ValidationError("invalid jq expression", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, common.ValidationError("invalid jq expression", err)
	}

	input := make([]any, 0, len(payloads))
	for _, payload := range payloads {
		input = append(input, payload)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	iterator := code.RunWithContext(ctx, input)
	results := make([]any, 0, len(input))
	for {
		value, ok := iterator.Next()
		if !ok {
			break
		}
		if evalErr, isErr := value.(error); isErr {
			return nil, common.ValidationError("failed to evaluate jq expression", evalErr)
		}
		results = append(results, value)
	}
	return results, nil
}

// renderJQText prints one jq result per line: strings as-is, everything
// else as compact JSON, matching how jq itself renders to a terminal.
func renderJQText(w io.Writer, results []any) error {
	for _, result := range results {
		if text, isString := result.(string); isString {
			if _, err := fmt.Fprintln(w, text); err != nil {
				return err
			}
			continue
		}
		encoded, err := json.Marshal(result)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(encoded)); err != nil {
			return err
		}
	}
	return nil
}
