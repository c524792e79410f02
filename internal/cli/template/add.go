package template

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/netforge-io/netforge/engine"
	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/netforge-io/netforge/schema"
	"github.com/spf13/cobra"
)

// attributeUsage maps payload fields onto flag help text. Fields missing
// here fall back to the field name with underscores spaced out.
var attributeUsage = map[string]string{
	"type":               "component type slug",
	"description":        "free-form description",
	"mgmt_only":          "management-only interface",
	"maximum_draw":       "maximum draw in watts",
	"allocated_draw":     "allocated draw in watts",
	"feed_leg":           "phase feed leg (A, B, or C)",
	"rear_port_position": "position on the mapped rear port",
	"positions":          "number of mapped rear port positions",
	"position":           "module bay position label",
	"power_port":         "name of the power port template feeding this outlet",
	"rear_port":          "name of the rear port template behind this front port",
}

func usageForField(field string) string {
	if usage, ok := attributeUsage[field]; ok {
		return usage
	}
	return strings.ReplaceAll(field, "_", " ")
}

// schemaFlags holds the flag storage for the union of every creatable
// kind's attributes and references. Which entries apply is decided per
// kind after parsing; values are read only for flags the user changed.
type schemaFlags struct {
	stringAttrs map[string]*string
	intAttrs    map[string]*int64
	boolAttrs   map[string]*bool
	references  map[string]*referenceFlag
}

// referenceFlag stores one reference value. The flag is named after the
// payload field; the request key is the schema's reference field.
type referenceFlag struct {
	flagName string
	value    string
}

func bindSchemaFlags(command *cobra.Command, registry *schema.Registry) *schemaFlags {
	flags := &schemaFlags{
		stringAttrs: make(map[string]*string),
		intAttrs:    make(map[string]*int64),
		boolAttrs:   make(map[string]*bool),
		references:  make(map[string]*referenceFlag),
	}

	for _, def := range registry.Definitions() {
		if !def.Creatable() {
			continue
		}
		for _, attr := range def.Attributes {
			flagName := flagNameForField(attr.Name)
			switch attr.Type {
			case schema.StringAttr:
				if _, bound := flags.stringAttrs[attr.Name]; bound {
					continue
				}
				value := new(string)
				command.Flags().StringVar(value, flagName, "", usageForField(attr.Name))
				flags.stringAttrs[attr.Name] = value
			case schema.IntAttr:
				if _, bound := flags.intAttrs[attr.Name]; bound {
					continue
				}
				value := new(int64)
				command.Flags().Int64Var(value, flagName, 0, usageForField(attr.Name))
				flags.intAttrs[attr.Name] = value
			case schema.BoolAttr:
				if _, bound := flags.boolAttrs[attr.Name]; bound {
					continue
				}
				value := new(bool)
				command.Flags().BoolVar(value, flagName, false, usageForField(attr.Name))
				flags.boolAttrs[attr.Name] = value
			}
		}
		for _, ref := range def.References {
			if _, bound := flags.references[ref.Field]; bound {
				continue
			}
			reference := &referenceFlag{flagName: flagNameForField(ref.PayloadAs)}
			command.Flags().StringVar(&reference.value, reference.flagName, "", usageForField(ref.PayloadAs))
			flags.references[ref.Field] = reference
		}
	}

	return flags
}

// validateKindFlags rejects changed flags the chosen kind does not declare.
func validateKindFlags(command *cobra.Command, def schema.Definition, flags *schemaFlags) error {
	allowed := make(map[string]bool, len(def.Attributes)+len(def.References))
	for _, attr := range def.Attributes {
		allowed[flagNameForField(attr.Name)] = true
	}
	for _, ref := range def.References {
		if reference, bound := flags.references[ref.Field]; bound {
			allowed[reference.flagName] = true
		}
	}

	var stray []string
	collect := func(flagName string) {
		if command.Flags().Changed(flagName) && !allowed[flagName] {
			stray = append(stray, "--"+flagName)
		}
	}
	for field := range flags.stringAttrs {
		collect(flagNameForField(field))
	}
	for field := range flags.intAttrs {
		collect(flagNameForField(field))
	}
	for field := range flags.boolAttrs {
		collect(flagNameForField(field))
	}
	for _, reference := range flags.references {
		collect(reference.flagName)
	}

	if len(stray) == 0 {
		return nil
	}
	sort.Strings(stray)
	if len(stray) == 1 {
		return common.ValidationError(
			fmt.Sprintf("flag %s does not apply to kind %s", stray[0], def.Kind), nil)
	}
	return common.ValidationError(
		fmt.Sprintf("flags %s do not apply to kind %s", strings.Join(stray, ", "), def.Kind), nil)
}

// collectAttributes gathers the attribute values the user set, keyed by
// payload field. Unchanged flags stay absent so schema defaults and
// required checks see them as not provided.
func collectAttributes(command *cobra.Command, flags *schemaFlags) map[string]any {
	attrs := make(map[string]any)
	for field, value := range flags.stringAttrs {
		if command.Flags().Changed(flagNameForField(field)) {
			attrs[field] = *value
		}
	}
	for field, value := range flags.intAttrs {
		if command.Flags().Changed(flagNameForField(field)) {
			attrs[field] = *value
		}
	}
	for field, value := range flags.boolAttrs {
		if command.Flags().Changed(flagNameForField(field)) {
			attrs[field] = *value
		}
	}
	return attrs
}

func collectReferences(command *cobra.Command, flags *schemaFlags) map[string]string {
	var refs map[string]string
	for field, reference := range flags.references {
		if !command.Flags().Changed(reference.flagName) {
			continue
		}
		if refs == nil {
			refs = make(map[string]string)
		}
		refs[field] = reference.value
	}
	return refs
}

func newAddCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var deviceType string
	var confirm bool
	var bound *schemaFlags

	command := &cobra.Command{
		Use:   "add <kind> <name>",
		Short: "Add a component template to a device type",
		Long: strings.Join([]string{
			"Add a component template under an existing device type.",
			"Without --confirm the command previews the create and writes nothing.",
			"Attribute flags map onto the chosen kind's payload fields; flags a kind does not declare are rejected.",
		}, " "),
		Example: strings.Join([]string{
			"  netforge template add interface-template eth0 --device-type C9300-48P --type 1000base-t",
			"  netforge template add rear-port-template rp1 --device-type PDU-2000 --type 8p8c --positions 4 --confirm",
			"  netforge template add front-port-template fp1 --device-type PDU-2000 --type 8p8c --rear-port rp1 --confirm",
		}, "\n"),
		Args: cobra.ExactArgs(2),
		RunE: func(command *cobra.Command, args []string) error {
			def, err := parseKindArg(deps, args[0])
			if err != nil {
				return err
			}

			name := strings.TrimSpace(args[1])
			if name == "" {
				return common.ValidationError("component name must not be empty", nil)
			}
			if strings.TrimSpace(deviceType) == "" {
				return common.ValidationError("flag --device-type is required", nil)
			}
			if err := validateKindFlags(command, def, bound); err != nil {
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

			request := engine.Request{
				Kind:       def.Kind,
				DeviceType: deviceType,
				Name:       name,
				Attributes: collectAttributes(command, bound),
				References: collectReferences(command, bound),
				Confirmed:  confirm,
			}

			outcome, err := engineService.Execute(command.Context(), request)
			if err != nil {
				return err
			}

			if outcome.CacheWarning != "" {
				fmt.Fprintf(command.ErrOrStderr(), "warning: %s\n", outcome.CacheWarning)
			}

			verbose := common.IsVerbose(globalFlags)
			return common.WriteOutput(command, outputFormat, newOutcomeView(outcome),
				func(w io.Writer, _ outcomeView) error {
					return renderOutcomeText(w, outcome, verbose)
				})
		},
	}

	command.Flags().StringVarP(&deviceType, "device-type", "t", "", "device type model the template belongs to")
	command.Flags().BoolVar(&confirm, "confirm", false, "apply the create instead of previewing it")
	bound = bindSchemaFlags(command, registryOrBuiltin(deps))
	registerKindArgCompletion(command, deps)

	return command
}

// outcomeView is the serializable form of an engine outcome.
type outcomeView struct {
	Status       string         `json:"status" yaml:"status"`
	Kind         string         `json:"kind" yaml:"kind"`
	DeviceType   string         `json:"device-type" yaml:"device-type"`
	Name         string         `json:"name" yaml:"name"`
	Preview      map[string]any `json:"preview,omitempty" yaml:"preview,omitempty"`
	ID           int64          `json:"id,omitempty" yaml:"id,omitempty"`
	Display      string         `json:"display,omitempty" yaml:"display,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	DurationMS   int64          `json:"duration-ms" yaml:"duration-ms"`
	CacheWarning string         `json:"cache-warning,omitempty" yaml:"cache-warning,omitempty"`
}

func newOutcomeView(outcome engine.Outcome) outcomeView {
	view := outcomeView{
		Status:       string(outcome.Status),
		Kind:         string(outcome.Kind),
		DeviceType:   outcome.DeviceType,
		Name:         outcome.Name,
		Preview:      outcome.Preview,
		DurationMS:   outcome.Duration.Milliseconds(),
		CacheWarning: outcome.CacheWarning,
	}
	if outcome.Created != nil {
		view.ID = outcome.Created.ID
		view.Display = outcome.Created.Display
		view.Attributes = outcome.Created.Attrs
	}
	return view
}

func renderOutcomeText(w io.Writer, outcome engine.Outcome, verbose bool) error {
	switch outcome.Status {
	case engine.StatusDryRun:
		if _, err := fmt.Fprintf(w, "dry-run: would create %s %q on device-type %q\n",
			outcome.Kind, outcome.Name, outcome.DeviceType); err != nil {
			return err
		}
		if err := renderPayloadFields(w, outcome.Preview); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "pass --confirm to apply")
		return err
	case engine.StatusCreated:
		id := int64(0)
		if outcome.Created != nil {
			id = outcome.Created.ID
		}
		if _, err := fmt.Fprintf(w, "created %s %q on device-type %q (id %d)\n",
			outcome.Kind, outcome.Name, outcome.DeviceType, id); err != nil {
			return err
		}
		if verbose && outcome.Created != nil {
			return renderPayloadFields(w, outcome.Created.Attrs)
		}
		return nil
	default:
		_, err := fmt.Fprintf(w, "%s %s %q on device-type %q\n",
			outcome.Status, outcome.Kind, outcome.Name, outcome.DeviceType)
		return err
	}
}

func renderPayloadFields(w io.Writer, payload map[string]any) error {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := fmt.Fprintf(w, "  %s: %v\n", key, payload[key]); err != nil {
			return err
		}
	}
	return nil
}
