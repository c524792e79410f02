package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	configdomain "github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return newCommandWithPrompter(deps, globalFlags, terminalPrompter{})
}

func newCommandWithPrompter(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	prompter configPrompter,
) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Manage contexts",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newPrintTemplateCommand(),
		newSetupCommand(deps, globalFlags, prompter),
		newEditCommand(deps, globalFlags),
		newUpdateCommand(deps),
		newDeleteCommand(deps, prompter),
		newRenameCommand(deps, prompter),
		newListCommand(deps, globalFlags),
		newUseContextCommand(deps, prompter),
		newViewCommand(deps, globalFlags, prompter),
		newCurrentCommand(deps, globalFlags),
		newResolveCommand(deps, globalFlags),
		newCheckCommand(deps, globalFlags),
		newValidateCommand(deps),
	)

	return command
}

func newPrintTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print-template",
		Short: "Print a full context YAML template with guidance comments",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			_, err := io.WriteString(command.OutOrStdout(), contextTemplateYAML)
			return err
		},
	}
}

type setupContextSelection struct {
	Contexts   []configdomain.Context
	CurrentCtx string
}

func newSetupCommand(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	prompter configPrompter,
) *cobra.Command {
	var input common.InputFlags
	var contextName string
	var setCurrent bool

	command := &cobra.Command{
		Use:     "setup [new-context-name]",
		Aliases: []string{"add"},
		Short:   "Create contexts from input or interactively",
		Example: strings.Join([]string{
			"  netforge config setup",
			"  netforge config setup lab",
			"  netforge config setup --payload context.yaml",
			"  cat contexts.yaml | netforge config setup --set-current",
		}, "\n"),
		Args: cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			contextArgName, err := resolveCreateContextName(args, selectedContextName(globalFlags))
			if err != nil {
				return err
			}

			effectiveImportContextName := strings.TrimSpace(contextName)
			if effectiveImportContextName != "" && contextArgName != "" && effectiveImportContextName != contextArgName {
				return common.ValidationError(
					fmt.Sprintf(
						"context name conflict: positional/--context %q differs from --context-name %q",
						contextArgName,
						effectiveImportContextName,
					),
					nil,
				)
			}
			if effectiveImportContextName == "" {
				effectiveImportContextName = contextArgName
			}

			if shouldUseInteractiveCreate(command, input, prompter) {
				cfg, err := resolveCreateContextInput(command, input, prompter, effectiveImportContextName)
				if err != nil {
					return err
				}
				if err := contexts.Create(command.Context(), cfg); err != nil {
					return err
				}
				writeSecretRefGuidance(command, cfg)
				if setCurrent {
					return contexts.SetCurrent(command.Context(), cfg.Name)
				}
				return nil
			}

			decoded, err := decodeContextImportInputStrict(command, input)
			if err != nil {
				return err
			}

			selection, err := selectContextsForSetup(decoded, effectiveImportContextName)
			if err != nil {
				return err
			}

			currentName := ""
			if setCurrent {
				currentName, err = resolveSetCurrentContext(selection)
				if err != nil {
					return err
				}
			}

			if err := validateSetupTargets(command, contexts, selection.Contexts); err != nil {
				return err
			}

			for _, cfg := range selection.Contexts {
				if err := contexts.Create(command.Context(), cfg); err != nil {
					return err
				}
			}

			if !setCurrent {
				return nil
			}

			return contexts.SetCurrent(command.Context(), currentName)
		},
	}

	common.BindInputFlags(command, &input)
	command.Flags().StringVar(&contextName, "context-name", "", "context name to import (catalog) or assign (single context)")
	command.Flags().BoolVar(&setCurrent, "set-current", false, "set created context as current")
	return command
}

func writeSecretRefGuidance(command *cobra.Command, cfg configdomain.Context) {
	if cfg.NetBox == nil || cfg.NetBox.Auth == nil {
		return
	}
	secretRef := strings.TrimSpace(cfg.NetBox.Auth.SecretRef)
	if secretRef == "" {
		return
	}
	fmt.Fprintf(
		command.ErrOrStderr(),
		"Token not stored yet. Run: netforge --context %s secret set %s\n",
		cfg.Name,
		secretRef,
	)
}

func selectContextsForSetup(input contextImportInput, contextName string) (setupContextSelection, error) {
	trimmedContextName := strings.TrimSpace(contextName)
	switch input.Kind {
	case contextImportInputContext:
		cfg := input.Context
		if trimmedContextName != "" {
			cfg.Name = trimmedContextName
		}
		return setupContextSelection{
			Contexts: []configdomain.Context{cfg},
		}, nil
	case contextImportInputCatalog:
		if len(input.Catalog.Contexts) == 0 {
			return setupContextSelection{}, common.ValidationError("input context catalog has no contexts", nil)
		}

		if trimmedContextName == "" {
			contexts := make([]configdomain.Context, len(input.Catalog.Contexts))
			copy(contexts, input.Catalog.Contexts)
			return setupContextSelection{
				Contexts:   contexts,
				CurrentCtx: strings.TrimSpace(input.Catalog.CurrentCtx),
			}, nil
		}

		for _, item := range input.Catalog.Contexts {
			if item.Name == trimmedContextName {
				return setupContextSelection{
					Contexts: []configdomain.Context{item},
				}, nil
			}
		}

		return setupContextSelection{}, common.ValidationError(
			fmt.Sprintf("context %q not found in input catalog", trimmedContextName),
			nil,
		)
	default:
		return setupContextSelection{}, common.ValidationError("unsupported config input shape", nil)
	}
}

func resolveSetCurrentContext(selection setupContextSelection) (string, error) {
	if len(selection.Contexts) == 1 {
		return selection.Contexts[0].Name, nil
	}

	if selection.CurrentCtx != "" {
		for _, item := range selection.Contexts {
			if item.Name == selection.CurrentCtx {
				return selection.CurrentCtx, nil
			}
		}
		return "", common.ValidationError(
			fmt.Sprintf("input current-ctx %q is not present in imported contexts", selection.CurrentCtx),
			nil,
		)
	}

	return "", common.ValidationError(
		"set-current requires a single imported context or a catalog current-ctx value",
		nil,
	)
}

func resolveCreateContextName(args []string, contextFlagName string) (string, error) {
	positionalName := ""
	if len(args) > 0 {
		positionalName = strings.TrimSpace(args[0])
	}

	flagName := strings.TrimSpace(contextFlagName)
	if positionalName != "" && flagName != "" && positionalName != flagName {
		return "", common.ValidationError(
			fmt.Sprintf("context name conflict: positional %q differs from --context %q", positionalName, flagName),
			nil,
		)
	}

	if positionalName != "" {
		return positionalName, nil
	}
	return flagName, nil
}

func validateSetupTargets(command *cobra.Command, contexts configdomain.ContextService, items []configdomain.Context) error {
	if len(items) == 0 {
		return common.ValidationError("no contexts found in input", nil)
	}

	existing, err := contexts.List(command.Context())
	if err != nil {
		return err
	}

	existingNames := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		existingNames[item.Name] = struct{}{}
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return common.ValidationError("context name is required", nil)
		}
		if _, duplicated := seen[name]; duplicated {
			return common.ValidationError(fmt.Sprintf("input contains duplicate context %q", name), nil)
		}
		if _, exists := existingNames[name]; exists {
			return common.ValidationError(fmt.Sprintf("context %q already exists", name), nil)
		}
		seen[name] = struct{}{}
	}

	return nil
}

func newUpdateCommand(deps common.CommandDependencies) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "update",
		Short: "Update a context from input",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			cfg, err := decodeContextStrict(command, input)
			if err != nil {
				return err
			}
			return contexts.Update(command.Context(), cfg)
		},
	}

	common.BindInputFlags(command, &input)
	return command
}

func newDeleteCommand(deps common.CommandDependencies, prompter configPrompter) *cobra.Command {
	command := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a context (interactive when name is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			} else {
				selected, err := selectContextForAction(command, contexts, prompter, "delete")
				if err != nil {
					return err
				}
				confirmed, err := prompter.Confirm(command, fmt.Sprintf("Delete context %q?", selected), false)
				if err != nil {
					return err
				}
				if !confirmed {
					return common.WriteText(command, common.OutputText, "delete canceled")
				}
				name = selected
			}
			return contexts.Delete(command.Context(), name)
		},
	}
	registerSingleContextArgCompletion(command, deps)
	return command
}

func newRenameCommand(deps common.CommandDependencies, prompter configPrompter) *cobra.Command {
	command := &cobra.Command{
		Use:   "rename [from] [to]",
		Short: "Rename a context (interactive when args are omitted)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			fromName := ""
			toName := ""
			switch len(args) {
			case 2:
				fromName = args[0]
				toName = args[1]
			case 1:
				fromName = args[0]
				if !prompter.IsInteractive(command) {
					return common.ValidationError("new context name is required", nil)
				}
				toName, err = prompter.Input(command, "New context name: ", true)
				if err != nil {
					return err
				}
			default:
				fromName, err = selectContextForAction(command, contexts, prompter, "rename")
				if err != nil {
					return err
				}
				toName, err = prompter.Input(command, "New context name: ", true)
				if err != nil {
					return err
				}
			}

			return contexts.Rename(command.Context(), fromName, toName)
		},
	}
	registerRenameFromArgCompletion(command, deps)
	return command
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			items, err := contexts.List(command.Context())
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, items, func(w io.Writer, value []configdomain.Context) error {
				for _, item := range value {
					if _, writeErr := fmt.Fprintln(w, item.Name); writeErr != nil {
						return writeErr
					}
				}
				return nil
			})
		},
	}
}

func newUseContextCommand(deps common.CommandDependencies, prompter configPrompter) *cobra.Command {
	command := &cobra.Command{
		Use:     "use-context [name]",
		Aliases: []string{"use"},
		Short:   "Set current context (interactive when name is omitted)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			} else {
				name, err = selectContextForAction(command, contexts, prompter, "use-context")
				if err != nil {
					return err
				}
			}
			return contexts.SetCurrent(command.Context(), name)
		},
	}
	registerSingleContextArgCompletion(command, deps)
	return command
}

func newViewCommand(
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	prompter configPrompter,
) *cobra.Command {
	return &cobra.Command{
		Use:     "view",
		Aliases: []string{"show"},
		Short:   "View a context from --context or interactive selection",
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if globalFlags != nil {
				name = strings.TrimSpace(globalFlags.Context)
			}
			if name == "" {
				name, err = selectContextForAction(command, contexts, prompter, "view --context")
				if err != nil {
					return err
				}
			}

			viewed, err := contexts.ResolveContext(command.Context(), configdomain.ContextSelection{Name: name})
			if err != nil {
				return err
			}

			return common.WriteOutput(command, common.OutputYAML, viewed, nil)
		},
	}
}

func newCurrentCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Get current context",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			current, err := contexts.GetCurrent(command.Context())
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.Output, current, func(w io.Writer, value configdomain.Context) error {
				_, writeErr := fmt.Fprintln(w, value.Name)
				return writeErr
			})
		},
	}
}

func newResolveCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var overrides []string

	command := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve active context with overrides",
		Example: strings.Join([]string{
			"  netforge config resolve",
			"  netforge config resolve --context prod",
			"  netforge config resolve --set netbox.base-url=https://netbox.example.com",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			overridesMap, err := parseOverrides(overrides)
			if err != nil {
				return err
			}

			resolved, err := contexts.ResolveContext(command.Context(), configdomain.ContextSelection{
				Name:      globalFlags.Context,
				Overrides: overridesMap,
			})
			if err != nil {
				return err
			}

			return common.WriteOutput(command, globalFlags.Output, resolved, func(w io.Writer, value configdomain.Context) error {
				_, writeErr := fmt.Fprintln(w, value.Name)
				return writeErr
			})
		},
	}

	command.Flags().StringArrayVarP(&overrides, "set", "e", nil, "override key=value (repeatable)")
	return command
}

func newValidateCommand(deps common.CommandDependencies) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "validate",
		Short: "Validate a context from input",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			cfg, err := decodeContextStrict(command, input)
			if err != nil {
				return err
			}
			return contexts.Validate(command.Context(), cfg)
		},
	}

	common.BindInputFlags(command, &input)
	return command
}

func newCheckCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check configured component availability and connectivity",
		Example: strings.Join([]string{
			"  netforge config check",
			"  netforge --context prod config check --output json",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			resolvedContext, err := contexts.ResolveContext(command.Context(), configdomain.ContextSelection{
				Name: selectedContextName(globalFlags),
			})
			if err != nil {
				return err
			}

			report := runConfigCheck(command, deps, resolvedContext)
			if err := common.WriteOutput(command, selectedOutputFormat(globalFlags), report, renderConfigCheckText); err != nil {
				return err
			}

			if report.Summary.Fail > 0 {
				return common.ValidationError(
					fmt.Sprintf("config check failed for context %q: %d component(s) unavailable", report.Context, report.Summary.Fail),
					nil,
				)
			}
			return nil
		},
	}
}

type configCheckStatus string

const (
	configCheckOK   configCheckStatus = "ok"
	configCheckWarn configCheckStatus = "warn"
	configCheckFail configCheckStatus = "fail"
	configCheckSkip configCheckStatus = "skip"
)

type configCheckResult struct {
	Component string            `json:"component" yaml:"component"`
	Status    configCheckStatus `json:"status" yaml:"status"`
	Details   string            `json:"details,omitempty" yaml:"details,omitempty"`
	Error     string            `json:"error,omitempty" yaml:"error,omitempty"`
}

type configCheckSummary struct {
	OK   int `json:"ok" yaml:"ok"`
	Warn int `json:"warn" yaml:"warn"`
	Fail int `json:"fail" yaml:"fail"`
	Skip int `json:"skip" yaml:"skip"`
}

type configCheckReport struct {
	Context    string              `json:"context" yaml:"context"`
	Passed     bool                `json:"passed" yaml:"passed"`
	Summary    configCheckSummary  `json:"summary" yaml:"summary"`
	Components []configCheckResult `json:"components" yaml:"components"`
}

func runConfigCheck(command *cobra.Command, deps common.CommandDependencies, cfg configdomain.Context) configCheckReport {
	items := []configCheckResult{
		{
			Component: "context",
			Status:    configCheckOK,
			Details:   "context resolved successfully",
		},
		checkNetBox(command, deps),
		checkAuth(cfg),
		checkLibrary(cfg),
		checkSecretStore(command, deps, cfg),
	}

	summary := configCheckSummary{}
	for _, item := range items {
		switch item.Status {
		case configCheckOK:
			summary.OK++
		case configCheckWarn:
			summary.Warn++
		case configCheckFail:
			summary.Fail++
		case configCheckSkip:
			summary.Skip++
		}
	}

	return configCheckReport{
		Context:    cfg.Name,
		Passed:     summary.Fail == 0,
		Summary:    summary,
		Components: items,
	}
}

func checkNetBox(command *cobra.Command, deps common.CommandDependencies) configCheckResult {
	result := configCheckResult{
		Component: "netbox",
	}

	client, err := common.RequireClient(deps)
	if err != nil {
		result.Status = configCheckFail
		result.Error = err.Error()
		return result
	}

	status, err := client.Status(command.Context())
	if err == nil {
		result.Status = configCheckOK
		result.Details = fmt.Sprintf("netbox %s reachable (%s)", status.Version, status.ResponseTime)
		return result
	}

	switch typedCategory(err) {
	case faults.AuthError:
		result.Status = configCheckWarn
		result.Details = "probe reached server but authentication failed"
		result.Error = err.Error()
		return result
	default:
		result.Status = configCheckFail
		result.Error = err.Error()
		return result
	}
}

func checkAuth(cfg configdomain.Context) configCheckResult {
	result := configCheckResult{
		Component: "auth",
	}

	if cfg.NetBox == nil {
		result.Status = configCheckFail
		result.Error = "netbox configuration is missing"
		return result
	}

	if cfg.NetBox.Auth != nil {
		switch {
		case strings.TrimSpace(cfg.NetBox.Auth.Token) != "":
			result.Status = configCheckOK
			result.Details = "token source: inline token"
			return result
		case strings.TrimSpace(cfg.NetBox.Auth.TokenFile) != "":
			result.Status = configCheckOK
			result.Details = fmt.Sprintf("token source: token-file %s", cfg.NetBox.Auth.TokenFile)
			return result
		case strings.TrimSpace(cfg.NetBox.Auth.SecretRef) != "":
			result.Status = configCheckOK
			result.Details = fmt.Sprintf("token source: secret-ref %s", cfg.NetBox.Auth.SecretRef)
			return result
		}
	}

	if strings.TrimSpace(os.Getenv(configdomain.NetBoxTokenEnvVar)) != "" {
		result.Status = configCheckOK
		result.Details = fmt.Sprintf("token source: %s environment variable", configdomain.NetBoxTokenEnvVar)
		return result
	}

	result.Status = configCheckWarn
	result.Details = "no token source configured; API requests will be unauthenticated"
	return result
}

func checkLibrary(cfg configdomain.Context) configCheckResult {
	result := configCheckResult{
		Component: "library",
	}

	library := configdomain.Library{}
	if cfg.Library != nil {
		library = *cfg.Library
	}

	baseDir := library.BaseDirOrDefault()
	if strings.HasPrefix(baseDir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			result.Status = configCheckFail
			result.Error = fmt.Sprintf("library base-dir check failed: %v", err)
			return result
		}
		baseDir = filepath.Join(home, strings.TrimPrefix(baseDir, "~"))
	}

	info, err := os.Stat(baseDir)
	if err != nil {
		result.Status = configCheckWarn
		result.Details = "library checkout missing; run netforge library sync"
		result.Error = err.Error()
		return result
	}
	if !info.IsDir() {
		result.Status = configCheckFail
		result.Error = "library base-dir is not a directory"
		return result
	}

	result.Status = configCheckOK
	result.Details = fmt.Sprintf("library checkout present (%s)", baseDir)
	return result
}

func checkSecretStore(command *cobra.Command, deps common.CommandDependencies, cfg configdomain.Context) configCheckResult {
	result := configCheckResult{
		Component: "secret-store",
	}

	if cfg.SecretStore == nil {
		result.Status = configCheckSkip
		result.Details = "not configured"
		return result
	}

	tokenStore, err := common.RequireTokenStore(deps)
	if err != nil {
		result.Status = configCheckFail
		result.Error = err.Error()
		return result
	}

	keys, err := tokenStore.List(command.Context())
	if err != nil {
		result.Status = configCheckFail
		result.Error = err.Error()
		return result
	}

	result.Status = configCheckOK
	result.Details = fmt.Sprintf("secret store is accessible (keys=%d)", len(keys))
	return result
}

func renderConfigCheckText(writer io.Writer, report configCheckReport) error {
	if _, err := fmt.Fprintf(writer, "Config check for context %q\n", report.Context); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(writer, strings.Repeat("-", 80)); err != nil {
		return err
	}

	for _, item := range report.Components {
		line := fmt.Sprintf("[%s] %-14s %s", strings.ToUpper(string(item.Status)), item.Component, item.Details)
		if strings.TrimSpace(item.Details) == "" {
			line = fmt.Sprintf("[%s] %-14s", strings.ToUpper(string(item.Status)), item.Component)
		}
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
		if strings.TrimSpace(item.Error) != "" {
			if _, err := fmt.Fprintf(writer, "       %-14s %s\n", "error:", item.Error); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintln(writer, strings.Repeat("-", 80)); err != nil {
		return err
	}

	state := "PASS"
	if !report.Passed {
		state = "FAIL"
	}

	_, err := fmt.Fprintf(
		writer,
		"Result: %s (ok=%d warn=%d fail=%d skip=%d)\n",
		state,
		report.Summary.OK,
		report.Summary.Warn,
		report.Summary.Fail,
		report.Summary.Skip,
	)
	return err
}

func selectedContextName(globalFlags *common.GlobalFlags) string {
	if globalFlags == nil {
		return ""
	}
	return strings.TrimSpace(globalFlags.Context)
}

func selectedOutputFormat(globalFlags *common.GlobalFlags) string {
	if globalFlags == nil || strings.TrimSpace(globalFlags.Output) == "" {
		return common.OutputAuto
	}
	return globalFlags.Output
}

func typedCategory(err error) faults.ErrorCategory {
	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		return ""
	}
	return typedErr.Category
}

func parseOverrides(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	parsed := make(map[string]string, len(values))
	for _, value := range values {
		parts := strings.SplitN(value, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, common.ValidationError("invalid override: expected key=value", nil)
		}
		parsed[strings.TrimSpace(parts[0])] = parts[1]
	}

	return parsed, nil
}
