package common

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// PromptInput asks for one free-form value. With required set, empty input
// is rejected by the form and again after trimming.
func PromptInput(command *cobra.Command, prompt string, required bool) (string, error) {
	value := ""
	field := huh.NewInput().
		Title(normalizePrompt(prompt)).
		Value(&value)
	if required {
		field.Validate(huh.ValidateNotEmpty())
	}

	if err := runInteractiveField(command, field); err != nil {
		return "", err
	}

	value = strings.TrimSpace(value)
	if required && value == "" {
		return "", ValidationError("value is required", nil)
	}
	return value, nil
}

// PromptSelect asks the user to pick one of options; the first entry starts
// selected.
func PromptSelect(command *cobra.Command, prompt string, options []string) (string, error) {
	if len(options) == 0 {
		return "", ValidationError("no options available", nil)
	}

	selected := options[0]
	values := make([]huh.Option[string], 0, len(options))
	for _, option := range options {
		values = append(values, huh.NewOption(option, option))
	}

	field := huh.NewSelect[string]().
		Title(normalizePrompt(prompt)).
		Options(values...).
		Value(&selected)

	if err := runInteractiveField(command, field); err != nil {
		return "", err
	}
	return selected, nil
}

// PromptConfirm asks a yes/no question with defaultYes preselected.
func PromptConfirm(command *cobra.Command, prompt string, defaultYes bool) (bool, error) {
	value := defaultYes
	field := huh.NewConfirm().
		Title(normalizePrompt(prompt)).
		Value(&value)

	if err := runInteractiveField(command, field); err != nil {
		return false, err
	}
	return value, nil
}

// runInteractiveField drives a single-field form over the command's stdin
// and stdout. It refuses to run without an interactive terminal so piped
// invocations fail with a typed error instead of hanging on input.
func runInteractiveField(command *cobra.Command, field huh.Field) error {
	if !IsInteractiveTerminal(command) {
		return ValidationError("interactive terminal is required", nil)
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(command.InOrStdin()).
		WithOutput(command.OutOrStdout()).
		WithShowHelp(false)

	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ValidationError("interactive prompt interrupted", nil)
	}
	return err
}

func normalizePrompt(prompt string) string {
	title := strings.TrimSpace(prompt)
	title = strings.TrimSuffix(title, ":")
	if title == "" {
		return "Input"
	}
	return title
}
