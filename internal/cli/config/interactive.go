package config

import (
	"fmt"
	"strconv"
	"strings"

	configdomain "github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/internal/cli/common"
	"github.com/spf13/cobra"
)

const authSourceEnvironmentOption = "environment"

func resolveCreateContextInput(
	command *cobra.Command,
	input common.InputFlags,
	prompter configPrompter,
	contextName string,
) (configdomain.Context, error) {
	if shouldUseInteractiveCreate(command, input, prompter) {
		return promptCreateContext(command, prompter, contextName)
	}

	cfg, err := decodeContextStrict(command, input)
	if err != nil {
		return configdomain.Context{}, err
	}

	if strings.TrimSpace(contextName) != "" {
		cfg.Name = strings.TrimSpace(contextName)
	}

	return cfg, nil
}

func shouldUseInteractiveCreate(command *cobra.Command, input common.InputFlags, prompter configPrompter) bool {
	if input.Payload != "" {
		return false
	}
	if common.HasPipedInput(command) {
		return false
	}
	return prompter.IsInteractive(command)
}

func promptCreateContext(command *cobra.Command, prompter configPrompter, contextName string) (configdomain.Context, error) {
	name := strings.TrimSpace(contextName)
	if name == "" {
		var err error
		name, err = promptRequiredInput(command, prompter, "Context name: ", "context name")
		if err != nil {
			return configdomain.Context{}, err
		}
	}

	baseURL, err := promptRequiredInput(command, prompter, "NetBox base-url: ", "netbox base-url")
	if err != nil {
		return configdomain.Context{}, err
	}

	contextCfg := configdomain.Context{
		Name: name,
		NetBox: &configdomain.NetBox{
			BaseURL: baseURL,
		},
	}

	auth, err := promptNetBoxAuth(command, prompter)
	if err != nil {
		return configdomain.Context{}, err
	}
	contextCfg.NetBox.Auth = auth

	includeTLS, err := prompter.Confirm(command, "Configure NetBox TLS?", false)
	if err != nil {
		return configdomain.Context{}, err
	}
	if includeTLS {
		tls, tlsErr := promptTLS(command, prompter)
		if tlsErr != nil {
			return configdomain.Context{}, tlsErr
		}
		contextCfg.NetBox.TLS = tls
	}

	dryRun, err := prompter.Confirm(command, "Force dry-run mode for every mutation in this context?", false)
	if err != nil {
		return configdomain.Context{}, err
	}
	contextCfg.Safety.DryRunMode = dryRun

	includeLibrary, err := prompter.Confirm(command, "Configure device-type library checkout?", false)
	if err != nil {
		return configdomain.Context{}, err
	}
	if includeLibrary {
		library, libraryErr := promptLibrary(command, prompter)
		if libraryErr != nil {
			return configdomain.Context{}, libraryErr
		}
		contextCfg.Library = library
	}

	includeSecretStore, err := prompter.Confirm(command, "Configure secret-store?", false)
	if err != nil {
		return configdomain.Context{}, err
	}
	if includeSecretStore {
		secretStore, secretErr := promptSecretStore(command, prompter)
		if secretErr != nil {
			return configdomain.Context{}, secretErr
		}
		contextCfg.SecretStore = secretStore
	}

	return contextCfg, nil
}

func promptNetBoxAuth(command *cobra.Command, prompter configPrompter) (*configdomain.NetBoxAuth, error) {
	method, err := prompter.Select(
		command,
		"Select NetBox token source",
		[]string{"token", "token-file", "secret-ref", authSourceEnvironmentOption},
	)
	if err != nil {
		return nil, err
	}

	switch strings.TrimSpace(method) {
	case "token":
		token, inputErr := prompter.Token(command, "NetBox API token")
		if inputErr != nil {
			return nil, inputErr
		}
		if strings.TrimSpace(token) == "" {
			return nil, common.ValidationError("netbox api token must not be empty", nil)
		}
		return &configdomain.NetBoxAuth{Token: strings.TrimSpace(token)}, nil
	case "token-file":
		tokenFile, inputErr := promptRequiredInput(command, prompter, "NetBox token-file: ", "netbox token-file")
		if inputErr != nil {
			return nil, inputErr
		}
		return &configdomain.NetBoxAuth{TokenFile: tokenFile}, nil
	case "secret-ref":
		secretRef, inputErr := promptRequiredInput(command, prompter, "Secret reference name: ", "secret reference name")
		if inputErr != nil {
			return nil, inputErr
		}
		return &configdomain.NetBoxAuth{SecretRef: secretRef}, nil
	case authSourceEnvironmentOption:
		return nil, nil
	default:
		return nil, common.ValidationError("invalid netbox token source selected", nil)
	}
}

func promptLibrary(command *cobra.Command, prompter configPrompter) (*configdomain.Library, error) {
	repositoryURL, err := promptOptionalInput(
		command,
		prompter,
		fmt.Sprintf("Library repository-url (default %s): ", configdomain.DefaultLibraryRepositoryURL),
	)
	if err != nil {
		return nil, err
	}
	branch, err := promptOptionalInput(
		command,
		prompter,
		fmt.Sprintf("Library branch (default %s): ", configdomain.DefaultLibraryBranch),
	)
	if err != nil {
		return nil, err
	}
	baseDir, err := promptOptionalInput(
		command,
		prompter,
		fmt.Sprintf("Library base-dir (default %s): ", configdomain.DefaultLibraryBaseDir),
	)
	if err != nil {
		return nil, err
	}

	if repositoryURL == "" && branch == "" && baseDir == "" {
		return nil, nil
	}

	return &configdomain.Library{
		RepositoryURL: repositoryURL,
		Branch:        branch,
		BaseDir:       baseDir,
	}, nil
}

func promptSecretStore(command *cobra.Command, prompter configPrompter) (*configdomain.SecretStore, error) {
	path, err := promptRequiredInput(command, prompter, "Secret-store file path: ", "secret-store file path")
	if err != nil {
		return nil, err
	}

	passphraseSource, err := prompter.Select(
		command,
		"Select secret-store passphrase source",
		[]string{"passphrase", "passphrase-file"},
	)
	if err != nil {
		return nil, err
	}

	store := &configdomain.FileSecretStore{Path: path}
	switch strings.TrimSpace(passphraseSource) {
	case "passphrase":
		passphrase, inputErr := prompter.Token(command, "Secret-store passphrase")
		if inputErr != nil {
			return nil, inputErr
		}
		if strings.TrimSpace(passphrase) == "" {
			return nil, common.ValidationError("secret-store passphrase must not be empty", nil)
		}
		store.Passphrase = strings.TrimSpace(passphrase)
	case "passphrase-file":
		passphraseFile, inputErr := promptRequiredInput(
			command,
			prompter,
			"Secret-store passphrase-file: ",
			"secret-store passphrase-file",
		)
		if inputErr != nil {
			return nil, inputErr
		}
		store.PassphraseFile = passphraseFile
	default:
		return nil, common.ValidationError("invalid secret-store passphrase source selected", nil)
	}

	includeKDF, err := prompter.Confirm(command, "Configure secret-store KDF parameters?", false)
	if err != nil {
		return nil, err
	}
	if includeKDF {
		kdf, kdfErr := promptKDF(command, prompter)
		if kdfErr != nil {
			return nil, kdfErr
		}
		store.KDF = kdf
	}

	return &configdomain.SecretStore{File: store}, nil
}

func promptKDF(command *cobra.Command, prompter configPrompter) (*configdomain.KDF, error) {
	timeValue, hasTime, err := promptOptionalInt(command, prompter, "KDF time (optional integer): ", "kdf time")
	if err != nil {
		return nil, err
	}
	memoryValue, hasMemory, err := promptOptionalInt(command, prompter, "KDF memory (optional integer): ", "kdf memory")
	if err != nil {
		return nil, err
	}
	threadValue, hasThreads, err := promptOptionalInt(command, prompter, "KDF threads (optional integer): ", "kdf threads")
	if err != nil {
		return nil, err
	}

	if !hasTime && !hasMemory && !hasThreads {
		return nil, nil
	}

	kdf := &configdomain.KDF{}
	if hasTime {
		kdf.Time = timeValue
	}
	if hasMemory {
		kdf.Memory = memoryValue
	}
	if hasThreads {
		kdf.Threads = threadValue
	}

	return kdf, nil
}

func promptTLS(command *cobra.Command, prompter configPrompter) (*configdomain.TLS, error) {
	caCertFile, err := promptOptionalInput(command, prompter, "TLS ca-cert-file (optional): ")
	if err != nil {
		return nil, err
	}
	clientCertFile, err := promptOptionalInput(command, prompter, "TLS client-cert-file (optional): ")
	if err != nil {
		return nil, err
	}
	clientKeyFile, err := promptOptionalInput(command, prompter, "TLS client-key-file (optional): ")
	if err != nil {
		return nil, err
	}
	insecureSkipVerify, err := prompter.Confirm(command, "TLS insecure-skip-verify?", false)
	if err != nil {
		return nil, err
	}

	if caCertFile == "" && clientCertFile == "" && clientKeyFile == "" && !insecureSkipVerify {
		return nil, nil
	}

	return &configdomain.TLS{
		CACertFile:         caCertFile,
		ClientCertFile:     clientCertFile,
		ClientKeyFile:      clientKeyFile,
		InsecureSkipVerify: insecureSkipVerify,
	}, nil
}

func promptRequiredInput(
	command *cobra.Command,
	prompter configPrompter,
	prompt string,
	field string,
) (string, error) {
	value, err := prompter.Input(command, prompt, true)
	if err != nil {
		return "", err
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", common.ValidationError(fmt.Sprintf("%s must not be empty", field), nil)
	}
	return trimmed, nil
}

func promptOptionalInput(command *cobra.Command, prompter configPrompter, prompt string) (string, error) {
	value, err := prompter.Input(command, prompt, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptOptionalInt(
	command *cobra.Command,
	prompter configPrompter,
	prompt string,
	field string,
) (int, bool, error) {
	value, err := promptOptionalInput(command, prompter, prompt)
	if err != nil {
		return 0, false, err
	}
	if value == "" {
		return 0, false, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, common.ValidationError(fmt.Sprintf("invalid integer value for %s", field), err)
	}
	return parsed, true, nil
}

func selectContextForAction(
	command *cobra.Command,
	contexts configdomain.ContextService,
	prompter configPrompter,
	actionLabel string,
) (string, error) {
	items, err := contexts.List(command.Context())
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", common.ValidationError("no contexts available", nil)
	}
	if !prompter.IsInteractive(command) {
		return "", common.ValidationError(fmt.Sprintf("context name is required: netforge config %s <name>", actionLabel), nil)
	}

	options := make([]string, 0, len(items))
	for _, item := range items {
		options = append(options, item.Name)
	}
	return prompter.Select(command, "Choose context", options)
}
