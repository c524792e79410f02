package commandmeta

import "strings"

type OutputPolicy uint8

const (
	OutputPolicyStructured OutputPolicy = iota
	OutputPolicyTextOnly
	OutputPolicyYAMLDefaultTextOrYAML
)

func RequiresContextBootstrapPath(commandPath string) bool {
	normalized := strings.TrimSpace(commandPath)
	switch {
	case normalized == "netforge config check":
		return true
	case normalized == "netforge status":
		return true
	case strings.HasPrefix(normalized, "netforge template "):
		return true
	case strings.HasPrefix(normalized, "netforge library "):
		return true
	case strings.HasPrefix(normalized, "netforge secret "):
		return true
	}

	return false
}

func EmitsExecutionStatusPath(path string) bool {
	switch strings.TrimSpace(path) {
	case "netforge template add",
		"netforge library sync",
		"netforge library apply":
		return true
	default:
		return false
	}
}

func OutputPolicyForPath(path string) OutputPolicy {
	switch strings.TrimSpace(path) {
	case "netforge config view":
		return OutputPolicyYAMLDefaultTextOrYAML
	case "netforge config print-template",
		"netforge secret get",
		"netforge completion bash",
		"netforge completion zsh",
		"netforge completion fish",
		"netforge completion powershell":
		return OutputPolicyTextOnly
	default:
		return OutputPolicyStructured
	}
}
