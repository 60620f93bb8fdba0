package report

import "github.com/temirov/overseer/internal/contracts"

const decisionExcerptSizeKeyConstant = ".decision_excerpt_size"

// CommandConfiguration captures persistent settings for the report command.
type CommandConfiguration struct {
	DecisionExcerptSize int `mapstructure:"decision_excerpt_size"`
}

// DefaultCommandConfiguration returns baseline configuration values for the report command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{DecisionExcerptSize: contracts.DecisionExcerptSize}
}

// DefaultConfigurationValues exposes the report defaults keyed for Viper under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + decisionExcerptSizeKeyConstant: contracts.DecisionExcerptSize,
	}
}

// Sanitize replaces a non-positive excerpt size with the default.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	if sanitized.DecisionExcerptSize <= 0 {
		sanitized.DecisionExcerptSize = contracts.DecisionExcerptSize
	}
	return sanitized
}
