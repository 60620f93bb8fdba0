package audit

import "strings"

const (
	interventionThresholdKeyConstant = ".intervention_threshold"
	loopThresholdKeyConstant         = ".loop_threshold"
	oversightAgentsKeyConstant       = ".oversight_agents"
)

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	InterventionThreshold int      `mapstructure:"intervention_threshold"`
	LoopThreshold         int      `mapstructure:"loop_threshold"`
	OversightAgents       []string `mapstructure:"oversight_agents"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		InterventionThreshold: DefaultInterventionThreshold,
		LoopThreshold:         DefaultLoopThreshold,
		OversightAgents:       DefaultOversightAgents(),
	}
}

// DefaultConfigurationValues exposes the audit defaults keyed for Viper under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + interventionThresholdKeyConstant: defaults.InterventionThreshold,
		prefix + loopThresholdKeyConstant:         defaults.LoopThreshold,
		prefix + oversightAgentsKeyConstant:       defaults.OversightAgents,
	}
}

// Sanitize trims agent names and replaces negative thresholds or an empty agent list with defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	if sanitized.InterventionThreshold < 0 {
		sanitized.InterventionThreshold = defaults.InterventionThreshold
	}
	if sanitized.LoopThreshold < 0 {
		sanitized.LoopThreshold = defaults.LoopThreshold
	}

	sanitized.OversightAgents = sanitizeAgents(configuration.OversightAgents)
	if len(sanitized.OversightAgents) == 0 {
		sanitized.OversightAgents = defaults.OversightAgents
	}
	return sanitized
}

// Auditor builds an Auditor from the configuration.
func (configuration CommandConfiguration) Auditor() Auditor {
	sanitized := configuration.Sanitize()
	return Auditor{
		InterventionThreshold: sanitized.InterventionThreshold,
		LoopThreshold:         sanitized.LoopThreshold,
		OversightAgents:       sanitized.OversightAgents,
	}
}

func sanitizeAgents(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for index := range raw {
		trimmed := strings.TrimSpace(raw[index])
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
