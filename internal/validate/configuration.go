package validate

import (
	"path/filepath"
	"strings"
)

const (
	defaultWorkflowStateDataFileConstant   = "workflow-state.json"
	defaultWorkflowStateSchemaFileConstant = "workflow_state_v2.schema.json"
)

// SchemaBinding pairs a control file with the schema document it must satisfy.
type SchemaBinding struct {
	DataFile   string `mapstructure:"data_file"`
	SchemaFile string `mapstructure:"schema_file"`
}

// CommandConfiguration captures persistent settings for the validate command.
type CommandConfiguration struct {
	SchemaBindings []SchemaBinding `mapstructure:"schema_bindings"`
}

// DefaultSchemaBindings returns the bindings every project is validated against.
func DefaultSchemaBindings() []SchemaBinding {
	return []SchemaBinding{
		{DataFile: defaultWorkflowStateDataFileConstant, SchemaFile: defaultWorkflowStateSchemaFileConstant},
	}
}

// DefaultCommandConfiguration returns baseline configuration values for the validate command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// Sanitize drops incomplete bindings and trims file names.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := CommandConfiguration{}
	for _, binding := range configuration.SchemaBindings {
		dataFile := strings.TrimSpace(binding.DataFile)
		schemaFile := strings.TrimSpace(binding.SchemaFile)
		if len(dataFile) == 0 || len(schemaFile) == 0 {
			continue
		}
		sanitized.SchemaBindings = append(sanitized.SchemaBindings, SchemaBinding{
			DataFile:   filepath.Clean(dataFile),
			SchemaFile: filepath.Clean(schemaFile),
		})
	}
	return sanitized
}

// Bindings returns the default bindings followed by configured extras, without duplicates.
func (configuration CommandConfiguration) Bindings() []SchemaBinding {
	bindings := DefaultSchemaBindings()
	seen := map[SchemaBinding]struct{}{}
	for _, binding := range bindings {
		seen[binding] = struct{}{}
	}
	for _, binding := range configuration.Sanitize().SchemaBindings {
		if _, duplicate := seen[binding]; duplicate {
			continue
		}
		seen[binding] = struct{}{}
		bindings = append(bindings, binding)
	}
	return bindings
}
