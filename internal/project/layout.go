package project

import "path/filepath"

const (
	controlDirectoryNameConstant        = "control"
	backlogFileNameConstant             = "backlog.yaml"
	sprintFileNameConstant              = "sprint.yaml"
	capabilitiesFileNameConstant        = "capabilities.yaml"
	workflowStateFileNameConstant       = "workflow-state.json"
	qualityDashboardFileNameConstant    = "quality-dashboard.json"
	backlogSchemaFileNameConstant       = "backlog_v1.schema.json"
	workflowStateSchemaFileNameConstant = "workflow_state_v2.schema.json"
	decisionLogFileNameConstant         = "decisionLog.md"
)

// WorkspaceConfiguration captures where the shared workspace artifacts live.
type WorkspaceConfiguration struct {
	WorkspaceRoot     string `mapstructure:"workspace_root"`
	ProjectsDirectory string `mapstructure:"projects_directory"`
	ModesFile         string `mapstructure:"modes_file"`
	SchemaDirectory   string `mapstructure:"schema_directory"`
	MemoryDirectory   string `mapstructure:"memory_directory"`
}

// DefaultWorkspaceConfiguration returns the conventional workspace layout.
func DefaultWorkspaceConfiguration() WorkspaceConfiguration {
	return WorkspaceConfiguration{
		WorkspaceRoot:     ".",
		ProjectsDirectory: "project",
		ModesFile:         ".roomodes",
		SchemaDirectory:   filepath.Join("docs", "contracts"),
		MemoryDirectory:   "memory-bank",
	}
}

// DefaultConfigurationValues exposes the workspace defaults keyed for Viper.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultWorkspaceConfiguration()
	return map[string]any{
		prefix + ".workspace_root":     defaults.WorkspaceRoot,
		prefix + ".projects_directory": defaults.ProjectsDirectory,
		prefix + ".modes_file":         defaults.ModesFile,
		prefix + ".schema_directory":   defaults.SchemaDirectory,
		prefix + ".memory_directory":   defaults.MemoryDirectory,
	}
}

// Layout lists every path the analyzers read for a resolved project.
type Layout struct {
	Name             string
	WorkspaceRoot    string
	ProjectRoot      string
	ControlDirectory string
	SchemaDirectory  string
	MemoryDirectory  string
	ModesFile        string
}

// NewLayout derives the layout for a project root beneath the configured workspace.
// The project root is trusted as given; use Locator.Resolve for untrusted names.
func NewLayout(name string, workspaceRoot string, projectRoot string, configuration WorkspaceConfiguration) Layout {
	return Layout{
		Name:             name,
		WorkspaceRoot:    workspaceRoot,
		ProjectRoot:      projectRoot,
		ControlDirectory: filepath.Join(projectRoot, controlDirectoryNameConstant),
		SchemaDirectory:  anchor(workspaceRoot, configuration.SchemaDirectory),
		MemoryDirectory:  anchor(workspaceRoot, configuration.MemoryDirectory),
		ModesFile:        anchor(workspaceRoot, configuration.ModesFile),
	}
}

// ControlFile returns the path of a file inside the control directory.
func (layout Layout) ControlFile(fileName string) string {
	return filepath.Join(layout.ControlDirectory, fileName)
}

// SchemaFile returns the path of a file inside the schema directory.
func (layout Layout) SchemaFile(fileName string) string {
	return filepath.Join(layout.SchemaDirectory, fileName)
}

// BacklogFile returns the backlog control file path.
func (layout Layout) BacklogFile() string { return layout.ControlFile(backlogFileNameConstant) }

// SprintFile returns the sprint control file path.
func (layout Layout) SprintFile() string { return layout.ControlFile(sprintFileNameConstant) }

// CapabilitiesFile returns the capabilities control file path.
func (layout Layout) CapabilitiesFile() string {
	return layout.ControlFile(capabilitiesFileNameConstant)
}

// WorkflowStateFile returns the workflow state control file path.
func (layout Layout) WorkflowStateFile() string {
	return layout.ControlFile(workflowStateFileNameConstant)
}

// QualityDashboardFile returns the quality dashboard control file path.
func (layout Layout) QualityDashboardFile() string {
	return layout.ControlFile(qualityDashboardFileNameConstant)
}

// BacklogSchemaFile returns the backlog schema path.
func (layout Layout) BacklogSchemaFile() string {
	return layout.SchemaFile(backlogSchemaFileNameConstant)
}

// WorkflowStateSchemaFile returns the workflow state schema path.
func (layout Layout) WorkflowStateSchemaFile() string {
	return layout.SchemaFile(workflowStateSchemaFileNameConstant)
}

// DecisionLogFile returns the shared decision log path.
func (layout Layout) DecisionLogFile() string {
	return filepath.Join(layout.MemoryDirectory, decisionLogFileNameConstant)
}

// RequiredFiles lists the control files followed by the schema documents every
// project must provide, in check order.
func (layout Layout) RequiredFiles() []string {
	return []string{
		layout.BacklogFile(),
		layout.SprintFile(),
		layout.CapabilitiesFile(),
		layout.WorkflowStateFile(),
		layout.QualityDashboardFile(),
		layout.BacklogSchemaFile(),
		layout.WorkflowStateSchemaFile(),
	}
}

func anchor(workspaceRoot string, candidate string) string {
	if filepath.IsAbs(candidate) {
		return filepath.Clean(candidate)
	}
	return filepath.Join(workspaceRoot, candidate)
}
