package validate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/overseer/internal/checks"
	"github.com/temirov/overseer/internal/project"
	"github.com/temirov/overseer/internal/validate"
)

const (
	testProjectNameConstant       = "sample-app"
	modesFileRelativePathConstant = ".roomodes"
	controlRelativePathConstant   = "project/sample-app/control"
	schemaRelativePathConstant    = "docs/contracts"
	validModesContentConstant     = "orchestrator\nquality-assurance-coordinator\n\ntechnical-debt-manager\n"
	validCapabilitiesConstant     = "agents:\n  - orchestrator\n  - quality-assurance-coordinator\n"
	validSprintConstant           = "sprint_id: S-01\ngoal: Ship the onboarding flow\nstatus: active\n"
	validBacklogConstant          = "items:\n  - id: 1\n    title: Onboarding\n"
	validWorkflowStateConstant    = `{"pending_tasks": [], "active_tasks": [{"id": 1, "title": "Build", "assigned_to": "orchestrator"}], "completed_tasks": []}`
	validQualityDashboardConstant = `{"overall_quality_score": 0.9, "quality_trend": "stable", "metrics": {"test_coverage": 0.8}}`
	workflowStateSchemaConstant   = `{
  "type": "object",
  "required": ["pending_tasks", "active_tasks", "completed_tasks"],
  "properties": {
    "pending_tasks": {"type": "array"},
    "active_tasks": {"type": "array"},
    "completed_tasks": {"type": "array"}
  }
}`
	backlogSchemaConstant = `{"type": "object", "required": ["items"], "properties": {"items": {"type": "array"}}}`
)

func validWorkspaceFiles() map[string]string {
	return map[string]string{
		modesFileRelativePathConstant:                                              validModesContentConstant,
		filepath.Join(controlRelativePathConstant, "backlog.yaml"):                 validBacklogConstant,
		filepath.Join(controlRelativePathConstant, "sprint.yaml"):                  validSprintConstant,
		filepath.Join(controlRelativePathConstant, "capabilities.yaml"):            validCapabilitiesConstant,
		filepath.Join(controlRelativePathConstant, "workflow-state.json"):          validWorkflowStateConstant,
		filepath.Join(controlRelativePathConstant, "quality-dashboard.json"):       validQualityDashboardConstant,
		filepath.Join(schemaRelativePathConstant, "backlog_v1.schema.json"):        backlogSchemaConstant,
		filepath.Join(schemaRelativePathConstant, "workflow_state_v2.schema.json"): workflowStateSchemaConstant,
	}
}

func buildLayout(testInstance *testing.T, files map[string]string) project.Layout {
	testInstance.Helper()
	workspaceRoot := testInstance.TempDir()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(workspaceRoot, controlRelativePathConstant), 0o755))
	require.NoError(testInstance, os.MkdirAll(filepath.Join(workspaceRoot, schemaRelativePathConstant), 0o755))
	for relativePath, content := range files {
		absolutePath := filepath.Join(workspaceRoot, relativePath)
		require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), 0o755))
		require.NoError(testInstance, os.WriteFile(absolutePath, []byte(content), 0o600))
	}

	configuration := project.DefaultWorkspaceConfiguration()
	configuration.WorkspaceRoot = workspaceRoot
	layout, resolveError := project.NewLocator(configuration).Resolve(testProjectNameConstant)
	require.NoError(testInstance, resolveError)
	return layout
}

func TestValidateScenarios(testInstance *testing.T) {
	testCases := []struct {
		name               string
		mutate             func(files map[string]string)
		bindings           []validate.SchemaBinding
		expectedErrorCount int
		expectedStageCount int
		expectedKinds      map[checks.Kind]int
		expectedMessage    string
	}{
		{
			name:               "valid_project",
			mutate:             func(map[string]string) {},
			expectedErrorCount: 0,
			expectedStageCount: 5,
		},
		{
			name: "ghost_agent_is_a_single_cross_reference_violation",
			mutate: func(files map[string]string) {
				files[filepath.Join(controlRelativePathConstant, "capabilities.yaml")] = "agents:\n  - orchestrator\n  - ghost-agent\n"
			},
			expectedErrorCount: 1,
			expectedStageCount: 5,
			expectedKinds:      map[checks.Kind]int{checks.KindCrossReference: 1},
			expectedMessage:    "The following agents in capabilities.yaml are not defined in .roomodes: ghost-agent",
		},
		{
			name: "missing_files_stop_after_structure_stage",
			mutate: func(files map[string]string) {
				delete(files, filepath.Join(controlRelativePathConstant, "workflow-state.json"))
				delete(files, filepath.Join(schemaRelativePathConstant, "backlog_v1.schema.json"))
			},
			expectedErrorCount: 2,
			expectedStageCount: 1,
			expectedKinds:      map[checks.Kind]int{checks.KindMissingFile: 2},
			expectedMessage:    "File not found.",
		},
		{
			name: "empty_mode_registry",
			mutate: func(files map[string]string) {
				files[modesFileRelativePathConstant] = "  \n\t\n"
			},
			expectedErrorCount: 2,
			expectedStageCount: 5,
			expectedKinds:      map[checks.Kind]int{checks.KindSchemaViolation: 1, checks.KindCrossReference: 1},
			expectedMessage:    "File is empty.",
		},
		{
			name: "sprint_missing_keys_reported_together",
			mutate: func(files map[string]string) {
				files[filepath.Join(controlRelativePathConstant, "sprint.yaml")] = "sprint_id: S-01\n"
			},
			expectedErrorCount: 1,
			expectedStageCount: 5,
			expectedKinds:      map[checks.Kind]int{checks.KindSchemaViolation: 1},
			expectedMessage:    "Missing required keys: goal, status",
		},
		{
			name: "sprint_not_a_mapping",
			mutate: func(files map[string]string) {
				files[filepath.Join(controlRelativePathConstant, "sprint.yaml")] = "- sprint_id\n- goal\n"
			},
			expectedErrorCount: 1,
			expectedStageCount: 5,
			expectedKinds:      map[checks.Kind]int{checks.KindSchemaViolation: 1},
		},
		{
			name: "capabilities_without_agents",
			mutate: func(files map[string]string) {
				files[filepath.Join(controlRelativePathConstant, "capabilities.yaml")] = "agents: []\n"
			},
			expectedErrorCount: 1,
			expectedStageCount: 5,
			expectedKinds:      map[checks.Kind]int{checks.KindSchemaViolation: 1},
			expectedMessage:    "Must contain a non-empty list under the 'agents' key.",
		},
		{
			name: "capabilities_syntax_error_counted_by_parsing_and_cross_reference",
			mutate: func(files map[string]string) {
				files[filepath.Join(controlRelativePathConstant, "capabilities.yaml")] = "agents: [orchestrator\n"
			},
			expectedErrorCount: 2,
			expectedStageCount: 5,
			expectedKinds:      map[checks.Kind]int{checks.KindSyntax: 1, checks.KindUnexpected: 1},
			expectedMessage:    "YAML syntax error.",
		},
		{
			name: "workflow_state_syntax_error",
			mutate: func(files map[string]string) {
				files[filepath.Join(controlRelativePathConstant, "workflow-state.json")] = `{"pending_tasks": [`
			},
			expectedErrorCount: 1,
			expectedStageCount: 5,
			expectedKinds:      map[checks.Kind]int{checks.KindSyntax: 1},
			expectedMessage:    "JSON syntax error.",
		},
		{
			name: "workflow_state_schema_violation",
			mutate: func(files map[string]string) {
				files[filepath.Join(controlRelativePathConstant, "workflow-state.json")] = `{"pending_tasks": "none", "active_tasks": [], "completed_tasks": []}`
			},
			expectedErrorCount: 1,
			expectedStageCount: 5,
			expectedKinds:      map[checks.Kind]int{checks.KindSchemaViolation: 1},
			expectedMessage:    "Schema validation failed.",
		},
		{
			name: "schema_document_syntax_error",
			mutate: func(files map[string]string) {
				files[filepath.Join(schemaRelativePathConstant, "workflow_state_v2.schema.json")] = `{"type": `
			},
			expectedErrorCount: 1,
			expectedStageCount: 5,
			expectedKinds:      map[checks.Kind]int{checks.KindSyntax: 1},
		},
		{
			name: "yaml_binding_schema_violation",
			mutate: func(files map[string]string) {
				files[filepath.Join(controlRelativePathConstant, "backlog.yaml")] = "entries: []\n"
			},
			bindings: []validate.SchemaBinding{
				{DataFile: "workflow-state.json", SchemaFile: "workflow_state_v2.schema.json"},
				{DataFile: "backlog.yaml", SchemaFile: "backlog_v1.schema.json"},
			},
			expectedErrorCount: 1,
			expectedStageCount: 5,
			expectedKinds:      map[checks.Kind]int{checks.KindSchemaViolation: 1},
			expectedMessage:    "Schema validation failed.",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			files := validWorkspaceFiles()
			testCase.mutate(files)
			layout := buildLayout(subTest, files)

			result := validate.NewService(nil, nil, testCase.bindings).Validate(layout)

			require.Equal(subTest, testProjectNameConstant, result.ProjectName)
			require.Equal(subTest, testCase.expectedErrorCount, result.ErrorCount())
			require.Equal(subTest, result.ErrorCount() == 0, result.Valid())
			require.Len(subTest, result.Stages, testCase.expectedStageCount)
			for kind, expectedCount := range testCase.expectedKinds {
				require.Len(subTest, result.FailuresOfKind(kind), expectedCount, kind.String())
			}
			if len(testCase.expectedMessage) > 0 {
				messages := make([]string, 0, len(result.Failures()))
				for _, failure := range result.Failures() {
					messages = append(messages, failure.Message)
				}
				require.Contains(subTest, messages, testCase.expectedMessage)
			}
		})
	}
}

func TestValidateReportsUndefinedAgentsSorted(testInstance *testing.T) {
	files := validWorkspaceFiles()
	files[filepath.Join(controlRelativePathConstant, "capabilities.yaml")] = "agents:\n  - zeta-agent\n  - orchestrator\n  - alpha-agent\n  - zeta-agent\n"
	layout := buildLayout(testInstance, files)

	result := validate.NewService(nil, nil, nil).Validate(layout)

	crossReferenceFailures := result.FailuresOfKind(checks.KindCrossReference)
	require.Len(testInstance, crossReferenceFailures, 1)
	require.Equal(testInstance, []string{"alpha-agent", "zeta-agent"}, crossReferenceFailures[0].Subjects)
}

func TestValidateErrorCountIsMonotonic(testInstance *testing.T) {
	files := validWorkspaceFiles()
	baseline := validate.NewService(nil, nil, nil).Validate(buildLayout(testInstance, files))

	files[filepath.Join(controlRelativePathConstant, "capabilities.yaml")] = "agents:\n  - ghost-agent\n"
	oneDefect := validate.NewService(nil, nil, nil).Validate(buildLayout(testInstance, files))

	files[filepath.Join(controlRelativePathConstant, "sprint.yaml")] = "goal: none\n"
	twoDefects := validate.NewService(nil, nil, nil).Validate(buildLayout(testInstance, files))

	require.Equal(testInstance, 0, baseline.ErrorCount())
	require.Equal(testInstance, 1, oneDefect.ErrorCount())
	require.Equal(testInstance, 2, twoDefects.ErrorCount())
}

func TestValidateStructureStageListsEveryPath(testInstance *testing.T) {
	layout := buildLayout(testInstance, validWorkspaceFiles())

	result := validate.NewService(nil, nil, nil).Validate(layout)

	structureStage, found := result.Stage(validate.StageStructure)
	require.True(testInstance, found)
	require.Len(testInstance, structureStage.Results, 11)
	require.Equal(testInstance, "Checking path: "+layout.ModesFile, structureStage.Results[0].Description)
	require.Equal(testInstance, "Checking path: "+layout.WorkflowStateSchemaFile(), structureStage.Results[10].Description)
	for index, requiredFile := range layout.RequiredFiles() {
		require.Equal(testInstance, "Checking path: "+requiredFile, structureStage.Results[4+index].Description)
	}
}
