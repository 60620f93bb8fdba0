package audit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/overseer/internal/audit"
	"github.com/temirov/overseer/internal/checks"
	"github.com/temirov/overseer/internal/project"
)

const (
	testProjectNameConstant = "sample-app"
	loopingWorkflowState    = `{
  "pending_tasks": [{"id": "T-1", "title": "Remediation: Fix lint errors in module X", "assigned_to": "frontend-developer"}],
  "active_tasks": [{"id": 2, "title": "Remediation: Fix lint errors in module Y", "assigned_to": "frontend-developer"}],
  "completed_tasks": [{"id": 3, "title": "Remediation: Fix lint errors in module Z", "assigned_to": "frontend-developer"}]
}`
)

// writeProject creates a workspace containing one project and returns its layout.
// An empty workflowState leaves the workflow state file absent.
func writeProject(testInstance *testing.T, workflowState string) project.Layout {
	testInstance.Helper()
	workspaceRoot := testInstance.TempDir()
	projectRoot := filepath.Join(workspaceRoot, "project", testProjectNameConstant)
	layout := project.NewLayout(testProjectNameConstant, workspaceRoot, projectRoot, project.DefaultWorkspaceConfiguration())
	require.NoError(testInstance, os.MkdirAll(layout.ControlDirectory, 0o755))
	if len(workflowState) > 0 {
		require.NoError(testInstance, os.WriteFile(layout.WorkflowStateFile(), []byte(workflowState), 0o600))
	}
	return layout
}

func TestServiceRunBehaviors(testInstance *testing.T) {
	testCases := []struct {
		name              string
		workflowState     string
		expectedKind      checks.Kind
		expectedTaskCount int
		expectedAnomalies int
		expectNoTasks     bool
	}{
		{
			name:              "detects_task_loop",
			workflowState:     loopingWorkflowState,
			expectedTaskCount: 3,
			expectedAnomalies: 1,
		},
		{
			name:          "missing_workflow_state",
			expectedKind:  checks.KindMissingFile,
			expectNoTasks: true,
		},
		{
			name:          "empty_task_collection",
			workflowState: `{"pending_tasks": [], "active_tasks": [], "completed_tasks": []}`,
			expectNoTasks: true,
		},
		{
			name:          "absent_buckets",
			workflowState: `{}`,
			expectNoTasks: true,
		},
		{
			name:          "malformed_workflow_state",
			workflowState: `{"pending_tasks": [`,
			expectedKind:  checks.KindSyntax,
			expectNoTasks: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			layout := writeProject(subTest, testCase.workflowState)

			outcome, runError := audit.NewService(nil, nil, audit.NewAuditor()).Run(layout)

			if testCase.expectedKind != 0 {
				require.Error(subTest, runError)
				kind, found := checks.KindOf(runError)
				require.True(subTest, found)
				require.Equal(subTest, testCase.expectedKind, kind)
			} else {
				require.NoError(subTest, runError)
			}
			require.Equal(subTest, testProjectNameConstant, outcome.ProjectName)
			require.Equal(subTest, testCase.expectedTaskCount, outcome.TaskCount)
			require.Len(subTest, outcome.Anomalies, testCase.expectedAnomalies)
			require.Equal(subTest, testCase.expectNoTasks, outcome.NoTasks())
		})
	}
}

func TestServiceRunAuditsNumericAssignees(testInstance *testing.T) {
	layout := writeProject(testInstance, `{
  "pending_tasks": [
    {"id": 1, "title": "Remediation: patch alpha", "assigned_to": 42},
    {"id": 2, "title": "Remediation: patch beta", "assigned_to": 42}
  ],
  "active_tasks": [{"id": 3, "title": "Remediation: patch gamma", "assigned_to": 42}],
  "completed_tasks": [
    {"id": 4, "title": "Remediation: patch delta", "assigned_to": 42},
    {"id": "T-5", "title": "Write release notes", "assigned_to": "writer"}
  ]
}`)

	outcome, runError := audit.NewService(nil, nil, audit.NewAuditor()).Run(layout)
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 5, outcome.TaskCount)
	require.Len(testInstance, outcome.Anomalies, 1)
	require.Equal(testInstance, audit.AnomalyTypeHighInterventionRate, outcome.Anomalies[0].Type)
	require.Equal(testInstance, "42", outcome.Anomalies[0].Subject)
	require.Equal(testInstance, []string{"1", "2", "3", "4"}, outcome.Anomalies[0].TaskIDs)
}

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	configuration := audit.CommandConfiguration{
		InterventionThreshold: -1,
		LoopThreshold:         5,
		OversightAgents:       []string{"  ", " security-auditor "},
	}

	sanitized := configuration.Sanitize()

	require.Equal(testInstance, audit.DefaultInterventionThreshold, sanitized.InterventionThreshold)
	require.Equal(testInstance, 5, sanitized.LoopThreshold)
	require.Equal(testInstance, []string{"security-auditor"}, sanitized.OversightAgents)
	require.Equal(testInstance, audit.DefaultOversightAgents(), audit.CommandConfiguration{}.Sanitize().OversightAgents)
}
