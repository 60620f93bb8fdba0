package audit_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/overseer/internal/audit"
	"github.com/temirov/overseer/internal/checks"
	"github.com/temirov/overseer/internal/project"
)

func TestAuditCommandScenarios(testInstance *testing.T) {
	testCases := []struct {
		name              string
		workflowState     string
		arguments         []string
		configuration     *audit.CommandConfiguration
		expectError       bool
		expectedKind      checks.Kind
		expectedFragments []string
	}{
		{
			name:          "reports_anomalies_without_failing",
			workflowState: loopingWorkflowState,
			arguments:     []string{testProjectNameConstant},
			expectedFragments: []string{
				"Auditing Autonomous Actions for 'sample-app'",
				"Found 1 potential anomaly. Human review recommended.",
				"--- Anomaly #1 ---",
				"Potential Task Loop",
				"Tasks: T-1, 2, 3",
				"End of Audit",
			},
		},
		{
			name:              "fail_on_anomalies",
			workflowState:     loopingWorkflowState,
			arguments:         []string{testProjectNameConstant, "--fail-on-anomalies"},
			expectError:       true,
			expectedFragments: []string{"Potential Task Loop"},
		},
		{
			name:              "loop_threshold_flag_overrides_configuration",
			workflowState:     loopingWorkflowState,
			arguments:         []string{testProjectNameConstant, "--loop-threshold", "3"},
			configuration:     &audit.CommandConfiguration{InterventionThreshold: 3, LoopThreshold: 1},
			expectedFragments: []string{"No anomalies detected. System operations appear normal."},
		},
		{
			name:              "configured_intervention_threshold",
			workflowState:     loopingWorkflowState,
			arguments:         []string{testProjectNameConstant},
			configuration:     &audit.CommandConfiguration{InterventionThreshold: 2, LoopThreshold: 5},
			expectedFragments: []string{"High Intervention Rate", "Agent 'frontend-developer' has created 3 intervention tasks, exceeding the threshold of 2."},
		},
		{
			name:              "missing_workflow_state",
			arguments:         []string{testProjectNameConstant},
			expectError:       true,
			expectedKind:      checks.KindMissingFile,
			expectedFragments: []string{"Error: workflow-state.json not found."},
		},
		{
			name:              "no_tasks",
			workflowState:     `{"pending_tasks": []}`,
			arguments:         []string{testProjectNameConstant},
			expectedFragments: []string{"No tasks found to audit. System is clean."},
		},
		{
			name:          "negative_threshold_rejected",
			workflowState: loopingWorkflowState,
			arguments:     []string{testProjectNameConstant, "--intervention-threshold", "-1"},
			expectError:   true,
		},
		{
			name:         "unknown_project",
			arguments:    []string{"missing-app"},
			expectError:  true,
			expectedKind: checks.KindPathError,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			layout := writeProject(subTest, testCase.workflowState)

			builder := audit.CommandBuilder{
				WorkspaceProvider: func() project.WorkspaceConfiguration {
					configuration := project.DefaultWorkspaceConfiguration()
					configuration.WorkspaceRoot = layout.WorkspaceRoot
					return configuration
				},
			}
			if testCase.configuration != nil {
				configuration := *testCase.configuration
				builder.ConfigurationProvider = func() audit.CommandConfiguration { return configuration }
			}

			command, buildError := builder.Build()
			require.NoError(subTest, buildError)

			outputBuffer := &bytes.Buffer{}
			command.SetOut(outputBuffer)
			command.SetErr(&bytes.Buffer{})
			command.SetArgs(testCase.arguments)

			executionError := command.Execute()
			if testCase.expectError {
				require.Error(subTest, executionError)
			} else {
				require.NoError(subTest, executionError)
			}
			if testCase.expectedKind != 0 {
				kind, found := checks.KindOf(executionError)
				require.True(subTest, found)
				require.Equal(subTest, testCase.expectedKind, kind)
			}
			for _, fragment := range testCase.expectedFragments {
				require.Contains(subTest, outputBuffer.String(), fragment)
			}
		})
	}
}
