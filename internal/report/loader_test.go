package report_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/overseer/internal/checks"
	"github.com/temirov/overseer/internal/contracts"
	"github.com/temirov/overseer/internal/project"
	"github.com/temirov/overseer/internal/report"
)

const (
	testProjectNameConstant         = "demo"
	sprintContentConstant           = "sprint_id: S-07\ngoal: Launch billing\nstatus: active\n"
	workflowStateContentConstant    = `{"pending_tasks": [{"id": 1, "title": "Invoice export"}], "active_tasks": [{"id": 2, "title": "Tax rules"}], "completed_tasks": [{"id": 3, "title": "Pricing page"}, {"id": "4", "title": "Checkout"}]}`
	qualityDashboardContentConstant = `{"overall_quality_score": 0.875, "quality_trend": "improving", "metrics": {"test_coverage": 0.82, "open_bugs": 4, "defect_rate": 0.05, "complexity": 3.0}}`
	decisionLogContentConstant      = "# Decision Log\n\n## 2024-05-01\nChose PostgreSQL\n---\n  Adopted feature flags  \nDeferred mobile app\n#internal note\nSplit billing service\nAdded retry budget\n"
)

type reportFiles struct {
	sprint           string
	workflowState    string
	qualityDashboard string
	decisionLog      string
}

func completeReportFiles() reportFiles {
	return reportFiles{
		sprint:           sprintContentConstant,
		workflowState:    workflowStateContentConstant,
		qualityDashboard: qualityDashboardContentConstant,
		decisionLog:      decisionLogContentConstant,
	}
}

// writeReportProject writes the non-empty inputs into a fresh workspace and returns the project layout.
func writeReportProject(testInstance *testing.T, files reportFiles) project.Layout {
	testInstance.Helper()
	workspaceRoot := testInstance.TempDir()
	projectRoot := filepath.Join(workspaceRoot, "project", testProjectNameConstant)
	layout := project.NewLayout(testProjectNameConstant, workspaceRoot, projectRoot, project.DefaultWorkspaceConfiguration())
	require.NoError(testInstance, os.MkdirAll(layout.ControlDirectory, 0o755))
	require.NoError(testInstance, os.MkdirAll(layout.MemoryDirectory, 0o755))

	writeIfPresent := func(filePath string, content string) {
		if len(content) == 0 {
			return
		}
		require.NoError(testInstance, os.WriteFile(filePath, []byte(content), 0o600))
	}
	writeIfPresent(layout.SprintFile(), files.sprint)
	writeIfPresent(layout.WorkflowStateFile(), files.workflowState)
	writeIfPresent(layout.QualityDashboardFile(), files.qualityDashboard)
	writeIfPresent(layout.DecisionLogFile(), files.decisionLog)
	return layout
}

func TestLoaderLoadsCompleteProject(testInstance *testing.T) {
	layout := writeReportProject(testInstance, completeReportFiles())

	data, loadError := report.NewLoader(nil, nil, contracts.DecisionExcerptSize).Load(layout)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, testProjectNameConstant, data.ProjectName)
	require.Equal(testInstance, "S-07", data.Sprint.SprintID)
	require.Equal(testInstance, "Launch billing", data.Sprint.Goal)
	require.Equal(testInstance, 4, data.Progress().Total)
	require.Equal(testInstance, 2, data.Progress().Completed)
	require.InDelta(testInstance, 50.0, data.Progress().Percent, 0.0001)
	require.Equal(testInstance, contracts.QualityTrendImproving, data.Quality.QualityTrend)
	require.Len(testInstance, data.Quality.Metrics, 4)
	require.Equal(testInstance, []string{"Adopted feature flags", "Deferred mobile app", "Split billing service", "Added retry budget"}, data.Decisions[1:])
	require.Equal(testInstance, "---", data.Decisions[0])
}

func TestLoaderReportsEveryFailingInput(testInstance *testing.T) {
	testCases := []struct {
		name          string
		files         reportFiles
		expectedKinds []checks.Kind
		expectMissing bool
	}{
		{
			name: "missing_workflow_state_and_quality_dashboard",
			files: reportFiles{
				sprint:      "goal: test\n",
				decisionLog: "# log\nentry",
			},
			expectedKinds: []checks.Kind{checks.KindMissingFile, checks.KindMissingFile},
			expectMissing: true,
		},
		{
			name:          "all_inputs_missing",
			files:         reportFiles{},
			expectedKinds: []checks.Kind{checks.KindMissingFile, checks.KindMissingFile, checks.KindMissingFile, checks.KindMissingFile},
			expectMissing: true,
		},
		{
			name: "unparsable_inputs",
			files: reportFiles{
				sprint:           "sprint_id: [unterminated\n",
				workflowState:    `{"pending_tasks": `,
				qualityDashboard: `{"metrics": [1, 2]}`,
				decisionLog:      "entry\n",
			},
			expectedKinds: []checks.Kind{checks.KindSyntax, checks.KindSyntax, checks.KindSyntax},
		},
		{
			name: "sprint_not_a_mapping",
			files: reportFiles{
				sprint:           "just a sentence\n",
				workflowState:    workflowStateContentConstant,
				qualityDashboard: qualityDashboardContentConstant,
				decisionLog:      decisionLogContentConstant,
			},
			expectedKinds: []checks.Kind{checks.KindSchemaViolation},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			layout := writeReportProject(subTest, testCase.files)

			_, loadError := report.NewLoader(nil, nil, contracts.DecisionExcerptSize).Load(layout)
			require.Error(subTest, loadError)

			var generationError *report.GenerationError
			require.True(subTest, errors.As(loadError, &generationError))
			kinds := make([]checks.Kind, 0, len(generationError.Failures))
			for _, failure := range generationError.Failures {
				kinds = append(kinds, failure.Kind)
			}
			require.Equal(subTest, testCase.expectedKinds, kinds)
			require.Equal(subTest, testCase.expectMissing, generationError.HasMissingInput())
		})
	}
}

func TestGenerationErrorMatchesUnderlyingCauses(testInstance *testing.T) {
	layout := writeReportProject(testInstance, reportFiles{sprint: sprintContentConstant, decisionLog: "entry\n"})

	_, loadError := report.NewLoader(nil, nil, contracts.DecisionExcerptSize).Load(layout)

	require.ErrorIs(testInstance, loadError, os.ErrNotExist)
	require.Contains(testInstance, loadError.Error(), "workflow-state.json not found.")
	require.Contains(testInstance, loadError.Error(), "quality-dashboard.json not found.")
	kind, found := checks.KindOf(loadError)
	require.True(testInstance, found)
	require.Equal(testInstance, checks.KindMissingFile, kind)
}
