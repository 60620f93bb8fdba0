package validate

import "github.com/temirov/overseer/internal/checks"

// Stage titles in execution order.
const (
	StageStructure      = "1. Validating File & Directory Structure"
	StageModeRegistry   = "2. Validating Mode Registry"
	StageYAMLFiles      = "3. Validating YAML Files"
	StageSchemas        = "4. Validating JSON Files Against Schemas"
	StageCrossReference = "5. Cross-Referencing Agent Capabilities"
)

// Result aggregates the stages executed for one project.
type Result struct {
	ProjectName string
	Stages      []checks.Stage
}

// ErrorCount returns the number of failed checks across all stages.
func (result Result) ErrorCount() int {
	errorCount := 0
	for _, stage := range result.Stages {
		errorCount += stage.FailureCount()
	}
	return errorCount
}

// Valid reports whether every check passed.
func (result Result) Valid() bool {
	return result.ErrorCount() == 0
}

// Failures returns every failure in stage order.
func (result Result) Failures() []*checks.Failure {
	var failures []*checks.Failure
	for _, stage := range result.Stages {
		failures = append(failures, stage.Failures()...)
	}
	return failures
}

// FailuresOfKind returns the failures matching kind in stage order.
func (result Result) FailuresOfKind(kind checks.Kind) []*checks.Failure {
	var matching []*checks.Failure
	for _, failure := range result.Failures() {
		if failure.Kind == kind {
			matching = append(matching, failure)
		}
	}
	return matching
}

// Stage returns the stage with the given title.
func (result Result) Stage(title string) (checks.Stage, bool) {
	for _, stage := range result.Stages {
		if stage.Title == title {
			return stage, true
		}
	}
	return checks.Stage{}, false
}
