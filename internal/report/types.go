package report

import (
	"errors"
	"strings"
	"time"

	"github.com/temirov/overseer/internal/checks"
	"github.com/temirov/overseer/internal/contracts"
	"github.com/temirov/overseer/internal/workflowstate"
)

const (
	generationErrorPrefixConstant    = "report generation failed: "
	generationErrorSeparatorConstant = "; "
)

// Data is everything a sprint report needs, loaded once per run.
type Data struct {
	ProjectName string
	Sprint      contracts.Sprint
	Workflow    workflowstate.State
	Quality     contracts.QualityDashboard
	Decisions   []string
}

// Progress summarizes task bucket counts.
type Progress struct {
	Completed int
	Active    int
	Pending   int
	Total     int
	Percent   float64
}

// Progress derives completion metrics from the workflow state.
func (data Data) Progress() Progress {
	return Progress{
		Completed: len(data.Workflow.CompletedTasks),
		Active:    len(data.Workflow.ActiveTasks),
		Pending:   len(data.Workflow.PendingTasks),
		Total:     data.Workflow.TotalCount(),
		Percent:   data.Workflow.ProgressPercent(),
	}
}

// GenerationError lists every report input that could not be loaded.
type GenerationError struct {
	Failures []*checks.Failure
}

// Error implements error.
func (generationError *GenerationError) Error() string {
	messages := make([]string, 0, len(generationError.Failures))
	for _, failure := range generationError.Failures {
		messages = append(messages, failure.Error())
	}
	return generationErrorPrefixConstant + strings.Join(messages, generationErrorSeparatorConstant)
}

// Unwrap exposes the individual input failures.
func (generationError *GenerationError) Unwrap() []error {
	unwrapped := make([]error, 0, len(generationError.Failures))
	for _, failure := range generationError.Failures {
		unwrapped = append(unwrapped, failure)
	}
	return unwrapped
}

// HasMissingInput reports whether any input file was absent.
func (generationError *GenerationError) HasMissingInput() bool {
	for _, failure := range generationError.Failures {
		if failure.Kind == checks.KindMissingFile {
			return true
		}
	}
	return false
}

// AsGenerationError extracts a GenerationError from err.
func AsGenerationError(err error) (*GenerationError, bool) {
	var generationError *GenerationError
	if !errors.As(err, &generationError) {
		return nil, false
	}
	return generationError, true
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
