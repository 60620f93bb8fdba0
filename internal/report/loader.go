package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/overseer/internal/checks"
	"github.com/temirov/overseer/internal/contracts"
	"github.com/temirov/overseer/internal/filesystem"
	"github.com/temirov/overseer/internal/project"
	"github.com/temirov/overseer/internal/workflowstate"
)

const (
	inputMissingTemplateConstant       = "%s not found."
	inputUnreadableTemplateConstant    = "%s could not be read."
	inputUnparsableTemplateConstant    = "%s could not be parsed."
	inputNotMappingTemplateConstant    = "%s must contain a mapping."
	logMessageInputLoadedConstant      = "report input loaded"
	logMessageInputFailedConstant      = "report input unavailable"
	logMessageReportDataLoadedConstant = "report data loaded"
	logMessageReportDataFailedConstant = "report data incomplete"
	logFieldProjectConstant            = "project"
	logFieldInputConstant              = "input"
	logFieldFailureCountConstant       = "failure_count"
	logFieldDecisionCountConstant      = "decision_count"
)

// Loader gathers report inputs for a project.
type Loader struct {
	fileSystem          filesystem.FileSystem
	logger              *zap.Logger
	decisionExcerptSize int
}

// NewLoader constructs a Loader. Nil collaborators fall back to the OS filesystem and
// a no-op logger; a negative excerpt size keeps the default.
func NewLoader(fileSystem filesystem.FileSystem, logger *zap.Logger, decisionExcerptSize int) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if decisionExcerptSize < 0 {
		decisionExcerptSize = contracts.DecisionExcerptSize
	}
	return &Loader{
		fileSystem:          filesystem.Resolve(fileSystem),
		logger:              logger,
		decisionExcerptSize: decisionExcerptSize,
	}
}

// Load reads all four report inputs. Every failing input is attempted and reported
// together in a GenerationError.
func (loader *Loader) Load(layout project.Layout) (Data, error) {
	data := Data{ProjectName: layout.Name}
	var failures []*checks.Failure

	record := func(filePath string, failure *checks.Failure) {
		if failure == nil {
			loader.logger.Debug(logMessageInputLoadedConstant, zap.String(logFieldProjectConstant, layout.Name), zap.String(logFieldInputConstant, filePath))
			return
		}
		loader.logger.Warn(logMessageInputFailedConstant, zap.String(logFieldProjectConstant, layout.Name), zap.String(logFieldInputConstant, filePath), zap.Error(failure))
		failures = append(failures, failure)
	}

	var sprintFailure *checks.Failure
	data.Sprint, sprintFailure = loader.loadSprint(layout.SprintFile())
	record(layout.SprintFile(), sprintFailure)

	var workflowFailure *checks.Failure
	data.Workflow, workflowFailure = loader.loadWorkflowState(layout.WorkflowStateFile())
	record(layout.WorkflowStateFile(), workflowFailure)

	var qualityFailure *checks.Failure
	data.Quality, qualityFailure = loader.loadQualityDashboard(layout.QualityDashboardFile())
	record(layout.QualityDashboardFile(), qualityFailure)

	var decisionsFailure *checks.Failure
	data.Decisions, decisionsFailure = loader.loadDecisions(layout.DecisionLogFile())
	record(layout.DecisionLogFile(), decisionsFailure)

	if len(failures) > 0 {
		loader.logger.Error(
			logMessageReportDataFailedConstant,
			zap.String(logFieldProjectConstant, layout.Name),
			zap.Int(logFieldFailureCountConstant, len(failures)),
		)
		return Data{}, &GenerationError{Failures: failures}
	}

	loader.logger.Info(
		logMessageReportDataLoadedConstant,
		zap.String(logFieldProjectConstant, layout.Name),
		zap.Int(logFieldDecisionCountConstant, len(data.Decisions)),
	)
	return data, nil
}

func (loader *Loader) loadSprint(filePath string) (contracts.Sprint, *checks.Failure) {
	content, readFailure := loader.read(filePath)
	if readFailure != nil {
		return contracts.Sprint{}, readFailure
	}
	document, parseError := contracts.ParseYAMLMapping(content)
	if parseError != nil {
		if errors.Is(parseError, contracts.ErrNotMapping) {
			return contracts.Sprint{}, checks.WrapFailure(checks.KindSchemaViolation, fmt.Sprintf(inputNotMappingTemplateConstant, filepath.Base(filePath)), parseError)
		}
		return contracts.Sprint{}, checks.WrapFailure(checks.KindSyntax, fmt.Sprintf(inputUnparsableTemplateConstant, filepath.Base(filePath)), parseError)
	}
	sprint, decodeError := contracts.DecodeSprint(document)
	if decodeError != nil {
		return contracts.Sprint{}, checks.WrapFailure(checks.KindSchemaViolation, fmt.Sprintf(inputUnparsableTemplateConstant, filepath.Base(filePath)), decodeError)
	}
	return sprint, nil
}

func (loader *Loader) loadWorkflowState(filePath string) (workflowstate.State, *checks.Failure) {
	content, readFailure := loader.read(filePath)
	if readFailure != nil {
		return workflowstate.State{}, readFailure
	}
	state, parseError := workflowstate.Parse(content)
	if parseError != nil {
		return workflowstate.State{}, checks.WrapFailure(checks.KindSyntax, fmt.Sprintf(inputUnparsableTemplateConstant, filepath.Base(filePath)), parseError)
	}
	return state, nil
}

func (loader *Loader) loadQualityDashboard(filePath string) (contracts.QualityDashboard, *checks.Failure) {
	content, readFailure := loader.read(filePath)
	if readFailure != nil {
		return contracts.QualityDashboard{}, readFailure
	}
	dashboard, parseError := contracts.ParseQualityDashboard(content)
	if parseError != nil {
		return contracts.QualityDashboard{}, checks.WrapFailure(checks.KindSyntax, fmt.Sprintf(inputUnparsableTemplateConstant, filepath.Base(filePath)), parseError)
	}
	return dashboard, nil
}

func (loader *Loader) loadDecisions(filePath string) ([]string, *checks.Failure) {
	content, readFailure := loader.read(filePath)
	if readFailure != nil {
		return nil, readFailure
	}
	return contracts.DecisionExcerpt(content, loader.decisionExcerptSize), nil
}

func (loader *Loader) read(filePath string) ([]byte, *checks.Failure) {
	content, readError := loader.fileSystem.ReadFile(filePath)
	if readError == nil {
		return content, nil
	}
	if errors.Is(readError, os.ErrNotExist) {
		return nil, checks.WrapFailure(checks.KindMissingFile, fmt.Sprintf(inputMissingTemplateConstant, filepath.Base(filePath)), readError)
	}
	return nil, checks.WrapFailure(checks.KindUnexpected, fmt.Sprintf(inputUnreadableTemplateConstant, filepath.Base(filePath)), readError)
}
