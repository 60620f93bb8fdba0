package validate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/overseer/internal/checks"
	"github.com/temirov/overseer/internal/contracts"
	"github.com/temirov/overseer/internal/filesystem"
	"github.com/temirov/overseer/internal/project"
)

const (
	checkingPathTemplateConstant            = "Checking path: %s"
	fileNotFoundMessageConstant             = "File not found."
	directoryNotFoundMessageConstant        = "Directory not found."
	checkingModeRegistryContentConstant     = "Checking mode registry content"
	readingFileTemplateConstant             = "Reading %s"
	couldNotReadFileMessageConstant         = "Could not read file."
	fileEmptyMessageConstant                = "File is empty."
	validatingStructureTemplateConstant     = "Validating %s structure"
	parsingFileTemplateConstant             = "Parsing %s"
	agentsListRequiredMessageConstant       = "Must contain a non-empty list under the 'agents' key."
	missingRequiredKeysTemplateConstant     = "Missing required keys: %s"
	validatingAgainstSchemaTemplateConstant = "Validating %s against %s"
	crossReferenceDescriptionConstant       = "All project agents are defined in the mode registry"
	crossReferenceFailedMessageConstant     = "Could not perform cross-reference check."
	undefinedAgentsTemplateConstant         = "The following agents in %s are not defined in %s: %s"
	listSeparatorConstant                   = ", "
	logMessageCheckFailedConstant           = "validation check failed"
	logMessageStageCompletedConstant        = "validation stage completed"
	logMessageValidationSkippedConstant     = "core files missing; skipping content validation"
	logMessageValidationCompletedConstant   = "validation completed"
	logFieldProjectConstant                 = "project"
	logFieldStageConstant                   = "stage"
	logFieldCheckConstant                   = "check"
	logFieldKindConstant                    = "kind"
	logFieldFailuresConstant                = "failures"
	logFieldErrorCountConstant              = "error_count"
)

// Service runs the validation stages for a resolved project layout.
type Service struct {
	fileSystem filesystem.FileSystem
	logger     *zap.Logger
	bindings   []SchemaBinding
}

// NewService constructs a Service. Nil collaborators fall back to the OS filesystem,
// a no-op logger, and the default schema bindings.
func NewService(fileSystem filesystem.FileSystem, logger *zap.Logger, bindings []SchemaBinding) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(bindings) == 0 {
		bindings = DefaultSchemaBindings()
	}
	return &Service{
		fileSystem: filesystem.Resolve(fileSystem),
		logger:     logger,
		bindings:   append([]SchemaBinding{}, bindings...),
	}
}

// Validate executes every stage against layout. Content stages are skipped when
// any required file or directory is missing.
func (service *Service) Validate(layout project.Layout) Result {
	result := Result{ProjectName: layout.Name}

	structureStage := service.validateStructure(layout)
	result.Stages = append(result.Stages, structureStage)
	service.logStage(layout, structureStage)
	if structureStage.FailureCount() > 0 {
		service.logger.Warn(logMessageValidationSkippedConstant, zap.String(logFieldProjectConstant, layout.Name))
		service.logCompletion(layout, result)
		return result
	}

	for _, stageRunner := range []func(project.Layout) checks.Stage{
		service.validateModeRegistry,
		service.validateYAMLFiles,
		service.validateSchemas,
		service.crossReferenceCapabilities,
	} {
		stage := stageRunner(layout)
		result.Stages = append(result.Stages, stage)
		service.logStage(layout, stage)
	}

	service.logCompletion(layout, result)
	return result
}

func (service *Service) validateStructure(layout project.Layout) checks.Stage {
	stage := checks.Stage{Title: StageStructure}
	stage.Record(service.checkPath(layout.ModesFile, false))
	stage.Record(service.checkPath(layout.ProjectRoot, true))
	stage.Record(service.checkPath(layout.ControlDirectory, true))
	stage.Record(service.checkPath(layout.SchemaDirectory, true))
	for _, requiredFile := range layout.RequiredFiles() {
		stage.Record(service.checkPath(requiredFile, false))
	}
	return stage
}

func (service *Service) checkPath(path string, expectDirectory bool) checks.CheckResult {
	description := fmt.Sprintf(checkingPathTemplateConstant, path)
	message := fileNotFoundMessageConstant
	if expectDirectory {
		message = directoryNotFoundMessageConstant
	}

	pathInfo, statError := service.fileSystem.Stat(path)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return checks.Fail(description, checks.NewFailure(checks.KindMissingFile, message))
		}
		return checks.Fail(description, checks.WrapFailure(checks.KindMissingFile, message, statError))
	}
	if pathInfo.IsDir() != expectDirectory {
		return checks.Fail(description, checks.NewFailure(checks.KindMissingFile, message))
	}
	return checks.Pass(description)
}

func (service *Service) validateModeRegistry(layout project.Layout) checks.Stage {
	stage := checks.Stage{Title: StageModeRegistry}

	content, readError := service.fileSystem.ReadFile(layout.ModesFile)
	if readError != nil {
		stage.Record(checks.Fail(
			fmt.Sprintf(readingFileTemplateConstant, layout.ModesFile),
			checks.WrapFailure(checks.KindUnexpected, couldNotReadFileMessageConstant, readError),
		))
		return stage
	}

	if len(strings.TrimSpace(string(content))) == 0 {
		stage.Record(checks.Fail(checkingModeRegistryContentConstant, checks.NewFailure(checks.KindSchemaViolation, fileEmptyMessageConstant)))
		return stage
	}

	stage.Record(checks.Pass(checkingModeRegistryContentConstant))
	return stage
}

func (service *Service) validateYAMLFiles(layout project.Layout) checks.Stage {
	stage := checks.Stage{Title: StageYAMLFiles}
	stage.Record(service.checkYAMLDocument(layout.CapabilitiesFile(), func(document map[string]any) *checks.Failure {
		if !contracts.HasAgentList(document) {
			return checks.NewFailure(checks.KindSchemaViolation, agentsListRequiredMessageConstant)
		}
		return nil
	}, agentsListRequiredMessageConstant))
	stage.Record(service.checkYAMLDocument(layout.SprintFile(), func(document map[string]any) *checks.Failure {
		missingKeys := contracts.MissingKeys(document, contracts.SprintRequiredKeys())
		if len(missingKeys) > 0 {
			return checks.NewFailure(checks.KindSchemaViolation, fmt.Sprintf(missingRequiredKeysTemplateConstant, strings.Join(missingKeys, listSeparatorConstant)))
		}
		return nil
	}, fmt.Sprintf(missingRequiredKeysTemplateConstant, strings.Join(contracts.SprintRequiredKeys(), listSeparatorConstant))))
	return stage
}

// checkYAMLDocument parses filePath as a YAML mapping and applies inspect.
// A non-mapping root fails with notMappingMessage.
func (service *Service) checkYAMLDocument(filePath string, inspect func(map[string]any) *checks.Failure, notMappingMessage string) checks.CheckResult {
	fileName := filepath.Base(filePath)
	structureDescription := fmt.Sprintf(validatingStructureTemplateConstant, fileName)
	parseDescription := fmt.Sprintf(parsingFileTemplateConstant, filePath)

	content, readError := service.fileSystem.ReadFile(filePath)
	if readError != nil {
		return checks.Fail(parseDescription, checks.WrapFailure(checks.KindUnexpected, couldNotReadFileMessageConstant, readError))
	}

	document, parseError := contracts.ParseYAMLMapping(content)
	if parseError != nil {
		if errors.Is(parseError, contracts.ErrNotMapping) {
			return checks.Fail(structureDescription, checks.WrapFailure(checks.KindSchemaViolation, notMappingMessage, parseError))
		}
		return checks.Fail(parseDescription, checks.WrapFailure(checks.KindSyntax, yamlSyntaxErrorMessageConstant, parseError))
	}

	if failure := inspect(document); failure != nil {
		return checks.Fail(structureDescription, failure)
	}
	return checks.Pass(structureDescription)
}

func (service *Service) validateSchemas(layout project.Layout) checks.Stage {
	stage := checks.Stage{Title: StageSchemas}
	checker := schemaChecker{fileSystem: service.fileSystem}
	for _, binding := range service.bindings {
		description := fmt.Sprintf(validatingAgainstSchemaTemplateConstant, binding.DataFile, binding.SchemaFile)
		failure := checker.check(layout.ControlFile(binding.DataFile), layout.SchemaFile(binding.SchemaFile))
		if failure != nil {
			stage.Record(checks.Fail(description, failure))
			continue
		}
		stage.Record(checks.Pass(description))
	}
	return stage
}

func (service *Service) crossReferenceCapabilities(layout project.Layout) checks.Stage {
	stage := checks.Stage{Title: StageCrossReference}

	registryContent, registryReadError := service.fileSystem.ReadFile(layout.ModesFile)
	if registryReadError != nil {
		stage.Record(checks.Fail(crossReferenceDescriptionConstant, checks.WrapFailure(checks.KindUnexpected, crossReferenceFailedMessageConstant, registryReadError)))
		return stage
	}
	registry := contracts.ParseModeRegistry(registryContent)

	capabilitiesContent, capabilitiesReadError := service.fileSystem.ReadFile(layout.CapabilitiesFile())
	if capabilitiesReadError != nil {
		stage.Record(checks.Fail(crossReferenceDescriptionConstant, checks.WrapFailure(checks.KindUnexpected, crossReferenceFailedMessageConstant, capabilitiesReadError)))
		return stage
	}
	document, parseError := contracts.ParseYAMLMapping(capabilitiesContent)
	if parseError != nil {
		stage.Record(checks.Fail(crossReferenceDescriptionConstant, checks.WrapFailure(checks.KindUnexpected, crossReferenceFailedMessageConstant, parseError)))
		return stage
	}
	capabilities, decodeError := contracts.DecodeCapabilities(document)
	if decodeError != nil {
		stage.Record(checks.Fail(crossReferenceDescriptionConstant, checks.WrapFailure(checks.KindUnexpected, crossReferenceFailedMessageConstant, decodeError)))
		return stage
	}

	undefinedAgents := contracts.UndefinedAgents(capabilities, registry)
	if len(undefinedAgents) > 0 {
		message := fmt.Sprintf(undefinedAgentsTemplateConstant, filepath.Base(layout.CapabilitiesFile()), filepath.Base(layout.ModesFile), strings.Join(undefinedAgents, listSeparatorConstant))
		failure := checks.NewFailure(checks.KindCrossReference, message)
		failure.Subjects = undefinedAgents
		stage.Record(checks.Fail(crossReferenceDescriptionConstant, failure))
		return stage
	}

	stage.Record(checks.Pass(crossReferenceDescriptionConstant))
	return stage
}

func (service *Service) logStage(layout project.Layout, stage checks.Stage) {
	for _, checkResult := range stage.Results {
		if checkResult.Passed() {
			continue
		}
		service.logger.Debug(
			logMessageCheckFailedConstant,
			zap.String(logFieldProjectConstant, layout.Name),
			zap.String(logFieldCheckConstant, checkResult.Description),
			zap.String(logFieldKindConstant, checkResult.Failure.Kind.String()),
			zap.Error(checkResult.Failure),
		)
	}
	service.logger.Debug(
		logMessageStageCompletedConstant,
		zap.String(logFieldProjectConstant, layout.Name),
		zap.String(logFieldStageConstant, stage.Title),
		zap.Int(logFieldFailuresConstant, stage.FailureCount()),
	)
}

func (service *Service) logCompletion(layout project.Layout, result Result) {
	service.logger.Info(
		logMessageValidationCompletedConstant,
		zap.String(logFieldProjectConstant, layout.Name),
		zap.Int(logFieldErrorCountConstant, result.ErrorCount()),
	)
}
