package report

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/overseer/internal/filesystem"
	"github.com/temirov/overseer/internal/project"
	"github.com/temirov/overseer/internal/ui"
)

const (
	commandUseConstant                = "report <project_name>"
	commandShortDescriptionConstant   = "Generate a sprint progress report"
	commandLongDescriptionConstant    = "report summarizes sprint progress, quality metrics, and recent autonomous decisions for a project."
	loadingDataTemplateConstant       = "--- Loading data for project '%s'... ---"
	missingInputMessageConstant       = "❌ Error: A required file was not found."
	unexpectedFailureTemplateConstant = "❌ An unexpected error occurred: %s"
	failureDetailsTemplateConstant    = "Details: %s"
	logMessageProjectResolutionFailed = "project resolution failed"
	logFieldProjectNameConstant       = "project_name"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the report Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	WorkspaceProvider     project.WorkspaceProvider
	WorkspaceRootSource   project.WorkspaceRootSource
	FileSystem            filesystem.FileSystem
	Clock                 Clock
}

// Build constructs the report command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ExactArgs(1),
		RunE:          builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()

	layout, resolveError := project.ResolveCommandLayout(command.Context(), builder.WorkspaceProvider, builder.WorkspaceRootSource, arguments[0])
	if resolveError != nil {
		logger.Error(logMessageProjectResolutionFailed, zap.String(logFieldProjectNameConstant, arguments[0]), zap.Error(resolveError))
		return resolveError
	}

	console := ui.NewConsole(command.OutOrStdout())
	console.Line(ui.ToneAccent, fmt.Sprintf(loadingDataTemplateConstant, layout.Name))

	configuration := builder.resolveConfiguration()
	data, loadError := NewLoader(builder.FileSystem, logger, configuration.DecisionExcerptSize).Load(layout)
	if loadError != nil {
		renderLoadFailure(console, loadError)
		return loadError
	}

	NewRenderer(builder.Clock).Render(command.OutOrStdout(), data)
	return nil
}

func renderLoadFailure(console *ui.Console, loadError error) {
	generationError, isGenerationError := AsGenerationError(loadError)
	if !isGenerationError || !generationError.HasMissingInput() {
		console.Line(ui.ToneBad, fmt.Sprintf(unexpectedFailureTemplateConstant, loadError.Error()))
		return
	}
	console.Line(ui.ToneBad, missingInputMessageConstant)
	for _, failure := range generationError.Failures {
		console.Line(ui.ToneWarning, fmt.Sprintf(failureDetailsTemplateConstant, failure.Error()))
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
