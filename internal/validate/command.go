package validate

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/overseer/internal/filesystem"
	"github.com/temirov/overseer/internal/project"
	"github.com/temirov/overseer/internal/ui"
)

const (
	commandUseConstant                = "validate <project_name>"
	commandShortDescriptionConstant   = "Validate the configuration files of a project"
	commandLongDescriptionConstant    = "validate checks that every control file and schema a project depends on exists, parses, satisfies its contract, and only references agents declared in the mode registry."
	validationFailedErrorTemplate     = "validation failed for project %q: %d error(s)"
	logMessageProjectResolutionFailed = "project resolution failed"
	logMessageProjectResolved         = "project resolved"
	logFieldProjectNameConstant       = "project_name"
	logFieldProjectRootConstant       = "project_root"
	logFieldControlDirectoryConstant  = "control_directory"
	logFieldSchemaDirectoryConstant   = "schema_directory"
	logFieldModesFileConstant         = "modes_file"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the validate Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	WorkspaceProvider     project.WorkspaceProvider
	WorkspaceRootSource   project.WorkspaceRootSource
	FileSystem            filesystem.FileSystem
}

// Build constructs the validate command.
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
	logger.Debug(
		logMessageProjectResolved,
		zap.String(logFieldProjectNameConstant, layout.Name),
		zap.String(logFieldProjectRootConstant, layout.ProjectRoot),
		zap.String(logFieldControlDirectoryConstant, layout.ControlDirectory),
		zap.String(logFieldSchemaDirectoryConstant, layout.SchemaDirectory),
		zap.String(logFieldModesFileConstant, layout.ModesFile),
	)

	service := NewService(builder.FileSystem, logger, builder.resolveConfiguration().Bindings())
	result := service.Validate(layout)
	Render(ui.NewConsole(command.OutOrStdout()), result)

	if !result.Valid() {
		return fmt.Errorf(validationFailedErrorTemplate, result.ProjectName, result.ErrorCount())
	}
	return nil
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
