package audit

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/overseer/internal/filesystem"
	"github.com/temirov/overseer/internal/project"
	"github.com/temirov/overseer/internal/ui"
)

const (
	commandUseConstant                     = "audit <project_name>"
	commandShortDescriptionConstant        = "Audit autonomous actions for anomalies"
	commandLongDescriptionConstant         = "audit scans the workflow state of a project for oversight agents that intervene too often and for tasks that keep being recreated."
	flagInterventionThresholdNameConstant  = "intervention-threshold"
	flagInterventionThresholdUsageConstant = "Maximum intervention tasks one agent may own before it is flagged"
	flagLoopThresholdNameConstant          = "loop-threshold"
	flagLoopThresholdUsageConstant         = "Maximum occurrences of a normalized task title before it is flagged"
	flagFailOnAnomaliesNameConstant        = "fail-on-anomalies"
	flagFailOnAnomaliesUsageConstant       = "Exit with an error when any anomaly is detected"
	negativeThresholdErrorTemplateConstant = "--%s must not be negative"
	anomaliesDetectedErrorTemplateConstant = "audit detected %d anomalies for project %q"
	logMessageProjectResolutionFailed      = "project resolution failed"
	logFieldProjectNameConstant            = "project_name"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

type commandOptions struct {
	auditor         Auditor
	failOnAnomalies bool
}

// CommandBuilder assembles the audit Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	WorkspaceProvider     project.WorkspaceProvider
	WorkspaceRootSource   project.WorkspaceRootSource
	FileSystem            filesystem.FileSystem
}

// Build constructs the audit command.
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

	command.Flags().Int(flagInterventionThresholdNameConstant, DefaultInterventionThreshold, flagInterventionThresholdUsageConstant)
	command.Flags().Int(flagLoopThresholdNameConstant, DefaultLoopThreshold, flagLoopThresholdUsageConstant)
	command.Flags().Bool(flagFailOnAnomaliesNameConstant, false, flagFailOnAnomaliesUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	layout, resolveError := project.ResolveCommandLayout(command.Context(), builder.WorkspaceProvider, builder.WorkspaceRootSource, arguments[0])
	if resolveError != nil {
		logger.Error(logMessageProjectResolutionFailed, zap.String(logFieldProjectNameConstant, arguments[0]), zap.Error(resolveError))
		return resolveError
	}

	console := ui.NewConsole(command.OutOrStdout())
	RenderHeader(console, layout.Name)

	outcome, runError := NewService(builder.FileSystem, logger, options.auditor).Run(layout)
	if runError != nil {
		RenderFailure(console, runError)
		return runError
	}
	Render(console, outcome)

	if options.failOnAnomalies && len(outcome.Anomalies) > 0 {
		return fmt.Errorf(anomaliesDetectedErrorTemplateConstant, len(outcome.Anomalies), outcome.ProjectName)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	if command.Flags().Changed(flagInterventionThresholdNameConstant) {
		interventionThreshold, _ := command.Flags().GetInt(flagInterventionThresholdNameConstant)
		if interventionThreshold < 0 {
			return commandOptions{}, fmt.Errorf(negativeThresholdErrorTemplateConstant, flagInterventionThresholdNameConstant)
		}
		configuration.InterventionThreshold = interventionThreshold
	}
	if command.Flags().Changed(flagLoopThresholdNameConstant) {
		loopThreshold, _ := command.Flags().GetInt(flagLoopThresholdNameConstant)
		if loopThreshold < 0 {
			return commandOptions{}, fmt.Errorf(negativeThresholdErrorTemplateConstant, flagLoopThresholdNameConstant)
		}
		configuration.LoopThreshold = loopThreshold
	}
	failOnAnomalies, _ := command.Flags().GetBool(flagFailOnAnomaliesNameConstant)

	return commandOptions{
		auditor:         configuration.Auditor(),
		failOnAnomalies: failOnAnomalies,
	}, nil
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
