package audit

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/overseer/internal/checks"
	"github.com/temirov/overseer/internal/filesystem"
	"github.com/temirov/overseer/internal/project"
	"github.com/temirov/overseer/internal/workflowstate"
)

const (
	workflowStateMissingTemplateConstant    = "%s not found."
	workflowStateUnreadableTemplateConstant = "%s could not be loaded."
	logMessageAuditStartedConstant          = "audit started"
	logMessageWorkflowStateFailedConstant   = "workflow state unavailable"
	logMessageAuditCompletedConstant        = "audit completed"
	logFieldProjectConstant                 = "project"
	logFieldWorkflowStateConstant           = "workflow_state"
	logFieldTaskCountConstant               = "task_count"
	logFieldAnomalyCountConstant            = "anomaly_count"
	logFieldInterventionThresholdConstant   = "intervention_threshold"
	logFieldLoopThresholdConstant           = "loop_threshold"
)

// Service loads a project's workflow state and audits it.
type Service struct {
	fileSystem filesystem.FileSystem
	logger     *zap.Logger
	auditor    Auditor
}

// NewService constructs a Service. Nil collaborators fall back to the OS filesystem and a no-op logger.
func NewService(fileSystem filesystem.FileSystem, logger *zap.Logger, auditor Auditor) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fileSystem: filesystem.Resolve(fileSystem),
		logger:     logger,
		auditor:    auditor,
	}
}

// Run audits the workflow state of layout. A missing workflow state file yields a
// missing file failure and no anomalies.
func (service *Service) Run(layout project.Layout) (Outcome, error) {
	outcome := Outcome{ProjectName: layout.Name}
	workflowStatePath := layout.WorkflowStateFile()

	service.logger.Debug(
		logMessageAuditStartedConstant,
		zap.String(logFieldProjectConstant, layout.Name),
		zap.String(logFieldWorkflowStateConstant, workflowStatePath),
		zap.Int(logFieldInterventionThresholdConstant, service.auditor.InterventionThreshold),
		zap.Int(logFieldLoopThresholdConstant, service.auditor.LoopThreshold),
	)

	state, loadError := workflowstate.Load(service.fileSystem, workflowStatePath)
	if loadError != nil {
		service.logger.Error(
			logMessageWorkflowStateFailedConstant,
			zap.String(logFieldProjectConstant, layout.Name),
			zap.String(logFieldWorkflowStateConstant, workflowStatePath),
			zap.Error(loadError),
		)
		fileName := filepath.Base(workflowStatePath)
		if errors.Is(loadError, workflowstate.ErrWorkflowStateMissing) {
			return outcome, checks.WrapFailure(checks.KindMissingFile, fmt.Sprintf(workflowStateMissingTemplateConstant, fileName), loadError)
		}
		return outcome, checks.WrapFailure(checks.KindSyntax, fmt.Sprintf(workflowStateUnreadableTemplateConstant, fileName), loadError)
	}

	outcome.TaskCount = state.TotalCount()
	if !outcome.NoTasks() {
		outcome.Anomalies = service.auditor.Audit(state)
	}

	service.logger.Info(
		logMessageAuditCompletedConstant,
		zap.String(logFieldProjectConstant, layout.Name),
		zap.Int(logFieldTaskCountConstant, outcome.TaskCount),
		zap.Int(logFieldAnomalyCountConstant, len(outcome.Anomalies)),
	)
	return outcome, nil
}
