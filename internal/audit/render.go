package audit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/overseer/internal/checks"
	"github.com/temirov/overseer/internal/ui"
)

const (
	auditHeaderTemplateConstant       = "Auditing Autonomous Actions for '%s'"
	auditFailureTemplateConstant      = "❌ Error: %s"
	noTasksMessageConstant            = "No tasks found to audit. System is clean."
	auditSummarySectionConstant       = "Audit Summary"
	noAnomaliesMessageConstant        = "✅ No anomalies detected. System operations appear normal."
	singleAnomalyTemplateConstant     = "⚠️ Found %d potential anomaly. Human review recommended."
	multipleAnomaliesTemplateConstant = "⚠️ Found %d potential anomalies. Human review recommended."
	anomalyHeadingTemplateConstant    = "--- Anomaly #%d ---"
	typeLabelConstant                 = "Type"
	detailsLabelConstant              = "Details"
	tasksLabelConstant                = "Tasks"
	taskIDSeparatorConstant           = ", "
	recommendationLabelConstant       = "Recommendation"
	auditFooterConstant               = "===================== End of Audit ====================="
)

// RenderHeader writes the banner that opens every audit report.
func RenderHeader(console *ui.Console, projectName string) {
	console.Header(fmt.Sprintf(auditHeaderTemplateConstant, projectName))
}

// RenderFailure writes an audit that could not load its input.
func RenderFailure(console *ui.Console, failure error) {
	message := failure.Error()
	var typedFailure *checks.Failure
	if errors.As(failure, &typedFailure) {
		message = typedFailure.Message
	}
	console.Line(ui.ToneBad, fmt.Sprintf(auditFailureTemplateConstant, message))
}

// Render writes the audit summary and every anomaly.
func Render(console *ui.Console, outcome Outcome) {
	if outcome.NoTasks() {
		console.Line(ui.ToneGood, noTasksMessageConstant)
		return
	}

	console.Section(auditSummarySectionConstant)
	switch len(outcome.Anomalies) {
	case 0:
		console.Line(ui.ToneGood, noAnomaliesMessageConstant)
	case 1:
		console.Line(ui.ToneWarning, fmt.Sprintf(singleAnomalyTemplateConstant, len(outcome.Anomalies)))
	default:
		console.Line(ui.ToneWarning, fmt.Sprintf(multipleAnomaliesTemplateConstant, len(outcome.Anomalies)))
	}

	for index, anomaly := range outcome.Anomalies {
		console.Blank()
		console.Line(ui.TonePlain, fmt.Sprintf(anomalyHeadingTemplateConstant, index+1))
		console.Labelled(ui.ToneBad, typeLabelConstant, string(anomaly.Type))
		console.Labelled(ui.TonePlain, detailsLabelConstant, anomaly.Details)
		if len(anomaly.TaskIDs) > 0 {
			console.Labelled(ui.TonePlain, tasksLabelConstant, strings.Join(anomaly.TaskIDs, taskIDSeparatorConstant))
		}
		console.Labelled(ui.ToneAccent, recommendationLabelConstant, anomaly.Recommendation)
	}

	console.Blank()
	console.Banner(auditFooterConstant)
}
