package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/temirov/overseer/internal/contracts"
	"github.com/temirov/overseer/internal/ui"
)

const (
	notAvailableConstant             = "N/A"
	noGoalConstant                   = "No goal defined."
	noDecisionsConstant              = "No recent decisions logged."
	sprintReportTemplateConstant     = "Sprint Report: %s"
	projectTemplateConstant          = "Project: %s"
	generatedOnTemplateConstant      = "Generated on: %s"
	generatedOnLayoutConstant        = "2006-01-02 15:04:05"
	sprintGoalSectionConstant        = "Sprint Goal"
	progressSectionConstant          = "Progress & Velocity"
	qualitySectionConstant           = "Quality Dashboard"
	decisionsSectionTemplateConstant = "Recent Autonomous Decisions (from %s)"
	tasksCompletedLabelConstant      = "Tasks Completed"
	tasksActiveLabelConstant         = "Tasks Active"
	tasksPendingLabelConstant        = "Tasks Pending"
	velocityLabelConstant            = "Development Velocity"
	qualityScoreLabelConstant        = "Overall Quality Score"
	qualityTrendLabelConstant        = "Quality Trend"
	metricsLabelConstant             = "Metrics"
	tasksCompletedTemplateConstant   = "%d / %d (%.1f%%)"
	velocityTemplateConstant         = "%d tasks completed this sprint."
	percentTemplateConstant          = "%.1f%%"
	metricTemplateConstant           = "%s: %s"
	decisionLogFileNameConstant      = "decisionLog.md"
	reportFooterConstant             = "===================== End of Report ====================="
	metricNameSeparatorConstant      = "_"
	metricNameReplacementConstant    = " "
	percentageMultiplierConstant     = 100
)

// Renderer formats report data for operators.
type Renderer struct {
	clock Clock
}

// NewRenderer constructs a Renderer. A nil clock falls back to SystemClock.
func NewRenderer(clock Clock) Renderer {
	if clock == nil {
		clock = SystemClock{}
	}
	return Renderer{clock: clock}
}

// Render writes the sprint report for data to writer.
func (renderer Renderer) Render(writer io.Writer, data Data) {
	console := ui.NewConsole(writer)

	console.Header(
		fmt.Sprintf(sprintReportTemplateConstant, fallback(data.Sprint.SprintID, notAvailableConstant)),
		fmt.Sprintf(projectTemplateConstant, data.ProjectName),
		fmt.Sprintf(generatedOnTemplateConstant, renderer.now().Format(generatedOnLayoutConstant)),
	)

	console.Section(sprintGoalSectionConstant)
	console.Line(ui.TonePlain, fallback(data.Sprint.Goal, noGoalConstant))

	progress := data.Progress()
	console.Section(progressSectionConstant)
	console.Field(1, tasksCompletedLabelConstant, ui.TonePlain, fmt.Sprintf(tasksCompletedTemplateConstant, progress.Completed, progress.Total, progress.Percent))
	console.Field(1, tasksActiveLabelConstant, ui.TonePlain, fmt.Sprint(progress.Active))
	console.Field(1, tasksPendingLabelConstant, ui.TonePlain, fmt.Sprint(progress.Pending))
	console.Field(1, velocityLabelConstant, ui.TonePlain, fmt.Sprintf(velocityTemplateConstant, progress.Completed))

	console.Section(qualitySectionConstant)
	console.Field(1, qualityScoreLabelConstant, ui.TonePlain, fmt.Sprintf(percentTemplateConstant, data.Quality.Score()*percentageMultiplierConstant))
	trendTone := ui.ToneBad
	if data.Quality.QualityTrend.Healthy() {
		trendTone = ui.ToneGood
	}
	trendText := notAvailableConstant
	if len(data.Quality.QualityTrend) > 0 {
		trendText = Capitalize(string(data.Quality.QualityTrend))
	}
	console.Field(1, qualityTrendLabelConstant, trendTone, trendText)
	console.Field(1, metricsLabelConstant, ui.TonePlain, "")
	for _, metric := range data.Quality.Metrics {
		console.Item(2, fmt.Sprintf(metricTemplateConstant, MetricDisplayName(metric.Name), MetricDisplayValue(metric)))
	}

	console.Section(fmt.Sprintf(decisionsSectionTemplateConstant, decisionLogFileNameConstant))
	if len(data.Decisions) == 0 {
		console.Line(ui.TonePlain, noDecisionsConstant)
	}
	for _, decision := range data.Decisions {
		if contracts.IsDecisionSeparator(decision) {
			continue
		}
		console.Item(1, decision)
	}

	console.Blank()
	console.Banner(reportFooterConstant)
}

func (renderer Renderer) now() time.Time {
	if renderer.clock == nil {
		return SystemClock{}.Now()
	}
	return renderer.clock.Now()
}

// MetricDisplayName turns a metric key such as test_coverage into "Test coverage".
func MetricDisplayName(name string) string {
	return Capitalize(strings.ReplaceAll(name, metricNameSeparatorConstant, metricNameReplacementConstant))
}

// MetricDisplayValue renders ratio, coverage, and rate metrics as percentages and other
// metrics as written in the dashboard.
func MetricDisplayValue(metric contracts.Metric) string {
	if metric.IsPercentage() {
		if value, numeric := metric.Number(); numeric {
			return fmt.Sprintf(percentTemplateConstant, value*percentageMultiplierConstant)
		}
	}
	if number, isNumber := metric.Value.(json.Number); isNumber {
		return number.String()
	}
	return fmt.Sprint(metric.Value)
}

// Capitalize upper-cases the first letter of text and lower-cases the rest.
func Capitalize(text string) string {
	firstRune, size := utf8.DecodeRuneInString(text)
	if firstRune == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(firstRune)) + strings.ToLower(text[size:])
}

func fallback(value string, defaultValue string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return value
}
