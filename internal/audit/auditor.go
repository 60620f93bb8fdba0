package audit

import (
	"fmt"
	"strings"

	"github.com/temirov/overseer/internal/workflowstate"
)

// Default anomaly thresholds. A count must strictly exceed its threshold to be reported.
const (
	DefaultInterventionThreshold = 3
	DefaultLoopThreshold         = 2
)

const (
	remediationMarkerConstant           = "Remediation:"
	normalizedRemediationMarkerConstant = "remediation:"
	normalizedTitleTokenLimitConstant   = 4
	titleTokenSeparatorConstant         = " "
	qualityAssuranceCoordinatorConstant = "quality-assurance-coordinator"
	technicalDebtManagerConstant        = "technical-debt-manager"
	interventionDetailsTemplateConstant = "Agent '%s' has created %d intervention tasks, exceeding the threshold of %d."
	interventionRecommendationConstant  = "Review this agent's tasks to identify a potential root cause for repeated quality/debt issues."
	taskLoopDetailsTemplateConstant     = "A task with a title similar to '%s...' has been created %d times, exceeding the threshold of %d."
	taskLoopRecommendationConstant      = "Investigate why this task is being repeatedly created. It may indicate a persistent failure or a logical loop in the workflow."
)

// DefaultOversightAgents lists the agents whose task creation is itself monitored.
func DefaultOversightAgents() []string {
	return []string{qualityAssuranceCoordinatorConstant, technicalDebtManagerConstant}
}

// Auditor applies anomaly heuristics to a workflow state snapshot.
type Auditor struct {
	InterventionThreshold int
	LoopThreshold         int
	OversightAgents       []string
}

// NewAuditor constructs an Auditor with the default thresholds and oversight agents.
func NewAuditor() Auditor {
	return Auditor{
		InterventionThreshold: DefaultInterventionThreshold,
		LoopThreshold:         DefaultLoopThreshold,
		OversightAgents:       DefaultOversightAgents(),
	}
}

// Audit returns intervention anomalies followed by loop anomalies, each in first-seen order.
func (auditor Auditor) Audit(state workflowstate.State) []Anomaly {
	tasks := state.AllTasks()
	anomalies := auditor.highInterventionRate(tasks)
	return append(anomalies, auditor.taskLoops(tasks)...)
}

// IsInterventionTask reports whether task was created to correct earlier work.
func (auditor Auditor) IsInterventionTask(task workflowstate.Task) bool {
	for _, oversightAgent := range auditor.OversightAgents {
		if string(task.AssignedTo) == oversightAgent {
			return true
		}
	}
	return strings.Contains(task.Title, remediationMarkerConstant)
}

func (auditor Auditor) highInterventionRate(tasks []workflowstate.Task) []Anomaly {
	counts := newOrderedCounter()
	for _, task := range tasks {
		if auditor.IsInterventionTask(task) {
			counts.add(string(task.AssignedTo), task.IDString())
		}
	}

	var anomalies []Anomaly
	for _, agent := range counts.keys {
		count := counts.values[agent]
		if count <= auditor.InterventionThreshold {
			continue
		}
		anomalies = append(anomalies, Anomaly{
			Type:           AnomalyTypeHighInterventionRate,
			Subject:        agent,
			Count:          count,
			Threshold:      auditor.InterventionThreshold,
			TaskIDs:        counts.taskIDs[agent],
			Details:        fmt.Sprintf(interventionDetailsTemplateConstant, agent, count, auditor.InterventionThreshold),
			Recommendation: interventionRecommendationConstant,
		})
	}
	return anomalies
}

func (auditor Auditor) taskLoops(tasks []workflowstate.Task) []Anomaly {
	counts := newOrderedCounter()
	for _, task := range tasks {
		counts.add(NormalizeTitle(task.Title), task.IDString())
	}

	var anomalies []Anomaly
	for _, normalizedTitle := range counts.keys {
		count := counts.values[normalizedTitle]
		if count <= auditor.LoopThreshold {
			continue
		}
		anomalies = append(anomalies, Anomaly{
			Type:           AnomalyTypePotentialTaskLoop,
			Subject:        normalizedTitle,
			Count:          count,
			Threshold:      auditor.LoopThreshold,
			TaskIDs:        counts.taskIDs[normalizedTitle],
			Details:        fmt.Sprintf(taskLoopDetailsTemplateConstant, normalizedTitle, count, auditor.LoopThreshold),
			Recommendation: taskLoopRecommendationConstant,
		})
	}
	return anomalies
}

// NormalizeTitle lower-cases title, removes every remediation marker, and keeps the
// first four whitespace-separated tokens joined by single spaces.
func NormalizeTitle(title string) string {
	normalized := strings.ToLower(title)
	for strings.Contains(normalized, normalizedRemediationMarkerConstant) {
		normalized = strings.ReplaceAll(normalized, normalizedRemediationMarkerConstant, "")
	}
	tokens := strings.Fields(normalized)
	if len(tokens) > normalizedTitleTokenLimitConstant {
		tokens = tokens[:normalizedTitleTokenLimitConstant]
	}
	return strings.Join(tokens, titleTokenSeparatorConstant)
}

// orderedCounter counts keys while remembering the order they were first seen
// and the identifiers of the tasks counted under each key.
type orderedCounter struct {
	keys    []string
	values  map[string]int
	taskIDs map[string][]string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{values: map[string]int{}, taskIDs: map[string][]string{}}
}

func (counter *orderedCounter) add(key string, taskID string) {
	if _, seen := counter.values[key]; !seen {
		counter.keys = append(counter.keys, key)
	}
	counter.values[key]++
	if len(taskID) > 0 {
		counter.taskIDs[key] = append(counter.taskIDs[key], taskID)
	}
}
