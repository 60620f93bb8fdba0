package audit

// AnomalyType names the heuristic that produced an anomaly.
type AnomalyType string

// Supported anomaly types.
const (
	AnomalyTypeHighInterventionRate AnomalyType = "High Intervention Rate"
	AnomalyTypePotentialTaskLoop    AnomalyType = "Potential Task Loop"
)

// Anomaly describes a pattern in the task log that needs human review.
// Subject is the agent or normalized title the anomaly concerns. TaskIDs lists the
// identifiers of the counted tasks in workflow order; tasks without an id are omitted.
type Anomaly struct {
	Type           AnomalyType
	Subject        string
	Count          int
	Threshold      int
	TaskIDs        []string
	Details        string
	Recommendation string
}

// Outcome summarizes one audit run.
type Outcome struct {
	ProjectName string
	TaskCount   int
	Anomalies   []Anomaly
}

// NoTasks reports whether the workflow state held no tasks at all.
func (outcome Outcome) NoTasks() bool {
	return outcome.TaskCount == 0
}

// AnomaliesOfType returns the anomalies produced by the given heuristic.
func (outcome Outcome) AnomaliesOfType(anomalyType AnomalyType) []Anomaly {
	var matching []Anomaly
	for _, anomaly := range outcome.Anomalies {
		if anomaly.Type == anomalyType {
			matching = append(matching, anomaly)
		}
	}
	return matching
}
