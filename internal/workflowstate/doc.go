// Package workflowstate models the workflow-state task buckets shared by the
// auditor and the sprint reporter.
package workflowstate
