// Package audit scans a project's workflow state for behavior that warrants human review.
//
// Auditor applies the intervention-rate and task-loop heuristics to a task snapshot,
// Service loads the snapshot for a resolved project, and CommandBuilder wires the audit
// Cobra command.
package audit
