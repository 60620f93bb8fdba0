// Package contracts decodes the project control files that the validator and
// the sprint reporter read: the mode registry, capabilities.yaml, sprint.yaml,
// quality-dashboard.json, and the shared decision log.
package contracts
