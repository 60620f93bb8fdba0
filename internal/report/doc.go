// Package report renders a human-readable progress summary for the current sprint.
//
// Loader gathers the sprint plan, workflow state, quality dashboard, and decision log
// of a project into Data, reporting every unavailable input at once through
// GenerationError. Renderer formats Data for operators.
package report
