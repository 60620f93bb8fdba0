// Package validate checks a project's control files before the autonomous
// system starts: existence, mode-registry format, YAML structure, JSON schema
// conformance, and agent cross-references.
//
// Service produces a structured Result; CommandBuilder wires the validate Cobra
// command and renders that Result through the ui package.
package validate
