// Package ui renders operator-facing console output for the overseer commands.
//
// All ANSI styling lives behind Console, so analyzers produce structured results
// and never format colors themselves.
package ui
