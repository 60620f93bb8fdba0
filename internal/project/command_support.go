package project

import (
	"context"
	"strings"

	"github.com/temirov/overseer/internal/checks"
)

const invalidProjectNameMessageConstant = "Invalid project name."

// WorkspaceProvider supplies the workspace configuration in effect for a command.
type WorkspaceProvider func() WorkspaceConfiguration

// WorkspaceRootSource extracts a workspace root override from a command context.
type WorkspaceRootSource func(executionContext context.Context) (string, bool)

// ResolveCommandLayout resolves rawName using the provided workspace configuration.
// A non-empty root from rootSource replaces the configured workspace root. Resolution
// failures are returned as path error failures.
func ResolveCommandLayout(executionContext context.Context, provider WorkspaceProvider, rootSource WorkspaceRootSource, rawName string) (Layout, error) {
	configuration := DefaultWorkspaceConfiguration()
	if provider != nil {
		configuration = provider()
	}
	if rootSource != nil {
		if workspaceRoot, available := rootSource(executionContext); available && len(strings.TrimSpace(workspaceRoot)) > 0 {
			configuration.WorkspaceRoot = workspaceRoot
		}
	}

	layout, resolveError := NewLocator(configuration).Resolve(rawName)
	if resolveError != nil {
		return Layout{}, checks.WrapFailure(checks.KindPathError, invalidProjectNameMessageConstant, resolveError)
	}
	return layout, nil
}
