package utils

import "context"

const workspaceRootContextKeyConstant = commandContextKey("workspaceRoot")

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithWorkspaceRoot attaches the resolved workspace root to the provided context.
func (accessor CommandContextAccessor) WithWorkspaceRoot(parentContext context.Context, workspaceRoot string) context.Context {
	return withValue(parentContext, workspaceRootContextKeyConstant, workspaceRoot)
}

// WorkspaceRoot extracts the workspace root from the provided context.
func (accessor CommandContextAccessor) WorkspaceRoot(executionContext context.Context) (string, bool) {
	return stringValue(executionContext, workspaceRootContextKeyConstant)
}

func withValue(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func stringValue(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	value, available := executionContext.Value(key).(string)
	return value, available
}
