package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	parentDirectoryElementConstant          = ".."
	emptyProjectNameMessageConstant         = "project name must not be empty"
	absoluteProjectNameMessageConstant      = "project name must be relative to the projects directory"
	traversalProjectNameMessageConstant     = "project name must not contain path traversal sequences"
	separatorProjectNameMessageConstant     = "project name must not contain path separators"
	outsideProjectsDirectoryMessageConstant = "project resolves outside the projects directory"
	missingProjectMessageConstant           = "project does not exist"
	projectNotDirectoryMessageConstant      = "project path is not a directory"
	workspaceResolutionErrorTemplate        = "unable to resolve workspace root %q: %w"
	invalidProjectPathErrorTemplate         = "invalid project path %q: %s"
)

// InvalidProjectPathError reports a project name that cannot be resolved safely.
type InvalidProjectPathError struct {
	ProjectName string
	Reason      string
	Cause       error
}

// Error implements error.
func (invalidPathError *InvalidProjectPathError) Error() string {
	return fmt.Sprintf(invalidProjectPathErrorTemplate, invalidPathError.ProjectName, invalidPathError.Reason)
}

// Unwrap exposes the underlying filesystem error, when any.
func (invalidPathError *InvalidProjectPathError) Unwrap() error {
	return invalidPathError.Cause
}

// Locator resolves project names inside a workspace.
type Locator struct {
	configuration         WorkspaceConfiguration
	homeDirectoryProvider HomeDirectoryProvider
}

// NewLocator constructs a Locator for the provided workspace configuration.
func NewLocator(configuration WorkspaceConfiguration) *Locator {
	return NewLocatorWithHomeProvider(configuration, os.UserHomeDir)
}

// NewLocatorWithHomeProvider constructs a Locator with a custom home directory lookup.
func NewLocatorWithHomeProvider(configuration WorkspaceConfiguration, provider HomeDirectoryProvider) *Locator {
	return &Locator{
		configuration:         configuration.Sanitize(),
		homeDirectoryProvider: provider,
	}
}

// Resolve validates rawName and returns the layout of the project it names.
func (locator *Locator) Resolve(rawName string) (Layout, error) {
	projectName := strings.TrimSpace(rawName)
	if reason, rejected := rejectProjectName(projectName); rejected {
		return Layout{}, &InvalidProjectPathError{ProjectName: rawName, Reason: reason}
	}

	workspaceRoot, workspaceError := locator.WorkspaceRoot()
	if workspaceError != nil {
		return Layout{}, &InvalidProjectPathError{ProjectName: rawName, Reason: workspaceError.Error(), Cause: workspaceError}
	}

	projectsDirectory := anchor(workspaceRoot, locator.configuration.ProjectsDirectory)
	candidatePath := filepath.Join(projectsDirectory, projectName)

	projectInfo, statError := os.Stat(candidatePath)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return Layout{}, &InvalidProjectPathError{ProjectName: rawName, Reason: missingProjectMessageConstant, Cause: statError}
		}
		return Layout{}, &InvalidProjectPathError{ProjectName: rawName, Reason: statError.Error(), Cause: statError}
	}
	if !projectInfo.IsDir() {
		return Layout{}, &InvalidProjectPathError{ProjectName: rawName, Reason: projectNotDirectoryMessageConstant}
	}

	canonicalProjectsDirectory, projectsError := filepath.EvalSymlinks(projectsDirectory)
	if projectsError != nil {
		return Layout{}, &InvalidProjectPathError{ProjectName: rawName, Reason: projectsError.Error(), Cause: projectsError}
	}
	canonicalProjectPath, projectError := filepath.EvalSymlinks(candidatePath)
	if projectError != nil {
		return Layout{}, &InvalidProjectPathError{ProjectName: rawName, Reason: projectError.Error(), Cause: projectError}
	}
	if !isWithin(canonicalProjectsDirectory, canonicalProjectPath) {
		return Layout{}, &InvalidProjectPathError{ProjectName: rawName, Reason: outsideProjectsDirectoryMessageConstant}
	}

	return NewLayout(projectName, workspaceRoot, canonicalProjectPath, locator.configuration), nil
}

// WorkspaceRoot returns the absolute workspace root with any home shortcut expanded.
func (locator *Locator) WorkspaceRoot() (string, error) {
	expandedRoot := expandHome(locator.configuration.WorkspaceRoot, locator.homeDirectoryProvider)
	absoluteRoot, absoluteError := filepath.Abs(expandedRoot)
	if absoluteError != nil {
		return "", fmt.Errorf(workspaceResolutionErrorTemplate, locator.configuration.WorkspaceRoot, absoluteError)
	}
	return absoluteRoot, nil
}

// Sanitize trims configured values and falls back to defaults for empty entries.
func (configuration WorkspaceConfiguration) Sanitize() WorkspaceConfiguration {
	defaults := DefaultWorkspaceConfiguration()
	sanitized := WorkspaceConfiguration{
		WorkspaceRoot:     strings.TrimSpace(configuration.WorkspaceRoot),
		ProjectsDirectory: strings.TrimSpace(configuration.ProjectsDirectory),
		ModesFile:         strings.TrimSpace(configuration.ModesFile),
		SchemaDirectory:   strings.TrimSpace(configuration.SchemaDirectory),
		MemoryDirectory:   strings.TrimSpace(configuration.MemoryDirectory),
	}
	if len(sanitized.WorkspaceRoot) == 0 {
		sanitized.WorkspaceRoot = defaults.WorkspaceRoot
	}
	if len(sanitized.ProjectsDirectory) == 0 {
		sanitized.ProjectsDirectory = defaults.ProjectsDirectory
	}
	if len(sanitized.ModesFile) == 0 {
		sanitized.ModesFile = defaults.ModesFile
	}
	if len(sanitized.SchemaDirectory) == 0 {
		sanitized.SchemaDirectory = defaults.SchemaDirectory
	}
	if len(sanitized.MemoryDirectory) == 0 {
		sanitized.MemoryDirectory = defaults.MemoryDirectory
	}
	return sanitized
}

func rejectProjectName(projectName string) (string, bool) {
	switch {
	case len(projectName) == 0:
		return emptyProjectNameMessageConstant, true
	case filepath.IsAbs(projectName) || strings.HasPrefix(projectName, "/") || strings.HasPrefix(projectName, `\`):
		return absoluteProjectNameMessageConstant, true
	case containsParentElement(projectName):
		return traversalProjectNameMessageConstant, true
	case strings.ContainsAny(projectName, `/\`):
		return separatorProjectNameMessageConstant, true
	case projectName == ".":
		return traversalProjectNameMessageConstant, true
	default:
		return "", false
	}
}

func containsParentElement(projectName string) bool {
	elements := strings.FieldsFunc(projectName, func(character rune) bool {
		return character == '/' || character == '\\'
	})
	for _, element := range elements {
		if element == parentDirectoryElementConstant {
			return true
		}
	}
	return false
}

func isWithin(parentPath string, candidatePath string) bool {
	relativePath, relativeError := filepath.Rel(parentPath, candidatePath)
	if relativeError != nil {
		return false
	}
	if relativePath == "." {
		return false
	}
	return relativePath != parentDirectoryElementConstant && !strings.HasPrefix(relativePath, parentDirectoryElementConstant+string(filepath.Separator))
}
