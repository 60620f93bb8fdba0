package project

import (
	"os"
	"path/filepath"
	"strings"
)

const tildeSymbolConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// expandHome resolves a leading "~" or "~/" to the home directory reported by provider.
// Other "~user" forms are returned unchanged.
func expandHome(candidatePath string, provider HomeDirectoryProvider) string {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) || provider == nil {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, tildeSymbolConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return candidatePath
	}

	homeDirectory, homeDirectoryError := provider()
	if homeDirectoryError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}

	return filepath.Join(homeDirectory, remainder)
}
