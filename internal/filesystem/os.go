// Package filesystem provides the read-only filesystem seam used by the analyzers.
package filesystem

import (
	"io/fs"
	"os"
)

// FileSystem exposes the read-only operations the analyzers perform.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Resolve returns provided when it is non-nil and OSFileSystem otherwise.
func Resolve(provided FileSystem) FileSystem {
	if provided != nil {
		return provided
	}
	return OSFileSystem{}
}
