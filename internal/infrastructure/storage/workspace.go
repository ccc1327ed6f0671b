package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the scratch area owned by a single mix request: a uniquely
// named temp directory holding the downloaded inputs and the rendered output.
// It is created at the start of the pipeline and removed on every exit path.
type Workspace struct {
	ID  string
	dir string
}

// NewWorkspace creates a fresh temp directory keyed by id.
func NewWorkspace(id string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", "mix-"+id+"-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{ID: id, dir: dir}, nil
}

// Path returns the absolute path for a file named name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Cleanup removes the workspace and everything in it. Removal failures are
// swallowed; a file deleted early or by the OS is not an error worth
// surfacing over the actual response.
func (w *Workspace) Cleanup() {
	_ = os.RemoveAll(w.dir)
}
