// Package transcript persists raw captured help text to disk, one file per
// command path, so a crawl leaves an auditable record of what the parser saw.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Recorder writes help-text transcripts under a directory. The first write
// for a command truncates any stale file from an earlier run; subsequent
// writes in the same run append. Safe for concurrent use.
type Recorder struct {
	dir       string
	mu        sync.Mutex
	truncated map[string]bool
}

// NewRecorder creates a Recorder rooted at dir, creating it if needed.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcript dir %s: %w", dir, err)
	}
	return &Recorder{
		dir:       dir,
		truncated: make(map[string]bool),
	}, nil
}

// Dir returns the transcript root directory.
func (r *Recorder) Dir() string {
	return r.dir
}

// Record writes the captured help text for one command path. The file name
// is the command path with spaces replaced by underscores.
func (r *Recorder) Record(commandPath, helpText string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := filepath.Join(r.dir, FileName(commandPath))

	var flag int
	if r.truncated[path] {
		flag = os.O_APPEND | os.O_WRONLY | os.O_CREATE
	} else {
		flag = os.O_TRUNC | os.O_WRONLY | os.O_CREATE
		r.truncated[path] = true
	}

	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return fmt.Errorf("failed to open transcript %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(helpText + "\n"); err != nil {
		return fmt.Errorf("failed to write transcript %s: %w", path, err)
	}
	return nil
}

// Reset forgets truncate state, so the next Record per file truncates again.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.truncated = make(map[string]bool)
}

// FileName maps a command path to its transcript file name.
func FileName(commandPath string) string {
	return strings.ReplaceAll(commandPath, " ", "_") + ".txt"
}
