package fs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// LocalFS implements Lister using the local filesystem. Paths are absolute
// host paths.
type LocalFS struct{}

// NewLocalFS creates a LocalFS.
func NewLocalFS() *LocalFS {
	return &LocalFS{}
}

// ReadDir lists the immediate children of the directory at path. Symbolic
// links are resolved: a link to a directory is listed as a directory and a
// link to a file carries the size of its target. Dangling links are listed
// as files with the size of the link itself.
func (l *LocalFS) ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	result := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		entry := DirEntry{
			Name:    e.Name(),
			IsDir:   e.IsDir(),
			Symlink: e.Type()&fs.ModeSymlink != 0,
		}
		if entry.Symlink {
			if target, err := os.Stat(filepath.Join(path, e.Name())); err == nil {
				entry.IsDir = target.IsDir()
				if !entry.IsDir {
					entry.Size = target.Size()
				}
				result = append(result, entry)
				continue
			}
		}
		if !entry.IsDir {
			info, err := e.Info()
			if err != nil {
				// Removed between listing and stat
				continue
			}
			entry.Size = info.Size()
		}
		result = append(result, entry)
	}
	return result, nil
}

// Parent returns the directory containing path, or false at a volume root.
func (l *LocalFS) Parent(path string) (string, bool) {
	clean := filepath.Clean(path)
	parent := filepath.Dir(clean)
	if parent == clean {
		return "", false
	}
	return parent, true
}

// Join returns the path of the child named name inside dir.
func (l *LocalFS) Join(dir, name string) string {
	return filepath.Join(dir, name)
}

// DisplayName returns the full path.
func (l *LocalFS) DisplayName(path string) string {
	return path
}

// Volumes returns the host's storage roots.
func (l *LocalFS) Volumes() ([]Volume, error) {
	return hostVolumes()
}
