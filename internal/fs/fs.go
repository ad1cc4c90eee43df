// Package fs provides the directory enumeration capability used for browsing
// and census, backed by the local disk or a git ref.
package fs

// DirEntry represents a single directory entry. Size is only meaningful for files.
// Symlink marks entries reached through a symbolic link; IsDir and Size then
// describe the link target.
type DirEntry struct {
	Name    string
	IsDir   bool
	Size    int64
	Symlink bool
}

// Volume is a storage root reported by the host.
type Volume struct {
	Name  string
	Root  string
	Ready bool
}

// Lister abstracts directory enumeration so callers can work with either
// the local filesystem or a git object database.
type Lister interface {
	// ReadDir lists the immediate children of a directory in enumeration order.
	ReadDir(path string) ([]DirEntry, error)
	// Parent returns the parent of path, or false if path is a root.
	Parent(path string) (string, bool)
	Join(dir, name string) string
	DisplayName(path string) string
	Volumes() ([]Volume, error)
}

// Split separates entries into subdirectories and files, keeping their order.
func Split(entries []DirEntry) (dirs, files []DirEntry) {
	for _, e := range entries {
		if e.IsDir {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	return dirs, files
}
