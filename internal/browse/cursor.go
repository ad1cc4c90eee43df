// Package browse holds per-client browsing state: the current directory
// cursor, navigation, and the census of the current directory.
package browse

// Cursor is the currently selected location: a directory, or the
// pseudo-location above every filesystem root whose children are volumes.
type Cursor struct {
	path      string
	aboveRoot bool
}

// AtDirectory returns a cursor on the given directory.
func AtDirectory(path string) Cursor {
	return Cursor{path: path}
}

// AboveRoot returns the cursor listing the host volumes.
func AboveRoot() Cursor {
	return Cursor{aboveRoot: true}
}

// IsAboveRoot reports whether the cursor is above the filesystem roots.
func (c Cursor) IsAboveRoot() bool {
	return c.aboveRoot
}

// Path returns the directory path. It is empty above root.
func (c Cursor) Path() string {
	return c.path
}
