package fs

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"strconv"
	"strings"
)

// GitFS implements Lister by reading trees from a git ref (branch, tag, or commit).
// Paths are slash-separated and relative to the repository root, which is "".
type GitFS struct {
	repoPath string
	ref      string
}

// NewGitFS creates a GitFS that lists trees of the given ref in the repository at repoPath.
func NewGitFS(repoPath, ref string) *GitFS {
	return &GitFS{repoPath: repoPath, ref: ref}
}

func (g *GitFS) git(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", g.repoPath}, args...)...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// ReadDir lists the immediate children of the tree at the given path in the git ref.
func (g *GitFS) ReadDir(dir string) ([]DirEntry, error) {
	objPath := strings.Trim(dir, "/")
	if objPath == "." {
		objPath = ""
	}

	// git ls-tree -l <ref> [<path>/] -- lists immediate children with blob sizes
	args := []string{"ls-tree", "-l", g.ref}
	if objPath != "" {
		args = append(args, objPath+"/")
	}
	out, err := g.git(args...)
	if err != nil {
		return nil, os.ErrNotExist
	}

	out = strings.TrimSpace(out)
	if out == "" {
		if objPath != "" {
			// ls-tree prints nothing for both empty and missing paths; git
			// does not store empty trees, so the path is missing.
			return nil, os.ErrNotExist
		}
		return []DirEntry{}, nil
	}

	var entries []DirEntry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Format: "<mode> <type> <hash> <size>\t<name>"
		tabIdx := strings.IndexByte(line, '\t')
		if tabIdx < 0 {
			continue
		}
		meta := line[:tabIdx]
		name := line[tabIdx+1:]

		fields := strings.Fields(meta)
		if len(fields) < 4 {
			continue
		}
		objType := fields[1]

		entry := DirEntry{
			Name:  baseName(name),
			IsDir: objType == "tree",
		}
		if objType == "blob" {
			entry.Size, _ = strconv.ParseInt(fields[3], 10, 64)
		} else if objType != "tree" {
			// submodule commits have no content in this repository
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Parent returns the containing tree of p, or false at the repository root.
func (g *GitFS) Parent(p string) (string, bool) {
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return "", false
	}
	parent := path.Dir(p)
	if parent == "." {
		parent = ""
	}
	return parent, true
}

// Join returns the path of the child named name inside dir.
func (g *GitFS) Join(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}

// DisplayName renders a path as "<ref>:/<path>".
func (g *GitFS) DisplayName(p string) string {
	return g.ref + ":/" + strings.Trim(p, "/")
}

// Volumes reports the ref itself as the only volume. It is ready when the
// ref resolves.
func (g *GitFS) Volumes() ([]Volume, error) {
	_, err := g.git("rev-parse", "--verify", g.ref)
	return []Volume{{
		Name:  g.ref,
		Root:  "",
		Ready: err == nil,
	}}, nil
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
