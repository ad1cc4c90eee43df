package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLocalFS_ReadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), make([]byte, 42), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := NewLocalFS().ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	dirs, files := Split(entries)
	if len(dirs) != 1 || dirs[0].Name != "sub" {
		t.Errorf("expected sub directory, got %+v", dirs)
	}
	if len(files) != 1 || files[0].Name != "a.txt" || files[0].Size != 42 {
		t.Errorf("expected a.txt of 42 bytes, got %+v", files)
	}
}

func TestLocalFS_ReadDir_Missing(t *testing.T) {
	_, err := NewLocalFS().ReadDir(filepath.Join(t.TempDir(), "missing"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLocalFS_Parent(t *testing.T) {
	l := NewLocalFS()
	dir := t.TempDir()

	parent, ok := l.Parent(filepath.Join(dir, "child"))
	if !ok || parent != dir {
		t.Errorf("Parent = (%q, %v), want (%q, true)", parent, ok, dir)
	}

	vols, err := l.Volumes()
	if err != nil {
		t.Fatalf("Volumes failed: %v", err)
	}
	if len(vols) == 0 {
		t.Fatal("expected at least one volume")
	}
	if _, ok := l.Parent(vols[0].Root); ok {
		t.Errorf("expected volume root %q to have no parent", vols[0].Root)
	}
	if runtime.GOOS != "windows" && vols[0].Root != "/" {
		t.Errorf("expected / as the Unix volume, got %q", vols[0].Root)
	}
}

func TestLocalFS_ReadDir_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data"), make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(dir, "linkdir")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "data"), filepath.Join(dir, "linkfile")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "dangling")); err != nil {
		t.Fatal(err)
	}

	entries, err := NewLocalFS().ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	byName := make(map[string]DirEntry)
	for _, e := range entries {
		byName[e.Name] = e
	}

	if e := byName["linkdir"]; !e.IsDir || !e.Symlink {
		t.Errorf("expected linkdir to be a linked directory, got %+v", e)
	}
	if e := byName["linkfile"]; e.IsDir || !e.Symlink || e.Size != 100 {
		t.Errorf("expected linkfile to carry its target size, got %+v", e)
	}
	if e, ok := byName["dangling"]; !ok || e.IsDir || !e.Symlink {
		t.Errorf("expected dangling link listed as a file, got %+v", e)
	}

	dirs, _ := Split(entries)
	if len(dirs) != 1 || dirs[0].Name != "linkdir" {
		t.Errorf("expected linkdir among subdirectories, got %+v", dirs)
	}
}
