package browse

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CageChen/dirscope/internal/census"
	mfs "github.com/CageChen/dirscope/internal/fs"
)

// fakeLister serves a fixed tree rooted at "/" with two volumes, the second not ready.
type fakeLister struct {
	tree   map[string][]mfs.DirEntry
	onRead func(dir string)
}

func (f *fakeLister) ReadDir(dir string) ([]mfs.DirEntry, error) {
	if f.onRead != nil {
		f.onRead(dir)
	}
	entries, ok := f.tree[dir]
	if !ok {
		return nil, os.ErrPermission
	}
	return entries, nil
}

func (f *fakeLister) Parent(p string) (string, bool) {
	if p == "/" || p == "/mnt" {
		return "", false
	}
	return path.Dir(p), true
}

func (f *fakeLister) Join(dir, name string) string { return path.Join(dir, name) }

func (f *fakeLister) DisplayName(p string) string { return p }

func (f *fakeLister) Volumes() ([]mfs.Volume, error) {
	return []mfs.Volume{
		{Name: "/", Root: "/", Ready: true},
		{Name: "/mnt", Root: "/mnt", Ready: false},
	}, nil
}

func newFakeLister() *fakeLister {
	return &fakeLister{tree: map[string][]mfs.DirEntry{
		"/":           {{Name: "home", IsDir: true}, {Name: "boot.img", Size: 200 * census.MiB}},
		"/home":       {{Name: "alice", IsDir: true}, {Name: "bob", IsDir: true}},
		"/home/alice": {{Name: "notes.txt", Size: 12}},
		"/home/bob":   {},
	}}
}

func TestNavigateChildParentReset(t *testing.T) {
	s := NewSession("s1", newFakeLister(), "/home", Options{})

	require.NoError(t, s.Navigate(Child(1)))
	assert.Equal(t, "/home/bob", s.Cursor().Path())

	require.NoError(t, s.Navigate(Parent()))
	require.NoError(t, s.Navigate(Parent()))
	assert.Equal(t, "/", s.Cursor().Path())

	require.NoError(t, s.Navigate(Reset()))
	assert.Equal(t, AtDirectory("/home"), s.Cursor())
}

func TestNavigateIndexOutOfRange(t *testing.T) {
	s := NewSession("s1", newFakeLister(), "/home", Options{})

	for _, n := range []int{2, 10} {
		err := s.Navigate(Child(n))
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Equal(t, "/home", s.Cursor().Path())
	}
}

func TestNavigateParentFromRootGoesAboveRoot(t *testing.T) {
	s := NewSession("s1", newFakeLister(), "/", Options{})

	require.NoError(t, s.Navigate(Parent()))
	assert.True(t, s.Cursor().IsAboveRoot())

	acc, err := s.Census(context.Background())
	require.NoError(t, err)
	assert.Nil(t, acc)

	v := s.View()
	assert.True(t, v.AboveRoot)
	assert.Equal(t, RootName, v.Directory)
	assert.Equal(t, []string{"/", "/mnt"}, v.Subdirectories)
	assert.Empty(t, v.Files)
	assert.Nil(t, v.Census)

	// Parent above root is a no-op.
	require.NoError(t, s.Navigate(Parent()))
	assert.True(t, s.Cursor().IsAboveRoot())
}

func TestNavigateVolumes(t *testing.T) {
	s := NewSession("s1", newFakeLister(), "/", Options{})
	require.NoError(t, s.Navigate(Parent()))

	err := s.Navigate(Child(1))
	assert.ErrorIs(t, err, ErrVolumeNotReady)
	assert.True(t, s.Cursor().IsAboveRoot())

	assert.ErrorIs(t, s.Navigate(Child(2)), ErrIndexOutOfRange)

	require.NoError(t, s.Navigate(Child(0)))
	assert.Equal(t, AtDirectory("/"), s.Cursor())
}

func TestNavigateUnreadableDirectory(t *testing.T) {
	l := newFakeLister()
	s := NewSession("s1", l, "/missing", Options{})

	err := s.Navigate(Child(0))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, "/missing", s.Cursor().Path())
}

func TestCensusViewAndInvalidation(t *testing.T) {
	s := NewSession("s1", newFakeLister(), "/", Options{})

	v, err := s.CensusView(context.Background())
	require.NoError(t, err)
	require.NotNil(t, v.Census)
	assert.Equal(t, "/", v.Directory)
	assert.Equal(t, []string{"home"}, v.Subdirectories)
	assert.Equal(t, []string{"boot.img"}, v.Files)
	assert.Equal(t, uint64(1), v.Census.Tiny)
	assert.Equal(t, uint64(1), v.Census.Huge)
	assert.Equal(t, uint64(4), v.Census.Directories)
	assert.Equal(t, "Directories: 4, skipped: 0", v.Census.Summary)
	assert.Len(t, v.Census.SizeLimits, census.NumBuckets)

	// A failed navigation keeps the census.
	require.Error(t, s.Navigate(Child(5)))
	assert.NotNil(t, s.Result())

	// A successful one drops it.
	require.NoError(t, s.Navigate(Child(0)))
	assert.Nil(t, s.Result())
	assert.Nil(t, s.View().Census)
}

func TestCensusUnreadableCurrentDirectory(t *testing.T) {
	s := NewSession("s1", newFakeLister(), "/locked", Options{})

	v, err := s.CensusView(context.Background())
	require.NoError(t, err)
	require.NotNil(t, v.Census)
	assert.Equal(t, uint64(1), v.Census.Skipped)
	assert.Zero(t, v.Census.Directories)
	assert.Empty(t, v.Subdirectories)
}

func TestNavigationCancelsRunningCensus(t *testing.T) {
	l := newFakeLister()
	s := NewSession("s1", l, "/", Options{})

	var once sync.Once
	l.onRead = func(dir string) {
		if dir == "/home" {
			// Navigation arriving while the census is inside /home.
			once.Do(func() { require.NoError(t, s.Navigate(Child(0))) })
		}
	}

	acc, err := s.Census(context.Background())
	assert.Nil(t, acc)
	assert.ErrorIs(t, err, census.ErrCancelled)
	assert.Nil(t, s.Result())
	assert.Equal(t, "/home", s.Cursor().Path())
}

func TestEventsPublished(t *testing.T) {
	var (
		mu     sync.Mutex
		events []EventType
	)
	s := NewSession("s1", newFakeLister(), "/home", Options{
		Notify: func(e Event) {
			assert.Equal(t, "s1", e.SessionID)
			mu.Lock()
			events = append(events, e.Type)
			mu.Unlock()
		},
	})

	_, err := s.Census(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Navigate(Parent()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, EventCensusStarted, events[0])
	assert.Contains(t, events, EventCensusDone)
	assert.Equal(t, EventNavigated, events[len(events)-1])
}

func TestSessionOnLocalDisk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "f"), []byte("x"), 0o644))

	s := NewSession("local", mfs.NewLocalFS(), root, Options{})

	require.NoError(t, s.Navigate(Child(1)))
	v, err := s.CensusView(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "b"), v.Directory)
	assert.Equal(t, []string{"f"}, v.Files)
	assert.Equal(t, uint64(1), v.Census.Tiny)
	assert.Equal(t, uint64(1), v.Census.Directories)

	require.NoError(t, s.Navigate(Parent()))
	assert.Equal(t, root, s.Cursor().Path())
}

func TestSessionEntersLinkedDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "f"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link")))

	s := NewSession("local", mfs.NewLocalFS(), root, Options{})

	v, err := s.CensusView(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"link"}, v.Subdirectories)
	assert.Empty(t, v.Files)
	assert.Zero(t, v.Census.Tiny)

	require.NoError(t, s.Navigate(Child(0)))
	v, err = s.CensusView(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "link"), v.Directory)
	assert.Equal(t, []string{"f"}, v.Files)
	assert.Equal(t, uint64(1), v.Census.Tiny)
}
