package browse

import (
	"log"

	"github.com/CageChen/dirscope/internal/census"
	mfs "github.com/CageChen/dirscope/internal/fs"
)

// RootName is the directory name shown above the filesystem roots.
const RootName = "Root"

// CensusView is the presentation of a completed census.
type CensusView struct {
	SizeLimits  []string `json:"sizeLimits"`
	Tiny        uint64   `json:"tinyFileCount"`
	Small       uint64   `json:"smallFileCount"`
	Big         uint64   `json:"bigFileCount"`
	Huge        uint64   `json:"hugeFileCount"`
	Directories uint64   `json:"directories"`
	Skipped     uint64   `json:"skipped"`
	Summary     string   `json:"dirCount"`
}

// NewCensusView formats an accumulator for display.
func NewCensusView(acc *census.Accumulator) *CensusView {
	labels := census.Labels()
	return &CensusView{
		SizeLimits:  labels[:],
		Tiny:        acc.File(census.Tiny),
		Small:       acc.File(census.Small),
		Big:         acc.File(census.Big),
		Huge:        acc.File(census.Huge),
		Directories: acc.Directories(),
		Skipped:     acc.Skipped(),
		Summary:     census.Summary(acc),
	}
}

// View is what a client sees of its session.
type View struct {
	Directory      string      `json:"directoryName"`
	AboveRoot      bool        `json:"diskRoot"`
	Subdirectories []string    `json:"subdirectories"`
	Files          []string    `json:"files"`
	Census         *CensusView `json:"census"`
}

// View lists the current location and attaches the stored census, if any.
// Listing failures are logged and yield empty lists.
func (s *Session) View() *View {
	s.touch()

	s.mu.Lock()
	cur := s.cursor
	result := s.result
	s.mu.Unlock()

	v := &View{
		Subdirectories: []string{},
		Files:          []string{},
	}
	if result != nil {
		v.Census = NewCensusView(result)
	}

	if cur.IsAboveRoot() {
		v.Directory = RootName
		v.AboveRoot = true
		volumes, err := s.lister.Volumes()
		if err != nil {
			log.Printf("Warning: cannot list volumes: %v", err)
			return v
		}
		for _, vol := range volumes {
			v.Subdirectories = append(v.Subdirectories, vol.Name)
		}
		return v
	}

	v.Directory = s.lister.DisplayName(cur.Path())
	entries, err := s.lister.ReadDir(cur.Path())
	if err != nil {
		log.Printf("Warning: cannot list %s: %v", v.Directory, err)
		return v
	}
	dirs, files := mfs.Split(entries)
	for _, d := range dirs {
		v.Subdirectories = append(v.Subdirectories, d.Name)
	}
	for _, f := range files {
		v.Files = append(v.Files, f.Name)
	}
	return v
}
