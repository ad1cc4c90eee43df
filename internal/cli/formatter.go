// Package cli formats census results for the command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/CageChen/dirscope/internal/census"
)

// TabSpacing is the number of spaces between tabwriter columns.
const TabSpacing = 2

// Result is the JSON shape of a census.
type Result struct {
	Directory   string                    `json:"directory"`
	Buckets     [census.NumBuckets]Bucket `json:"buckets"`
	Files       uint64                    `json:"files"`
	Directories uint64                    `json:"directories"`
	Skipped     uint64                    `json:"skipped"`
	Elapsed     time.Duration             `json:"elapsed"`
}

// Bucket is one size class with its file count.
type Bucket struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Count uint64 `json:"count"`
}

// NewResult collects an accumulator into a Result.
func NewResult(dir string, acc *census.Accumulator, elapsed time.Duration) Result {
	labels := census.Labels()
	r := Result{
		Directory:   dir,
		Files:       acc.TotalFiles(),
		Directories: acc.Directories(),
		Skipped:     acc.Skipped(),
		Elapsed:     elapsed,
	}
	for i := range r.Buckets {
		b := census.SizeBucket(i)
		r.Buckets[i] = Bucket{Name: b.String(), Label: labels[i], Count: acc.File(b)}
	}
	return r
}

// PrintJSON outputs the census in JSON format.
func PrintJSON(r Result, writer io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs the census in human-readable table format.
func PrintTable(r Result, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintf(w, "\nCensus of %s:\t\t\n", r.Directory)
	for _, b := range r.Buckets {
		pct := 0.0
		if r.Files > 0 {
			pct = 100.0 * float64(b.Count) / float64(r.Files)
		}
		fmt.Fprintf(w, "  %s\t%s\t%s files (%.1f%%)\n", b.Name, b.Label, humanize.Comma(int64(b.Count)), pct)
	}

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Total files:\t%s\t\n", humanize.Comma(int64(r.Files)))
	fmt.Fprintf(w, "Directories:\t%s\t\n", humanize.Comma(int64(r.Directories)))
	fmt.Fprintf(w, "Skipped:\t%s\t\n", humanize.Comma(int64(r.Skipped)))

	fmt.Fprintf(w, "\nElapsed:\t%v\t\n", r.Elapsed)

	return w.Flush()
}
