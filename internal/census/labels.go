package census

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Labels returns a human-readable label per size bucket, built from the bucket limits.
func Labels() [NumBuckets]string {
	sizes := make([]string, len(limits))
	for i, limit := range limits {
		sizes[i] = humanize.IBytes(uint64(limit * MiB))
	}
	return [NumBuckets]string{
		"≤" + sizes[0],
		fmt.Sprintf("%s–%s", sizes[0], sizes[1]),
		fmt.Sprintf("%s–%s", sizes[1], sizes[2]),
		">" + sizes[2],
	}
}

// Summary describes the directory counts of an accumulator.
func Summary(a *Accumulator) string {
	return fmt.Sprintf("Directories: %d, skipped: %d", a.Directories(), a.Skipped())
}
