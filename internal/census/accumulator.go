// Package census counts files by size bucket across a directory subtree.
package census

// MiB is the number of bytes in a mebibyte.
const MiB int64 = 1024 * 1024

// SizeBucket classifies a file by its size.
type SizeBucket int

// Size buckets, ordered from smallest to largest.
const (
	Tiny SizeBucket = iota
	Small
	Big
	Huge
)

// NumBuckets is the number of size buckets.
const NumBuckets = 4

// limits holds the inclusive upper boundaries, in MiB, of the Tiny, Small
// and Big buckets. Anything larger is Huge.
var limits = [NumBuckets - 1]int64{10, 50, 100}

// Limits returns the bucket boundaries in MiB.
func Limits() [NumBuckets - 1]int64 {
	return limits
}

func (b SizeBucket) String() string {
	switch b {
	case Tiny:
		return "tiny"
	case Small:
		return "small"
	case Big:
		return "big"
	case Huge:
		return "huge"
	default:
		return "unknown"
	}
}

// Classify returns the smallest bucket whose boundary size does not exceed.
func Classify(size int64) SizeBucket {
	for i, limit := range limits {
		if size <= limit*MiB {
			return SizeBucket(i)
		}
	}
	return Huge
}

// Accumulator holds the counts for one directory subtree.
type Accumulator struct {
	files      [NumBuckets]uint64
	dirs       uint64
	skipped    uint64
	unreadable bool
}

// NewAccumulator returns an accumulator with all counts zero.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// AddFile counts a file of the given size in its bucket.
func (a *Accumulator) AddFile(size int64) {
	a.files[Classify(size)]++
}

// Merge adds the counts of a child directory's accumulator. The child
// itself counts as one directory unless it could not be read, in which case
// only its skip is carried over. A nil child is ignored.
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil {
		return
	}
	for i := range a.files {
		a.files[i] += other.files[i]
	}
	if !other.unreadable {
		a.dirs += 1 + other.dirs
	}
	a.skipped += other.skipped
}

// MarkSkipped records that the directory this accumulator belongs to could
// not be enumerated.
func (a *Accumulator) MarkSkipped() {
	a.skipped++
	a.unreadable = true
}

// Unreadable reports whether the directory itself could not be enumerated.
func (a *Accumulator) Unreadable() bool {
	return a.unreadable
}

// Limits returns the bucket boundaries in MiB.
func (a *Accumulator) Limits() [NumBuckets - 1]int64 {
	return limits
}

// Files returns the per-bucket file counts.
func (a *Accumulator) Files() [NumBuckets]uint64 {
	return a.files
}

// File returns the file count of one bucket.
func (a *Accumulator) File(b SizeBucket) uint64 {
	if b < Tiny || b > Huge {
		return 0
	}
	return a.files[b]
}

// TotalFiles returns the number of files across all buckets.
func (a *Accumulator) TotalFiles() uint64 {
	var n uint64
	for _, c := range a.files {
		n += c
	}
	return n
}

// Directories returns the number of directories included in the subtree.
func (a *Accumulator) Directories() uint64 {
	return a.dirs
}

// Skipped returns the number of directories that could not be read.
func (a *Accumulator) Skipped() uint64 {
	return a.skipped
}
