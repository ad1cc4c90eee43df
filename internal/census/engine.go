package census

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	mfs "github.com/CageChen/dirscope/internal/fs"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// ErrCancelled is returned when a census is interrupted before it completes.
var ErrCancelled = errors.New("census cancelled")

// Progress is a snapshot of a running census.
type Progress struct {
	Directories int64 `json:"directories"`
	Files       int64 `json:"files"`
}

// Options configures a census run.
type Options struct {
	// Progress, when set, receives running totals every ProgressInterval.
	Progress         func(Progress)
	ProgressInterval time.Duration
}

// Engine walks directory trees depth-first and aggregates an Accumulator
// per subtree.
type Engine struct {
	lister mfs.Lister
	opts   Options
}

// NewEngine creates an engine that enumerates directories through lister.
func NewEngine(lister mfs.Lister, opts Options) *Engine {
	return &Engine{lister: lister, opts: opts}
}

// counters tracks running totals for progress reports.
type counters struct {
	dirs  atomic.Int64
	files atomic.Int64
}

func (c *counters) snapshot() Progress {
	return Progress{Directories: c.dirs.Load(), Files: c.files.Load()}
}

// Census counts every file under dir. The directory itself counts as one
// visited directory, or as one skipped directory if it cannot be read.
//
// Cancellation is observed once per directory level, so a cancelled census
// may still list one more directory before returning ErrCancelled. No
// partial counts are returned.
func (e *Engine) Census(ctx context.Context, dir string) (*Accumulator, error) {
	c := &counters{}

	runCtx, stop := context.WithCancel(ctx)
	done := e.startProgressReporter(runCtx, c)
	defer func() {
		stop()
		<-done
	}()

	root, err := e.traverse(ctx, dir, c)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	total := NewAccumulator()
	total.Merge(root)

	// The reporter must have exited so the final snapshot is the last call.
	stop()
	<-done
	if e.opts.Progress != nil {
		e.opts.Progress(c.snapshot())
	}
	return total, nil
}

// startProgressReporter invokes the progress hook on each tick until ctx is
// done. The returned channel is closed once the reporter has exited.
func (e *Engine) startProgressReporter(ctx context.Context, c *counters) <-chan struct{} {
	done := make(chan struct{})
	if e.opts.Progress == nil {
		close(done)
		return done
	}

	interval := e.opts.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				e.opts.Progress(c.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()

	return done
}

func (e *Engine) traverse(ctx context.Context, dir string, c *counters) (*Accumulator, error) {
	acc := NewAccumulator()

	entries, err := e.lister.ReadDir(dir)
	if err != nil {
		acc.MarkSkipped()
		return acc, nil
	}
	c.dirs.Add(1)

	subdirs, files := mfs.Split(entries)
	for _, sub := range subdirs {
		// Linked directories are neither followed nor counted.
		if sub.Symlink {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		child, err := e.traverse(ctx, e.lister.Join(dir, sub.Name), c)
		if err != nil {
			return nil, err
		}
		acc.Merge(child)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	for _, f := range files {
		acc.AddFile(f.Size)
	}
	c.files.Add(int64(len(files)))

	return acc, nil
}
