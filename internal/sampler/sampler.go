// Package sampler reads partition files concurrently and takes a
// wrap-around window of records from each.
package sampler

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"quickdraw-pipeline/internal/helper"
)

type Options struct {
	// Concurrency bounds simultaneous file reads; 0 means one goroutine per file.
	Concurrency int
}

// Window is the slice of records taken from one file.
type Window struct {
	Index   int      `json:"index"`
	Path    string   `json:"path"`
	Records []string `json:"records"`
	// Total is the number of non-empty lines in the file.
	Total int `json:"total"`
	// Clamped is set when fewer records than requested were available.
	Clamped bool  `json:"clamped"`
	Err     error `json:"-"`
}

type Result struct {
	// Records concatenates every window in input order.
	Records   []string `json:"records"`
	Windows   []Window `json:"windows"`
	Requested int      `json:"requested"`
	// Clamped is set when at least one window was clamped.
	Clamped bool `json:"clamped"`
}

// Failed returns the windows whose file could not be read.
func (r *Result) Failed() []Window {
	var out []Window
	for _, w := range r.Windows {
		if w.Err != nil {
			out = append(out, w)
		}
	}
	return out
}

// Total is the number of lines seen over every readable file.
func (r *Result) Total() int {
	n := 0
	for _, w := range r.Windows {
		n += w.Total
	}
	return n
}

func (r *Result) Status() string {
	return fmt.Sprintf("Read %d/%d", len(r.Records), r.Total())
}

// Sample reads every path concurrently and returns amount records per file
// starting at start, wrapping around the end of the file. A file that
// cannot be read contributes an empty window carrying its error; the other
// files are unaffected. The only error returned is ctx's.
func Sample(ctx context.Context, paths []string, amount, start int, opts Options) (*Result, error) {
	windows := make([]Window, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, path := range paths {
		g.Go(func() error {
			// Each task owns windows[i] and nothing else.
			w := Window{Index: i, Path: path}
			if err := gctx.Err(); err != nil {
				w.Err = err
				windows[i] = w
				return err
			}
			lines, err := readLines(path)
			if err != nil {
				w.Err = err
				windows[i] = w
				log.Debug().Err(err).Str("path", path).Msg("Failed to read partition file")
				return nil
			}
			w.Total = len(lines)
			w.Records, w.Clamped = Take(lines, amount, start)
			windows[i] = w
			log.Debug().Str("path", path).Int("lines", w.Total).Int("taken", len(w.Records)).Msg("Sampled partition file")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Windows: windows, Requested: amount}
	for _, w := range windows {
		res.Records = append(res.Records, w.Records...)
		res.Clamped = res.Clamped || w.Clamped
	}
	return res, nil
}

// Take returns min(amount, len(lines)) lines starting at start and wrapping
// modulo len(lines). clamped reports that amount exceeded len(lines).
func Take(lines []string, amount, start int) (window []string, clamped bool) {
	count := len(lines)
	effective := max(amount, 0)
	if effective > count {
		effective = count
		clamped = true
	}
	if effective == 0 {
		return nil, clamped
	}
	offset := start % count
	if offset < 0 {
		offset += count
	}
	window = make([]string, effective)
	for j := 0; j < effective; j++ {
		window[j] = lines[(offset+j)%count]
	}
	return window, clamped
}

// readLines returns the non-empty lines of path in order.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open partition file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := helper.NewLineScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read partition file %s: %w", path, err)
	}
	return lines, nil
}
