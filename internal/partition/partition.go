// Package partition filters raw per-category QuickDraw files down to
// accepted records and splits them into bounded chunk files.
package partition

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"quickdraw-pipeline/internal/helper"
	"quickdraw-pipeline/internal/models"
)

type Options struct {
	// Source holds one raw file per category.
	Source string
	// Dest receives one folder per category.
	Dest string
	// Run must be set for anything to happen.
	Run       bool
	ChunkSize int
	Marker    string
	Ext       string
}

// CategoryReport summarizes one partitioned source file.
type CategoryReport struct {
	Category string   `json:"category"`
	Lines    int      `json:"lines"`
	Accepted int      `json:"accepted"`
	Files    []string `json:"files"`
}

type Report struct {
	Categories []CategoryReport `json:"categories"`
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.ChunkSize <= 0 {
		out.ChunkSize = models.ChunkSize
	}
	if out.Marker == "" {
		out.Marker = models.AcceptMarker
	}
	out.Ext = NormalizeExt(out.Ext)
	return out
}

// NormalizeExt returns ext with a leading dot, or the default extension
// when ext is empty.
func NormalizeExt(ext string) string {
	if ext == "" {
		return models.PartitionExt
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// Run partitions every regular file in opts.Source into
// opts.Dest/<name>/<name> <n><ext>. It does nothing unless opts.Run is set.
func Run(opts Options) (*Report, error) {
	if !opts.Run {
		log.Debug().Msg("Partition run flag not set, skipping")
		return nil, nil
	}
	o := opts.withDefaults()

	entries, err := os.ReadDir(o.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}
	if err := helper.CreateFolder(o.Dest); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		cr, err := partitionFile(filepath.Join(o.Source, e.Name()), o)
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("category", cr.Category).
			Int("lines", cr.Lines).
			Int("accepted", cr.Accepted).
			Int("chunks", len(cr.Files)).
			Msg("Partitioned category")
		report.Categories = append(report.Categories, cr)
	}
	return report, nil
}

func partitionFile(path string, o Options) (CategoryReport, error) {
	name := filepath.Base(path)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	cr := CategoryReport{Category: base}

	lines, accepted, err := acceptedLines(path, o.Marker)
	if err != nil {
		return cr, err
	}
	cr.Lines, cr.Accepted = lines, len(accepted)

	folder := filepath.Join(o.Dest, base)
	if err := helper.CreateFolder(folder); err != nil {
		return cr, err
	}
	if err := removeChunks(folder, base, o.Ext); err != nil {
		return cr, err
	}

	for i, chunk := range Chunks(accepted, o.ChunkSize) {
		out := filepath.Join(folder, ChunkName(base, i+1, o.Ext))
		if err := helper.WriteLines(out, chunk); err != nil {
			return cr, fmt.Errorf("failed to write chunk %s: %w", out, err)
		}
		cr.Files = append(cr.Files, out)
	}
	return cr, nil
}

// removeChunks deletes the chunk files an earlier run left in folder, so a
// smaller rerun cannot leave old chunks behind for the selector to pick.
func removeChunks(folder, category, ext string) error {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return fmt.Errorf("failed to read category folder: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsChunkName(e.Name(), category, ext) {
			continue
		}
		if err := os.Remove(filepath.Join(folder, e.Name())); err != nil {
			return fmt.Errorf("failed to remove old chunk: %w", err)
		}
		removed++
	}
	if removed > 0 {
		log.Debug().Str("folder", folder).Int("removed", removed).Msg("Removed old chunks")
	}
	return nil
}

// acceptedLines returns the number of lines in path and, in order, those
// containing marker.
func acceptedLines(path, marker string) (int, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	var (
		total int
		kept  []string
	)
	scanner := helper.NewLineScanner(f)
	for scanner.Scan() {
		total++
		line := scanner.Text()
		if Accept(line, marker) {
			kept = append(kept, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}
	return total, kept, nil
}

// Accept is a plain substring test. It also accepts lines where the marker
// only appears inside another field.
func Accept(line, marker string) bool {
	return strings.Contains(line, marker)
}

// Chunks splits lines into consecutive slices of at most size lines.
func Chunks(lines []string, size int) [][]string {
	if size <= 0 || len(lines) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(lines)+size-1)/size)
	for start := 0; start < len(lines); start += size {
		end := min(start+size, len(lines))
		chunks = append(chunks, lines[start:end])
	}
	return chunks
}

// ChunkName is the file name of the n-th (1-based) chunk of category.
func ChunkName(category string, n int, ext string) string {
	return category + " " + strconv.Itoa(n) + ext
}

// IsChunkName reports whether name is ChunkName(category, n, ext) for some
// n >= 1.
func IsChunkName(name, category, ext string) bool {
	rest, ok := strings.CutPrefix(name, category+" ")
	if !ok {
		return false
	}
	if rest, ok = strings.CutSuffix(rest, ext); !ok {
		return false
	}
	n, err := strconv.Atoi(rest)
	return err == nil && n >= 1 && strconv.Itoa(n) == rest
}
