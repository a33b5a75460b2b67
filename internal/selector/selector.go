// Package selector picks one partition file per category with a seeded
// generator.
package selector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"quickdraw-pipeline/internal/partition"
	"quickdraw-pipeline/internal/rng"
)

var (
	ErrCategoryNotFound  = errors.New("category folder not found")
	ErrCategoryAmbiguous = errors.New("category folder is ambiguous")
	ErrCategoryEmpty     = errors.New("category folder has no partition files")
)

// Selection binds a category to one of its partition files.
type Selection struct {
	Category  string `json:"category"`
	Folder    string `json:"folder"`
	Path      string `json:"path"`
	Index     int    `json:"index"`
	FileCount int    `json:"file_count"`
}

// Select resolves, for each category in order, its folder under root and
// draws a partition index in [1, fileCount] from src. Any lookup failure
// aborts the whole call.
func Select(root string, categories []string, src rng.Source, ext string) ([]Selection, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read root directory: %w", err)
	}
	ext = partition.NormalizeExt(ext)

	out := make([]Selection, 0, len(categories))
	for _, category := range categories {
		folder, err := findFolder(abs, entries, category)
		if err != nil {
			return nil, err
		}
		count, err := countChunks(folder, category, ext)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: %q", ErrCategoryEmpty, category)
		}
		index := src.Intn(count) + 1
		sel := Selection{
			Category:  category,
			Folder:    folder,
			Path:      filepath.Join(folder, partition.ChunkName(category, index, ext)),
			Index:     index,
			FileCount: count,
		}
		log.Debug().Str("category", category).Int("index", index).Int("files", count).Msg("Selected partition")
		out = append(out, sel)
	}
	return out, nil
}

// Paths returns the selected paths in selection order.
func Paths(sel []Selection) []string {
	paths := make([]string, len(sel))
	for i, s := range sel {
		paths[i] = s.Path
	}
	return paths
}

func findFolder(root string, entries []os.DirEntry, category string) (string, error) {
	if category == "" || strings.ContainsAny(category, `*?[\/`) || category == "." || category == ".." {
		return "", fmt.Errorf("%w: %q", ErrCategoryAmbiguous, category)
	}
	var matches []string
	for _, e := range entries {
		if e.IsDir() && e.Name() == category {
			matches = append(matches, filepath.Join(root, e.Name()))
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q under %s", ErrCategoryNotFound, category, root)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d folders", ErrCategoryAmbiguous, category, len(matches))
	}
}

// countChunks counts the chunk files of category directly inside dir.
// Other files and subfolders are ignored.
func countChunks(dir, category, ext string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read category folder: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() && partition.IsChunkName(e.Name(), category, ext) {
			n++
		}
	}
	return n, nil
}
