package selector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"quickdraw-pipeline/internal/rng"
)

func layout(t *testing.T, counts map[string]int) string {
	t.Helper()
	root := t.TempDir()
	for cat, n := range counts {
		dir := filepath.Join(root, cat)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		for i := 1; i <= n; i++ {
			p := filepath.Join(dir, fmt.Sprintf("%s %d.ndjson", cat, i))
			if err := os.WriteFile(p, []byte("x\n"), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
		}
	}
	return root
}

func TestSelectReproducible(t *testing.T) {
	root := layout(t, map[string]int{"cat": 7, "aircraft carrier": 3, "house": 12})
	cats := []string{"house", "cat", "aircraft carrier", "cat"}

	first, err := Select(root, cats, rng.NewCompat(11), ".ndjson")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	for run := 0; run < 3; run++ {
		again, err := Select(root, cats, rng.NewCompat(11), ".ndjson")
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if !reflect.DeepEqual(Paths(first), Paths(again)) {
			t.Fatalf("run %d differs: %v vs %v", run, Paths(first), Paths(again))
		}
	}

	for i, s := range first {
		if s.Category != cats[i] {
			t.Fatalf("order not preserved at %d: %q", i, s.Category)
		}
		if s.Index < 1 || s.Index > s.FileCount {
			t.Fatalf("index %d outside [1,%d]", s.Index, s.FileCount)
		}
		want := filepath.Join(s.Folder, fmt.Sprintf("%s %d.ndjson", s.Category, s.Index))
		if s.Path != want || !filepath.IsAbs(s.Path) {
			t.Fatalf("path = %q, want %q", s.Path, want)
		}
		if _, err := os.Stat(s.Path); err != nil {
			t.Fatalf("selected file missing: %v", err)
		}
	}
}

func TestSelectSharesOneGenerator(t *testing.T) {
	root := layout(t, map[string]int{"cat": 100})
	// Two draws from one generator: the second category must not restart
	// the sequence.
	src := rng.NewCompat(42)
	sel, err := Select(root, []string{"cat", "cat"}, src, "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	ref := rng.NewCompat(42)
	want := []int{ref.Intn(100) + 1, ref.Intn(100) + 1}
	if sel[0].Index != want[0] || sel[1].Index != want[1] {
		t.Fatalf("indices %d,%d, want %v", sel[0].Index, sel[1].Index, want)
	}
}

func TestSelectErrors(t *testing.T) {
	root := layout(t, map[string]int{"cat": 2, "empty": 0})
	cases := []struct {
		name string
		cats []string
		want error
	}{
		{"missing", []string{"cat", "dog"}, ErrCategoryNotFound},
		{"wildcard", []string{"c*"}, ErrCategoryAmbiguous},
		{"separator", []string{"cat/.."}, ErrCategoryAmbiguous},
		{"empty name", []string{""}, ErrCategoryAmbiguous},
		{"no files", []string{"empty"}, ErrCategoryEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := Select(root, tc.cats, rng.NewCompat(1), ".ndjson")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if sel != nil {
				t.Fatalf("no partial selection expected, got %v", sel)
			}
		})
	}
}

func TestSelectIgnoresSubfoldersAndStrayFiles(t *testing.T) {
	root := layout(t, map[string]int{"cat": 1})
	if err := os.Mkdir(filepath.Join(root, "cat", "old"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"notes.txt", "cat 2.txt"} {
		if err := os.WriteFile(filepath.Join(root, "cat", name), []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	sel, err := Select(root, []string{"cat"}, rng.NewCompat(3), ".ndjson")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel[0].FileCount != 1 || sel[0].Index != 1 {
		t.Fatalf("unexpected selection %+v", sel[0])
	}
}
