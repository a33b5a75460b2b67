package sampler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%d", prefix, i)
	}
	return out
}

func TestTakeWraps(t *testing.T) {
	lines := numbered("r", 5)
	cases := []struct {
		amount, start int
		want          []string
		clamped       bool
	}{
		{amount: 3, start: 0, want: []string{"r-0", "r-1", "r-2"}},
		{amount: 3, start: 4, want: []string{"r-4", "r-0", "r-1"}},
		{amount: 2, start: 12, want: []string{"r-2", "r-3"}},
		{amount: 2, start: -1, want: []string{"r-4", "r-0"}},
		{amount: 5, start: 2, want: []string{"r-2", "r-3", "r-4", "r-0", "r-1"}},
		{amount: 9, start: 1, want: []string{"r-1", "r-2", "r-3", "r-4", "r-0"}, clamped: true},
		{amount: 0, start: 1, want: nil},
		{amount: -3, start: 1, want: nil},
	}
	for _, tc := range cases {
		got, clamped := Take(lines, tc.amount, tc.start)
		if !reflect.DeepEqual(got, tc.want) || clamped != tc.clamped {
			t.Fatalf("Take(%d,%d) = %v,%v want %v,%v", tc.amount, tc.start, got, clamped, tc.want, tc.clamped)
		}
	}
	if got, clamped := Take(nil, 2, 0); got != nil || !clamped {
		t.Fatalf("empty input: %v %v", got, clamped)
	}
}

func TestSampleDeterministicOrderAndLocalClamp(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	var want []string
	// One short file among long ones: its clamp must not shrink the others.
	for i := 0; i < 12; i++ {
		n := 50
		if i == 5 {
			n = 2
		}
		lines := numbered(fmt.Sprintf("f%d", i), n)
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("f%d.ndjson", i), lines))
		w, _ := Take(lines, 4, 1)
		want = append(want, w...)
	}

	for run := 0; run < 5; run++ {
		res, err := Sample(context.Background(), paths, 4, 1, Options{})
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		if !reflect.DeepEqual(res.Records, want) {
			t.Fatalf("run %d: records not in input order", run)
		}
		if !res.Clamped {
			t.Fatalf("expected aggregate clamp flag")
		}
		for i, w := range res.Windows {
			wantLen := 4
			if i == 5 {
				wantLen = 2
			}
			if len(w.Records) != wantLen || w.Clamped != (i == 5) {
				t.Fatalf("window %d: len=%d clamped=%v", i, len(w.Records), w.Clamped)
			}
		}
	}
}

func TestSampleSkipsEmptyLines(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.ndjson", []string{"a", "", "b", "", "c"})
	res, err := Sample(context.Background(), []string{p}, 3, 0, Options{Concurrency: 1})
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if !reflect.DeepEqual(res.Records, []string{"a", "b", "c"}) || res.Windows[0].Total != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Status() != "Read 3/3" {
		t.Fatalf("status = %q", res.Status())
	}
}

func TestSampleUnreadableFileIsIsolated(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.ndjson", numbered("g", 3))
	missing := filepath.Join(dir, "missing.ndjson")

	res, err := Sample(context.Background(), []string{missing, good}, 2, 0, Options{})
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if !reflect.DeepEqual(res.Records, []string{"g-0", "g-1"}) {
		t.Fatalf("unexpected records %v", res.Records)
	}
	failed := res.Failed()
	if len(failed) != 1 || failed[0].Path != missing || !errors.Is(failed[0].Err, os.ErrNotExist) {
		t.Fatalf("unexpected failures %+v", failed)
	}
	if res.Clamped {
		t.Fatalf("unreadable file must not count as clamped")
	}
}

func TestSampleCanceled(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.ndjson", numbered("a", 3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Sample(ctx, []string{p, p}, 1, 0, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSampleNoPaths(t *testing.T) {
	res, err := Sample(context.Background(), nil, 3, 0, Options{})
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(res.Records) != 0 || res.Clamped {
		t.Fatalf("unexpected result %+v", res)
	}
}
