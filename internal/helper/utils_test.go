package helper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteLines(p, []string{"a", "b c", ""}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "a\nb c\n\n" {
		t.Fatalf("unexpected content %q", b)
	}
}

func TestNewLineScannerLongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	s := NewLineScanner(strings.NewReader(long + "\nshort\n"))
	var got []int
	for s.Scan() {
		got = append(got, len(s.Text()))
	}
	if err := s.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 2 || got[0] != len(long) || got[1] != 5 {
		t.Fatalf("unexpected line lengths %v", got)
	}
}

func TestCreateFolderNested(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := CreateFolder(p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
		t.Fatalf("folder missing: %v", err)
	}
}

func TestGenerateUUID(t *testing.T) {
	a, err := GenerateUUID()
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}
	b, _ := GenerateUUID()
	if len(a) != 36 || a == b {
		t.Fatalf("unexpected ids %q %q", a, b)
	}
}
