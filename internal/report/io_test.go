package report

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestReadTextDropsBOMAndReplacesInvalidBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa.c:1:TODO \xff\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if want := "a.c:1:TODO �\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSaveWithCreatesParentAndReportsWriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	if err := SaveWith(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "hello" {
		t.Fatalf("unexpected content %q (err %v)", b, err)
	}

	boom := errors.New("boom")
	if err := SaveWith(path, func(io.Writer) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected write error to propagate, got %v", err)
	}
}

func TestSaveRejectsEmptyPath(t *testing.T) {
	if err := Save("", nil); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
