package transcript

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestRecordTruncatesThenAppends(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}

	path := filepath.Join(dir, "tool_sub.txt")
	if err := os.WriteFile(path, []byte("stale from last run\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := rec.Record("tool sub", "first"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := rec.Record("tool sub", "second"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("transcript = %q, want stale content replaced then appended", string(data))
	}
}

func TestRecordResetTruncatesAgain(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir)
	if err != nil {
		t.Fatal(err)
	}

	rec.Record("tool", "one")
	rec.Reset()
	rec.Record("tool", "two")

	data, err := os.ReadFile(filepath.Join(dir, "tool.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two\n" {
		t.Errorf("transcript = %q, want %q", string(data), "two\n")
	}
}

func TestRecordConcurrent(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := rec.Record("tool shared", "line"); err != nil {
				t.Errorf("Record() error = %v", err)
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(dir, "tool_shared.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 8*len("line\n") {
		t.Errorf("transcript length = %d, want %d", len(data), 8*len("line\n"))
	}
}

func TestFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"git", "git.txt"},
		{"git remote add", "git_remote_add.txt"},
	}
	for _, tc := range cases {
		if got := FileName(tc.in); got != tc.want {
			t.Errorf("FileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewRecorderCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "transcripts")
	if _, err := NewRecorder(dir); err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected directory to exist: %v", err)
	}
}
