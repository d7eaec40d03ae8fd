package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"migrations/001_init.sql", "001"},
		{"/abs/dir/012_add_ratings_index.sql", "012"},
		{"003.sql", "003.sql"},
	}
	for _, tt := range tests {
		if got := MigrationVersion(tt.path); got != tt.want {
			t.Errorf("MigrationVersion(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPendingFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md", "010_c.sql"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "999_dir.sql"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := PendingFiles(dir)
	if err != nil {
		t.Fatalf("PendingFiles: %v", err)
	}
	want := []string{"001_a.sql", "002_b.sql", "010_c.sql"}
	if len(files) != len(want) {
		t.Fatalf("got %d files %v, want %v", len(files), files, want)
	}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, filepath.Base(f), want[i])
		}
	}
}

func TestPendingFilesMissingDirectory(t *testing.T) {
	if _, err := PendingFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
