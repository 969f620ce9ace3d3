package archive

import (
	"archive/zip"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type zipEntry struct {
	name    string
	content string
}

func writeZip(t *testing.T, entries []zipEntry) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "bundle.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	if err := zipFile.Close(); err != nil {
		t.Fatalf("Failed to close zip file: %v", err)
	}
	return zipPath
}

func TestBundle_Walk(t *testing.T) {
	zipPath := writeZip(t, []zipEntry{
		{"main.yaml", "rules: []"},
		{"_base.yaml", "rules: []"},
		{"themes/dark.yml", "rules: []"},
		{"readme.txt", "text"},
	})

	b, err := Open(zipPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	var visited []string
	err = b.Walk(func(entry string) bool {
		return strings.HasSuffix(entry, ".yaml") || strings.HasSuffix(entry, ".yml")
	}, func(name string, file *zip.File) error {
		rel, err := filepath.Rel(b.Path(), name)
		if err != nil {
			t.Fatalf("Rel() error = %v", err)
		}
		if filepath.ToSlash(rel) != file.Name {
			t.Errorf("name %s does not match entry %s", rel, file.Name)
		}
		visited = append(visited, file.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"main.yaml", "_base.yaml", "themes/dark.yml"}
	if strings.Join(visited, ",") != strings.Join(want, ",") {
		t.Errorf("visited %v, want %v", visited, want)
	}
}

func TestBundle_WalkStopsOnError(t *testing.T) {
	zipPath := writeZip(t, []zipEntry{{"a.yaml", ""}, {"b.yaml", ""}})

	b, err := Open(zipPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	stop := errors.New("stop")
	count := 0
	err = b.Walk(func(string) bool { return true }, func(string, *zip.File) error {
		count++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("Walk() error = %v, want %v", err, stop)
	}
	if count != 1 {
		t.Errorf("walk function called %d times, want 1", count)
	}
}

func TestBundle_ReadFile(t *testing.T) {
	zipPath := writeZip(t, []zipEntry{
		{"main.yaml", "main"},
		{"parts/_colors.yaml", "colors"},
	})

	b, err := Open(zipPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "top level", path: filepath.Join(b.Path(), "main.yaml"), want: "main"},
		{name: "nested", path: filepath.Join(b.Path(), "parts", "_colors.yaml"), want: "colors"},
		{name: "relative up and back", path: filepath.Join(b.Path(), "parts", "..", "main.yaml"), want: "main"},
		{name: "missing", path: filepath.Join(b.Path(), "other.yaml"), wantErr: true},
		{name: "outside", path: filepath.Join(filepath.Dir(b.Path()), "main.yaml"), wantErr: true},
		{name: "archive itself", path: b.Path(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := b.ReadFile(tt.path)
			if tt.wantErr {
				if !errors.Is(err, fs.ErrNotExist) {
					t.Errorf("ReadFile() error = %v, want fs.ErrNotExist", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("ReadFile() = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestOpen_UnsafeEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{name: "path traversal", entry: "../evil.yaml"},
		{name: "nested traversal", entry: "parts/../../evil.yaml"},
		{name: "absolute", entry: "/etc/evil.yaml"},
		{name: "backslash absolute", entry: `\evil.yaml`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zipPath := writeZip(t, []zipEntry{{"main.yaml", ""}, {tt.entry, ""}})
			b, err := Open(zipPath)
			if err == nil {
				b.Close()
				t.Fatal("Open() expected error for unsafe entry")
			}
			if !strings.Contains(err.Error(), "unsafe path") {
				t.Errorf("Open() error = %v, want unsafe path error", err)
			}
		})
	}
}

func TestOpen_NotArchive(t *testing.T) {
	name := filepath.Join(t.TempDir(), "plain.zip")
	if err := os.WriteFile(name, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(name); err == nil {
		t.Error("Open() expected error for non zip file")
	}
}

func TestIsBundle(t *testing.T) {
	for name, want := range map[string]bool{
		"styles.zip":  true,
		"STYLES.ZIP":  true,
		"styles.yaml": false,
		"zip":         false,
	} {
		if got := IsBundle(name); got != want {
			t.Errorf("IsBundle(%q) = %v, want %v", name, got, want)
		}
	}
}
