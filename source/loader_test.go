package source_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"xcss/css"
	"xcss/source"
	"xcss/transform"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func compile(t *testing.T, sheet *css.Stylesheet) string {
	t.Helper()
	out, err := transform.NewPipeline(zaptest.NewLogger(t)).Run(sheet)
	if err != nil {
		t.Fatalf("unable to compile: %v", err)
	}
	text, err := css.Printer{}.Text(css.Output{Kind: css.OutputKind, Tree: out})
	if err != nil {
		t.Fatalf("unable to print: %v", err)
	}
	return text
}

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"site.yaml": `
name: site
vars: {primary: red}
rules:
  - charset: utf-8
  - import: parts/base.yaml
  - rule: [".btn", ".link", {extend: "%base"}, {padding: 1em, margin: 0}]
  - media:
      query: print
      rules:
        - rule: [".btn", {display: none}]
  - keyframes:
      name: spin
      frames:
        - ["from", {opacity: 0}]
        - ["to", {opacity: 1}]
`,
		"parts/base.yaml": `
rules:
  - rule: ["%base", {color: blue}]
`,
	})

	f, err := source.NewLoader(zaptest.NewLogger(t)).Load(filepath.Join(dir, "site.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "site" {
		t.Errorf("name = %q", f.Name)
	}
	if v, ok := f.Sheet.Var("primary"); !ok || v != "red" {
		t.Errorf("primary = %q, %v", v, ok)
	}

	want := `@charset "utf-8";

.btn, .link {
  color: blue;
}

.btn, .link {
  padding: 1em;
  margin: 0;
}

@media print {
  .btn {
    display: none;
  }
}

@keyframes spin {
  from {
    opacity: 0;
  }
  to {
    opacity: 1;
  }
}
`
	if got := compile(t, f.Sheet); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLoad_CyclicImports(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.yaml": `
rules:
  - import: b.yaml
  - rule: [".a", {color: red}]
`,
		"b.yaml": `
rules:
  - import: a.yaml
  - rule: [".b", {color: blue}]
`,
	})

	f, err := source.NewLoader(zaptest.NewLogger(t)).Load(filepath.Join(dir, "a.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := compile(t, f.Sheet), ".b {\n  color: blue;\n}\n\n.a {\n  color: red;\n}\n"; got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLoad_SharesImportedFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"one.yaml":    "rules:\n  - import: common.yaml\n",
		"two.yaml":    "rules:\n  - import: common.yaml\n",
		"common.yaml": "rules:\n  - rule: [\".c\", {color: red}]\n",
	})

	var reads []string
	l := source.NewLoader(zaptest.NewLogger(t), source.WithReader(func(name string) ([]byte, error) {
		reads = append(reads, filepath.Base(name))
		return os.ReadFile(name)
	}))
	for _, name := range []string{"one.yaml", "two.yaml"} {
		if _, err := l.Load(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
	}

	if got := strings.Join(reads, " "); got != "one.yaml common.yaml two.yaml" {
		t.Errorf("reads = %s", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		count    int
		contains []string
		is       error
	}{
		{
			name:     "selector after declaration",
			content:  "rules:\n  - rule: [\".a\", {color: red}, \".b\"]\n",
			count:    1,
			contains: []string{"bad.yaml", "rules[0]", "line 2"},
			is:       css.ErrSelectorAfterDeclaration,
		},
		{
			name:     "extend in page",
			content:  "rules:\n  - page: [\":first\", {extend: \".a\"}]\n",
			count:    1,
			contains: []string{"rules[0]"},
			is:       css.ErrExtendNotAllowed,
		},
		{
			name:     "unknown field",
			content:  "rules:\n  - media: {query: print, selector: x}\n",
			count:    1,
			contains: []string{"field selector not found"},
		},
		{
			name:     "several kinds",
			content:  "rules:\n  - charset: utf-8\n    namespace: svg\n",
			count:    1,
			contains: []string{"several kinds: charset, namespace"},
		},
		{
			name: "aggregated",
			content: `
rules:
  - {}
  - media:
      query: print
      rules:
        - rule: [{color: red}, ".x"]
  - keyframes:
      name: k
      frames:
        - ["from", {extend: ".x"}]
`,
			count:    3,
			contains: []string{"rules[0]: empty rule entry", "rules[1].media.rules[0]", "rules[2].keyframes.frames[0]"},
		},
		{
			name:     "missing import",
			content:  "rules:\n  - import: nowhere.yaml\n",
			count:    1,
			contains: []string{"nowhere.yaml: unable to read"},
			is:       fs.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"bad.yaml": tt.content})

			f, err := source.NewLoader(zaptest.NewLogger(t)).Load(filepath.Join(dir, "bad.yaml"))
			if err == nil {
				t.Fatal("expected error")
			}
			if f != nil {
				t.Error("expected no result")
			}
			if got := len(multierr.Errors(err)); got != tt.count {
				t.Errorf("got %d errors, want %d: %v", got, tt.count, err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(err.Error(), s) {
					t.Errorf("error %q does not contain %q", err, s)
				}
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected error to match %v", tt.is)
			}
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"empty.yaml": ""})

	f, err := source.NewLoader(nil).Load(filepath.Join(dir, "empty.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Sheet.Len() != 0 {
		t.Errorf("expected empty stylesheet, got %d rules", f.Sheet.Len())
	}
}

func TestLoad_ImportURL(t *testing.T) {
	dir := writeFiles(t, map[string]string{"urls.yaml": `
rules:
  - import_url: fonts.css
  - import_url: {url: print.css, media: print}
`})

	f, err := source.NewLoader(nil).Load(filepath.Join(dir, "urls.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := compile(t, f.Sheet), "@import url(\"fonts.css\");\n\n@import url(\"print.css\") print;\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
