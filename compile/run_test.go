package compile

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"xcss/common"
	"xcss/config"
	"xcss/state"
)

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	env.Cfg = cfg
	return ctx, env
}

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
	return dir
}

func ruleSource(selector string) string {
	return "rules:\n  - rule: [\"" + selector + "\", {color: red}]\n"
}

func TestProcess_NonExistentPath(t *testing.T) {
	ctx, env := setupTestEnv(t)

	err := process(ctx, "/nonexistent/path/site.yaml", t.TempDir(), env.Log)
	if err == nil {
		t.Fatal("Expected error for non-existent path, got nil")
	}
	if !strings.Contains(err.Error(), "input source was not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, env := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	dir := writeSources(t, map[string]string{"a.yaml": ruleSource(".a")})
	if err := process(cancelCtx, dir, t.TempDir(), env.Log); err != context.Canceled {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestProcess_SingleFile(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeSources(t, map[string]string{
		"site.yaml": `
name: main
rules:
  - import: _base.yaml
  - rule: [".btn", {extend: "%base"}, {padding: 1em}]
`,
		"_base.yaml": `
rules:
  - rule: ["%base", {color: blue}]
`,
	})
	dst := t.TempDir()

	if err := process(ctx, filepath.Join(src, "site.yaml"), dst, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "main.css"))
	if err != nil {
		t.Fatalf("output was not written: %v", err)
	}
	want := ".btn {\n  color: blue;\n}\n\n.btn {\n  padding: 1em;\n}\n"
	if string(data) != want {
		t.Errorf("got:\n%s\nwant:\n%s", data, want)
	}
}

func TestProcess_DirectoryToStdout(t *testing.T) {
	ctx, env := setupTestEnv(t)
	var out bytes.Buffer
	env.Stdout = &out
	env.Cfg.Compiler.Output.Style = common.OutputStyleCompressed

	dir := writeSources(t, map[string]string{
		"b10.yaml":      ruleSource(".b10"),
		"b2.yaml":       ruleSource(".b2"),
		"a.yml":         ruleSource(".a"),
		"_partial.yaml": ruleSource(".partial"),
		"notes.txt":     "not a source",
	})

	if err := process(ctx, dir, StdoutDestination, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	if got, want := out.String(), ".a{color:red}.b2{color:red}.b10{color:red}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProcess_Overwrite(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := filepath.Join(writeSources(t, map[string]string{"site.yaml": ruleSource(".a")}), "site.yaml")
	dst := t.TempDir()

	if err := process(ctx, src, dst, env.Log); err != nil {
		t.Fatalf("first process() error = %v", err)
	}
	if err := process(ctx, src, dst, env.Log); err == nil {
		t.Error("expected error when output exists")
	}

	env.Overwrite = true
	if err := process(ctx, src, dst, env.Log); err != nil {
		t.Errorf("process() with overwrite error = %v", err)
	}
}

func TestProcess_PartialFailure(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dir := writeSources(t, map[string]string{
		"bad.yaml":  "rules:\n  - rule: [\".a\", {extend: \".missing\"}]\n",
		"good.yaml": ruleSource(".good"),
	})
	dst := t.TempDir()

	err := process(ctx, dir, dst, env.Log)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "good.css")); err != nil {
		t.Errorf("good source must be compiled: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "bad.css")); !os.IsNotExist(err) {
		t.Errorf("failed source must not produce output: %v", err)
	}
}

func TestProcess_DebugReport(t *testing.T) {
	ctx, env := setupTestEnv(t)
	reportName := filepath.Join(t.TempDir(), "report.zip")
	rpt, err := (&config.ReporterConfig{Destination: reportName}).Prepare()
	if err != nil {
		t.Fatalf("unable to prepare report: %v", err)
	}
	env.Rpt = rpt

	src := filepath.Join(writeSources(t, map[string]string{"site.yaml": ruleSource(".a")}), "site.yaml")
	if err := process(ctx, src, t.TempDir(), env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("unable to close report: %v", err)
	}

	zr, err := zip.OpenReader(reportName)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[filepath.ToSlash(f.Name)] = true
	}
	for _, name := range []string{
		"stages/site/linearize-imports.txt",
		"stages/site/rule-inheritance.txt",
		"stages/site/cleanup.txt",
		"sources/site.yaml",
		"results/site.css",
	} {
		if !names[name] {
			t.Errorf("report does not contain %s", name)
		}
	}
}

func TestListSources_Empty(t *testing.T) {
	dir := writeSources(t, map[string]string{"_only.yaml": ruleSource(".a")})

	sources, err := listSources(dir)
	if err != nil {
		t.Fatalf("listSources() error = %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("expected no sources, got %v", sources)
	}
}

func writeBundle(t *testing.T, files [][2]string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "styles.zip")
	f, err := os.Create(name)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	w := zip.NewWriter(f)
	for _, file := range files {
		fw, err := w.Create(file[0])
		if err != nil {
			t.Fatalf("Failed to create %s in archive: %v", file[0], err)
		}
		if _, err := fw.Write([]byte(file[1])); err != nil {
			t.Fatalf("Failed to write %s: %v", file[0], err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestProcess_Bundle(t *testing.T) {
	ctx, env := setupTestEnv(t)
	var out bytes.Buffer
	env.Stdout = &out
	env.Cfg.Compiler.Output.Style = common.OutputStyleCompressed

	src := writeBundle(t, [][2]string{
		{"b10.yaml", ruleSource(".b10")},
		{"themes/dark.yaml", "rules:\n  - import: ../parts/_base.yaml\n  - rule: [\".dark\", {extend: \"%base\"}]\n"},
		{"parts/_base.yaml", "rules:\n  - rule: [\"%base\", {color: blue}]\n"},
		{"b2.yaml", ruleSource(".b2")},
		{"readme.txt", "not a source"},
	})

	if err := process(ctx, src, StdoutDestination, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	if got, want := out.String(), ".b2{color:red}.b10{color:red}.dark{color:blue}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProcess_BundleImportOutside(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Stdout = &bytes.Buffer{}

	src := writeBundle(t, [][2]string{
		{"site.yaml", "rules:\n  - import: ../outside.yaml\n"},
	})
	if err := os.WriteFile(filepath.Join(filepath.Dir(src), "outside.yaml"), []byte(ruleSource(".x")), 0644); err != nil {
		t.Fatal(err)
	}

	err := process(ctx, src, StdoutDestination, env.Log)
	if err == nil || !strings.Contains(err.Error(), "1 of 1") {
		t.Errorf("expected import outside of archive to fail, got %v", err)
	}
}
