package transform_test

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"xcss/common"
	"xcss/css"
	"xcss/transform"
)

func TestPipeline_Placeholders(t *testing.T) {
	sheet := css.NewStylesheet(nil,
		css.MustRule("%base", css.Decl("color", "blue")),
		css.MustRule(".foo", css.ExtendOf("%base")),
	)

	var buf bytes.Buffer
	err := transform.NewPipeline(zaptest.NewLogger(t)).Compile(sheet, css.Printer{}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), ".foo {\n  color: blue;\n}\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPipeline_StagesInOrder(t *testing.T) {
	theme := css.NewStylesheet(nil, css.MustRule("%theme", css.Decl("color", "red")))
	sheet := css.NewStylesheet(nil,
		css.ImportSheet(theme),
		css.MustRule(".a", css.ExtendOf("%theme"), css.Decl("margin", "0")),
	)
	before := css.Dump(sheet)

	var stages []string
	p := transform.NewPipeline(zaptest.NewLogger(t), transform.WithStageHook(func(stage string, _ *css.Stylesheet) {
		stages = append(stages, stage)
	}))
	out, err := p.Run(sheet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{transform.StageLinearize, transform.StageInherit, transform.StageCleanup}
	if !slices.Equal(stages, want) {
		t.Errorf("stages = %v, want %v", stages, want)
	}
	if got, want := render(t, out), ".a { color: red; }\n.a { margin: 0; }\n"; got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if css.Dump(sheet) != before {
		t.Error("input stylesheet modified")
	}
}

func TestPipeline_Error(t *testing.T) {
	sheet := css.NewStylesheet(nil, css.MustRule(".a", css.ExtendOf(".nope")))

	var stages []string
	p := transform.NewPipeline(nil, transform.WithStageHook(func(stage string, _ *css.Stylesheet) {
		stages = append(stages, stage)
	}))
	out, err := p.Run(sheet)

	if !errors.Is(err, transform.ErrUnknownExtendTarget) {
		t.Fatalf("expected ErrUnknownExtendTarget, got %v", err)
	}
	if out != nil {
		t.Error("expected no result")
	}
	if !slices.Equal(stages, []string{transform.StageLinearize}) {
		t.Errorf("stages = %v", stages)
	}

	var buf bytes.Buffer
	if err := p.Compile(sheet, css.Printer{}, &buf); err == nil || buf.Len() != 0 {
		t.Errorf("expected error and no output, got %v and %q", err, buf.String())
	}
}

func TestPipeline_ImportDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		mode  common.CycleMode
		warns int
	}{
		{"ignore", common.CycleModeIgnore, 1},
		{"warn", common.CycleModeWarn, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := css.NewRef("self")
			sheet := css.NewStylesheet(nil,
				css.ImportOf(ref),
				css.ImportOf(css.NewRef("unbound")),
				css.MustRule(".a", css.Decl("color", "red")),
			)
			if err := ref.Bind(sheet); err != nil {
				t.Fatal(err)
			}

			core, logs := observer.New(zapcore.DebugLevel)
			p := transform.NewPipeline(zap.New(core), transform.WithImportDiagnostics(tt.mode))
			if _, err := p.Run(sheet); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := logs.FilterLevelExact(zapcore.WarnLevel).Len(); got != tt.warns {
				t.Errorf("got %d warnings, want %d", got, tt.warns)
			}
			if got := logs.FilterMessage("Stage completed").Len(); got != 3 {
				t.Errorf("got %d stage messages, want 3", got)
			}
		})
	}
}
