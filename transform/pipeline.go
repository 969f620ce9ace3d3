package transform

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"xcss/common"
	"xcss/css"
)

// Stage names as reported to hooks and logs.
const (
	StageLinearize = "linearize-imports"
	StageInherit   = "rule-inheritance"
	StageCleanup   = "cleanup"
)

// Pipeline runs compilation transforms in fixed order.
type Pipeline struct {
	log     *zap.Logger
	imports common.CycleMode
	hook    func(stage string, sheet *css.Stylesheet)
}

type Option func(*Pipeline)

// WithImportDiagnostics controls whether skipped imports are logged.
func WithImportDiagnostics(mode common.CycleMode) Option {
	return func(p *Pipeline) {
		p.imports = mode
	}
}

// WithStageHook sets function to be called with result of every stage.
func WithStageHook(fn func(stage string, sheet *css.Stylesheet)) Option {
	return func(p *Pipeline) {
		p.hook = fn
	}
}

func NewPipeline(log *zap.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{
		log:  log.Named("pipeline"),
		hook: func(string, *css.Stylesheet) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run compiles sheet. Either the whole pipeline succeeds or there is no
// result, errors are only prefixed with the failing stage name.
func (p *Pipeline) Run(sheet *css.Stylesheet) (*css.Stylesheet, error) {
	start := time.Now()

	out := Linearize(sheet, WithSkipHandler(func(ref *css.StylesheetRef, reason SkipReason) {
		if p.imports.Report() || reason == SkipUnbound {
			p.log.Warn("Import skipped", zap.Stringer("import", ref), zap.Stringer("reason", reason))
		}
	}))
	p.done(StageLinearize, out, start)

	start = time.Now()
	out, err := ResolveExtends(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageInherit, err)
	}
	p.done(StageInherit, out, start)

	start = time.Now()
	out = Cleanup(out)
	p.done(StageCleanup, out, start)
	return out, nil
}

func (p *Pipeline) done(stage string, sheet *css.Stylesheet, start time.Time) {
	if ce := p.log.Check(zap.DebugLevel, "Stage completed"); ce != nil {
		ce.Write(zap.String("stage", stage), zap.Int("rules", countRules(sheet)), zap.Duration("elapsed", time.Since(start)))
	}
	p.hook(stage, sheet)
}

// Compile runs pipeline and hands result over to the printer.
func (p *Pipeline) Compile(sheet *css.Stylesheet, printer css.Printer, w io.Writer) error {
	out, err := p.Run(sheet)
	if err != nil {
		return err
	}
	if _, err := printer.Print(w, css.Output{Kind: css.OutputKind, Tree: out}); err != nil {
		return fmt.Errorf("unable to print stylesheet: %w", err)
	}
	return nil
}

func countRules(c css.RuleContainer) int {
	n := 0
	css.Deep(c).Walk(func(css.RuleNode, int, css.RuleContainer) { n++ })
	return n
}
