package transform

import (
	"xcss/css"
)

// SkipReason tells why an import directive contributed no rules.
type SkipReason int

const (
	// SkipIncluded - referenced stylesheet was already included, either
	// because of import cycle or because it was imported before.
	SkipIncluded SkipReason = iota
	// SkipUnbound - import references stylesheet which was never bound.
	SkipUnbound
)

func (r SkipReason) String() string {
	if r == SkipUnbound {
		return "unbound"
	}
	return "already included"
}

type linearizer struct {
	seen   map[*css.Stylesheet]struct{}
	onSkip func(ref *css.StylesheetRef, reason SkipReason)
}

type LinearizeOption func(*linearizer)

// WithSkipHandler sets function called for every import which was dropped
// without contributing any rules.
func WithSkipHandler(fn func(ref *css.StylesheetRef, reason SkipReason)) LinearizeOption {
	return func(l *linearizer) {
		l.onSkip = fn
	}
}

// WithIncluded marks stylesheets as already included, their imports will be
// skipped.
func WithIncluded(sheets ...*css.Stylesheet) LinearizeOption {
	return func(l *linearizer) {
		for _, s := range sheets {
			l.seen[s] = struct{}{}
		}
	}
}

// Linearize replaces every import directive in c (at any depth) with fully
// linearized rules of the referenced stylesheet. Every stylesheet is included
// at most once, when c is a stylesheet it counts as included from the start,
// so self import does not duplicate its rules.
func Linearize[T css.RuleContainer](c T, opts ...LinearizeOption) T {
	css.MustBeIntact(c)

	l := &linearizer{
		seen:   make(map[*css.Stylesheet]struct{}),
		onSkip: func(*css.StylesheetRef, SkipReason) {},
	}
	for _, opt := range opts {
		opt(l)
	}
	if s, ok := css.RuleContainer(c).(*css.Stylesheet); ok {
		l.seen[s] = struct{}{}
	}
	return l.linearize(c).(T)
}

func (l *linearizer) linearize(c css.RuleContainer) css.RuleContainer {
	return css.Deep(c).FlatMap(func(rule css.RuleNode, _ int, _ css.RuleContainer) []css.RuleNode {
		imp, ok := rule.(*css.Import)
		if !ok {
			return []css.RuleNode{rule}
		}
		sheet := imp.Ref.Stylesheet()
		if sheet == nil {
			l.onSkip(imp.Ref, SkipUnbound)
			return nil
		}
		if _, seen := l.seen[sheet]; seen {
			l.onSkip(imp.Ref, SkipIncluded)
			return nil
		}
		l.seen[sheet] = struct{}{}
		css.MustBeIntact(sheet)
		return l.linearize(sheet).Rules()
	})
}
