package transform_test

import (
	"testing"

	"xcss/common"
	"xcss/css"
)

func render(t *testing.T, c css.RuleContainer) string {
	t.Helper()
	text, err := css.Printer{Style: common.OutputStyleCompact}.Text(css.Output{Kind: css.OutputKind, Tree: c})
	if err != nil {
		t.Fatalf("unable to print: %v", err)
	}
	return text
}

func ruleAt(t *testing.T, c css.RuleContainer, i int) *css.Rule {
	t.Helper()
	if i >= len(c.Rules()) {
		t.Fatalf("expected at least %d rules, got %d", i+1, len(c.Rules()))
	}
	rule, ok := c.Rules()[i].(*css.Rule)
	if !ok {
		t.Fatalf("rule %d is %s", i, c.Rules()[i].Kind())
	}
	return rule
}
