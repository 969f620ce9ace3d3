package transform

import (
	"slices"

	"xcss/css"
)

// Cleanup removes placeholder selectors from every rule and then drops rules
// left without selectors or declarations. Grouping nodes are kept even when
// they become empty.
func Cleanup[T css.RuleContainer](c T) T {
	css.MustBeIntact(c)

	stripped := css.Deep(c).Map(func(node css.RuleNode, _ int, _ css.RuleContainer) css.RuleNode {
		rule, ok := node.(*css.Rule)
		if !ok || !slices.ContainsFunc(rule.Selectors(), css.IsPlaceholder) {
			return node
		}
		return rule.SelectorList().Filter(func(selector string, _ int) bool {
			return !css.IsPlaceholder(selector)
		})
	})
	return css.Deep(stripped).Filter(func(node css.RuleNode, _ int, _ css.RuleContainer) bool {
		rule, ok := node.(*css.Rule)
		if !ok {
			return true
		}
		return len(rule.Selectors()) > 0 && len(rule.Declarations()) > 0
	}).(T)
}
