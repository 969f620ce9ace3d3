package transform

import (
	"slices"

	"xcss/css"
)

// extendable is a rule registered in the selector index together with the
// container owning it.
type extendable struct {
	rule   *css.Rule
	parent css.RuleContainer
}

// policy describes how extension is realized for a pair of containers.
type policy int

const (
	// extended rule gets selectors of extending rule
	policySameScope policy = iota
	// extending rule is scoped, extended is not: declarations are copied
	// into extending rule, extended rule is left alone
	policyCopyDeclarations
	// extended rule lives in a different scope: extending rule is moved there
	// and extended rule gets its selectors
	policyMoveIntoScope
)

func policyFor(extending, extended css.RuleContainer) policy {
	switch {
	case extending == extended, !extending.Scoped() && !extended.Scoped():
		return policySameScope
	case extending.Scoped() && !extended.Scoped():
		return policyCopyDeclarations
	default:
		return policyMoveIntoScope
	}
}

type resolver struct {
	index map[string][]extendable
	// replacements keyed by original rule, only the latest one is kept
	current map[*css.Rule]*css.Rule
	// rules moved out of their containers and where they went
	moved   map[*css.Rule][]css.RuleContainer
	appends map[css.RuleContainer][]*css.Rule
}

// ResolveExtends resolves all extend directives in c. Rules are visited in
// document order descending into grouping nodes and every rule may only
// extend selectors declared before it (or reached through earlier
// extensions). Extension is transitive: when b extends a and c extends b, c
// selectors reach a as well.
//
// Extension respects scopes of grouping nodes. Within the same scope (or
// between unscoped containers) extended rule gets selectors of the extending
// one. Scoped rule extending unscoped one gets copy of its declarations
// instead, so that unscoped rule does not change. When extended rule is in a
// different scoped container, extending rule is moved to the end of that
// container and extended rule gets its selectors.
//
// Extend directives are removed from the result. Unknown extend target fails
// the whole resolution with *UnknownExtendError.
func ResolveExtends[T css.RuleContainer](c T) (T, error) {
	css.MustBeIntact(c)

	r := &resolver{
		index:   make(map[string][]extendable),
		current: make(map[*css.Rule]*css.Rule),
		moved:   make(map[*css.Rule][]css.RuleContainer),
		appends: make(map[css.RuleContainer][]*css.Rule),
	}

	var err error
	css.Deep(c).Walk(func(node css.RuleNode, _ int, parent css.RuleContainer) {
		rule, ok := node.(*css.Rule)
		if !ok || err != nil {
			return
		}
		err = r.visit(rule, parent)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return r.rebuild(c).(T), nil
}

func (r *resolver) latest(rule *css.Rule) *css.Rule {
	if n, ok := r.current[rule]; ok {
		return n
	}
	return rule
}

func (r *resolver) register(selector string, e extendable) {
	if slices.Contains(r.index[selector], e) {
		return
	}
	r.index[selector] = append(r.index[selector], e)
}

func (r *resolver) visit(rule *css.Rule, parent css.RuleContainer) error {
	self := extendable{rule: rule, parent: parent}
	for _, selector := range rule.Selectors() {
		r.register(selector, self)
	}
	if !rule.HasExtends() {
		return nil
	}

	decls := make([]css.DeclNode, 0, len(rule.Declarations()))
	for _, decl := range rule.Declarations() {
		ext, ok := decl.(*css.Extend)
		if !ok {
			decls = append(decls, decl)
			continue
		}
		targets, ok := r.index[ext.Selector]
		if !ok {
			return &UnknownExtendError{Selector: ext.Selector, Rule: rule.Selectors()}
		}
		for _, target := range targets {
			switch policyFor(parent, target.parent) {
			case policySameScope:
				r.addSelectors(target.rule, rule.Selectors())
			case policyCopyDeclarations:
				decls = append(decls, css.Declarations(r.latest(target.rule).Declarations())...)
			case policyMoveIntoScope:
				r.moveTo(rule, target.parent)
				r.addSelectors(target.rule, rule.Selectors())
			}
			// so that rules extending this one reach target too
			for _, selector := range rule.Selectors() {
				r.register(selector, target)
			}
		}
	}
	r.current[rule] = r.latest(rule).WithDeclarations(decls)
	return nil
}

// addSelectors appends selectors to the latest version of rule skipping those
// it already has.
func (r *resolver) addSelectors(rule *css.Rule, selectors []string) {
	cur := r.latest(rule)
	missing := make([]string, 0, len(selectors))
	for _, s := range selectors {
		if !slices.Contains(cur.Selectors(), s) && !slices.Contains(missing, s) {
			missing = append(missing, s)
		}
	}
	if len(missing) == 0 {
		return
	}
	r.current[rule] = cur.SelectorList().Add(missing...)
}

func (r *resolver) moveTo(rule *css.Rule, dst css.RuleContainer) {
	if slices.Contains(r.moved[rule], dst) {
		return
	}
	r.moved[rule] = append(r.moved[rule], dst)
	r.appends[dst] = append(r.appends[dst], rule)
}

// rebuild replaces every rule with its latest version, drops moved rules from
// their original place and appends them to containers they were moved to.
func (r *resolver) rebuild(c css.RuleContainer) css.RuleContainer {
	if len(r.moved) == 0 {
		return css.Deep(c).Map(func(node css.RuleNode, _ int, _ css.RuleContainer) css.RuleNode {
			if rule, ok := node.(*css.Rule); ok {
				return r.latest(rule)
			}
			return node
		})
	}

	rules := make([]css.RuleNode, 0, len(c.Rules()))
	for _, node := range c.Rules() {
		switch n := node.(type) {
		case *css.Rule:
			if _, moved := r.moved[n]; !moved {
				rules = append(rules, r.latest(n))
			}
		case css.RuleContainer:
			rules = append(rules, r.rebuild(n).(css.RuleNode))
		default:
			rules = append(rules, node)
		}
	}
	for _, rule := range r.appends[c] {
		rules = append(rules, r.latest(rule))
	}
	return c.WithRules(rules)
}
