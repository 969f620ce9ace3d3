package css

import "slices"

// Seq is a view over one ordered child collection of an owning node S. Every
// operation returns a new S, the owning node and the underlying slice are
// never modified. Operations act on direct children only, see Nested for the
// recursive variant.
type Seq[C any, S any] struct {
	items []C
	with  func([]C) S
}

// Items returns children. Returned slice must not be modified.
func (q Seq[C, S]) Items() []C {
	return q.items
}

func (q Seq[C, S]) Len() int {
	return len(q.items)
}

// Add returns a copy of the owner with items appended.
func (q Seq[C, S]) Add(items ...C) S {
	return q.with(slices.Concat(q.items, items))
}

// Filter returns a copy of the owner keeping only children for which fn
// returns true.
func (q Seq[C, S]) Filter(fn func(item C, i int) bool) S {
	out := make([]C, 0, len(q.items))
	for i, item := range q.items {
		if fn(item, i) {
			out = append(out, item)
		}
	}
	return q.with(out)
}

// Map returns a copy of the owner with every child replaced by fn result.
func (q Seq[C, S]) Map(fn func(item C, i int) C) S {
	out := make([]C, len(q.items))
	for i, item := range q.items {
		out[i] = fn(item, i)
	}
	return q.with(out)
}

// FlatMap returns a copy of the owner with every child replaced by zero or
// more children returned by fn.
func (q Seq[C, S]) FlatMap(fn func(item C, i int) []C) S {
	out := make([]C, 0, len(q.items))
	for i, item := range q.items {
		out = append(out, fn(item, i)...)
	}
	return q.with(out)
}

// Visitor callbacks of deep operations receive the rule, its index in the
// owning list and the owning container itself.
type (
	FilterFunc  func(rule RuleNode, i int, parent RuleContainer) bool
	MapFunc     func(rule RuleNode, i int, parent RuleContainer) RuleNode
	FlatMapFunc func(rule RuleNode, i int, parent RuleContainer) []RuleNode
)

// Nested is a view over a rule list which recurses into children that are
// rule containers themselves. Containers are rebuilt with the operation
// applied to their own children and are never passed to callbacks.
type Nested[S RuleContainer] struct {
	parent S
	items  []RuleNode
	with   func([]RuleNode) S
}

// Deep returns the recursive view for any rule container. Result of every
// operation has the same dynamic type as c.
func Deep(c RuleContainer) Nested[RuleContainer] {
	return Nested[RuleContainer]{parent: c, items: c.Rules(), with: c.WithRules}
}

// Add appends rules to the owner list. There is nothing to recurse into, so
// this is the same as the shallow variant.
func (n Nested[S]) Add(rules ...RuleNode) S {
	return n.with(slices.Concat(n.items, rules))
}

func (n Nested[S]) Filter(fn FilterFunc) S {
	return n.with(deepFilter(n.parent, n.items, fn))
}

func (n Nested[S]) Map(fn MapFunc) S {
	return n.with(deepMap(n.parent, n.items, fn))
}

func (n Nested[S]) FlatMap(fn FlatMapFunc) S {
	return n.with(deepFlatMap(n.parent, n.items, fn))
}

// Walk visits every rule which is not a rule container in document order.
func (n Nested[S]) Walk(fn func(rule RuleNode, i int, parent RuleContainer)) {
	walk(n.parent, n.items, fn)
}

func walk(parent RuleContainer, rules []RuleNode, fn func(RuleNode, int, RuleContainer)) {
	for i, r := range rules {
		if c, ok := r.(RuleContainer); ok {
			walk(c, c.Rules(), fn)
			continue
		}
		fn(r, i, parent)
	}
}

func deepFilter(parent RuleContainer, rules []RuleNode, fn FilterFunc) []RuleNode {
	out := make([]RuleNode, 0, len(rules))
	for i, r := range rules {
		if c, ok := r.(RuleContainer); ok {
			out = append(out, c.WithRules(deepFilter(c, c.Rules(), fn)).(RuleNode))
			continue
		}
		if fn(r, i, parent) {
			out = append(out, r)
		}
	}
	return out
}

func deepMap(parent RuleContainer, rules []RuleNode, fn MapFunc) []RuleNode {
	out := make([]RuleNode, len(rules))
	for i, r := range rules {
		if c, ok := r.(RuleContainer); ok {
			out[i] = c.WithRules(deepMap(c, c.Rules(), fn)).(RuleNode)
			continue
		}
		out[i] = fn(r, i, parent)
	}
	return out
}

func deepFlatMap(parent RuleContainer, rules []RuleNode, fn FlatMapFunc) []RuleNode {
	out := make([]RuleNode, 0, len(rules))
	for i, r := range rules {
		if c, ok := r.(RuleContainer); ok {
			out = append(out, c.WithRules(deepFlatMap(c, c.Rules(), fn)).(RuleNode))
			continue
		}
		out = append(out, fn(r, i, parent)...)
	}
	return out
}
