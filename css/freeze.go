package css

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// fingerprint is recorded by debug builds when stylesheet is created. Nodes are
// never supposed to be modified after construction, but slices returned by
// accessors are not copied, so nothing prevents a careless caller from writing
// into them. Debug builds detect this.
type fingerprint struct {
	sum    uint64
	frozen bool
}

// MustBeIntact panics when c is a stylesheet which was modified after
// construction. Release builds never record fingerprints, so this is a no-op
// there.
func MustBeIntact(c RuleContainer) {
	s, ok := c.(*Stylesheet)
	if !ok || !s.guard.frozen {
		return
	}
	if sum := digest(s); sum != s.guard.sum {
		panic(fmt.Sprintf("stylesheet was modified after construction: fingerprint %x, now %x", s.guard.sum, sum))
	}
}

// digest hashes everything owned by the stylesheet. Imported stylesheets are
// guarded on their own, only reference identity is hashed for them.
func digest(s *Stylesheet) uint64 {
	d := xxhash.New()
	w := func(parts ...string) {
		for _, p := range parts {
			d.WriteString(strconv.Itoa(len(p)))
			d.WriteString(":")
			d.WriteString(p)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(s.vars)) {
		w("var", k, s.vars[k])
	}

	var decls func([]DeclNode)
	decls = func(list []DeclNode) {
		for _, n := range list {
			switch d := n.(type) {
			case *Declaration:
				w("decl", d.Property, d.Value)
			case *Extend:
				w("extend", d.Selector)
			}
		}
	}

	var rules func([]RuleNode)
	rules = func(list []RuleNode) {
		w("[", strconv.Itoa(len(list)))
		for _, n := range list {
			w(n.Kind().String())
			switch r := n.(type) {
			case *Rule:
				w(r.selectors...)
				decls(r.declarations)
			case *Page:
				w(r.selectors...)
				decls(r.declarations)
			case *Media:
				w(r.Query)
			case *Supports:
				w(r.Condition)
			case *Document:
				w(r.Condition, r.Vendor)
			case *Keyframes:
				w(r.Name, r.Vendor)
				for _, k := range r.keyframes {
					w(k.values...)
					decls(k.declarations)
				}
			case *Import:
				w(fmt.Sprintf("%p", r.Ref))
			case *ImportURL:
				w(r.URL, r.Media)
			case *Charset:
				w(r.Charset)
			case *Namespace:
				w(r.Namespace)
			}
			if c, ok := n.(RuleContainer); ok {
				rules(c.Rules())
			}
		}
		w("]")
	}
	rules(s.rules)
	return d.Sum64()
}
