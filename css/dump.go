package css

import (
	"xcss/utils/debug"
)

// Dump returns indented textual representation of the tree for debugging.
func Dump(n Node) string {
	tw := debug.NewTreeWriter()
	dumpNode(tw, n, 0)
	return tw.String()
}

func dumpNode(tw *debug.TreeWriter, n Node, depth int) {
	switch r := n.(type) {
	case *Stylesheet:
		tw.Line(depth, "stylesheet (%d rules, %d vars)", len(r.rules), len(r.vars))
	case *Media:
		tw.Line(depth, "media")
		tw.Field(depth+1, "query", r.Query)
	case *Supports:
		tw.Line(depth, "supports")
		tw.Field(depth+1, "condition", r.Condition)
	case *Document:
		tw.Line(depth, "document")
		tw.Field(depth+1, "condition", r.Condition)
		tw.Field(depth+1, "vendor", r.Vendor)
	case *Host:
		tw.Line(depth, "host")
	case *Keyframes:
		tw.Line(depth, "keyframes")
		tw.Field(depth+1, "name", r.Name)
		tw.Field(depth+1, "vendor", r.Vendor)
		for _, k := range r.keyframes {
			dumpNode(tw, k, depth+1)
		}
	case *Keyframe:
		tw.Line(depth, "keyframe")
		tw.List(depth+1, "values", r.values)
		dumpDecls(tw, r.declarations, depth+1)
	case *Rule:
		tw.Line(depth, "rule")
		tw.List(depth+1, "selectors", r.selectors)
		dumpDecls(tw, r.declarations, depth+1)
	case *Page:
		tw.Line(depth, "page")
		tw.List(depth+1, "selectors", r.selectors)
		dumpDecls(tw, r.declarations, depth+1)
	case *Import:
		tw.Line(depth, "import %s", r.Ref)
	case *ImportURL:
		tw.Line(depth, "import-url")
		tw.Field(depth+1, "url", r.URL)
		tw.Field(depth+1, "media", r.Media)
	case *Charset:
		tw.Field(depth, "charset", r.Charset)
	case *Namespace:
		tw.Field(depth, "namespace", r.Namespace)
	default:
		tw.Line(depth, "%s", n.Kind())
	}
	if c, ok := n.(RuleContainer); ok {
		for _, child := range c.Rules() {
			dumpNode(tw, child, depth+1)
		}
	}
}

func dumpDecls(tw *debug.TreeWriter, decls []DeclNode, depth int) {
	for _, n := range decls {
		switch d := n.(type) {
		case *Declaration:
			tw.Field(depth, d.Property, d.Value)
		case *Extend:
			tw.Field(depth, "@extend", d.Selector)
		}
	}
}
