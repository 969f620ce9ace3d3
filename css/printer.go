package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"xcss/common"
)

// OutputKind is the only kind of Output printer accepts.
const OutputKind = "stylesheet"

// Output is what pipeline hands over to the printer.
type Output struct {
	Kind string
	Tree RuleContainer
}

// Printer turns a compiled tree into CSS text. It does not know anything about
// extends or imports, tree must be compiled first.
type Printer struct {
	Style  common.OutputStyle
	Indent int // number of spaces per nesting level, 2 when not set
}

var ErrNotCompiled = errors.New("tree is not compiled")

// Print writes CSS text of out to w.
func (p Printer) Print(w io.Writer, out Output) (int64, error) {
	if out.Kind != OutputKind {
		return 0, fmt.Errorf("unsupported output kind %q", out.Kind)
	}
	if out.Tree == nil {
		return 0, errors.New("nothing to print")
	}
	pw := &writer{w: w, style: p.Style, indent: p.Indent}
	if pw.indent <= 0 {
		pw.indent = 2
	}
	pw.rules(out.Tree.Rules(), 0)
	if pw.err == nil && pw.total > 0 && p.Style != common.OutputStyleCompressed {
		pw.write("\n")
	}
	return pw.total, pw.err
}

// Text returns CSS text of out.
func (p Printer) Text(out Output) (string, error) {
	var sb strings.Builder
	if _, err := p.Print(&sb, out); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type writer struct {
	w      io.Writer
	style  common.OutputStyle
	indent int
	total  int64
	err    error
	items  int // top level items written so far
}

func (pw *writer) write(s string) {
	if pw.err != nil {
		return
	}
	n, err := io.WriteString(pw.w, s)
	pw.total += int64(n)
	pw.err = err
}

func (pw *writer) pad(depth int) string {
	if pw.style == common.OutputStyleCompressed {
		return ""
	}
	return strings.Repeat(" ", depth*pw.indent)
}

// separate is called before every item is written.
func (pw *writer) separate(depth int) {
	if depth == 0 {
		if pw.items > 0 {
			switch pw.style {
			case common.OutputStyleExpanded:
				// blank line between top level items
				pw.write("\n\n")
			case common.OutputStyleCompact:
				pw.write("\n")
			}
		}
		pw.items++
		return
	}
	if pw.style != common.OutputStyleCompressed {
		pw.write("\n")
	}
}

// printable reports whether node produces any output.
func printable(n RuleNode) bool {
	switch r := n.(type) {
	case *Rule:
		return len(r.selectors) > 0 && len(r.declarations) > 0
	case *Page:
		return len(r.declarations) > 0
	case *Keyframes:
		return len(r.keyframes) > 0
	case RuleContainer:
		for _, c := range r.Rules() {
			if printable(c) {
				return true
			}
		}
		return false
	}
	return true
}

func (pw *writer) rules(list []RuleNode, depth int) {
	for _, n := range list {
		if pw.err != nil {
			return
		}
		switch r := n.(type) {
		case *Import:
			pw.err = fmt.Errorf("import of %s: %w", r.Ref, ErrNotCompiled)
			return
		case *Rule:
			if r.HasExtends() {
				pw.err = fmt.Errorf("extend in rule %s: %w", strings.Join(r.selectors, ", "), ErrNotCompiled)
				return
			}
		}
		if !printable(n) {
			continue
		}
		pw.separate(depth)
		pw.node(n, depth)
	}
}

func (pw *writer) node(n RuleNode, depth int) {
	switch r := n.(type) {
	case *Rule:
		pw.block(depth, pw.selectors(r.selectors), false, func() { pw.declarations(r.declarations, depth+1) })
	case *Page:
		head := "@page"
		if len(r.selectors) > 0 {
			head += " " + pw.selectors(r.selectors)
		}
		pw.block(depth, head, false, func() { pw.declarations(r.declarations, depth+1) })
	case *Media:
		pw.block(depth, "@media "+r.Query, true, func() { pw.rules(r.rules, depth+1) })
	case *Supports:
		pw.block(depth, "@supports "+r.Condition, true, func() { pw.rules(r.rules, depth+1) })
	case *Document:
		pw.block(depth, "@"+r.Vendor+"document "+r.Condition, true, func() { pw.rules(r.rules, depth+1) })
	case *Host:
		pw.block(depth, "@host", true, func() { pw.rules(r.rules, depth+1) })
	case *Keyframes:
		pw.block(depth, "@"+r.Vendor+"keyframes "+r.Name, true, func() {
			for _, k := range r.keyframes {
				pw.separate(depth + 1)
				pw.block(depth+1, pw.selectors(k.values), false, func() { pw.declarations(k.declarations, depth+2) })
			}
		})
	case *ImportURL:
		stmt := fmt.Sprintf("@import url(\"%s\")", cssEscapeDoubleQuoted(r.URL))
		if r.Media != "" {
			stmt += " " + r.Media
		}
		pw.write(pw.pad(depth) + stmt + ";")
	case *Charset:
		pw.write(pw.pad(depth) + fmt.Sprintf("@charset \"%s\";", cssEscapeDoubleQuoted(r.Charset)))
	case *Namespace:
		pw.write(pw.pad(depth) + "@namespace " + r.Namespace + ";")
	}
}

func (pw *writer) selectors(list []string) string {
	if pw.style == common.OutputStyleCompressed {
		return strings.Join(list, ",")
	}
	return strings.Join(list, ", ")
}

// block writes head followed by body in braces. Nested blocks contain other
// blocks rather than declarations.
func (pw *writer) block(depth int, head string, nested bool, body func()) {
	switch {
	case pw.style == common.OutputStyleCompressed:
		pw.write(head + "{")
		body()
		pw.write("}")
	case pw.style == common.OutputStyleCompact && !nested:
		pw.write(pw.pad(depth) + head + " {")
		body()
		pw.write(" }")
	default:
		pw.write(pw.pad(depth) + head + " {")
		body()
		pw.write("\n" + pw.pad(depth) + "}")
	}
}

func (pw *writer) declarations(list []DeclNode, depth int) {
	first := true
	for _, n := range list {
		d, ok := n.(*Declaration)
		if !ok {
			continue
		}
		switch pw.style {
		case common.OutputStyleCompressed:
			if !first {
				pw.write(";")
			}
			pw.write(d.Property + ":" + compressValue(d.Value))
		case common.OutputStyleCompact:
			pw.write(" " + d.Property + ": " + d.Value + ";")
		default:
			pw.write("\n" + pw.pad(depth) + d.Property + ": " + d.Value + ";")
		}
		first = false
	}
}

// compressValue removes insignificant whitespace and comments from a
// declaration value.
func compressValue(value string) string {
	l := css.NewLexer(parse.NewInputString(value))

	var (
		sb      strings.Builder
		last    css.TokenType
		spacing bool
	)
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return sb.String()
		case css.WhitespaceToken, css.CommentToken:
			spacing = true
			continue
		}
		if spacing && sb.Len() > 0 && !glueAfter(last) && !glueBefore(tt) {
			sb.WriteByte(' ')
		}
		sb.Write(data)
		last, spacing = tt, false
	}
}

func glueAfter(tt css.TokenType) bool {
	switch tt {
	case css.CommaToken, css.LeftParenthesisToken, css.FunctionToken, css.ColonToken:
		return true
	}
	return false
}

func glueBefore(tt css.TokenType) bool {
	switch tt {
	case css.CommaToken, css.RightParenthesisToken, css.SemicolonToken:
		return true
	}
	return false
}

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func cssEscapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
