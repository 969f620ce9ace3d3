package css

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	ErrSelectorAfterDeclaration = errors.New("selector value goes after declaration")
	ErrExtendNotAllowed         = errors.New("extend is only allowed in rules")
	ErrUnsupportedArgument      = errors.New("unsupported argument")
)

// Props is a convenience way to pass several declarations at once. Since map
// order is undefined declarations are produced sorted by property name.
type Props map[string]string

// Decl creates a declaration.
func Decl(property, value string) *Declaration {
	return &Declaration{Property: property, Value: value}
}

// ExtendOf creates an extend directive.
func ExtendOf(selector string) *Extend {
	return &Extend{Selector: selector}
}

// ImportOf creates an import directive for a referenced stylesheet.
func ImportOf(ref *StylesheetRef) *Import {
	return &Import{Ref: ref}
}

// ImportSheet creates an import directive for an already built stylesheet.
func ImportSheet(s *Stylesheet) *Import {
	return &Import{Ref: RefTo(s)}
}

func ImportURLOf(url, media string) *ImportURL {
	return &ImportURL{URL: url, Media: media}
}

func CharsetOf(charset string) *Charset {
	return &Charset{Charset: charset}
}

func NamespaceOf(ns string) *Namespace {
	return &Namespace{Namespace: ns}
}

// splitArgs separates builder arguments into leading strings and
// declaration-like entries.
func splitArgs(args []any, allowExtend bool) ([]string, []DeclNode, error) {
	var (
		values []string
		decls  []DeclNode
	)
	for i, arg := range args {
		switch a := arg.(type) {
		case string:
			if len(decls) > 0 {
				return nil, nil, fmt.Errorf("argument %d (%q): %w", i, a, ErrSelectorAfterDeclaration)
			}
			values = append(values, a)
		case []string:
			if len(decls) > 0 {
				return nil, nil, fmt.Errorf("argument %d (%q): %w", i, a, ErrSelectorAfterDeclaration)
			}
			values = append(values, a...)
		case *Declaration:
			decls = append(decls, a)
		case Declaration:
			decls = append(decls, &a)
		case *Extend:
			if !allowExtend {
				return nil, nil, fmt.Errorf("argument %d (%s): %w", i, a.Selector, ErrExtendNotAllowed)
			}
			decls = append(decls, a)
		case Extend:
			if !allowExtend {
				return nil, nil, fmt.Errorf("argument %d (%s): %w", i, a.Selector, ErrExtendNotAllowed)
			}
			decls = append(decls, &a)
		case Props:
			decls = append(decls, propsToDecls(a)...)
		case map[string]string:
			decls = append(decls, propsToDecls(a)...)
		default:
			return nil, nil, fmt.Errorf("argument %d of type %T: %w", i, arg, ErrUnsupportedArgument)
		}
	}
	return values, decls, nil
}

func propsToDecls(props map[string]string) []DeclNode {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	decls := make([]DeclNode, 0, len(names))
	for _, name := range names {
		decls = append(decls, Decl(name, props[name]))
	}
	return decls
}

// NewRule builds a rule from its arguments: selectors (string or []string)
// first, followed by declarations, extend directives and Props.
func NewRule(args ...any) (*Rule, error) {
	selectors, decls, err := splitArgs(args, true)
	if err != nil {
		return nil, fmt.Errorf("rule: %w", err)
	}
	return &Rule{selectors: selectors, declarations: decls}, nil
}

// MustRule is like NewRule but panics on malformed arguments.
func MustRule(args ...any) *Rule {
	r, err := NewRule(args...)
	if err != nil {
		panic(err)
	}
	return r
}

// NewPage builds a @page rule, arguments are the same as for NewRule except
// that extend directives are not allowed.
func NewPage(args ...any) (*Page, error) {
	selectors, decls, err := splitArgs(args, false)
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}
	return &Page{selectors: selectors, declarations: decls}, nil
}

// NewKeyframe builds a single keyframe, leading strings are keyframe
// selectors ("from", "to", "50%").
func NewKeyframe(args ...any) (*Keyframe, error) {
	values, decls, err := splitArgs(args, false)
	if err != nil {
		return nil, fmt.Errorf("keyframe: %w", err)
	}
	return &Keyframe{values: values, declarations: decls}, nil
}

func MustKeyframe(args ...any) *Keyframe {
	k, err := NewKeyframe(args...)
	if err != nil {
		panic(err)
	}
	return k
}

// Declarations returns only real declarations of the list dropping extend
// directives, order is preserved.
func Declarations(decls []DeclNode) []DeclNode {
	return slices.DeleteFunc(slices.Clone(decls), func(d DeclNode) bool {
		_, ok := d.(*Extend)
		return ok
	})
}
