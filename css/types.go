package css

import (
	"maps"
	"regexp"
)

// Kind identifies the type of a document node.
type Kind int

const (
	KindStylesheet Kind = iota
	KindMedia
	KindSupports
	KindDocument
	KindHost
	KindKeyframes
	KindKeyframe
	KindRule
	KindPage
	KindDeclaration
	KindExtend
	KindImport
	KindImportURL
	KindCharset
	KindNamespace
)

var kindNames = [...]string{
	KindStylesheet:  "stylesheet",
	KindMedia:       "media",
	KindSupports:    "supports",
	KindDocument:    "document",
	KindHost:        "host",
	KindKeyframes:   "keyframes",
	KindKeyframe:    "keyframe",
	KindRule:        "rule",
	KindPage:        "page",
	KindDeclaration: "declaration",
	KindExtend:      "extend",
	KindImport:      "import",
	KindImportURL:   "import-url",
	KindCharset:     "charset",
	KindNamespace:   "namespace",
}

// String returns the lower case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Node is implemented by every document node.
type Node interface {
	Kind() Kind
}

// RuleNode is anything that may appear in a rule list: rules, grouping
// nodes and statements like @import or @charset.
type RuleNode interface {
	Node
	ruleNode()
}

// DeclNode is anything that may appear in a declaration list of a rule:
// declarations and extend directives.
type DeclNode interface {
	Node
	declNode()
}

// RuleContainer is implemented by every node owning an ordered rule list.
// Scoped reports whether children are logically scoped to a condition, which
// is true for all grouping nodes and false for the stylesheet itself.
type RuleContainer interface {
	Node
	Rules() []RuleNode
	WithRules(rules []RuleNode) RuleContainer
	Scoped() bool
}

// placeholderPattern matches selectors which exist only to be extended.
var placeholderPattern = regexp.MustCompile(`%[a-zA-Z]`)

// IsPlaceholder reports whether selector is a placeholder selector.
func IsPlaceholder(selector string) bool {
	return placeholderPattern.MatchString(selector)
}

// Stylesheet is the root of a document.
type Stylesheet struct {
	vars  map[string]string
	rules []RuleNode
	guard fingerprint
}

// NewStylesheet creates a stylesheet with optional variables. Variables map is
// copied.
func NewStylesheet(vars map[string]string, rules ...RuleNode) *Stylesheet {
	s := &Stylesheet{vars: maps.Clone(vars), rules: rules}
	s.guard = freeze(s)
	return s
}

func (s *Stylesheet) Kind() Kind { return KindStylesheet }
func (s *Stylesheet) Rules() []RuleNode { return s.rules }
func (s *Stylesheet) Scoped() bool { return false }
func (s *Stylesheet) Len() int { return len(s.rules) }
func (s *Stylesheet) WithRules(rules []RuleNode) RuleContainer {
	return s.withRules(rules)
}

// Var returns value of the stylesheet variable.
func (s *Stylesheet) Var(name string) (string, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Vars returns a copy of the stylesheet variables.
func (s *Stylesheet) Vars() map[string]string {
	return maps.Clone(s.vars)
}

func (s *Stylesheet) withRules(rules []RuleNode) *Stylesheet {
	n := &Stylesheet{vars: s.vars, rules: rules}
	n.guard = freeze(n)
	return n
}

// RuleList gives access to shallow operations over top level rules.
func (s *Stylesheet) RuleList() Seq[RuleNode, *Stylesheet] {
	return Seq[RuleNode, *Stylesheet]{items: s.rules, with: s.withRules}
}

// NestedRules gives access to deep operations over all rules.
func (s *Stylesheet) NestedRules() Nested[*Stylesheet] {
	return Nested[*Stylesheet]{parent: s, items: s.rules, with: s.withRules}
}

// Concat returns a stylesheet with rules of other appended. Variables of other
// are not merged.
func (s *Stylesheet) Concat(other *Stylesheet) *Stylesheet {
	if other == nil {
		return s
	}
	return s.RuleList().Add(other.rules...)
}

// Transform applies fn to the stylesheet. It exists to chain transforms.
func (s *Stylesheet) Transform(fn func(*Stylesheet) (*Stylesheet, error)) (*Stylesheet, error) {
	return fn(s)
}

// Media is a @media grouping node.
type Media struct {
	Query string
	rules []RuleNode
}

func NewMedia(query string, rules ...RuleNode) *Media {
	return &Media{Query: query, rules: rules}
}

func (m *Media) Kind() Kind { return KindMedia }
func (m *Media) ruleNode() {}
func (m *Media) Rules() []RuleNode { return m.rules }
func (m *Media) Scoped() bool { return true }
func (m *Media) Len() int { return len(m.rules) }
func (m *Media) WithRules(rules []RuleNode) RuleContainer {
	return m.withRules(rules)
}

func (m *Media) withRules(rules []RuleNode) *Media {
	return &Media{Query: m.Query, rules: rules}
}

func (m *Media) RuleList() Seq[RuleNode, *Media] {
	return Seq[RuleNode, *Media]{items: m.rules, with: m.withRules}
}

func (m *Media) NestedRules() Nested[*Media] {
	return Nested[*Media]{parent: m, items: m.rules, with: m.withRules}
}

// Supports is a @supports grouping node.
type Supports struct {
	Condition string
	rules     []RuleNode
}

func NewSupports(condition string, rules ...RuleNode) *Supports {
	return &Supports{Condition: condition, rules: rules}
}

func (s *Supports) Kind() Kind { return KindSupports }
func (s *Supports) ruleNode() {}
func (s *Supports) Rules() []RuleNode { return s.rules }
func (s *Supports) Scoped() bool { return true }
func (s *Supports) Len() int { return len(s.rules) }
func (s *Supports) WithRules(rules []RuleNode) RuleContainer {
	return s.withRules(rules)
}

func (s *Supports) withRules(rules []RuleNode) *Supports {
	return &Supports{Condition: s.Condition, rules: rules}
}

func (s *Supports) RuleList() Seq[RuleNode, *Supports] {
	return Seq[RuleNode, *Supports]{items: s.rules, with: s.withRules}
}

func (s *Supports) NestedRules() Nested[*Supports] {
	return Nested[*Supports]{parent: s, items: s.rules, with: s.withRules}
}

// Document is a @document grouping node, Vendor is an optional prefix like
// "-moz-".
type Document struct {
	Condition string
	Vendor    string
	rules     []RuleNode
}

func NewDocument(condition, vendor string, rules ...RuleNode) *Document {
	return &Document{Condition: condition, Vendor: vendor, rules: rules}
}

func (d *Document) Kind() Kind { return KindDocument }
func (d *Document) ruleNode() {}
func (d *Document) Rules() []RuleNode { return d.rules }
func (d *Document) Scoped() bool { return true }
func (d *Document) Len() int { return len(d.rules) }
func (d *Document) WithRules(rules []RuleNode) RuleContainer {
	return d.withRules(rules)
}

func (d *Document) withRules(rules []RuleNode) *Document {
	return &Document{Condition: d.Condition, Vendor: d.Vendor, rules: rules}
}

func (d *Document) RuleList() Seq[RuleNode, *Document] {
	return Seq[RuleNode, *Document]{items: d.rules, with: d.withRules}
}

func (d *Document) NestedRules() Nested[*Document] {
	return Nested[*Document]{parent: d, items: d.rules, with: d.withRules}
}

// Host is a @host grouping node.
type Host struct {
	rules []RuleNode
}

func NewHost(rules ...RuleNode) *Host {
	return &Host{rules: rules}
}

func (h *Host) Kind() Kind { return KindHost }
func (h *Host) ruleNode() {}
func (h *Host) Rules() []RuleNode { return h.rules }
func (h *Host) Scoped() bool { return true }
func (h *Host) Len() int { return len(h.rules) }
func (h *Host) WithRules(rules []RuleNode) RuleContainer {
	return h.withRules(rules)
}

func (h *Host) withRules(rules []RuleNode) *Host {
	return &Host{rules: rules}
}

func (h *Host) RuleList() Seq[RuleNode, *Host] {
	return Seq[RuleNode, *Host]{items: h.rules, with: h.withRules}
}

func (h *Host) NestedRules() Nested[*Host] {
	return Nested[*Host]{parent: h, items: h.rules, with: h.withRules}
}

// Keyframes is a @keyframes block. Its children are keyframes, not rules, so
// deep rule traversal does not descend into it.
type Keyframes struct {
	Name      string
	Vendor    string
	keyframes []*Keyframe
}

func NewKeyframes(name, vendor string, frames ...*Keyframe) *Keyframes {
	return &Keyframes{Name: name, Vendor: vendor, keyframes: frames}
}

func (k *Keyframes) Kind() Kind { return KindKeyframes }
func (k *Keyframes) ruleNode() {}
func (k *Keyframes) Keyframes() []*Keyframe { return k.keyframes }

func (k *Keyframes) withKeyframes(frames []*Keyframe) *Keyframes {
	return &Keyframes{Name: k.Name, Vendor: k.Vendor, keyframes: frames}
}

func (k *Keyframes) KeyframeList() Seq[*Keyframe, *Keyframes] {
	return Seq[*Keyframe, *Keyframes]{items: k.keyframes, with: k.withKeyframes}
}

// Keyframe is a single step of a @keyframes block ("from", "50%").
type Keyframe struct {
	values       []string
	declarations []DeclNode
}

func (k *Keyframe) Kind() Kind { return KindKeyframe }
func (k *Keyframe) Values() []string { return k.values }
func (k *Keyframe) Declarations() []DeclNode { return k.declarations }

func (k *Keyframe) withDeclarations(decls []DeclNode) *Keyframe {
	return &Keyframe{values: k.values, declarations: decls}
}

func (k *Keyframe) DeclarationList() Seq[DeclNode, *Keyframe] {
	return Seq[DeclNode, *Keyframe]{items: k.declarations, with: k.withDeclarations}
}

// Rule is a qualified rule: selectors and declaration-like entries.
type Rule struct {
	selectors    []string
	declarations []DeclNode
}

func (r *Rule) Kind() Kind { return KindRule }
func (r *Rule) ruleNode() {}
func (r *Rule) Selectors() []string { return r.selectors }
func (r *Rule) Declarations() []DeclNode { return r.declarations }

// WithSelectors returns a copy of the rule with selectors replaced.
func (r *Rule) WithSelectors(selectors []string) *Rule {
	return &Rule{selectors: selectors, declarations: r.declarations}
}

// WithDeclarations returns a copy of the rule with declarations replaced.
func (r *Rule) WithDeclarations(decls []DeclNode) *Rule {
	return &Rule{selectors: r.selectors, declarations: decls}
}

func (r *Rule) SelectorList() Seq[string, *Rule] {
	return Seq[string, *Rule]{items: r.selectors, with: r.WithSelectors}
}

func (r *Rule) DeclarationList() Seq[DeclNode, *Rule] {
	return Seq[DeclNode, *Rule]{items: r.declarations, with: r.WithDeclarations}
}

// HasExtends reports whether any declaration-like entry is an extend
// directive.
func (r *Rule) HasExtends() bool {
	for _, d := range r.declarations {
		if _, ok := d.(*Extend); ok {
			return true
		}
	}
	return false
}

// Page is a @page rule.
type Page struct {
	selectors    []string
	declarations []DeclNode
}

func (p *Page) Kind() Kind { return KindPage }
func (p *Page) ruleNode() {}
func (p *Page) Selectors() []string { return p.selectors }
func (p *Page) Declarations() []DeclNode { return p.declarations }

func (p *Page) withSelectors(selectors []string) *Page {
	return &Page{selectors: selectors, declarations: p.declarations}
}

func (p *Page) withDeclarations(decls []DeclNode) *Page {
	return &Page{selectors: p.selectors, declarations: decls}
}

func (p *Page) SelectorList() Seq[string, *Page] {
	return Seq[string, *Page]{items: p.selectors, with: p.withSelectors}
}

func (p *Page) DeclarationList() Seq[DeclNode, *Page] {
	return Seq[DeclNode, *Page]{items: p.declarations, with: p.withDeclarations}
}

// Declaration is a property/value pair.
type Declaration struct {
	Property string
	Value    string
}

func (d *Declaration) Kind() Kind { return KindDeclaration }
func (d *Declaration) declNode() {}

// Extend asks for the owning rule to also match everything Selector matches.
type Extend struct {
	Selector string
}

func (e *Extend) Kind() Kind { return KindExtend }
func (e *Extend) declNode() {}

// Import splices rules of the referenced stylesheet in its place.
type Import struct {
	Ref *StylesheetRef
}

func (i *Import) Kind() Kind { return KindImport }
func (i *Import) ruleNode() {}

// ImportURL is a plain CSS @import statement which is kept as is.
type ImportURL struct {
	URL   string
	Media string
}

func (i *ImportURL) Kind() Kind { return KindImportURL }
func (i *ImportURL) ruleNode() {}

// Charset is a @charset statement.
type Charset struct {
	Charset string
}

func (c *Charset) Kind() Kind { return KindCharset }
func (c *Charset) ruleNode() {}

// Namespace is a @namespace statement.
type Namespace struct {
	Namespace string
}

func (n *Namespace) Kind() Kind { return KindNamespace }
func (n *Namespace) ruleNode() {}
