// Package source loads stylesheets from YAML description files.
//
// A description file has optional name and variables and a list of rule
// entries, every entry is a single key mapping:
//
//	name: site
//	vars: {primary: red}
//	rules:
//	  - import: base.yaml
//	  - rule: [".btn", {extend: "%base"}, {padding: 1em}]
//	  - media: {query: print, rules: [...]}
//
// Argument lists of rule, page and keyframe entries are passed to css
// builders as is: scalars are selectors, mapping keys are declarations in
// document order and "extend" key makes an extend directive.
package source
