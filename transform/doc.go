// Package transform compiles a document tree into plain CSS tree.
//
// Compilation is an ordered sequence of structural transforms, each one
// taking a tree and returning a new one, input is never modified:
//
//   - Linearize splices imported stylesheets in place of import directives.
//     Stylesheet already included is skipped, which makes import cycles
//     harmless.
//   - ResolveExtends turns extend directives into selector lists of extended
//     rules (or copied declarations when extension crosses a scope boundary).
//   - Cleanup removes placeholder selectors and rules left empty.
//
// All transforms are written against css.RuleContainer and work the same way
// for a stylesheet or any grouping node. Pipeline runs them in order.
package transform
