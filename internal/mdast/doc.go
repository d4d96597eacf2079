// Package mdast parses MDX and Markdown documents into a small, immutable
// document tree modelled on the mdast vocabulary. Parsing is backed by
// goldmark; the MDX extension recognises ESM statements, JSX flow elements
// and flow expressions so component-heavy documentation pages can be linted
// without a JavaScript toolchain.
package mdast
