package mdast

import "fmt"

// ParseError reports malformed input together with the offending location.
type ParseError struct {
	Line   int
	Column int
	Offset int
	// Source names the grammar that rejected the input ("mdx", "frontmatter").
	Source string
	Reason string
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Source, e.Reason)
}
