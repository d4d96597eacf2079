package mdast

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Node kinds produced by the MDX extension.
var (
	KindMdxjsEsm          = ast.NewNodeKind("MdxjsEsm")
	KindMdxJsxFlowElement = ast.NewNodeKind("MdxJsxFlowElement")
	KindMdxFlowExpression = ast.NewNodeKind("MdxFlowExpression")
)

// mdxBlockPriority places the MDX parsers ahead of goldmark's HTML block
// parser (900) so component tags never end up as raw HTML.
const mdxBlockPriority = 850

var mdxErrorsKey = parser.NewContextKey()

// MdxBlock is a raw block of embedded component syntax: an ESM statement,
// a JSX element spanning one or more lines, or a `{}` expression.
type MdxBlock struct {
	ast.BaseBlock
	kind   ast.NodeKind
	Name   string
	scan   jsxScanner
	openAt int
	done   bool
}

// Kind implements ast.Node.
func (n *MdxBlock) Kind() ast.NodeKind { return n.kind }

// IsRaw keeps goldmark from running inline parsers over component source.
func (n *MdxBlock) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *MdxBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

type mdxExtension struct{}

// MDX is a goldmark extension recognising the block-level component syntax
// of MDX documents.
var MDX goldmark.Extender = mdxExtension{}

func (mdxExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(jsxFlowParser{}, mdxBlockPriority),
			util.Prioritized(esmParser{}, mdxBlockPriority),
			util.Prioritized(expressionParser{}, mdxBlockPriority),
		),
	)
}

type jsxFlowParser struct{}

func (jsxFlowParser) Trigger() []byte { return []byte{'<'} }

func (jsxFlowParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos+1 >= len(line) || line[pos] != '<' {
		return nil, parser.NoChildren
	}
	next := line[pos+1]
	if next == '!' {
		addMdxError(pc, segment.Start+pos, "Unexpected character `!` (U+0021) before name, expected a character that can start a name, such as a letter, `$`, or `_` (note: to create a comment in MDX, use `{/* text */}`)")
		return nil, parser.NoChildren
	}
	if !isNameStart(next) && next != '>' && next != '/' {
		return nil, parser.NoChildren
	}

	node := &MdxBlock{kind: KindMdxJsxFlowElement, openAt: segment.Start + pos}
	node.Name = readTagName(line[pos+1:])
	node.feed(pc, line, segment)
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (jsxFlowParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	block := node.(*MdxBlock)
	if block.done {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	block.feed(pc, line, segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (jsxFlowParser) Close(node ast.Node, _ text.Reader, pc parser.Context) {
	block := node.(*MdxBlock)
	if block.done {
		return
	}
	addMdxError(pc, block.openAt, fmt.Sprintf("Expected a closing tag for `<%s>` before the end of the document", block.scan.unclosed()))
}

func (jsxFlowParser) CanInterruptParagraph() bool { return false }

func (jsxFlowParser) CanAcceptIndentedLine() bool { return false }

type esmParser struct{}

func (esmParser) Trigger() []byte { return []byte{'i', 'e'} }

func (esmParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if parent.Kind() != ast.KindDocument || pc.BlockOffset() != 0 {
		return nil, parser.NoChildren
	}
	line, segment := reader.PeekLine()
	if !isEsmStart(line) {
		return nil, parser.NoChildren
	}
	node := &MdxBlock{kind: KindMdxjsEsm, openAt: segment.Start}
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (esmParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if line == nil || util.IsBlank(line) {
		return parser.Close
	}
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (esmParser) Close(ast.Node, text.Reader, parser.Context) {}

func (esmParser) CanInterruptParagraph() bool { return false }

func (esmParser) CanAcceptIndentedLine() bool { return false }

type expressionParser struct{}

func (expressionParser) Trigger() []byte { return []byte{'{'} }

func (expressionParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != '{' {
		return nil, parser.NoChildren
	}
	node := &MdxBlock{kind: KindMdxFlowExpression, openAt: segment.Start + pos}
	node.scan.seen = true
	node.feed(pc, line, segment)
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (expressionParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	block := node.(*MdxBlock)
	if block.done {
		return parser.Close
	}
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	block.feed(pc, line, segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (expressionParser) Close(node ast.Node, _ text.Reader, pc parser.Context) {
	block := node.(*MdxBlock)
	if block.done {
		return
	}
	addMdxError(pc, block.openAt, "Unexpected end of file in expression, expected a corresponding closing brace for `{`")
}

func (expressionParser) CanInterruptParagraph() bool { return false }

func (expressionParser) CanAcceptIndentedLine() bool { return false }

func (n *MdxBlock) feed(pc parser.Context, line []byte, segment text.Segment) {
	n.Lines().Append(segment)
	if at, reason := n.scan.feed(line); reason != "" {
		addMdxError(pc, segment.Start+at, reason)
		n.done = true
		return
	}
	n.done = n.scan.balanced()
}

func addMdxError(pc parser.Context, offset int, reason string) {
	var errs []*ParseError
	if existing, ok := pc.Get(mdxErrorsKey).([]*ParseError); ok {
		errs = existing
	}
	pc.Set(mdxErrorsKey, append(errs, &ParseError{Offset: offset, Source: "mdx", Reason: reason}))
}

func mdxErrors(pc parser.Context) []*ParseError {
	errs, _ := pc.Get(mdxErrorsKey).([]*ParseError)
	return errs
}

// jsxScanner tracks tag nesting across the lines of a flow element. It only
// understands enough JSX to find where an element ends: quoted attribute
// values and `{}` expressions are skipped, children are treated as opaque.
type jsxScanner struct {
	stack       []string
	name        []byte
	inTag       bool
	readingName bool
	closing     bool
	selfClosing bool
	quote       byte
	braces      int
	seen        bool
}

func (s *jsxScanner) balanced() bool {
	return s.seen && !s.inTag && len(s.stack) == 0 && s.braces == 0 && s.quote == 0
}

func (s *jsxScanner) unclosed() string {
	if len(s.stack) > 0 {
		return s.stack[len(s.stack)-1]
	}
	return string(s.name)
}

// feed consumes one line. A non-empty reason reports a structural error at
// the returned byte index.
func (s *jsxScanner) feed(line []byte) (int, string) {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if s.quote != 0 {
			if c == s.quote {
				s.quote = 0
			}
			continue
		}
		if s.braces > 0 {
			switch c {
			case '{':
				s.braces++
			case '}':
				s.braces--
			case '"', '\'', '`':
				s.quote = c
			}
			continue
		}
		if s.inTag {
			if s.readingName {
				if isNameByte(c) {
					s.name = append(s.name, c)
					continue
				}
				s.readingName = false
			}
			switch c {
			case '"', '\'':
				s.quote = c
			case '{':
				s.braces++
			case '/':
				s.selfClosing = true
			case '>':
				if at, reason := s.endTag(i); reason != "" {
					return at, reason
				}
				if s.balanced() {
					return 0, ""
				}
			case ' ', '\t', '\r', '\n':
			default:
				s.selfClosing = false
			}
			continue
		}
		switch c {
		case '<':
			s.inTag = true
			s.seen = true
			s.readingName = true
			s.selfClosing = false
			s.closing = false
			s.name = s.name[:0]
			if i+1 < len(line) && line[i+1] == '/' {
				s.closing = true
				i++
			}
		case '{':
			s.braces++
		case '}':
			if s.seen && len(s.stack) == 0 {
				return i, "Unexpected closing brace `}`"
			}
		}
	}
	return 0, ""
}

func (s *jsxScanner) endTag(at int) (int, string) {
	s.inTag = false
	name := string(s.name)
	switch {
	case s.closing:
		if len(s.stack) == 0 {
			return at, fmt.Sprintf("Unexpected closing tag `</%s>`", name)
		}
		top := s.stack[len(s.stack)-1]
		if top != name {
			return at, fmt.Sprintf("Unexpected closing tag `</%s>`, expected corresponding closing tag for `<%s>`", name, top)
		}
		s.stack = s.stack[:len(s.stack)-1]
	case s.selfClosing:
	default:
		s.stack = append(s.stack, name)
	}
	return 0, ""
}

func readTagName(b []byte) string {
	end := 0
	for end < len(b) && isNameByte(b[end]) {
		end++
	}
	return string(b[:end])
}

func isNameStart(c byte) bool {
	return c == '$' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameByte(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '.' || c == ':' || c == '-'
}

func isEsmStart(line []byte) bool {
	for _, keyword := range [][]byte{[]byte("import"), []byte("export")} {
		if !bytes.HasPrefix(line, keyword) || len(line) == len(keyword) {
			continue
		}
		switch line[len(keyword)] {
		case ' ', '\t', '{', '*':
			return true
		}
	}
	return false
}
