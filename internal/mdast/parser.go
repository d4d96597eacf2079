package mdast

import (
	"bytes"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ParseOptions selects the grammar used by a Parser.
type ParseOptions struct {
	// Extensions names goldmark extensions to enable (gfm, table, footnote, ...).
	// An empty list enables GFM.
	Extensions []string
	// DisableMDX turns off component syntax; `<Foo>` lines then parse as HTML.
	DisableMDX bool
	// DisableFrontMatter keeps a leading `---` block in the markdown body.
	DisableFrontMatter bool
}

// Parser converts MDX/Markdown source into a document tree. A Parser is
// immutable after construction and safe for concurrent use: per-document
// state lives in the goldmark parser context of each call.
type Parser struct {
	engine goldmark.Markdown
	opts   ParseOptions
}

// NewParser builds a Parser for the supplied grammar configuration.
func NewParser(opts ParseOptions) *Parser {
	return &Parser{
		engine: newGoldmarkEngine(opts),
		opts:   opts,
	}
}

// Parse builds the document tree for source. Positions always refer to the
// original source, frontmatter included.
func (p *Parser) Parse(source []byte) (*Node, error) {
	body, base := source, 0
	var meta *Node

	if !p.opts.DisableFrontMatter {
		var err error
		body, base, meta, err = splitFrontMatter(source)
		if err != nil {
			return nil, err
		}
	}

	b := newBuilder(source, body, base, !p.opts.DisableMDX)

	pc := parser.NewContext()
	doc := p.engine.Parser().Parse(text.NewReader(body), parser.WithContext(pc))
	if errs := mdxErrors(pc); len(errs) > 0 {
		first := errs[0]
		point := b.point(base + first.Offset)
		first.Line, first.Column, first.Offset = point.Line, point.Column, point.Offset
		return nil, first
	}

	root := b.convert(doc)
	root.Position = Position{Start: b.point(0), End: b.point(len(source))}
	if meta != nil {
		meta.Position = Position{Start: b.point(0), End: b.point(base)}
		root.Children = append([]*Node{meta}, root.Children...)
	}
	return root, nil
}

func newGoldmarkEngine(opts ParseOptions) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)
	if !opts.DisableMDX {
		exts = append(exts, MDX)
	}
	return goldmark.New(goldmark.WithExtensions(exts...))
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// KnownExtension reports whether name maps to a goldmark extension.
func KnownExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}

// splitFrontMatter separates a leading frontmatter block. base is the byte
// length of the block so body offsets can be mapped back onto source.
func splitFrontMatter(source []byte) (body []byte, base int, meta *Node, err error) {
	if !hasFrontMatterDelimiter(source) {
		return source, 0, nil, nil
	}

	data := map[string]any{}
	rest, err := frontmatter.Parse(bytes.NewReader(source), &data)
	if err != nil {
		return nil, 0, nil, &ParseError{Line: 1, Column: 1, Source: "frontmatter", Reason: err.Error()}
	}
	if len(rest) == len(source) || !bytes.HasSuffix(source, rest) {
		return source, 0, nil, nil
	}

	base = len(source) - len(rest)
	return rest, base, &Node{
		Type:  TypeYAML,
		Value: frontMatterValue(source[:base]),
		Data:  data,
	}, nil
}

func hasFrontMatterDelimiter(source []byte) bool {
	for _, delim := range []string{"---", "+++", ";;;"} {
		if bytes.HasPrefix(source, []byte(delim)) {
			return true
		}
	}
	return false
}

func frontMatterValue(raw []byte) string {
	lines := strings.Split(strings.TrimRight(string(raw), "\r\n"), "\n")
	if len(lines) < 2 {
		return ""
	}
	return strings.TrimRight(strings.Join(lines[1:len(lines)-1], "\n"), "\r")
}

// builder converts goldmark nodes into mdast nodes.
type builder struct {
	source     []byte
	body       []byte
	base       int
	lineStarts []int
	mdx        bool
}

func newBuilder(source, body []byte, base int, mdx bool) *builder {
	starts := []int{0}
	for i, c := range source {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &builder{source: source, body: body, base: base, lineStarts: starts, mdx: mdx}
}

func (b *builder) point(offset int) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.source) {
		offset = len(b.source)
	}
	line := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	}) - 1
	start := b.lineStarts[line]
	return Point{
		Line:   line + 1,
		Column: utf8.RuneCount(b.source[start:offset]) + 1,
		Offset: offset,
	}
}

func (b *builder) span(start, stop int) Position {
	return Position{Start: b.point(b.base + start), End: b.point(b.base + stop)}
}

func (b *builder) convert(n ast.Node) *Node {
	out := &Node{Type: b.typeOf(n)}

	switch v := n.(type) {
	case *ast.Heading:
		out.Depth = v.Level
	case *ast.List:
		out.Ordered = v.IsOrdered()
	case *ast.Link:
		out.URL = string(v.Destination)
	case *ast.Image:
		out.URL = string(v.Destination)
	case *ast.AutoLink:
		out.URL = string(v.URL(b.body))
		out.Children = []*Node{{Type: TypeText, Value: string(v.Label(b.body))}}
		return out
	case *ast.FencedCodeBlock:
		out.Lang = string(v.Language(b.body))
		out.Value = b.linesValue(v.Lines())
	case *ast.CodeBlock:
		out.Value = b.linesValue(v.Lines())
	case *ast.HTMLBlock:
		out.Value = b.linesValue(v.Lines())
	case *MdxBlock:
		out.Name = v.Name
		out.Value = strings.TrimRight(b.linesValue(v.Lines()), "\n")
	case *ast.CodeSpan:
		out.Value = b.inlineText(v)
		out.Position = b.childrenSpan(v)
		return out
	case *ast.RawHTML:
		out.Value = b.segmentsValue(v.Segments)
		if v.Segments.Len() > 0 {
			out.Position = b.span(v.Segments.At(0).Start, v.Segments.At(v.Segments.Len()-1).Stop)
		}
		return out
	case *ast.Text:
		out.Value = decodeText(v.Segment.Value(b.body), v.IsRaw())
		out.Position = b.span(v.Segment.Start, v.Segment.Stop)
		return out
	case *ast.String:
		out.Value = string(v.Value)
		return out
	}

	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		out.Position = b.blockSpan(lines.At(0).Start, lines.At(lines.Len()-1).Stop)
	}

	if !isRawBlock(n) {
		out.Children = b.convertChildren(n)
	}

	if out.Position.IsZero() && len(out.Children) > 0 {
		first, last := out.Children[0], out.Children[len(out.Children)-1]
		out.Position = Position{Start: first.Position.Start, End: last.Position.End}
	}
	return out
}

// convertChildren merges adjacent text segments into single text nodes so a
// heading's text value matches what the author wrote.
func (b *builder) convertChildren(n ast.Node) []*Node {
	var children []*Node
	var last *Node

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TaskCheckBox); ok {
			continue
		}
		child := b.convert(c)

		if t, ok := c.(*ast.Text); ok {
			if last != nil && last.Type == TypeText && !last.Position.IsZero() {
				last.Value += child.Value
				last.Position.End = child.Position.End
			} else {
				children = append(children, child)
				last = child
			}
			if t.SoftLineBreak() {
				last.Value += "\n"
			}
			if t.HardLineBreak() {
				children = append(children, &Node{Type: TypeBreak, Position: Position{Start: last.Position.End, End: last.Position.End}})
				last = nil
			}
			continue
		}

		children = append(children, child)
		last = nil
	}
	return children
}

func (b *builder) blockSpan(start, stop int) Position {
	lineStart := b.point(b.base + start)
	begin := b.lineStarts[lineStart.Line-1]
	for begin < b.base+start && (b.source[begin] == ' ' || b.source[begin] == '\t') {
		begin++
	}
	for stop > start && (b.body[stop-1] == '\n' || b.body[stop-1] == '\r') {
		stop--
	}
	return Position{Start: b.point(begin), End: b.point(b.base + stop)}
}

func (b *builder) childrenSpan(n ast.Node) Position {
	var pos Position
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			continue
		}
		span := b.span(t.Segment.Start, t.Segment.Stop)
		if pos.IsZero() {
			pos.Start = span.Start
		}
		pos.End = span.End
	}
	return pos
}

func (b *builder) inlineText(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(b.body))
		case *ast.String:
			sb.Write(t.Value)
		}
	}
	return sb.String()
}

// decodeText resolves backslash escapes and character references in the
// same order goldmark applies them to link destinations.
func decodeText(raw []byte, keepRaw bool) string {
	if keepRaw {
		return string(raw)
	}
	return string(util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(raw))))
}

func (b *builder) linesValue(lines *text.Segments) string {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.body))
	}
	return sb.String()
}

func (b *builder) segmentsValue(segments *text.Segments) string {
	return b.linesValue(segments)
}

func (b *builder) typeOf(n ast.Node) NodeType {
	switch v := n.(type) {
	case *ast.Document:
		return TypeRoot
	case *ast.Heading:
		return TypeHeading
	case *ast.Paragraph, *ast.TextBlock:
		return TypeParagraph
	case *ast.Text, *ast.String:
		return TypeText
	case *ast.Emphasis:
		if v.Level >= 2 {
			return TypeStrong
		}
		return TypeEmphasis
	case *ast.CodeSpan:
		return TypeInlineCode
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return TypeCode
	case *ast.Blockquote:
		return TypeBlockquote
	case *ast.List:
		return TypeList
	case *ast.ListItem:
		return TypeListItem
	case *ast.Link, *ast.AutoLink:
		return TypeLink
	case *ast.Image:
		return TypeImage
	case *ast.ThematicBreak:
		return TypeThematicBreak
	case *ast.HTMLBlock:
		return TypeHTML
	case *ast.RawHTML:
		if b.mdx {
			return TypeMdxJsxText
		}
		return TypeHTML
	}

	switch n.Kind() {
	case KindMdxjsEsm:
		return TypeMdxjsEsm
	case KindMdxJsxFlowElement:
		return TypeMdxJsxFlow
	case KindMdxFlowExpression:
		return TypeMdxFlowExpression
	case east.KindTable:
		return TypeTable
	case east.KindTableHeader, east.KindTableRow:
		return TypeTableRow
	case east.KindTableCell:
		return TypeTableCell
	case east.KindStrikethrough:
		return TypeDelete
	case east.KindFootnoteLink:
		return TypeFootnoteReference
	case east.KindFootnote:
		return TypeFootnoteDef
	}

	kind := n.Kind().String()
	if kind == "" {
		return NodeType("unknown")
	}
	return NodeType(strings.ToLower(kind[:1]) + kind[1:])
}

func isRawBlock(n ast.Node) bool {
	switch n.(type) {
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *MdxBlock:
		return true
	}
	return false
}
