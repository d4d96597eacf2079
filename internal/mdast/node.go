package mdast

// NodeType tags a document node. Values follow the mdast vocabulary so rule
// configuration written for JavaScript tooling keeps working.
type NodeType string

const (
	TypeRoot              NodeType = "root"
	TypeYAML              NodeType = "yaml"
	TypeHeading           NodeType = "heading"
	TypeParagraph         NodeType = "paragraph"
	TypeText              NodeType = "text"
	TypeEmphasis          NodeType = "emphasis"
	TypeStrong            NodeType = "strong"
	TypeInlineCode        NodeType = "inlineCode"
	TypeCode              NodeType = "code"
	TypeBlockquote        NodeType = "blockquote"
	TypeList              NodeType = "list"
	TypeListItem          NodeType = "listItem"
	TypeLink              NodeType = "link"
	TypeImage             NodeType = "image"
	TypeThematicBreak     NodeType = "thematicBreak"
	TypeBreak             NodeType = "break"
	TypeHTML              NodeType = "html"
	TypeTable             NodeType = "table"
	TypeTableRow          NodeType = "tableRow"
	TypeTableCell         NodeType = "tableCell"
	TypeDelete            NodeType = "delete"
	TypeFootnoteReference NodeType = "footnoteReference"
	TypeFootnoteDef       NodeType = "footnoteDefinition"
	TypeMdxjsEsm          NodeType = "mdxjsEsm"
	TypeMdxJsxFlow        NodeType = "mdxJsxFlowElement"
	TypeMdxJsxText        NodeType = "mdxJsxTextElement"
	TypeMdxFlowExpression NodeType = "mdxFlowExpression"
)

// Point is a location in the original source. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Position spans a node in the original source.
type Position struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// IsZero reports whether the position was never resolved.
func (p Position) IsZero() bool {
	return p.Start.Line == 0 && p.End.Line == 0
}

// Node is a single element of a parsed document. Trees are built once by the
// Parser and must be treated as read-only afterwards.
type Node struct {
	Type     NodeType       `json:"type"`
	Value    string         `json:"value,omitempty"`
	Depth    int            `json:"depth,omitempty"`
	Name     string         `json:"name,omitempty"`
	URL      string         `json:"url,omitempty"`
	Lang     string         `json:"lang,omitempty"`
	Ordered  bool           `json:"ordered,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Children []*Node        `json:"children,omitempty"`
	Position Position       `json:"position"`
}

// HasChildren reports whether the node carries any child nodes.
func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// FirstChild returns the first direct child of the given type, or nil.
func (n *Node) FirstChild(t NodeType) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child != nil && child.Type == t {
			return child
		}
	}
	return nil
}

