package boxes

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	pr "github.com/velora-engine/velora/css/properties"
)

// StructuralError is a malformed input detected while building the layout
// tree: the affected subtree is excluded and layout of unrelated subtrees
// continues.
type StructuralError struct {
	Tag    string
	Reason string
}

func (s *StructuralError) Error() string {
	return fmt.Sprintf("layout tree: <%s>: %s", s.Tag, s.Reason)
}

// Builder constructs the layout tree of one pass from a style-annotated
// element tree.
type Builder struct {
	// StyleFor returns the computed style of an element, as produced by the
	// style resolution collaborator. Returning nil is a structural error.
	StyleFor func(*html.Node) pr.Properties

	// ReplacedSize returns the natural size of replaced content (images,
	// form controls, ...) and false for non replaced elements. It may be
	// nil when the document has no replaced content.
	ReplacedSize func(*html.Node) (Point, bool)
}

// Build walks the element tree and produces one layout node per retained
// element. Subtrees with display:none are excluded entirely; malformed
// subtrees (missing style record, cyclic references) are excluded and
// reported, without aborting the rest of the build.
func (b Builder) Build(root *html.Node) (*Tree, []error) {
	bd := treeBuilder{Builder: b, tree: &Tree{root: NoNode}, seen: map[*html.Node]bool{}}
	id := bd.element(root, NoNode)
	bd.tree.root = id
	if id != NoNode && bd.tree.nodes[id].Mode == Inline {
		// The root box is always block-level.
		bd.tree.nodes[id].Mode = Block
	}
	return bd.tree, bd.errs
}

type treeBuilder struct {
	Builder
	tree *Tree
	seen map[*html.Node]bool
	errs []error
}

func (bd *treeBuilder) fail(tag, reason string) NodeID {
	bd.errs = append(bd.errs, &StructuralError{Tag: tag, Reason: reason})
	return NoNode
}

// element builds the node for one element and its subtree.
func (bd *treeBuilder) element(n *html.Node, parent NodeID) NodeID {
	if n == nil {
		return NoNode
	}
	if bd.seen[n] {
		return bd.fail(n.Data, "cyclic parent/child reference")
	}
	bd.seen[n] = true

	if n.Type != html.ElementNode {
		return NoNode
	}
	style := bd.StyleFor(n)
	if style == nil {
		return bd.fail(n.Data, "node without a style record")
	}

	display := style.GetDisplay()
	if display == "none" {
		// Excluded entirely, not merely hidden.
		return NoNode
	}

	mode := Block
	switch {
	case parent != NoNode && bd.tree.nodes[parent].Mode == FlexContainer:
		// Children of a flex container are flex items regardless of their
		// own display, per the flex formatting context rules.
		mode = FlexItem
	case parent != NoNode && bd.tree.nodes[parent].Mode == GridContainer:
		mode = GridItem
	case bd.isReplaced(n):
		mode = Replaced
	case display == "flex":
		mode = FlexContainer
	case display == "grid":
		mode = GridContainer
	case display == "inline" || display == "inline-block":
		mode = Inline
	}

	id := bd.tree.allocate(LayoutNode{Mode: mode, Style: style, Element: n, Parent: parent})
	if mode == Replaced {
		size, _ := bd.ReplacedSize(n)
		bd.tree.nodes[id].IntrinsicSize = size
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		bd.child(child, id, style)
	}
	bd.normalize(id)
	return id
}

func (bd *treeBuilder) isReplaced(n *html.Node) bool {
	if bd.ReplacedSize == nil {
		return false
	}
	_, ok := bd.ReplacedSize(n)
	return ok
}

// child builds one child (element or text) of container [id].
func (bd *treeBuilder) child(n *html.Node, id NodeID, style pr.Properties) {
	switch n.Type {
	case html.TextNode:
		content := collapseWhitespace(n.Data)
		if content == "" {
			return
		}
		containerMode := bd.tree.nodes[id].Mode
		if containerMode == FlexContainer || containerMode == GridContainer {
			// Contiguous text in a flex or grid container becomes an
			// anonymous item.
			itemMode := FlexItem
			if containerMode == GridContainer {
				itemMode = GridItem
			}
			item := bd.tree.allocate(LayoutNode{Mode: itemMode, Style: pr.Anonymous(style)})
			text := bd.tree.allocate(LayoutNode{Mode: Text, Style: style, Element: n.Parent, Text: content})
			bd.tree.appendChild(item, text)
			bd.tree.appendChild(id, item)
			return
		}
		text := bd.tree.allocate(LayoutNode{Mode: Text, Style: style, Element: n.Parent, Text: content})
		bd.tree.appendChild(id, text)
	case html.ElementNode:
		if child := bd.element(n, id); child != NoNode {
			bd.tree.appendChild(id, child)
		}
	}
}

// normalize wraps runs of inline-level children in anonymous block boxes
// when the container also has block-level children, so that a block
// container's children are uniformly block-level or uniformly inline-level.
func (bd *treeBuilder) normalize(id NodeID) {
	node := &bd.tree.nodes[id]
	switch node.Mode {
	case FlexContainer, GridContainer, Inline, Text, Replaced:
		return
	}
	var hasBlock, hasInline bool
	for _, c := range node.Children {
		if bd.tree.nodes[c].IsBlockLevel() {
			hasBlock = true
		} else {
			hasInline = true
		}
	}
	if !hasBlock || !hasInline {
		return
	}

	children := node.Children
	style := node.Style
	var out []NodeID
	var run []NodeID
	flush := func() {
		if len(run) == 0 {
			return
		}
		anon := bd.tree.allocate(LayoutNode{Mode: AnonymousBlock, Style: pr.Anonymous(style), Parent: id})
		for _, c := range run {
			bd.tree.nodes[c].Parent = anon
		}
		bd.tree.nodes[anon].Children = run
		out = append(out, anon)
		run = nil
	}
	for _, c := range children {
		if bd.tree.nodes[c].IsBlockLevel() {
			flush()
			out = append(out, c)
		} else {
			run = append(run, c)
		}
	}
	flush()
	bd.tree.nodes[id].Children = out
}

// collapseWhitespace reduces any whitespace run to a single space, the only
// white-space handling the engine needs for measurable runs.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
