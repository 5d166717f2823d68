package boxes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	pr "github.com/velora-engine/velora/css/properties"
)

func elem(tag string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func textNode(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }

func display(d string) pr.Properties {
	return pr.Properties{pr.PDisplay: pr.String(d)}
}

// testBuilder styles every element from the given map, defaulting to block.
func testBuilder(styles map[*html.Node]pr.Properties) Builder {
	return Builder{StyleFor: func(n *html.Node) pr.Properties {
		if s, ok := styles[n]; ok {
			return s
		}
		return display("block")
	}}
}

func TestBuildSimpleTree(t *testing.T) {
	child1, child2 := elem("p"), elem("p")
	root := elem("div", child1, child2)

	tree, errs := testBuilder(nil).Build(root)
	require.Empty(t, errs)

	rootNode := tree.Node(tree.Root())
	assert.Equal(t, Block, rootNode.Mode)
	require.Len(t, rootNode.Children, 2)
	for _, id := range rootNode.Children {
		assert.Equal(t, Block, tree.Node(id).Mode)
		assert.Equal(t, "p", tree.Node(id).ElementTag())
	}
}

func TestDisplayNoneExcluded(t *testing.T) {
	hidden := elem("span", elem("b"), textNode("invisible"))
	visible := elem("p")
	root := elem("div", hidden, visible)

	tree, errs := testBuilder(map[*html.Node]pr.Properties{
		hidden: display("none"),
	}).Build(root)
	require.Empty(t, errs)

	rootNode := tree.Node(tree.Root())
	require.Len(t, rootNode.Children, 1)
	assert.Equal(t, "p", tree.Node(rootNode.Children[0]).ElementTag())
	// The subtree is excluded entirely, not merely hidden.
	assert.Equal(t, 2, tree.Size())
}

func TestAnonymousBlockWrapping(t *testing.T) {
	span := elem("span", textNode("inline"))
	block := elem("p")
	root := elem("div", textNode("before"), span, block, textNode("after"))

	tree, errs := testBuilder(map[*html.Node]pr.Properties{
		span: display("inline"),
	}).Build(root)
	require.Empty(t, errs)

	rootNode := tree.Node(tree.Root())
	require.Len(t, rootNode.Children, 3)

	first := tree.Node(rootNode.Children[0])
	assert.Equal(t, AnonymousBlock, first.Mode)
	assert.Equal(t, "(anonymous)", first.ElementTag())
	require.Len(t, first.Children, 2) // the text run and the span

	assert.Equal(t, Block, tree.Node(rootNode.Children[1]).Mode)

	last := tree.Node(rootNode.Children[2])
	assert.Equal(t, AnonymousBlock, last.Mode)
	require.Len(t, last.Children, 1)
	assert.Equal(t, "after", tree.Node(last.Children[0]).Text)
}

func TestAnonymousStyleInheritsText(t *testing.T) {
	root := elem("div", textNode("a"), elem("p"))
	tree, errs := testBuilder(map[*html.Node]pr.Properties{
		root: {
			pr.PDisplay:  pr.String("block"),
			pr.PFontSize: pr.Float(20),
			pr.PWidth:    pr.FToV(100),
		},
	}).Build(root)
	require.Empty(t, errs)

	anon := tree.Node(tree.Node(tree.Root()).Children[0])
	require.Equal(t, AnonymousBlock, anon.Mode)
	// Inherited text properties flow in; reset box properties do not.
	assert.Equal(t, pr.Float(20), anon.Style.GetFontSize())
	assert.True(t, anon.Style.GetWidth().IsAuto())
}

func TestFlexChildrenBecomeItems(t *testing.T) {
	blockChild, inlineChild := elem("p"), elem("span")
	root := elem("div", blockChild, inlineChild, textNode("loose text"))

	tree, errs := testBuilder(map[*html.Node]pr.Properties{
		root:        display("flex"),
		inlineChild: display("inline"),
	}).Build(root)
	require.Empty(t, errs)

	rootNode := tree.Node(tree.Root())
	assert.Equal(t, FlexContainer, rootNode.Mode)
	require.Len(t, rootNode.Children, 3)
	for _, id := range rootNode.Children {
		assert.Equal(t, FlexItem, tree.Node(id).Mode)
	}
	// Loose text is wrapped in an anonymous item.
	wrapped := tree.Node(rootNode.Children[2])
	require.Len(t, wrapped.Children, 1)
	assert.Equal(t, Text, tree.Node(wrapped.Children[0]).Mode)
}

func TestGridChildrenBecomeItems(t *testing.T) {
	root := elem("div", elem("p"), elem("p"))
	tree, errs := testBuilder(map[*html.Node]pr.Properties{
		root: display("grid"),
	}).Build(root)
	require.Empty(t, errs)

	rootNode := tree.Node(tree.Root())
	assert.Equal(t, GridContainer, rootNode.Mode)
	for _, id := range rootNode.Children {
		assert.Equal(t, GridItem, tree.Node(id).Mode)
	}
}

func TestMissingStyleIsStructuralError(t *testing.T) {
	bad := elem("custom")
	good := elem("p")
	root := elem("div", bad, good)

	b := Builder{StyleFor: func(n *html.Node) pr.Properties {
		if n == bad {
			return nil
		}
		return display("block")
	}}
	tree, errs := b.Build(root)
	require.Len(t, errs, 1)
	var serr *StructuralError
	require.ErrorAs(t, errs[0], &serr)
	assert.Equal(t, "custom", serr.Tag)

	// Unrelated subtrees are still built.
	rootNode := tree.Node(tree.Root())
	require.Len(t, rootNode.Children, 1)
	assert.Equal(t, "p", tree.Node(rootNode.Children[0]).ElementTag())
}

func TestReplacedNode(t *testing.T) {
	img := elem("img")
	root := elem("div", img)
	b := testBuilder(nil)
	b.ReplacedSize = func(n *html.Node) (Point, bool) {
		if n == img {
			return Point{40, 30}, true
		}
		return Point{}, false
	}
	tree, errs := b.Build(root)
	require.Empty(t, errs)

	node := tree.Node(tree.Node(tree.Root()).Children[0])
	assert.Equal(t, Replaced, node.Mode)
	assert.Equal(t, Point{40, 30}, node.IntrinsicSize)
}

func TestWhitespaceOnlyTextDropped(t *testing.T) {
	root := elem("div", textNode("  \n\t "))
	tree, errs := testBuilder(nil).Build(root)
	require.Empty(t, errs)
	assert.Empty(t, tree.Node(tree.Root()).Children)
}

func TestBoxRectangles(t *testing.T) {
	box := BoxResult{
		PositionX: 100, PositionY: 50, Width: 200, Height: 80,
		MarginTop: 1, MarginRight: 2, MarginBottom: 3, MarginLeft: 4,
		PaddingTop: 5, PaddingRight: 6, PaddingBottom: 7, PaddingLeft: 8,
		BorderTopWidth: 9, BorderRightWidth: 10, BorderBottomWidth: 11, BorderLeftWidth: 12,
	}
	assert.Equal(t, Rect{100, 50, 200, 80}, box.ContentBox())
	assert.Equal(t, Rect{92, 45, 214, 92}, box.PaddingBox())
	assert.Equal(t, Rect{80, 36, 236, 112}, box.BorderBox())
	assert.Equal(t, Rect{76, 35, 242, 116}, box.MarginBox())
	assert.Equal(t, pr.Float(236), box.BorderWidth())
	assert.Equal(t, pr.Float(112), box.BorderHeight())
	assert.Equal(t, pr.Float(242), box.MarginWidth())
	assert.Equal(t, pr.Float(116), box.MarginHeight())
}

func TestMarkDirty(t *testing.T) {
	root := elem("div", elem("p", elem("b")), elem("p"))
	tree, errs := testBuilder(nil).Build(root)
	require.Empty(t, errs)

	rootNode := tree.Node(tree.Root())
	inner := tree.Node(rootNode.Children[0]).Children[0]
	tree.MarkDirty(inner)

	assert.True(t, tree.Node(inner).Dirty)
	assert.True(t, tree.Node(rootNode.Children[0]).Dirty)
	assert.True(t, rootNode.Dirty)
	// Siblings of the marked chain stay clean.
	assert.False(t, tree.Node(rootNode.Children[1]).Dirty)

	tree.ClearDirty()
	assert.False(t, rootNode.Dirty)
}

func TestDumpDoesNotPanic(t *testing.T) {
	root := elem("div", textNode("hello"), elem("p"))
	tree, errs := testBuilder(nil).Build(root)
	require.Empty(t, errs)
	assert.NotEmpty(t, tree.Dump())

	emptyTree, _ := testBuilder(nil).Build(nil)
	assert.Equal(t, "(empty tree)\n", emptyTree.Dump())
}
