package layout

import (
	"testing"

	"golang.org/x/net/html"

	pr "github.com/velora-engine/velora/css/properties"
	bo "github.com/velora-engine/velora/html/boxes"
	"github.com/velora-engine/velora/text"
	tu "github.com/velora-engine/velora/utils/testutils"
)

type Fl = pr.Float

func elem(tag string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func textNode(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }

type styleMap map[*html.Node]pr.Properties

// block returns a block style with the given overrides.
func block(overrides pr.Properties) pr.Properties {
	out := pr.Properties{pr.PDisplay: pr.String("block")}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func buildTree(t *testing.T, root *html.Node, styles styleMap) *bo.Tree {
	t.Helper()
	tree, errs := bo.Builder{StyleFor: func(n *html.Node) pr.Properties {
		if s, ok := styles[n]; ok {
			return s
		}
		return pr.Properties{pr.PDisplay: pr.String("block")}
	}}.Build(root)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	return tree
}

// layoutTree builds and lays out a document against a (width, height)
// viewport, using the square glyph metrics.
func layoutTree(t *testing.T, root *html.Node, styles styleMap, width, height Fl) *bo.Tree {
	t.Helper()
	tree := buildTree(t, root, styles)
	Layout(tree, width, height, text.FixedMetrics{})
	return tree
}

// boxOf returns the box laid out for the given source element.
func boxOf(t *testing.T, tree *bo.Tree, el *html.Node) *bo.BoxResult {
	t.Helper()
	for id := bo.NodeID(0); int(id) < tree.Size(); id++ {
		node := tree.Node(id)
		if node.Element == el && node.Mode != bo.Text {
			if node.Box == nil {
				t.Fatalf("<%s> has no box result", el.Data)
			}
			return node.Box
		}
	}
	t.Fatalf("<%s> not found in the layout tree", el.Data)
	return nil
}

func TestBlockPercentageWidths(t *testing.T) {
	capt := tu.CaptureLogs()
	c1, c2 := elem("div"), elem("div")
	root := elem("body", c1, c2)
	tree := layoutTree(t, root, styleMap{
		root: block(pr.Properties{pr.PWidth: pr.FToV(200)}),
		c1:   block(pr.Properties{pr.PWidth: pr.PercToV(50), pr.PHeight: pr.FToV(10)}),
		c2:   block(pr.Properties{pr.PWidth: pr.PercToV(50), pr.PHeight: pr.FToV(10)}),
	}, 400, 300)
	capt.AssertNoLogs(t)

	b1, b2 := boxOf(t, tree, c1), boxOf(t, tree, c2)
	tu.AssertEqual(t, b1.Width, Fl(100))
	tu.AssertEqual(t, b2.Width, Fl(100))
	// Block children stack vertically, they are never laid side by side.
	tu.AssertEqual(t, b1.PositionX, Fl(0))
	tu.AssertEqual(t, b2.PositionX, Fl(0))
	tu.AssertEqual(t, b1.PositionY, Fl(0))
	tu.AssertEqual(t, b2.PositionY, Fl(10))
}

func TestSiblingMarginCollapsing(t *testing.T) {
	for _, test := range []struct {
		m1, m2, gap Fl
	}{
		{10, 20, 20},
		{-10, 20, 10},
		{-10, -20, -20},
	} {
		c1, c2 := elem("div"), elem("div")
		root := elem("body", c1, c2)
		tree := layoutTree(t, root, styleMap{
			c1: block(pr.Properties{pr.PHeight: pr.FToV(10), pr.PMarginBottom: pr.FToV(test.m1)}),
			c2: block(pr.Properties{pr.PHeight: pr.FToV(10), pr.PMarginTop: pr.FToV(test.m2)}),
		}, 100, 100)

		b1, b2 := boxOf(t, tree, c1), boxOf(t, tree, c2)
		tu.AssertEqual(t, b2.PositionY-(b1.PositionY+b1.Height), test.gap)
	}
}

func TestParentChildMarginCollapsing(t *testing.T) {
	inner := elem("p")
	wrapper := elem("div", inner)
	root := elem("body", wrapper)
	tree := layoutTree(t, root, styleMap{
		wrapper: block(pr.Properties{pr.PMarginTop: pr.FToV(10)}),
		inner:   block(pr.Properties{pr.PMarginTop: pr.FToV(30), pr.PHeight: pr.FToV(5)}),
	}, 100, 100)

	// No border or padding intervenes: the two margins collapse to 30 and
	// both border edges sit together.
	tu.AssertEqual(t, boxOf(t, tree, wrapper).PositionY, Fl(30))
	tu.AssertEqual(t, boxOf(t, tree, inner).PositionY, Fl(30))
}

func TestPaddingContainsChildMargin(t *testing.T) {
	inner := elem("p")
	wrapper := elem("div", inner)
	root := elem("body", wrapper)
	tree := layoutTree(t, root, styleMap{
		wrapper: block(pr.Properties{pr.PPaddingTop: pr.FToV(5)}),
		inner:   block(pr.Properties{pr.PMarginTop: pr.FToV(10), pr.PHeight: pr.FToV(5)}),
	}, 100, 100)

	w, i := boxOf(t, tree, wrapper), boxOf(t, tree, inner)
	tu.AssertEqual(t, w.PositionY, Fl(5))
	tu.AssertEqual(t, i.PositionY, Fl(15))
	// The contained margin counts in the auto height.
	tu.AssertEqual(t, w.Height, Fl(15))
}

func TestAutoMarginsCenter(t *testing.T) {
	child := elem("div")
	root := elem("body", child)
	tree := layoutTree(t, root, styleMap{
		child: block(pr.Properties{
			pr.PWidth:       pr.FToV(60),
			pr.PHeight:      pr.FToV(10),
			pr.PMarginLeft:  pr.SToV("auto"),
			pr.PMarginRight: pr.SToV("auto"),
		}),
	}, 100, 100)

	b := boxOf(t, tree, child)
	tu.AssertEqual(t, b.PositionX, Fl(20))
	tu.AssertEqual(t, b.MarginLeft, Fl(20))
	tu.AssertEqual(t, b.MarginRight, Fl(20))
}

func TestBorderBoxSizing(t *testing.T) {
	child := elem("div")
	root := elem("body", child)
	tree := layoutTree(t, root, styleMap{
		child: block(pr.Properties{
			pr.PWidth:          pr.FToV(100),
			pr.PHeight:         pr.FToV(50),
			pr.PBoxSizing:      pr.String("border-box"),
			pr.PPaddingLeft:    pr.FToV(10),
			pr.PPaddingRight:   pr.FToV(10),
			pr.PBorderTopWidth: pr.FToV(5),
			pr.PPaddingTop:     pr.FToV(5),
		}),
	}, 200, 200)

	b := boxOf(t, tree, child)
	tu.AssertEqual(t, b.Width, Fl(80))
	tu.AssertEqual(t, b.Height, Fl(40))
	tu.AssertEqual(t, b.BorderWidth(), Fl(100))
}

func TestOverflowRecorded(t *testing.T) {
	child := elem("div")
	root := elem("body", child)
	tree := layoutTree(t, root, styleMap{
		root:  block(pr.Properties{pr.PWidth: pr.FToV(100)}),
		child: block(pr.Properties{pr.PWidth: pr.FToV(300), pr.PHeight: pr.FToV(10)}),
	}, 100, 100)

	// A child wider than the available space is not an error.
	tu.AssertEqual(t, boxOf(t, tree, child).Width, Fl(300))
	tu.AssertEqual(t, boxOf(t, tree, root).Overflow, true)
}

func TestIndeterminatePercentageHeight(t *testing.T) {
	child := elem("div")
	wrapper := elem("div", child)
	root := elem("body", wrapper)
	tree := layoutTree(t, root, styleMap{
		child: block(pr.Properties{pr.PHeight: pr.PercToV(50)}),
	}, 100, 100)

	// 50% of an auto-height ancestor: defaulted, and tagged for a later
	// pass to re-resolve.
	b := boxOf(t, tree, child)
	tu.AssertEqual(t, b.Indeterminate, true)
	tu.AssertEqual(t, b.Height, Fl(0))
}

func TestNoNegativeGeometry(t *testing.T) {
	inner := elem("p", textNode("x"))
	child := elem("div", inner)
	root := elem("body", child)
	tree := layoutTree(t, root, styleMap{
		child: block(pr.Properties{pr.PMarginTop: pr.FToV(-50), pr.PHeight: pr.FToV(-10)}),
		inner: block(pr.Properties{pr.PMarginBottom: pr.FToV(-100)}),
	}, 100, 100)

	for id := bo.NodeID(0); int(id) < tree.Size(); id++ {
		box := tree.Node(id).Box
		if box == nil {
			continue
		}
		if box.Width < 0 || box.Height < 0 {
			t.Fatalf("negative content size %gx%g for %s", box.Width, box.Height, tree.Node(id).Mode)
		}
	}
}

func TestIntrinsicText(t *testing.T) {
	txt := textNode("hello world")
	root := elem("body", txt)
	tree := layoutTree(t, root, styleMap{
		root: block(pr.Properties{pr.PFontSize: pr.Float(10)}),
	}, 500, 100)

	// Square glyphs: the widest word is 5 glyphs, the unwrapped run 11.
	node := tree.Node(tree.Root())
	tu.AssertEqual(t, node.IntrinsicMinWidth, Fl(50))
	tu.AssertEqual(t, node.IntrinsicMaxWidth, Fl(110))
}

func TestIntrinsicMonotonicity(t *testing.T) {
	flexBox := elem("div", elem("i"), elem("i"))
	gridBox := elem("div", elem("p"))
	root := elem("body", elem("div", textNode("some words here")), flexBox, gridBox)
	tree := layoutTree(t, root, styleMap{
		flexBox: pr.Properties{pr.PDisplay: pr.String("flex")},
		gridBox: pr.Properties{pr.PDisplay: pr.String("grid")},
	}, 200, 200)

	for id := bo.NodeID(0); int(id) < tree.Size(); id++ {
		node := tree.Node(id)
		if node.IntrinsicMinWidth > node.IntrinsicMaxWidth {
			t.Fatalf("min-content %g > max-content %g for %s",
				node.IntrinsicMinWidth, node.IntrinsicMaxWidth, node.Mode)
		}
	}
}

func TestIntrinsicIgnoresDisplayNone(t *testing.T) {
	hidden := elem("div", textNode("a very long hidden run of text"))
	root := elem("body", hidden, textNode("ab"))
	tree := layoutTree(t, root, styleMap{
		hidden: pr.Properties{pr.PDisplay: pr.String("none")},
	}, 100, 100)

	// Only the visible two glyph run contributes.
	tu.AssertEqual(t, tree.Node(tree.Root()).IntrinsicMaxWidth, Fl(32))
}

func TestInlineWrapping(t *testing.T) {
	txt := textNode("aa bb cc")
	root := elem("body", txt)
	tree := layoutTree(t, root, styleMap{
		root: block(pr.Properties{pr.PWidth: pr.FToV(50), pr.PFontSize: pr.Float(10)}),
	}, 100, 100)

	// "aa bb" fills the first line exactly, "cc" wraps.
	b := boxOf(t, tree, root)
	tu.AssertEqual(t, b.Height, Fl(20))
	tu.AssertEqual(t, b.Baseline, Fl(8))

	for id := bo.NodeID(0); int(id) < tree.Size(); id++ {
		node := tree.Node(id)
		if node.Mode == bo.Text {
			tu.AssertEqual(t, node.Box.Width, Fl(50))
			tu.AssertEqual(t, node.Box.Height, Fl(20))
		}
	}
}

func TestReplacedAspectRatio(t *testing.T) {
	img := elem("img")
	root := elem("body", elem("div", img))
	tree, errs := bo.Builder{
		StyleFor: func(n *html.Node) pr.Properties {
			if n == img {
				return block(pr.Properties{pr.PWidth: pr.FToV(80)})
			}
			return pr.Properties{pr.PDisplay: pr.String("block")}
		},
		ReplacedSize: func(n *html.Node) (bo.Point, bool) {
			if n == img {
				return bo.Point{40, 30}, true
			}
			return bo.Point{}, false
		},
	}.Build(root)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	Layout(tree, 200, 200, nil)

	b := boxOf(t, tree, img)
	tu.AssertEqual(t, b.Width, Fl(80))
	tu.AssertEqual(t, b.Height, Fl(60))
}

func TestEmptyTree(t *testing.T) {
	root := elem("body")
	tree := layoutTree(t, root, styleMap{
		root: pr.Properties{pr.PDisplay: pr.String("none")},
	}, 100, 100)
	tu.AssertEqual(t, tree.Root(), bo.NoNode)
	// A whole pass over an empty tree is a no-op, not a crash.
	Layout(tree, 100, 100, nil)
}

func TestLayoutClearsDirty(t *testing.T) {
	child := elem("div")
	root := elem("body", child)
	tree := buildTree(t, root, nil)
	tree.MarkDirty(tree.Node(tree.Root()).Children[0])
	Layout(tree, 100, 100, nil)
	for id := bo.NodeID(0); int(id) < tree.Size(); id++ {
		tu.AssertEqual(t, tree.Node(id).Dirty, false)
	}
}
