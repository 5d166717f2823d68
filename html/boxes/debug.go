package boxes

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Dump returns an indented description of the tree, for debugging.
// Laid out nodes show their content box; others only their mode and tag.
func (t *Tree) Dump() string {
	if t.root == NoNode {
		return "(empty tree)\n"
	}
	out := treeprint.New()
	t.dumpTo(out, t.root)
	return out.String()
}

func (t *Tree) dumpTo(branch treeprint.Tree, id NodeID) {
	node := t.Node(id)
	label := fmt.Sprintf("%s <%s>", node.Mode, node.ElementTag())
	if node.Mode == Text {
		label = fmt.Sprintf("%s %q", node.Mode, node.Text)
	}
	if box := node.Box; box != nil {
		label += fmt.Sprintf(" (%g, %g) %gx%g", box.PositionX, box.PositionY, box.Width, box.Height)
	}
	child := branch.AddBranch(label)
	for _, c := range node.Children {
		t.dumpTo(child, c)
	}
}
