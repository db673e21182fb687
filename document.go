package windsway

import (
	"fmt"
	"slices"
)

// Default animation settings for new documents.
const (
	DefaultFPS      = 30
	DefaultDuration = 5.0
)

// Document owns the layer forest, the current selection and the animation
// settings. It is not safe for concurrent use; a busy flag rejects re-entrant
// pipeline runs instead of locking.
type Document struct {
	root      *Node
	selection []*Node

	FPS      int
	Duration float64 // seconds

	busy bool
}

// NewDocument creates an empty document with default animation settings.
func NewDocument() *Document {
	return &Document{
		root:     NewFolder("root"),
		FPS:      DefaultFPS,
		Duration: DefaultDuration,
	}
}

// Root returns the hidden folder that holds the top-level forest. Its own
// effect fields are never rendered.
func (d *Document) Root() *Node {
	return d.root
}

// Layers returns the top-level nodes in paint order. The returned slice MUST
// NOT be mutated by the caller.
func (d *Document) Layers() []*Node {
	return d.root.children
}

// Add appends n to the top of the top-level forest.
func (d *Document) Add(n *Node) {
	d.root.AddChild(n)
}

// AddTo appends n to the given folder. A nil parent means the top level.
func (d *Document) AddTo(parent, n *Node) {
	if parent == nil {
		parent = d.root
	}
	parent.AddChild(n)
}

// Walk visits every node depth-first in paint order. depth is 0 for top-level
// nodes. Returning false from fn skips that node's children.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		for _, c := range n.children {
			if fn(c, depth) {
				walk(c, depth+1)
			}
		}
	}
	walk(d.root, 0)
}

// Find returns the node with the given id, or nil.
func (d *Document) Find(id string) *Node {
	var found *Node
	d.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Len returns the number of nodes in the document, folders included.
func (d *Document) Len() int {
	count := 0
	d.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Remove deletes the node and its subtree, releasing their images and pins.
func (d *Document) Remove(id string) error {
	n := d.Find(id)
	if n == nil {
		return fmt.Errorf("remove %q: %w", id, ErrNodeNotFound)
	}
	d.selection = slices.DeleteFunc(d.selection, func(s *Node) bool {
		return isAncestor(n, s)
	})
	n.Dispose()
	return nil
}

// Move reparents the node to parentID at index. An empty parentID means the
// top level. index is clamped to the destination's child count after the
// node has been detached.
func (d *Document) Move(id, parentID string, index int) error {
	n := d.Find(id)
	if n == nil {
		return fmt.Errorf("move %q: %w", id, ErrNodeNotFound)
	}
	parent := d.root
	if parentID != "" {
		parent = d.Find(parentID)
		if parent == nil {
			return fmt.Errorf("move %q into %q: %w", id, parentID, ErrNodeNotFound)
		}
	}
	if parent.Type != NodeTypeFolder {
		return fmt.Errorf("move %q: destination %q is a layer: %w", id, parent.Name, ErrInvalidSelection)
	}
	if isAncestor(n, parent) {
		return fmt.Errorf("move %q: cannot move a folder into itself: %w", id, ErrInvalidSelection)
	}
	n.RemoveFromParent()
	parent.AddChildAt(n, clampInt(index, 0, len(parent.children)))
	return nil
}

// Select replaces the selection. Unknown ids are an error and leave the
// selection unchanged.
func (d *Document) Select(ids ...string) error {
	sel := make([]*Node, 0, len(ids))
	for _, id := range ids {
		n := d.Find(id)
		if n == nil {
			return fmt.Errorf("select %q: %w", id, ErrNodeNotFound)
		}
		if !slices.Contains(sel, n) {
			sel = append(sel, n)
		}
	}
	d.selection = sel
	return nil
}

// Selection returns the selected nodes. The returned slice MUST NOT be
// mutated by the caller.
func (d *Document) Selection() []*Node {
	return d.selection
}

// ClearSelection empties the selection.
func (d *Document) ClearSelection() {
	d.selection = nil
}

// Group moves the selected nodes into a new folder placed where the lowest
// selected node was. The nodes keep their relative order. At least two nodes
// sharing one parent must be selected; otherwise nothing changes.
func (d *Document) Group(name string) (*Node, error) {
	if len(d.selection) < 2 {
		return nil, ErrInvalidSelection
	}
	parent := d.selection[0].Parent
	for _, n := range d.selection[1:] {
		if n.Parent != parent {
			return nil, ErrInvalidSelection
		}
	}
	if parent == nil {
		return nil, ErrInvalidSelection
	}

	members := make([]*Node, 0, len(d.selection))
	for _, c := range parent.children {
		if slices.Contains(d.selection, c) {
			members = append(members, c)
		}
	}
	at := parent.IndexOf(members[0])

	folder := NewFolder(name)
	for _, m := range members {
		folder.AddChild(m)
	}
	parent.AddChildAt(folder, at)
	d.selection = []*Node{folder}
	return folder, nil
}

// Ungroup replaces the folder with its children, in order, at the folder's
// former position, then deletes the folder.
func (d *Document) Ungroup(id string) error {
	folder := d.Find(id)
	if folder == nil {
		return fmt.Errorf("ungroup %q: %w", id, ErrNodeNotFound)
	}
	if folder.Type != NodeTypeFolder {
		return fmt.Errorf("ungroup %q: not a folder: %w", id, ErrInvalidSelection)
	}
	parent := folder.Parent
	at := parent.IndexOf(folder)
	children := slices.Clone(folder.children)
	for i, c := range children {
		parent.AddChildAt(c, at+1+i)
	}
	d.selection = slices.DeleteFunc(d.selection, func(s *Node) bool { return s == folder })
	folder.Dispose()
	return nil
}

// MaxImageSize returns the largest width and height among the images that
// are currently rendered. This is the "original" export resolution.
func (d *Document) MaxImageSize() (int, int) {
	var w, h int
	for _, fl := range Flatten(d) {
		w = max(w, fl.Layer.Width())
		h = max(h, fl.Layer.Height())
	}
	return w, h
}

// FrameCount returns ceil(Duration*FPS), or 0 when either is not positive.
func (d *Document) FrameCount() int {
	return frameCount(d.Duration, d.FPS)
}

// begin marks the document busy for the length of one pipeline run.
func (d *Document) begin() error {
	if d.busy {
		return ErrDocumentBusy
	}
	d.busy = true
	return nil
}

func (d *Document) end() {
	d.busy = false
}
