package windsway

import (
	"image"
	"slices"

	"github.com/google/uuid"
)

// Node is the document tree element. A single flat struct is used for both
// layers and folders; Type says which fields are meaningful.
type Node struct {
	// Identity
	ID   string
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Visibility
	Visible   bool
	Collapsed bool // folder disclosure state, not used by rendering

	// Effect
	EffectEnabled bool
	WindShake     WindShakeParams
	Pins          []Pin

	// Layer fields (NodeTypeLayer)
	Image      *image.NRGBA
	SourcePath string

	// Internal
	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = uuid.NewString()
	n.Visible = true
	n.WindShake = DefaultWindShake
}

// NewLayer creates an image layer. The effect starts disabled.
func NewLayer(name string, img *image.NRGBA) *Node {
	n := &Node{Name: name, Type: NodeTypeLayer, Image: img}
	nodeDefaults(n)
	return n
}

// NewFolder creates an empty folder.
func NewFolder(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeFolder}
	nodeDefaults(n)
	return n
}

// Width returns the layer's intrinsic image width, or 0 for folders and
// layers without an image.
func (n *Node) Width() int {
	if n.Image == nil {
		return 0
	}
	return n.Image.Rect.Dx()
}

// Height returns the layer's intrinsic image height.
func (n *Node) Height() int {
	if n.Image == nil {
		return 0
	}
	return n.Image.Rect.Dy()
}

// --- Tree manipulation ---

// AddChild appends child to this folder's children.
// If child already has a parent, it is removed from that parent first.
// Panics if n is a layer, child is nil, or child is an ancestor of n (cycle).
func (n *Node) AddChild(child *Node) {
	n.checkAdd(child, "AddChild")
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild. The index is read
// after child has been detached from its old parent.
func (n *Node) AddChildAt(child *Node, index int) {
	n.checkAdd(child, "AddChildAt")
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	if index < 0 || index > len(n.children) {
		panic("windsway: child index out of range")
	}
	child.Parent = n
	n.children = slices.Insert(n.children, index, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

func (n *Node) checkAdd(child *Node, op string) {
	if child == nil {
		panic("windsway: cannot add nil child")
	}
	if n.Type != NodeTypeFolder {
		panic("windsway: cannot add children to a layer")
	}
	if globalDebug {
		debugCheckDisposed(n, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	if isAncestor(child, n) {
		panic("windsway: adding child would create a cycle")
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("windsway: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChildAt")
	}
	if index < 0 || index >= len(n.children) {
		panic("windsway: child index out of range")
	}
	child := n.children[index]
	n.children = slices.Delete(n.children, index, index+1)
	child.Parent = nil
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list in paint order (first = bottom). The
// returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// IndexOf returns the index of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	return slices.Index(n.children, child)
}

// --- Effect ---

// SetEffectEnabled toggles the wind effect. Disabling it deletes every pin the
// node owns.
func (n *Node) SetEffectEnabled(enabled bool) {
	n.EffectEnabled = enabled
	if !enabled {
		n.ClearPins()
	}
}

// SetWindShake replaces the node's parameters, clamped into range.
func (n *Node) SetWindShake(p WindShakeParams) {
	n.WindShake = p.Clamp()
}

// AddPin appends a pin at positionPct with the default range and returns it.
func (n *Node) AddPin(positionPct float64) Pin {
	p := NewPin(positionPct, DefaultPinRange)
	n.Pins = append(n.Pins, p)
	return p
}

// RemovePin deletes the pin with the given id. Reports whether one was found.
func (n *Node) RemovePin(id string) bool {
	i := slices.IndexFunc(n.Pins, func(p Pin) bool { return p.ID == id })
	if i < 0 {
		return false
	}
	n.Pins = slices.Delete(n.Pins, i, i+1)
	return true
}

// ClearPins deletes every pin on the node.
func (n *Node) ClearPins() {
	n.Pins = nil
}

// SetPinRange sets the influence range of every pin on the node.
func (n *Node) SetPinRange(rangePct float64) {
	r := clampFloat(rangePct, 0, 100, DefaultPinRange)
	for i := range n.Pins {
		n.Pins[i].RangePct = r
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants, dropping their pins and images.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Pins = nil
	n.Image = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}
