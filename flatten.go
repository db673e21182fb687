package windsway

// FlatLayer is one renderable leaf together with the folders it sits in,
// innermost first.
type FlatLayer struct {
	Layer     *Node
	Ancestors []*Node
}

// hasEffect reports whether any stage of the chain bends the image.
func (fl FlatLayer) hasEffect() bool {
	if fl.Layer.EffectEnabled {
		return true
	}
	for _, a := range fl.Ancestors {
		if a.EffectEnabled {
			return true
		}
	}
	return false
}

// Flatten lists the renderable layers of d in paint order. Invisible nodes
// hide their whole subtree; layers with a missing or zero-size image are
// skipped.
func Flatten(d *Document) []FlatLayer {
	return appendFlat(nil, d.root.children, nil)
}

func appendFlat(out []FlatLayer, nodes []*Node, outer []*Node) []FlatLayer {
	for _, n := range nodes {
		if !n.Visible {
			continue
		}
		switch n.Type {
		case NodeTypeLayer:
			if n.Width() <= 0 || n.Height() <= 0 {
				continue
			}
			anc := make([]*Node, len(outer))
			// outer is outermost first; FlatLayer wants innermost first.
			for i, a := range outer {
				anc[len(outer)-1-i] = a
			}
			out = append(out, FlatLayer{Layer: n, Ancestors: anc})
		case NodeTypeFolder:
			path := append(outer[:len(outer):len(outer)], n)
			out = appendFlat(out, n.children, path)
		}
	}
	return out
}
