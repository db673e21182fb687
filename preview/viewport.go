package preview

import (
	windsway "github.com/phanxgames/windsway"
)

// viewport maps between screen pixels and the document. The document is
// drawn centered and uniformly scaled so the widest frame of the loop fits.
type viewport struct {
	width, height int
	scale         float64
}

// fitViewport sizes a viewport so that the largest frame of d over one loop
// fits inside w x h with a margin.
func fitViewport(c *windsway.Compositor, d *windsway.Document, w, h int) viewport {
	cw, ch := worstFrame(c, d)
	scale := windsway.ZoomFitScale(float64(cw), float64(ch), float64(w), float64(h))
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	return viewport{width: w, height: h, scale: scale}
}

// worstFrame measures every frame of the loop and returns the largest
// extent seen on each axis.
func worstFrame(c *windsway.Compositor, d *windsway.Document) (int, int) {
	frames := d.FrameCount()
	if frames == 0 {
		return d.MaxImageSize()
	}
	var maxW, maxH int
	for i := 0; i < frames; i++ {
		w, h := c.Measure(d, float64(i)/float64(d.FPS))
		maxW = max(maxW, w)
		maxH = max(maxH, h)
	}
	return maxW, maxH
}

// pinPosition converts a cursor row into a pin position on a strip of the
// given rest height drawn centered in the viewport. ok is false when the
// cursor is above or below the strip.
func (v viewport) pinPosition(cursorY int, restHeight int) (pos float64, ok bool) {
	if restHeight <= 0 || v.scale <= 0 {
		return 0, false
	}
	drawn := float64(restHeight) * v.scale
	top := float64(v.height)/2 - drawn/2
	local := float64(cursorY) - top
	if local < 0 || local > drawn {
		return 0, false
	}
	return windsway.PinPositionFromLocalY(local, drawn), true
}

// pinTarget picks the node that receives clicked pins: the first selected
// node with the effect enabled, otherwise the first such node in paint
// order.
func pinTarget(d *windsway.Document) *windsway.Node {
	for _, n := range d.Selection() {
		if n.EffectEnabled {
			return n
		}
	}
	var found *windsway.Node
	d.Walk(func(n *windsway.Node, _ int) bool {
		if found != nil || !n.Visible {
			return false
		}
		if n.EffectEnabled {
			found = n
			return false
		}
		return true
	})
	return found
}

// restHeight is the unbent height of target's strip. Folder stages bend the
// layers beneath them, so the tallest visible image stands in for them.
func restHeight(d *windsway.Document, target *windsway.Node) int {
	if target.Type == windsway.NodeTypeLayer {
		return target.Height()
	}
	h := 0
	for _, fl := range windsway.Flatten(d) {
		for _, a := range fl.Ancestors {
			if a == target {
				h = max(h, fl.Layer.Height())
				break
			}
		}
	}
	return h
}
