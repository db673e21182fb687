package windsway

import "math"

// Vec2 is a 2D vector used for positions, texture coordinates, and sizes
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// NodeType distinguishes the two kinds of document node.
type NodeType uint8

const (
	NodeTypeLayer  NodeType = iota // image leaf
	NodeTypeFolder                 // group of layers and folders
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeLayer:
		return "layer"
	case NodeTypeFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// Strip and buffer constants shared by the deformer, the effect renderer and
// the compositor.
const (
	MinDivisions = 1
	MaxDivisions = 50

	// meshColumns is the fixed horizontal segment count of every strip mesh.
	meshColumns = 8

	// Offscreen effect buffers are the swept extent scaled by effectScale
	// plus effectPadding pixels, so chained passes never clip.
	effectScale   = 1.2
	effectPadding = 200
)

// clampFloat clamps v to [lo, hi]. NaN maps to def.
func clampFloat(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FitScale returns the uniform scale that fits a content box into a view
// box. Returns 0 when either box is empty.
func FitScale(contentW, contentH, viewW, viewH float64) float64 {
	if contentW <= 0 || contentH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0
	}
	return math.Min(viewW/contentW, viewH/contentH)
}

// ZoomFitScale is FitScale with the 90% margin used when sizing a preview
// window around the document.
func ZoomFitScale(contentW, contentH, viewW, viewH float64) float64 {
	return FitScale(contentW, contentH, viewW, viewH) * 0.9
}
