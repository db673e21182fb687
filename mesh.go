package windsway

import "math"

// transformPositions applies an affine transform to src positions, writing the
// result into dst. dst must be at least len(src) in length.
//
// Matrix layout: [0]=a, [1]=b, [2]=c, [3]=d, [4]=tx, [5]=ty
// newX = a*x + c*y + tx, newY = b*x + d*y + ty
func transformPositions(src, dst []Vec2, transform [6]float64) {
	a, b, c, d, tx, ty := transform[0], transform[1], transform[2], transform[3], transform[4], transform[5]
	for i := range src {
		x, y := src[i].X, src[i].Y
		dst[i] = Vec2{
			X: a*x + c*y + tx,
			Y: b*x + d*y + ty,
		}
	}
}

// computeMeshAABB scans positions and returns their axis-aligned bounding box.
func computeMeshAABB(positions []Vec2) Rect {
	if len(positions) == 0 {
		return Rect{}
	}
	minX, minY := positions[0].X, positions[0].Y
	maxX, maxY := minX, minY
	for i := 1; i < len(positions); i++ {
		x, y := positions[i].X, positions[i].Y
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// stageGeometry places one deformed strip into an offscreen buffer.
//
// The rest rectangle of the source image is centered in the buffer: local
// (0, restHeight/2) maps to the buffer center. Keeping the anchor fixed
// instead of centering the swept box stops the image from sliding sideways as
// the bend changes from frame to frame.
type stageGeometry struct {
	Width, Height int     // buffer size in pixels
	ExtentW       float64 // swept extent symmetric about the anchor, before inflation
	ExtentH       float64
	restHeight    float64
}

// newStageGeometry sizes the buffer for a mesh with the given bounds.
func newStageGeometry(bounds Rect, restHeight float64) stageGeometry {
	cy := restHeight / 2
	hx := math.Max(math.Abs(bounds.X), math.Abs(bounds.MaxX()))
	hy := math.Max(math.Abs(bounds.Y-cy), math.Abs(bounds.MaxY()-cy))
	g := stageGeometry{ExtentW: 2 * hx, ExtentH: 2 * hy, restHeight: restHeight}
	g.Width, g.Height = inflateExtent(g.ExtentW, g.ExtentH)
	return g
}

// inflateExtent grows a swept extent by effectScale plus effectPadding.
func inflateExtent(w, h float64) (int, int) {
	return int(math.Ceil(w*effectScale)) + effectPadding,
		int(math.Ceil(h*effectScale)) + effectPadding
}

// transform returns the local→device matrix that centers the rest rectangle
// on (cx, cy) at the given scale.
func (g stageGeometry) transform(cx, cy, scale float64) [6]float64 {
	return [6]float64{scale, 0, 0, scale, cx, cy - scale*g.restHeight/2}
}

// bufferTransform centers the stage in its own buffer at scale 1.
func (g stageGeometry) bufferTransform() [6]float64 {
	return g.transform(float64(g.Width)/2, float64(g.Height)/2, 1)
}
