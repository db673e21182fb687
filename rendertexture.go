package windsway

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// RenderTexture is a persistent offscreen canvas. Unlike the pooled buffers
// the compositor uses between chained effect stages, a RenderTexture is owned
// by the caller and is not recycled between frames.
type RenderTexture struct {
	image *image.NRGBA
	w, h  int
}

// NewRenderTexture creates a transparent offscreen canvas of the given size.
// Negative sizes are treated as zero.
func NewRenderTexture(w, h int) *RenderTexture {
	w, h = max(w, 0), max(h, 0)
	return &RenderTexture{
		image: image.NewNRGBA(image.Rect(0, 0, w, h)),
		w:     w,
		h:     h,
	}
}

// Image returns the underlying straight-alpha image.
func (rt *RenderTexture) Image() *image.NRGBA {
	return rt.image
}

// Width returns the texture width in pixels.
func (rt *RenderTexture) Width() int {
	return rt.w
}

// Height returns the texture height in pixels.
func (rt *RenderTexture) Height() int {
	return rt.h
}

// Clear fills the texture with transparent black.
func (rt *RenderTexture) Clear() {
	clearNRGBA(rt.image)
}

// DrawImageAt composites src with its top-left corner at (x, y).
func (rt *RenderTexture) DrawImageAt(src image.Image, x, y int) {
	b := src.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	xdraw.Draw(rt.image, r, src, b.Min, xdraw.Over)
}

// DrawMesh rasterizes src through a mesh whose positions are already in
// texture pixel space.
func (rt *RenderTexture) DrawMesh(src *image.NRGBA, positions, texCoords []Vec2, indices []uint16) int {
	return drawTriangles(rt.image, src, positions, texCoords, indices)
}

// Resize changes the texture dimensions and clears it. The pixel buffer is
// reused when its capacity allows (high-water mark).
func (rt *RenderTexture) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	need := width * height * 4
	if rt.image != nil && cap(rt.image.Pix) >= need {
		rt.image.Pix = rt.image.Pix[:need]
		rt.image.Stride = width * 4
		rt.image.Rect = image.Rect(0, 0, width, height)
		clear(rt.image.Pix)
	} else {
		rt.image = image.NewNRGBA(image.Rect(0, 0, width, height))
	}
	rt.w = width
	rt.h = height
}

// Dispose releases the pixel buffer. The RenderTexture should not be used
// after calling Dispose.
func (rt *RenderTexture) Dispose() {
	rt.image = nil
	rt.w, rt.h = 0, 0
}

// clearNRGBA zeroes the pixels inside img.Rect, honoring the stride of
// sub-images and pooled views.
func clearNRGBA(img *image.NRGBA) {
	if img == nil || img.Rect.Empty() {
		return
	}
	rowBytes := img.Rect.Dx() * 4
	if img.Stride == rowBytes && img.Rect.Min == (image.Point{}) {
		clear(img.Pix[:rowBytes*img.Rect.Dy()])
		return
	}
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		off := img.PixOffset(img.Rect.Min.X, y)
		clear(img.Pix[off : off+rowBytes])
	}
}
