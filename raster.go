package windsway

import (
	"image"
	"math"
)

// drawTriangles rasterizes an indexed, textured mesh into dst. positions are
// in dst pixel space and texCoords are normalized to the source image.
// Sampling is bilinear with clamp-to-edge; blending is straight-alpha
// source-over. Shared edges are filled exactly once (top-left rule), so
// semi-transparent images show no seams along the triangle diagonals.
func drawTriangles(dst, src *image.NRGBA, positions, texCoords []Vec2, indices []uint16) int {
	if dst == nil || src == nil || src.Rect.Empty() || dst.Rect.Empty() {
		return 0
	}
	nv := len(positions)
	if len(texCoords) < nv {
		nv = len(texCoords)
	}
	drawn := 0
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if i0 >= nv || i1 >= nv || i2 >= nv {
			continue
		}
		if drawTriangle(dst, src,
			positions[i0], positions[i1], positions[i2],
			texCoords[i0], texCoords[i1], texCoords[i2]) {
			drawn++
		}
	}
	return drawn
}

// edgeFunction is twice the signed area of (a, b, p).
func edgeFunction(a, b, p Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// isTopLeft reports whether edge a→b is a top or left edge of a triangle
// with positive edgeFunction area in Y-down coordinates.
func isTopLeft(a, b Vec2) bool {
	return (a.Y == b.Y && b.X > a.X) || b.Y < a.Y
}

func covers(w float64, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

func drawTriangle(dst, src *image.NRGBA, p0, p1, p2, t0, t1, t2 Vec2) bool {
	area := edgeFunction(p0, p1, p2)
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return false
	}
	if area < 0 {
		p1, p2 = p2, p1
		t1, t2 = t2, t1
		area = -area
	}

	db := dst.Rect
	minX := max(int(math.Floor(min(p0.X, p1.X, p2.X))), db.Min.X)
	minY := max(int(math.Floor(min(p0.Y, p1.Y, p2.Y))), db.Min.Y)
	maxX := min(int(math.Ceil(max(p0.X, p1.X, p2.X))), db.Max.X-1)
	maxY := min(int(math.Ceil(max(p0.Y, p1.Y, p2.Y))), db.Max.Y-1)
	if minX > maxX || minY > maxY {
		return false
	}

	tl0 := isTopLeft(p1, p2)
	tl1 := isTopLeft(p2, p0)
	tl2 := isTopLeft(p0, p1)
	inv := 1 / area
	sw := float64(src.Rect.Dx())
	sh := float64(src.Rect.Dy())

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			p := Vec2{X: float64(x) + 0.5, Y: py}
			w0 := edgeFunction(p1, p2, p)
			w1 := edgeFunction(p2, p0, p)
			w2 := edgeFunction(p0, p1, p)
			if !covers(w0, tl0) || !covers(w1, tl1) || !covers(w2, tl2) {
				continue
			}
			l0, l1, l2 := w0*inv, w1*inv, w2*inv
			u := l0*t0.X + l1*t1.X + l2*t2.X
			v := l0*t0.Y + l1*t1.Y + l2*t2.Y
			r, g, b, a := sampleBilinear(src, u*sw-0.5, v*sh-0.5)
			blendOver(dst, x, y, r, g, b, a)
		}
	}
	return true
}

// sampleBilinear samples src at texel-space (fx, fy), where texel centers sit
// at integer coordinates. Channels are straight alpha in [0, 255].
func sampleBilinear(src *image.NRGBA, fx, fy float64) (r, g, b, a float64) {
	w := src.Rect.Dx()
	h := src.Rect.Dy()
	x0f := math.Floor(fx)
	y0f := math.Floor(fy)
	ax := fx - x0f
	ay := fy - y0f
	x0 := clampInt(int(x0f), 0, w-1)
	y0 := clampInt(int(y0f), 0, h-1)
	x1 := clampInt(int(x0f)+1, 0, w-1)
	y1 := clampInt(int(y0f)+1, 0, h-1)

	ox := src.Rect.Min.X
	oy := src.Rect.Min.Y
	p00 := src.PixOffset(ox+x0, oy+y0)
	p10 := src.PixOffset(ox+x1, oy+y0)
	p01 := src.PixOffset(ox+x0, oy+y1)
	p11 := src.PixOffset(ox+x1, oy+y1)
	pix := src.Pix

	w00 := (1 - ax) * (1 - ay)
	w10 := ax * (1 - ay)
	w01 := (1 - ax) * ay
	w11 := ax * ay

	ch := func(c int) float64 {
		return float64(pix[p00+c])*w00 + float64(pix[p10+c])*w10 +
			float64(pix[p01+c])*w01 + float64(pix[p11+c])*w11
	}
	return ch(0), ch(1), ch(2), ch(3)
}

// blendOver composites a straight-alpha color onto the dst pixel at (x, y).
func blendOver(dst *image.NRGBA, x, y int, r, g, b, a float64) {
	sa := a / 255
	if sa <= 0 {
		return
	}
	off := dst.PixOffset(x, y)
	px := dst.Pix[off : off+4 : off+4]
	if sa >= 1 {
		px[0] = toByte(r)
		px[1] = toByte(g)
		px[2] = toByte(b)
		px[3] = 255
		return
	}
	da := float64(px[3]) / 255
	keep := da * (1 - sa)
	outA := sa + keep
	if outA <= 0 {
		return
	}
	px[0] = toByte((r*sa + float64(px[0])*keep) / outA)
	px[1] = toByte((g*sa + float64(px[1])*keep) / outA)
	px[2] = toByte((b*sa + float64(px[2])*keep) / outA)
	px[3] = toByte(outA * 255)
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
