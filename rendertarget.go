package windsway

import (
	"image"
	"math"
)

// renderTexturePool manages reusable offscreen pixel buffers keyed by
// power-of-two dimensions. Acquire hands out views of the exact requested size
// so chained effect stages see true buffer dimensions. After warmup,
// Acquire/Release are zero-alloc.
type renderTexturePool struct {
	buckets map[uint64][]*image.NRGBA
	live    int // acquired and not yet released, for debug stats
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared w×h image backed by a buffer whose dimensions are
// rounded up to the next power of two.
func (p *renderTexturePool) Acquire(w, h int) *image.NRGBA {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)
	p.live++

	var backing *image.NRGBA
	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			backing = stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
		}
	}
	if backing == nil {
		backing = image.NewNRGBA(image.Rect(0, 0, pw, ph))
	}

	view := &image.NRGBA{
		Pix:    backing.Pix,
		Stride: backing.Stride,
		Rect:   image.Rect(0, 0, max(w, 0), max(h, 0)),
	}
	clearNRGBA(view)
	return view
}

// Release returns an image obtained from Acquire to the pool. The view is
// cleared on next Acquire, not here.
func (p *renderTexturePool) Release(img *image.NRGBA) {
	if img == nil || img.Stride == 0 {
		return
	}
	pw := img.Stride / 4
	ph := len(img.Pix) / img.Stride
	key := poolKey(pw, ph)

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*image.NRGBA)
	}
	backing := &image.NRGBA{Pix: img.Pix, Stride: img.Stride, Rect: image.Rect(0, 0, pw, ph)}
	p.buckets[key] = append(p.buckets[key], backing)
	p.live--
}

// idle returns the number of pooled buffers waiting for reuse.
func (p *renderTexturePool) idle() int {
	n := 0
	for _, stack := range p.buckets {
		n += len(stack)
	}
	return n
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
