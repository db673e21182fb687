package windsway

import (
	"image"
	"math"
	"time"

	"github.com/charmbracelet/log"
	xdraw "golang.org/x/image/draw"
)

// Compositor flattens a document and renders one frame of it. It keeps its
// deformation buffers and a pool of intermediate stage buffers between calls.
// A Compositor is not safe for concurrent use.
type Compositor struct {
	deformer Deformer
	pool     renderTexturePool
	scratch  []Vec2
	chain    []*Node
	stages   map[*Node]*folderStage

	logger *log.Logger
	debug  bool
}

// folderStage is the shared frame of one effect-enabled folder at time t.
// Every member's previous-stage output is centered on a canvas of the
// members' combined extent, so all members sample one deformation field and
// the folder sways as a single image.
type folderStage struct {
	members          []stageInput
	canvasW, canvasH int
	outW, outH       int // stage buffer size
	resolved         bool
}

// stageInput is one member layer of a folder stage.
type stageInput struct {
	fl    FlatLayer
	depth int // index of the folder in fl.Ancestors
}

// NewCompositor creates a compositor that logs nowhere until SetLogger.
func NewCompositor() *Compositor {
	return &Compositor{logger: discardLogger(), stages: make(map[*Node]*folderStage)}
}

// SetLogger sets the logger used for debug stats. nil restores the discard
// logger.
func (c *Compositor) SetLogger(l *log.Logger) {
	if l == nil {
		l = discardLogger()
	}
	c.logger = l
}

// SetDebug enables per-frame timing stats at debug level.
func (c *Compositor) SetDebug(enabled bool) {
	c.debug = enabled
}

// effectChain returns the enabled effect stages of fl, innermost first. The
// slice is reused between calls.
func (c *Compositor) effectChain(fl FlatLayer) []*Node {
	c.chain = c.chain[:0]
	if fl.Layer.EffectEnabled {
		c.chain = append(c.chain, fl.Layer)
	}
	for _, a := range fl.Ancestors {
		if a.EffectEnabled {
			c.chain = append(c.chain, a)
		}
	}
	return c.chain
}

// planStages sizes the shared frame of every effect-enabled folder in flat
// at time t. It must run before measuring or rendering flat at t.
func (c *Compositor) planStages(flat []FlatLayer, t float64) {
	if c.stages == nil {
		c.stages = make(map[*Node]*folderStage)
	}
	clear(c.stages)
	for _, fl := range flat {
		for k, a := range fl.Ancestors {
			if !a.EffectEnabled {
				continue
			}
			s := c.stages[a]
			if s == nil {
				s = &folderStage{}
				c.stages[a] = s
			}
			s.members = append(s.members, stageInput{fl: fl, depth: k})
		}
	}
	for folder, s := range c.stages {
		c.resolveStage(folder, s, t)
	}
}

// resolveStage computes the canvas and output size of folder's stage. Inner
// folder stages are resolved first through inputSize.
func (c *Compositor) resolveStage(folder *Node, s *folderStage, t float64) {
	if s.resolved {
		return
	}
	for _, m := range s.members {
		w, h := c.inputSize(m.fl, m.depth, t)
		s.canvasW = max(s.canvasW, w)
		s.canvasH = max(s.canvasH, h)
	}
	res := c.deformer.Deform(folder.WindShake, folder.Pins, float64(s.canvasW), float64(s.canvasH), t)
	g := newStageGeometry(res.Bounds, float64(s.canvasH))
	s.outW, s.outH = g.Width, g.Height
	s.resolved = true
}

// inputSize returns the size of fl's image after every enabled stage inside
// fl.Ancestors[depth]: its own effect and the folders nested deeper than
// that one. depth == len(fl.Ancestors) gives the size fl occupies in a frame.
// Stage sizes only depend on geometry, so nothing is rasterized.
func (c *Compositor) inputSize(fl FlatLayer, depth int, t float64) (int, int) {
	w, h := fl.Layer.Width(), fl.Layer.Height()
	if fl.Layer.EffectEnabled {
		res := c.deformer.Deform(fl.Layer.WindShake, fl.Layer.Pins, float64(w), float64(h), t)
		g := newStageGeometry(res.Bounds, float64(h))
		w, h = g.Width, g.Height
	}
	for _, a := range fl.Ancestors[:depth] {
		if !a.EffectEnabled {
			continue
		}
		s := c.stages[a]
		c.resolveStage(a, s, t)
		w, h = s.outW, s.outH
	}
	return w, h
}

// Measure returns the frame size needed to hold every visible layer of d at
// time t at scale 1. It is 0×0 when nothing is renderable.
func (c *Compositor) Measure(d *Document, t float64) (int, int) {
	return c.measureFlat(Flatten(d), t)
}

func (c *Compositor) measureFlat(flat []FlatLayer, t float64) (int, int) {
	c.planStages(flat, t)
	var fw, fh int
	for _, fl := range flat {
		w, h := c.inputSize(fl, len(fl.Ancestors), t)
		fw = max(fw, w)
		fh = max(fh, h)
	}
	return fw, fh
}

// Compose renders d at time t into a new frame sized by Measure.
func (c *Compositor) Compose(d *Document, t float64) (*image.NRGBA, error) {
	if err := d.begin(); err != nil {
		return nil, err
	}
	defer d.end()

	t0 := time.Now()
	flat := Flatten(d)
	flattenTime := time.Since(t0)
	w, h := c.measureFlat(flat, t)
	if len(flat) == 0 || w <= 0 || h <= 0 {
		return nil, ErrEmptyDocument
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	c.composeFlat(dst, flat, t, 1, flattenTime)
	return dst, nil
}

// ComposeInto clears dst and renders d at time t centered in it, every layer
// scaled by scale around the center of dst.
func (c *Compositor) ComposeInto(dst *image.NRGBA, d *Document, t, scale float64) error {
	if err := d.begin(); err != nil {
		return err
	}
	defer d.end()
	return c.composeInto(dst, d, t, scale)
}

func (c *Compositor) composeInto(dst *image.NRGBA, d *Document, t, scale float64) error {
	t0 := time.Now()
	flat := Flatten(d)
	flattenTime := time.Since(t0)
	clearNRGBA(dst)
	if len(flat) == 0 {
		return ErrEmptyDocument
	}
	c.composeFlat(dst, flat, t, scale, flattenTime)
	return nil
}

// composeFlat paints flat into the already-cleared dst in document order.
// flattenTime is reported in the debug stats.
func (c *Compositor) composeFlat(dst *image.NRGBA, flat []FlatLayer, t, scale float64, flattenTime time.Duration) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return
	}
	stats := debugStats{flattenTime: flattenTime, layerCount: len(flat)}
	cx := float64(dst.Rect.Min.X) + float64(dst.Rect.Dx())/2
	cy := float64(dst.Rect.Min.Y) + float64(dst.Rect.Dy())/2

	var t0 time.Time
	if c.debug {
		t0 = time.Now()
	}
	c.planStages(flat, t)
	if c.debug {
		stats.deformTime += time.Since(t0)
	}

	for _, fl := range flat {
		chain := c.effectChain(fl)
		if len(chain) == 0 {
			if c.debug {
				t0 = time.Now()
			}
			drawRaw(dst, fl.Layer.Image, cx, cy, scale)
			if c.debug {
				stats.rasterTime += time.Since(t0)
			}
			continue
		}
		c.renderChain(dst, fl.Layer.Image, chain, t, cx, cy, scale, &stats)
	}

	if c.debug {
		stats.pooled = c.pool.idle()
		c.debugLog(stats)
	}
}

// renderChain folds the effect stages over src: every stage but the last
// renders into a pooled buffer that feeds the next one, and the last stage
// rasterizes straight into dst. A folder stage first centers its input on
// the folder's shared canvas.
func (c *Compositor) renderChain(dst, src *image.NRGBA, chain []*Node, t, cx, cy, scale float64, stats *debugStats) {
	var owned *image.NRGBA // output of the previous stage
	last := len(chain) - 1
	for k, n := range chain {
		var canvas *image.NRGBA
		if s := c.stages[n]; n.Type == NodeTypeFolder && s != nil {
			canvas = c.pool.Acquire(s.canvasW, s.canvasH)
			drawCentered(canvas, src)
			if owned != nil {
				c.pool.Release(owned)
				owned = nil
			}
			src = canvas
		}
		w, h := float64(src.Rect.Dx()), float64(src.Rect.Dy())

		var t0 time.Time
		if c.debug {
			t0 = time.Now()
		}
		res := c.deformer.Deform(n.WindShake, n.Pins, w, h, t)
		g := newStageGeometry(res.Bounds, h)
		c.scratch = growVec2(c.scratch, len(res.Mesh.Positions))
		if c.debug {
			stats.deformTime += time.Since(t0)
			t0 = time.Now()
		}

		if k == last {
			stats.triangles += renderStage(dst, src, res.Mesh, g.transform(cx, cy, scale), c.scratch)
		} else {
			buf := c.pool.Acquire(g.Width, g.Height)
			stats.triangles += renderStage(buf, src, res.Mesh, g.bufferTransform(), c.scratch)
			if owned != nil {
				c.pool.Release(owned)
			}
			owned = buf
		}
		if canvas != nil {
			c.pool.Release(canvas)
		}
		src = owned
		stats.stageCount++
		if c.debug {
			stats.rasterTime += time.Since(t0)
		}
	}
	if owned != nil {
		c.pool.Release(owned)
	}
}

// drawCentered copies src onto the cleared canvas with both centers aligned.
func drawCentered(canvas, src *image.NRGBA) {
	x0 := (canvas.Rect.Dx() - src.Rect.Dx()) / 2
	y0 := (canvas.Rect.Dy() - src.Rect.Dy()) / 2
	r := image.Rect(x0, y0, x0+src.Rect.Dx(), y0+src.Rect.Dy())
	xdraw.Draw(canvas, r, src, src.Rect.Min, xdraw.Src)
}

// drawRaw composites img unbent, centered on (cx, cy) and scaled.
func drawRaw(dst, img *image.NRGBA, cx, cy, scale float64) {
	sw := float64(img.Rect.Dx()) * scale
	sh := float64(img.Rect.Dy()) * scale
	x0 := int(math.Round(cx - sw/2))
	y0 := int(math.Round(cy - sh/2))
	if scale == 1 {
		r := image.Rect(x0, y0, x0+img.Rect.Dx(), y0+img.Rect.Dy())
		xdraw.Draw(dst, r, img, img.Rect.Min, xdraw.Over)
		return
	}
	r := image.Rect(x0, y0, x0+int(math.Round(sw)), y0+int(math.Round(sh)))
	if r.Empty() {
		return
	}
	xdraw.BiLinear.Scale(dst, r, img, img.Rect, xdraw.Over, nil)
}
