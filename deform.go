package windsway

import "math"

// Mesh is an indexed triangle mesh in local strip space. X is centered on the
// strip axis (the rest image spans [-width/2, width/2]); Y grows downward from
// the anchored end at 0. TexCoords are normalized to [0, 1].
type Mesh struct {
	Positions []Vec2
	TexCoords []Vec2
	Indices   []uint16
	Rows      int // segments along the bending axis
	Cols      int // segments across the strip
}

// DeformResult is the output of one deformation pass.
type DeformResult struct {
	Mesh   Mesh
	Bounds Rect

	// Centerline holds the Rows+1 axis points the grid is built around.
	Centerline []Vec2

	// RigidTop and RigidBottom are the resolved fixed-zone lengths in pixels
	// after the fromBottom swap and clamping.
	RigidTop, RigidBottom float64

	// Amplitude is the swing amplitude (radians) used for this pass.
	Amplitude float64
}

// Deformer builds strip meshes into preallocated buffers. Slices in a
// returned DeformResult alias those buffers and are only valid until the next
// call to Deform. The zero value is ready to use.
type Deformer struct {
	positions  []Vec2
	texCoords  []Vec2
	indices    []uint16
	centerline []Vec2
}

// Deform bends a width×height image at time t. It is a convenience wrapper
// around a fresh Deformer, so the result owns its slices.
func Deform(params WindShakeParams, pins []Pin, width, height, t float64) DeformResult {
	var d Deformer
	return d.Deform(params, pins, width, height, t)
}

// Deform bends a width×height image at time t.
//
// Out-of-range parameters are clamped first. A non-positive or non-finite
// width or height yields a single quad spanning the clamped extents.
func (d *Deformer) Deform(params WindShakeParams, pins []Pin, width, height, t float64) DeformResult {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return d.degenerateQuad(width, height)
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0
	}
	p := params.Clamp()

	n := clampInt(p.Divisions, MinDivisions, MaxDivisions)
	m := meshColumns

	dL := p.TopFixedPct * 0.01 * height
	dL2 := p.BottomFixedPct * 0.01 * height
	if p.FromBottom {
		dL, dL2 = dL2, dL
	}
	if dL < 0 {
		dL = 0
	}
	if dL > height {
		dL = height
	}
	if dL2 < 0 {
		dL2 = 0
	}
	if dL2 > height-dL {
		dL2 = height - dL
	}
	length := height - dL - dL2

	amp := p.Amplitude(t)
	omega := 2 * math.Pi / p.PeriodSec
	spread := 2 * p.PhaseShiftDeg * math.Pi / 180
	bias := p.CenterDeg * math.Pi / 180
	segLen := length / float64(n)

	d.centerline = growVec2(d.centerline, n+1)
	cl := d.centerline
	cl[0] = Vec2{}
	for i := 1; i <= n; i++ {
		ratio := float64(i) / float64(n)
		damp := PinMultiplier(ratio, pins)
		phase := float64(omega*t) - float64(float64(i)*spread)/float64(n)
		ramp := 1 - math.Pow(1-ratio, 4)
		si := (float64(amp*math.Sin(phase)) + bias) * ramp * damp
		cl[i] = Vec2{
			X: cl[i-1].X + float64(math.Sin(si)*segLen),
			Y: dL + float64(length*ratio),
		}
	}

	vcols := m + 1
	numVerts := (n + 1) * vcols
	d.positions = growVec2(d.positions, numVerts)
	d.texCoords = growVec2(d.texCoords, numVerts)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i <= n; i++ {
		for j := 0; j <= m; j++ {
			xr := float64(j) / float64(m)
			yr := float64(i) / float64(n)
			x := cl[i].X + float64((xr-0.5)*width)
			y := cl[i].Y
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
			idx := i*vcols + j
			d.positions[idx] = Vec2{X: x, Y: y}
			d.texCoords[idx] = Vec2{X: xr, Y: yr}
		}
	}

	d.indices = growIndices(d.indices, n*m*6)
	buildGridIndices(d.indices, m, n)

	return DeformResult{
		Mesh: Mesh{
			Positions: d.positions,
			TexCoords: d.texCoords,
			Indices:   d.indices,
			Rows:      n,
			Cols:      m,
		},
		Bounds:      Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY},
		Centerline:  cl,
		RigidTop:    dL,
		RigidBottom: dL2,
		Amplitude:   amp,
	}
}

// degenerateQuad returns one quad spanning max(width,0)×max(height,0).
func (d *Deformer) degenerateQuad(width, height float64) DeformResult {
	w := clampFloat(width, 0, math.MaxFloat64, 0)
	h := clampFloat(height, 0, math.MaxFloat64, 0)
	hw := w / 2

	d.positions = growVec2(d.positions, 4)
	d.texCoords = growVec2(d.texCoords, 4)
	d.indices = growIndices(d.indices, 6)
	d.centerline = growVec2(d.centerline, 2)

	d.positions[0] = Vec2{-hw, 0}
	d.positions[1] = Vec2{hw, 0}
	d.positions[2] = Vec2{-hw, h}
	d.positions[3] = Vec2{hw, h}
	d.texCoords[0] = Vec2{0, 0}
	d.texCoords[1] = Vec2{1, 0}
	d.texCoords[2] = Vec2{0, 1}
	d.texCoords[3] = Vec2{1, 1}
	buildGridIndices(d.indices, 1, 1)
	d.centerline[0] = Vec2{}
	d.centerline[1] = Vec2{0, h}

	return DeformResult{
		Mesh: Mesh{
			Positions: d.positions,
			TexCoords: d.texCoords,
			Indices:   d.indices,
			Rows:      1,
			Cols:      1,
		},
		Bounds:     Rect{X: -hw, Y: 0, Width: w, Height: h},
		Centerline: d.centerline,
	}
}

// buildGridIndices writes two triangles per cell of a cols×rows grid with
// (cols+1) vertices per row: (tl, bl, tr) and (tr, bl, br).
func buildGridIndices(inds []uint16, cols, rows int) {
	vcols := cols + 1
	ii := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tl := uint16(r*vcols + c)
			tr := tl + 1
			bl := uint16((r+1)*vcols + c)
			br := bl + 1
			inds[ii+0] = tl
			inds[ii+1] = bl
			inds[ii+2] = tr
			inds[ii+3] = tr
			inds[ii+4] = bl
			inds[ii+5] = br
			ii += 6
		}
	}
}

// growVec2 reslices buf to n, reallocating only when capacity is short
// (high-water mark, never shrinks).
func growVec2(buf []Vec2, n int) []Vec2 {
	if cap(buf) < n {
		return make([]Vec2, n)
	}
	return buf[:n]
}

func growIndices(buf []uint16, n int) []uint16 {
	if cap(buf) < n {
		return make([]uint16, n)
	}
	return buf[:n]
}
