package preview

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// checkerShaderSrc fills the destination with a two-tone checkerboard so that
// transparent regions of the frame are visible.
const checkerShaderSrc = `//kage:unit pixels
package main

var Size float
var Light vec4
var Dark vec4

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	c := floor(dstPos.xy / Size)
	if mod(c.x+c.y, 2.0) < 1.0 {
		return Light
	}
	return Dark
}
`

// checkerCellSize is the edge length of one checkerboard square in pixels.
const checkerCellSize = 16

// checkerboard draws the transparency backdrop.
type checkerboard struct {
	shader   *ebiten.Shader
	uniforms map[string]any
	op       ebiten.DrawRectShaderOptions
}

func newCheckerboard() (*checkerboard, error) {
	s, err := ebiten.NewShader([]byte(checkerShaderSrc))
	if err != nil {
		return nil, fmt.Errorf("compile checkerboard shader: %w", err)
	}
	c := &checkerboard{
		shader: s,
		uniforms: map[string]any{
			"Size":  float32(checkerCellSize),
			"Light": []float32{0.80, 0.80, 0.80, 1},
			"Dark":  []float32{0.62, 0.62, 0.62, 1},
		},
	}
	c.op.Uniforms = c.uniforms
	return c, nil
}

func (c *checkerboard) draw(dst *ebiten.Image) {
	b := dst.Bounds()
	dst.DrawRectShader(b.Dx(), b.Dy(), c.shader, &c.op)
}

func (c *checkerboard) dispose() {
	if c.shader != nil {
		c.shader.Deallocate()
		c.shader = nil
	}
}
