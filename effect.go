package windsway

import "image"

// RenderEffect rasterizes src through a deformed strip into dst. dst is
// resized to the inflated swept extent of the mesh and cleared first; the rest
// rectangle of src is centered in it. Returns the number of triangles drawn.
func RenderEffect(src *image.NRGBA, res DeformResult, dst *RenderTexture) int {
	if src == nil || dst == nil {
		return 0
	}
	g := newStageGeometry(res.Bounds, float64(src.Rect.Dy()))
	dst.Resize(g.Width, g.Height)
	positions := make([]Vec2, len(res.Mesh.Positions))
	return renderStage(dst.Image(), src, res.Mesh, g.bufferTransform(), positions)
}

// renderStage draws mesh into dst after mapping its local positions through
// transform. scratch must hold at least len(mesh.Positions) entries.
func renderStage(dst, src *image.NRGBA, mesh Mesh, transform [6]float64, scratch []Vec2) int {
	pos := scratch[:len(mesh.Positions)]
	transformPositions(mesh.Positions, pos, transform)
	return drawTriangles(dst, src, pos, mesh.TexCoords, mesh.Indices)
}
