// Package windsway bends layered 2D images with a procedural wind sway and
// renders the result as a frame sequence.
//
// # Quick start
//
//	doc := windsway.NewDocument()
//	rep := doc.ImportFiles("grass.png", "flower.png")
//	for _, n := range rep.Added {
//		n.SetEffectEnabled(true)
//	}
//
//	exp := windsway.NewExporter(nil)
//	f, _ := os.Create("sway.zip")
//	defer f.Close()
//	_, err := exp.Export(ctx, doc, windsway.ExportOptions{}, f)
//
// # Document tree
//
// A [Document] owns an ordered forest of [Node] values. Layers hold an image;
// folders hold children. The first node paints at the bottom. Both kinds carry
// [WindShakeParams] and [Pin] values. A folder's effect bends the already
// bent output of each layer beneath it, so a folder sways as one piece.
//
//	folder, err := doc.Group("tree")   // needs >= 2 selected siblings
//	err = doc.Ungroup(folder.ID)
//
// # Deformation
//
// [Deform] turns an image size, parameters, pins and a time into a triangle
// strip [Mesh]. The result depends only on its inputs: scrubbing, looping and
// export all see the same shape for the same t. [SwingAmplitude] supplies the
// seeded amplitude curve and [PinMultiplier] the local damping.
//
// # Rendering
//
// A [Compositor] flattens the tree and rasterizes each layer's effect chain
// on the CPU, innermost stage first, through pooled offscreen buffers. The
// preview package uploads the composed frame to an [Ebitengine] window each
// display refresh, driven by a [Player].
//
// # Export
//
// [Exporter.Export] writes frame_00000.png, frame_00001.png, ... into a zip
// archive, and [Exporter.ExportDir] writes the same frames as loose files.
// Both stop at the next frame boundary when their context is cancelled.
//
// [Ebitengine]: https://ebitengine.org
package windsway
