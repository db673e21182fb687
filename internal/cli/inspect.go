package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	windsway "github.com/phanxgames/windsway"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var opts sourceOpts

	cmd := &cobra.Command{
		Use:   "inspect [images...]",
		Short: "Describe a document and its frame sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(&opts, args)
			if err != nil {
				return err
			}
			printDocument(p)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

// printDocument prints the node tree, the animation settings and the
// worst-case frame size over one loop.
func printDocument(p *windsway.Project) {
	d := p.Document
	fmt.Fprintln(out, StyleTitle.Render("Document"))
	d.Walk(func(n *windsway.Node, depth int) bool {
		fmt.Fprintln(out, nodeLine(n, depth))
		return true
	})
	printNewline()

	w, h := d.MaxImageSize()
	printKeyValue("fps", fmt.Sprint(d.FPS))
	printKeyValue("duration", fmt.Sprintf("%gs", d.Duration))
	printKeyValue("frames", fmt.Sprint(d.FrameCount()))
	printKeyValue("original", fmt.Sprintf("%dx%d", w, h))
	printKeyValue("resolution", p.Export.Resolution.String())

	if len(windsway.Flatten(d)) == 0 {
		printWarning("No visible layers")
		return
	}
	c := windsway.NewCompositor()
	var maxW, maxH, worst int
	for i := 0; i < d.FrameCount(); i++ {
		fw, fh := c.Measure(d, float64(i)/float64(d.FPS))
		if fw*fh > maxW*maxH {
			worst = i
		}
		maxW, maxH = max(maxW, fw), max(maxH, fh)
	}
	printKeyValue("max frame", fmt.Sprintf("%dx%d", maxW, maxH))
	printDetail("largest at %s", windsway.FrameName(worst))
}

func nodeLine(n *windsway.Node, depth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth+1))
	switch n.Type {
	case windsway.NodeTypeFolder:
		b.WriteString(StyleHighlight.Render(n.Name + "/"))
	case windsway.NodeTypeLayer:
		b.WriteString(StyleValue.Render(n.Name))
		b.WriteString(StyleDim.Render(fmt.Sprintf(" %dx%d", n.Width(), n.Height())))
	}
	var tags []string
	if n.EffectEnabled {
		tags = append(tags, fmt.Sprintf("wind %g°/%gs", n.WindShake.AngleDeg, n.WindShake.PeriodSec))
	}
	if len(n.Pins) > 0 {
		tags = append(tags, fmt.Sprintf("%d pins", len(n.Pins)))
	}
	if !n.Visible {
		tags = append(tags, "hidden")
	}
	if len(tags) > 0 {
		b.WriteString(StyleDim.Render(" · " + strings.Join(tags, " · ")))
	}
	return b.String()
}
