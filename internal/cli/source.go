package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	windsway "github.com/phanxgames/windsway"
)

// sourceOpts are the flags shared by every command that loads a document.
type sourceOpts struct {
	project  string  // TOML project file
	preset   string  // preset applied to imported images
	effect   bool    // enable the effect on imported images
	fps      int     // overrides the project when > 0
	duration float64 // overrides the project when > 0
}

func (o *sourceOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.project, "project", "p", "", "TOML project file")
	cmd.Flags().StringVar(&o.preset, "preset", "", "preset for imported images (see 'windsway presets')")
	cmd.Flags().BoolVar(&o.effect, "effect", true, "enable the wind effect on imported images")
	cmd.Flags().IntVar(&o.fps, "fps", 0, "frames per second (default from project, else 30)")
	cmd.Flags().Float64Var(&o.duration, "duration", 0, "loop length in seconds (default from project, else 5)")
}

// loadProject builds the project described by o plus the image files in
// images. Images that fail to decode are logged and skipped.
func (c *CLI) loadProject(o *sourceOpts, images []string) (*windsway.Project, error) {
	if o.project == "" && len(images) == 0 {
		return nil, errors.New("nothing to load: pass image files or --project")
	}
	if o.preset != "" {
		if _, ok := windsway.Presets[o.preset]; !ok {
			return nil, fmt.Errorf("%w: %q", windsway.ErrUnknownPreset, o.preset)
		}
	}

	var p *windsway.Project
	if o.project != "" {
		loaded, err := windsway.LoadProject(o.project)
		if err != nil {
			return nil, err
		}
		p = loaded
		c.Logger.Debug("loaded project", "path", o.project, "nodes", p.Document.Len())
	} else {
		p = windsway.NewProject(windsway.NewDocument())
	}

	d := p.Document
	if o.fps > 0 {
		d.FPS = o.fps
	}
	if o.duration > 0 {
		d.Duration = o.duration
	}

	rep := d.ImportFiles(images...)
	for _, f := range rep.Failed {
		c.Logger.Warn("skipped image", "path", f.Path, "err", f.Err)
	}
	for _, n := range rep.Added {
		if o.preset != "" {
			// Validated above.
			_ = windsway.ApplyPreset(n, o.preset)
		}
		n.EffectEnabled = o.effect
		c.Logger.Debug("imported", "layer", n.Name, "size", fmt.Sprintf("%dx%d", n.Width(), n.Height()))
	}
	if len(images) > 0 && len(rep.Added) == 0 && o.project == "" {
		return nil, fmt.Errorf("no image could be loaded (%d failed)", len(rep.Failed))
	}
	return p, nil
}
