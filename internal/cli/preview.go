package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	windsway "github.com/phanxgames/windsway"
	"github.com/phanxgames/windsway/preview"
)

type previewOpts struct {
	source        sourceOpts
	width, height int
	script        string
	exit          bool
	screenshotDir string
	showFPS       bool
	paused        bool
}

func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview [images...]",
		Short: "Play the wind sway loop in a window",
		Long: `Preview opens a window and plays the loop. Space toggles playback, R rewinds,
the arrow keys step frames, a click adds a pin on the first effect layer at the
cursor row, C clears its pins, and F12 saves a screenshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(&opts, args)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().IntVar(&opts.width, "width", preview.DefaultWidth, "window width")
	cmd.Flags().IntVar(&opts.height, "height", preview.DefaultHeight, "window height")
	cmd.Flags().StringVar(&opts.script, "script", "", "JSON script of seek/play/pause/wait/screenshot steps")
	cmd.Flags().BoolVar(&opts.exit, "exit", false, "close the window when the script finishes")
	cmd.Flags().StringVar(&opts.screenshotDir, "screenshots", windsway.DefaultScreenshotDir, "screenshot directory")
	cmd.Flags().BoolVar(&opts.showFPS, "fps-overlay", false, "show the FPS counter")
	cmd.Flags().BoolVar(&opts.paused, "paused", false, "start paused")

	return cmd
}

func (c *CLI) runPreview(opts *previewOpts, images []string) error {
	p, err := c.loadProject(&opts.source, images)
	if err != nil {
		return err
	}

	cfg := preview.Config{
		Title:           fmt.Sprintf("%s preview", appName),
		Width:           opts.width,
		Height:          opts.height,
		ExitAfterScript: opts.exit,
		ScreenshotDir:   opts.screenshotDir,
		ShowFPS:         opts.showFPS,
		Autoplay:        !opts.paused,
		Logger:          c.Logger,
	}
	if opts.script != "" {
		data, err := os.ReadFile(opts.script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := windsway.LoadScript(data)
		if err != nil {
			return err
		}
		cfg.Script = runner
	} else if opts.exit {
		printWarning("--exit has no effect without --script")
	}

	printInfo("Previewing %d nodes, %.2fs loop", p.Document.Len(), p.Document.Duration)
	return preview.Run(p.Document, cfg)
}
