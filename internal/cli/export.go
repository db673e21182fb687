package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	windsway "github.com/phanxgames/windsway"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	source     sourceOpts
	output     string // zip path, or parent directory with --dir
	dir        bool   // write loose PNG files instead of a zip
	resolution string // original, WxH, or "custom WxH"
	folder     string // folder name inside the zip / output directory
	noProgress bool   // log progress instead of drawing a progress bar
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [images...]",
		Short: "Export the wind sway loop as PNG frames",
		Long: `Export renders every frame of the loop and writes them as a zip archive of
PNG files (wind_sway_sequence/frame_00000.png, ...). With --dir the frames are
written as loose files into a new folder instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), &opts, args)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output zip (default <folder>.zip), or parent directory with --dir")
	cmd.Flags().BoolVar(&opts.dir, "dir", false, "write loose PNG frames into a folder")
	cmd.Flags().StringVarP(&opts.resolution, "resolution", "r", "", "original (default), 1920x1080, 1280x720, or WxH")
	cmd.Flags().StringVar(&opts.folder, "folder", "", "sequence folder name (default from project, else "+windsway.DefaultExportFolder+")")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "log progress instead of showing a progress bar")

	return cmd
}

// exportOptions merges the project's export settings with the flags.
func exportOptions(p *windsway.Project, opts *exportOpts) (windsway.ExportOptions, error) {
	eo := p.Export
	eo.FPS = p.Document.FPS
	eo.Duration = p.Document.Duration
	if opts.resolution != "" {
		res, err := windsway.ParseResolution(opts.resolution)
		if err != nil {
			return eo, err
		}
		eo.Resolution = res
	}
	if opts.folder != "" {
		eo.Folder = opts.folder
	}
	return eo, nil
}

// outputPath is the zip to write, or the parent directory with --dir.
func outputPath(opts *exportOpts, eo windsway.ExportOptions) string {
	if opts.output != "" {
		return opts.output
	}
	if opts.dir {
		return "."
	}
	folder := eo.Folder
	if folder == "" {
		folder = windsway.DefaultExportFolder
	}
	return folder + ".zip"
}

func (c *CLI) runExport(ctx context.Context, opts *exportOpts, images []string) error {
	p, err := c.loadProject(&opts.source, images)
	if err != nil {
		return err
	}
	eo, err := exportOptions(p, opts)
	if err != nil {
		return err
	}
	dest := outputPath(opts, eo)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exp := windsway.NewExporter(nil)
	exp.SetLogger(c.Logger)
	run := func() (windsway.ExportResult, error) {
		if opts.dir {
			return exp.ExportDir(ctx, p.Document, eo, dest)
		}
		return writeZip(ctx, exp, p.Document, eo, dest)
	}

	printInfo("Exporting %s at %s, %d fps, %.2fs",
		StyleHighlight.Render(fmt.Sprintf("%d layers", len(windsway.Flatten(p.Document)))),
		eo.Resolution, eo.FPS, eo.Duration)

	prog := newProgress(c.Logger)
	var res windsway.ExportResult
	if opts.noProgress {
		exp.OnProgress = func(done, total int) {
			c.Logger.Debug("frame", "done", done, "total", total)
		}
		res, err = run()
	} else {
		exp.SetLogger(progressLogger(c.Logger))
		res, err = runWithProgress(cancel, exp, p.Document.FrameCount(), run)
	}

	if err != nil {
		if errors.Is(err, windsway.ErrExportCancelled) {
			printWarning("Export cancelled")
		} else {
			printError("Export failed")
		}
		return err
	}

	prog.done(fmt.Sprintf("Exported %d frames", res.Frames))
	printSuccess("Exported %d frames at %dx%d (scale %.3f)", res.Frames, res.Width, res.Height, res.Scale)
	if res.Dir != "" {
		printFile(res.Dir)
	} else {
		printFile(dest)
	}
	return nil
}

// progressLogger returns a copy of l that only passes warnings and errors,
// so info lines do not tear the progress bar.
func progressLogger(l *log.Logger) *log.Logger {
	ql := l.With()
	if ql.GetLevel() < log.WarnLevel {
		ql.SetLevel(log.WarnLevel)
	}
	return ql
}

// runWithProgress runs export in a goroutine while a bubbletea program shows
// its progress.
func runWithProgress(cancel context.CancelFunc, exp *windsway.Exporter, total int,
	export func() (windsway.ExportResult, error)) (windsway.ExportResult, error) {
	m := NewExportModel("Rendering frames", total, cancel)
	prog := tea.NewProgram(m, tea.WithOutput(os.Stderr))

	exp.OnProgress = func(done, total int) {
		prog.Send(frameMsg{done: done, total: total})
	}
	go func() {
		res, err := export()
		prog.Send(exportDoneMsg{result: res, err: err})
	}()

	final, err := prog.Run()
	if err != nil {
		cancel()
		return windsway.ExportResult{}, fmt.Errorf("progress display: %w", err)
	}
	fm, ok := final.(ExportModel)
	if !ok || !fm.Finished {
		return windsway.ExportResult{}, errors.New("export did not finish")
	}
	return fm.Result, fm.Err
}

// writeZip exports into path via a sibling temporary file so that a failed
// or cancelled export leaves no partial archive behind.
func writeZip(ctx context.Context, exp *windsway.Exporter, d *windsway.Document,
	eo windsway.ExportOptions, path string) (windsway.ExportResult, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return windsway.ExportResult{}, fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	res, err := exp.Export(ctx, d, eo, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("write %s: %w", path, cerr)
	}
	if err != nil {
		return res, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return res, fmt.Errorf("write %s: %w", path, err)
	}
	return res, nil
}
