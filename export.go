package windsway

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

// DefaultExportFolder is the directory name frames are stored under.
const DefaultExportFolder = "wind_sway_sequence"

// Resolution is an export frame size. The zero value means "original": the
// largest native size among the rendered images.
type Resolution struct {
	Width, Height int
}

// IsOriginal reports whether r defers to the document's image sizes.
func (r Resolution) IsOriginal() bool {
	return r.Width == 0 && r.Height == 0
}

func (r Resolution) String() string {
	if r.IsOriginal() {
		return "original"
	}
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ParseResolution accepts "original", "1920x1080", "1280x720", or a custom
// size written "WxH" (optionally prefixed with "custom ").
func ParseResolution(s string) (Resolution, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "original" {
		return Resolution{}, nil
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "custom"))
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidResolution, s)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(ws))
	h, errH := strconv.Atoi(strings.TrimSpace(hs))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidResolution, s)
	}
	return Resolution{Width: w, Height: h}, nil
}

// ExportOptions configures one export run. Zero fields fall back to the
// document settings and the defaults.
type ExportOptions struct {
	FPS        int
	Duration   float64
	Resolution Resolution
	Folder     string
}

func (o ExportOptions) folderName() string {
	if o.Folder == "" {
		return DefaultExportFolder
	}
	return sanitizeLabel(o.Folder)
}

// ExportResult describes a finished export.
type ExportResult struct {
	Frames int
	Width  int
	Height int
	Scale  float64
	Bytes  int64  // archive size, 0 for ExportDir
	Dir    string // folder written by ExportDir
}

// Exporter renders a document frame by frame and packages the frames.
type Exporter struct {
	compositor *Compositor
	logger     *log.Logger

	// OnProgress, if set, is called after each frame with the number of frames
	// done and the total.
	OnProgress func(done, total int)
}

// NewExporter creates an exporter around c. A nil compositor gets a fresh one.
func NewExporter(c *Compositor) *Exporter {
	if c == nil {
		c = NewCompositor()
	}
	return &Exporter{compositor: c, logger: discardLogger()}
}

// SetLogger sets the logger used for progress and summary lines.
func (e *Exporter) SetLogger(l *log.Logger) {
	if l == nil {
		l = discardLogger()
	}
	e.logger = l
}

// FrameName returns the archive file name of frame i.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%05d.png", i)
}

// frameCount returns ceil(duration*fps), or 0 when either is not positive.
func frameCount(duration float64, fps int) int {
	if fps <= 0 || !(duration > 0) || math.IsInf(duration, 0) {
		return 0
	}
	return int(math.Ceil(duration * float64(fps)))
}

// exportPlan is the resolved shape of one export run.
type exportPlan struct {
	fps    int
	frames int
	width  int
	height int
	scale  float64
}

func (e *Exporter) plan(d *Document, opts ExportOptions) (exportPlan, []FlatLayer, error) {
	p := exportPlan{fps: opts.FPS}
	if p.fps == 0 {
		p.fps = d.FPS
	}
	duration := opts.Duration
	if duration == 0 {
		duration = d.Duration
	}
	p.frames = frameCount(duration, p.fps)
	if p.frames == 0 {
		return p, nil, fmt.Errorf("windsway: export needs a positive fps and duration (fps=%d duration=%g)", p.fps, duration)
	}

	flat := Flatten(d)
	if len(flat) == 0 {
		return p, nil, ErrEmptyDocument
	}
	res := opts.Resolution
	if res.IsOriginal() {
		res.Width, res.Height = d.MaxImageSize()
	}
	if res.Width <= 0 || res.Height <= 0 {
		return p, nil, fmt.Errorf("%w: %s", ErrInvalidResolution, res)
	}
	p.width, p.height = res.Width, res.Height

	// One scale for the whole sequence, fitted to the widest frame, so the
	// content does not pulse in size as the bend changes.
	var maxW, maxH int
	for i := 0; i < p.frames; i++ {
		w, h := e.compositor.measureFlat(flat, float64(i)/float64(p.fps))
		maxW = max(maxW, w)
		maxH = max(maxH, h)
	}
	if maxW <= 0 || maxH <= 0 {
		return p, nil, ErrEmptyDocument
	}
	p.scale = FitScale(float64(maxW), float64(maxH), float64(p.width), float64(p.height))
	return p, flat, nil
}

// renderFrames composes every frame of the plan and hands each one to emit.
// The frame image is reused; emit must not retain it.
func (e *Exporter) renderFrames(ctx context.Context, d *Document, opts ExportOptions, emit func(i int, img *image.NRGBA) error) (exportPlan, error) {
	if err := d.begin(); err != nil {
		return exportPlan{}, err
	}
	defer d.end()

	p, flat, err := e.plan(d, opts)
	if err != nil {
		return p, err
	}
	e.logger.Info("exporting",
		"frames", p.frames, "fps", p.fps,
		"size", fmt.Sprintf("%dx%d", p.width, p.height),
		"scale", fmt.Sprintf("%.3f", p.scale))

	frame := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for i := 0; i < p.frames; i++ {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("export cancelled", "frame", i, "total", p.frames)
			return p, fmt.Errorf("%w at frame %d: %w", ErrExportCancelled, i, err)
		}
		t0 := time.Now()
		clearNRGBA(frame)
		e.compositor.composeFlat(frame, flat, float64(i)/float64(p.fps), p.scale, 0)
		if err := emit(i, frame); err != nil {
			return p, fmt.Errorf("frame %d: %w", i, err)
		}
		e.logger.Debug("frame", "index", i, "elapsed", time.Since(t0))
		if e.OnProgress != nil {
			e.OnProgress(i+1, p.frames)
		}
	}
	return p, nil
}

// Export renders the sequence into a zip archive written to w, one PNG per
// frame under opts.Folder. The archive is assembled in memory and written
// only after the last frame; on cancellation ErrExportCancelled is returned
// and nothing is written.
func (e *Exporter) Export(ctx context.Context, d *Document, opts ExportOptions, w io.Writer) (ExportResult, error) {
	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	var png bytes.Buffer

	folder := opts.folderName()
	p, err := e.renderFrames(ctx, d, opts, func(i int, img *image.NRGBA) error {
		if i == 0 {
			if _, err := zw.Create(folder + "/"); err != nil {
				return err
			}
		}
		png.Reset()
		if err := imaging.Encode(&png, img, imaging.PNG); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:   folder + "/" + FrameName(i),
			Method: zip.Store,
		})
		if err != nil {
			return err
		}
		_, err = fw.Write(png.Bytes())
		return err
	})
	if err != nil {
		return ExportResult{}, err
	}
	if err := zw.Close(); err != nil {
		return ExportResult{}, fmt.Errorf("close archive: %w", err)
	}
	n, err := archive.WriteTo(w)
	if err != nil {
		return ExportResult{}, fmt.Errorf("write archive: %w", err)
	}
	e.logger.Info("export finished", "frames", p.frames, "bytes", n)
	return ExportResult{Frames: p.frames, Width: p.width, Height: p.height, Scale: p.scale, Bytes: n}, nil
}

// ExportDir writes the frames as loose PNG files into dir/opts.Folder. Frames
// are staged in a temporary directory next to the target and moved into
// place at the end, so a cancelled run leaves nothing behind. The target
// directory must not already exist.
func (e *Exporter) ExportDir(ctx context.Context, d *Document, opts ExportOptions, dir string) (ExportResult, error) {
	folder := opts.folderName()
	target := filepath.Join(dir, folder)
	if _, err := os.Stat(target); err == nil {
		return ExportResult{}, fmt.Errorf("export dir: %s already exists", target)
	} else if !errors.Is(err, os.ErrNotExist) {
		return ExportResult{}, fmt.Errorf("export dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("export dir: mkdir %s: %w", dir, err)
	}
	staging, err := os.MkdirTemp(dir, ".windsway-*")
	if err != nil {
		return ExportResult{}, fmt.Errorf("export dir: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staging)
		}
	}()

	p, err := e.renderFrames(ctx, d, opts, func(i int, img *image.NRGBA) error {
		return writePNG(filepath.Join(staging, FrameName(i)), img)
	})
	if err != nil {
		return ExportResult{}, err
	}
	if err := os.Rename(staging, target); err != nil {
		return ExportResult{}, fmt.Errorf("export dir: %w", err)
	}
	committed = true
	e.logger.Info("export finished", "frames", p.frames, "dir", target)
	return ExportResult{Frames: p.frames, Width: p.width, Height: p.height, Scale: p.scale, Dir: target}, nil
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
