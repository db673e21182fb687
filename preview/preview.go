// Package preview plays a windsway document in a window. Frames are composed
// on the CPU by windsway.Compositor and uploaded to an ebiten image each draw.
//
// Controls:
//
//	Space        play / pause
//	R            stop and rewind
//	Left/Right   step one frame back / forward
//	Click        add a pin on the pin target at the cursor row
//	C            clear the pin target's pins
//	F12          screenshot
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	windsway "github.com/phanxgames/windsway"
)

// Default window size when the Config leaves it unset.
const (
	DefaultWidth  = 960
	DefaultHeight = 720
)

// Config controls the preview window.
type Config struct {
	Title         string
	Width, Height int

	// Script, when set, is a JSON preview script run one step per tick.
	Script *windsway.ScriptRunner
	// ExitAfterScript closes the window once Script is done.
	ExitAfterScript bool
	// ScreenshotDir defaults to windsway.DefaultScreenshotDir.
	ScreenshotDir string
	ShowFPS       bool
	Autoplay      bool
	Logger        *log.Logger
}

// Game implements ebiten.Game and windsway.ScriptHost.
type Game struct {
	doc        *windsway.Document
	compositor *windsway.Compositor
	player     *windsway.Player
	script     *windsway.ScriptRunner
	cfg        Config
	logger     *log.Logger

	view    viewport
	frame   *image.NRGBA
	pix     []byte
	canvas  *ebiten.Image
	checker *checkerboard

	shotQueue []string
	lastErr   error
}

// New prepares a preview of d. The returned Game is ready for
// ebiten.RunGame.
func New(d *windsway.Document, cfg Config) (*Game, error) {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = windsway.DefaultScreenshotDir
	}
	if cfg.Title == "" {
		cfg.Title = "windsway preview"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	checker, err := newCheckerboard()
	if err != nil {
		return nil, err
	}

	g := &Game{
		doc:        d,
		compositor: windsway.NewCompositor(),
		player:     windsway.NewPlayer(d.Duration),
		script:     cfg.Script,
		cfg:        cfg,
		logger:     logger,
		checker:    checker,
	}
	g.compositor.SetLogger(logger)
	g.player.OnLoop = func() { logger.Debug("loop", "duration", g.player.Duration()) }
	if cfg.Autoplay {
		g.player.Play()
	}
	g.resize(cfg.Width, cfg.Height)
	return g, nil
}

// Run opens a window and plays d until it is closed.
func Run(d *windsway.Document, cfg Config) error {
	g, err := New(d, cfg)
	if err != nil {
		return err
	}
	defer g.Dispose()
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return g.lastErr
}

// Player returns the playback clock.
func (g *Game) Player() *windsway.Player { return g.player }

// Screenshot queues a capture of the next drawn frame.
func (g *Game) Screenshot(label string) {
	g.shotQueue = append(g.shotQueue, label)
}

// Refit recomputes the display scale after the document changed size.
func (g *Game) Refit() {
	g.view = fitViewport(g.compositor, g.doc, g.view.width, g.view.height)
}

// Dispose releases GPU resources.
func (g *Game) Dispose() {
	if g.canvas != nil {
		g.canvas.Deallocate()
		g.canvas = nil
	}
	g.checker.dispose()
}

func (g *Game) resize(w, h int) {
	g.view = fitViewport(g.compositor, g.doc, w, h)
	g.frame = image.NewNRGBA(image.Rect(0, 0, w, h))
	if g.canvas != nil {
		g.canvas.Deallocate()
	}
	g.canvas = ebiten.NewImage(w, h)
}

// Update advances playback, the script, and handles input.
func (g *Game) Update() error {
	if g.script != nil {
		g.script.Step(g)
		if g.script.Done() && g.cfg.ExitAfterScript && len(g.shotQueue) == 0 {
			return ebiten.Termination
		}
	}
	g.handleInput()
	g.player.Tick(1 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.player.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.player.Stop()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.player.StepFrame(-1, g.doc.FPS)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.player.StepFrame(1, g.doc.FPS)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.Screenshot("manual")
	}

	target := pinTarget(g.doc)
	if target == nil {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		target.ClearPins()
		g.logger.Info("pins cleared", "node", target.Name)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		_, y := ebiten.CursorPosition()
		if pos, ok := g.view.pinPosition(y, restHeight(g.doc, target)); ok {
			pin := target.AddPin(pos)
			g.logger.Info("pin added", "node", target.Name, "position", fmt.Sprintf("%.1f%%", pin.PositionPct))
		}
	}
}

// Draw composes the current frame and presents it over the checkerboard.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.checker.draw(screen)

	err := g.compositor.ComposeInto(g.frame, g.doc, g.player.Time(), g.view.scale)
	switch {
	case err == nil:
		g.pix = windsway.NRGBAToPremultiplied(g.frame, g.pix)
		g.canvas.WritePixels(g.pix)
		screen.DrawImage(g.canvas, nil)
	case errors.Is(err, windsway.ErrEmptyDocument):
	default:
		if err != g.lastErr {
			g.logger.Error("compose", "err", err)
		}
		g.lastErr = err
	}

	g.flushScreenshots(screen)

	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nt: %.2fs / %.2fs",
			ebiten.ActualFPS(), g.player.Time(), g.player.Duration()))
	}
}

// flushScreenshots captures the drawn frame for every queued label.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.shotQueue) == 0 {
		return
	}
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)
	img := windsway.PremultipliedToNRGBA(pixels, w, h)
	for _, label := range g.shotQueue {
		path, err := windsway.SaveScreenshot(g.cfg.ScreenshotDir, label, img)
		if err != nil {
			g.logger.Error("screenshot", "label", label, "err", err)
			continue
		}
		g.logger.Info("screenshot", "path", path)
	}
	g.shotQueue = g.shotQueue[:0]
}

// Layout follows the window size and refits the document when it changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != g.view.width || outsideHeight != g.view.height) {
		g.resize(outsideWidth, outsideHeight)
	}
	return g.view.width, g.view.height
}
