package windsway

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// FrameGlideSeconds is how long StepFrame takes to ease onto the next frame.
const FrameGlideSeconds = 0.12

// Player is the looping playback clock of the preview. Playback time is kept
// in float64 seconds and wraps at the duration, so a seek to frame/fps yields
// exactly the time the exporter renders that frame at. There is no global
// clock; the caller advances it with Tick once per display refresh, and
// missed refreshes are simply a larger dt.
//
// Transport moves can glide: GlideTo and StepFrame ease the clock onto the
// target with a gween tween instead of jumping.
type Player struct {
	duration float64
	time     float64
	playing  bool

	glide       *gween.Tween // progress 0..1, nil when not gliding
	glideFrom   float64
	glideDelta  float64
	glideTarget float64

	// OnLoop, if set, is called each time playback wraps back to zero.
	OnLoop func()
}

// NewPlayer creates a stopped player for a sequence of the given length in
// seconds. Non-positive durations fall back to DefaultDuration.
func NewPlayer(duration float64) *Player {
	p := &Player{}
	p.SetDuration(duration)
	return p
}

// SetDuration changes the loop length and keeps the current time if it still
// fits, otherwise wraps it.
func (p *Player) SetDuration(duration float64) {
	if !(duration > 0) || math.IsInf(duration, 0) {
		duration = DefaultDuration
	}
	p.duration = duration
	p.Seek(p.time)
}

// Duration returns the loop length in seconds.
func (p *Player) Duration() float64 { return p.duration }

// Time returns the current playback time in seconds.
func (p *Player) Time() float64 { return p.time }

// Playing reports whether Tick advances the clock.
func (p *Player) Playing() bool { return p.playing }

// Gliding reports whether a GlideTo or StepFrame move is still easing.
func (p *Player) Gliding() bool { return p.glide != nil }

// Progress returns the current time as a fraction of the duration.
func (p *Player) Progress() float64 { return p.time / p.duration }

// Play starts or resumes playback. A glide in progress snaps to its target.
func (p *Player) Play() {
	if p.glide != nil {
		p.Seek(p.glideTarget)
	}
	p.playing = true
}

// Pause freezes playback at the current time.
func (p *Player) Pause() { p.playing = false }

// Toggle flips between playing and paused.
func (p *Player) Toggle() {
	if p.playing {
		p.Pause()
	} else {
		p.Play()
	}
}

// Stop pauses and rewinds to zero.
func (p *Player) Stop() {
	p.playing = false
	p.Seek(0)
}

// wrap maps t into [0, duration).
func (p *Player) wrap(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	t = math.Mod(t, p.duration)
	if t < 0 {
		t += p.duration
	}
	return t
}

// Seek jumps to t seconds, wrapped into [0, duration), and cancels any glide.
func (p *Player) Seek(t float64) {
	p.glide = nil
	p.time = p.wrap(t)
}

// SeekPercent jumps to pct percent of the duration, clamped to [0, 100].
func (p *Player) SeekPercent(pct float64) {
	pct = clampFloat(pct, 0, 100, 0)
	if pct >= 100 {
		p.glide = nil
		p.time = p.duration
		return
	}
	p.Seek(p.duration * pct / 100)
}

// GlideTo pauses and eases the clock to t over seconds of wall time, taking
// the shorter way around the loop. The clock ends exactly on t wrapped into
// [0, duration). A non-positive seconds seeks immediately.
func (p *Player) GlideTo(t, seconds float64) {
	p.playing = false
	target := p.wrap(t)
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		p.Seek(target)
		return
	}
	delta := target - p.time
	if delta > p.duration/2 {
		delta -= p.duration
	} else if delta < -p.duration/2 {
		delta += p.duration
	}
	p.glideFrom = p.time
	p.glideDelta = delta
	p.glideTarget = target
	p.glide = gween.New(0, 1, float32(seconds), ease.OutCubic)
}

// StepFrame glides n frames forward (backward when negative) from the
// current frame at fps, wrapping around the loop. It lands on frame/fps.
func (p *Player) StepFrame(n, fps int) {
	frames := frameCount(p.duration, fps)
	if frames == 0 {
		return
	}
	cur := p.time
	if p.glide != nil {
		cur = p.glideTarget
	}
	f := int(math.Round(cur*float64(fps))) + n
	f = ((f % frames) + frames) % frames
	p.GlideTo(float64(f)/float64(fps), FrameGlideSeconds)
}

// Tick advances the clock by dt seconds and returns the current time. A glide
// advances even while paused; otherwise the clock only moves when playing.
func (p *Player) Tick(dt float64) float64 {
	if !(dt > 0) {
		return p.time
	}
	if p.glide != nil {
		v, done := p.glide.Update(float32(dt))
		if done {
			p.Seek(p.glideTarget)
		} else {
			p.time = p.wrap(p.glideFrom + p.glideDelta*float64(v))
		}
		return p.time
	}
	if !p.playing {
		return p.time
	}
	next := p.time + dt
	if next >= p.duration {
		p.Seek(next)
		if p.OnLoop != nil {
			p.OnLoop()
		}
		return p.time
	}
	p.time = next
	return p.time
}
