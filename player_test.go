package windsway

import "testing"

const playerEps = 1e-4

func TestPlayerStartsStopped(t *testing.T) {
	p := NewPlayer(4)
	if p.Playing() || p.Time() != 0 {
		t.Errorf("playing=%v time=%v", p.Playing(), p.Time())
	}
	if got := p.Tick(0.5); got != 0 {
		t.Errorf("paused tick advanced to %v", got)
	}
}

func TestPlayerTickAdvances(t *testing.T) {
	p := NewPlayer(4)
	p.Play()
	p.Tick(0.5)
	p.Tick(0.25)
	if !approxEqual(p.Time(), 0.75, playerEps) {
		t.Errorf("time = %v, want 0.75", p.Time())
	}
	if !approxEqual(p.Progress(), 0.1875, playerEps) {
		t.Errorf("progress = %v", p.Progress())
	}
}

func TestPlayerLoops(t *testing.T) {
	p := NewPlayer(2)
	loops := 0
	p.OnLoop = func() { loops++ }
	p.Play()
	p.Tick(1.5)
	p.Tick(1.0)
	if !approxEqual(p.Time(), 0.5, playerEps) {
		t.Errorf("time = %v, want 0.5 after wrapping", p.Time())
	}
	if loops != 1 {
		t.Errorf("loops = %d", loops)
	}
	p.Tick(0.25)
	if !approxEqual(p.Time(), 0.75, playerEps) {
		t.Errorf("time = %v, want 0.75 after wrapping", p.Time())
	}
}

func TestPlayerPauseAndStop(t *testing.T) {
	p := NewPlayer(5)
	p.Play()
	p.Tick(1)
	p.Pause()
	p.Tick(1)
	if !approxEqual(p.Time(), 1, playerEps) {
		t.Errorf("time = %v, want 1 while paused", p.Time())
	}
	p.Toggle()
	if !p.Playing() {
		t.Error("Toggle should resume")
	}
	p.Stop()
	if p.Playing() || p.Time() != 0 {
		t.Errorf("after Stop: playing=%v time=%v", p.Playing(), p.Time())
	}
}

func TestPlayerSeek(t *testing.T) {
	p := NewPlayer(4)
	tests := []struct {
		seek, want float64
	}{
		{1, 1},
		{5, 1},
		{-1, 3},
		{0, 0},
	}
	for _, tt := range tests {
		p.Seek(tt.seek)
		if !approxEqual(p.Time(), tt.want, playerEps) {
			t.Errorf("Seek(%v) -> %v, want %v", tt.seek, p.Time(), tt.want)
		}
	}

	p.SeekPercent(50)
	if !approxEqual(p.Time(), 2, playerEps) {
		t.Errorf("SeekPercent(50) -> %v", p.Time())
	}
	p.SeekPercent(100)
	if !approxEqual(p.Time(), 4, playerEps) {
		t.Errorf("SeekPercent(100) -> %v", p.Time())
	}
	p.SeekPercent(-20)
	if p.Time() != 0 {
		t.Errorf("SeekPercent(-20) -> %v", p.Time())
	}
}

func TestPlayerSetDuration(t *testing.T) {
	p := NewPlayer(0)
	if p.Duration() != DefaultDuration {
		t.Errorf("duration = %v, want default", p.Duration())
	}
	p.Seek(3)
	p.SetDuration(2)
	if !approxEqual(p.Time(), 1, playerEps) {
		t.Errorf("time = %v, want 1 after shrinking", p.Time())
	}
}

func TestPlayerSeekMatchesExportFrameTimes(t *testing.T) {
	const fps = 30
	p := NewPlayer(5)
	for _, frame := range []int{1, 7, 33, 100, 149} {
		want := float64(frame) / float64(fps)
		p.Seek(want)
		if p.Time() != want {
			t.Errorf("frame %d: Seek -> %v, want exactly %v", frame, p.Time(), want)
		}
		preview := Deform(DefaultWindShake, nil, 40, 120, p.Time())
		export := Deform(DefaultWindShake, nil, 40, 120, want)
		if preview.Bounds != export.Bounds {
			t.Errorf("frame %d: preview bounds %+v, export %+v", frame, preview.Bounds, export.Bounds)
		}
	}
}

func TestPlayerTickAccumulatesInFloat64(t *testing.T) {
	p := NewPlayer(5)
	p.Play()
	p.Tick(0.1)
	p.Tick(0.2)
	if want := 0.1 + 0.2; p.Time() != want {
		t.Errorf("time = %v, want %v", p.Time(), want)
	}
}

func TestPlayerGlideEasesOut(t *testing.T) {
	p := NewPlayer(4)
	p.Play()
	p.GlideTo(2, 1)
	if p.Playing() || !p.Gliding() {
		t.Fatalf("playing=%v gliding=%v", p.Playing(), p.Gliding())
	}
	p.Tick(0.5)
	// Ease-out covers more than half the distance in half the time.
	if got := p.Time(); got <= 1 || got >= 2 {
		t.Errorf("halfway time = %v, want in (1, 2)", got)
	}
	p.Tick(0.6)
	if p.Gliding() || p.Time() != 2 {
		t.Errorf("after glide: gliding=%v time=%v", p.Gliding(), p.Time())
	}
}

func TestPlayerGlideTakesShorterWay(t *testing.T) {
	p := NewPlayer(4)
	p.Seek(0.5)
	p.GlideTo(3.5, 1)
	p.Tick(0.5)
	// Backwards through zero: 0.5 -> 0 -> 3.5.
	if got := p.Time(); got > 0.5 && got < 3.5 {
		t.Errorf("glide went the long way: %v", got)
	}
	p.Tick(1)
	if p.Time() != 3.5 {
		t.Errorf("time = %v, want 3.5", p.Time())
	}
}

func TestPlayerStepFrame(t *testing.T) {
	const fps = 10
	tests := []struct {
		name  string
		start float64
		steps []int
		want  float64
	}{
		{"forward", 0, []int{1}, 0.1},
		{"forward twice mid-glide", 0, []int{1, 1}, 0.2},
		{"backward wraps", 0, []int{-1}, 1.9},
		{"snaps to nearest frame", 0.74, []int{1}, 0.8},
		{"forward wraps", 1.9, []int{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(2)
			p.Seek(tt.start)
			for _, n := range tt.steps {
				p.StepFrame(n, fps)
			}
			p.Tick(FrameGlideSeconds * 2)
			if p.Time() != tt.want {
				t.Errorf("time = %v, want %v", p.Time(), tt.want)
			}
		})
	}
}

func TestPlayerPlaySnapsGlide(t *testing.T) {
	p := NewPlayer(4)
	p.GlideTo(1, 1)
	p.Tick(0.1)
	p.Play()
	if p.Gliding() || p.Time() != 1 {
		t.Errorf("gliding=%v time=%v", p.Gliding(), p.Time())
	}
}
