package preview

import (
	"image"
	"math"
	"testing"

	windsway "github.com/phanxgames/windsway"
)

func solid(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}
	return img
}

func TestPinPosition(t *testing.T) {
	// A 100px strip drawn at half scale spans rows 75..125 of a 200px view.
	v := viewport{width: 200, height: 200, scale: 0.5}
	tests := []struct {
		y      int
		want   float64
		wantOK bool
	}{
		{75, 0, true},
		{100, 50, true},
		{125, 100, true},
		{80, 10, true},
		{74, 0, false},
		{126, 0, false},
	}
	for _, tt := range tests {
		got, ok := v.pinPosition(tt.y, 100)
		if ok != tt.wantOK || (ok && math.Abs(got-tt.want) > 1e-9) {
			t.Errorf("pinPosition(%d) = %v, %v, want %v, %v", tt.y, got, ok, tt.want, tt.wantOK)
		}
	}
	if _, ok := v.pinPosition(100, 0); ok {
		t.Error("zero height strip accepted a pin")
	}
}

func TestPinTargetPrefersSelection(t *testing.T) {
	d := windsway.NewDocument()
	a := windsway.NewLayer("a", solid(4, 4))
	b := windsway.NewLayer("b", solid(4, 4))
	c := windsway.NewLayer("c", solid(4, 4))
	d.Add(a)
	d.Add(b)
	d.Add(c)

	if pinTarget(d) != nil {
		t.Fatal("no effect layers, want nil target")
	}
	b.EffectEnabled = true
	c.EffectEnabled = true
	if got := pinTarget(d); got != b {
		t.Errorf("target = %v, want first effect layer", got.Name)
	}
	if err := d.Select(a.ID, c.ID); err != nil {
		t.Fatal(err)
	}
	if got := pinTarget(d); got != c {
		t.Errorf("target = %v, want selected effect layer", got.Name)
	}
	d.ClearSelection()
	b.Visible = false
	if got := pinTarget(d); got != c {
		t.Errorf("target = %v, hidden layers cannot take pins", got.Name)
	}
}

func TestRestHeightOfFolder(t *testing.T) {
	d := windsway.NewDocument()
	f := windsway.NewFolder("f")
	d.Add(f)
	f.AddChild(windsway.NewLayer("short", solid(4, 10)))
	f.AddChild(windsway.NewLayer("tall", solid(4, 30)))
	d.Add(windsway.NewLayer("outside", solid(4, 90)))

	if got := restHeight(d, f); got != 30 {
		t.Errorf("folder rest height = %d, want 30", got)
	}
	if got := restHeight(d, f.Children()[0]); got != 10 {
		t.Errorf("layer rest height = %d, want 10", got)
	}
}

func TestFitViewport(t *testing.T) {
	d := windsway.NewDocument()
	l := windsway.NewLayer("l", solid(40, 400))
	d.Add(l)
	c := windsway.NewCompositor()

	v := fitViewport(c, d, 800, 200)
	want := 0.9 * 200.0 / 400.0
	if math.Abs(v.scale-want) > 1e-9 {
		t.Errorf("raw scale = %v, want %v", v.scale, want)
	}

	// Small documents are shown at their natural size.
	small := windsway.NewDocument()
	small.Add(windsway.NewLayer("s", solid(10, 10)))
	if v := fitViewport(c, small, 800, 600); v.scale != 1 {
		t.Errorf("small scale = %v, want 1", v.scale)
	}

	l.EffectEnabled = true
	v = fitViewport(c, d, 800, 200)
	if v.scale >= want {
		t.Errorf("effect scale %v should shrink below raw %v to fit the padded stage", v.scale, want)
	}
}
