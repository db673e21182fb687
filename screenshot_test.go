package windsway

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-seek", "after-seek"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"wind_sway_sequence", "wind_sway_sequence"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveScreenshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	frame := solidImage(6, 4, opaqueRed)

	path, err := SaveScreenshot(dir, "mid swing", frame)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir || !strings.HasSuffix(path, "_mid_swing.png") {
		t.Errorf("path = %q", path)
	}
	img, err := LoadImage(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Dx() != 6 || img.Rect.Dy() != 4 || img.NRGBAAt(2, 2) != opaqueRed {
		t.Errorf("round trip mismatch: %v %v", img.Rect, img.NRGBAAt(2, 2))
	}
}

func TestPremultipliedConversion(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 128})
	img.SetNRGBA(2, 0, color.NRGBA{90, 90, 90, 0})

	pm := NRGBAToPremultiplied(img, nil)
	want := []byte{255, 0, 0, 255, 100, 50, 25, 128, 0, 0, 0, 0}
	for i := range want {
		if pm[i] != want[i] {
			t.Fatalf("premultiplied = %v, want %v", pm, want)
		}
	}

	back := PremultipliedToNRGBA(pm, 3, 1)
	if back.NRGBAAt(0, 0) != img.NRGBAAt(0, 0) {
		t.Errorf("opaque pixel = %v", back.NRGBAAt(0, 0))
	}
	got := back.NRGBAAt(1, 0)
	if absDiff(got.R, 200) > 2 || absDiff(got.G, 100) > 2 || absDiff(got.B, 50) > 2 || got.A != 128 {
		t.Errorf("translucent pixel = %v", got)
	}
	if back.NRGBAAt(2, 0).A != 0 {
		t.Errorf("transparent pixel = %v", back.NRGBAAt(2, 0))
	}
}

func TestNRGBAToPremultipliedReusesBuffer(t *testing.T) {
	img := solidImage(2, 2, opaqueBlue)
	buf := make([]byte, 64)
	out := NRGBAToPremultiplied(img.SubImage(image.Rect(1, 0, 2, 2)).(*image.NRGBA), buf)
	if len(out) != 8 || &out[0] != &buf[0] {
		t.Errorf("len = %d, reused = %v", len(out), &out[0] == &buf[0])
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
