package windsway

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestProjectRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "tree.png"), 10, 30)
	writeTestPNG(t, filepath.Join(dir, "bush.png"), 12, 6)

	d := NewDocument()
	d.FPS = 24
	d.Duration = 2.5
	rep := d.ImportFiles(filepath.Join(dir, "tree.png"), filepath.Join(dir, "bush.png"))
	if len(rep.Failed) != 0 {
		t.Fatal(rep.Failed)
	}
	tree, bush := rep.Added[0], rep.Added[1]
	tree.SourcePath = "tree.png"
	bush.SourcePath = "bush.png"
	tree.SetEffectEnabled(true)
	tree.AddPin(40)
	if err := ApplyPreset(bush, "flag"); err != nil {
		t.Fatal(err)
	}
	bush.Visible = false
	if err := d.Select(tree.ID, bush.ID); err != nil {
		t.Fatal(err)
	}
	g, err := d.Group("plants")
	if err != nil {
		t.Fatal(err)
	}
	g.Collapsed = true
	g.EffectEnabled = true

	p := NewProject(d)
	p.Export.Resolution = Resolution{Width: 640, Height: 480}
	path := filepath.Join(dir, "scene.toml")
	if err := SaveProject(path, p); err != nil {
		t.Fatal(err)
	}

	got, err := LoadProject(path)
	if err != nil {
		t.Fatal(err)
	}
	gd := got.Document
	if gd.FPS != 24 || gd.Duration != 2.5 {
		t.Errorf("animation = %d fps %v s", gd.FPS, gd.Duration)
	}
	if got.Export.Resolution != p.Export.Resolution || got.Export.Folder != DefaultExportFolder {
		t.Errorf("export = %+v", got.Export)
	}
	assertNames(t, "top", gd.Layers(), "plants")
	folder := gd.Layers()[0]
	if folder.ID != g.ID || folder.Type != NodeTypeFolder || !folder.Collapsed || !folder.EffectEnabled {
		t.Errorf("folder = %+v", folder)
	}
	assertNames(t, "children", folder.Children(), "tree", "bush")

	gt, gb := folder.Children()[0], folder.Children()[1]
	if gt.ID != tree.ID || gt.Width() != 10 || gt.Height() != 30 {
		t.Errorf("tree = %s %dx%d", gt.ID, gt.Width(), gt.Height())
	}
	if len(gt.Pins) != 1 || gt.Pins[0] != tree.Pins[0] {
		t.Errorf("pins = %+v, want %+v", gt.Pins, tree.Pins)
	}
	if gb.Visible || gb.WindShake != Presets["flag"] {
		t.Errorf("bush visible=%v wind=%+v", gb.Visible, gb.WindShake)
	}
}

func TestDecodeProjectDefaults(t *testing.T) {
	src := `
[[node]]
type = "folder"
name = "empty"
effect = false
`
	p, err := DecodeProject(strings.NewReader(src), ".")
	if err != nil {
		t.Fatal(err)
	}
	if p.Document.FPS != DefaultFPS || p.Document.Duration != DefaultDuration {
		t.Errorf("animation = %d %v", p.Document.FPS, p.Document.Duration)
	}
	if !p.Export.Resolution.IsOriginal() || p.Export.Folder != DefaultExportFolder {
		t.Errorf("export = %+v", p.Export)
	}
	n := p.Document.Layers()[0]
	if n.ID == "" || n.WindShake != DefaultWindShake || !n.Visible {
		t.Errorf("node = %+v", n)
	}
}

func TestDecodeProjectClampsValues(t *testing.T) {
	src := `
[[node]]
name = "l"
effect = true

[node.wind]
divisions = 500
angle = -300.0

[[node.pin]]
position = 140.0
range = 10.0
`
	p, err := DecodeProject(strings.NewReader(src), ".")
	if err != nil {
		t.Fatal(err)
	}
	n := p.Document.Layers()[0]
	if n.Type != NodeTypeLayer || n.Image != nil {
		t.Errorf("layer = %+v", n)
	}
	if n.WindShake.Divisions != MaxDivisions || n.WindShake.AngleDeg != MinAngleDeg {
		t.Errorf("wind = %+v", n.WindShake)
	}
	if len(n.Pins) != 1 || n.Pins[0].PositionPct != 100 || n.Pins[0].ID == "" {
		t.Errorf("pins = %+v", n.Pins)
	}
}

func TestDecodeProjectErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", "[animation]\nfps = 30\nspeed = 2\n", "unknown key"},
		{"unknown type", "[[node]]\ntype = \"group\"\nname = \"x\"\n", "unknown type"},
		{"layer children", "[[node]]\ntype = \"layer\"\nname = \"x\"\n[[node.node]]\nname = \"y\"\n", "cannot have children"},
		{"bad resolution", "[export]\nresolution = \"huge\"\n", "resolution"},
		{"missing image", "[[node]]\nname = \"x\"\nimage = \"nope.png\"\n", "nope.png"},
		{"syntax", "[[node\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProject(strings.NewReader(tt.src), t.TempDir())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestEncodeProjectWritesSections(t *testing.T) {
	d := NewDocument()
	d.Add(NewLayer("solo", nil))
	var buf bytes.Buffer
	if err := EncodeProject(&buf, NewProject(d)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"[animation]", "fps = 30", "[export]", `resolution = "original"`, "[[node]]", `name = "solo"`, "[node.wind]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
