package windsway

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Project is a document plus the export settings saved alongside it.
type Project struct {
	Document *Document
	Export   ExportOptions
}

// NewProject wraps d with default export settings.
func NewProject(d *Document) *Project {
	return &Project{Document: d, Export: ExportOptions{Folder: DefaultExportFolder}}
}

type projectFile struct {
	Animation animationSection `toml:"animation"`
	Export    exportSection    `toml:"export"`
	Nodes     []nodeEntry      `toml:"node"`
}

type animationSection struct {
	FPS      int     `toml:"fps"`
	Duration float64 `toml:"duration"`
}

type exportSection struct {
	Resolution string `toml:"resolution"`
	Folder     string `toml:"folder,omitempty"`
}

type nodeEntry struct {
	ID        string           `toml:"id,omitempty"`
	Type      string           `toml:"type"`
	Name      string           `toml:"name"`
	Image     string           `toml:"image,omitempty"`
	Hidden    bool             `toml:"hidden,omitempty"`
	Effect    bool             `toml:"effect"`
	Collapsed bool             `toml:"collapsed,omitempty"`
	Wind      *WindShakeParams `toml:"wind,omitempty"`
	Pins      []Pin            `toml:"pin,omitempty"`
	Children  []nodeEntry      `toml:"node,omitempty"`
}

// LoadProject reads a TOML project file. Image paths are resolved relative
// to the file's directory.
func LoadProject(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	defer f.Close()
	p, err := DecodeProject(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", path, err)
	}
	return p, nil
}

// DecodeProject parses a TOML project from r and loads its images relative
// to baseDir.
func DecodeProject(r io.Reader, baseDir string) (*Project, error) {
	var pf projectFile
	md, err := toml.NewDecoder(r).Decode(&pf)
	if err != nil {
		return nil, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("unknown key %q", undec[0].String())
	}

	d := NewDocument()
	if pf.Animation.FPS > 0 {
		d.FPS = pf.Animation.FPS
	}
	if pf.Animation.Duration > 0 {
		d.Duration = pf.Animation.Duration
	}
	res, err := ParseResolution(pf.Export.Resolution)
	if err != nil {
		return nil, err
	}
	p := &Project{Document: d, Export: ExportOptions{Resolution: res, Folder: pf.Export.Folder}}
	if p.Export.Folder == "" {
		p.Export.Folder = DefaultExportFolder
	}

	for i := range pf.Nodes {
		n, err := buildNode(&pf.Nodes[i], baseDir)
		if err != nil {
			return nil, err
		}
		d.Add(n)
	}
	return p, nil
}

func buildNode(e *nodeEntry, baseDir string) (*Node, error) {
	var n *Node
	switch e.Type {
	case "layer", "":
		if len(e.Children) > 0 {
			return nil, fmt.Errorf("layer %q cannot have children", e.Name)
		}
		var img *image.NRGBA
		if e.Image != "" {
			path := e.Image
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			loaded, err := LoadImage(path)
			if err != nil {
				return nil, err
			}
			img = loaded
		}
		n = NewLayer(e.Name, img)
		n.SourcePath = e.Image
	case "folder":
		n = NewFolder(e.Name)
		n.Collapsed = e.Collapsed
		for i := range e.Children {
			c, err := buildNode(&e.Children[i], baseDir)
			if err != nil {
				return nil, err
			}
			n.AddChild(c)
		}
	default:
		return nil, fmt.Errorf("node %q: unknown type %q", e.Name, e.Type)
	}

	if e.ID != "" {
		n.ID = e.ID
	}
	n.Visible = !e.Hidden
	n.EffectEnabled = e.Effect
	if e.Wind != nil {
		n.SetWindShake(*e.Wind)
	}
	for _, pin := range e.Pins {
		pin = pin.Clamp()
		if pin.ID == "" {
			pin.ID = uuid.NewString()
		}
		n.Pins = append(n.Pins, pin)
	}
	return n, nil
}

// SaveProject writes p as TOML to path.
func SaveProject(path string, p *Project) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := EncodeProject(bw, p); err != nil {
		f.Close()
		return fmt.Errorf("save project %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("save project %s: %w", path, err)
	}
	return f.Close()
}

// EncodeProject writes p as TOML to w. Image paths are written as they were
// loaded.
func EncodeProject(w io.Writer, p *Project) error {
	d := p.Document
	pf := projectFile{
		Animation: animationSection{FPS: d.FPS, Duration: d.Duration},
		Export:    exportSection{Resolution: p.Export.Resolution.String(), Folder: p.Export.Folder},
	}
	for _, n := range d.Layers() {
		pf.Nodes = append(pf.Nodes, entryFor(n))
	}
	return toml.NewEncoder(w).Encode(pf)
}

func entryFor(n *Node) nodeEntry {
	wind := n.WindShake
	e := nodeEntry{
		ID:     n.ID,
		Type:   n.Type.String(),
		Name:   n.Name,
		Hidden: !n.Visible,
		Effect: n.EffectEnabled,
		Wind:   &wind,
		Pins:   n.Pins,
	}
	switch n.Type {
	case NodeTypeLayer:
		e.Image = n.SourcePath
	case NodeTypeFolder:
		e.Collapsed = n.Collapsed
		for _, c := range n.children {
			e.Children = append(e.Children, entryFor(c))
		}
	}
	return e
}
