package windsway

import (
	"errors"
	"testing"
)

// newTestDocument returns a document with three top-level layers a, b, c.
func newTestDocument() (*Document, *Node, *Node, *Node) {
	d := NewDocument()
	a := NewLayer("a", solidImage(10, 20, opaqueRed))
	b := NewLayer("b", solidImage(30, 10, opaqueGreen))
	c := NewLayer("c", solidImage(5, 5, opaqueBlue))
	d.Add(a)
	d.Add(b)
	d.Add(c)
	return d, a, b, c
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func assertNames(t *testing.T, label string, nodes []*Node, want ...string) {
	t.Helper()
	got := names(nodes)
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", label, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s = %v, want %v", label, got, want)
		}
	}
}

func TestNewDocumentDefaults(t *testing.T) {
	d := NewDocument()
	if d.FPS != 30 || d.Duration != 5 {
		t.Errorf("FPS=%d Duration=%v", d.FPS, d.Duration)
	}
	if d.FrameCount() != 150 {
		t.Errorf("FrameCount = %d, want 150", d.FrameCount())
	}
	if d.Len() != 0 {
		t.Error("new document should be empty")
	}
}

func TestDocumentFindAndWalk(t *testing.T) {
	d, a, b, _ := newTestDocument()
	if _, err := d.Group("g"); err == nil {
		t.Fatal("grouping without selection should fail")
	}
	if err := d.Select(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	g, err := d.Group("g")
	if err != nil {
		t.Fatal(err)
	}
	if d.Find(b.ID) != b || d.Find(g.ID) != g || d.Find("nope") != nil {
		t.Error("Find mismatch")
	}

	var visited []string
	var depths []int
	d.Walk(func(n *Node, depth int) bool {
		visited = append(visited, n.Name)
		depths = append(depths, depth)
		return true
	})
	want := []string{"g", "a", "b", "c"}
	wantDepth := []int{0, 1, 1, 0}
	for i := range want {
		if visited[i] != want[i] || depths[i] != wantDepth[i] {
			t.Fatalf("walk = %v %v, want %v %v", visited, depths, want, wantDepth)
		}
	}
	if d.Len() != 4 {
		t.Errorf("Len = %d", d.Len())
	}
}

func TestDocumentGroupPlacesFolderAtLowestMember(t *testing.T) {
	d, a, b, c := newTestDocument()
	// Selection order does not matter; document order is kept.
	if err := d.Select(c.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	g, err := d.Group("top")
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, "layers", d.Layers(), "a", "top")
	assertNames(t, "folder", g.Children(), "b", "c")
	if len(d.Selection()) != 1 || d.Selection()[0] != g {
		t.Error("new folder should be selected")
	}
	if a.Parent != d.Root() || b.Parent != g {
		t.Error("parents not updated")
	}
}

func TestDocumentGroupRejectsBadSelection(t *testing.T) {
	d, a, b, c := newTestDocument()
	if err := d.Select(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Group("g"); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("single node: err = %v", err)
	}

	if err := d.Select(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Group("inner"); err != nil {
		t.Fatal(err)
	}
	// a is now inside "inner", c is top-level.
	if err := d.Select(a.ID, c.ID); err != nil {
		t.Fatal(err)
	}
	before := d.Len()
	if _, err := d.Group("g"); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("different parents: err = %v", err)
	}
	if d.Len() != before {
		t.Error("failed group mutated the document")
	}
}

func TestDocumentUngroupRestoresOrder(t *testing.T) {
	d, a, b, _ := newTestDocument()
	if err := d.Select(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	g, err := d.Group("g")
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, "grouped", d.Layers(), "g", "c")

	if err := d.Ungroup(g.ID); err != nil {
		t.Fatal(err)
	}
	assertNames(t, "ungrouped", d.Layers(), "a", "b", "c")
	if !g.IsDisposed() {
		t.Error("folder should be disposed")
	}
	if len(d.Selection()) != 0 {
		t.Error("disposed folder left in selection")
	}
	if err := d.Ungroup(a.ID); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("ungroup layer: err = %v", err)
	}
	if err := d.Ungroup("missing"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("ungroup missing: err = %v", err)
	}
}

func TestDocumentRemove(t *testing.T) {
	d, a, b, _ := newTestDocument()
	if err := d.Select(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	g, _ := d.Group("g")
	if err := d.Select(a.ID); err != nil {
		t.Fatal(err)
	}

	if err := d.Remove(g.ID); err != nil {
		t.Fatal(err)
	}
	assertNames(t, "layers", d.Layers(), "c")
	if !a.IsDisposed() || a.Image != nil {
		t.Error("subtree not released")
	}
	if len(d.Selection()) != 0 {
		t.Error("removed node still selected")
	}
	if err := d.Remove(g.ID); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestDocumentMove(t *testing.T) {
	d, a, b, c := newTestDocument()
	if err := d.Move(c.ID, "", 0); err != nil {
		t.Fatal(err)
	}
	assertNames(t, "reordered", d.Layers(), "c", "a", "b")

	f := NewFolder("f")
	d.Add(f)
	if err := d.Move(a.ID, f.ID, 99); err != nil {
		t.Fatal(err)
	}
	assertNames(t, "top", d.Layers(), "c", "b", "f")
	assertNames(t, "folder", f.Children(), "a")

	if err := d.Move(f.ID, f.ID, 0); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("move into self: err = %v", err)
	}
	if err := d.Move(b.ID, c.ID, 0); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("move into layer: err = %v", err)
	}
	if err := d.Move("missing", "", 0); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestDocumentSelectUnknownKeepsSelection(t *testing.T) {
	d, a, _, _ := newTestDocument()
	if err := d.Select(a.ID); err != nil {
		t.Fatal(err)
	}
	if err := d.Select(a.ID, "missing"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("err = %v", err)
	}
	if len(d.Selection()) != 1 || d.Selection()[0] != a {
		t.Error("selection changed on error")
	}
	d.ClearSelection()
	if len(d.Selection()) != 0 {
		t.Error("ClearSelection failed")
	}
}

func TestDocumentMaxImageSizeSkipsHidden(t *testing.T) {
	d, _, b, _ := newTestDocument()
	w, h := d.MaxImageSize()
	if w != 30 || h != 20 {
		t.Errorf("size = %dx%d, want 30x20", w, h)
	}
	b.Visible = false
	w, h = d.MaxImageSize()
	if w != 10 || h != 20 {
		t.Errorf("size = %dx%d, want 10x20", w, h)
	}
}

// --- Flatten ---

func TestFlattenAncestorsInnermostFirst(t *testing.T) {
	d := NewDocument()
	outer := NewFolder("outer")
	inner := NewFolder("inner")
	leaf := NewLayer("leaf", solidImage(4, 4, opaqueRed))
	top := NewLayer("top", solidImage(4, 4, opaqueBlue))
	d.Add(outer)
	outer.AddChild(inner)
	inner.AddChild(leaf)
	d.Add(top)

	flat := Flatten(d)
	if len(flat) != 2 {
		t.Fatalf("flat = %d layers", len(flat))
	}
	if flat[0].Layer != leaf || flat[1].Layer != top {
		t.Error("paint order mismatch")
	}
	assertNames(t, "ancestors", flat[0].Ancestors, "inner", "outer")
	if len(flat[1].Ancestors) != 0 {
		t.Error("top-level layer should have no ancestors")
	}
}

func TestFlattenSkipsHiddenAndEmpty(t *testing.T) {
	d := NewDocument()
	hidden := NewFolder("hidden")
	hidden.Visible = false
	hidden.AddChild(NewLayer("under hidden", solidImage(4, 4, opaqueRed)))
	d.Add(hidden)
	d.Add(NewLayer("no image", nil))
	d.Add(NewLayer("empty", solidImage(0, 5, opaqueRed)))
	off := NewLayer("off", solidImage(4, 4, opaqueRed))
	off.Visible = false
	d.Add(off)
	d.Add(NewLayer("shown", solidImage(4, 4, opaqueRed)))

	flat := Flatten(d)
	if len(flat) != 1 || flat[0].Layer.Name != "shown" {
		t.Errorf("flat = %+v", flat)
	}
}

func TestFlattenSiblingFoldersDoNotShareAncestors(t *testing.T) {
	d := NewDocument()
	f := NewFolder("f")
	g := NewFolder("g")
	d.Add(f)
	f.AddChild(NewLayer("x", solidImage(2, 2, opaqueRed)))
	f.AddChild(g)
	g.AddChild(NewLayer("y", solidImage(2, 2, opaqueRed)))
	f.AddChild(NewLayer("z", solidImage(2, 2, opaqueRed)))

	flat := Flatten(d)
	assertNames(t, "x", flat[0].Ancestors, "f")
	assertNames(t, "y", flat[1].Ancestors, "g", "f")
	assertNames(t, "z", flat[2].Ancestors, "f")
}
