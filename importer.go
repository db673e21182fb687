package windsway

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// DecodeImage decodes a PNG, JPEG, GIF, BMP or TIFF stream into a
// straight-alpha image, applying the EXIF orientation tag.
func DecodeImage(r io.Reader) (*image.NRGBA, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return imaging.Clone(img), nil
}

// LoadImage opens and decodes the image file at path.
func LoadImage(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return imaging.Clone(img), nil
}

// ImportFailure records one file that could not be imported.
type ImportFailure struct {
	Path string
	Err  error
}

// ImportReport lists the outcome of an ImportFiles batch.
type ImportReport struct {
	Added  []*Node
	Failed []ImportFailure
}

// ImportFiles decodes each path into a new top-level layer, in order. A file
// that fails to decode is recorded in the report and the batch continues.
func (d *Document) ImportFiles(paths ...string) ImportReport {
	var rep ImportReport
	for _, p := range paths {
		img, err := LoadImage(p)
		if err != nil {
			rep.Failed = append(rep.Failed, ImportFailure{Path: p, Err: err})
			continue
		}
		n := NewLayer(layerName(p), img)
		n.SourcePath = p
		d.Add(n)
		rep.Added = append(rep.Added, n)
	}
	return rep
}

// layerName is the file name without directory or extension.
func layerName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
