package windsway

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"
)

// DefaultScreenshotDir is where the preview writes script screenshots.
const DefaultScreenshotDir = "screenshots"

// SaveScreenshot writes frame as a PNG into dir with a timestamped, sanitized
// file name and returns the path written.
func SaveScreenshot(dir, label string, frame *image.NRGBA) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: mkdir %s: %w", dir, err)
	}
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
	if err := writePNG(path, frame); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// PremultipliedToNRGBA converts premultiplied RGBA pixels (as read back from
// the GPU) to a straight-alpha image.
func PremultipliedToNRGBA(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// NRGBAToPremultiplied converts a straight-alpha image into premultiplied
// RGBA pixels for upload to the GPU. dst is reused when large enough.
func NRGBAToPremultiplied(img *image.NRGBA, dst []byte) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	need := w * h * 4
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]
	i := 0
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		off := img.PixOffset(img.Rect.Min.X, y)
		row := img.Pix[off : off+w*4]
		for x := 0; x < len(row); x += 4 {
			a := uint32(row[x+3])
			dst[i] = uint8(uint32(row[x]) * a / 255)
			dst[i+1] = uint8(uint32(row[x+1]) * a / 255)
			dst[i+2] = uint8(uint32(row[x+2]) * a / 255)
			dst[i+3] = uint8(a)
			i += 4
		}
	}
	return dst
}
