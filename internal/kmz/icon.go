package kmz

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // registered for image.Decode
	"image/png"
	"os"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// iconSize is the edge length placemark icons are scaled to. Google
// Earth renders point icons at roughly this size.
const iconSize = 64

// Icon is a processed placemark icon ready for embedding.
type Icon struct {
	PNG []byte
}

// LoadIcon reads an icon image (PNG, JPEG or WebP), scales it to the
// standard placemark size and re-encodes it as PNG for the archive.
func LoadIcon(path string) (*Icon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// image.Decode only knows registered formats; try WebP last.
		src, err = webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unsupported icon format in %s: %w", path, err)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}

	return &Icon{PNG: buf.Bytes()}, nil
}
