// Package resources renders the application icon.
package resources

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"
)

const iconSize = 64

var (
	iconOnce sync.Once
	iconData []byte
	iconErr  error
)

// GetIcon returns the tray and notification icon as PNG bytes: a rounded key
// cap with a dark face.
func GetIcon() ([]byte, error) {
	iconOnce.Do(func() {
		iconData, iconErr = encodePNG(renderKeyCap(iconSize))
	})
	return iconData, iconErr
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderKeyCap(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	rim := color.RGBA{R: 30, G: 30, B: 36, A: 255}
	face := color.RGBA{R: 70, G: 130, B: 220, A: 255}

	s := float64(size)
	outer := roundedRect{x0: 1, y0: 1, x1: s - 1, y1: s - 1, r: s * 0.2}
	inner := roundedRect{x0: s * 0.16, y0: s * 0.12, x1: s * 0.84, y1: s * 0.74, r: s * 0.12}

	for y := range size {
		for x := range size {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			switch {
			case inner.contains(fx, fy):
				img.Set(x, y, face)
			case outer.contains(fx, fy):
				img.Set(x, y, rim)
			}
		}
	}
	return img
}

type roundedRect struct {
	x0, y0, x1, y1, r float64
}

func (rr roundedRect) contains(x, y float64) bool {
	if x < rr.x0 || x > rr.x1 || y < rr.y0 || y > rr.y1 {
		return false
	}
	cx := math.Max(rr.x0+rr.r, math.Min(x, rr.x1-rr.r))
	cy := math.Max(rr.y0+rr.r, math.Min(y, rr.y1-rr.r))
	return math.Hypot(x-cx, y-cy) <= rr.r
}
