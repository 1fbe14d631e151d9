package convert

import "github.com/ShoheiSaito0429/slide-converter/pptx"

// Mapper converts source pixel geometry into slide EMU coordinates with a
// uniform scale factor and a centering offset. The image's aspect ratio is
// preserved; the mapped image touches at least one pair of slide edges.
type Mapper struct {
	scale   float64 // EMU per source pixel
	offsetX float64
	offsetY float64
	slideW  int64
	slideH  int64
}

// NewMapper creates a mapper for the given image dimensions (pixels,
// assumed positive, enforced by the validator) and slide dimensions (EMU).
func NewMapper(imgW, imgH float64, slideW, slideH int64) *Mapper {
	sx := float64(slideW) / imgW
	sy := float64(slideH) / imgH
	s := sx
	if sy < sx {
		s = sy
	}
	return &Mapper{
		scale:   s,
		offsetX: (float64(slideW) - imgW*s) / 2,
		offsetY: (float64(slideH) - imgH*s) / 2,
		slideW:  slideW,
		slideH:  slideH,
	}
}

// Scale returns the uniform scale factor in EMU per pixel.
func (m *Mapper) Scale() float64 { return m.scale }

// MapBox maps a pixel-space box to slide coordinates. The result is
// clamped to slide bounds to absorb floating point rounding.
func (m *Mapper) MapBox(b Box) (x, y, cx, cy int64) {
	x = clampInt64(int64(b.X*m.scale+m.offsetX), 0, m.slideW)
	y = clampInt64(int64(b.Y*m.scale+m.offsetY), 0, m.slideH)
	cx = clampInt64(int64(b.W*m.scale), 0, m.slideW-x)
	cy = clampInt64(int64(b.H*m.scale), 0, m.slideH-y)
	return x, y, cx, cy
}

// MapLength maps a pixel length (no translation) to EMU.
func (m *Mapper) MapLength(px float64) int64 {
	return int64(px * m.scale)
}

// FontPoints derives a font size in points. A positive pixel hint is
// scaled into slide space; otherwise the size comes from the mapped box
// height. Either way the result is clamped to a readable range.
func (m *Mapper) FontPoints(hintPx float64, boxHeightEMU int64) int {
	var pts float64
	if hintPx > 0 {
		pts = pptx.EMUToPoint(m.MapLength(hintPx))
	} else {
		pts = pptx.EMUToPoint(boxHeightEMU) * fontHeightRatio
	}
	return clampInt(int(pts+0.5), minFontPoints, maxFontPoints)
}

const (
	// fontHeightRatio approximates how much of a text box's height the
	// glyphs occupy, leaving room for line spacing and box padding.
	fontHeightRatio = 0.5

	minFontPoints = 8
	maxFontPoints = 96
)

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
