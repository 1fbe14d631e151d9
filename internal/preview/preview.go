// Package preview rasterizes a validated layout description to a PNG.
// It backs the demo sample image and gives callers a quick visual check
// of an analysis result without opening the generated document.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ShoheiSaito0429/slide-converter/convert"
	"github.com/ShoheiSaito0429/slide-converter/pptx"
)

// DefaultWidth is the output width in pixels when none is given.
const DefaultWidth = 960

// Render rasterizes the layout to a PNG of the given width. The height
// follows the layout's aspect ratio. width <= 0 selects DefaultWidth.
func Render(desc *convert.LayoutDescription, width int) ([]byte, error) {
	if desc == nil {
		return nil, fmt.Errorf("preview: nil layout")
	}
	if width <= 0 {
		width = DefaultWidth
	}

	scale := float64(width) / desc.ImageWidth
	height := int(desc.ImageHeight * scale)
	if height <= 0 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	bg := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if desc.Background != nil {
		bg = toRGBA(*desc.Background)
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	r := &rasterizer{img: img, scale: scale}
	for _, el := range desc.Elements {
		r.renderElement(el)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("preview: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type rasterizer struct {
	img   *image.RGBA
	scale float64
}

func (r *rasterizer) px(v float64) int {
	return int(v * r.scale)
}

func (r *rasterizer) boxRect(b convert.Box) image.Rectangle {
	return image.Rect(r.px(b.X), r.px(b.Y), r.px(b.X+b.W), r.px(b.Y+b.H))
}

func (r *rasterizer) renderElement(el convert.Element) {
	switch el.Kind {
	case convert.KindText:
		r.renderText(el)
	case convert.KindShape:
		r.renderShape(el)
	case convert.KindImage:
		r.renderImagePlaceholder(el)
	}
}

func (r *rasterizer) renderText(el convert.Element) {
	rect := r.boxRect(el.Box)

	if el.Text.Background != nil {
		draw.Draw(r.img, rect, &image.Uniform{toRGBA(*el.Text.Background)}, image.Point{}, draw.Over)
	}
	if el.Text.Content == "" {
		return
	}

	c := toRGBA(el.Text.Color)
	lines := strings.Split(el.Text.Content, "\n")
	lineH := basicfont.Face7x13.Metrics().Height.Ceil() + 2
	y := rect.Min.Y + lineH
	for _, line := range lines {
		r.drawString(line, c, rect, y, el.Text.Align)
		y += lineH
		if y > rect.Max.Y {
			break
		}
	}
}

func (r *rasterizer) renderShape(el convert.Element) {
	rect := r.boxRect(el.Box)

	if el.Shape.Geometry == "line" {
		c := color.RGBA{A: 255}
		if el.Shape.Fill != nil {
			c = toRGBA(*el.Shape.Fill)
		} else if el.Shape.BorderColor != nil {
			c = toRGBA(*el.Shape.BorderColor)
		}
		r.drawLine(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y, c)
		return
	}

	ellipse := el.Shape.Geometry == pptx.GeomEllipse

	if el.Shape.Fill != nil {
		c := toRGBA(*el.Shape.Fill)
		if ellipse {
			r.fillEllipse(rect, c)
		} else {
			draw.Draw(r.img, rect, &image.Uniform{c}, image.Point{}, draw.Over)
		}
	}
	if el.Shape.BorderColor != nil {
		c := toRGBA(*el.Shape.BorderColor)
		pw := r.px(el.Shape.BorderWidthPx)
		if pw < 1 {
			pw = 1
		}
		if ellipse {
			r.strokeEllipse(rect, c)
		} else {
			r.strokeRect(rect, c, pw)
		}
	}
}

func (r *rasterizer) renderImagePlaceholder(el convert.Element) {
	rect := r.boxRect(el.Box)

	draw.Draw(r.img, rect, &image.Uniform{color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 255}}, image.Point{}, draw.Over)
	r.strokeRect(rect, color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 255}, 1)

	caption := el.Image.Description
	if caption == "" {
		caption = "image"
	}
	mid := (rect.Min.Y + rect.Max.Y) / 2
	r.drawString("["+caption+"]", color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 255}, rect, mid, pptx.AlignCenter)
}

// --- drawing primitives ---

func (r *rasterizer) drawString(s string, c color.RGBA, rect image.Rectangle, baselineY int, align pptx.HorizontalAlignment) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()

	x := rect.Min.X
	switch align {
	case pptx.AlignCenter:
		x = rect.Min.X + (rect.Dx()-w)/2
	case pptx.AlignRight:
		x = rect.Max.X - w
	}

	d := &font.Drawer{
		Dst:  r.img,
		Src:  &image.Uniform{c},
		Face: face,
		Dot:  fixed.P(x, baselineY),
	}
	d.DrawString(s)
}

func (r *rasterizer) strokeRect(rect image.Rectangle, c color.RGBA, width int) {
	for i := 0; i < width; i++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r.setPixel(x, rect.Min.Y+i, c)
			r.setPixel(x, rect.Max.Y-1-i, c)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			r.setPixel(rect.Min.X+i, y, c)
			r.setPixel(rect.Max.X-1-i, y, c)
		}
	}
}

// drawLine uses Bresenham's algorithm.
func (r *rasterizer) drawLine(x1, y1, x2, y2 int, c color.RGBA) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		r.setPixel(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *rasterizer) fillEllipse(rect image.Rectangle, c color.RGBA) {
	rx := float64(rect.Dx()) / 2
	ry := float64(rect.Dy()) / 2
	centerX := float64(rect.Min.X) + rx
	centerY := float64(rect.Min.Y) + ry

	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		for px := rect.Min.X; px < rect.Max.X; px++ {
			dx := (float64(px) + 0.5 - centerX) / rx
			dy := (float64(py) + 0.5 - centerY) / ry
			if dx*dx+dy*dy <= 1.0 {
				r.setPixel(px, py, c)
			}
		}
	}
}

func (r *rasterizer) strokeEllipse(rect image.Rectangle, c color.RGBA) {
	rx := float64(rect.Dx()) / 2
	ry := float64(rect.Dy()) / 2
	centerX := float64(rect.Min.X) + rx
	centerY := float64(rect.Min.Y) + ry

	steps := int(math.Max(float64(rect.Dx()), float64(rect.Dy())) * 4)
	if steps < 100 {
		steps = 100
	}
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		px := int(centerX + rx*math.Cos(angle))
		py := int(centerY + ry*math.Sin(angle))
		r.setPixel(px, py, c)
	}
}

func (r *rasterizer) setPixel(x, y int, c color.RGBA) {
	bounds := r.img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		r.img.SetRGBA(x, y, c)
	}
}

func toRGBA(c pptx.Color) color.RGBA {
	rgb := c.RGB()
	return color.RGBA{
		R: hexByte(rgb[0:2]),
		G: hexByte(rgb[2:4]),
		B: hexByte(rgb[4:6]),
		A: 255,
	}
}

func hexByte(s string) uint8 {
	var v uint8
	for i := 0; i < len(s); i++ {
		v <<= 4
		switch ch := s[i]; {
		case ch >= '0' && ch <= '9':
			v |= ch - '0'
		case ch >= 'A' && ch <= 'F':
			v |= ch - 'A' + 10
		case ch >= 'a' && ch <= 'f':
			v |= ch - 'a' + 10
		}
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
