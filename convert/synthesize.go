package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ShoheiSaito0429/slide-converter/pptx"
)

// errSkipElement marks an element that cannot be synthesized. Skips are
// counted by the caller and never abort the batch.
var errSkipElement = errors.New("element skipped")

// Placeholder styling for image regions. The original layout's pixels are
// not embedded, so the region is rendered as a neutral captioned box.
var (
	placeholderFill   = pptx.NewColor("EEEEEE")
	placeholderBorder = pptx.NewColor("CCCCCC")
)

const placeholderCaptionPoints = 12

// Synthesize builds the slide shape for one validated element using the
// given mapper. It returns errSkipElement (wrapped) for elements that
// cannot produce a shape, such as a zero-area box after clamping.
func Synthesize(el Element, m *Mapper) (pptx.Shape, error) {
	x, y, cx, cy := m.MapBox(el.Box)

	line := el.Kind == KindShape && el.Shape.Geometry == geomLine
	if line {
		// A straight line legitimately has a zero extent on one axis.
		if cx == 0 && cy == 0 {
			return nil, fmt.Errorf("%w: zero-length line after clamping", errSkipElement)
		}
	} else if cx == 0 || cy == 0 {
		return nil, fmt.Errorf("%w: zero-area box after clamping", errSkipElement)
	}

	switch el.Kind {
	case KindText:
		return synthesizeText(el, x, y, cx, cy, m), nil
	case KindShape:
		if line {
			return synthesizeLine(el, x, y, cx, cy, m), nil
		}
		return synthesizeShape(el, x, y, cx, cy, m), nil
	case KindImage:
		return synthesizeImagePlaceholder(el, x, y, cx, cy), nil
	}
	return nil, fmt.Errorf("%w: unsupported kind %v", errSkipElement, el.Kind)
}

func synthesizeText(el Element, x, y, cx, cy int64, m *Mapper) pptx.Shape {
	tb := pptx.NewTextBox()
	tb.SetPosition(x, y)
	tb.SetSize(cx, cy)

	if el.Text.Background != nil {
		tb.GetFill().SetSolid(*el.Text.Background)
	}

	// Blank content after trimming still yields a text-free box so the
	// region stays visible and editable.
	if el.Text.Content == "" {
		return tb
	}

	size := m.FontPoints(el.Text.FontSizePx, cy)
	for _, lineText := range strings.Split(el.Text.Content, "\n") {
		para := tb.CreateParagraph().SetAlignment(el.Text.Align)
		run := para.CreateTextRun(lineText)
		run.GetFont().
			SetSize(size).
			SetBold(el.Text.Bold).
			SetItalic(el.Text.Italic).
			SetColor(el.Text.Color)
	}
	return tb
}

func synthesizeShape(el Element, x, y, cx, cy int64, m *Mapper) pptx.Shape {
	sh := pptx.NewAutoShape()
	sh.SetGeometry(el.Shape.Geometry)
	sh.SetPosition(x, y)
	sh.SetSize(cx, cy)

	if el.Shape.Fill != nil {
		sh.SetSolidFill(*el.Shape.Fill)
	}
	if el.Shape.BorderColor != nil {
		width := m.MapLength(el.Shape.BorderWidthPx)
		if width < pptx.Point(0.25) {
			width = pptx.Point(0.25)
		}
		sh.GetBorder().SetSolid(*el.Shape.BorderColor, width)
	}
	return sh
}

func synthesizeLine(el Element, x, y, cx, cy int64, m *Mapper) pptx.Shape {
	ln := pptx.NewLineShape()
	ln.SetPosition(x, y)
	ln.SetSize(cx, cy)

	if el.Shape.Fill != nil {
		ln.SetLineColor(*el.Shape.Fill)
	} else if el.Shape.BorderColor != nil {
		ln.SetLineColor(*el.Shape.BorderColor)
	}
	if el.Shape.BorderWidthPx > 0 {
		width := m.MapLength(el.Shape.BorderWidthPx)
		if width < pptx.Point(0.25) {
			width = pptx.Point(0.25)
		}
		ln.SetLineWidth(width)
	}
	return ln
}

func synthesizeImagePlaceholder(el Element, x, y, cx, cy int64) pptx.Shape {
	caption := el.Image.Description
	if caption == "" {
		caption = "image"
	}

	ph := pptx.NewAutoShape()
	ph.SetPosition(x, y)
	ph.SetSize(cx, cy)
	ph.SetSolidFill(placeholderFill)
	ph.GetBorder().SetSolid(placeholderBorder, pptx.Point(1))
	ph.SetDescription(el.Image.Description)
	ph.SetCaption("[" + caption + "]")
	ph.GetCaptionFont().
		SetSize(placeholderCaptionPoints).
		SetItalic(true).
		SetColor(pptx.ColorGray)
	ph.SetCaptionAlign(pptx.AlignCenter)
	ph.SetAnchor(pptx.AnchorMiddle)
	return ph
}
