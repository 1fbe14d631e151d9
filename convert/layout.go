package convert

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ShoheiSaito0429/slide-converter/pptx"
)

// ElementKind identifies the variant of a layout element. The set is
// closed: every consumer dispatches with an exhaustive switch.
type ElementKind int

const (
	KindText ElementKind = iota
	KindShape
	KindImage
)

func (k ElementKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindShape:
		return "shape"
	case KindImage:
		return "image"
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// Box is an element's bounding box in source pixel space.
type Box struct {
	X, Y float64
	W, H float64
}

// Area returns the box area in square pixels.
func (b Box) Area() float64 { return b.W * b.H }

// LayoutDescription is the validated, normalized form of a vision
// analysis result for one image. It lives for a single conversion call.
type LayoutDescription struct {
	ImageWidth  float64
	ImageHeight float64
	Background  *pptx.Color // nil means the default light background
	Elements    []Element
}

// Element is one validated layout element. Kind selects which of the
// attribute groups is meaningful.
type Element struct {
	Kind ElementKind
	Box  Box
	Z    int

	// Index is the element's position in the input list. Warnings refer
	// to elements by this index regardless of stacking order.
	Index int

	Text  TextAttrs
	Shape ShapeAttrs
	Image ImageAttrs
}

// TextAttrs carries text-element styling.
type TextAttrs struct {
	Content    string
	FontSizePx float64 // 0 means derive from box height
	Color      pptx.Color
	Align      pptx.HorizontalAlignment
	Bold       bool
	Italic     bool
	Background *pptx.Color
}

// ShapeAttrs carries geometric-element styling.
type ShapeAttrs struct {
	Geometry      pptx.Geometry
	Fill          *pptx.Color // nil means no fill
	BorderColor   *pptx.Color
	BorderWidthPx float64
}

// ImageAttrs carries image-region attributes. Image regions are rendered
// as captioned placeholders; the caption defaults to "image".
type ImageAttrs struct {
	Description string
}

// Raw wire structures for the analyzer's JSON contract.

type rawLayout struct {
	ImageWidth  *float64          `json:"image_width"`
	ImageHeight *float64          `json:"image_height"`
	Background  *rawBackground    `json:"background"`
	Elements    []json.RawMessage `json:"elements"`
}

type rawBackground struct {
	Color string `json:"color"`
}

type rawBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type rawElement struct {
	Kind string  `json:"kind"`
	Box  *rawBox `json:"box"`
	Z    *int    `json:"z"`

	Content         *string `json:"content"`
	FontSize        float64 `json:"font_size"`
	Color           string  `json:"color"`
	Align           string  `json:"align"`
	Bold            bool    `json:"bold"`
	Italic          bool    `json:"italic"`
	BackgroundColor string  `json:"background_color"`

	Geometry    string  `json:"geometry"`
	Fill        string  `json:"fill"`
	BorderColor string  `json:"border_color"`
	BorderWidth float64 `json:"border_width"`

	Description string `json:"description"`
}

// ParseLayout decodes and validates raw layout JSON. Top-level problems
// return a SchemaError. Per-element problems are tolerated: out-of-bounds
// boxes are clamped, malformed elements are counted as skipped, unknown
// kinds are dropped with a warning. Elements are returned in stacking
// order: input order, overridden by an explicit z value (stable sort).
func ParseLayout(raw []byte) (*LayoutDescription, int, []string, error) {
	var rl rawLayout
	if err := json.Unmarshal(raw, &rl); err != nil {
		return nil, 0, nil, schemaErrorf(err, "not a valid layout object")
	}

	if rl.ImageWidth == nil || rl.ImageHeight == nil {
		return nil, 0, nil, schemaErrorf(nil, "missing image_width or image_height")
	}
	if *rl.ImageWidth <= 0 || *rl.ImageHeight <= 0 {
		return nil, 0, nil, schemaErrorf(nil, "image dimensions must be positive, got %gx%g", *rl.ImageWidth, *rl.ImageHeight)
	}
	if rl.Elements == nil {
		return nil, 0, nil, schemaErrorf(nil, "missing elements list")
	}

	desc := &LayoutDescription{
		ImageWidth:  *rl.ImageWidth,
		ImageHeight: *rl.ImageHeight,
	}
	if rl.Background != nil && rl.Background.Color != "" {
		c := pptx.NewColor(rl.Background.Color)
		desc.Background = &c
	}

	var warnings []string
	skipped := 0

	for i, msg := range rl.Elements {
		var re rawElement
		if err := json.Unmarshal(msg, &re); err != nil {
			skipped++
			warnings = append(warnings, fmt.Sprintf("element %d: not a valid element object: %v", i, err))
			continue
		}
		el, warn, reason := validateElement(re, desc.ImageWidth, desc.ImageHeight)
		if warn != "" {
			warnings = append(warnings, fmt.Sprintf("element %d: %s", i, warn))
		}
		switch reason {
		case dropMalformed:
			skipped++
			continue
		case dropUnknownKind:
			continue
		}
		el.Index = i
		desc.Elements = append(desc.Elements, el)
	}

	sort.SliceStable(desc.Elements, func(i, j int) bool {
		return desc.Elements[i].Z < desc.Elements[j].Z
	})

	return desc, skipped, warnings, nil
}

// dropReason explains why a raw element was excluded from the layout.
// Malformed elements count toward the caller-visible skip total; unknown
// kinds are dropped with a warning only.
type dropReason int

const (
	dropNone dropReason = iota
	dropMalformed
	dropUnknownKind
)

// validateElement normalizes one raw element.
func validateElement(re rawElement, imgW, imgH float64) (Element, string, dropReason) {
	var el Element

	switch strings.ToLower(strings.TrimSpace(re.Kind)) {
	case "text":
		el.Kind = KindText
	case "shape":
		el.Kind = KindShape
	case "image":
		el.Kind = KindImage
	default:
		return el, fmt.Sprintf("unknown kind %q dropped", re.Kind), dropUnknownKind
	}

	if re.Box == nil {
		return el, "missing box", dropMalformed
	}
	el.Box = clampBox(Box{X: re.Box.X, Y: re.Box.Y, W: re.Box.W, H: re.Box.H}, imgW, imgH)

	if re.Z != nil {
		el.Z = *re.Z
	}

	switch el.Kind {
	case KindText:
		if re.Content == nil {
			return el, "text element missing content", dropMalformed
		}
		el.Text = TextAttrs{
			Content:    strings.TrimSpace(*re.Content),
			FontSizePx: re.FontSize,
			Color:      pptx.NewColor(re.Color),
			Align:      parseAlign(re.Align),
			Bold:       re.Bold,
			Italic:     re.Italic,
		}
		if el.Text.FontSizePx < 0 {
			el.Text.FontSizePx = 0
		}
		if re.BackgroundColor != "" && !strings.EqualFold(re.BackgroundColor, "none") {
			c := pptx.NewColor(re.BackgroundColor)
			el.Text.Background = &c
		}

	case KindShape:
		el.Shape = ShapeAttrs{Geometry: parseGeometry(re.Geometry)}
		if re.Fill != "" && !strings.EqualFold(re.Fill, "none") {
			c := pptx.NewColor(re.Fill)
			el.Shape.Fill = &c
		}
		if re.BorderColor != "" {
			c := pptx.NewColor(re.BorderColor)
			el.Shape.BorderColor = &c
			el.Shape.BorderWidthPx = re.BorderWidth
			if el.Shape.BorderWidthPx <= 0 {
				el.Shape.BorderWidthPx = 1
			}
		}

	case KindImage:
		el.Image = ImageAttrs{Description: strings.TrimSpace(re.Description)}
	}

	return el, "", dropNone
}

// clampBox clamps a box into [0, imgW] x [0, imgH], tolerating analyzer
// rounding noise. A box entirely outside the image collapses to zero area
// at the nearest edge.
func clampBox(b Box, imgW, imgH float64) Box {
	if b.X < 0 {
		b.W += b.X
		b.X = 0
	}
	if b.Y < 0 {
		b.H += b.Y
		b.Y = 0
	}
	if b.X > imgW {
		b.X = imgW
	}
	if b.Y > imgH {
		b.Y = imgH
	}
	if b.W < 0 {
		b.W = 0
	}
	if b.H < 0 {
		b.H = 0
	}
	if b.X+b.W > imgW {
		b.W = imgW - b.X
	}
	if b.Y+b.H > imgH {
		b.H = imgH - b.Y
	}
	return b
}

func parseAlign(s string) pptx.HorizontalAlignment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "centre":
		return pptx.AlignCenter
	case "right":
		return pptx.AlignRight
	default:
		return pptx.AlignLeft
	}
}

// parseGeometry maps analyzer geometry names to preset geometries.
// Unsupported names fall back to a rectangle.
func parseGeometry(s string) pptx.Geometry {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ellipse", "circle", "oval":
		return pptx.GeomEllipse
	case "rounded_rectangle", "roundrect":
		return pptx.GeomRoundedRect
	case "line":
		return geomLine
	default:
		return pptx.GeomRectangle
	}
}

// geomLine is a sentinel handled by the synthesizer, which emits a
// connector shape rather than a preset-geometry auto shape.
const geomLine pptx.Geometry = "line"
