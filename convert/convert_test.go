package convert

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ShoheiSaito0429/slide-converter/pptx"
)

// convertAndRead runs the pipeline and parses the emitted package back
// into its structural summary.
func convertAndRead(t *testing.T, raw string, opts Options) (*Result, *pptx.PackageInfo) {
	t.Helper()

	res, err := Convert([]byte(raw), opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	info, err := pptx.ReadFrom(bytes.NewReader(res.PPTX), int64(len(res.PPTX)))
	if err != nil {
		t.Fatalf("emitted package is not readable: %v", err)
	}
	return res, info
}

func TestConvertTitleAndRectangle(t *testing.T) {
	const raw = `{
		"image_width": 800, "image_height": 600,
		"elements": [
			{"kind":"text","box":{"x":50,"y":50,"w":300,"h":60},"content":"Title"},
			{"kind":"shape","box":{"x":50,"y":150,"w":200,"h":100},"geometry":"rectangle","fill":"#FF0000"}
		]
	}`

	res, info := convertAndRead(t, raw, Options{SlideWidth: SlideWidth4x3})

	if res.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", res.Skipped)
	}
	if len(info.Slides) != 1 {
		t.Fatalf("slide count = %d, want 1", len(info.Slides))
	}
	shapes := info.Slides[0].Shapes
	if len(shapes) != 2 {
		t.Fatalf("shape count = %d, want 2", len(shapes))
	}

	title := shapes[0]
	if title.Kind != pptx.ShapeKindTextBox {
		t.Errorf("first shape kind = %v, want text box", title.Kind)
	}
	if title.Text() != "Title" {
		t.Errorf("title text = %q", title.Text())
	}

	rect := shapes[1]
	if rect.Geometry != "rect" {
		t.Errorf("second shape geometry = %q", rect.Geometry)
	}
	if rect.FillRGB != "FF0000" {
		t.Errorf("rect fill = %q", rect.FillRGB)
	}

	// 800x600 maps onto a 10x7.5in slide exactly (both 4:3), scale
	// 11430 EMU/px with no centering offset.
	const s = 9144000.0 / 800.0
	wantX, wantY := int64(50*s), int64(150*s)
	if rect.X != wantX || rect.Y != wantY {
		t.Errorf("rect at %d,%d, want %d,%d", rect.X, rect.Y, wantX, wantY)
	}
	if title.Y >= rect.Y {
		t.Error("title should sit above the rectangle")
	}
	// Both shapes scale by the same factor.
	if got, want := float64(rect.CX)/200, float64(title.CX)/300; math.Abs(got-want) > 1 {
		t.Errorf("scale differs between shapes: %g vs %g", got, want)
	}
}

func TestConvertZeroWidthImageSkipped(t *testing.T) {
	const raw = `{
		"image_width": 800, "image_height": 600,
		"elements": [
			{"kind":"image","box":{"x":10,"y":10,"w":0,"h":100}},
			{"kind":"text","box":{"x":50,"y":50,"w":300,"h":60},"content":"Survivor"}
		]
	}`

	res, info := convertAndRead(t, raw, Options{})

	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
	shapes := info.Slides[0].Shapes
	if len(shapes) != 1 {
		t.Fatalf("shape count = %d, want 1", len(shapes))
	}
	if shapes[0].Text() != "Survivor" {
		t.Errorf("surviving shape text = %q", shapes[0].Text())
	}
}

func TestConvertMissingContentSkipped(t *testing.T) {
	const raw = `{
		"image_width": 400, "image_height": 300,
		"elements": [
			{"kind":"text","box":{"x":0,"y":0,"w":100,"h":40}},
			{"kind":"text","box":{"x":0,"y":50,"w":100,"h":40},"content":"ok"},
			{"kind":"text","box":{"x":0,"y":100,"w":100,"h":40}}
		]
	}`

	res, info := convertAndRead(t, raw, Options{})

	if res.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", res.Skipped)
	}
	if got := len(info.Slides[0].Shapes); got != 1 {
		t.Errorf("shape count = %d, want 1", got)
	}
}

func TestConvertWrongTypedElementSkipped(t *testing.T) {
	const raw = `{
		"image_width": 400, "image_height": 300,
		"elements": [
			{"kind":"text","box":{"x":"50","y":0,"w":100,"h":40},"content":"bad box"},
			7,
			{"kind":"text","box":{"x":0,"y":50,"w":100,"h":40},"content":"ok"}
		]
	}`

	res, info := convertAndRead(t, raw, Options{})

	if res.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", res.Skipped)
	}
	shapes := info.Slides[0].Shapes
	if len(shapes) != 1 {
		t.Fatalf("shape count = %d, want 1", len(shapes))
	}
	if shapes[0].Text() != "ok" {
		t.Errorf("surviving shape text = %q", shapes[0].Text())
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("warnings = %v, want 2 entries", res.Warnings)
	}
	for i, want := range []string{"element 0:", "element 1:"} {
		if !strings.HasPrefix(res.Warnings[i], want) {
			t.Errorf("warning %d = %q, want prefix %q", i, res.Warnings[i], want)
		}
	}
}

func TestConvertBlankContentKeepsBox(t *testing.T) {
	const raw = `{
		"image_width": 400, "image_height": 300,
		"elements": [
			{"kind":"text","box":{"x":0,"y":0,"w":100,"h":40},"content":"   "}
		]
	}`

	res, info := convertAndRead(t, raw, Options{})

	if res.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", res.Skipped)
	}
	shapes := info.Slides[0].Shapes
	if len(shapes) != 1 {
		t.Fatalf("shape count = %d, want 1", len(shapes))
	}
	if shapes[0].Text() != "" {
		t.Errorf("blank content should produce a text-free box, got %q", shapes[0].Text())
	}
}

func TestConvertUnknownKindDroppedWithWarning(t *testing.T) {
	const raw = `{
		"image_width": 400, "image_height": 300,
		"elements": [
			{"kind":"table","box":{"x":0,"y":0,"w":100,"h":40}},
			{"kind":"shape","box":{"x":0,"y":50,"w":100,"h":40},"geometry":"ellipse","fill":"00FF00"}
		]
	}`

	res, info := convertAndRead(t, raw, Options{})

	if res.Skipped != 0 {
		t.Errorf("unknown kind must not count as skipped, got %d", res.Skipped)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "table") {
		t.Errorf("expected an unknown-kind warning, got %v", res.Warnings)
	}
	if got := len(info.Slides[0].Shapes); got != 1 {
		t.Errorf("shape count = %d, want 1", got)
	}
	if info.Slides[0].Shapes[0].Geometry != "ellipse" {
		t.Errorf("geometry = %q", info.Slides[0].Shapes[0].Geometry)
	}
}

func TestConvertStackingOrderDeterministic(t *testing.T) {
	const raw = `{
		"image_width": 800, "image_height": 600,
		"elements": [
			{"kind":"shape","box":{"x":0,"y":0,"w":100,"h":100},"geometry":"rectangle","fill":"111111"},
			{"kind":"shape","box":{"x":10,"y":10,"w":100,"h":100},"geometry":"ellipse","fill":"222222"},
			{"kind":"text","box":{"x":20,"y":20,"w":100,"h":40},"content":"top"}
		]
	}`

	_, first := convertAndRead(t, raw, Options{})
	_, second := convertAndRead(t, raw, Options{})

	a, b := first.Slides[0].Shapes, second.Slides[0].Shapes
	if len(a) != len(b) {
		t.Fatalf("shape counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Geometry != b[i].Geometry || a[i].FillRGB != b[i].FillRGB {
			t.Errorf("shape %d differs between runs", i)
		}
	}
	if a[0].FillRGB != "111111" || a[1].FillRGB != "222222" || a[2].Kind != pptx.ShapeKindTextBox {
		t.Error("stacking order does not follow input order")
	}
}

func TestConvertZOrderOverride(t *testing.T) {
	const raw = `{
		"image_width": 800, "image_height": 600,
		"elements": [
			{"kind":"shape","box":{"x":0,"y":0,"w":100,"h":100},"geometry":"rectangle","fill":"AAAAAA","z":5},
			{"kind":"shape","box":{"x":10,"y":10,"w":100,"h":100},"geometry":"rectangle","fill":"BBBBBB"},
			{"kind":"shape","box":{"x":20,"y":20,"w":100,"h":100},"geometry":"rectangle","fill":"CCCCCC","z":5}
		]
	}`

	_, info := convertAndRead(t, raw, Options{})

	fills := []string{}
	for _, s := range info.Slides[0].Shapes {
		fills = append(fills, s.FillRGB)
	}
	// z=0 element first; equal z keeps input order (stable sort).
	want := []string{"BBBBBB", "AAAAAA", "CCCCCC"}
	for i := range want {
		if fills[i] != want[i] {
			t.Fatalf("stacking = %v, want %v", fills, want)
		}
	}
}

func TestConvertBackgroundDefaultsAndOverride(t *testing.T) {
	const plain = `{"image_width":100,"image_height":100,"elements":[]}`
	_, info := convertAndRead(t, plain, Options{})
	if got := info.Slides[0].BackgroundRGB; got != "FFFFFF" {
		t.Errorf("default background = %q, want FFFFFF", got)
	}

	const tinted = `{"image_width":100,"image_height":100,"background":{"color":"1A2B3C"},"elements":[]}`
	_, info = convertAndRead(t, tinted, Options{})
	if got := info.Slides[0].BackgroundRGB; got != "1A2B3C" {
		t.Errorf("background = %q, want 1A2B3C", got)
	}
}

func TestConvertImagePlaceholderStyling(t *testing.T) {
	const raw = `{
		"image_width": 800, "image_height": 600,
		"elements": [
			{"kind":"image","box":{"x":100,"y":100,"w":300,"h":200},"description":"bar chart"}
		]
	}`

	_, info := convertAndRead(t, raw, Options{})

	ph := info.Slides[0].Shapes[0]
	if ph.FillRGB != "EEEEEE" {
		t.Errorf("placeholder fill = %q", ph.FillRGB)
	}
	if ph.LineRGB != "CCCCCC" {
		t.Errorf("placeholder border = %q", ph.LineRGB)
	}
	if ph.Text() != "[bar chart]" {
		t.Errorf("placeholder caption = %q", ph.Text())
	}
}

func TestConvertLineShape(t *testing.T) {
	const raw = `{
		"image_width": 800, "image_height": 600,
		"elements": [
			{"kind":"shape","box":{"x":100,"y":300,"w":600,"h":0},"geometry":"line","fill":"444444","border_width":2}
		]
	}`

	res, info := convertAndRead(t, raw, Options{})

	if res.Skipped != 0 {
		t.Errorf("horizontal line must not be skipped, got skipped = %d", res.Skipped)
	}
	ln := info.Slides[0].Shapes[0]
	if ln.Kind != pptx.ShapeKindLine || ln.Geometry != "line" {
		t.Errorf("kind=%v geometry=%q", ln.Kind, ln.Geometry)
	}
	if ln.LineRGB != "444444" {
		t.Errorf("line color = %q", ln.LineRGB)
	}
}

func TestConvertWarningIndexFollowsInputOrder(t *testing.T) {
	// The zero-area image sorts before the text via z, but its skip
	// warning still names its position in the input list.
	const raw = `{
		"image_width": 400, "image_height": 300,
		"elements": [
			{"kind":"text","box":{"x":0,"y":0,"w":100,"h":40},"content":"ok","z":5},
			{"kind":"image","box":{"x":10,"y":10,"w":0,"h":100},"z":0}
		]
	}`

	res, _ := convertAndRead(t, raw, Options{})

	if res.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", res.Skipped)
	}
	if len(res.Warnings) != 1 || !strings.HasPrefix(res.Warnings[0], "element 1:") {
		t.Errorf("warnings = %v, want one entry for element 1", res.Warnings)
	}
}

func TestConvertSerializationFailureReportsProcessed(t *testing.T) {
	const raw = `{
		"image_width": 800, "image_height": 600,
		"elements": [
			{"kind":"text","box":{"x":0,"y":0,"w":100,"h":40},"content":"a"},
			{"kind":"text","box":{"x":0,"y":50,"w":100,"h":40},"content":"b"}
		]
	}`

	// A slide width past the coordinate maximum fails document
	// validation at emission time.
	_, err := Convert([]byte(raw), Options{SlideWidth: math.MaxInt64/2 + 1})
	if err == nil {
		t.Fatal("expected a SerializationError")
	}
	var se *SerializationError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *SerializationError", err)
	}
	if se.Processed != 2 {
		t.Errorf("processed = %d, want 2", se.Processed)
	}
}

func TestSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"missing dimensions", `{"elements":[]}`},
		{"non-positive width", `{"image_width":0,"image_height":600,"elements":[]}`},
		{"elements not a list", `{"image_width":800,"image_height":600,"elements":7}`},
		{"missing elements", `{"image_width":800,"image_height":600}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert([]byte(tt.raw), Options{})
			if err == nil {
				t.Fatal("expected a SchemaError")
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Errorf("error type = %T, want *SchemaError", err)
			}
		})
	}
}

func TestClampBox(t *testing.T) {
	tests := []struct {
		name string
		in   Box
		want Box
	}{
		{"inside", Box{10, 10, 50, 50}, Box{10, 10, 50, 50}},
		{"negative origin", Box{-20, -10, 100, 100}, Box{0, 0, 80, 90}},
		{"overhangs right", Box{150, 0, 100, 50}, Box{150, 0, 50, 50}},
		{"fully outside", Box{300, 300, 50, 50}, Box{200, 200, 0, 0}},
		{"negative extent", Box{10, 10, -5, -5}, Box{10, 10, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampBox(tt.in, 200, 200); got != tt.want {
				t.Errorf("clampBox(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapperIdentity(t *testing.T) {
	// Slide dimensions equal to image dimensions: the mapping is exact.
	m := NewMapper(800, 600, 800, 600)
	x, y, cx, cy := m.MapBox(Box{X: 50, Y: 60, W: 300, H: 200})
	if x != 50 || y != 60 || cx != 300 || cy != 200 {
		t.Errorf("identity mapping got %d,%d %dx%d", x, y, cx, cy)
	}
}

func TestMapperAspectRatioAndCentering(t *testing.T) {
	tests := []struct {
		name         string
		imgW, imgH   float64
		slideW       int64
		slideH       int64
		touchesWidth bool // whether the mapped image spans the full slide width
	}{
		{"wide image on 4:3", 1600, 600, SlideWidth4x3, SlideHeight, true},
		{"tall image on 16:9", 600, 1200, SlideWidth16x9, SlideHeight, false},
		{"matching ratio", 800, 600, SlideWidth4x3, SlideHeight, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapper(tt.imgW, tt.imgH, tt.slideW, tt.slideH)
			x, y, cx, cy := m.MapBox(Box{X: 0, Y: 0, W: tt.imgW, H: tt.imgH})

			if x < 0 || y < 0 || x+cx > tt.slideW || y+cy > tt.slideH {
				t.Errorf("mapped image %d,%d %dx%d exceeds slide %dx%d", x, y, cx, cy, tt.slideW, tt.slideH)
			}
			if tt.touchesWidth {
				if cx < tt.slideW-1 {
					t.Errorf("image should span slide width, cx = %d of %d", cx, tt.slideW)
				}
			} else {
				if cy < tt.slideH-1 {
					t.Errorf("image should span slide height, cy = %d of %d", cy, tt.slideH)
				}
			}
			// Centering: equal margins on the free axis.
			if gotL, gotR := x, tt.slideW-(x+cx); absInt64(gotL-gotR) > 1 {
				t.Errorf("horizontal margins %d vs %d", gotL, gotR)
			}
			if gotT, gotB := y, tt.slideH-(y+cy); absInt64(gotT-gotB) > 1 {
				t.Errorf("vertical margins %d vs %d", gotT, gotB)
			}
		})
	}
}

func TestFontPoints(t *testing.T) {
	m := NewMapper(800, 600, SlideWidth4x3, SlideHeight)

	// 24px hint at scale 11430 EMU/px is 21.6pt.
	if got := m.FontPoints(24, 0); got != 22 {
		t.Errorf("hint-derived size = %d, want 22", got)
	}
	// No hint: half the box height, 60px box is ~685800 EMU = 54pt, half = 27pt.
	if got := m.FontPoints(0, m.MapLength(60)); got != 27 {
		t.Errorf("height-derived size = %d, want 27", got)
	}
	// Clamped at both ends.
	if got := m.FontPoints(1, 0); got != minFontPoints {
		t.Errorf("tiny hint = %d, want %d", got, minFontPoints)
	}
	if got := m.FontPoints(500, 0); got != maxFontPoints {
		t.Errorf("huge hint = %d, want %d", got, maxFontPoints)
	}
}

func TestParseGeometryFallback(t *testing.T) {
	tests := []struct {
		in   string
		want pptx.Geometry
	}{
		{"rectangle", pptx.GeomRectangle},
		{"ellipse", pptx.GeomEllipse},
		{"circle", pptx.GeomEllipse},
		{"rounded_rectangle", pptx.GeomRoundedRect},
		{"hexagon", pptx.GeomRectangle},
		{"", pptx.GeomRectangle},
	}
	for _, tt := range tests {
		if got := parseGeometry(tt.in); got != tt.want {
			t.Errorf("parseGeometry(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
