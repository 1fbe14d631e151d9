package pptx

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// roundTrip writes the document to memory and reads the structural
// summary back.
func roundTrip(t *testing.T, d *Document) *PackageInfo {
	t.Helper()

	var buf bytes.Buffer
	if err := d.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	info, err := ReadFrom(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	return info
}

func TestNewDocumentDefaults(t *testing.T) {
	d := New()

	if d.GetSlideCount() != 1 {
		t.Errorf("expected 1 slide, got %d", d.GetSlideCount())
	}
	size := d.GetSlideSize()
	if size.CX != 9144000 || size.CY != 6858000 {
		t.Errorf("expected 4:3 default size, got %dx%d", size.CX, size.CY)
	}
	if _, err := d.GetSlide(0); err != nil {
		t.Errorf("GetSlide(0) failed: %v", err)
	}
	if _, err := d.GetSlide(1); err == nil {
		t.Error("GetSlide(1) should fail on a one-slide document")
	}
}

func TestSlideSizeLayouts(t *testing.T) {
	ss := NewSlideSize()
	ss.SetLayout(LayoutScreen16x9)
	if ss.CX != 12192000 || ss.CY != 6858000 {
		t.Errorf("16:9 layout: got %dx%d", ss.CX, ss.CY)
	}

	ss.SetLayout("bogus")
	if ss.Name != LayoutScreen16x9 {
		t.Errorf("unknown layout name should be ignored, got %q", ss.Name)
	}

	ss.SetCustom(Inch(10), Inch(5))
	if ss.CX != 9144000 || ss.CY != 4572000 {
		t.Errorf("custom size: got %dx%d", ss.CX, ss.CY)
	}
	ss.SetCustom(0, -5)
	if ss.CX != 9144000 || ss.CY != 6858000 {
		t.Errorf("non-positive custom size should fall back to 4:3, got %dx%d", ss.CX, ss.CY)
	}
}

func TestNewColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FF0000", "FFFF0000"},
		{"#ff0000", "FFFF0000"},
		{"80FF0000", "80FF0000"},
		{"", "FF000000"},
		{"XYZ123", "FF000000"},
		{"12345", "FF000000"},
	}
	for _, tt := range tests {
		got := NewColor(tt.in)
		if got.ARGB != tt.want {
			t.Errorf("NewColor(%q) = %q, want %q", tt.in, got.ARGB, tt.want)
		}
	}

	if NewColor("FF0000").RGB() != "FF0000" {
		t.Errorf("RGB() = %q, want FF0000", NewColor("FF0000").RGB())
	}
}

func TestMeasurementConversions(t *testing.T) {
	if Inch(1) != 914400 {
		t.Errorf("Inch(1) = %d", Inch(1))
	}
	if Point(1) != 12700 {
		t.Errorf("Point(1) = %d", Point(1))
	}
	if got := EMUToInch(914400); got != 1 {
		t.Errorf("EMUToInch(914400) = %g", got)
	}
	if got := EMUToPoint(25400); got != 2 {
		t.Errorf("EMUToPoint(25400) = %g", got)
	}
}

func TestRoundTripTextBox(t *testing.T) {
	d := New()
	slide, _ := d.GetSlide(0)

	tb := slide.CreateTextBox()
	tb.SetPosition(Inch(1), Inch(2))
	tb.SetSize(Inch(4), Inch(1))
	para := tb.CreateParagraph().SetAlignment(AlignCenter)
	run := para.CreateTextRun("Quarterly Review")
	run.GetFont().SetSize(32).SetBold(true).SetColor(NewColor("1F3864"))

	info := roundTrip(t, d)

	if info.SlideWidth != 9144000 || info.SlideHeight != 6858000 {
		t.Errorf("slide size = %dx%d", info.SlideWidth, info.SlideHeight)
	}
	if len(info.Slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(info.Slides))
	}
	shapes := info.Slides[0].Shapes
	if len(shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(shapes))
	}

	got := shapes[0]
	if got.Kind != ShapeKindTextBox {
		t.Errorf("kind = %v, want text box", got.Kind)
	}
	if got.X != Inch(1) || got.Y != Inch(2) {
		t.Errorf("position = %d,%d", got.X, got.Y)
	}
	if got.CX != Inch(4) || got.CY != Inch(1) {
		t.Errorf("extent = %dx%d", got.CX, got.CY)
	}
	if got.Text() != "Quarterly Review" {
		t.Errorf("text = %q", got.Text())
	}
}

func TestRoundTripShapesInOrder(t *testing.T) {
	d := New()
	slide, _ := d.GetSlide(0)

	rect := slide.CreateAutoShape()
	rect.SetPosition(0, 0)
	rect.SetSize(Inch(2), Inch(2))
	rect.SetSolidFill(NewColor("FF0000"))

	line := slide.CreateLineShape()
	line.SetPosition(Inch(1), Inch(3))
	line.SetSize(Inch(5), 0)
	line.SetLineColor(NewColor("333333"))
	line.SetLineWidth(Point(2))

	ellipse := slide.CreateAutoShape()
	ellipse.SetGeometry(GeomEllipse)
	ellipse.SetPosition(Inch(4), Inch(4))
	ellipse.SetSize(Inch(2), Inch(1))

	info := roundTrip(t, d)
	shapes := info.Slides[0].Shapes
	if len(shapes) != 3 {
		t.Fatalf("expected 3 shapes, got %d", len(shapes))
	}

	if shapes[0].Kind != ShapeKindAuto || shapes[0].Geometry != "rect" {
		t.Errorf("shape 0: kind=%v geometry=%q", shapes[0].Kind, shapes[0].Geometry)
	}
	if shapes[0].FillRGB != "FF0000" {
		t.Errorf("shape 0 fill = %q", shapes[0].FillRGB)
	}
	if shapes[1].Kind != ShapeKindLine || shapes[1].Geometry != "line" {
		t.Errorf("shape 1: kind=%v geometry=%q", shapes[1].Kind, shapes[1].Geometry)
	}
	if shapes[1].LineRGB != "333333" {
		t.Errorf("shape 1 line color = %q", shapes[1].LineRGB)
	}
	if shapes[2].Geometry != "ellipse" {
		t.Errorf("shape 2 geometry = %q", shapes[2].Geometry)
	}
}

func TestRoundTripBackgroundAndCaption(t *testing.T) {
	d := New()
	slide, _ := d.GetSlide(0)
	slide.SetBackground(NewFill().SetSolid(NewColor("F5F5F5")))

	ph := slide.CreateAutoShape()
	ph.SetPosition(Inch(1), Inch(1))
	ph.SetSize(Inch(3), Inch(2))
	ph.SetSolidFill(NewColor("EEEEEE"))
	ph.GetBorder().SetSolid(NewColor("CCCCCC"), Point(1))
	ph.SetCaption("[chart: revenue by region]")
	ph.GetCaptionFont().SetSize(12).SetItalic(true).SetColor(ColorGray)
	ph.SetAnchor(AnchorMiddle)

	info := roundTrip(t, d)

	if info.Slides[0].BackgroundRGB != "F5F5F5" {
		t.Errorf("background = %q", info.Slides[0].BackgroundRGB)
	}
	got := info.Slides[0].Shapes[0]
	if got.FillRGB != "EEEEEE" {
		t.Errorf("fill = %q", got.FillRGB)
	}
	if got.LineRGB != "CCCCCC" {
		t.Errorf("border = %q", got.LineRGB)
	}
	if got.Text() != "[chart: revenue by region]" {
		t.Errorf("caption = %q", got.Text())
	}
}

func TestEmptyTextBoxStillWrites(t *testing.T) {
	d := New()
	slide, _ := d.GetSlide(0)
	tb := slide.CreateTextBox()
	tb.SetPosition(0, 0)
	tb.SetSize(Inch(1), Inch(1))

	info := roundTrip(t, d)
	got := info.Slides[0].Shapes[0]
	if got.Text() != "" {
		t.Errorf("expected empty text, got %q", got.Text())
	}
}

func TestTextEscaping(t *testing.T) {
	d := New()
	slide, _ := d.GetSlide(0)
	tb := slide.CreateTextBox()
	tb.SetPosition(0, 0)
	tb.SetSize(Inch(4), Inch(1))

	const text = `R&D <forecast> "2026"`
	tb.CreateParagraph().CreateTextRun(text)

	info := roundTrip(t, d)
	if got := info.Slides[0].Shapes[0].Text(); got != text {
		t.Errorf("text = %q, want %q", got, text)
	}
}

func TestValidateCatchesBadGeometry(t *testing.T) {
	d := New()
	slide, _ := d.GetSlide(0)
	tb := slide.CreateTextBox()
	tb.SetPosition(-100, 0)
	tb.SetSize(Inch(1), Inch(1))

	var buf bytes.Buffer
	err := d.WriteTo(&buf)
	if err == nil {
		t.Fatal("expected validation error for negative offset")
	}
	if !strings.Contains(err.Error(), "negative offset") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	d := New()
	slide, _ := d.GetSlide(0)

	tb := slide.CreateTextBox()
	tb.SetPosition(-1, -1)
	tb.SetSize(-5, 0)

	line := slide.CreateLineShape()
	line.SetPosition(0, 0)
	line.SetSize(Inch(1), 0)
	line.SetLineWidth(0)

	err := d.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"negative offset", "negative extent", "line width"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error should mention %q:\n%s", want, msg)
		}
	}
}

func TestSaveCreatesDirectories(t *testing.T) {
	d := New()
	slide, _ := d.GetSlide(0)
	tb := slide.CreateTextBox()
	tb.SetPosition(0, 0)
	tb.SetSize(Inch(1), Inch(1))
	tb.CreateParagraph().CreateTextRun("hello")

	path := filepath.Join(t.TempDir(), "out", "deck.pptx")
	if err := d.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}

func TestPlainText(t *testing.T) {
	tb := NewTextBox()
	p1 := tb.CreateParagraph()
	p1.CreateTextRun("first ")
	p1.CreateTextRun("line")
	tb.CreateParagraph().CreateTextRun("second line")

	if got := tb.PlainText(); got != "first line\nsecond line" {
		t.Errorf("PlainText() = %q", got)
	}
}
