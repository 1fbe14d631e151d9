package pptx

// Shape is the interface that all slide shapes implement.
type Shape interface {
	GetKind() ShapeKind
	GetOffsetX() int64
	GetOffsetY() int64
	GetWidth() int64
	GetHeight() int64
	GetName() string
	// base returns the underlying BaseShape (unexported, internal use only).
	base() *BaseShape
}

// ShapeKind identifies the concrete shape type.
type ShapeKind int

const (
	ShapeKindTextBox ShapeKind = iota
	ShapeKindAuto
	ShapeKindLine
)

// BaseShape contains common shape properties.
type BaseShape struct {
	name        string
	description string
	offsetX     int64 // in EMU
	offsetY     int64 // in EMU
	width       int64 // in EMU
	height      int64 // in EMU
	fill        *Fill
	border      *Border
}

func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetName() string   { return b.name }
func (b *BaseShape) base() *BaseShape  { return b }

func (b *BaseShape) SetName(n string) *BaseShape { b.name = n; return b }

// SetPosition sets both offset X and Y in EMU.
func (b *BaseShape) SetPosition(x, y int64) *BaseShape {
	b.offsetX = x
	b.offsetY = y
	return b
}

// SetSize sets both width and height in EMU.
func (b *BaseShape) SetSize(w, h int64) *BaseShape {
	b.width = w
	b.height = h
	return b
}

func (b *BaseShape) GetDescription() string  { return b.description }
func (b *BaseShape) SetDescription(d string) { b.description = d }

func (b *BaseShape) GetFill() *Fill {
	if b.fill == nil {
		b.fill = NewFill()
	}
	return b.fill
}

func (b *BaseShape) SetFill(f *Fill) { b.fill = f }

func (b *BaseShape) GetBorder() *Border {
	if b.border == nil {
		b.border = NewBorder()
	}
	return b.border
}

func (b *BaseShape) SetBorder(border *Border) { b.border = border }

// TextBox represents a text-box shape holding one or more paragraphs.
type TextBox struct {
	BaseShape
	paragraphs []*Paragraph
	wordWrap   bool
	anchor     TextAnchor
}

// TextAnchor represents the vertical anchoring of text within a shape.
type TextAnchor string

const (
	AnchorTop    TextAnchor = "t"
	AnchorMiddle TextAnchor = "ctr"
	AnchorNone   TextAnchor = ""
)

func (t *TextBox) GetKind() ShapeKind { return ShapeKindTextBox }

// NewTextBox creates a new empty text box with word wrap enabled.
func NewTextBox() *TextBox {
	return &TextBox{wordWrap: true}
}

// CreateParagraph appends a new paragraph and returns it.
func (t *TextBox) CreateParagraph() *Paragraph {
	p := NewParagraph()
	t.paragraphs = append(t.paragraphs, p)
	return p
}

// GetParagraphs returns all paragraphs.
func (t *TextBox) GetParagraphs() []*Paragraph { return t.paragraphs }

// SetWordWrap controls word wrapping.
func (t *TextBox) SetWordWrap(wrap bool) { t.wordWrap = wrap }

// GetWordWrap returns the word wrap setting.
func (t *TextBox) GetWordWrap() bool { return t.wordWrap }

// SetAnchor sets the vertical text anchor.
func (t *TextBox) SetAnchor(a TextAnchor) { t.anchor = a }

// GetAnchor returns the vertical text anchor.
func (t *TextBox) GetAnchor() TextAnchor { return t.anchor }

// PlainText returns the concatenated text of all paragraphs, joined by "\n".
func (t *TextBox) PlainText() string {
	out := ""
	for i, p := range t.paragraphs {
		if i > 0 {
			out += "\n"
		}
		for _, r := range p.runs {
			out += r.text
		}
	}
	return out
}

// Paragraph represents one text paragraph.
type Paragraph struct {
	runs      []*TextRun
	alignment HorizontalAlignment
}

// NewParagraph creates a new left-aligned paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{alignment: AlignLeft}
}

// SetAlignment sets the horizontal alignment.
func (p *Paragraph) SetAlignment(a HorizontalAlignment) *Paragraph {
	p.alignment = a
	return p
}

// GetAlignment returns the horizontal alignment.
func (p *Paragraph) GetAlignment() HorizontalAlignment { return p.alignment }

// CreateTextRun appends a run with the given text and a default font.
func (p *Paragraph) CreateTextRun(text string) *TextRun {
	tr := &TextRun{text: text, font: NewFont()}
	p.runs = append(p.runs, tr)
	return tr
}

// GetRuns returns all runs.
func (p *Paragraph) GetRuns() []*TextRun { return p.runs }

// TextRun represents a run of text with uniform formatting.
type TextRun struct {
	text string
	font *Font
}

// GetText returns the text content.
func (tr *TextRun) GetText() string { return tr.text }

// SetText sets the text content.
func (tr *TextRun) SetText(text string) { tr.text = text }

// GetFont returns the font properties.
func (tr *TextRun) GetFont() *Font { return tr.font }

// AutoShape represents a preset-geometry shape (rectangle, ellipse, ...).
// It may carry a single styled caption paragraph, used for placeholders.
type AutoShape struct {
	BaseShape
	geometry     Geometry
	caption      string
	captionFont  *Font
	captionAlign HorizontalAlignment
	anchor       TextAnchor
}

// Geometry is an OOXML preset geometry name.
type Geometry string

const (
	GeomRectangle   Geometry = "rect"
	GeomRoundedRect Geometry = "roundRect"
	GeomEllipse     Geometry = "ellipse"
)

func (a *AutoShape) GetKind() ShapeKind { return ShapeKindAuto }

// NewAutoShape creates a new rectangle auto shape.
func NewAutoShape() *AutoShape {
	return &AutoShape{geometry: GeomRectangle, captionAlign: AlignCenter}
}

// SetGeometry sets the preset geometry.
func (a *AutoShape) SetGeometry(g Geometry) *AutoShape {
	a.geometry = g
	return a
}

// GetGeometry returns the preset geometry.
func (a *AutoShape) GetGeometry() Geometry { return a.geometry }

// SetSolidFill sets a solid fill on the shape.
func (a *AutoShape) SetSolidFill(c Color) *AutoShape {
	a.GetFill().SetSolid(c)
	return a
}

// SetCaption sets caption text rendered inside the shape.
func (a *AutoShape) SetCaption(text string) *AutoShape {
	a.caption = text
	return a
}

// GetCaption returns the caption text.
func (a *AutoShape) GetCaption() string { return a.caption }

// GetCaptionFont returns the caption font, creating a default one on demand.
func (a *AutoShape) GetCaptionFont() *Font {
	if a.captionFont == nil {
		a.captionFont = NewFont()
	}
	return a.captionFont
}

// SetCaptionAlign sets the caption alignment.
func (a *AutoShape) SetCaptionAlign(al HorizontalAlignment) *AutoShape {
	a.captionAlign = al
	return a
}

// SetAnchor sets the vertical anchor of the caption text.
func (a *AutoShape) SetAnchor(an TextAnchor) *AutoShape {
	a.anchor = an
	return a
}

// LineShape represents a straight connector.
type LineShape struct {
	BaseShape
	lineColor Color
	lineWidth int64 // in EMU
}

func (l *LineShape) GetKind() ShapeKind { return ShapeKindLine }

// NewLineShape creates a new 1pt black line.
func NewLineShape() *LineShape {
	return &LineShape{
		lineColor: ColorBlack,
		lineWidth: Point(1),
	}
}

// SetLineColor sets the line color.
func (l *LineShape) SetLineColor(c Color) *LineShape {
	l.lineColor = c
	return l
}

// GetLineColor returns the line color.
func (l *LineShape) GetLineColor() Color { return l.lineColor }

// SetLineWidth sets the line width in EMU.
func (l *LineShape) SetLineWidth(w int64) *LineShape {
	l.lineWidth = w
	return l
}

// GetLineWidth returns the line width in EMU.
func (l *LineShape) GetLineWidth() int64 { return l.lineWidth }
