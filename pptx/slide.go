package pptx

// Slide represents one slide and its ordered shape list.
// Shape order is stacking order: later shapes render above earlier ones.
type Slide struct {
	shapes     []Shape
	background *Fill
}

func newSlide() *Slide {
	return &Slide{shapes: make([]Shape, 0)}
}

// AddShape appends a shape to the slide.
func (s *Slide) AddShape(shape Shape) {
	s.shapes = append(s.shapes, shape)
}

// CreateTextBox creates a text box, adds it to the slide and returns it.
func (s *Slide) CreateTextBox() *TextBox {
	tb := NewTextBox()
	s.shapes = append(s.shapes, tb)
	return tb
}

// CreateAutoShape creates an auto shape, adds it to the slide and returns it.
func (s *Slide) CreateAutoShape() *AutoShape {
	a := NewAutoShape()
	s.shapes = append(s.shapes, a)
	return a
}

// CreateLineShape creates a line shape, adds it to the slide and returns it.
func (s *Slide) CreateLineShape() *LineShape {
	l := NewLineShape()
	s.shapes = append(s.shapes, l)
	return l
}

// GetShapes returns all shapes in stacking order.
func (s *Slide) GetShapes() []Shape { return s.shapes }

// GetShapeCount returns the number of shapes on the slide.
func (s *Slide) GetShapeCount() int { return len(s.shapes) }

// SetBackground sets the slide background fill.
func (s *Slide) SetBackground(f *Fill) { s.background = f }

// GetBackground returns the slide background fill, or nil if none is set.
func (s *Slide) GetBackground() *Fill { return s.background }
