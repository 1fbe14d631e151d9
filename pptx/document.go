// Package pptx provides an in-memory presentation model and a writer for
// PowerPoint .pptx files following the Office Open XML (OOXML) standard.
//
// The model is deliberately small: it covers the shapes a slide-layout
// reconstruction produces (text boxes, preset-geometry shapes, lines) and
// emits a self-contained single-master package that standard readers open.
package pptx

import (
	"errors"
	"time"
)

// Document represents an in-memory presentation.
type Document struct {
	properties *Properties
	slides     []*Slide
	size       *SlideSize
}

// New creates a new Document with one blank slide and a 4:3 slide size.
func New() *Document {
	d := &Document{
		properties: NewProperties(),
		slides:     make([]*Slide, 0),
		size:       NewSlideSize(),
	}
	d.CreateSlide()
	return d
}

// GetProperties returns the document properties.
func (d *Document) GetProperties() *Properties { return d.properties }

// GetSlideSize returns the slide size.
func (d *Document) GetSlideSize() *SlideSize { return d.size }

// SetSlideSize sets the slide size.
func (d *Document) SetSlideSize(s *SlideSize) { d.size = s }

// CreateSlide creates a new slide and appends it to the document.
func (d *Document) CreateSlide() *Slide {
	slide := newSlide()
	d.slides = append(d.slides, slide)
	return slide
}

// GetSlide returns a slide by index.
func (d *Document) GetSlide(index int) (*Slide, error) {
	if index < 0 || index >= len(d.slides) {
		return nil, errors.New("slide index out of range")
	}
	return d.slides[index], nil
}

// GetAllSlides returns all slides.
func (d *Document) GetAllSlides() []*Slide { return d.slides }

// GetSlideCount returns the number of slides.
func (d *Document) GetSlideCount() int { return len(d.slides) }

// Properties holds standard document properties.
type Properties struct {
	Creator        string
	LastModifiedBy string
	Created        time.Time
	Modified       time.Time
	Title          string
	Description    string
	Company        string
}

// NewProperties creates document properties with defaults.
func NewProperties() *Properties {
	now := time.Now()
	return &Properties{
		Creator:        "slide-converter",
		LastModifiedBy: "slide-converter",
		Created:        now,
		Modified:       now,
	}
}

// SlideSize represents the slide dimensions in EMU.
type SlideSize struct {
	CX   int64
	CY   int64
	Name string
}

// Named slide size layouts.
const (
	LayoutScreen4x3  = "screen4x3"
	LayoutScreen16x9 = "screen16x9"
	LayoutCustom     = "custom"
)

// NewSlideSize creates a default 4:3 (10 x 7.5 inch) slide size.
func NewSlideSize() *SlideSize {
	return &SlideSize{CX: 9144000, CY: 6858000, Name: LayoutScreen4x3}
}

// SetLayout sets a predefined layout by name. Unknown names are ignored.
func (ss *SlideSize) SetLayout(name string) {
	switch name {
	case LayoutScreen4x3:
		ss.CX = 9144000
		ss.CY = 6858000
	case LayoutScreen16x9:
		ss.CX = 12192000
		ss.CY = 6858000
	default:
		return
	}
	ss.Name = name
}

// SetCustom sets custom dimensions in EMU. Non-positive values fall back to
// the 4:3 defaults.
func (ss *SlideSize) SetCustom(cx, cy int64) {
	if cx <= 0 {
		cx = 9144000
	}
	if cy <= 0 {
		cy = 6858000
	}
	ss.CX = cx
	ss.CY = cy
	ss.Name = LayoutCustom
}
