// Package convert turns a vision analyzer's structured layout description
// of a slide image into an editable single-slide .pptx document.
//
// The pipeline is a pure, request-local computation with no I/O: validate
// and normalize the untrusted layout JSON, map pixel geometry into slide
// EMU space with a uniform centering transform, synthesize one slide shape
// per element, assemble a single-slide document and serialize it. Element
// level problems are tolerated (clamp, skip and count, or drop with a
// warning); top-level and serialization problems fail the whole request.
package convert

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ShoheiSaito0429/slide-converter/pptx"
)

// Slide dimensions in EMU for the supported layouts.
const (
	SlideWidth16x9 = 12192000 // 13.333 in
	SlideWidth4x3  = 9144000  // 10 in
	SlideHeight    = 6858000  // 7.5 in
)

// Options configures a conversion. The zero value produces a 16:9 slide.
type Options struct {
	SlideWidth  int64 // EMU; 0 means 16:9 default
	SlideHeight int64 // EMU; 0 means 7.5 inches
}

func (o Options) withDefaults() Options {
	if o.SlideWidth <= 0 {
		o.SlideWidth = SlideWidth16x9
	}
	if o.SlideHeight <= 0 {
		o.SlideHeight = SlideHeight
	}
	return o
}

// Result is the outcome of a successful conversion.
type Result struct {
	PPTX     []byte
	Filename string
	Skipped  int
	Warnings []string
}

// Convert runs the full pipeline on raw layout JSON. It returns a
// SchemaError when the top-level input is unusable and a
// SerializationError when the assembled document cannot be encoded.
func Convert(raw []byte, opts Options) (*Result, error) {
	desc, skipped, warnings, err := ParseLayout(raw)
	if err != nil {
		return nil, err
	}
	res, err := ConvertDescription(desc, opts)
	if err != nil {
		return nil, err
	}
	res.Skipped += skipped
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// ConvertDescription runs the mapping, synthesis, assembly and emission
// stages on an already validated layout.
func ConvertDescription(desc *LayoutDescription, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	res := &Result{
		Filename: fmt.Sprintf("slide_%dx%d.pptx", int(desc.ImageWidth), int(desc.ImageHeight)),
	}

	m := NewMapper(desc.ImageWidth, desc.ImageHeight, opts.SlideWidth, opts.SlideHeight)

	shapes := make([]pptx.Shape, 0, len(desc.Elements))
	for _, el := range desc.Elements {
		sh, err := Synthesize(el, m)
		if err != nil {
			if errors.Is(err, errSkipElement) {
				res.Skipped++
				res.Warnings = append(res.Warnings, fmt.Sprintf("element %d: %v", el.Index, err))
				continue
			}
			return nil, err
		}
		shapes = append(shapes, sh)
	}

	doc := Assemble(shapes, opts.SlideWidth, opts.SlideHeight, desc.Background)

	var buf bytes.Buffer
	if err := doc.WriteTo(&buf); err != nil {
		return nil, &SerializationError{Processed: len(shapes), Err: err}
	}
	res.PPTX = buf.Bytes()
	return res, nil
}
