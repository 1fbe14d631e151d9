package pptx

import (
	"fmt"
	"strings"
)

// Validate checks the document for conditions that would produce a corrupt
// or unreadable package. All problems found are reported together.
func (d *Document) Validate() error {
	var problems []string

	if len(d.slides) == 0 {
		problems = append(problems, "document has no slides")
	}
	if d.size == nil {
		problems = append(problems, "document has no slide size")
	} else {
		if d.size.CX <= 0 || d.size.CY <= 0 {
			problems = append(problems, fmt.Sprintf("slide size must be positive, got %dx%d", d.size.CX, d.size.CY))
		}
		if d.size.CX > maxEMU || d.size.CY > maxEMU {
			problems = append(problems, fmt.Sprintf("slide size %dx%d exceeds the OOXML maximum", d.size.CX, d.size.CY))
		}
	}

	for si, slide := range d.slides {
		if slide == nil {
			problems = append(problems, fmt.Sprintf("slide %d is nil", si+1))
			continue
		}
		if bg := slide.GetBackground(); bg != nil && bg.Type == FillSolid && !isValidARGB(bg.Color.ARGB) {
			problems = append(problems, fmt.Sprintf("slide %d: invalid background color %q", si+1, bg.Color.ARGB))
		}
		for pi, shape := range slide.GetShapes() {
			if shape == nil {
				problems = append(problems, fmt.Sprintf("slide %d shape %d is nil", si+1, pi+1))
				continue
			}
			problems = append(problems, validateShape(si+1, pi+1, shape)...)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("document validation failed:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

func validateShape(slideNum, shapeNum int, shape Shape) []string {
	var problems []string
	where := fmt.Sprintf("slide %d shape %d (%s)", slideNum, shapeNum, shape.GetName())

	if shape.GetOffsetX() < 0 || shape.GetOffsetY() < 0 {
		problems = append(problems, fmt.Sprintf("%s: negative offset %d,%d", where, shape.GetOffsetX(), shape.GetOffsetY()))
	}
	if shape.GetWidth() < 0 || shape.GetHeight() < 0 {
		problems = append(problems, fmt.Sprintf("%s: negative extent %dx%d", where, shape.GetWidth(), shape.GetHeight()))
	}
	if shape.GetOffsetX() > maxEMU || shape.GetOffsetY() > maxEMU ||
		shape.GetWidth() > maxEMU || shape.GetHeight() > maxEMU {
		problems = append(problems, fmt.Sprintf("%s: geometry exceeds the OOXML coordinate maximum", where))
	}

	b := shape.base()
	if b.fill != nil && b.fill.Type == FillSolid && !isValidARGB(b.fill.Color.ARGB) {
		problems = append(problems, fmt.Sprintf("%s: invalid fill color %q", where, b.fill.Color.ARGB))
	}
	if b.border != nil && b.border.Style == BorderSolid {
		if !isValidARGB(b.border.Color.ARGB) {
			problems = append(problems, fmt.Sprintf("%s: invalid border color %q", where, b.border.Color.ARGB))
		}
		if b.border.Width < 0 {
			problems = append(problems, fmt.Sprintf("%s: negative border width %d", where, b.border.Width))
		}
	}

	switch s := shape.(type) {
	case *TextBox:
		for qi, para := range s.paragraphs {
			for ri, run := range para.runs {
				if run.font != nil {
					problems = append(problems, validateFont(where, qi+1, ri+1, run.font)...)
				}
			}
		}
	case *AutoShape:
		if s.geometry == "" {
			problems = append(problems, fmt.Sprintf("%s: auto shape has no geometry", where))
		}
		if s.caption != "" && s.captionFont != nil {
			problems = append(problems, validateFont(where, 1, 1, s.captionFont)...)
		}
	case *LineShape:
		if !isValidARGB(s.lineColor.ARGB) {
			problems = append(problems, fmt.Sprintf("%s: invalid line color %q", where, s.lineColor.ARGB))
		}
		if s.lineWidth <= 0 {
			problems = append(problems, fmt.Sprintf("%s: line width must be positive, got %d", where, s.lineWidth))
		}
	}

	return problems
}

func validateFont(where string, paraNum, runNum int, f *Font) []string {
	var problems []string
	if f.Size <= 0 || f.Size > 4000 {
		problems = append(problems, fmt.Sprintf("%s paragraph %d run %d: font size %d out of range", where, paraNum, runNum, f.Size))
	}
	if !isValidARGB(f.Color.ARGB) {
		problems = append(problems, fmt.Sprintf("%s paragraph %d run %d: invalid font color %q", where, paraNum, runNum, f.Color.ARGB))
	}
	return problems
}
