package convert

import "github.com/ShoheiSaito0429/slide-converter/pptx"

// Assemble builds a single-slide document of the given size (EMU) holding
// the synthesized shapes in stacking order (later shapes above earlier
// ones). A nil background yields the default solid white fill.
func Assemble(shapes []pptx.Shape, slideW, slideH int64, background *pptx.Color) *pptx.Document {
	doc := pptx.New()

	size := pptx.NewSlideSize()
	size.SetCustom(slideW, slideH)
	doc.SetSlideSize(size)

	slide, _ := doc.GetSlide(0)

	bg := pptx.ColorWhite
	if background != nil {
		bg = *background
	}
	slide.SetBackground(pptx.NewFill().SetSolid(bg))

	for _, sh := range shapes {
		slide.AddShape(sh)
	}
	return doc
}
