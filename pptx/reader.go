package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// PackageInfo is a structural summary of a written .pptx package. It is the
// read-side counterpart of the writer: enough to verify slide size, shape
// order, geometry and text without modeling the full OOXML surface.
type PackageInfo struct {
	SlideWidth  int64
	SlideHeight int64
	Slides      []*SlideInfo
}

// SlideInfo summarizes one slide part.
type SlideInfo struct {
	BackgroundRGB string // empty when the slide has no explicit background
	Shapes        []*ShapeInfo
}

// ShapeInfo summarizes one shape in document (stacking) order.
type ShapeInfo struct {
	Kind        ShapeKind
	Name        string
	Description string
	Geometry    string
	X, Y        int64
	CX, CY      int64
	FillRGB     string
	LineRGB     string
	Paragraphs  []string
}

// Text returns the shape's paragraphs joined by "\n".
func (s *ShapeInfo) Text() string {
	return strings.Join(s.Paragraphs, "\n")
}

// ReadFrom parses a .pptx package and returns its structural summary.
func ReadFrom(r io.ReaderAt, size int64) (*PackageInfo, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx package: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	pres, ok := files["ppt/presentation.xml"]
	if !ok {
		return nil, fmt.Errorf("package has no ppt/presentation.xml")
	}

	info := &PackageInfo{}
	if err := withZipFile(pres, func(rc io.Reader) error {
		w, h, err := parseSlideSize(rc)
		if err != nil {
			return err
		}
		info.SlideWidth, info.SlideHeight = w, h
		return nil
	}); err != nil {
		return nil, err
	}

	var slideNames []string
	for name := range files {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			slideNames = append(slideNames, name)
		}
	}
	sort.Slice(slideNames, func(i, j int) bool {
		return slideNumber(slideNames[i]) < slideNumber(slideNames[j])
	})

	for _, name := range slideNames {
		var slide *SlideInfo
		if err := withZipFile(files[name], func(rc io.Reader) error {
			var err error
			slide, err = parseSlidePart(rc)
			return err
		}); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		info.Slides = append(info.Slides, slide)
	}

	return info, nil
}

func withZipFile(f *zip.File, fn func(io.Reader) error) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()
	return fn(rc)
}

func slideNumber(name string) int {
	s := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	n, _ := strconv.Atoi(s)
	return n
}

func parseSlideSize(rc io.Reader) (int64, int64, error) {
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldSz" {
			continue
		}
		var cx, cy int64
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "cx":
				cx, _ = strconv.ParseInt(attr.Value, 10, 64)
			case "cy":
				cy, _ = strconv.ParseInt(attr.Value, 10, 64)
			}
		}
		return cx, cy, nil
	}
	return 0, 0, fmt.Errorf("presentation has no sldSz element")
}

// parseSlidePart walks a slide part's XML tokens, collecting shapes in
// document order. Only sp and cxnSp shape types are recognized; anything
// else in the shape tree is skipped.
func parseSlidePart(rc io.Reader) (*SlideInfo, error) {
	dec := xml.NewDecoder(rc)
	slide := &SlideInfo{}

	var stack []string
	var cur *ShapeInfo

	inStack := func(name string) bool {
		for _, s := range stack {
			if s == name {
				return true
			}
		}
		return false
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)

			switch t.Name.Local {
			case "sp":
				cur = &ShapeInfo{Kind: ShapeKindAuto}
				slide.Shapes = append(slide.Shapes, cur)
			case "cxnSp":
				cur = &ShapeInfo{Kind: ShapeKindLine}
				slide.Shapes = append(slide.Shapes, cur)
			case "cNvPr":
				if cur != nil {
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "name":
							cur.Name = attr.Value
						case "descr":
							cur.Description = attr.Value
						}
					}
				}
			case "cNvSpPr":
				if cur != nil {
					for _, attr := range t.Attr {
						if attr.Name.Local == "txBox" && attr.Value == "1" {
							cur.Kind = ShapeKindTextBox
						}
					}
				}
			case "off":
				if cur != nil && !inStack("grpSpPr") {
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "x":
							cur.X, _ = strconv.ParseInt(attr.Value, 10, 64)
						case "y":
							cur.Y, _ = strconv.ParseInt(attr.Value, 10, 64)
						}
					}
				}
			case "ext":
				if cur != nil && !inStack("grpSpPr") {
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "cx":
							cur.CX, _ = strconv.ParseInt(attr.Value, 10, 64)
						case "cy":
							cur.CY, _ = strconv.ParseInt(attr.Value, 10, 64)
						}
					}
				}
			case "prstGeom":
				if cur != nil {
					for _, attr := range t.Attr {
						if attr.Name.Local == "prst" {
							cur.Geometry = attr.Value
						}
					}
				}
			case "srgbClr":
				val := ""
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						val = attr.Value
					}
				}
				switch {
				case inStack("bgPr"):
					slide.BackgroundRGB = val
				case cur == nil:
					// master/layout colors, ignore
				case inStack("ln"):
					cur.LineRGB = val
				case inStack("rPr"):
					// run color, not tracked structurally
				case inStack("spPr"):
					cur.FillRGB = val
				}
			case "p":
				if cur != nil && inStack("txBody") {
					cur.Paragraphs = append(cur.Paragraphs, "")
				}
			}

		case xml.CharData:
			if cur != nil && len(stack) > 0 && stack[len(stack)-1] == "t" &&
				inStack("txBody") && len(cur.Paragraphs) > 0 {
				cur.Paragraphs[len(cur.Paragraphs)-1] += string(t)
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if t.Name.Local == "sp" || t.Name.Local == "cxnSp" {
				cur = nil
			}
		}
	}

	return slide, nil
}
