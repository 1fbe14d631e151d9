package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteTo serializes the document as a .pptx package to w.
func (d *Document) WriteTo(w io.Writer) error {
	pw := &pptxWriter{document: d}
	return pw.writeTo(w)
}

// Save writes the document to a .pptx file at path, creating parent
// directories as needed.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := d.WriteTo(f)
	closeErr := f.Close()

	if writeErr != nil {
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

// pptxWriter writes a document in PPTX format.
type pptxWriter struct {
	document *Document
}

func (w *pptxWriter) writeTo(writer io.Writer) error {
	if w.document == nil {
		return fmt.Errorf("document is nil")
	}
	if err := w.document.Validate(); err != nil {
		return err
	}

	zw := zip.NewWriter(writer)

	if err := w.writeContentTypes(zw); err != nil {
		return err
	}
	if err := w.writeRootRels(zw); err != nil {
		return err
	}
	if err := w.writeAppProperties(zw); err != nil {
		return err
	}
	if err := w.writeCoreProperties(zw); err != nil {
		return err
	}
	if err := w.writePresentation(zw); err != nil {
		return err
	}
	if err := w.writePresentationRels(zw); err != nil {
		return err
	}
	if err := w.writePresProps(zw); err != nil {
		return err
	}
	if err := w.writeViewProps(zw); err != nil {
		return err
	}
	if err := w.writeTableStyles(zw); err != nil {
		return err
	}
	if err := w.writeSlideMaster(zw); err != nil {
		return err
	}
	if err := w.writeSlideLayout(zw); err != nil {
		return err
	}
	if err := w.writeTheme(zw); err != nil {
		return err
	}

	for i, slide := range w.document.slides {
		if err := w.writeSlide(zw, slide, i+1); err != nil {
			return err
		}
		if err := w.writeSlideRels(zw, i+1); err != nil {
			return err
		}
	}

	return zw.Close()
}
