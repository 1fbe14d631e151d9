package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fumiama/imgsz"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ShoheiSaito0429/slide-converter/convert"
	"github.com/ShoheiSaito0429/slide-converter/internal/preview"
	"github.com/ShoheiSaito0429/slide-converter/vision"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

type convertResponse struct {
	DownloadURL string   `json:"download_url"`
	Filename    string   `json:"filename"`
	Skipped     int      `json:"skipped"`
	Warnings    []string `json:"warnings,omitempty"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var layout []byte
	if r.FormValue("demo") == "true" {
		layout = vision.DemoLayout()
	} else {
		image, ok := s.readImage(w, r)
		if !ok {
			return
		}

		apiKey := r.FormValue("api_key")
		if apiKey == "" {
			apiKey = s.cfg.AnthropicAPIKey
		}
		if apiKey == "" {
			jsonError(w, "api_key is required (or set demo=true)", http.StatusBadRequest)
			return
		}

		var err error
		layout, err = s.newAnalyzer(apiKey).Analyze(r.Context(), image)
		if err != nil {
			s.log.Error("vision analysis failed", "error", err)
			jsonError(w, "image analysis failed: "+err.Error(), http.StatusBadGateway)
			return
		}
	}

	res, err := convert.Convert(layout, s.convertOptions())
	if err != nil {
		var se *convert.SchemaError
		if errors.As(err, &se) {
			s.log.Warn("analysis result rejected", "error", err)
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.log.Error("conversion failed", "error", err)
		jsonError(w, "conversion failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	name, err := s.store.Put(res.PPTX, res.Filename)
	if err != nil {
		s.log.Error("failed to store document", "error", err)
		jsonError(w, "failed to store document", http.StatusInternalServerError)
		return
	}

	s.log.Info("converted slide",
		"document", name,
		"bytes", len(res.PPTX),
		"skipped", res.Skipped,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(convertResponse{
		DownloadURL: "/download/" + name,
		Filename:    res.Filename,
		Skipped:     res.Skipped,
		Warnings:    res.Warnings,
	})
}

// readImage extracts and validates the uploaded image. On failure it writes
// the error response and returns ok=false.
func (s *Server) readImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, "image file is required: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read image", http.StatusInternalServerError)
		return nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("image exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, false
	}

	sz, format, err := imgsz.DecodeSize(bytes.NewReader(data))
	if err != nil {
		jsonError(w, "uploaded file is not a recognized image", http.StatusBadRequest)
		return nil, false
	}
	s.log.Debug("image received", "format", format, "width", sz.Width, "height", sz.Height)

	return data, true
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validDownloadName(name) {
		jsonError(w, "invalid document name", http.StatusBadRequest)
		return
	}

	path, suggested, ok := s.store.Get(name)
	if !ok {
		jsonError(w, "document not found or expired", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", pptxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", suggested))
	http.ServeFile(w, r, path)
}

// validDownloadName accepts only names the store itself generates:
// a UUID followed by ".pptx".
func validDownloadName(name string) bool {
	base, found := strings.CutSuffix(name, ".pptx")
	if !found {
		return false
	}
	_, err := uuid.Parse(base)
	return err == nil
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	desc, _, _, err := convert.ParseLayout(body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	width := 0
	if v := r.URL.Query().Get("width"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 4096 {
			width = n
		}
	}

	img, err := preview.Render(desc, width)
	if err != nil {
		s.log.Error("preview rendering failed", "error", err)
		jsonError(w, "preview rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(img)
}

func (s *Server) handleDemoImage(w http.ResponseWriter, r *http.Request) {
	desc, _, _, err := convert.ParseLayout(vision.DemoLayout())
	if err != nil {
		s.log.Error("demo layout invalid", "error", err)
		jsonError(w, "demo layout invalid", http.StatusInternalServerError)
		return
	}
	img, err := preview.Render(desc, preview.DefaultWidth)
	if err != nil {
		s.log.Error("demo rendering failed", "error", err)
		jsonError(w, "demo rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(img)
}

func (s *Server) convertOptions() convert.Options {
	if s.cfg.SlideLayout == "4:3" {
		return convert.Options{SlideWidth: convert.SlideWidth4x3}
	}
	return convert.Options{}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
