package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ShoheiSaito0429/slide-converter/convert"
)

// tiny 1x1 PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9C, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
	0x42, 0x60, 0x82,
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", "")
	c.baseURL = srv.URL
	c.retryDelay = 0
	return c
}

func messagesResponse(text string) string {
	resp := map[string]interface{}{
		"content": []map[string]string{{"type": "text", "text": text}},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestDemoLayoutIsValid(t *testing.T) {
	desc, skipped, warnings, err := convert.ParseLayout(DemoLayout())
	if err != nil {
		t.Fatalf("demo layout failed validation: %v", err)
	}
	if skipped != 0 || len(warnings) != 0 {
		t.Errorf("demo layout: skipped=%d warnings=%v", skipped, warnings)
	}
	if len(desc.Elements) != 6 {
		t.Errorf("demo layout has %d elements, want 6", len(desc.Elements))
	}
	if desc.Background == nil {
		t.Error("demo layout should set a background color")
	}
}

func TestDemoLayoutConverts(t *testing.T) {
	res, err := convert.Convert(DemoLayout(), convert.Options{})
	if err != nil {
		t.Fatalf("demo layout conversion failed: %v", err)
	}
	if res.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", res.Skipped)
	}
	if len(res.PPTX) == 0 {
		t.Error("no document bytes produced")
	}
}

func TestAnalyzeSendsImageAndStripsFence(t *testing.T) {
	const layout = `{"image_width":100,"image_height":100,"elements":[]}`

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != apiVersion {
			t.Errorf("anthropic-version = %q", got)
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
			t.Fatalf("unexpected message structure: %+v", req.Messages)
		}
		img := req.Messages[0].Content[0]
		if img.Type != "image" || img.Source == nil || img.Source.MediaType != "image/png" {
			t.Errorf("image block = %+v", img)
		}

		w.Write([]byte(messagesResponse("```json\n" + layout + "\n```")))
	})

	got, err := c.Analyze(context.Background(), pngBytes)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if string(got) != layout {
		t.Errorf("layout = %q, want %q", got, layout)
	}
}

func TestAnalyzeRetriesTransientFailures(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(messagesResponse(`{"image_width":1,"image_height":1,"elements":[]}`)))
	})

	if _, err := c.Analyze(context.Background(), pngBytes); err != nil {
		t.Fatalf("Analyze should succeed after retries: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestAnalyzeDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"authentication_error","message":"bad key"}}`))
	})

	_, err := c.Analyze(context.Background(), pngBytes)
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 401)", calls)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestDetectImageType(t *testing.T) {
	if _, err := detectImageType(nil); err == nil {
		t.Error("empty data should be rejected")
	}
	if _, err := detectImageType([]byte("plain text, not an image")); err == nil {
		t.Error("non-image data should be rejected")
	}
	mt, err := detectImageType(pngBytes)
	if err != nil || mt != "image/png" {
		t.Errorf("detectImageType(png) = %q, %v", mt, err)
	}
}

func TestStripCodeBlock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeBlock(tt.in); got != tt.want {
			t.Errorf("stripCodeBlock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
