package routes

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/photomark/internal/config"
	"github.com/phambaophuc/photomark/internal/http/handlers"
	"github.com/phambaophuc/photomark/internal/http/middleware"
	"github.com/phambaophuc/photomark/internal/models"
	"github.com/phambaophuc/photomark/internal/services/metadata"
	"github.com/phambaophuc/photomark/internal/services/processor"
	"github.com/phambaophuc/photomark/internal/services/storage"
	"github.com/phambaophuc/photomark/internal/testutil"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	logger := zaptest.NewLogger(t)

	store, err := storage.NewStorageService(cfg)
	if err != nil {
		t.Fatalf("failed to create storage service: %v", err)
	}

	h := handlers.NewImageHandler(
		processor.NewImageProcessor(logger),
		processor.NewBuilder(processor.NewFontChainFrom(logger), logger),
		metadata.NewExtractor(logger),
		store,
		logger,
		cfg,
	)
	return NewRouter(h, logger).SetupRoutes()
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testutil.Solid(w, h, c)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, path string, files map[string][]byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for key, data := range files {
		fw, err := mw.CreateFormFile(key, key+".bin")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	return resp.Error
}

func TestHealthCheck_NotConfigured(t *testing.T) {
	router := newTestRouter(t, config.DefaultConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool               `json:"success"`
		Data    models.HealthCheck `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data.Status != "healthy" {
		t.Errorf("unexpected health: %+v", resp)
	}
	for _, svc := range []string{"redis", "supabase"} {
		if resp.Data.Services[svc] != "not configured" {
			t.Errorf("expected %s not configured, got %q", svc, resp.Data.Services[svc])
		}
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestTextWatermark(t *testing.T) {
	router := newTestRouter(t, config.DefaultConfig())

	req := multipartRequest(t, "/api/v1/watermark/text",
		map[string][]byte{"image": pngBytes(t, 120, 90, color.Black)},
		map[string]string{"text": "hello", "opacity": "255", "position": "top-left"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}

	img, format, err := image.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not an image: %v", err)
	}
	if format != "png" || img.Bounds().Dx() != 120 || img.Bounds().Dy() != 90 {
		t.Errorf("unexpected output %s %v", format, img.Bounds())
	}
}

func TestTextWatermark_BadRequests(t *testing.T) {
	small := config.DefaultConfig()
	small.Server.MaxFileSize = 16

	tests := []struct {
		name   string
		cfg    *config.Config
		files  map[string][]byte
		fields map[string]string
	}{
		{"no image", config.DefaultConfig(), nil, map[string]string{"text": "x"}},
		{"no text", config.DefaultConfig(), map[string][]byte{"image": pngBytes(t, 10, 10, color.White)}, nil},
		{"not an image", config.DefaultConfig(), map[string][]byte{"image": []byte("hello")}, map[string]string{"text": "x"}},
		{"too large", small, map[string][]byte{"image": pngBytes(t, 10, 10, color.White)}, map[string]string{"text": "x"}},
		{"opacity not a number", config.DefaultConfig(), map[string][]byte{"image": pngBytes(t, 10, 10, color.White)}, map[string]string{"text": "x", "opacity": "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, tt.cfg)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartRequest(t, "/api/v1/watermark/text", tt.files, tt.fields))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if msg := decodeError(t, w); msg == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestImageWatermark(t *testing.T) {
	router := newTestRouter(t, config.DefaultConfig())

	req := multipartRequest(t, "/api/v1/watermark/image",
		map[string][]byte{
			"image":     pngBytes(t, 200, 100, color.White),
			"watermark": pngBytes(t, 40, 20, color.Black),
		},
		map[string]string{"scale": "0.5", "opacity": "255"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	// 100x50 logo anchored 20px from the bottom-right corner of 200x100.
	r, g, b, _ := img.At(150, 60).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("expected black logo pixel, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
	r, _, _, _ = img.At(10, 10).RGBA()
	if r>>8 != 255 {
		t.Errorf("expected untouched white pixel, got %d", r>>8)
	}
}

func TestImageWatermark_MissingWatermark(t *testing.T) {
	router := newTestRouter(t, config.DefaultConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/api/v1/watermark/image",
		map[string][]byte{"image": pngBytes(t, 10, 10, color.White)}, nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDateWatermark(t *testing.T) {
	router := newTestRouter(t, config.DefaultConfig())

	t.Run("exif date", func(t *testing.T) {
		data := testutil.JPEGWithCaptureDate(t, 100, 100, "2024:01:01 12:00:00")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/api/v1/watermark/date",
			map[string][]byte{"image": data}, nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("expected image/jpeg, got %s", ct)
		}
	})

	t.Run("no capture date", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/api/v1/watermark/date",
			map[string][]byte{"image": pngBytes(t, 10, 10, color.White)}, nil))

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		decodeError(t, w)
	})
}
