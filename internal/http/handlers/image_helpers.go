package handlers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phambaophuc/photomark/internal/models"
	"github.com/phambaophuc/photomark/internal/services/processor"
	"github.com/phambaophuc/photomark/internal/services/storage"
	"github.com/phambaophuc/photomark/pkg/utils"
	"go.uber.org/zap"
)

// upload is a decoded source image together with its raw bytes.
type upload struct {
	name   string
	data   []byte
	img    image.Image
	format string
}

// === REQUEST PARSING ===

func (h *ImageHandler) bindRequest(c *gin.Context) (*models.WatermarkRequest, error) {
	var req models.WatermarkRequest
	if err := c.ShouldBind(&req); err != nil {
		return nil, fmt.Errorf("invalid form data: %v", err)
	}
	return &req, nil
}

func (h *ImageHandler) textSettings(req *models.WatermarkRequest, text string) processor.TextSettings {
	defaults := h.config.Watermark

	s := processor.TextSettings{
		Text:     text,
		FontSize: req.FontSize,
		Color:    req.Color,
		Opacity:  h.opacity(req),
		Position: req.Position,
	}
	if s.FontSize == 0 {
		s.FontSize = defaults.FontSize
	}
	if s.Color == "" {
		s.Color = defaults.Color
	}
	if s.Position == "" {
		s.Position = defaults.Position
	}
	return s
}

func (h *ImageHandler) opacity(req *models.WatermarkRequest) int {
	if req.Opacity != nil {
		return *req.Opacity
	}
	return h.config.Watermark.Opacity
}

// === FILE OPERATIONS ===

func (h *ImageHandler) readFile(c *gin.Context, paramKey string) ([]byte, string, error) {
	file, header, err := c.Request.FormFile(paramKey)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	// One byte over the limit is enough for ValidateImage to reject it.
	data, err := io.ReadAll(io.LimitReader(file, h.config.Server.MaxFileSize+1))
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func (h *ImageHandler) readSource(c *gin.Context) (*upload, bool) {
	data, name, err := h.readFile(c, imageParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return nil, false
	}

	img, format, err := h.processor.ValidateImage(data, h.config.Server.MaxFileSize)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid image: %v", err))
		return nil, false
	}

	return &upload{name: name, data: data, img: img, format: format}, true
}

// === PROCESSING LOGIC ===

func (h *ImageHandler) processAndRespond(
	c *gin.Context,
	up *upload,
	kind models.WatermarkKind,
	req *models.WatermarkRequest,
	mark []byte,
	wm processor.Watermark,
) {
	ctx := c.Request.Context()

	format, err := processor.FormatFromName(up.format)
	if err != nil {
		format = imaging.JPEG
	}

	cacheKey := storage.GenerateCacheKey(up.data, kind, req, mark)
	if cached, found := h.tryGetFromCache(ctx, cacheKey); found {
		h.respondWithImage(c, up, kind, format, cached)
		return
	}

	out, err := h.processor.Apply(up.img, wm)
	if err != nil {
		h.logger.Error("Processing failed", zap.String("file", up.name), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to add watermark")
		return
	}

	var buf bytes.Buffer
	if err := h.processor.Encode(&buf, out, format, h.config.Output.JPEGQuality); err != nil {
		h.logger.Error("Encoding failed", zap.String("file", up.name), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to encode image")
		return
	}

	h.setCacheData(ctx, cacheKey, buf.Bytes())
	h.respondWithImage(c, up, kind, format, buf.Bytes())
}

// === RESPONSE HANDLING ===

func (h *ImageHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondWithImage returns the public URL when uploads are configured and the
// encoded bytes otherwise.
func (h *ImageHandler) respondWithImage(c *gin.Context, up *upload, kind models.WatermarkKind, format imaging.Format, data []byte) {
	ext := strings.ToLower(format.String())
	contentType := processor.ContentType(format)

	if h.storage.UploadEnabled() {
		url, err := h.storage.Upload(c.Request.Context(), data, utils.WatermarkedFilename(up.name, ext))
		if err == nil {
			bounds := up.img.Bounds()
			c.JSON(http.StatusOK, models.APIResponse{
				Success: true,
				Data: models.ProcessedImage{
					ID:           uuid.New().String(),
					OriginalName: up.name,
					Kind:         kind,
					ProcessedAt:  time.Now(),
					Width:        bounds.Dx(),
					Height:       bounds.Dy(),
					Format:       ext,
					URL:          url,
					FileSize:     int64(len(data)),
				},
			})
			return
		}
		h.logger.Warn("Failed to upload to Storage, returning image bytes", zap.Error(err))
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, utils.WatermarkedFilename(up.name, ext)))
	c.Data(http.StatusOK, contentType, data)
}

// === UTILITY METHODS ===

func (h *ImageHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}

// === CACHE OPERATIONS ===

func (h *ImageHandler) tryGetFromCache(ctx context.Context, cacheKey string) ([]byte, bool) {
	cachedData, err := h.storage.GetFromCache(ctx, cacheKey)
	if err != nil {
		h.logger.Warn("Cache lookup failed", zap.Error(err))
		return nil, false
	}
	if cachedData == nil {
		return nil, false
	}

	h.logger.Info("Cache hit", zap.String("cache_key", cacheKey))
	return cachedData, true
}

func (h *ImageHandler) setCacheData(ctx context.Context, cacheKey string, data []byte) {
	if err := h.storage.SetCache(ctx, cacheKey, data); err != nil {
		h.logger.Warn("Failed to cache data", zap.String("cache_key", cacheKey), zap.Error(err))
	}
}
