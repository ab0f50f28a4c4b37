package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/photomark/internal/config"
	"github.com/phambaophuc/photomark/internal/models"
	"github.com/phambaophuc/photomark/internal/services/metadata"
	"github.com/phambaophuc/photomark/internal/services/processor"
	"github.com/phambaophuc/photomark/internal/services/storage"
	"go.uber.org/zap"
)

const (
	imageParamKey     = "image"
	watermarkParamKey = "watermark"
)

type ImageHandler struct {
	processor *processor.ImageProcessor
	builder   *processor.Builder
	extractor *metadata.Extractor
	storage   *storage.StorageService
	logger    *zap.Logger
	config    *config.Config
}

func NewImageHandler(
	processor *processor.ImageProcessor,
	builder *processor.Builder,
	extractor *metadata.Extractor,
	storage *storage.StorageService,
	logger *zap.Logger,
	config *config.Config,
) *ImageHandler {
	return &ImageHandler{
		processor: processor,
		builder:   builder,
		extractor: extractor,
		storage:   storage,
		logger:    logger,
		config:    config,
	}
}

// === MAIN API ENDPOINTS ===

func (h *ImageHandler) TextWatermark(c *gin.Context) {
	up, ok := h.readSource(c)
	if !ok {
		return
	}

	req, err := h.bindRequest(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" {
		h.respondError(c, http.StatusBadRequest, "text is required")
		return
	}

	wm := h.builder.Text(h.textSettings(req, req.Text))
	h.processAndRespond(c, up, models.KindText, req, nil, wm)
}

func (h *ImageHandler) ImageWatermark(c *gin.Context) {
	up, ok := h.readSource(c)
	if !ok {
		return
	}

	markData, _, err := h.readFile(c, watermarkParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No watermark image provided")
		return
	}
	mark, _, err := h.processor.ValidateImage(markData, h.config.Server.MaxFileSize)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid watermark: "+err.Error())
		return
	}

	req, err := h.bindRequest(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	scale := req.Scale
	if scale == 0 {
		scale = h.config.Watermark.Scale
	}

	wm := h.builder.Image(processor.ImageSettings{
		Source:  mark,
		Scale:   scale,
		Opacity: h.opacity(req),
	})
	h.processAndRespond(c, up, models.KindImage, req, markData, wm)
}

func (h *ImageHandler) DateWatermark(c *gin.Context) {
	up, ok := h.readSource(c)
	if !ok {
		return
	}

	req, err := h.bindRequest(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	date, found := h.extractor.CaptureDateFrom(bytes.NewReader(up.data))
	if !found {
		h.logger.Info("Cannot extract capture date", zap.String("file", up.name))
		h.respondError(c, http.StatusUnprocessableEntity, "Image has no capture date")
		return
	}

	wm := h.builder.Text(h.textSettings(req, date))
	h.processAndRespond(c, up, models.KindDate, req, nil, wm)
}

func (h *ImageHandler) HealthCheck(c *gin.Context) {
	storageStatus := h.storage.HealthCheck(c.Request.Context())
	overall := h.calculateOverallHealth(storageStatus)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  storageStatus,
		},
	})
}
