package images

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"packaging-backend/internal/shared/server/respond"
)

// multipart envelope allowance on top of the file limit
const formOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches image routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload-image", h.upload)
	rg.GET("/images/:id", h.get)
}

func (h *Handler) upload(c *gin.Context) {
	maxBytes := h.Svc.maxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+formOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respond.Error(c, http.StatusBadRequest, "validation_error", tooLargeMessage(maxBytes), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > maxBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", tooLargeMessage(maxBytes), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	img, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid file type. Only JPG and PNG allowed.", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusBadRequest, "validation_error", tooLargeMessage(maxBytes), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload image", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toUploadResponse(img))
}

func (h *Handler) get(c *gin.Context) {
	img, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "image not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch image", nil)
		}
		return
	}

	respond.OK(c, toImageResponse(img))
}

func tooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("File too large. Maximum size is %s.", humanBytes(maxBytes))
}
