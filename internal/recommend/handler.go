package recommend

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"packaging-backend/internal/packaging"
	"packaging-backend/internal/shared/server/respond"
)

const reportFileName = "packaging_recommendation.pdf"

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommend-packaging", h.recommend)
	rg.POST("/recommend-packaging-pdf", h.recommendPDF)
}

func (h *Handler) recommend(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}

	res, err := h.Svc.Recommend(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	respond.OK(c, ToResponse(res))
}

func (h *Handler) recommendPDF(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}

	res, data, err := h.Svc.Report(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("X-Recommendation-ID", res.ID)
	respond.Attachment(c, h.Svc.renderer().ContentType(), reportFileName, data)
}

func bind(c *gin.Context) (Request, bool) {
	var body PackagingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return Request{}, false
	}
	return body.ToRequest(), true
}

func writeError(c *gin.Context, err error) {
	var invalid *packaging.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		respond.Error(c, http.StatusUnprocessableEntity, "invalid_input", invalid.Error(), gin.H{"field": invalid.Field})
	case errors.Is(err, ErrRender):
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render report", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to recommend packaging", nil)
	}
}
