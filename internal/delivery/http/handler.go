package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfaware/backend/internal/domain"
	"github.com/shelfaware/backend/internal/infrastructure/export"
	"github.com/shelfaware/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pricing *usecase.PricingService
}

// NewHandler creates a new HTTP handler
func NewHandler(pricing *usecase.PricingService) *Handler {
	return &Handler{pricing: pricing}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelfaware-backend",
		"version": "1.0.0",
	})
}

// ListStores returns every store in the current snapshot.
func (h *Handler) ListStores(c *gin.Context) {
	stores, err := h.pricing.Stores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores, "count": len(stores)})
}

// ListItems returns the item catalog in catalog order.
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.pricing.Items(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// GetRecommendations returns the per-item market comparison for the home
// store, or for the store named by the ?store query parameter.
func (h *Handler) GetRecommendations(c *gin.Context) {
	recs, err := h.pricing.Recommendations(c.Request.Context(), c.Query("store"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs, "count": len(recs)})
}

// impactRequest is the body for POST /api/v1/impact.
type impactRequest struct {
	Store    string             `json:"store"`
	Proposed map[string]float64 `json:"proposed" binding:"required"`
}

// AnalyzeImpact evaluates a set of proposed prices against the market.
func (h *Handler) AnalyzeImpact(c *gin.Context) {
	var req impactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	rows, err := h.pricing.Impact(c.Request.Context(), req.Store, req.Proposed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"impact": rows, "count": len(rows)})
}

// GetCategories returns category-level margin and pricing summaries.
func (h *Handler) GetCategories(c *gin.Context) {
	cats, err := h.pricing.Categories(c.Request.Context(), c.Query("store"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats, "count": len(cats)})
}

// RefreshSnapshot drops the cached dataset so the next request reloads it.
func (h *Handler) RefreshSnapshot(c *gin.Context) {
	h.pricing.Refresh()
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

// ExportRecommendations streams the recommendation workbook as an .xlsx
// download.
func (h *Handler) ExportRecommendations(c *gin.Context) {
	ctx := c.Request.Context()
	store := c.Query("store")

	recs, err := h.pricing.Recommendations(ctx, store)
	if err != nil {
		respondError(c, err)
		return
	}
	cats, err := h.pricing.Categories(ctx, store)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("recommendations-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := export.WriteWorkbook(c.Writer, recs, cats); err != nil {
		// Headers are already written, the best we can do is abort.
		c.Abort()
	}
}

// respondError maps domain errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyDataset), errors.Is(err, domain.ErrNoSnapshot):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		var schemaErr *domain.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
