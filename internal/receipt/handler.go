package receipt

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dishlog/internal/core"
	"dishlog/internal/llm"
)

type Handler struct {
	service   *Service
	extractor *llm.Extractor
}

func NewHandler(service *Service, extractor *llm.Extractor) *Handler {
	return &Handler{service: service, extractor: extractor}
}

// --------------------------------------------------
// Request payloads
// --------------------------------------------------

type parseReceiptRequest struct {
	Image string `json:"image"`
}

type updateReceiptRequest struct {
	Datetime       *string `json:"datetime"`
	TotalAmount    *string `json:"totalAmount"`
	RestaurantName *string `json:"restaurantName"`
}

type updateInstanceRequest struct {
	Price    *string `json:"price"`
	Rating   *string `json:"rating"`
	DishName *string `json:"dishName"`
}

// --------------------------------------------------
// Extraction
// --------------------------------------------------

// ParseReceipt handles POST /api/parse-receipt. Extraction never fails
// outright: a degraded result is an empty receipt plus a flag the client
// uses to route to manual completion.
func (h *Handler) ParseReceipt(c *gin.Context) {
	var req parseReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	parsed, degraded := h.extractor.Extract(c.Request.Context(), req.Image)
	c.JSON(http.StatusOK, gin.H{"parsed": parsed, "degraded": degraded})
}

// --------------------------------------------------
// Receipts
// --------------------------------------------------

// Create handles POST /api/receipts
func (h *Handler) Create(c *gin.Context) {
	var parsed llm.ParsedReceipt
	if err := c.ShouldBindJSON(&parsed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), parsed)
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// List handles GET /api/receipts
func (h *Handler) List(c *gin.Context) {
	receipts, err := h.service.ListReceipts(c.Request.Context())
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if receipts == nil {
		receipts = []Receipt{}
	}
	c.JSON(http.StatusOK, receipts)
}

// ListRecent handles GET /api/receipts/recent
func (h *Handler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	receipts, err := h.service.ListRecent(c.Request.Context(), limit)
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if receipts == nil {
		receipts = []Receipt{}
	}
	c.JSON(http.StatusOK, receipts)
}

// Get handles GET /api/receipts/:id
func (h *Handler) Get(c *gin.Context) {
	details, err := h.service.GetReceiptWithDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Update handles PATCH /api/receipts/:id
func (h *Handler) Update(c *gin.Context) {
	var req updateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	update := ReceiptUpdate{
		TotalAmount:    req.TotalAmount,
		RestaurantName: req.RestaurantName,
	}
	if req.Datetime != nil {
		t, err := time.Parse(time.RFC3339, *req.Datetime)
		if err != nil {
			core.WriteError(c, core.Invalid("datetime", "is not a valid timestamp"))
			return
		}
		update.Datetime = &t
	}

	rec, err := h.service.UpdateReceipt(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /api/receipts/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.DeleteReceipt(c.Request.Context(), c.Param("id")); err != nil {
		core.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// Dish instances
// --------------------------------------------------

// GetInstance handles GET /api/dish-instances/:id
func (h *Handler) GetInstance(c *gin.Context) {
	inst, err := h.service.GetInstanceWithDish(c.Request.Context(), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

// UpdateInstance handles PATCH /api/dish-instances/:id
func (h *Handler) UpdateInstance(c *gin.Context) {
	var req updateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	inst, err := h.service.UpdateInstance(c.Request.Context(), c.Param("id"), InstanceUpdate{
		Price:    req.Price,
		Rating:   req.Rating,
		DishName: req.DishName,
	})
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

// DeleteInstance handles DELETE /api/dish-instances/:id
func (h *Handler) DeleteInstance(c *gin.Context) {
	if err := h.service.DeleteInstance(c.Request.Context(), c.Param("id")); err != nil {
		core.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
