package restaurant

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dishlog/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GET /api/restaurants
func (h *Handler) List(c *gin.Context) {
	restaurants, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch restaurants"})
		return
	}
	if restaurants == nil {
		restaurants = []Restaurant{}
	}
	c.JSON(http.StatusOK, restaurants)
}

// GET /api/restaurants/:id
func (h *Handler) Get(c *gin.Context) {
	details, err := h.service.GetWithDishes(c.Request.Context(), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if details.Dishes == nil {
		details.Dishes = []Dish{}
	}
	c.JSON(http.StatusOK, details)
}

// GET /api/dishes
func (h *Handler) ListDishes(c *gin.Context) {
	dishes, err := h.service.ListDishes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch dishes"})
		return
	}
	if dishes == nil {
		dishes = []Dish{}
	}
	c.JSON(http.StatusOK, dishes)
}

// GET /api/search?q=
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	restaurants, err := h.service.Search(c.Request.Context(), query, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	dishes, err := h.service.SearchDishes(c.Request.Context(), query, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	if restaurants == nil {
		restaurants = []Restaurant{}
	}
	if dishes == nil {
		dishes = []Dish{}
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"dishes":      dishes,
	})
}
