package photo

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

// --------------------------------------------------
// Request payloads
// --------------------------------------------------

type createPhotoRequest struct {
	ImageURL       string  `json:"imageUrl"`
	DishInstanceID *string `json:"dishInstanceId"`
}

type updatePhotoLinkRequest struct {
	DishInstanceID *string `json:"dishInstanceId"`
}

// --------------------------------------------------
// Handlers
// --------------------------------------------------

// List handles GET /api/dish-photos
func (h *Handler) List(c *gin.Context) {
	photos, err := h.service.List(c.Request.Context())
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if photos == nil {
		photos = []DishPhoto{}
	}
	c.JSON(http.StatusOK, photos)
}

// ListUnlinked handles GET /api/dish-photos/unlinked
func (h *Handler) ListUnlinked(c *gin.Context) {
	photos, err := h.service.ListUnlinked(c.Request.Context())
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if photos == nil {
		photos = []DishPhoto{}
	}
	c.JSON(http.StatusOK, photos)
}

// Create handles POST /api/dish-photos
func (h *Handler) Create(c *gin.Context) {
	var req createPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := CreateInput{
		ImageURL:       req.ImageURL,
		DishInstanceID: req.DishInstanceID,
	}
	if userID := c.GetString("userID"); userID != "" {
		input.PostedByUserID = &userID
	}

	photo, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// UpdateLink handles PATCH /api/dish-photos/:id. A string dishInstanceId
// links the photo to that instance; null (or an absent field) unlinks it.
func (h *Handler) UpdateLink(c *gin.Context) {
	var req updatePhotoLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id := c.Param("id")
	var (
		photo *DishPhoto
		err   error
	)
	if req.DishInstanceID != nil {
		photo, err = h.service.Link(c.Request.Context(), id, *req.DishInstanceID)
	} else {
		photo, err = h.service.Unlink(c.Request.Context(), id)
	}
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}
