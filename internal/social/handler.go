package social

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dishlog/internal/core"
	"dishlog/internal/photo"
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

type createUserRequest struct {
	Username    string  `json:"username"`
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

type createShareRequest struct {
	RecipientID    string  `json:"recipientId"`
	ShareType      string  `json:"shareType"`
	DishID         *string `json:"dishId"`
	DishInstanceID *string `json:"dishInstanceId"`
	RestaurantID   *string `json:"restaurantId"`
	SharedUserID   *string `json:"sharedUserId"`
	Message        *string `json:"message"`
}

// --------------------------------------------------
// Users
// --------------------------------------------------

// ListUsers handles GET /api/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if users == nil {
		users = []User{}
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /api/users
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.Username, req.DisplayName, req.AvatarURL)
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// SearchUsers handles GET /api/users/search
func (h *Handler) SearchUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := h.service.SearchUsers(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if users == nil {
		users = []User{}
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /api/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetProfile handles GET /api/users/:id/profile
func (h *Handler) GetProfile(c *gin.Context) {
	stats, err := h.service.GetProfileStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --------------------------------------------------
// Follows
// --------------------------------------------------

// Follow handles POST /api/users/:id/follow
func (h *Handler) Follow(c *gin.Context) {
	follow, err := h.service.Follow(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, follow)
}

// Unfollow handles DELETE /api/users/:id/follow
func (h *Handler) Unfollow(c *gin.Context) {
	if err := h.service.Unfollow(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		core.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// IsFollowing handles GET /api/users/:id/is-following
func (h *Handler) IsFollowing(c *gin.Context) {
	following, err := h.service.IsFollowing(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFollowing": following})
}

// ListFollowers handles GET /api/users/:id/followers
func (h *Handler) ListFollowers(c *gin.Context) {
	follows, err := h.service.ListFollowers(c.Request.Context(), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if follows == nil {
		follows = []Follow{}
	}
	c.JSON(http.StatusOK, follows)
}

// ListFollowing handles GET /api/users/:id/following
func (h *Handler) ListFollowing(c *gin.Context) {
	follows, err := h.service.ListFollowing(c.Request.Context(), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if follows == nil {
		follows = []Follow{}
	}
	c.JSON(http.StatusOK, follows)
}

// --------------------------------------------------
// Likes
// --------------------------------------------------

// LikePhoto handles POST /api/dish-photos/:id/like
func (h *Handler) LikePhoto(c *gin.Context) {
	like, err := h.service.LikePhoto(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, like)
}

// UnlikePhoto handles DELETE /api/dish-photos/:id/like
func (h *Handler) UnlikePhoto(c *gin.Context) {
	if err := h.service.UnlikePhoto(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		core.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPhotoLikes handles GET /api/dish-photos/:id/likes
func (h *Handler) ListPhotoLikes(c *gin.Context) {
	likes, err := h.service.ListPhotoLikes(c.Request.Context(), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if likes == nil {
		likes = []PhotoLike{}
	}

	liked, err := h.service.IsPhotoLiked(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes, "count": len(likes), "likedByMe": liked})
}

// --------------------------------------------------
// Bookmarks
// --------------------------------------------------

// BookmarkDish handles POST /api/dishes/:id/bookmark
func (h *Handler) BookmarkDish(c *gin.Context) {
	bookmark, err := h.service.BookmarkDish(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

// UnbookmarkDish handles DELETE /api/dishes/:id/bookmark
func (h *Handler) UnbookmarkDish(c *gin.Context) {
	if err := h.service.UnbookmarkDish(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		core.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDishBookmarks handles GET /api/bookmarks/dishes
func (h *Handler) ListDishBookmarks(c *gin.Context) {
	bookmarks, err := h.service.ListDishBookmarks(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []DishBookmark{}
	}
	c.JSON(http.StatusOK, bookmarks)
}

// BookmarkRestaurant handles POST /api/restaurants/:id/bookmark
func (h *Handler) BookmarkRestaurant(c *gin.Context) {
	bookmark, err := h.service.BookmarkRestaurant(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

// UnbookmarkRestaurant handles DELETE /api/restaurants/:id/bookmark
func (h *Handler) UnbookmarkRestaurant(c *gin.Context) {
	if err := h.service.UnbookmarkRestaurant(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		core.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRestaurantBookmarks handles GET /api/bookmarks/restaurants
func (h *Handler) ListRestaurantBookmarks(c *gin.Context) {
	bookmarks, err := h.service.ListRestaurantBookmarks(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []RestaurantBookmark{}
	}
	c.JSON(http.StatusOK, bookmarks)
}

// --------------------------------------------------
// Shares & feed
// --------------------------------------------------

// CreateShare handles POST /api/shares
func (h *Handler) CreateShare(c *gin.Context) {
	var req createShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	share, err := h.service.CreateShare(c.Request.Context(), c.GetString("userID"), ShareInput{
		RecipientID:    req.RecipientID,
		ShareType:      req.ShareType,
		DishID:         req.DishID,
		DishInstanceID: req.DishInstanceID,
		RestaurantID:   req.RestaurantID,
		SharedUserID:   req.SharedUserID,
		Message:        req.Message,
	})
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, share)
}

// ListInbox handles GET /api/inbox
func (h *Handler) ListInbox(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	shares, err := h.service.ListInbox(c.Request.Context(), c.GetString("userID"), unreadOnly)
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if shares == nil {
		shares = []Share{}
	}
	c.JSON(http.StatusOK, shares)
}

// MarkShareRead handles POST /api/shares/:id/read
func (h *Handler) MarkShareRead(c *gin.Context) {
	share, err := h.service.MarkShareRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		core.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, share)
}

// DeleteShare handles DELETE /api/shares/:id
func (h *Handler) DeleteShare(c *gin.Context) {
	if err := h.service.DeleteShare(c.Request.Context(), c.Param("id")); err != nil {
		core.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetFeed handles GET /api/feed
func (h *Handler) GetFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	photos, err := h.service.GetFeed(c.Request.Context(), c.GetString("userID"), limit, offset)
	if err != nil {
		core.WriteError(c, err)
		return
	}
	if photos == nil {
		photos = []photo.DishPhoto{}
	}
	c.JSON(http.StatusOK, photos)
}
