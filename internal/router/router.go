package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dishlog/internal/middleware"
	"dishlog/internal/photo"
	"dishlog/internal/receipt"
	"dishlog/internal/restaurant"
	"dishlog/internal/social"
	"dishlog/internal/stats"
)

type Deps struct {
	Restaurants *restaurant.Handler
	Receipts    *receipt.Handler
	Photos      *photo.Handler
	Social      *social.Handler
	Stats       *stats.Handler
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-User-ID"},
	}))
	r.Use(middleware.CurrentUser())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.POST("/parse-receipt", deps.Receipts.ParseReceipt)

	api.GET("/restaurants", deps.Restaurants.List)
	api.GET("/restaurants/:id", deps.Restaurants.Get)
	api.POST("/restaurants/:id/bookmark", deps.Social.BookmarkRestaurant)
	api.DELETE("/restaurants/:id/bookmark", deps.Social.UnbookmarkRestaurant)

	api.GET("/dishes", deps.Restaurants.ListDishes)
	api.POST("/dishes/:id/bookmark", deps.Social.BookmarkDish)
	api.DELETE("/dishes/:id/bookmark", deps.Social.UnbookmarkDish)

	api.GET("/search", deps.Restaurants.Search)

	api.POST("/receipts", deps.Receipts.Create)
	api.GET("/receipts", deps.Receipts.List)
	api.GET("/receipts/recent", deps.Receipts.ListRecent)
	api.GET("/receipts/:id", deps.Receipts.Get)
	api.PATCH("/receipts/:id", deps.Receipts.Update)
	api.DELETE("/receipts/:id", deps.Receipts.Delete)

	api.GET("/dish-instances/:id", deps.Receipts.GetInstance)
	api.PATCH("/dish-instances/:id", deps.Receipts.UpdateInstance)
	api.DELETE("/dish-instances/:id", deps.Receipts.DeleteInstance)

	api.GET("/dish-photos", deps.Photos.List)
	api.GET("/dish-photos/unlinked", deps.Photos.ListUnlinked)
	api.POST("/dish-photos", deps.Photos.Create)
	api.PATCH("/dish-photos/:id", deps.Photos.UpdateLink)
	api.POST("/dish-photos/:id/like", deps.Social.LikePhoto)
	api.DELETE("/dish-photos/:id/like", deps.Social.UnlikePhoto)
	api.GET("/dish-photos/:id/likes", deps.Social.ListPhotoLikes)

	api.GET("/users", deps.Social.ListUsers)
	api.POST("/users", deps.Social.CreateUser)
	api.GET("/users/search", deps.Social.SearchUsers)
	api.GET("/users/:id", deps.Social.GetUser)
	api.GET("/users/:id/profile", deps.Social.GetProfile)
	api.POST("/users/:id/follow", deps.Social.Follow)
	api.DELETE("/users/:id/follow", deps.Social.Unfollow)
	api.GET("/users/:id/is-following", deps.Social.IsFollowing)
	api.GET("/users/:id/followers", deps.Social.ListFollowers)
	api.GET("/users/:id/following", deps.Social.ListFollowing)

	api.GET("/bookmarks/dishes", deps.Social.ListDishBookmarks)
	api.GET("/bookmarks/restaurants", deps.Social.ListRestaurantBookmarks)

	api.POST("/shares", deps.Social.CreateShare)
	api.POST("/shares/:id/read", deps.Social.MarkShareRead)
	api.DELETE("/shares/:id", deps.Social.DeleteShare)
	api.GET("/inbox", deps.Social.ListInbox)
	api.GET("/feed", deps.Social.GetFeed)

	api.GET("/stats", deps.Stats.Get)

	return r
}
