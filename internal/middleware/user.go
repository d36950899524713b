package middleware

import (
	"github.com/gin-gonic/gin"

	"dishlog/internal/social"
)

// CurrentUser resolves the acting user for the request. There is no
// authentication layer; the X-User-ID header selects the user and absent
// headers fall back to the seeded test user.
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = social.TestUserID
		}
		c.Set("userID", userID)
		c.Next()
	}
}
