package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/izwi-app/izwi/internal/constants"
	"github.com/izwi-app/izwi/internal/database"
	"github.com/izwi-app/izwi/internal/models"
)

// RequireCommunity loads the current user and their community into the
// request context. Users without an affiliation are sent to the
// define-community flow, matching the original redirect behavior.
func RequireCommunity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		if user.CommunityID == nil {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Join or create a community first",
				})
				return
			}
			c.Redirect(http.StatusSeeOther, "/define-community")
			c.Abort()
			return
		}

		var community models.Community
		if err := database.GetDB().First(&community, *user.CommunityID).Error; err != nil {
			c.Redirect(http.StatusSeeOther, "/define-community")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyCommunity, community)
		c.Next()
	}
}

// RequireCommunityAdmin checks that the user loaded by
// RequireCommunity administers their community.
func RequireCommunityAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Community access required",
			})
			return
		}

		if user.Role != models.RoleAdmin {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Admin access required",
				})
				return
			}
			c.Redirect(http.StatusSeeOther, "/dashboard")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUser retrieves the user loaded by RequireCommunity.
func GetUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// GetCommunity retrieves the community loaded by RequireCommunity.
func GetCommunity(c *gin.Context) (models.Community, bool) {
	value, exists := c.Get(constants.ContextKeyCommunity)
	if !exists {
		return models.Community{}, false
	}
	community, ok := value.(models.Community)
	return community, ok
}
