package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/izwi-app/izwi/internal/middleware"
)

const flashKeySuccess = "success"

// addFlash queues a message shown on the next rendered page.
func addFlash(c *gin.Context, message string, keys ...string) {
	session := sessions.Default(c)
	session.AddFlash(message, keys...)
	_ = session.Save()
}

// render wraps c.HTML, merging the fields every page needs: the CSRF
// token, queued flash messages, and the current user when one is
// loaded.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	session := sessions.Default(c)
	var errorFlashes, successFlashes []string
	for _, f := range session.Flashes() {
		if s, ok := f.(string); ok {
			errorFlashes = append(errorFlashes, s)
		}
	}
	for _, f := range session.Flashes(flashKeySuccess) {
		if s, ok := f.(string); ok {
			successFlashes = append(successFlashes, s)
		}
	}
	_ = session.Save()

	data["Flashes"] = errorFlashes
	data["SuccessFlashes"] = successFlashes
	data["CSRFToken"] = middleware.GetCSRFToken(c)

	if user, ok := middleware.GetUser(c); ok {
		data["CurrentUser"] = user
	}

	c.HTML(status, name, data)
}

// jsonOK and jsonFail shape the {success, message} bodies the client
// script consumes.
func jsonOK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func jsonFail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
