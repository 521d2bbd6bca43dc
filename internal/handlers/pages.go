package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/izwi-app/izwi/internal/constants"
)

// PageHandler serves the static-content pages.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home renders the public landing page.
func (h *PageHandler) Home(c *gin.Context) {
	render(c, http.StatusOK, "home.html", nil)
}

// Privacy renders the privacy policy.
func (h *PageHandler) Privacy(c *gin.Context) {
	render(c, http.StatusOK, "privacy_policy.html", nil)
}

// Terms renders the terms of service.
func (h *PageHandler) Terms(c *gin.Context) {
	render(c, http.StatusOK, "terms_of_service.html", nil)
}

// Welcome greets a user who just joined via an invite, then drops the
// one-shot session flag.
func (h *PageHandler) Welcome(c *gin.Context) {
	session := sessions.Default(c)

	name, ok := session.Get(constants.SessionKeyWelcomeName).(string)
	if !ok || name == "" {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	session.Delete(constants.SessionKeyWelcomeName)
	_ = session.Save()

	render(c, http.StatusOK, "welcome.html", gin.H{
		"UserName": name,
	})
}

// NotFound renders the custom 404 page.
func (h *PageHandler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "error.html", errorPage(http.StatusNotFound))
}
