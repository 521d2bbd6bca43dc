package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/izwi-app/izwi/internal/constants"
	"github.com/izwi-app/izwi/internal/middleware"
	"github.com/izwi-app/izwi/internal/services"
)

// AuthHandler coordinates the signup, login and logout flows.
type AuthHandler struct {
	authService      *services.AuthService
	communityService *services.CommunityService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, communityService *services.CommunityService) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		communityService: communityService,
	}
}

// SignupPage renders the landing page, resolving an invite slug from
// the query string when present.
func (h *AuthHandler) SignupPage(c *gin.Context) {
	data := gin.H{}

	if slug := c.Query("invite"); slug != "" {
		community, err := h.communityService.FindByInviteSlug(slug)
		if err == nil {
			session := sessions.Default(c)
			session.Set(constants.SessionKeyInviteCommunityID, community.ID)
			_ = session.Save()

			data["Invite"] = gin.H{
				"CommunityName": community.Name,
				"Slug":          slug,
			}
		}
	}

	render(c, http.StatusOK, "landing.html", data)
}

// Signup registers a new user from the landing form.
func (h *AuthHandler) Signup(c *gin.Context) {
	if c.PostForm("consent") == "" {
		addFlash(c, "You must agree to the Terms of Service and Privacy Policy to sign up")
		c.Redirect(http.StatusSeeOther, "/signup")
		return
	}

	session := sessions.Default(c)
	var inviteCommunityID *uint64
	if id, ok := session.Get(constants.SessionKeyInviteCommunityID).(uint64); ok {
		inviteCommunityID = &id
	}

	// An invite to a full community still gets an account, just an
	// unaffiliated one. The member limit holds no matter how the user
	// arrives.
	communityFull := false
	if inviteCommunityID != nil {
		hasCapacity, err := h.communityService.HasCapacity(*inviteCommunityID)
		if err != nil || !hasCapacity {
			inviteCommunityID = nil
			communityFull = err == nil
		}
	}

	user, err := h.authService.Signup(services.SignupInput{
		Email:             c.PostForm("email"),
		Password:          c.PostForm("password"),
		Name:              c.PostForm("name"),
		InviteCommunityID: inviteCommunityID,
	})
	if err != nil {
		addFlash(c, signupErrorMessage(err))
		c.Redirect(http.StatusSeeOther, "/signup")
		return
	}

	session.Delete(constants.SessionKeyInviteCommunityID)
	session.Set(constants.ContextKeyUserID, user.ID)

	if inviteCommunityID != nil {
		session.Set(constants.SessionKeyWelcomeName, user.DisplayName())
		if err := session.Save(); err != nil {
			render(c, http.StatusInternalServerError, "error.html", errorPage(http.StatusInternalServerError))
			return
		}
		c.Redirect(http.StatusSeeOther, "/welcome")
		return
	}

	if err := session.Save(); err != nil {
		render(c, http.StatusInternalServerError, "error.html", errorPage(http.StatusInternalServerError))
		return
	}

	if communityFull {
		addFlash(c, "That community has reached its member limit, so you can set up your own instead.")
	}
	addFlash(c, "Welcome! Your account has been created. Let's set up your community.", flashKeySuccess)
	c.Redirect(http.StatusSeeOther, "/define-community")
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(constants.ContextKeyUserID) != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	render(c, http.StatusOK, "login.html", nil)
}

// Login authenticates a user and starts the session.
func (h *AuthHandler) Login(c *gin.Context) {
	user, err := h.authService.Login(services.LoginInput{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	})
	if err != nil {
		// One generic message for unknown email and wrong password.
		addFlash(c, "Invalid email or password")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if c.PostForm("remember") != "" {
		session.Options(sessions.Options{
			Path:     "/",
			MaxAge:   constants.SessionMaxAgeRemember,
			HttpOnly: true,
			Secure:   gin.Mode() == gin.ReleaseMode,
			SameSite: http.SameSiteLaxMode,
		})
	}
	if err := session.Save(); err != nil {
		render(c, http.StatusInternalServerError, "error.html", errorPage(http.StatusInternalServerError))
		return
	}

	addFlash(c, "Welcome back! You have been successfully logged in.", flashKeySuccess)

	if user.CommunityID != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	c.Redirect(http.StatusSeeOther, "/define-community")
}

// Logout clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusSeeOther, "/")
}

// UpdateProfile changes the current user's display name from the
// settings page.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if _, err := h.authService.UpdateProfile(userID, c.PostForm("name"), c.PostForm("avatar_url")); err != nil {
		addFlash(c, "Could not update your profile. Please try again.")
		c.Redirect(http.StatusSeeOther, "/settings")
		return
	}

	addFlash(c, "Profile updated", flashKeySuccess)
	c.Redirect(http.StatusSeeOther, "/settings")
}

// GetCurrentUser returns the authenticated user as JSON.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		jsonFail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		jsonFail(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"name":         user.DisplayName(),
		"community_id": user.CommunityID,
		"role":         user.Role,
	})
}

func signupErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return "Email already registered"
	case errors.Is(err, services.ErrInvalidEmail):
		return "Please enter a valid email address"
	case errors.Is(err, services.ErrPasswordTooShort):
		return "Password must be at least 8 characters long"
	case errors.Is(err, services.ErrEmailRequired):
		return "Email and password are required"
	default:
		return "Could not create your account. Please try again."
	}
}

func errorPage(code int) gin.H {
	titles := map[int]string{
		http.StatusForbidden:           "Access denied",
		http.StatusNotFound:            "Page not found",
		http.StatusTooManyRequests:     "Slow down",
		http.StatusInternalServerError: "Something went wrong",
	}
	messages := map[int]string{
		http.StatusForbidden:           "You don't have permission to view this page.",
		http.StatusNotFound:            "The page you're looking for doesn't exist.",
		http.StatusTooManyRequests:     "Too many requests. Please try again in a moment.",
		http.StatusInternalServerError: "Something went wrong on our side. Please try again.",
	}
	title, ok := titles[code]
	if !ok {
		title = "Error"
	}
	message, ok := messages[code]
	if !ok {
		message = "Something went wrong."
	}
	return gin.H{
		"Code":    code,
		"Title":   title,
		"Message": message,
	}
}
