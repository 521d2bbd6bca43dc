package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/izwi-app/izwi/internal/constants"
	"github.com/izwi-app/izwi/internal/dto"
	"github.com/izwi-app/izwi/internal/middleware"
	"github.com/izwi-app/izwi/internal/models"
	"github.com/izwi-app/izwi/internal/services"
)

// CommunityHandler serves the define-community flow, the settings
// page, and the admin JSON endpoints.
type CommunityHandler struct {
	communityService *services.CommunityService
	authService      *services.AuthService
	mailer           *services.Mailer
	baseURL          string
}

// NewCommunityHandler creates a new CommunityHandler. baseURL is used
// to build shareable invite links.
func NewCommunityHandler(communityService *services.CommunityService, authService *services.AuthService, mailer *services.Mailer, baseURL string) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
		authService:      authService,
		mailer:           mailer,
		baseURL:          baseURL,
	}
}

// DefineCommunityPage renders the community creation form.
func (h *CommunityHandler) DefineCommunityPage(c *gin.Context) {
	render(c, http.StatusOK, "define_community.html", nil)
}

// DefineCommunity creates a community and makes the current user its
// admin.
func (h *CommunityHandler) DefineCommunity(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	name := c.PostForm("community_name")
	community, err := h.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:         name,
		AdminUserID:  userID,
		BoundaryData: c.PostForm("boundary_data"),
	})
	if err != nil {
		addFlash(c, communityErrorMessage(err))
		c.Redirect(http.StatusSeeOther, "/define-community")
		return
	}

	addFlash(c, fmt.Sprintf("Congratulations! Your community %q has been created successfully.", community.Name), flashKeySuccess)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Join renders the invite landing page for a slug, remembering the
// community for the signup that follows.
func (h *CommunityHandler) Join(c *gin.Context) {
	slug := c.Param("slug")

	community, err := h.communityService.FindByInviteSlug(slug)
	if err != nil {
		addFlash(c, "Invalid invite link")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyInviteCommunityID, community.ID)
	_ = session.Save()

	// Already signed-in users join directly instead of re-registering.
	if userID, ok := session.Get(constants.ContextKeyUserID).(uint64); ok && userID != 0 {
		if _, err := h.communityService.JoinCommunity(slug, userID); err == nil {
			session.Delete(constants.SessionKeyInviteCommunityID)
			_ = session.Save()
			addFlash(c, fmt.Sprintf("You joined %s.", community.Name), flashKeySuccess)
			c.Redirect(http.StatusSeeOther, "/dashboard")
			return
		}
	}

	render(c, http.StatusOK, "landing.html", gin.H{
		"Invite": gin.H{
			"CommunityName": community.Name,
			"Slug":          slug,
		},
	})
}

// Settings shows community info, the member list and the invite link.
func (h *CommunityHandler) Settings(c *gin.Context) {
	user, _ := middleware.GetUser(c)
	community, ok := middleware.GetCommunity(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/define-community")
		return
	}

	members, err := h.communityService.ListMembers(community.ID)
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", errorPage(http.StatusInternalServerError))
		return
	}

	memberDTOs := make([]dto.MemberDTO, len(members))
	for i, m := range members {
		memberDTOs[i] = dto.ToMemberDTO(m, community.AdminUserID)
	}

	boundary := community.BoundaryData
	if boundary == "" {
		boundary = "null"
	}

	render(c, http.StatusOK, "settings.html", gin.H{
		"Community":    community,
		"Members":      memberDTOs,
		"IsAdmin":      user.Role == models.RoleAdmin,
		"InviteURL":    h.inviteURL(community.InviteSlug),
		"CanMail":      h.mailer != nil,
		"BoundaryData": template.JS(boundary),
	})
}

// RemoveMember clears a member's affiliation. Admin only.
func (h *CommunityHandler) RemoveMember(c *gin.Context) {
	user, _ := middleware.GetUser(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		addFlash(c, "Invalid member")
		c.Redirect(http.StatusSeeOther, "/settings")
		return
	}

	if err := h.communityService.RemoveMember(&user, targetID); err != nil {
		addFlash(c, communityErrorMessage(err))
		c.Redirect(http.StatusSeeOther, "/settings")
		return
	}

	addFlash(c, "Member removed successfully", flashKeySuccess)
	c.Redirect(http.StatusSeeOther, "/settings")
}

// UpdateName renames the community. Admin-only JSON endpoint.
func (h *CommunityHandler) UpdateName(c *gin.Context) {
	user, _ := middleware.GetUser(c)
	community, _ := middleware.GetCommunity(c)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonFail(c, http.StatusBadRequest, "Community name is required")
		return
	}

	if _, err := h.communityService.UpdateName(&user, community.ID, req.Name); err != nil {
		jsonFail(c, communityErrorStatus(err), communityErrorMessage(err))
		return
	}

	jsonOK(c, "Community name updated successfully")
}

// UpdateBoundary replaces the boundary geometry. Admin-only JSON
// endpoint; the payload is only checked to be parseable.
func (h *CommunityHandler) UpdateBoundary(c *gin.Context) {
	user, _ := middleware.GetUser(c)
	community, _ := middleware.GetCommunity(c)

	var req struct {
		BoundaryData string `json:"boundary_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.communityService.UpdateBoundary(&user, community.ID, req.BoundaryData); err != nil {
		jsonFail(c, communityErrorStatus(err), communityErrorMessage(err))
		return
	}

	jsonOK(c, "Community boundary updated successfully")
}

// SendInvite mails the invite link to an address. Admin only;
// requires SMTP to be configured.
func (h *CommunityHandler) SendInvite(c *gin.Context) {
	community, _ := middleware.GetCommunity(c)

	if h.mailer == nil {
		addFlash(c, "Email is not configured on this server")
		c.Redirect(http.StatusSeeOther, "/settings")
		return
	}

	to := c.PostForm("email")
	if to == "" {
		addFlash(c, "Email address is required")
		c.Redirect(http.StatusSeeOther, "/settings")
		return
	}

	if err := h.mailer.SendInvite(to, community.Name, h.inviteURL(community.InviteSlug)); err != nil {
		addFlash(c, "Could not send the invitation. Please try again.")
		c.Redirect(http.StatusSeeOther, "/settings")
		return
	}

	addFlash(c, fmt.Sprintf("Invitation sent to %s", to), flashKeySuccess)
	c.Redirect(http.StatusSeeOther, "/settings")
}

func (h *CommunityHandler) inviteURL(slug string) string {
	return fmt.Sprintf("%s/join/%s", h.baseURL, slug)
}

func communityErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrCommunityNameRequired):
		return "Community name is required"
	case errors.Is(err, services.ErrCommunityNameTooLong):
		return "Community name must be less than 100 characters"
	case errors.Is(err, services.ErrCommunityNameTaken):
		return "A community with this name already exists. Please choose a different name."
	case errors.Is(err, services.ErrInvalidBoundaryData):
		return "Invalid boundary data format"
	case errors.Is(err, services.ErrNotCommunityAdmin):
		return "Admin access required"
	case errors.Is(err, services.ErrCannotRemoveYourself):
		return "You cannot remove yourself"
	case errors.Is(err, services.ErrMemberNotFound):
		return "Member not found"
	case errors.Is(err, services.ErrInvalidInviteSlug):
		return "Invalid invite link"
	case errors.Is(err, services.ErrCommunityFull):
		return "This community has reached its member limit"
	default:
		return "Something went wrong. Please try again."
	}
}

func communityErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotCommunityAdmin):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidInviteSlug),
		errors.Is(err, services.ErrCommunityNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrCommunityNameRequired),
		errors.Is(err, services.ErrCommunityNameTooLong),
		errors.Is(err, services.ErrCommunityNameTaken),
		errors.Is(err, services.ErrInvalidBoundaryData):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
