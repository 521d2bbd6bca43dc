package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/izwi-app/izwi/internal/dto"
	"github.com/izwi-app/izwi/internal/geo"
	"github.com/izwi-app/izwi/internal/middleware"
	"github.com/izwi-app/izwi/internal/models"
	"github.com/izwi-app/izwi/internal/services"
)

// AlertHandler serves the dashboard feed, alert posting, and the JSON
// endpoints the map script calls.
type AlertHandler struct {
	alertService *services.AlertService
	aiService    *services.AIService
}

// NewAlertHandler creates a new AlertHandler. aiService may be nil
// when no API key is configured.
func NewAlertHandler(alertService *services.AlertService, aiService *services.AIService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
		aiService:    aiService,
	}
}

// Dashboard renders the alert feed and the map. The map data is
// embedded as an inline JSON snapshot rather than fetched separately.
func (h *AlertHandler) Dashboard(c *gin.Context) {
	community, ok := middleware.GetCommunity(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/define-community")
		return
	}

	alerts, err := h.alertService.ListAlerts(community.ID)
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", errorPage(http.StatusInternalServerError))
		return
	}

	snapshot, err := geo.EncodeSnapshot(geo.BuildMapSnapshot(alerts, community.BoundaryData))
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", errorPage(http.StatusInternalServerError))
		return
	}

	render(c, http.StatusOK, "dashboard.html", gin.H{
		"Community":   community,
		"Alerts":      dto.ToAlertDTOs(alerts),
		"MapSnapshot": template.JS(snapshot),
	})
}

// PostAlertPage renders the alert form.
func (h *AlertHandler) PostAlertPage(c *gin.Context) {
	render(c, http.StatusOK, "post_alert.html", gin.H{
		"Categories":  models.AlertCategories,
		"AISuggested": h.aiService != nil,
	})
}

// PostAlert records a new alert for the current community.
func (h *AlertHandler) PostAlert(c *gin.Context) {
	user, _ := middleware.GetUser(c)
	community, ok := middleware.GetCommunity(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/define-community")
		return
	}

	_, err := h.alertService.PostAlert(services.PostAlertInput{
		CommunityID: community.ID,
		UserID:      user.ID,
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Latitude:    c.PostForm("latitude"),
		Longitude:   c.PostForm("longitude"),
	})
	if err != nil {
		addFlash(c, alertErrorMessage(err))
		c.Redirect(http.StatusSeeOther, "/post-alert")
		return
	}

	addFlash(c, "Alert posted successfully!", flashKeySuccess)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// ReportAlert flags an alert for moderation review and answers the
// client script with a {success} JSON body.
func (h *AlertHandler) ReportAlert(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		jsonFail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req struct {
		AlertID uint64 `json:"alert_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonFail(c, http.StatusBadRequest, "Alert ID is required")
		return
	}

	if err := h.alertService.ReportAlert(&user, req.AlertID); err != nil {
		jsonFail(c, alertErrorStatus(err), alertErrorMessage(err))
		return
	}

	jsonOK(c, "Report submitted successfully")
}

// ResolveAlert marks an alert resolved. Idempotent: resolving an
// already-resolved alert still answers success.
func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		jsonFail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req struct {
		AlertID uint64 `json:"alert_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonFail(c, http.StatusBadRequest, "Alert ID is required")
		return
	}

	if err := h.alertService.ResolveAlert(&user, req.AlertID); err != nil {
		jsonFail(c, alertErrorStatus(err), alertErrorMessage(err))
		return
	}

	jsonOK(c, "Alert marked as resolved")
}

// SuggestCategory asks the AI service to classify a draft
// description. 503 when no API key is configured.
func (h *AlertHandler) SuggestCategory(c *gin.Context) {
	if h.aiService == nil {
		jsonFail(c, http.StatusServiceUnavailable, "Category suggestion is not available")
		return
	}

	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonFail(c, http.StatusBadRequest, "Description is required")
		return
	}

	category, err := h.aiService.SuggestCategory(c.Request.Context(), req.Description)
	if err != nil {
		jsonFail(c, http.StatusServiceUnavailable, "Could not suggest a category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

func alertErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrAlertFieldsRequired):
		return "Category and description are required"
	case errors.Is(err, services.ErrInvalidCategory):
		return "Please choose a valid category"
	case errors.Is(err, services.ErrDescriptionTooLong):
		return "Description must be less than 500 characters"
	case errors.Is(err, services.ErrMonthlyAlertLimit):
		return "Your community has reached its monthly alert limit"
	case errors.Is(err, services.ErrAlertNotFound):
		return "Alert not found"
	case errors.Is(err, services.ErrNotAlertCommunity):
		return "You can only act on alerts in your own community"
	default:
		return "An error occurred while processing the alert"
	}
}

func alertErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrAlertNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotAlertCommunity):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAlertFieldsRequired),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrDescriptionTooLong),
		errors.Is(err, services.ErrMonthlyAlertLimit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
