package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskforge/internal/models"
	"taskforge/internal/pdf"
	"taskforge/internal/services"
)

type AnalyticsHandler struct {
	service     services.AnalyticsService
	userService services.UserService
	reports     pdf.Generator
}

func NewAnalyticsHandler(service services.AnalyticsService, userService services.UserService, reports pdf.Generator) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, userService: userService, reports: reports}
}

// @Summary      Task counts grouped by status and priority
// @Tags         Analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Overview
// @Router       /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	userID := getUserID(c)

	overview, err := h.service.Overview(c.Request.Context(), userID)
	if err != nil {
		abortServiceError(c, "analytics", "overview", err)
		return
	}
	if overview.ByStatus == nil {
		overview.ByStatus = []models.StatusCount{}
	}
	if overview.ByPriority == nil {
		overview.ByPriority = []models.PriorityCount{}
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary      Totals, completion rate and overdue count
// @Tags         Analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.UserPerformance
// @Router       /analytics/user-performance [get]
func (h *AnalyticsHandler) UserPerformance(c *gin.Context) {
	userID := getUserID(c)

	perf, err := h.service.UserPerformance(c.Request.Context(), userID)
	if err != nil {
		abortServiceError(c, "analytics", "user-performance", err)
		return
	}
	c.JSON(http.StatusOK, perf)
}

// @Summary      Tasks created per calendar day
// @Tags         Analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.TrendPoint
// @Router       /analytics/trends [get]
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	userID := getUserID(c)

	trends, err := h.service.Trends(c.Request.Context(), userID)
	if err != nil {
		abortServiceError(c, "analytics", "trends", err)
		return
	}
	if trends == nil {
		trends = []models.TrendPoint{}
	}
	c.JSON(http.StatusOK, trends)
}

// @Summary      Created vs currently-done per creation day
// @Tags         Analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.CompletionTrendPoint
// @Router       /analytics/completion-trends [get]
func (h *AnalyticsHandler) CompletionTrends(c *gin.Context) {
	userID := getUserID(c)

	trends, err := h.service.CompletionTrends(c.Request.Context(), userID)
	if err != nil {
		abortServiceError(c, "analytics", "completion-trends", err)
		return
	}
	if trends == nil {
		trends = []models.CompletionTrendPoint{}
	}
	c.JSON(http.StatusOK, trends)
}

// @Summary      PDF summary of overview and performance
// @Tags         Analytics
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200
// @Router       /analytics/report [get]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	userID := getUserID(c)
	ctx := c.Request.Context()

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	overview, err := h.service.Overview(ctx, userID)
	if err != nil {
		abortServiceError(c, "analytics", "report", err)
		return
	}
	perf, err := h.service.UserPerformance(ctx, userID)
	if err != nil {
		abortServiceError(c, "analytics", "report", err)
		return
	}

	report, err := h.reports.AnalyticsReport(pdf.ReportData{
		UserName:    user.Name,
		UserEmail:   user.Email,
		Overview:    *overview,
		Performance: *perf,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		log.Printf("[analytics][report][err] render: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}

	log.Printf("[analytics][report][ok] userID=%d bytes=%d", userID, len(report))
	c.Header("Content-Disposition", `attachment; filename=analytics.pdf`)
	c.Data(http.StatusOK, "application/pdf", report)
}
