package handlers

import (
	"log"
	"net/http"

	"hotel-pipeline/internal/pipeline"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AdminHandler exposes dataset statistics and manual pipeline triggers
type AdminHandler struct {
	pipeline *pipeline.Pipeline
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(p *pipeline.Pipeline) *AdminHandler {
	return &AdminHandler{pipeline: p}
}

// Health reports database liveness
func (h *AdminHandler) Health(c *gin.Context) {
	if _, _, _, err := h.pipeline.Stats(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetStats returns current dataset row counts
func (h *AdminHandler) GetStats(c *gin.Context) {
	customers, bookings, logs, err := h.pipeline.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":    customers,
		"bookings":     bookings,
		"support_logs": logs,
	})
}

// TriggerCleanup runs the retention cleanup and returns the deletion counts
func (h *AdminHandler) TriggerCleanup(c *gin.Context) {
	log.Println("Admin: manual cleanup trigger requested")

	result, err := h.pipeline.Cleanup()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// TriggerWeekly runs the weekly pipeline in the background
func (h *AdminHandler) TriggerWeekly(c *gin.Context) {
	log.Println("Admin: manual weekly pipeline trigger requested")

	// Run in goroutine to avoid blocking the request
	go func() {
		if err := h.pipeline.RunWeekly(); err != nil {
			log.Printf("Admin: weekly pipeline failed: %v", err)
		} else {
			log.Println("Admin: weekly pipeline completed successfully")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": "Weekly pipeline started"})
}

// TriggerAudit runs the quality gate over the existing dataset
func (h *AdminHandler) TriggerAudit(c *gin.Context) {
	log.Println("Admin: quality audit requested")

	if err := h.pipeline.Audit(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Router builds the gin engine with all admin routes registered
func Router(p *pipeline.Pipeline) *gin.Engine {
	h := NewAdminHandler(p)

	r := gin.Default()
	r.Use(cors.Default())
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/stats", h.GetStats)
		admin := api.Group("/admin")
		{
			admin.POST("/cleanup", h.TriggerCleanup)
			admin.POST("/pipeline/weekly", h.TriggerWeekly)
			admin.POST("/audit", h.TriggerAudit)
		}
	}

	return r
}
