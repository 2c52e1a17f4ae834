package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"server": "golang",
	})
}

// RegisterRoutes mounts the portal API on r
func RegisterRoutes(r gin.IRouter, h *ApprovalHandler) {
	r.GET("/health", Health)

	api := r.Group("/api")
	{
		processes := api.Group("/processes")
		{
			processes.GET("", h.ListProcesses)
			processes.GET("/:type/tabs", h.GetTabs)
		}

		records := api.Group("/records")
		{
			records.GET("", h.ListRecords)
			records.POST("", h.SubmitRecord)
			records.GET("/:id", h.GetRecord)
			records.POST("/:id/approve", h.Approve)
			records.POST("/:id/reject", h.Reject)
			records.POST("/:id/cancel", h.Cancel)
		}
	}
}
