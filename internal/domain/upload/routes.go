package upload

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts upload CRUD under the given group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	uploads := r.Group("/uploads")
	{
		uploads.POST("", h.Create)
		uploads.GET("", h.List)
		uploads.GET("/:id", h.Get)
		uploads.GET("/:id/download", h.Download)
		uploads.DELETE("/:id", h.Delete)
	}
}
