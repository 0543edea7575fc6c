package routes

import (
	"burrito-rater-api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the REST surface. Paths and verbs match what the
// map/list/admin clients already call.
func SetupRoutes(r *gin.Engine, ratings *handlers.RatingHandler, backups *handlers.BackupHandler, images *handlers.ImageHandler) {
	// ── Ratings ────────────────────────────────────────────────────
	r.GET("/ratings", ratings.List)
	r.GET("/ratings/:id", ratings.Get)
	r.POST("/ratings", ratings.Create)
	r.PUT("/ratings/:id", ratings.Update)
	r.DELETE("/ratings/:id", ratings.Delete)

	// ── Moderation ─────────────────────────────────────────────────
	r.PUT("/ratings/:id/confirm", ratings.Confirm)
	r.POST("/ratings/confirm-bulk", ratings.ConfirmBulk)

	// ── Auxiliary ──────────────────────────────────────────────────
	r.POST("/images", images.Upload)
	r.GET("/backup", backups.Run)
}
