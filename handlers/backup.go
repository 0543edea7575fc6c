package handlers

import (
	"net/http"

	"burrito-rater-api/backup"

	"github.com/gin-gonic/gin"
)

// BackupHandler triggers a manual backup. It always answers with a Result
// body; failures surface as success=false plus a 500, never as a panic.
type BackupHandler struct {
	Service *backup.Service
}

func NewBackupHandler(service *backup.Service) *BackupHandler {
	return &BackupHandler{Service: service}
}

func (h *BackupHandler) Run(c *gin.Context) {
	result := h.Service.Run(c.Request.Context(), backup.TriggerManual)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result)
}
