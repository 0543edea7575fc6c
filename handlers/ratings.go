package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"burrito-rater-api/repository"
	"burrito-rater-api/services"

	"github.com/gin-gonic/gin"
)

// RatingHandler exposes the rating store over HTTP. It holds the service by
// value injection; there is no package-level state.
type RatingHandler struct {
	Service *services.RatingService
}

func NewRatingHandler(service *services.RatingService) *RatingHandler {
	return &RatingHandler{Service: service}
}

// writeError maps the service error taxonomy onto HTTP statuses. Validation
// messages pass through verbatim; the client shows them to the end user.
func writeError(c *gin.Context, err error) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// List returns ratings newest-first, optionally filtered by zipcode,
// confirmed flag, and row limit.
func (h *RatingHandler) List(c *gin.Context) {
	var filter repository.ListFilter

	filter.Zipcode = c.Query("zipcode")

	if confirmed := c.Query("confirmed"); confirmed != "" {
		switch confirmed {
		case "1", "true":
			v := true
			filter.Confirmed = &v
		case "0", "false":
			v := false
			filter.Confirmed = &v
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid confirmed filter"})
			return
		}
	}

	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = n
	}

	ratings, err := h.Service.List(filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

func (h *RatingHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rating, err := h.Service.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Create handles public submissions: required-field validation, CAPTCHA,
// geofence, then persist unconfirmed.
func (h *RatingHandler) Create(c *gin.Context) {
	var input services.CreateRatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	rating, err := h.Service.Create(c.Request.Context(), input, c.ClientIP())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}

func (h *RatingHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rating, err := h.Service.Update(id, payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Service.Confirm(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating confirmed successfully"})
}

type confirmBulkRequest struct {
	IDs []uint `json:"ids"`
}

// ConfirmBulk confirms a batch of ids and reports how many rows changed.
func (h *RatingHandler) ConfirmBulk(c *gin.Context) {
	var req confirmBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing rating IDs"})
		return
	}

	count, err := h.Service.ConfirmBulk(req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Ratings confirmed successfully",
		"count":   count,
	})
}

func (h *RatingHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted successfully"})
}
