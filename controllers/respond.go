package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mongo-manager/services"
)

// abortWithServiceError maps the service error taxonomy onto HTTP statuses.
// Taxonomy errors carry client-safe messages; anything else is logged and
// replaced by the fallback so raw driver errors never leak.
func abortWithServiceError(c *gin.Context, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, services.ErrInvalidObjectID),
		errors.Is(err, services.ErrInvalidPagination),
		errors.Is(err, services.ErrInvalidFilter),
		errors.Is(err, services.ErrTooManyDocuments):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// paginationParams reads page/page_size with the original defaults. Garbage
// values come back as zero and are rejected by the service before any
// database access.
func paginationParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}

func sortParams(c *gin.Context) (sortField string, sortOrder int) {
	sortField = c.Query("sort_field")
	sortOrder, err := strconv.Atoi(c.DefaultQuery("sort_order", "1"))
	if err != nil {
		sortOrder = 1
	}
	return sortField, sortOrder
}
