package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mongo-manager/services"
)

func ListCollections(c *gin.Context) {
	page, pageSize := paginationParams(c)

	result, err := services.AppMongoService.ListCollections(
		c.Param("db"),
		c.Query("search"),
		c.DefaultQuery("sort", "asc"),
		page, pageSize,
	)
	if err != nil {
		abortWithServiceError(c, err, "Failed to list collections")
		return
	}

	c.JSON(http.StatusOK, result)
}

func CreateCollection(c *gin.Context) {
	db := c.Param("db")
	col := c.Param("col")

	if err := services.AppMongoService.CreateCollection(db, col); err != nil {
		abortWithServiceError(c, err, "Failed to create collection")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Collection '%s' created successfully in DB '%s'", col, db),
	})
}

func DeleteCollection(c *gin.Context) {
	db := c.Param("db")
	col := c.Param("col")

	if err := services.AppMongoService.DeleteCollection(db, col); err != nil {
		abortWithServiceError(c, err, "Failed to delete collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Collection '%s' deleted successfully from DB '%s'", col, db),
	})
}
