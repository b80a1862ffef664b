package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mongo-manager/services"
)

func ListDatabases(c *gin.Context) {
	page, pageSize := paginationParams(c)

	result, err := services.AppMongoService.ListDatabases(
		c.Query("search"),
		c.DefaultQuery("sort", "asc"),
		page, pageSize,
	)
	if err != nil {
		abortWithServiceError(c, err, "Failed to list databases")
		return
	}

	c.JSON(http.StatusOK, result)
}

func CreateDatabase(c *gin.Context) {
	db := c.Param("db")
	collectionName := strings.TrimSpace(c.Query("collection_name"))

	if err := services.AppMongoService.CreateDatabase(db, collectionName); err != nil {
		abortWithServiceError(c, err, "Failed to create database")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Database '%s' created successfully with collection '%s'", db, collectionName),
	})
}

func DeleteDatabase(c *gin.Context) {
	db := c.Param("db")

	if err := services.AppMongoService.DeleteDatabase(db); err != nil {
		abortWithServiceError(c, err, "Failed to delete database")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Database '%s' deleted successfully", db),
	})
}
