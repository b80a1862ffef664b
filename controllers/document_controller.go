package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mongo-manager/models"
	"mongo-manager/services"
)

func CreateDocument(c *gin.Context) {
	var payload models.DocumentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := services.AppMongoService.InsertDocument(c.Param("db"), c.Param("col"), payload.Data)
	if err != nil {
		abortWithServiceError(c, err, "Failed to insert document")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     fmt.Sprintf("Document inserted with ID: %s", id),
		"inserted_id": id,
	})
}

func QueryDocuments(c *gin.Context) {
	var req models.QueryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	page, pageSize := paginationParams(c)
	sortField, sortOrder := sortParams(c)

	result, err := services.AppMongoService.QueryDocuments(
		c.Param("db"), c.Param("col"),
		req.Filter, sortField, sortOrder, page, pageSize,
	)
	if err != nil {
		abortWithServiceError(c, err, "Failed to query documents")
		return
	}

	c.JSON(http.StatusOK, result)
}

func GetDocument(c *gin.Context) {
	doc, err := services.AppMongoService.GetDocument(c.Param("db"), c.Param("col"), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve document")
		return
	}

	c.JSON(http.StatusOK, doc)
}

func UpdateDocument(c *gin.Context) {
	var payload models.DocumentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	modified, err := services.AppMongoService.UpdateDocument(c.Param("db"), c.Param("col"), id, payload.Data)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update document")
		return
	}
	if modified == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found or not modified"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Document with ID %s updated successfully", id),
	})
}

func DeleteDocument(c *gin.Context) {
	id := c.Param("id")
	deleted, err := services.AppMongoService.DeleteDocument(c.Param("db"), c.Param("col"), id)
	if err != nil {
		abortWithServiceError(c, err, "Failed to delete document")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Document with ID %s deleted successfully", id),
	})
}

func ExportCollection(c *gin.Context) {
	docs, err := services.AppMongoService.ExportCollection(c.Param("db"), c.Param("col"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to export collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// ImportDocuments accepts a JSON file holding either a bare array of
// documents or the export format {"documents": [...]}.
func ImportDocuments(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	if !strings.HasSuffix(fileHeader.Filename, ".json") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JSON files are supported"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}

	documents, err := parseImportPayload(content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids, err := services.AppMongoService.ImportDocuments(c.Param("db"), c.Param("col"), documents)
	if err != nil {
		abortWithServiceError(c, err, "Failed to import documents")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        fmt.Sprintf("Imported %d documents successfully", len(ids)),
		"imported_count": len(ids),
	})
}

func parseImportPayload(content []byte) ([]map[string]interface{}, error) {
	var payload interface{}
	if err := json.Unmarshal(content, &payload); err != nil {
		return nil, fmt.Errorf("Invalid JSON format")
	}

	var raw []interface{}
	switch v := payload.(type) {
	case []interface{}:
		raw = v
	case map[string]interface{}:
		inner, ok := v["documents"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("JSON must be either an array of documents or contain a 'documents' key")
		}
		raw = inner
	default:
		return nil, fmt.Errorf("JSON must be either an array of documents or contain a 'documents' key")
	}

	documents := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		doc, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("every imported document must be a JSON object")
		}
		documents = append(documents, doc)
	}
	return documents, nil
}
