package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"mongo-manager/models"
	"mongo-manager/services"
)

func ListBuckets(c *gin.Context) {
	page, pageSize := paginationParams(c)

	result, err := services.AppMongoService.ListBuckets(c.Param("db"), c.Query("search"), page, pageSize)
	if err != nil {
		abortWithServiceError(c, err, "Failed to list GridFS buckets")
		return
	}

	c.JSON(http.StatusOK, result)
}

func UploadFile(c *gin.Context) {
	bucket := c.Param("bucket")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}

	metadata := map[string]interface{}{}
	if raw := c.DefaultPostForm("metadata", "{}"); raw != "{}" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON metadata"})
			return
		}
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

	contentType := fileHeader.Header.Get("Content-Type")
	fileID, err := services.AppMongoService.UploadFile(c.Param("db"), bucket, content, fileHeader.Filename, contentType, metadata)
	if err != nil {
		abortWithServiceError(c, err, "Failed to upload file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     fmt.Sprintf("File '%s' uploaded successfully to bucket '%s'", fileHeader.Filename, bucket),
		"file_id":     fileID,
		"bucket_name": bucket,
	})
}

func ListFiles(c *gin.Context) {
	page, pageSize := paginationParams(c)

	result, err := services.AppMongoService.ListFiles(c.Param("db"), c.Param("bucket"), c.Query("search"), page, pageSize)
	if err != nil {
		abortWithServiceError(c, err, "Failed to list files")
		return
	}

	c.JSON(http.StatusOK, result)
}

func GetFileMetadata(c *gin.Context) {
	info, err := services.AppMongoService.GetFileMetadata(c.Param("db"), c.Param("bucket"), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to get file metadata")
		return
	}

	c.JSON(http.StatusOK, info)
}

func DownloadFile(c *gin.Context) {
	download, err := services.AppMongoService.DownloadFile(c.Param("db"), c.Param("bucket"), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to download file")
		return
	}

	serveDownload(c, download)
}

func DownloadFileByName(c *gin.Context) {
	download, err := services.AppMongoService.DownloadFileByName(c.Param("db"), c.Param("bucket"), c.Param("name"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to download file")
		return
	}

	serveDownload(c, download)
}

func serveDownload(c *gin.Context, download *models.FileDownload) {
	contentType := download.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", download.Filename))
	c.Data(http.StatusOK, contentType, download.Content)
}

func DeleteFile(c *gin.Context) {
	id := c.Param("id")
	bucket := c.Param("bucket")

	if err := services.AppMongoService.DeleteFile(c.Param("db"), bucket, id); err != nil {
		abortWithServiceError(c, err, "Failed to delete file")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("File with ID %s deleted successfully from bucket '%s'", id, bucket),
	})
}

func DeleteFilesByName(c *gin.Context) {
	filename := c.Param("name")
	bucket := c.Param("bucket")

	deleted, err := services.AppMongoService.DeleteFilesByName(c.Param("db"), bucket, filename)
	if err != nil {
		abortWithServiceError(c, err, "Failed to delete files")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No files found with that filename"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Deleted %d files named '%s' from bucket '%s'", deleted, filename, bucket),
	})
}

func DeleteBucket(c *gin.Context) {
	bucket := c.Param("bucket")

	if err := services.AppMongoService.DeleteBucket(c.Param("db"), bucket); err != nil {
		abortWithServiceError(c, err, "Failed to delete bucket")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Bucket '%s' deleted successfully from DB '%s'", bucket, c.Param("db")),
	})
}
