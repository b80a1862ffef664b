package controllers

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the full API surface onto the router.
func RegisterRoutes(router *gin.Engine) {
	router.GET("/db", ListDatabases)
	router.POST("/db/:db", CreateDatabase)
	router.DELETE("/db/:db", DeleteDatabase)

	router.GET("/db/:db/col", ListCollections)
	router.POST("/db/:db/col/:col", CreateCollection)
	router.DELETE("/db/:db/col/:col", DeleteCollection)

	router.POST("/db/:db/col/:col/doc", CreateDocument)
	router.POST("/db/:db/col/:col/doc/query", QueryDocuments)
	router.GET("/db/:db/col/:col/doc/:id", GetDocument)
	router.PUT("/db/:db/col/:col/doc/:id", UpdateDocument)
	router.DELETE("/db/:db/col/:col/doc/:id", DeleteDocument)
	router.GET("/db/:db/col/:col/export", ExportCollection)
	router.POST("/db/:db/col/:col/import", ImportDocuments)

	router.GET("/db/:db/gridfs/buckets", ListBuckets)
	router.POST("/db/:db/gridfs/:bucket/upload", UploadFile)
	router.GET("/db/:db/gridfs/:bucket/files", ListFiles)
	router.GET("/db/:db/gridfs/:bucket/file/:id", GetFileMetadata)
	router.GET("/db/:db/gridfs/:bucket/file/:id/download", DownloadFile)
	router.GET("/db/:db/gridfs/:bucket/filename/:name/download", DownloadFileByName)
	router.DELETE("/db/:db/gridfs/:bucket/file/:id", DeleteFile)
	router.DELETE("/db/:db/gridfs/:bucket/filename/:name", DeleteFilesByName)
	router.DELETE("/db/:db/gridfs/:bucket", DeleteBucket)
}
