package models

import "time"

// DocumentPayload wraps the fields of a document for insert and update
// requests. Any "_id" key inside Data is ignored; the server always assigns
// identifiers.
type DocumentPayload struct {
	Data map[string]interface{} `json:"data" binding:"required"`
}

// QueryRequest carries a MongoDB filter that is forwarded verbatim to the
// driver, except that a string "_id" is converted to an ObjectID first.
type QueryRequest struct {
	Filter map[string]interface{} `json:"filter"`
}

type DatabaseList struct {
	Databases []string `json:"databases"`
	Total     int      `json:"total"`
	Page      int      `json:"page"`
	PageSize  int      `json:"page_size"`
}

type CollectionInfo struct {
	Name          string `json:"name"`
	DocumentCount int64  `json:"document_count"`
	StorageSize   int64  `json:"storage_size"`
}

type CollectionList struct {
	Collections []CollectionInfo `json:"collections"`
	Total       int              `json:"total"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"`
}

type DocumentPage struct {
	Data     []map[string]interface{} `json:"data"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
}

type BucketInfo struct {
	Name       string `json:"name"`
	FilesCount int64  `json:"files_count"`
	TotalSize  int64  `json:"total_size"`
}

type BucketList struct {
	Buckets  []BucketInfo `json:"buckets"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

type FileInfo struct {
	ID          string                 `json:"file_id"`
	Filename    string                 `json:"filename"`
	Length      int64                  `json:"length"`
	ContentType string                 `json:"content_type"`
	UploadDate  time.Time              `json:"upload_date"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type FileList struct {
	Files    []FileInfo `json:"files"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// FileDownload is the fully materialized content of one GridFS file.
type FileDownload struct {
	Filename    string
	ContentType string
	Content     []byte
}
