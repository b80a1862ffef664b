package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mongo-manager/models"
)

// metadataContentTypeKey is where the content type lives inside the GridFS
// metadata document; the driver has no top-level field for it.
const metadataContentTypeKey = "contentType"

// gridFile mirrors the schema of a <bucket>.files document.
type gridFile struct {
	ID         primitive.ObjectID `bson:"_id"`
	Filename   string             `bson:"filename"`
	Length     int64              `bson:"length"`
	UploadDate time.Time          `bson:"uploadDate"`
	Metadata   bson.M             `bson:"metadata"`
}

// discoverBuckets derives bucket names from a database's collection names.
// A bucket exists iff both its .files and .chunks collections do; a .files
// collection with no matching .chunks is not a bucket.
func discoverBuckets(collectionNames []string) []string {
	present := make(map[string]bool, len(collectionNames))
	for _, name := range collectionNames {
		present[name] = true
	}

	buckets := make([]string, 0)
	for _, name := range collectionNames {
		base, ok := strings.CutSuffix(name, ".files")
		if !ok || base == "" {
			continue
		}
		if present[base+".chunks"] {
			buckets = append(buckets, base)
		}
	}
	return buckets
}

// splitFileMetadata pulls the stored content type out of the metadata
// document, leaving only the caller-supplied metadata behind.
func splitFileMetadata(meta bson.M) (contentType string, userMeta map[string]interface{}) {
	userMeta = map[string]interface{}{}
	for k, v := range meta {
		if k == metadataContentTypeKey {
			if ct, ok := v.(string); ok {
				contentType = ct
			}
			continue
		}
		userMeta[k] = v
	}
	return contentType, userMeta
}

func (f gridFile) toFileInfo() models.FileInfo {
	contentType, userMeta := splitFileMetadata(f.Metadata)
	return models.FileInfo{
		ID:          f.ID.Hex(),
		Filename:    f.Filename,
		Length:      f.Length,
		ContentType: contentType,
		UploadDate:  f.UploadDate,
		Metadata:    userMeta,
	}
}

func (s *MongoService) bucket(db, name string) (*gridfs.Bucket, error) {
	return gridfs.NewBucket(s.client.Database(db), options.GridFSBucket().SetName(name))
}

func (s *MongoService) filesCollection(db, bucket string) *mongo.Collection {
	return s.client.Database(db).Collection(bucket + ".files")
}

// ListBuckets reports every discovered bucket with its file count and summed
// byte length, aggregated per bucket for the requested page only.
func (s *MongoService) ListBuckets(db, search string, page, pageSize int) (*models.BucketList, error) {
	if _, _, err := paginationWindow(page, pageSize); err != nil {
		return nil, err
	}

	ctx, cancel := opContext(queryTimeout)
	defer cancel()

	names, err := s.client.Database(db).ListCollectionNames(ctx, bson.M{})
	if err != nil {
		log.Printf("[ListBuckets] failed to list collections in %q: %v", db, err)
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	buckets := discoverBuckets(names)
	buckets = filterNames(buckets, search)
	sortNames(buckets, "asc")

	start, end := sliceWindow(len(buckets), page, pageSize)
	infos := make([]models.BucketInfo, 0, end-start)
	for _, name := range buckets[start:end] {
		info := models.BucketInfo{Name: name}

		pipeline := mongo.Pipeline{
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: nil},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "size", Value: bson.D{{Key: "$sum", Value: "$length"}}},
			}}},
		}
		cursor, err := s.filesCollection(db, name).Aggregate(ctx, pipeline)
		if err != nil {
			log.Printf("[ListBuckets] stats aggregation failed for bucket %q in %q: %v", name, db, err)
			infos = append(infos, info)
			continue
		}
		var stats []struct {
			Count int64 `bson:"count"`
			Size  int64 `bson:"size"`
		}
		if err := cursor.All(ctx, &stats); err == nil && len(stats) > 0 {
			info.FilesCount = stats[0].Count
			info.TotalSize = stats[0].Size
		}
		infos = append(infos, info)
	}

	return &models.BucketList{
		Buckets:  infos,
		Total:    len(buckets),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UploadFile stores one blob in the bucket and returns the assigned file id.
// Filename collisions are allowed; each upload is a distinct version.
func (s *MongoService) UploadFile(db, bucketName string, content []byte, filename, contentType string, metadata map[string]interface{}) (string, error) {
	bucket, err := s.bucket(db, bucketName)
	if err != nil {
		return "", fmt.Errorf("failed to open bucket %q: %w", bucketName, err)
	}

	meta := bson.M{}
	for k, v := range metadata {
		meta[k] = v
	}
	if contentType != "" {
		meta[metadataContentTypeKey] = contentType
	}

	id, err := bucket.UploadFromStream(filename, bytes.NewReader(content),
		options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		log.Printf("[UploadFile] failed to upload %q to bucket %q in %q: %v", filename, bucketName, db, err)
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	log.Printf("[UploadFile] uploaded %q (%d bytes) to bucket %q in %q as %s", filename, len(content), bucketName, db, id.Hex())
	return id.Hex(), nil
}

// ListFiles searches filenames case-insensitively, newest upload first.
func (s *MongoService) ListFiles(db, bucketName, search string, page, pageSize int) (*models.FileList, error) {
	skip, limit, err := paginationWindow(page, pageSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opContext(queryTimeout)
	defer cancel()

	filter := bson.M{}
	if search != "" {
		filter["filename"] = primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	}

	files := s.filesCollection(db, bucketName)

	total, err := files.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("[ListFiles] count failed for bucket %q in %q: %v", bucketName, db, err)
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "uploadDate", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := files.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("[ListFiles] find failed for bucket %q in %q: %v", bucketName, db, err)
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	infos := make([]models.FileInfo, 0, limit)
	for cursor.Next(ctx) {
		var f gridFile
		if err := cursor.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode file metadata: %w", err)
		}
		infos = append(infos, f.toFileInfo())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return &models.FileList{
		Files:    infos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *MongoService) GetFileMetadata(db, bucketName, id string) (*models.FileInfo, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opContext(shortOpTimeout)
	defer cancel()

	var f gridFile
	err = s.filesCollection(db, bucketName).FindOne(ctx, bson.M{"_id": oid}).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("file %q %w", id, ErrNotFound)
		}
		log.Printf("[GetFileMetadata] failed to fetch %s from bucket %q in %q: %v", id, bucketName, db, err)
		return nil, fmt.Errorf("failed to get file metadata: %w", err)
	}

	info := f.toFileInfo()
	return &info, nil
}

// DownloadFile materializes the file content. Downloads share a limiter so a
// burst of large fetches cannot starve the rest of the API.
func (s *MongoService) DownloadFile(db, bucketName, id string) (*models.FileDownload, error) {
	info, err := s.GetFileMetadata(db, bucketName, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opContext(transferTimeout)
	defer cancel()
	if err := s.downloadLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("download rate limit: %w", err)
	}

	bucket, err := s.bucket(db, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %q: %w", bucketName, err)
	}

	oid, _ := ParseObjectID(id)
	stream, err := bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, fmt.Errorf("file %q %w", id, ErrNotFound)
		}
		log.Printf("[DownloadFile] failed to open %s in bucket %q in %q: %v", id, bucketName, db, err)
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer stream.Close()

	content, err := io.ReadAll(stream)
	if err != nil {
		log.Printf("[DownloadFile] failed to read %s from bucket %q in %q: %v", id, bucketName, db, err)
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return &models.FileDownload{
		Filename:    info.Filename,
		ContentType: info.ContentType,
		Content:     content,
	}, nil
}

// DownloadFileByName returns the most recently uploaded file with that exact
// filename.
func (s *MongoService) DownloadFileByName(db, bucketName, filename string) (*models.FileDownload, error) {
	ctx, cancel := opContext(transferTimeout)
	defer cancel()
	if err := s.downloadLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("download rate limit: %w", err)
	}

	var f gridFile
	err := s.filesCollection(db, bucketName).FindOne(ctx,
		bson.M{"filename": filename},
		options.FindOne().SetSort(bson.D{{Key: "uploadDate", Value: -1}}),
	).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("file %q %w", filename, ErrNotFound)
		}
		log.Printf("[DownloadFileByName] lookup of %q in bucket %q in %q failed: %v", filename, bucketName, db, err)
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	bucket, err := s.bucket(db, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %q: %w", bucketName, err)
	}

	stream, err := bucket.OpenDownloadStream(f.ID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, fmt.Errorf("file %q %w", filename, ErrNotFound)
		}
		log.Printf("[DownloadFileByName] failed to open %q in bucket %q in %q: %v", filename, bucketName, db, err)
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer stream.Close()

	content, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	contentType, _ := splitFileMetadata(f.Metadata)
	return &models.FileDownload{
		Filename:    f.Filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}

// DeleteFile removes one file, metadata and chunks both. Absence is reported
// as ErrNotFound because delete-by-id distinguishes it.
func (s *MongoService) DeleteFile(db, bucketName, id string) error {
	oid, err := ParseObjectID(id)
	if err != nil {
		return err
	}

	bucket, err := s.bucket(db, bucketName)
	if err != nil {
		return fmt.Errorf("failed to open bucket %q: %w", bucketName, err)
	}

	if err := bucket.Delete(oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("file %q %w", id, ErrNotFound)
		}
		log.Printf("[DeleteFile] failed to delete %s from bucket %q in %q: %v", id, bucketName, db, err)
		return fmt.Errorf("failed to delete file: %w", err)
	}

	log.Printf("[DeleteFile] deleted %s from bucket %q in %q", id, bucketName, db)
	return nil
}

// DeleteFilesByName removes every version stored under the filename and
// returns how many were removed; zero is a valid outcome.
func (s *MongoService) DeleteFilesByName(db, bucketName, filename string) (int64, error) {
	ctx, cancel := opContext(queryTimeout)
	defer cancel()

	cursor, err := s.filesCollection(db, bucketName).Find(ctx,
		bson.M{"filename": filename},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		log.Printf("[DeleteFilesByName] lookup of %q in bucket %q in %q failed: %v", filename, bucketName, db, err)
		return 0, fmt.Errorf("failed to delete files: %w", err)
	}

	var refs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &refs); err != nil {
		return 0, fmt.Errorf("failed to delete files: %w", err)
	}

	bucket, err := s.bucket(db, bucketName)
	if err != nil {
		return 0, fmt.Errorf("failed to open bucket %q: %w", bucketName, err)
	}

	var deleted int64
	for _, ref := range refs {
		if err := bucket.Delete(ref.ID); err != nil {
			if errors.Is(err, gridfs.ErrFileNotFound) {
				continue
			}
			log.Printf("[DeleteFilesByName] failed to delete %s from bucket %q in %q: %v", ref.ID.Hex(), bucketName, db, err)
			return deleted, fmt.Errorf("failed to delete files: %w", err)
		}
		deleted++
	}

	log.Printf("[DeleteFilesByName] deleted %d files named %q from bucket %q in %q", deleted, filename, bucketName, db)
	return deleted, nil
}

// DeleteBucket drops both underlying collections; dropping an absent bucket
// is a no-op.
func (s *MongoService) DeleteBucket(db, bucketName string) error {
	bucket, err := s.bucket(db, bucketName)
	if err != nil {
		return fmt.Errorf("failed to open bucket %q: %w", bucketName, err)
	}

	if err := bucket.Drop(); err != nil {
		log.Printf("[DeleteBucket] failed to drop bucket %q in %q: %v", bucketName, db, err)
		return fmt.Errorf("failed to delete bucket: %w", err)
	}

	log.Printf("[DeleteBucket] dropped bucket %q in %q", bucketName, db)
	return nil
}
