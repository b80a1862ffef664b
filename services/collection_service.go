package services

import (
	"fmt"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"mongo-manager/models"
)

// isUserCollection excludes server-internal collections and the two
// collections backing each GridFS bucket from collection listings.
func isUserCollection(name string) bool {
	return !strings.HasPrefix(name, "system.") &&
		!strings.HasSuffix(name, ".files") &&
		!strings.HasSuffix(name, ".chunks")
}

// ListCollections lists user collections with document count and approximate
// storage size, filtered/sorted/paginated like database listing. Stats come
// from collStats and are fetched only for the page being returned.
func (s *MongoService) ListCollections(db, search, sortDir string, page, pageSize int) (*models.CollectionList, error) {
	if _, _, err := paginationWindow(page, pageSize); err != nil {
		return nil, err
	}

	ctx, cancel := opContext(queryTimeout)
	defer cancel()

	names, err := s.client.Database(db).ListCollectionNames(ctx, bson.M{})
	if err != nil {
		log.Printf("[ListCollections] failed to list collections in %q: %v", db, err)
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	user := make([]string, 0, len(names))
	for _, name := range names {
		if isUserCollection(name) {
			user = append(user, name)
		}
	}

	user = filterNames(user, search)
	sortNames(user, sortDir)

	start, end := sliceWindow(len(user), page, pageSize)
	infos := make([]models.CollectionInfo, 0, end-start)
	for _, name := range user[start:end] {
		info := models.CollectionInfo{Name: name}

		var stats struct {
			Count       int64 `bson:"count"`
			StorageSize int64 `bson:"storageSize"`
		}
		res := s.client.Database(db).RunCommand(ctx, bson.D{{Key: "collStats", Value: name}})
		if err := res.Decode(&stats); err != nil {
			log.Printf("[ListCollections] collStats failed for %s.%s: %v", db, name, err)
		} else {
			info.DocumentCount = stats.Count
			info.StorageSize = stats.StorageSize
		}
		infos = append(infos, info)
	}

	return &models.CollectionList{
		Collections: infos,
		Total:       len(user),
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

func (s *MongoService) CreateCollection(db, name string) error {
	if err := validateCollectionName(name); err != nil {
		return err
	}

	ctx, cancel := opContext(shortOpTimeout)
	defer cancel()

	existing, err := s.client.Database(db).ListCollectionNames(ctx, bson.M{})
	if err != nil {
		log.Printf("[CreateCollection] failed to check collections in %q: %v", db, err)
		return fmt.Errorf("failed to create collection %q: %w", name, err)
	}
	for _, col := range existing {
		if col == name {
			return fmt.Errorf("collection %q %w", name, ErrAlreadyExists)
		}
	}

	if err := s.client.Database(db).CreateCollection(ctx, name); err != nil {
		log.Printf("[CreateCollection] failed to create %s.%s: %v", db, name, err)
		return fmt.Errorf("failed to create collection %q: %w", name, err)
	}

	log.Printf("[CreateCollection] created %s.%s", db, name)
	return nil
}

// DeleteCollection drops the collection; dropping an absent one is a no-op.
func (s *MongoService) DeleteCollection(db, name string) error {
	ctx, cancel := opContext(queryTimeout)
	defer cancel()

	if err := s.client.Database(db).Collection(name).Drop(ctx); err != nil {
		log.Printf("[DeleteCollection] failed to drop %s.%s: %v", db, name, err)
		return fmt.Errorf("failed to delete collection %q: %w", name, err)
	}

	log.Printf("[DeleteCollection] dropped %s.%s", db, name)
	return nil
}
