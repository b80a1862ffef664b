package services

import (
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"

	"mongo-manager/models"
)

// ListDatabases filters, sorts and paginates database names in memory; the
// server has no server-side search for them.
func (s *MongoService) ListDatabases(search, sortDir string, page, pageSize int) (*models.DatabaseList, error) {
	if _, _, err := paginationWindow(page, pageSize); err != nil {
		return nil, err
	}

	ctx, cancel := opContext(shortOpTimeout)
	defer cancel()

	names, err := s.client.ListDatabaseNames(ctx, bson.M{})
	if err != nil {
		log.Printf("[ListDatabases] failed to list database names: %v", err)
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	names = filterNames(names, search)
	sortNames(names, sortDir)

	start, end := sliceWindow(len(names), page, pageSize)
	return &models.DatabaseList{
		Databases: names[start:end],
		Total:     len(names),
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// CreateDatabase materializes a new database by creating its initial
// collection. Both names are validated strictly here, unlike on access.
func (s *MongoService) CreateDatabase(name, collectionName string) error {
	if err := validateDatabaseName(name); err != nil {
		return err
	}
	if err := validateCollectionName(collectionName); err != nil {
		return err
	}

	ctx, cancel := opContext(shortOpTimeout)
	defer cancel()

	existing, err := s.client.ListDatabaseNames(ctx, bson.M{})
	if err != nil {
		log.Printf("[CreateDatabase] failed to check existing databases: %v", err)
		return fmt.Errorf("failed to create database %q: %w", name, err)
	}
	for _, db := range existing {
		if db == name {
			return fmt.Errorf("database %q %w", name, ErrAlreadyExists)
		}
	}

	if err := s.client.Database(name).CreateCollection(ctx, collectionName); err != nil {
		log.Printf("[CreateDatabase] failed to create %s.%s: %v", name, collectionName, err)
		return fmt.Errorf("failed to create database %q: %w", name, err)
	}

	log.Printf("[CreateDatabase] created database %q with collection %q", name, collectionName)
	return nil
}

// DeleteDatabase drops the database and everything in it. Dropping an absent
// database is a no-op on the server, so the call is idempotent.
func (s *MongoService) DeleteDatabase(name string) error {
	if name == "" {
		return &ValidationError{Name: name, Reason: "database name cannot be empty"}
	}

	ctx, cancel := opContext(queryTimeout)
	defer cancel()

	if err := s.client.Database(name).Drop(ctx); err != nil {
		log.Printf("[DeleteDatabase] failed to drop %q: %v", name, err)
		return fmt.Errorf("failed to delete database %q: %w", name, err)
	}

	log.Printf("[DeleteDatabase] dropped database %q", name)
	return nil
}
