package services

import (
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mongo-manager/models"
)

const MaxImportDocuments = 500

// normalizeQueryFilter forwards the filter to the driver untouched except
// for one boundary conversion: a string _id becomes an ObjectID. A string
// that is not valid hex fails with ErrInvalidFilter, not ErrInvalidObjectID,
// because it arrived inside a filter body rather than a path parameter.
func normalizeQueryFilter(filter map[string]interface{}) (bson.M, error) {
	normalized := bson.M{}
	for k, v := range filter {
		normalized[k] = v
	}
	if id, ok := normalized["_id"].(string); ok {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid ObjectId format for _id", ErrInvalidFilter)
		}
		normalized["_id"] = oid
	}
	return normalized, nil
}

func (s *MongoService) InsertDocument(db, col string, data map[string]interface{}) (string, error) {
	data = stripDocumentID(data)

	ctx, cancel := opContext(shortOpTimeout)
	defer cancel()

	res, err := s.client.Database(db).Collection(col).InsertOne(ctx, data)
	if err != nil {
		log.Printf("[InsertDocument] failed to insert into %s.%s: %v", db, col, err)
		return "", fmt.Errorf("failed to insert document: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// QueryDocuments runs an arbitrary filter against the collection. The total
// reflects all matches before the skip/limit window is applied.
func (s *MongoService) QueryDocuments(db, col string, filter map[string]interface{}, sortField string, sortOrder, page, pageSize int) (*models.DocumentPage, error) {
	skip, limit, err := paginationWindow(page, pageSize)
	if err != nil {
		return nil, err
	}
	query, err := normalizeQueryFilter(filter)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opContext(queryTimeout)
	defer cancel()

	collection := s.client.Database(db).Collection(col)

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		log.Printf("[QueryDocuments] count failed on %s.%s: %v", db, col, err)
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	if sortField != "" {
		if sortOrder >= 0 {
			sortOrder = 1
		} else {
			sortOrder = -1
		}
		opts.SetSort(bson.D{{Key: sortField, Value: sortOrder}})
	}

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		log.Printf("[QueryDocuments] find failed on %s.%s: %v", db, col, err)
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	data := make([]map[string]interface{}, 0, limit)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		data = append(data, encodeDocumentID(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	return &models.DocumentPage{
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *MongoService) GetDocument(db, col, id string) (map[string]interface{}, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := opContext(shortOpTimeout)
	defer cancel()

	var doc bson.M
	err = s.client.Database(db).Collection(col).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("document %q %w", id, ErrNotFound)
		}
		log.Printf("[GetDocument] failed to fetch %s from %s.%s: %v", id, db, col, err)
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return encodeDocumentID(doc), nil
}

// UpdateDocument applies a partial $set merge; fields not named in data are
// left untouched. Returns the number of documents actually modified.
func (s *MongoService) UpdateDocument(db, col, id string, data map[string]interface{}) (int64, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return 0, err
	}
	data = stripDocumentID(data)

	ctx, cancel := opContext(shortOpTimeout)
	defer cancel()

	res, err := s.client.Database(db).Collection(col).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": data},
	)
	if err != nil {
		log.Printf("[UpdateDocument] failed to update %s in %s.%s: %v", id, db, col, err)
		return 0, fmt.Errorf("failed to update document: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *MongoService) DeleteDocument(db, col, id string) (int64, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return 0, err
	}

	ctx, cancel := opContext(shortOpTimeout)
	defer cancel()

	res, err := s.client.Database(db).Collection(col).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		log.Printf("[DeleteDocument] failed to delete %s from %s.%s: %v", id, db, col, err)
		return 0, fmt.Errorf("failed to delete document: %w", err)
	}
	return res.DeletedCount, nil
}

// ExportCollection materializes every document with identifiers re-encoded.
// No pagination; collections are expected to fit in memory.
func (s *MongoService) ExportCollection(db, col string) ([]map[string]interface{}, error) {
	ctx, cancel := opContext(queryTimeout)
	defer cancel()

	cursor, err := s.client.Database(db).Collection(col).Find(ctx, bson.M{})
	if err != nil {
		log.Printf("[ExportCollection] failed to read %s.%s: %v", db, col, err)
		return nil, fmt.Errorf("failed to export collection: %w", err)
	}
	defer cursor.Close(ctx)

	exported := make([]map[string]interface{}, 0)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		exported = append(exported, encodeDocumentID(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to export collection: %w", err)
	}

	log.Printf("[ExportCollection] exported %d documents from %s.%s", len(exported), db, col)
	return exported, nil
}

// ImportDocuments inserts up to MaxImportDocuments documents with an
// unordered bulk write, so one bad document does not sink the rest. Returns
// the identifiers assigned to the documents that made it in.
func (s *MongoService) ImportDocuments(db, col string, documents []map[string]interface{}) ([]string, error) {
	if len(documents) > MaxImportDocuments {
		return nil, fmt.Errorf("%w: max %d documents per import, got %d", ErrTooManyDocuments, MaxImportDocuments, len(documents))
	}

	docs := make([]interface{}, 0, len(documents))
	for _, doc := range documents {
		docs = append(docs, stripDocumentID(doc))
	}
	if len(docs) == 0 {
		return []string{}, nil
	}

	ctx, cancel := opContext(queryTimeout)
	defer cancel()

	res, err := s.client.Database(db).Collection(col).InsertMany(ctx, docs,
		options.InsertMany().SetOrdered(false))
	if err != nil {
		var bwe mongo.BulkWriteException
		if !errors.As(err, &bwe) {
			log.Printf("[ImportDocuments] failed to insert into %s.%s: %v", db, col, err)
			return nil, fmt.Errorf("failed to import documents: %w", err)
		}
		log.Printf("[ImportDocuments] partial failure importing into %s.%s: %d write errors", db, col, len(bwe.WriteErrors))
	}

	ids := make([]string, 0, len(documents))
	if res != nil {
		for _, insertedID := range res.InsertedIDs {
			if oid, ok := insertedID.(primitive.ObjectID); ok {
				ids = append(ids, oid.Hex())
			}
		}
	}

	log.Printf("[ImportDocuments] imported %d documents into %s.%s", len(ids), db, col)
	return ids, nil
}
