package services

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseObjectID converts the external 24-character hex form of an identifier
// to its internal representation. Anything else fails with ErrInvalidObjectID.
func ParseObjectID(s string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidObjectID, s)
	}
	return oid, nil
}

// encodeDocumentID rewrites the document's _id to its hex string so the
// internal representation never reaches a response.
func encodeDocumentID(doc bson.M) bson.M {
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		doc["_id"] = oid.Hex()
	}
	return doc
}

// stripDocumentID drops a client-supplied _id; the database assigns one.
func stripDocumentID(doc map[string]interface{}) map[string]interface{} {
	delete(doc, "_id")
	return doc
}
