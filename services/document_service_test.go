package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizeQueryFilterConvertsStringID(t *testing.T) {
	const hex = "507f1f77bcf86cd799439011"

	normalized, err := normalizeQueryFilter(map[string]interface{}{"_id": hex, "sku": "A1"})
	require.NoError(t, err)

	oid, ok := normalized["_id"].(primitive.ObjectID)
	require.True(t, ok, "string _id should become an ObjectID")
	assert.Equal(t, hex, oid.Hex())
	assert.Equal(t, "A1", normalized["sku"])
}

func TestNormalizeQueryFilterRejectsBadID(t *testing.T) {
	_, err := normalizeQueryFilter(map[string]interface{}{"_id": "not-a-valid-id"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestNormalizeQueryFilterPassesThroughOtherShapes(t *testing.T) {
	// Non-string _id values (operator documents, ObjectIDs) are forwarded
	// verbatim; the service does not interpret them.
	oid := primitive.NewObjectID()
	normalized, err := normalizeQueryFilter(map[string]interface{}{
		"_id": map[string]interface{}{"$in": []interface{}{oid}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"$in": []interface{}{oid}}, normalized["_id"])

	normalized, err = normalizeQueryFilter(nil)
	require.NoError(t, err)
	assert.Empty(t, normalized)
}

func TestNormalizeQueryFilterDoesNotMutateInput(t *testing.T) {
	filter := map[string]interface{}{"_id": "507f1f77bcf86cd799439011"}
	_, err := normalizeQueryFilter(filter)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", filter["_id"])
}

func TestImportDocumentsRejectsOversizedBatchBeforeDatabase(t *testing.T) {
	// The limit check runs before any driver call, so a service without a
	// client must still reject the batch cleanly.
	s := NewMongoService(nil)

	docs := make([]map[string]interface{}, MaxImportDocuments+1)
	for i := range docs {
		docs[i] = map[string]interface{}{"n": i}
	}

	_, err := s.ImportDocuments("shop", "orders", docs)
	assert.ErrorIs(t, err, ErrTooManyDocuments)
}

func TestImportDocumentsEmptyBatch(t *testing.T) {
	s := NewMongoService(nil)

	ids, err := s.ImportDocuments("shop", "orders", nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListOperationsRejectPaginationBeforeDatabase(t *testing.T) {
	s := NewMongoService(nil)

	_, err := s.ListDatabases("", "asc", 1, 101)
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, err = s.ListCollections("shop", "", "asc", 0, 10)
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, err = s.QueryDocuments("shop", "orders", nil, "", 1, 1, 200)
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, err = s.ListBuckets("shop", "", 1, -1)
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, err = s.ListFiles("shop", "reports", "", 1, 101)
	assert.ErrorIs(t, err, ErrInvalidPagination)
}
