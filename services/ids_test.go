package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseObjectIDRoundTrip(t *testing.T) {
	const hex = "507f1f77bcf86cd799439011"

	oid, err := ParseObjectID(hex)
	require.NoError(t, err)
	assert.Equal(t, hex, oid.Hex())
}

func TestParseObjectIDRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{
		"",
		"not-a-valid-id",
		"507f1f77bcf86cd79943901",   // too short
		"507f1f77bcf86cd7994390111", // too long
		"507f1f77bcf86cd79943901z",  // non-hex character
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseObjectID(input)
			assert.ErrorIs(t, err, ErrInvalidObjectID)
		})
	}
}

func TestEncodeDocumentID(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := encodeDocumentID(bson.M{"_id": oid, "name": "shop"})

	assert.Equal(t, oid.Hex(), doc["_id"])
	assert.Equal(t, "shop", doc["name"])

	// Documents whose _id is not an ObjectID pass through untouched.
	doc = encodeDocumentID(bson.M{"_id": "custom-key"})
	assert.Equal(t, "custom-key", doc["_id"])
}

func TestStripDocumentID(t *testing.T) {
	doc := stripDocumentID(map[string]interface{}{"_id": "x", "a": 1})
	assert.NotContains(t, doc, "_id")
	assert.Equal(t, 1, doc["a"])
}
