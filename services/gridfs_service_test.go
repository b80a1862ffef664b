package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDiscoverBuckets(t *testing.T) {
	names := []string{
		"reports.files",
		"reports.chunks",
		"images.files", // no chunks: not a bucket
		"orders",
		"backups.chunks", // no files: not a bucket
		"fs.files",
		"fs.chunks",
	}

	buckets := discoverBuckets(names)
	assert.ElementsMatch(t, []string{"reports", "fs"}, buckets)
}

func TestDiscoverBucketsIgnoresBareSuffixes(t *testing.T) {
	assert.Empty(t, discoverBuckets([]string{".files", ".chunks", "plain"}))
	assert.Empty(t, discoverBuckets(nil))
}

func TestSplitFileMetadata(t *testing.T) {
	contentType, userMeta := splitFileMetadata(bson.M{
		"contentType": "text/csv",
		"owner":       "ops",
	})
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, map[string]interface{}{"owner": "ops"}, userMeta)

	contentType, userMeta = splitFileMetadata(nil)
	assert.Empty(t, contentType)
	assert.Empty(t, userMeta)

	// A non-string contentType is dropped rather than guessed at.
	contentType, _ = splitFileMetadata(bson.M{"contentType": 42})
	assert.Empty(t, contentType)
}

func TestFilterNames(t *testing.T) {
	names := []string{"users", "Orders", "archive"}

	assert.Equal(t, []string{"users"}, filterNames(names, "Us"))
	assert.Equal(t, []string{"Orders"}, filterNames(names, "ord"))
	assert.Equal(t, names, filterNames(names, ""))
	assert.Empty(t, filterNames(names, "zzz"))
}

func TestSortNames(t *testing.T) {
	names := []string{"b", "c", "a"}
	sortNames(names, "asc")
	assert.Equal(t, []string{"a", "b", "c"}, names)

	sortNames(names, "desc")
	assert.Equal(t, []string{"c", "b", "a"}, names)
}
