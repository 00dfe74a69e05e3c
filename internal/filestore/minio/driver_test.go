package minio

import (
	"testing"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestToObjectInfo(t *testing.T) {
	now := time.Now()

	info := toObjectInfo(miniogo.ObjectInfo{
		Key:          "nightly/test.db",
		Size:         8192,
		ContentType:  "application/vnd.sqlite3",
		ETag:         "abc",
		LastModified: now,
	})
	assert.Equal(t, "nightly/test.db", info.Key)
	assert.Equal(t, int64(8192), info.Size)
	assert.Equal(t, now, info.LastModified)
	assert.False(t, info.IsDir)

	assert.True(t, toObjectInfo(miniogo.ObjectInfo{Key: "nightly/"}).IsDir)
}
