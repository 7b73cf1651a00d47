package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinioStorage_PublicURLRoundTrip(t *testing.T) {
	storage, err := NewMinioStorage("localhost:9000", "key", "secret", false, "http://cdn.oona.test/")
	require.NoError(t, err)

	url := storage.PublicURL("menu-images", "menu-items/1700000000000-abc12345.png")
	assert.Equal(t, "http://cdn.oona.test/menu-images/menu-items/1700000000000-abc12345.png", url)

	object, ok := storage.ObjectFromURL("menu-images", url)
	assert.True(t, ok)
	assert.Equal(t, "menu-items/1700000000000-abc12345.png", object)

	_, ok = storage.ObjectFromURL("menu-images", "https://elsewhere.test/pic.png")
	assert.False(t, ok)
}

func TestPublicReadPolicy(t *testing.T) {
	policy := publicReadPolicy("menu-images")
	assert.Contains(t, policy, `"arn:aws:s3:::menu-images/*"`)
	assert.Contains(t, policy, `"s3:GetObject"`)
}
