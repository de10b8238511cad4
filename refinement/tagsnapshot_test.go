package refinement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

func TestSnapshotFiltersAndSorts(t *testing.T) {
	store := newMemStore()
	store.tags = []models.Tag{
		{Name: "仕事", TagName: "work", DisplayOrder: 2, IsActive: true, IsSendAI: true, Aliases: []string{"job"}, Description: "d2"},
		{Name: "非公開", TagName: "secret", DisplayOrder: 0, IsActive: true, IsSendAI: false},
		{Name: "生活", TagName: "life", DisplayOrder: 1, IsActive: true, IsSendAI: true, Description: "d1"},
		{Name: "旧", TagName: "old", DisplayOrder: 0, IsActive: false, IsSendAI: true},
	}

	got, err := NewTagSnapshotProvider(store).Snapshot(context.Background(), "u1")
	require.NoError(t, err)

	want := `{
  "request_taglist": [
    {
      "name": "生活",
      "tag_name": "life",
      "aliases": [],
      "description": "d1"
    },
    {
      "name": "仕事",
      "tag_name": "work",
      "aliases": [
        "job"
      ],
      "description": "d2"
    }
  ]
}`
	assert.Equal(t, want, got)
}

func TestSnapshotEmpty(t *testing.T) {
	got, err := NewTagSnapshotProvider(newMemStore()).Snapshot(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"request_taglist\": []\n}", got)
}

func TestSnapshotStoreError(t *testing.T) {
	store := newMemStore()
	store.tagsErr = errBoom

	_, err := NewTagSnapshotProvider(store).Snapshot(context.Background(), "u1")
	assert.ErrorIs(t, err, errBoom)
}
