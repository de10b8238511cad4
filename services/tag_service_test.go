package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

func TestCreateTagAppendsDisplayOrder(t *testing.T) {
	store := &fakeTagStore{}
	svc := NewTagService(store)
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", TagInput{TagName: "life", Name: "生活", IsActive: true, IsSendAI: true})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "u1", TagInput{TagName: " work ", Aliases: []string{"job", "job"}})
	require.NoError(t, err)

	assert.Equal(t, 0, first.DisplayOrder)
	assert.Equal(t, 1, second.DisplayOrder)
	assert.Equal(t, "work", second.TagName)
	assert.Equal(t, []string{"job"}, second.Aliases)
}

func TestCreateTagRejectsDuplicateName(t *testing.T) {
	store := &fakeTagStore{tags: []models.Tag{{ID: 1, UserID: "u1", TagName: "Life"}}}
	_, err := NewTagService(store).Create(context.Background(), "u1", TagInput{TagName: "life"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 다른 사용자는 같은 이름을 쓸 수 있다.
	_, err = NewTagService(store).Create(context.Background(), "u2", TagInput{TagName: "life"})
	assert.NoError(t, err)
}

func TestUpdateTagKeepsDisplayOrder(t *testing.T) {
	store := &fakeTagStore{tags: []models.Tag{{ID: 1, UserID: "u1", TagName: "life", DisplayOrder: 4}}}
	svc := NewTagService(store)

	got, err := svc.Update(context.Background(), "u1", 1, TagInput{TagName: "daily", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, 4, got.DisplayOrder)
	assert.Equal(t, "daily", store.tags[0].TagName)

	_, err = svc.Update(context.Background(), "u2", 1, TagInput{TagName: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(context.Background(), "u1", 1, TagInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReorderRejectsDuplicateIDs(t *testing.T) {
	store := &fakeTagStore{}
	svc := NewTagService(store)

	err := svc.Reorder(context.Background(), "u1", []models.TagOrder{{ID: 1, DisplayOrder: 0}, {ID: 1, DisplayOrder: 1}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, store.orders)

	orders := []models.TagOrder{{ID: 2, DisplayOrder: 0}, {ID: 1, DisplayOrder: 1}}
	require.NoError(t, svc.Reorder(context.Background(), "u1", orders))
	assert.Equal(t, orders, store.orders)
}

func TestTagSnapshotThroughService(t *testing.T) {
	store := &fakeTagStore{tags: []models.Tag{
		{ID: 1, UserID: "u1", TagName: "work", Name: "仕事", DisplayOrder: 1, IsActive: true, IsSendAI: true},
		{ID: 2, UserID: "u1", TagName: "life", Name: "生活", DisplayOrder: 0, IsActive: true, IsSendAI: true},
		{ID: 3, UserID: "u1", TagName: "secret", DisplayOrder: 2, IsActive: true, IsSendAI: false},
	}}

	snapshot, err := NewTagService(store).Snapshot(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, snapshot, `"request_taglist"`)
	assert.Less(t, strings.Index(snapshot, `"life"`), strings.Index(snapshot, `"work"`))
	assert.NotContains(t, snapshot, "secret")
}
