package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lot-backend/model"
	"lot-backend/pkg/apperror"
)

func TestCreateTagTwiceIsDuplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag, err := f.tags.CreateTag(ctx, f.owner, "rare")
	require.NoError(t, err)
	assert.Positive(t, tag.ID)

	_, err = f.tags.CreateTag(ctx, f.owner, "rare")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.Duplication))
	assert.Equal(t, 1, f.count(t, "SELECT COUNT(*) FROM tags WHERE owner_id = ? AND name = ?", f.owner, "rare"))

	// names are unique per owner only
	_, err = f.tags.CreateTag(ctx, "another owner", "rare")
	assert.NoError(t, err)
}

func TestGetTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tags, err := f.tags.GetTags(ctx, f.owner, nil)
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)

	for _, name := range []string{"vintage", "Vinyl", "tools"} {
		_, err := f.tags.CreateTag(ctx, f.owner, name)
		require.NoError(t, err)
	}

	tags, err = f.tags.GetTags(ctx, f.owner, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"vintage", "Vinyl", "tools"}, tagNames(tags))

	tags, err = f.tags.GetTags(ctx, f.owner, ptr("in"))
	require.NoError(t, err)
	assert.Equal(t, []string{"vintage", "Vinyl"}, tagNames(tags))

	tags, err = f.tags.GetTags(ctx, f.owner, ptr("vin"))
	require.NoError(t, err)
	assert.Equal(t, []string{"vintage"}, tagNames(tags))
}

func TestGetTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.tags.CreateTag(ctx, f.owner, "gift")
	require.NoError(t, err)

	got, err := f.tags.GetTag(ctx, f.owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = f.tags.GetTag(ctx, "stranger", created.ID)
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestUpdateTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.tags.CreateTag(ctx, f.owner, "a")
	require.NoError(t, err)
	_, err = f.tags.CreateTag(ctx, f.owner, "b")
	require.NoError(t, err)

	renamed, err := f.tags.UpdateTag(ctx, f.owner, a.ID, "c")
	require.NoError(t, err)
	assert.Equal(t, &model.Tag{ID: a.ID, Name: "c"}, renamed)

	_, err = f.tags.UpdateTag(ctx, f.owner, a.ID, "b")
	assert.True(t, apperror.Is(err, apperror.Duplication))

	_, err = f.tags.UpdateTag(ctx, f.owner, a.ID+100, "z")
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestDeleteTagCascadesMappings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag, err := f.tags.CreateTag(ctx, f.owner, "shared")
	require.NoError(t, err)
	other, err := f.tags.CreateTag(ctx, f.owner, "other")
	require.NoError(t, err)
	first, err := f.items.CreateItem(ctx, f.owner, newItem("one", 1, *tag, *other))
	require.NoError(t, err)
	_, err = f.items.CreateItem(ctx, f.owner, newItem("two", 2, *tag))
	require.NoError(t, err)

	id, err := f.tags.DeleteTag(ctx, f.owner, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, tag.ID, id)
	assert.Zero(t, f.count(t, "SELECT COUNT(*) FROM items_to_tags WHERE owner_id = ? AND tag_id = ?", f.owner, tag.ID))

	got, err := f.items.GetItem(ctx, f.owner, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Tag{*other}, got.Tags)

	_, err = f.tags.DeleteTag(ctx, f.owner, tag.ID)
	assert.True(t, apperror.Is(err, apperror.NotFound))
}
