package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lot-backend/model"
	"lot-backend/pkg/apperror"
)

type fakeItemRepo struct {
	calls int
	item  *model.Item
}

func (f *fakeItemRepo) CreateItem(_ context.Context, ownerID string, in model.NewItem) (*model.Item, error) {
	f.calls++
	return &model.Item{ID: 1, OwnerID: ownerID, Name: in.Name}, nil
}

func (f *fakeItemRepo) GetItems(context.Context, string, model.FilterOption) (*model.PaginatedData[model.Item], error) {
	f.calls++
	return &model.PaginatedData[model.Item]{Data: []model.Item{}}, nil
}

func (f *fakeItemRepo) GetItem(context.Context, string, int64) (*model.Item, error) {
	f.calls++
	return f.item, nil
}

func (f *fakeItemRepo) UpdateItem(_ context.Context, _ string, id int64, _ model.ItemPatch) (*model.Item, error) {
	f.calls++
	return &model.Item{ID: id}, nil
}

func (f *fakeItemRepo) DeleteItem(_ context.Context, _ string, id int64) (int64, error) {
	f.calls++
	return id, nil
}

type fakeTagRepo struct {
	calls int
}

func (f *fakeTagRepo) CreateTag(_ context.Context, _, name string) (*model.Tag, error) {
	f.calls++
	return &model.Tag{ID: 1, Name: name}, nil
}

func (f *fakeTagRepo) GetTags(context.Context, string, *string) ([]model.Tag, error) {
	f.calls++
	return []model.Tag{}, nil
}

func (f *fakeTagRepo) GetTag(_ context.Context, _ string, id int64) (*model.Tag, error) {
	f.calls++
	return &model.Tag{ID: id}, nil
}

func (f *fakeTagRepo) UpdateTag(_ context.Context, _ string, id int64, name string) (*model.Tag, error) {
	f.calls++
	return &model.Tag{ID: id, Name: name}, nil
}

func (f *fakeTagRepo) DeleteTag(_ context.Context, _ string, id int64) (int64, error) {
	f.calls++
	return id, nil
}

func ptr[T any](v T) *T {
	return &v
}

func validItem() model.NewItem {
	return model.NewItem{
		Name:         "camera",
		PurchasedAt:  1700000000,
		Value:        1200,
		CurrencyCode: "USD",
		LifeSpan:     31536000,
		Tags:         []model.Tag{{ID: model.NewTagID, Name: "photo"}, {ID: 3}},
	}
}

func TestCreateItemValidation(t *testing.T) {
	cases := map[string]func(*model.NewItem){
		"empty name":      func(in *model.NewItem) { in.Name = "  " },
		"lower currency":  func(in *model.NewItem) { in.CurrencyCode = "usd" },
		"long currency":   func(in *model.NewItem) { in.CurrencyCode = "USDT" },
		"zero life span":  func(in *model.NewItem) { in.LifeSpan = 0 },
		"negative value":  func(in *model.NewItem) { in.Value = -1 },
		"unnamed new tag": func(in *model.NewItem) { in.Tags = []model.Tag{{ID: model.NewTagID}} },
		"invalid tag id":  func(in *model.NewItem) { in.Tags = []model.Tag{{ID: 0}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &fakeItemRepo{}
			u := NewItemUsecase(repo, zaptest.NewLogger(t))
			in := validItem()
			mutate(&in)

			_, err := u.CreateItem(context.Background(), "owner", in)
			require.Error(t, err)
			assert.Equal(t, apperror.Argument, apperror.KindOf(err))
			assert.Zero(t, repo.calls)
		})
	}
}

func TestCreateItemPassesThrough(t *testing.T) {
	repo := &fakeItemRepo{}
	u := NewItemUsecase(repo, zaptest.NewLogger(t))

	item, err := u.CreateItem(context.Background(), "owner", validItem())
	require.NoError(t, err)
	assert.Equal(t, "camera", item.Name)
	assert.Equal(t, 1, repo.calls)

	_, err = u.CreateItem(context.Background(), "", validItem())
	assert.True(t, apperror.Is(err, apperror.Argument))
	assert.Equal(t, 1, repo.calls)
}

func TestGetItemsRejectsInvertedRange(t *testing.T) {
	repo := &fakeItemRepo{}
	u := NewItemUsecase(repo, zaptest.NewLogger(t))

	_, err := u.GetItems(context.Background(), "owner", model.FilterOption{
		LifeSpanLeftRange: &model.Range[int64]{Min: ptr(int64(10)), Max: ptr(int64(5))},
	})
	assert.True(t, apperror.Is(err, apperror.Argument))

	_, err = u.GetItems(context.Background(), "owner", model.FilterOption{CurrencyCode: ptr("eur")})
	assert.True(t, apperror.Is(err, apperror.Argument))
	assert.Zero(t, repo.calls)

	page, err := u.GetItems(context.Background(), "owner", model.FilterOption{
		ValueRange: &model.Range[float64]{Min: ptr(5.0), Max: ptr(5.0)},
	})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
}

func TestGetItemMissingIsNotFound(t *testing.T) {
	repo := &fakeItemRepo{}
	u := NewItemUsecase(repo, zaptest.NewLogger(t))

	_, err := u.GetItem(context.Background(), "owner", 9)
	assert.True(t, apperror.Is(err, apperror.NotFound))

	repo.item = &model.Item{ID: 9}
	item, err := u.GetItem(context.Background(), "owner", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), item.ID)
}

func TestUpdateItemValidatesPresentFieldsOnly(t *testing.T) {
	repo := &fakeItemRepo{}
	u := NewItemUsecase(repo, zaptest.NewLogger(t))

	_, err := u.UpdateItem(context.Background(), "owner", 1, model.ItemPatch{IsArchived: ptr(true)})
	require.NoError(t, err)

	_, err = u.UpdateItem(context.Background(), "owner", 1, model.ItemPatch{LifeSpan: ptr(int64(-5))})
	assert.True(t, apperror.Is(err, apperror.Argument))
	assert.Equal(t, 1, repo.calls)
}

func TestTagUsecaseValidation(t *testing.T) {
	repo := &fakeTagRepo{}
	u := NewTagUsecase(repo, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := u.CreateTag(ctx, "owner", "")
	assert.True(t, apperror.Is(err, apperror.Argument))
	_, err = u.UpdateTag(ctx, "owner", 1, " ")
	assert.True(t, apperror.Is(err, apperror.Argument))
	_, err = u.GetTags(ctx, "", nil)
	assert.True(t, apperror.Is(err, apperror.Argument))
	assert.Zero(t, repo.calls)

	tag, err := u.CreateTag(ctx, "owner", "rare")
	require.NoError(t, err)
	assert.Equal(t, "rare", tag.Name)
	id, err := u.DeleteTag(ctx, "owner", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
	assert.Equal(t, 2, repo.calls)
}
