package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"lot-backend/model"
	"lot-backend/pkg/apperror"
)

type ItemRepository interface {
	CreateItem(ctx context.Context, ownerID string, in model.NewItem) (*model.Item, error)
	GetItems(ctx context.Context, ownerID string, opt model.FilterOption) (*model.PaginatedData[model.Item], error)
	GetItem(ctx context.Context, ownerID string, id int64) (*model.Item, error)
	UpdateItem(ctx context.Context, ownerID string, id int64, patch model.ItemPatch) (*model.Item, error)
	DeleteItem(ctx context.Context, ownerID string, id int64) (int64, error)
}

type ItemUsecase struct {
	itemRepo ItemRepository
	logger   *zap.Logger
}

func NewItemUsecase(itemRepo ItemRepository, logger *zap.Logger) *ItemUsecase {
	return &ItemUsecase{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

func (u *ItemUsecase) CreateItem(ctx context.Context, ownerID string, in model.NewItem) (*model.Item, error) {
	err := errors.Join(
		validateOwner(ownerID),
		validateName("name", in.Name),
		validateCurrency(in.CurrencyCode),
		validateLifeSpan(in.LifeSpan),
		validateValue(in.Value),
		validateTags(in.Tags),
	)
	if err != nil {
		return nil, u.rejected("CreateItem", err)
	}
	return u.itemRepo.CreateItem(ctx, ownerID, in)
}

func (u *ItemUsecase) GetItems(ctx context.Context, ownerID string, opt model.FilterOption) (*model.PaginatedData[model.Item], error) {
	err := errors.Join(
		validateOwner(ownerID),
		validateRange("purchased time", opt.PurchasedAtRange),
		validateRange("value", opt.ValueRange),
		validateRange("life span", opt.LifeSpanRange),
		validateRange("current value", opt.CurrentValueRange),
		validateRange("life span left", opt.LifeSpanLeftRange),
	)
	if err == nil && opt.CurrencyCode != nil {
		err = validateCurrency(*opt.CurrencyCode)
	}
	if err != nil {
		return nil, u.rejected("GetItems", err)
	}
	return u.itemRepo.GetItems(ctx, ownerID, opt)
}

func (u *ItemUsecase) GetItem(ctx context.Context, ownerID string, id int64) (*model.Item, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, u.rejected("GetItem", err)
	}
	item, err := u.itemRepo.GetItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.New(apperror.NotFound, "There is no item with id %d", id)
	}
	return item, nil
}

func (u *ItemUsecase) UpdateItem(ctx context.Context, ownerID string, id int64, patch model.ItemPatch) (*model.Item, error) {
	errs := []error{validateOwner(ownerID), validateTags(patch.Tags)}
	if patch.Name != nil {
		errs = append(errs, validateName("name", *patch.Name))
	}
	if patch.CurrencyCode != nil {
		errs = append(errs, validateCurrency(*patch.CurrencyCode))
	}
	if patch.LifeSpan != nil {
		errs = append(errs, validateLifeSpan(*patch.LifeSpan))
	}
	if patch.Value != nil {
		errs = append(errs, validateValue(*patch.Value))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, u.rejected("UpdateItem", err)
	}
	return u.itemRepo.UpdateItem(ctx, ownerID, id, patch)
}

func (u *ItemUsecase) DeleteItem(ctx context.Context, ownerID string, id int64) (int64, error) {
	if err := validateOwner(ownerID); err != nil {
		return 0, u.rejected("DeleteItem", err)
	}
	return u.itemRepo.DeleteItem(ctx, ownerID, id)
}

func (u *ItemUsecase) rejected(op string, err error) error {
	return reject(u.logger, "ItemUsecase."+op, err)
}

// reject returns the first validation failure of a joined error.
func reject(logger *zap.Logger, op string, err error) error {
	logger.Debug("rejected arguments", zap.String("op", op), zap.Error(err))
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return err
}
