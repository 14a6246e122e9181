package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"lot-backend/model"
)

type TagRepository interface {
	CreateTag(ctx context.Context, ownerID, name string) (*model.Tag, error)
	GetTags(ctx context.Context, ownerID string, phrase *string) ([]model.Tag, error)
	GetTag(ctx context.Context, ownerID string, id int64) (*model.Tag, error)
	UpdateTag(ctx context.Context, ownerID string, id int64, name string) (*model.Tag, error)
	DeleteTag(ctx context.Context, ownerID string, id int64) (int64, error)
}

type TagUsecase struct {
	tagRepo TagRepository
	logger  *zap.Logger
}

func NewTagUsecase(tagRepo TagRepository, logger *zap.Logger) *TagUsecase {
	return &TagUsecase{tagRepo: tagRepo, logger: logger}
}

func (u *TagUsecase) CreateTag(ctx context.Context, ownerID, name string) (*model.Tag, error) {
	if err := errors.Join(validateOwner(ownerID), validateName("tag name", name)); err != nil {
		return nil, reject(u.logger, "TagUsecase.CreateTag", err)
	}
	return u.tagRepo.CreateTag(ctx, ownerID, name)
}

func (u *TagUsecase) GetTags(ctx context.Context, ownerID string, phrase *string) ([]model.Tag, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, reject(u.logger, "TagUsecase.GetTags", err)
	}
	return u.tagRepo.GetTags(ctx, ownerID, phrase)
}

func (u *TagUsecase) GetTag(ctx context.Context, ownerID string, id int64) (*model.Tag, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, reject(u.logger, "TagUsecase.GetTag", err)
	}
	return u.tagRepo.GetTag(ctx, ownerID, id)
}

func (u *TagUsecase) UpdateTag(ctx context.Context, ownerID string, id int64, name string) (*model.Tag, error) {
	if err := errors.Join(validateOwner(ownerID), validateName("tag name", name)); err != nil {
		return nil, reject(u.logger, "TagUsecase.UpdateTag", err)
	}
	return u.tagRepo.UpdateTag(ctx, ownerID, id, name)
}

func (u *TagUsecase) DeleteTag(ctx context.Context, ownerID string, id int64) (int64, error) {
	if err := validateOwner(ownerID); err != nil {
		return 0, reject(u.logger, "TagUsecase.DeleteTag", err)
	}
	return u.tagRepo.DeleteTag(ctx, ownerID, id)
}
