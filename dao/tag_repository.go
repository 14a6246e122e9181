package dao

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"lot-backend/db"
	"lot-backend/model"
	"lot-backend/pkg/apperror"
)

type TagRepository struct {
	repository
}

func NewTagRepository(conn *sql.DB, dialect db.Dialect, logger *zap.Logger, opts ...Option) *TagRepository {
	return &TagRepository{repository: newRepository(conn, dialect, logger, opts)}
}

func (r *TagRepository) CreateTag(ctx context.Context, ownerID, name string) (*model.Tag, error) {
	tag, err := r.createTag(ctx, ownerID, name)
	if err != nil {
		return nil, r.failure("TagRepository.CreateTag", err, "Could not create a new tag",
			zap.String("owner_id", ownerID), zap.String("name", name))
	}
	return tag, nil
}

func (r *TagRepository) createTag(ctx context.Context, ownerID, name string) (*model.Tag, error) {
	query, args, err := r.sb.Select("COUNT(*)").From("tags").
		Where(sq.Eq{"owner_id": ownerID, "name": name}).ToSql()
	if err != nil {
		return nil, err
	}
	var existing int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&existing); err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, duplicateTag(name)
	}

	id, err := r.dialect.InsertID(ctx, r.db, r.sb.Insert("tags").Columns("owner_id", "name").Values(ownerID, name))
	if err != nil {
		// lost a race with a concurrent insert of the same name
		if r.dialect.IsUniqueViolation(err) {
			return nil, duplicateTag(name)
		}
		return nil, err
	}
	return &model.Tag{ID: id, Name: name}, nil
}

func (r *TagRepository) GetTags(ctx context.Context, ownerID string, phrase *string) ([]model.Tag, error) {
	preds := sq.And{sq.Eq{"owner_id": ownerID}}
	if phrase != nil {
		preds = append(preds, r.dialect.Contains("name", *phrase))
	}

	tags, err := r.queryTags(ctx, r.sb.Select("id", "name").From("tags").Where(preds).OrderBy("id"))
	if err != nil {
		return nil, r.failure("TagRepository.GetTags", err, "Could not get tags",
			zap.String("owner_id", ownerID))
	}
	return tags, nil
}

func (r *TagRepository) GetTag(ctx context.Context, ownerID string, id int64) (*model.Tag, error) {
	tags, err := r.queryTags(ctx, r.sb.Select("id", "name").From("tags").Where(sq.Eq{"owner_id": ownerID, "id": id}))
	if err != nil {
		return nil, r.failure("TagRepository.GetTag", err, fmt.Sprintf("Could not get a tag with id #%d", id),
			zap.String("owner_id", ownerID), zap.Int64("tag_id", id))
	}
	if len(tags) == 0 {
		return nil, apperror.New(apperror.NotFound, "There is no tag with id %d", id)
	}
	return &tags[0], nil
}

func (r *TagRepository) UpdateTag(ctx context.Context, ownerID string, id int64, name string) (*model.Tag, error) {
	n, err := execAffected(ctx, r.db, r.sb.Update("tags").Set("name", name).Where(sq.Eq{"owner_id": ownerID, "id": id}))
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			err = duplicateTag(name)
		}
	} else if n == 0 {
		err = apperror.New(apperror.NotFound, "There is no tag with id %d", id)
	}
	if err != nil {
		return nil, r.failure("TagRepository.UpdateTag", err, fmt.Sprintf("Could not update a tag with id #%d", id),
			zap.String("owner_id", ownerID), zap.Int64("tag_id", id))
	}
	return &model.Tag{ID: id, Name: name}, nil
}

func (r *TagRepository) DeleteTag(ctx context.Context, ownerID string, id int64) (int64, error) {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		n, err := execAffected(ctx, tx, r.sb.Delete("tags").Where(sq.Eq{"owner_id": ownerID, "id": id}))
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.New(apperror.NotFound, "There is no tag with id %d", id)
		}
		_, err = execAffected(ctx, tx, r.sb.Delete("items_to_tags").Where(sq.Eq{"owner_id": ownerID, "tag_id": id}))
		return err
	})
	if err != nil {
		return 0, r.failure("TagRepository.DeleteTag", err, fmt.Sprintf("Could not delete a tag with id #%d", id),
			zap.String("owner_id", ownerID), zap.Int64("tag_id", id))
	}
	return id, nil
}

func (r *TagRepository) queryTags(ctx context.Context, b sq.SelectBuilder) ([]model.Tag, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

func duplicateTag(name string) error {
	return apperror.New(apperror.Duplication, "The tag named '%s' already exists", name)
}
