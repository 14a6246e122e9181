package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lot-backend/db"
	"lot-backend/model"
	"lot-backend/pkg/apperror"
)

type ItemRepository struct {
	repository
}

func NewItemRepository(conn *sql.DB, dialect db.Dialect, logger *zap.Logger, opts ...Option) *ItemRepository {
	return &ItemRepository{repository: newRepository(conn, dialect, logger, opts)}
}

func (r *ItemRepository) CreateItem(ctx context.Context, ownerID string, in model.NewItem) (*model.Item, error) {
	now := r.now()
	stamp := r.dialect.FormatTime(now.Unix())

	item := &model.Item{
		OwnerID:      ownerID,
		Name:         in.Name,
		Alias:        in.Alias,
		Description:  in.Description,
		AddedAt:      now.Unix(),
		UpdatedAt:    now.Unix(),
		PurchasedAt:  in.PurchasedAt,
		Value:        in.Value,
		CurrencyCode: in.CurrencyCode,
		LifeSpan:     in.LifeSpan,
		Tags:         []model.Tag{},
	}

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		insertItem := r.sb.Insert("items").
			Columns("owner_id", "name", "alias", "description", "added_at", "updated_at", "purchased_at",
				"value", "currency_code", "life_span", "is_favorite", "is_archived").
			Values(ownerID, in.Name, in.Alias, in.Description, stamp, stamp, r.dialect.FormatTime(in.PurchasedAt),
				in.Value, in.CurrencyCode, in.LifeSpan, false, false)
		id, err := r.dialect.InsertID(ctx, tx, insertItem)
		if err != nil {
			return err
		}
		item.ID = id

		for _, tag := range in.Tags {
			if tag.IsNew() {
				tagID, err := r.dialect.InsertID(ctx, tx, r.sb.Insert("tags").Columns("owner_id", "name").Values(ownerID, tag.Name))
				if err != nil {
					return fmt.Errorf("could not create a new tag '%s': %w", tag.Name, err)
				}
				tag.ID = tagID
			} else {
				tag, err = r.existingTag(ctx, tx, ownerID, tag.ID)
				if err != nil {
					return err
				}
			}
			if err := r.mapTag(ctx, tx, model.ItemTagMapping{OwnerID: ownerID, ItemID: id, TagID: tag.ID}); err != nil {
				return err
			}
			item.Tags = append(item.Tags, tag)
		}
		return nil
	})
	if err != nil {
		return nil, r.failure("ItemRepository.CreateItem", err, "Could not create a new item",
			zap.String("owner_id", ownerID))
	}

	model.Depreciate(item.Value, item.PurchasedAt, item.LifeSpan, now).Apply(item)
	return item, nil
}

func (r *ItemRepository) GetItems(ctx context.Context, ownerID string, opt model.FilterOption) (*model.PaginatedData[model.Item], error) {
	plan, err := planPage(r.dialect, opt.Cursor)
	if err != nil {
		return nil, err
	}
	now := r.now().Unix()

	inner := selectItems(r.dialect, now).Where(buildPredicates(r.dialect, ownerID, opt, now))
	var page sq.SelectBuilder
	if plan.computed {
		page = r.sb.Select("*").FromSelect(inner, "c")
	} else {
		page = inner.PlaceholderFormat(r.dialect.Placeholder())
	}
	if plan.keyset != nil {
		page = page.Where(plan.keyset)
	}
	page = page.OrderBy(plan.orderBy()).Limit(pageSize)

	var (
		items []model.Item
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = queryItems(gctx, r.db, page)
		return err
	})
	g.Go(func() error {
		query, args, err := r.sb.Select("COUNT(*)").From("items").Where(sq.Eq{"owner_id": ownerID}).ToSql()
		if err != nil {
			return err
		}
		return r.db.QueryRowContext(gctx, query, args...).Scan(&total)
	})
	err = g.Wait()
	if err == nil {
		err = r.attachTags(ctx, r.db, ownerID, items)
	}
	if err != nil {
		return nil, r.failure("ItemRepository.GetItems", err, "Could not get items",
			zap.String("owner_id", ownerID))
	}

	result := &model.PaginatedData[model.Item]{Total: total, Data: items}
	if len(items) > 0 {
		result.Cursor = cursorOf(plan.base, items[len(items)-1])
	}
	return result, nil
}

// GetItem returns nil, nil when the owner has no item with this id.
func (r *ItemRepository) GetItem(ctx context.Context, ownerID string, id int64) (*model.Item, error) {
	item, err := r.findItem(ctx, r.db, ownerID, id)
	if err != nil {
		return nil, r.failure("ItemRepository.GetItem", err, fmt.Sprintf("Could not get an item #%d", id),
			zap.String("owner_id", ownerID), zap.Int64("item_id", id))
	}
	return item, nil
}

// UpdateItem toggles the mappings of patch.Tags: a listed tag that is already
// mapped is unmapped, any other is mapped.
func (r *ItemRepository) UpdateItem(ctx context.Context, ownerID string, id int64, patch model.ItemPatch) (*model.Item, error) {
	update := r.sb.Update("items")
	if patch.Name != nil {
		update = update.Set("name", *patch.Name)
	}
	if patch.Alias != nil {
		update = update.Set("alias", *patch.Alias)
	}
	if patch.Description != nil {
		update = update.Set("description", *patch.Description)
	}
	if patch.PurchasedAt != nil {
		update = update.Set("purchased_at", r.dialect.FormatTime(*patch.PurchasedAt))
	}
	if patch.Value != nil {
		update = update.Set("value", *patch.Value)
	}
	if patch.CurrencyCode != nil {
		update = update.Set("currency_code", *patch.CurrencyCode)
	}
	if patch.LifeSpan != nil {
		update = update.Set("life_span", *patch.LifeSpan)
	}
	if patch.IsFavorite != nil {
		update = update.Set("is_favorite", *patch.IsFavorite)
	}
	if patch.IsArchived != nil {
		update = update.Set("is_archived", *patch.IsArchived)
	}
	update = update.Set("updated_at", r.dialect.FormatTime(r.now().Unix())).
		Where(sq.Eq{"owner_id": ownerID, "id": id})

	var item *model.Item
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		n, err := execAffected(ctx, tx, update)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.New(apperror.NotFound, "There is no item with id %d", id)
		}

		if len(patch.Tags) > 0 {
			if err := r.toggleTags(ctx, tx, ownerID, id, patch.Tags); err != nil {
				return err
			}
		}

		item, err = r.findItem(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.New(apperror.NotFound, "There is no item with id %d", id)
		}
		return nil
	})
	if err != nil {
		return nil, r.failure("ItemRepository.UpdateItem", err, fmt.Sprintf("Could not update an item #%d", id),
			zap.String("owner_id", ownerID), zap.Int64("item_id", id))
	}
	return item, nil
}

// DeleteItem removes the item and its tag mappings. Removing no mapping
// counts as the item not existing.
func (r *ItemRepository) DeleteItem(ctx context.Context, ownerID string, id int64) (int64, error) {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		n, err := execAffected(ctx, tx, r.sb.Delete("items_to_tags").Where(sq.Eq{"owner_id": ownerID, "item_id": id}))
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.New(apperror.NotFound, "There is no mapping for item with id %d", id)
		}

		n, err = execAffected(ctx, tx, r.sb.Delete("items").Where(sq.Eq{"owner_id": ownerID, "id": id}))
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.New(apperror.NotFound, "There is no item with id %d", id)
		}
		return nil
	})
	if err != nil {
		return 0, r.failure("ItemRepository.DeleteItem", err, fmt.Sprintf("Could not delete an item #%d", id),
			zap.String("owner_id", ownerID), zap.Int64("item_id", id))
	}
	return id, nil
}

func (r *ItemRepository) findItem(ctx context.Context, run db.Runner, ownerID string, id int64) (*model.Item, error) {
	query := selectItems(r.dialect, r.now().Unix()).
		Where(sq.Eq{"i.owner_id": ownerID}).
		Where(sq.Eq{"i.id": id}).
		PlaceholderFormat(r.dialect.Placeholder())
	items, err := queryItems(ctx, run, query)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil // Not found
	}
	if err := r.attachTags(ctx, run, ownerID, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r *ItemRepository) mapTag(ctx context.Context, run db.Runner, m model.ItemTagMapping) error {
	_, err := execAffected(ctx, run, r.sb.Insert("items_to_tags").
		Columns("owner_id", "item_id", "tag_id").
		Values(m.OwnerID, m.ItemID, m.TagID))
	return err
}

func (r *ItemRepository) toggleTags(ctx context.Context, tx *sql.Tx, ownerID string, itemID int64, tags []model.Tag) error {
	query, args, err := r.sb.Select("tag_id").From("items_to_tags").
		Where(sq.Eq{"owner_id": ownerID, "item_id": itemID}).ToSql()
	if err != nil {
		return err
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	mapped := map[int64]bool{}
	for rows.Next() {
		var tagID int64
		if err := rows.Scan(&tagID); err != nil {
			rows.Close()
			return err
		}
		mapped[tagID] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, tag := range tags {
		if tag.IsNew() {
			tagID, err := r.findOrCreateTag(ctx, tx, ownerID, tag.Name)
			if err != nil {
				return err
			}
			if mapped[tagID] {
				continue
			}
			if err := r.mapTag(ctx, tx, model.ItemTagMapping{OwnerID: ownerID, ItemID: itemID, TagID: tagID}); err != nil {
				return err
			}
			mapped[tagID] = true
			continue
		}

		if !mapped[tag.ID] {
			if _, err := r.existingTag(ctx, tx, ownerID, tag.ID); err != nil {
				return err
			}
			if err := r.mapTag(ctx, tx, model.ItemTagMapping{OwnerID: ownerID, ItemID: itemID, TagID: tag.ID}); err != nil {
				return err
			}
			mapped[tag.ID] = true
			continue
		}

		// already mapped: remove it
		_, err := execAffected(ctx, tx, r.sb.Delete("items_to_tags").
			Where(sq.Eq{"owner_id": ownerID, "item_id": itemID, "tag_id": tag.ID}))
		if err != nil {
			return err
		}
		delete(mapped, tag.ID)
	}
	return nil
}

func (r *ItemRepository) existingTag(ctx context.Context, tx *sql.Tx, ownerID string, id int64) (model.Tag, error) {
	query, args, err := r.sb.Select("id", "name").From("tags").Where(sq.Eq{"owner_id": ownerID, "id": id}).ToSql()
	if err != nil {
		return model.Tag{}, err
	}
	var tag model.Tag
	err = tx.QueryRowContext(ctx, query, args...).Scan(&tag.ID, &tag.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Tag{}, apperror.New(apperror.NotFound, "There is no tag with id %d", id)
	}
	return tag, err
}

func (r *ItemRepository) findOrCreateTag(ctx context.Context, tx *sql.Tx, ownerID, name string) (int64, error) {
	query, args, err := r.sb.Select("id").From("tags").Where(sq.Eq{"owner_id": ownerID, "name": name}).ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return r.dialect.InsertID(ctx, tx, r.sb.Insert("tags").Columns("owner_id", "name").Values(ownerID, name))
}

func (r *ItemRepository) attachTags(ctx context.Context, run db.Runner, ownerID string, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	index := make(map[int64]int, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = i
	}

	query, args, err := r.sb.Select("itt.item_id", "t.id", "t.name").
		From("items_to_tags itt").
		Join("tags t ON t.owner_id = itt.owner_id AND t.id = itt.tag_id").
		Where(sq.Eq{"itt.owner_id": ownerID, "itt.item_id": ids}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := run.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var itemID int64
		var tag model.Tag
		if err := rows.Scan(&itemID, &tag.ID, &tag.Name); err != nil {
			return err
		}
		if i, ok := index[itemID]; ok {
			items[i].Tags = append(items[i].Tags, tag)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func queryItems(ctx context.Context, run db.Runner, b sq.SelectBuilder) ([]model.Item, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := run.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanItem(row rowScanner) (model.Item, error) {
	var item model.Item
	var alias, description sql.NullString

	err := row.Scan(&item.ID, &item.OwnerID, &item.Name, &alias, &description,
		&item.AddedAt, &item.UpdatedAt, &item.PurchasedAt,
		&item.Value, &item.CurrencyCode, &item.LifeSpan, &item.IsFavorite, &item.IsArchived,
		&item.CurrentValue, &item.LifeSpanLeft, &item.LifePercentage)
	if err != nil {
		return model.Item{}, err
	}

	if alias.Valid {
		item.Alias = &alias.String
	}
	if description.Valid {
		item.Description = &description.String
	}
	item.Tags = []model.Tag{}
	return item, nil
}
