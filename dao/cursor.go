package dao

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/spf13/cast"

	"lot-backend/db"
	"lot-backend/model"
	"lot-backend/pkg/apperror"
)

const pageSize = 100

type columnKind int

const (
	textColumn columnKind = iota
	timeColumn
	integerColumn
	realColumn
)

type sortColumn struct {
	kind     columnKind
	computed bool
}

var sortColumns = map[model.SortBase]sortColumn{
	model.SortAddedAt:      {kind: timeColumn},
	model.SortName:         {kind: textColumn},
	model.SortAlias:        {kind: textColumn},
	model.SortPurchasedAt:  {kind: timeColumn},
	model.SortValue:        {kind: realColumn},
	model.SortLifeSpan:     {kind: integerColumn},
	model.SortCurrentValue: {kind: realColumn, computed: true},
	model.SortLifeSpanLeft: {kind: integerColumn, computed: true},
}

// pagePlan is the ordering of a page and, past the first page, its keyset
// condition. Stored bases compare in the WHERE clause of the item query;
// computed bases only exist once the item query has run, so they compare
// in an outer query over it (alias "c").
type pagePlan struct {
	base      model.SortBase
	direction model.Direction
	computed  bool
	keyset    sq.Sqlizer
}

// planPage decodes a cursor. A nil cursor means the first page ordered by
// added_at DESC; a cursor without a value is the first page of its ordering.
func planPage(d db.Dialect, c *model.Cursor) (pagePlan, error) {
	plan := pagePlan{base: model.SortAddedAt, direction: model.Desc}
	if c != nil {
		if c.Base != "" {
			plan.base = c.Base
		}
		if c.Direction != "" {
			plan.direction = c.Direction
		}
	}

	col, ok := sortColumns[plan.base]
	if !ok {
		return pagePlan{}, apperror.New(apperror.Config, "Incompatible field %s is given to query results", plan.base)
	}
	if plan.direction != model.Asc && plan.direction != model.Desc {
		return pagePlan{}, apperror.New(apperror.Config, "Incompatible direction %s is given to query results", plan.direction)
	}
	plan.computed = col.computed

	if c == nil || c.Value == nil {
		return plan, nil
	}
	value, err := cursorArg(d, col.kind, c.Value)
	if err != nil {
		return pagePlan{}, apperror.New(apperror.Argument, "Invalid cursor value %v for %s", c.Value, plan.base)
	}
	op := ">"
	if plan.direction == model.Desc {
		op = "<"
	}
	plan.keyset = sq.Expr(plan.column()+" "+op+" ?", value)
	return plan, nil
}

func (p pagePlan) column() string {
	if p.computed {
		return "c." + string(p.base)
	}
	return "i." + string(p.base)
}

func (p pagePlan) orderBy() string {
	return p.column() + " " + string(p.direction)
}

// cursorArg normalises a cursor value to what the column compares against.
// Timestamps arrive as unix seconds and compare as canonical UTC text.
func cursorArg(d db.Dialect, kind columnKind, v any) (any, error) {
	switch kind {
	case timeColumn:
		unix, err := cast.ToInt64E(v)
		if err != nil {
			return nil, err
		}
		return d.FormatTime(unix), nil
	case integerColumn:
		return cast.ToInt64E(v)
	case realColumn:
		return cast.ToFloat64E(v)
	default:
		return cast.ToStringE(v)
	}
}

func cursorOf(base model.SortBase, item model.Item) any {
	switch base {
	case model.SortName:
		return item.Name
	case model.SortAlias:
		if item.Alias == nil {
			return nil
		}
		return *item.Alias
	case model.SortPurchasedAt:
		return item.PurchasedAt
	case model.SortValue:
		return item.Value
	case model.SortLifeSpan:
		return item.LifeSpan
	case model.SortCurrentValue:
		return item.CurrentValue
	case model.SortLifeSpanLeft:
		return item.LifeSpanLeft
	default:
		return item.AddedAt
	}
}
