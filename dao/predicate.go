package dao

import (
	sq "github.com/Masterminds/squirrel"

	"lot-backend/db"
	"lot-backend/model"
)

// buildPredicates compiles the filter part of opt (the cursor is handled by
// planPage) into AND-combined conjuncts over items aliased "i". Owner
// scoping always comes first; every other present field, and every present
// bound of a range, adds exactly one conjunct. now is the evaluation instant
// of computed-column ranges.
func buildPredicates(d db.Dialect, ownerID string, opt model.FilterOption, now int64) sq.And {
	preds := sq.And{sq.Eq{"i.owner_id": ownerID}}

	if opt.CurrencyCode != nil {
		preds = append(preds, sq.Eq{"i.currency_code": *opt.CurrencyCode})
	}
	if opt.Name != nil {
		preds = append(preds, d.Contains("i.name", *opt.Name))
	}
	if opt.Alias != nil {
		preds = append(preds, d.Contains("i.alias", *opt.Alias))
	}

	preds = appendRange(preds, "i.purchased_at", nil, opt.PurchasedAtRange, func(v int64) any {
		return d.FormatTime(v)
	})
	preds = appendRange(preds, "i.value", nil, opt.ValueRange, identity[float64])
	preds = appendRange(preds, "i.life_span", nil, opt.LifeSpanRange, identity[int64])

	if opt.IsFavorite != nil {
		preds = append(preds, sq.Eq{"i.is_favorite": *opt.IsFavorite})
	}
	if opt.IsArchived != nil {
		preds = append(preds, sq.Eq{"i.is_archived": *opt.IsArchived})
	}

	preds = appendRange(preds, currentValueExpr(d), []any{now}, opt.CurrentValueRange, identity[float64])
	preds = appendRange(preds, lifeSpanLeftExpr(d), []any{now}, opt.LifeSpanLeftRange, identity[int64])
	return preds
}

// appendRange adds "expr >= min" and "expr <= max" for the bounds present in r.
// exprArgs are the values of placeholders inside expr itself.
func appendRange[T int64 | float64](preds sq.And, expr string, exprArgs []any, r *model.Range[T], bind func(T) any) sq.And {
	if r == nil {
		return preds
	}
	bound := func(op string, v T) sq.Sqlizer {
		args := append(append([]any{}, exprArgs...), bind(v))
		return sq.Expr(expr+" "+op+" ?", args...)
	}
	if r.Min != nil {
		preds = append(preds, bound(">=", *r.Min))
	}
	if r.Max != nil {
		preds = append(preds, bound("<=", *r.Max))
	}
	return preds
}

func identity[T any](v T) any {
	return v
}
