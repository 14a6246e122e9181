package dao

import (
	sq "github.com/Masterminds/squirrel"

	"lot-backend/db"
)

// Computed columns of an item row aliased "i". Each expression holds one
// placeholder for the evaluation instant in unix seconds, so the storage
// engine and model.Depreciate agree on "now".
//
//	current_value   = round(value * elapsed / life_span)
//	life_span_left  = life_span - elapsed
//	life_percentage = round(elapsed * 10000 / life_span) / 100

func elapsedExpr(d db.Dialect) string {
	return "(? - " + d.Epoch("i.purchased_at") + ")"
}

func currentValueExpr(d db.Dialect) string {
	return "ROUND(1.0 * i.value * " + elapsedExpr(d) + " / i.life_span)"
}

func lifeSpanLeftExpr(d db.Dialect) string {
	return "i.life_span - " + elapsedExpr(d)
}

func lifePercentageExpr(d db.Dialect) string {
	return "ROUND(1.0 * " + elapsedExpr(d) + " * 10000 / i.life_span) / 100.0"
}

// selectItems selects every stored and computed column of items aliased
// "i". Timestamps come back as unix seconds. It keeps the default "?"
// placeholders so that it can be nested; the outermost builder sets the
// dialect's format.
func selectItems(d db.Dialect, now int64) sq.SelectBuilder {
	return sq.Select("i.id", "i.owner_id", "i.name", "i.alias", "i.description").
		Column(d.Epoch("i.added_at")+" AS added_at").
		Column(d.Epoch("i.updated_at")+" AS updated_at").
		Column(d.Epoch("i.purchased_at")+" AS purchased_at").
		Columns("i.value", "i.currency_code", "i.life_span", "i.is_favorite", "i.is_archived").
		Column(currentValueExpr(d)+" AS current_value", now).
		Column(lifeSpanLeftExpr(d)+" AS life_span_left", now).
		Column(lifePercentageExpr(d)+" AS life_percentage", now).
		From("items i")
}
