package model

type SortBase string

const (
	SortAddedAt      SortBase = "added_at"
	SortName         SortBase = "name"
	SortAlias        SortBase = "alias"
	SortPurchasedAt  SortBase = "purchased_at"
	SortValue        SortBase = "value"
	SortLifeSpan     SortBase = "life_span"
	SortCurrentValue SortBase = "current_value"
	SortLifeSpanLeft SortBase = "life_span_left"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Cursor selects the ordering and, when Value is set, the position after
// which the next page starts. Value is the base's value on the last row
// of the previous page.
type Cursor struct {
	Base      SortBase  `json:"base"`
	Direction Direction `json:"direction"`
	Value     any       `json:"value,omitempty"`
}

// Range bounds are inclusive; either side may be absent.
type Range[T int64 | float64] struct {
	Min *T `json:"min,omitempty"`
	Max *T `json:"max,omitempty"`
}

func (r *Range[T]) IsSet() bool {
	return r != nil && (r.Min != nil || r.Max != nil)
}

// FilterOption describes an item query. Absent fields do not filter.
type FilterOption struct {
	Cursor *Cursor `json:"cursor,omitempty"`

	Name              *string         `json:"name,omitempty"`
	Alias             *string         `json:"alias,omitempty"`
	PurchasedAtRange  *Range[int64]   `json:"purchasedTimeRange,omitempty"`
	ValueRange        *Range[float64] `json:"valueRange,omitempty"`
	LifeSpanRange     *Range[int64]   `json:"lifeSpanRange,omitempty"`
	CurrencyCode      *string         `json:"currencyCode,omitempty"`
	IsFavorite        *bool           `json:"isFavorite,omitempty"`
	IsArchived        *bool           `json:"isArchived,omitempty"`
	CurrentValueRange *Range[float64] `json:"currentValueRange,omitempty"`
	LifeSpanLeftRange *Range[int64]   `json:"lifeSpanLeftRange,omitempty"`
}

// PaginatedData is one keyset page. Total counts every row of the owner,
// regardless of filters. Cursor is nil when Data is empty.
type PaginatedData[T any] struct {
	Total  int64 `json:"total"`
	Cursor any   `json:"cursor"`
	Data   []T   `json:"data"`
}
