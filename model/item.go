package model

// Item is a depreciating asset owned by a single owner.
// Timestamps are unix seconds.
type Item struct {
	ID           int64   `json:"id"`
	OwnerID      string  `json:"ownerId"`
	Name         string  `json:"name"`
	Alias        *string `json:"alias,omitempty"`       // Nullable
	Description  *string `json:"description,omitempty"` // Nullable
	AddedAt      int64   `json:"addedAt"`
	UpdatedAt    int64   `json:"updatedAt"`
	PurchasedAt  int64   `json:"purchasedAt"`
	Value        float64 `json:"value"`
	CurrencyCode string  `json:"currencyCode"`
	LifeSpan     int64   `json:"lifeSpan"` // seconds
	IsFavorite   bool    `json:"isFavorite"`
	IsArchived   bool    `json:"isArchived"`
	Tags         []Tag   `json:"tags"`

	// computed at read time, never stored
	CurrentValue   float64 `json:"currentValue"`
	LifeSpanLeft   int64   `json:"lifeSpanLeft"`
	LifePercentage float64 `json:"lifePercentage"`
}

type NewItem struct {
	Name         string
	Alias        *string
	Description  *string
	PurchasedAt  int64
	Value        float64
	CurrencyCode string
	LifeSpan     int64
	Tags         []Tag
}

// ItemPatch is a partial update: nil fields are left untouched.
// A non-empty Tags toggles each listed tag's mapping.
type ItemPatch struct {
	Name         *string
	Alias        *string
	Description  *string
	PurchasedAt  *int64
	Value        *float64
	CurrencyCode *string
	LifeSpan     *int64
	IsFavorite   *bool
	IsArchived   *bool
	Tags         []Tag
}
