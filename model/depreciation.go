package model

import (
	"math"
	"time"
)

// Depreciation holds the computed columns of an item.
type Depreciation struct {
	CurrentValue   float64
	LifeSpanLeft   int64
	LifePercentage float64
}

// Depreciate evaluates the computed columns at now. It matches the SQL
// expressions used by the repositories: half-away-from-zero rounding, no
// clamping, and a purchase in the future yields negative elapsed time.
// lifeSpan must be positive.
func Depreciate(value float64, purchasedAt, lifeSpan int64, now time.Time) Depreciation {
	elapsed := now.Unix() - purchasedAt
	return Depreciation{
		CurrentValue:   math.Round(value * float64(elapsed) / float64(lifeSpan)),
		LifeSpanLeft:   lifeSpan - elapsed,
		LifePercentage: math.Round(float64(elapsed)*10000/float64(lifeSpan)) / 100,
	}
}

// Apply copies the computed columns onto the item.
func (d Depreciation) Apply(item *Item) {
	item.CurrentValue = d.CurrentValue
	item.LifeSpanLeft = d.LifeSpanLeft
	item.LifePercentage = d.LifePercentage
}
