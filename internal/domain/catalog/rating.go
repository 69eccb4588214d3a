package catalog

import "github.com/shopspring/decimal"

// StarKind is how one of the five rating stars is drawn.
type StarKind string

const (
	StarFull  StarKind = "full"
	StarHalf  StarKind = "half"
	StarEmpty StarKind = "empty"
)

// StarRating renders a 0-5 rating as five stars. Star i is full when the
// rating reaches i, half when it reaches i-0.5.
func StarRating(rating decimal.Decimal) []StarKind {
	stars := make([]StarKind, 5)
	half := decimal.NewFromFloat(0.5)
	for i := 1; i <= 5; i++ {
		pos := decimal.NewFromInt(int64(i))
		switch {
		case rating.GreaterThanOrEqual(pos):
			stars[i-1] = StarFull
		case rating.GreaterThanOrEqual(pos.Sub(half)):
			stars[i-1] = StarHalf
		default:
			stars[i-1] = StarEmpty
		}
	}
	return stars
}
