package domain

const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r lies in the closed range [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// RatingTotals is the stored accumulation for one podcast.
type RatingTotals struct {
	TotalRating int64
	NumRatings  int64
}

// Add returns the totals with one more vote of value r.
func (t RatingTotals) Add(r int) RatingTotals {
	return RatingTotals{TotalRating: t.TotalRating + int64(r), NumRatings: t.NumRatings + 1}
}

// Aggregate computes the public view of the totals.
func (t RatingTotals) Aggregate() RatingAggregate {
	return RatingAggregate{
		AverageRating: AverageRating(t.TotalRating, t.NumRatings),
		NumRatings:    t.NumRatings,
	}
}

// RatingAggregate provides the truncated average and count for a podcast's ratings.
type RatingAggregate struct {
	AverageRating float64
	NumRatings    int64
}

// AverageRating returns floor(total*100/count)/100. The result is truncated to
// two decimal places, never rounded. A zero count yields 0.
func AverageRating(total, count int64) float64 {
	if count <= 0 {
		return 0
	}
	return float64(total*100/count) / 100
}
