package learning

// Stats summarizes user feedback over rated responses.
type Stats struct {
	TotalRatings    int               `json:"totalRatings"`
	AverageRating   float64           `json:"averageRating"`
	Distribution    map[float64]int   `json:"ratingDistribution"`
	RecentTrend     []float64         `json:"recentTrend"`
	ImprovementRate float64           `json:"improvementRate"`
}

// Compute derives Stats from ratings in chronological order.
//
// The distribution buckets are the half-point steps 0.5 through 5.0,
// always all present. RecentTrend is the last 10 ratings. The
// improvement rate compares the average of the second half against the
// first, with the split at floor(n/2); it is 0 when either half is
// empty or the first half averages 0.
func Compute(ratings []float64) Stats {
	s := Stats{Distribution: emptyDistribution()}
	if len(ratings) == 0 {
		return s
	}

	s.TotalRatings = len(ratings)
	s.AverageRating = mean(ratings)

	for _, r := range ratings {
		if _, ok := s.Distribution[r]; ok {
			s.Distribution[r]++
		}
	}

	start := len(ratings) - 10
	if start < 0 {
		start = 0
	}
	s.RecentTrend = append([]float64(nil), ratings[start:]...)

	mid := len(ratings) / 2
	first, second := ratings[:mid], ratings[mid:]
	if len(first) > 0 && len(second) > 0 {
		if m1 := mean(first); m1 != 0 {
			s.ImprovementRate = (mean(second) - m1) / m1 * 100
		}
	}
	return s
}

func emptyDistribution() map[float64]int {
	d := make(map[float64]int, 10)
	for r := 0.5; r <= 5; r += 0.5 {
		d[r] = 0
	}
	return d
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
