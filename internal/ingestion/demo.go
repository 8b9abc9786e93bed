package ingestion

import (
	"math"
	"math/rand"
	"time"

	"categoryforecast/internal/domain"
)

// demoCategory describes one synthetic category's revenue shape.
type demoCategory struct {
	name    string
	base    float64 // mean daily revenue
	weekend float64 // multiplier applied on Sat/Sun
	trend   float64 // fractional growth per day
	noise   float64 // relative noise amplitude
}

var demoCategories = []demoCategory{
	{name: "Electronics", base: 5200, weekend: 1.35, trend: 0.0012, noise: 0.18},
	{name: "Clothing", base: 3100, weekend: 1.50, trend: 0.0008, noise: 0.22},
	{name: "Groceries", base: 8400, weekend: 1.10, trend: 0.0002, noise: 0.08},
	{name: "Books", base: 900, weekend: 1.20, trend: -0.0005, noise: 0.25},
	{name: "Toys", base: 1400, weekend: 1.60, trend: 0.0010, noise: 0.30},
	{name: "Furniture", base: 2600, weekend: 1.25, trend: 0.0004, noise: 0.35},
	{name: "Sports", base: 1800, weekend: 1.45, trend: 0.0009, noise: 0.28},
}

// GenerateDemoData produces deterministic synthetic daily sales for the
// given span: a base level per category with a weekend lift, a mild
// annual cycle, a slow trend and seeded noise. Amounts are rounded to
// cents and never negative.
func GenerateDemoData(start time.Time, days int, seed int64) []*domain.SalesPoint {
	rng := rand.New(rand.NewSource(seed))
	start = domain.Day(start)

	points := make([]*domain.SalesPoint, 0, days*len(demoCategories))
	for i := 0; i < days; i++ {
		date := domain.AddDays(start, i)
		weekday := date.Weekday()
		yearPos := float64(date.YearDay()) / 365.0

		for _, c := range demoCategories {
			amount := c.base
			amount *= 1 + c.trend*float64(i)
			if weekday == time.Saturday || weekday == time.Sunday {
				amount *= c.weekend
			}
			// Gentle annual cycle peaking near year end.
			amount *= 1 + 0.15*math.Sin(2*math.Pi*(yearPos-0.25))
			amount *= 1 + c.noise*(rng.Float64()*2-1)
			if amount < 0 {
				amount = 0
			}

			points = append(points, &domain.SalesPoint{
				Date:     date,
				Category: c.name,
				Amount:   math.Round(amount*100) / 100,
			})
		}
	}

	return points
}
