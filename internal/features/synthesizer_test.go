package features

import (
	"math"
	"reflect"
	"testing"
	"time"

	"categoryforecast/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// electronicsFixture is the recorded history Jan 1..Jan 5 with daily
// amounts [100, 200, 150, 0, 180].
func electronicsFixture() []*domain.SalesPoint {
	amounts := []float64{100, 200, 150, 0, 180}
	points := make([]*domain.SalesPoint, len(amounts))
	for i, a := range amounts {
		points[i] = &domain.SalesPoint{Date: day(2025, 1, i+1), Category: "Electronics", Amount: a}
	}
	return points
}

func testManifest() *domain.FeatureManifest {
	return &domain.FeatureManifest{
		Columns: []string{
			"Electronics_lag_1",
			"Electronics_lag_7",
			"Electronics_rolling_avg_3d",
			"Electronics_rolling_std_3d",
		},
		Categories: []string{"Electronics"},
	}
}

func TestSynthesizeRange_LagFromRecordedHistory(t *testing.T) {
	s := NewSynthesizer(testManifest())
	period, _ := domain.NewPeriod(day(2025, 1, 6), day(2025, 1, 6))

	vectors := s.SynthesizeRange(period, electronicsFixture())
	if len(vectors) != 1 {
		t.Fatalf("expected 1 vector, got %d", len(vectors))
	}

	row := vectors[0]
	// lag_1 for Jan 6 reads the recorded Jan 5 amount
	if row.Values["Electronics_lag_1"] != 180 {
		t.Errorf("expected lag_1 180, got %v", row.Values["Electronics_lag_1"])
	}
	// lag_7 for Jan 6 reaches Dec 30, absent → exactly 0.0
	if row.Values["Electronics_lag_7"] != 0.0 {
		t.Errorf("expected lag_7 0.0 for absent day, got %v", row.Values["Electronics_lag_7"])
	}
}

func TestSynthesizeRange_RollingOverRecordedHistory(t *testing.T) {
	s := NewSynthesizer(testManifest())
	period, _ := domain.NewPeriod(day(2025, 1, 6), day(2025, 1, 6))

	row := s.SynthesizeRange(period, electronicsFixture())[0]

	// Window covers Jan 5, Jan 4, Jan 3 = [180, 0, 150], mean = 110
	if row.Values["Electronics_rolling_avg_3d"] != 110 {
		t.Errorf("expected rolling avg 110, got %v", row.Values["Electronics_rolling_avg_3d"])
	}
	// Population std of [180, 0, 150] = sqrt(6200)
	want := math.Sqrt(6200)
	if math.Abs(row.Values["Electronics_rolling_std_3d"]-want) > 1e-9 {
		t.Errorf("expected rolling std %f, got %v", want, row.Values["Electronics_rolling_std_3d"])
	}
}

func TestSynthesizeRange_AbsentDaysExcludedFromWindow(t *testing.T) {
	// Jan 2 has no record; the window must skip it, not count a zero.
	history := []*domain.SalesPoint{
		{Date: day(2025, 1, 1), Category: "Electronics", Amount: 100},
		{Date: day(2025, 1, 3), Category: "Electronics", Amount: 200},
	}
	s := NewSynthesizer(testManifest())
	period, _ := domain.NewPeriod(day(2025, 1, 4), day(2025, 1, 4))

	row := s.SynthesizeRange(period, history)[0]

	// (200 + 100) / 2 = 150, not (200 + 0 + 100) / 3
	if row.Values["Electronics_rolling_avg_3d"] != 150 {
		t.Errorf("expected rolling avg 150 over 2 present days, got %v",
			row.Values["Electronics_rolling_avg_3d"])
	}
}

func TestSynthesizeRange_SameRunDaysArePresentZeros(t *testing.T) {
	// Jan 6 is synthesized first; Jan 7's lookups must see it as a
	// present day carrying the seed value, not as absent.
	s := NewSynthesizer(testManifest())
	period, _ := domain.NewPeriod(day(2025, 1, 6), day(2025, 1, 8))

	vectors := s.SynthesizeRange(period, electronicsFixture())
	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}

	jan7 := vectors[1]
	// lag_1 reads synthesized Jan 6 → committed seed 0.0
	if jan7.Values["Electronics_lag_1"] != 0.0 {
		t.Errorf("expected lag_1 0.0 from synthesized day, got %v", jan7.Values["Electronics_lag_1"])
	}
	// Window covers Jan 6 (seed 0), Jan 5 (180), Jan 4 (0): mean = 60.
	// If Jan 6 were treated as absent the mean would be 90.
	if jan7.Values["Electronics_rolling_avg_3d"] != 60 {
		t.Errorf("expected rolling avg 60 with synthesized zero counted, got %v",
			jan7.Values["Electronics_rolling_avg_3d"])
	}

	jan8 := vectors[2]
	// lag_7 for Jan 8 reads the recorded Jan 1 amount
	if jan8.Values["Electronics_lag_7"] != 100 {
		t.Errorf("expected lag_7 100, got %v", jan8.Values["Electronics_lag_7"])
	}
}

func TestSynthesizeRange_RecordedValueWinsInsideSpan(t *testing.T) {
	// Jan 5 is both inside the synthesized span and recorded; the
	// recorded amount must survive the commit.
	s := NewSynthesizer(testManifest())
	period, _ := domain.NewPeriod(day(2025, 1, 5), day(2025, 1, 6))

	vectors := s.SynthesizeRange(period, electronicsFixture())
	jan6 := vectors[1]

	if jan6.Values["Electronics_lag_1"] != 180 {
		t.Errorf("expected lag_1 180 (recorded value wins over seed), got %v",
			jan6.Values["Electronics_lag_1"])
	}
}

func TestSynthesizeRange_Deterministic(t *testing.T) {
	s := NewSynthesizer(testManifest())
	period, _ := domain.NewPeriod(day(2025, 1, 6), day(2025, 1, 10))

	a := s.SynthesizeRange(period, electronicsFixture())
	b := s.SynthesizeRange(period, electronicsFixture())

	if len(a) != len(b) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !reflect.DeepEqual(a[i].Values, b[i].Values) {
			t.Errorf("run outputs differ at index %d", i)
		}
	}
}

func TestMatrix_ManifestOrderAndZeroFill(t *testing.T) {
	manifest := &domain.FeatureManifest{
		Columns:    []string{"Electronics_lag_1", "unknown_model_column", "year"},
		Categories: []string{"Electronics"},
	}
	s := NewSynthesizer(manifest)
	period, _ := domain.NewPeriod(day(2025, 1, 6), day(2025, 1, 6))

	rows := s.Matrix(s.SynthesizeRange(period, electronicsFixture()))
	if len(rows) != 1 || len(rows[0]) != 3 {
		t.Fatalf("expected 1x3 matrix, got %dx%d", len(rows), len(rows[0]))
	}

	if rows[0][0] != 180 {
		t.Errorf("expected column 0 (lag_1) = 180, got %v", rows[0][0])
	}
	if rows[0][1] != 0.0 {
		t.Errorf("expected unknown manifest column zero-filled, got %v", rows[0][1])
	}
	if rows[0][2] != 2025 {
		t.Errorf("expected column 2 (year) = 2025, got %v", rows[0][2])
	}
}

func TestSynthesizeRange_MultipleCategories(t *testing.T) {
	manifest := &domain.FeatureManifest{
		Columns:    []string{"Electronics_lag_1", "Books_lag_1"},
		Categories: []string{"Books", "Electronics"},
	}
	history := []*domain.SalesPoint{
		{Date: day(2025, 1, 5), Category: "Electronics", Amount: 180},
		{Date: day(2025, 1, 5), Category: "Books", Amount: 40},
	}
	s := NewSynthesizer(manifest)
	period, _ := domain.NewPeriod(day(2025, 1, 6), day(2025, 1, 6))

	row := s.SynthesizeRange(period, history)[0]
	if row.Values["Electronics_lag_1"] != 180 {
		t.Errorf("expected Electronics lag 180, got %v", row.Values["Electronics_lag_1"])
	}
	if row.Values["Books_lag_1"] != 40 {
		t.Errorf("expected Books lag 40, got %v", row.Values["Books_lag_1"])
	}
}

func TestSplitFeatureColumn(t *testing.T) {
	cat, n, ok := splitFeatureColumn("Electronics_lag_7", "_lag_")
	if !ok || cat != "Electronics" || n != 7 {
		t.Errorf("unexpected parse: %q %d %v", cat, n, ok)
	}

	// Unit suffix is optional
	cat, n, ok = splitFeatureColumn("Home_Goods_rolling_avg_14d", "_rolling_avg_")
	if !ok || cat != "Home_Goods" || n != 14 {
		t.Errorf("unexpected parse: %q %d %v", cat, n, ok)
	}

	if _, _, ok := splitFeatureColumn("year", "_lag_"); ok {
		t.Error("expected parse failure for calendar column")
	}
	if _, _, ok := splitFeatureColumn("Electronics_lag_x", "_lag_"); ok {
		t.Error("expected parse failure for non-numeric lag")
	}
}
