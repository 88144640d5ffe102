package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEffectiveNightlyPrice(t *testing.T) {
	seasonal := 150.0
	cases := []struct {
		name string
		room Room
		now  time.Time
		want float64
	}{
		{"off_season_base", Room{BasePrice: 100}, date(2025, time.March, 10), 100},
		{"off_season_ignores_seasonal", Room{BasePrice: 100, SeasonalPrice: &seasonal}, date(2025, time.December, 1), 100},
		{"summer_seasonal_set", Room{BasePrice: 100, SeasonalPrice: &seasonal}, date(2025, time.July, 15), 150},
		{"summer_markup_fallback", Room{BasePrice: 100}, date(2025, time.June, 1), 120},
		{"august_edge", Room{BasePrice: 50}, date(2025, time.August, 31), 60},
		{"september_edge", Room{BasePrice: 50}, date(2025, time.September, 1), 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveNightlyPrice(tc.room, tc.now); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStayDays(t *testing.T) {
	start := date(2025, time.January, 1)
	cases := []struct {
		name string
		end  time.Time
		want int
	}{
		{"ten_whole_days", start.AddDate(0, 0, 10), 10},
		{"partial_day_rounds_up", start.Add(36 * time.Hour), 2},
		{"same_instant", start, 0},
		{"end_before_start", start.Add(-24 * time.Hour), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StayDays(start, tc.end); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestOwner(t *testing.T) {
	if !Anonymous().IsAnonymous() {
		t.Fatal("zero owner should be anonymous")
	}
	o := OwnedBy("u1")
	id, ok := o.UserID()
	if !ok || id != "u1" {
		t.Fatalf("got %q/%v", id, ok)
	}
}
