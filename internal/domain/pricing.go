package domain

import "time"

// seasonMarkup applies when a room has no seasonal rate set during the
// summer window.
const seasonMarkup = 1.20

// InSeason reports whether t falls in the summer window (calendar months
// June through August, any year).
func InSeason(t time.Time) bool {
	m := t.Month()
	return m >= time.June && m <= time.August
}

// EffectiveNightlyPrice resolves the nightly rate for a room at a given
// date: the seasonal rate during the summer window when one is set, a
// fixed markup over the base rate when none is, the base rate otherwise.
// Pure function of (room, now).
func EffectiveNightlyPrice(r Room, now time.Time) float64 {
	if !InSeason(now) {
		return r.BasePrice
	}
	if r.SeasonalPrice != nil {
		return *r.SeasonalPrice
	}
	return r.BasePrice * seasonMarkup
}

// StayDays is the chargeable length of a stay in whole days, rounding any
// partial day up.
func StayDays(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
