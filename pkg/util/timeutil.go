package util

import "time"

// IST is the farmer facing time zone used for forecast windows and alert timestamps.
var IST = time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
