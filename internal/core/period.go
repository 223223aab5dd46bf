package core

import "time"

// Period is a year+month composite identifying one bucket in a monthly
// time series.
type Period struct {
	Year  int
	Month time.Month
}

// Period returns the record's period, truncated to year+month.
func (d Date) Period() Period {
	return Period{Year: d.Time.Year(), Month: d.Time.Month()}
}

// Before orders periods by the true (year, month) pair. Formatted labels
// like "Jan 2025" do not sort correctly as strings, so ordering must never
// go through Label.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// Label renders the period for display, e.g. "Jan 2025".
func (p Period) Label() string {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}
