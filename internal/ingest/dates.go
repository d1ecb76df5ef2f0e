package ingest

import (
	"time"

	"budget_forecast/internal/models"
)

var monthFirstLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006-01",
	"01/02/2006",
	"01/02/2006 15:04",
	"01-02-2006",
	"1/2/2006",
	"01/02/06",
}

var dayFirstLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006-01",
	"02/01/2006",
	"02/01/2006 15:04",
	"02-01-2006",
	"02.01.2006",
	"2/1/2006",
	"02/01/06",
}

func parseDate(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(t time.Time) int {
	return monthStart(t).AddDate(0, 1, -1).Day()
}

// aggregate sums amounts per calendar month over [first, last], filling
// months without rows with zero. A trailing month that the data does not
// cover to its last day is dropped unless it is the only month.
func aggregate(rows []row, first, last time.Time) models.TimeSeries {
	totals := make(map[time.Time]float64)
	for _, r := range rows {
		totals[monthStart(r.date)] += r.amount
	}

	end := monthStart(last)
	if last.Day() < lastDayOfMonth(last) && end.After(monthStart(first)) {
		end = end.AddDate(0, -1, 0)
	}

	var series models.TimeSeries
	for m := monthStart(first); !m.After(end); m = m.AddDate(0, 1, 0) {
		series = append(series, models.Point{Period: m, Value: totals[m]})
	}
	return series
}
