// Package fiscal resolves fiscal-period identifiers to concrete reporting
// windows. Periods run from 6 April to 5 April of the following year, the
// UK self-assessment year.
package fiscal

import (
	"fmt"
	"time"

	"mhoward/lettings-ledger/internal/dateutils"
)

// Period boundary day-of-year.
const (
	startMonth = time.April
	startDay   = 6
)

// firstYear and lastYear bound the fixed set of selectable periods.
const (
	firstYear = 2020
	lastYear  = 2029
)

// Period is one fiscal reporting window. Start and End are canonical
// YYYY-MM-DD strings; the window is inclusive on both ends.
type Period struct {
	ID    string
	Label string
	Start string
	End   string
}

// Contains reports whether a canonical YYYY-MM-DD date falls inside the
// period. The comparison is lexicographic, which is correct only because
// every date in the system is normalized before it gets here.
func (p Period) Contains(date string) bool {
	return date >= p.Start && date <= p.End
}

// Resolve maps a period identifier like "2024-25" to its boundaries.
func Resolve(id string) (Period, error) {
	var startYear, endSuffix int
	if _, err := fmt.Sscanf(id, "%4d-%2d", &startYear, &endSuffix); err != nil {
		return Period{}, fmt.Errorf("invalid period id %q", id)
	}
	if endSuffix != (startYear+1)%100 {
		return Period{}, fmt.Errorf("invalid period id %q", id)
	}
	if startYear < firstYear || startYear > lastYear {
		return Period{}, fmt.Errorf("period %q outside supported range %s to %s", id, periodID(firstYear), periodID(lastYear))
	}
	return periodFor(startYear), nil
}

// Periods returns the fixed ordered set of selectable periods.
func Periods() []Period {
	out := make([]Period, 0, lastYear-firstYear+1)
	for y := firstYear; y <= lastYear; y++ {
		out = append(out, periodFor(y))
	}
	return out
}

// Current returns the period containing the given instant. Instants before
// the supported range resolve to the first period, after it to the last.
func Current(now time.Time) Period {
	year := now.Year()
	boundary := time.Date(year, startMonth, startDay, 0, 0, 0, 0, now.Location())
	if now.Before(boundary) {
		year--
	}
	if year < firstYear {
		year = firstYear
	}
	if year > lastYear {
		year = lastYear
	}
	return periodFor(year)
}

func periodFor(startYear int) Period {
	start := time.Date(startYear, startMonth, startDay, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, -1)
	return Period{
		ID:    periodID(startYear),
		Label: fmt.Sprintf("%d/%02d", startYear, (startYear+1)%100),
		Start: dateutils.ToISO(start),
		End:   dateutils.ToISO(end),
	}
}

func periodID(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}
