package risk

// HolidayCalendar answers "is this date a public holiday" from a static
// per-region, per-year table. Unknown regions or years are simply not
// holidays; the scorer degrades rather than failing.
type HolidayCalendar struct {
	dates map[string]map[string]struct{}
}

// New Zealand national public holidays.
var nzHolidays2025 = []string{
	"2025-01-01", // New Year's Day
	"2025-01-02", // Day after New Year's Day
	"2025-02-06", // Waitangi Day
	"2025-04-18", // Good Friday
	"2025-04-21", // Easter Monday
	"2025-04-25", // ANZAC Day
	"2025-06-02", // King's Birthday
	"2025-10-27", // Labour Day
	"2025-12-25", // Christmas Day
	"2025-12-26", // Boxing Day
}

func NewHolidayCalendar() *HolidayCalendar {
	c := &HolidayCalendar{dates: make(map[string]map[string]struct{})}
	c.Add("NZ", nzHolidays2025...)
	return c
}

// Add registers holiday dates (YYYY-MM-DD) for a region.
func (c *HolidayCalendar) Add(region string, dates ...string) {
	set, ok := c.dates[region]
	if !ok {
		set = make(map[string]struct{}, len(dates))
		c.dates[region] = set
	}
	for _, d := range dates {
		set[d] = struct{}{}
	}
}

func (c *HolidayCalendar) IsHoliday(region, date string) bool {
	set, ok := c.dates[region]
	if !ok {
		return false
	}
	_, found := set[date]
	return found
}
