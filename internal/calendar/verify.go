package calendar

import (
	"fmt"
	"time"
)

// Check kinds reported by Verify.
const (
	CheckMonthStart         = "month_start"
	CheckTibetanToGregorian = "tibetan_to_gregorian"
	CheckGregorianToTibetan = "gregorian_to_tibetan"
)

const (
	skippedDayText   = "skipped"
	missingMonthText = "missing"
)

// CheckResult is the outcome of one historical fixed-point check.
type CheckResult struct {
	Kind  string `json:"kind"`
	Input string `json:"input"`
	Want  string `json:"want"`
	Got   string `json:"got"`
	Pass  bool   `json:"pass"`
}

type monthStartCheck struct {
	key  MonthKey
	want string
}

type tibetanCheck struct {
	rabjung, year, month, day int
	want                      string
}

type gregorianCheck struct {
	date time.Time
	want TibetanDate
}

// Month starts around the leap-year discrepancies and the 1582 cutover.
var monthStartChecks = []monthStartCheck{
	{MonthKey{1, 1, 1, MonthNormal}, "1027-01-11"},
	{MonthKey{2, 14, 2, MonthNormal}, "1100-02-12"},
	{MonthKey{2, 14, 3, MonthNormal}, "1100-03-13"},
	{MonthKey{5, 34, 2, MonthNormal}, "1300-02-22"},
	{MonthKey{5, 34, 3, MonthNormal}, "1300-03-22"},
	{MonthKey{7, 14, 2, MonthNormal}, "1400-02-26"},
	{MonthKey{7, 14, 3, MonthNormal}, "1400-03-26"},
	{MonthKey{8, 54, 1, MonthNormal}, "1500-01-31"},
	{MonthKey{8, 54, 2, MonthNormal}, "1500-03-01"},
	{MonthKey{10, 16, 9, MonthNormal}, "1582-09-17"},
	{MonthKey{10, 16, 10, MonthNormal}, "1582-10-27"},
	{MonthKey{15, 33, 12, MonthNormal}, "1900-01-31"},
}

// Only the first pair of each conversion is compared.
var tibetanChecks = []tibetanCheck{
	{2, 14, 2, 16, "1100-02-28"},
	{2, 14, 2, 17, skippedDayText},
	{2, 14, 2, 18, "1100-02-28"},
	{2, 14, 2, 19, "1100-03-01"},
	{5, 34, 2, 8, "1300-02-28"},
	{5, 34, 2, 9, "1300-02-28"},
	{5, 34, 2, 10, "1300-03-01"},
	{7, 14, 2, 3, "1400-02-28"},
	{7, 14, 2, 4, "1400-02-28"},
	{7, 14, 2, 5, "1400-03-01"},
	{8, 54, 1, 29, "1500-02-28"},
	{8, 54, 1, 30, "1500-02-28"},
	{8, 54, 2, 1, "1500-03-01"},
	{10, 16, 9, 17, "1582-10-03"},
	{10, 16, 9, 18, "1582-10-04"},
	{10, 16, 9, 19, "1582-10-15"},
	{10, 16, 9, 20, "1582-10-16"},
}

var gregorianChecks = []gregorianCheck{
	{time.Date(1582, time.October, 25, 0, 0, 0, 0, time.UTC), TibetanDate{Rabjung: 10, Year: 16, Month: 9, Day: 29}},
	{time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC), TibetanDate{Rabjung: 15, Year: 33, Month: 11, MonthFlag: MonthFirstOfDouble, Day: 30}},
	{time.Date(1900, time.January, 2, 0, 0, 0, 0, time.UTC), TibetanDate{Rabjung: 15, Year: 33, Month: 11, MonthFlag: MonthSecondOfDouble, Day: 1}},
	{time.Date(1500, time.February, 28, 0, 0, 0, 0, time.UTC), TibetanDate{Rabjung: 8, Year: 54, Month: 1, Day: 29}},
	{time.Date(1500, time.March, 1, 0, 0, 0, 0, time.UTC), TibetanDate{Rabjung: 8, Year: 54, Month: 2, Day: 1}},
}

// Verify reruns the historical fixed-point checks against a built table.
func Verify(t *Table) []CheckResult {
	results := make([]CheckResult, 0, len(monthStartChecks)+len(tibetanChecks)+len(gregorianChecks))

	for _, c := range monthStartChecks {
		got := missingMonthText
		if md, ok := t.Lookup(c.key.Rabjung, c.key.Year, c.key.Month, c.key.Flag); ok {
			got = FormatDate(md.WesternStartDate)
		}
		results = append(results, CheckResult{
			Kind:  CheckMonthStart,
			Input: c.key.String(),
			Want:  c.want,
			Got:   got,
			Pass:  got == c.want,
		})
	}

	for _, c := range tibetanChecks {
		got := missingMonthText
		if pairs := t.TibetanToGregorian(c.rabjung, c.year, c.month, c.day); len(pairs) > 0 {
			got = skippedDayText
			if pairs[0].Gregorian != nil {
				got = FormatDate(*pairs[0].Gregorian)
			}
		}
		results = append(results, CheckResult{
			Kind:  CheckTibetanToGregorian,
			Input: fmt.Sprintf("%d/%d/%d/%d", c.rabjung, c.year, c.month, c.day),
			Want:  c.want,
			Got:   got,
			Pass:  got == c.want,
		})
	}

	for _, c := range gregorianChecks {
		td, err := t.GregorianToTibetan(c.date)
		got := td.String()
		if err != nil {
			got = err.Error()
		}
		results = append(results, CheckResult{
			Kind:  CheckGregorianToTibetan,
			Input: FormatDate(c.date),
			Want:  c.want.String(),
			Got:   got,
			Pass:  err == nil && td == c.want,
		})
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []CheckResult) []CheckResult {
	var out []CheckResult
	for _, r := range results {
		if !r.Pass {
			out = append(out, r)
		}
	}
	return out
}
