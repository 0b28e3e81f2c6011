package database

import (
	"time"

	"github.com/zapponejosh/tibcal-api/internal/calendar"
)

// ExportRun is one snapshot of the month table.
type ExportRun struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	RecordCount int       `json:"record_count"`
	Anchor      string    `json:"anchor"` // month key, e.g. "17/2/1/0"
}

// MonthRow is a stored month descriptor. Seq is the record's position in the
// table; WesternStartDate is YYYY-MM-DD.
type MonthRow struct {
	RunID             string `json:"run_id"`
	Seq               int    `json:"seq"`
	Rabjung           int    `json:"rabjung"`
	Year              int    `json:"year"`
	Month             int    `json:"month"`
	Flag              int    `json:"month_flag"`
	ElapsedMonthIndex int    `json:"elapsed_month_index"`
	Skip1             int    `json:"skip1"`
	Skip2             int    `json:"skip2"`
	Double1           int    `json:"double1"`
	Double2           int    `json:"double2"`
	WesternStartDate  string `json:"western_start_date"`
}

// Key returns the calendar month key of the row.
func (r MonthRow) Key() calendar.MonthKey {
	return calendar.MonthKey{
		Rabjung: r.Rabjung,
		Year:    r.Year,
		Month:   r.Month,
		Flag:    calendar.MonthFlag(r.Flag),
	}
}

// Matches reports whether the row stores md. Run id and position are not
// compared.
func (r MonthRow) Matches(md calendar.MonthDescriptor) bool {
	return r.Key() == md.Key() &&
		r.ElapsedMonthIndex == md.ElapsedMonthIndex &&
		r.Skip1 == md.Skip1 && r.Skip2 == md.Skip2 &&
		r.Double1 == md.Double1 && r.Double2 == md.Double2 &&
		r.WesternStartDate == calendar.FormatDate(md.WesternStartDate)
}

// RowsFromMonths converts descriptors in table order into rows.
func RowsFromMonths(months []calendar.MonthDescriptor) []MonthRow {
	rows := make([]MonthRow, len(months))
	for i, md := range months {
		rows[i] = MonthRow{
			Seq:               i,
			Rabjung:           md.Rabjung,
			Year:              md.Year,
			Month:             md.Month,
			Flag:              int(md.Flag),
			ElapsedMonthIndex: md.ElapsedMonthIndex,
			Skip1:             md.Skip1,
			Skip2:             md.Skip2,
			Double1:           md.Double1,
			Double2:           md.Double2,
			WesternStartDate:  calendar.FormatDate(md.WesternStartDate),
		}
	}
	return rows
}
