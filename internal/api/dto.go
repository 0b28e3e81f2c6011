package api

import (
	"github.com/zapponejosh/tibcal-api/internal/calendar"
)

// TibetanDateJSON is the wire form of calendar.TibetanDate.
type TibetanDateJSON struct {
	Rabjung   int  `json:"rabjung"`
	Year      int  `json:"year"`
	Month     int  `json:"month"`
	MonthFlag int  `json:"month_flag"`
	Day       int  `json:"day"`
	Skipped   bool `json:"skipped"`
	DoubleDay int  `json:"double_day"`
}

// DatePairJSON pairs a Tibetan day with its Gregorian date, null when skipped.
type DatePairJSON struct {
	Tibetan   TibetanDateJSON `json:"tibetan"`
	Gregorian *string         `json:"gregorian"`
}

// MonthJSON is the wire form of a month descriptor.
type MonthJSON struct {
	Rabjung           int    `json:"rabjung"`
	Year              int    `json:"year"`
	Month             int    `json:"month"`
	MonthFlag         int    `json:"month_flag"`
	ElapsedMonthIndex int    `json:"elapsed_month_index"`
	Skip1             int    `json:"skip1"`
	Skip2             int    `json:"skip2"`
	Double1           int    `json:"double1"`
	Double2           int    `json:"double2"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	Length            int    `json:"length"`
}

// GregorianDayJSON is one entry of a range conversion.
type GregorianDayJSON struct {
	Gregorian string          `json:"gregorian"`
	Tibetan   TibetanDateJSON `json:"tibetan"`
}

func toTibetanJSON(d calendar.TibetanDate) TibetanDateJSON {
	return TibetanDateJSON{
		Rabjung:   d.Rabjung,
		Year:      d.Year,
		Month:     d.Month,
		MonthFlag: int(d.MonthFlag),
		Day:       d.Day,
		Skipped:   d.Skipped,
		DoubleDay: int(d.DoubleDay),
	}
}

func toPairsJSON(pairs []calendar.DatePair) []DatePairJSON {
	out := make([]DatePairJSON, len(pairs))
	for i, p := range pairs {
		out[i].Tibetan = toTibetanJSON(p.Tibetan)
		if p.Gregorian != nil {
			s := calendar.FormatDate(*p.Gregorian)
			out[i].Gregorian = &s
		}
	}
	return out
}

func toMonthJSON(md calendar.MonthDescriptor) MonthJSON {
	return MonthJSON{
		Rabjung:           md.Rabjung,
		Year:              md.Year,
		Month:             md.Month,
		MonthFlag:         int(md.Flag),
		ElapsedMonthIndex: md.ElapsedMonthIndex,
		Skip1:             md.Skip1,
		Skip2:             md.Skip2,
		Double1:           md.Double1,
		Double2:           md.Double2,
		StartDate:         calendar.FormatDate(md.WesternStartDate),
		EndDate:           calendar.FormatDate(md.LastDate()),
		Length:            md.Length(),
	}
}
