package calendar

// Root vectors are mixed-radix numbers stored most significant digit first.

// LunarWeekdayRoot is the mean lunar weekday at the start of a month.
// Digit moduli: 7, 60, 60, 6, 707.
type LunarWeekdayRoot [5]int

// SolarPositionRoot is the mean solar longitude at the start of a month.
// Digit moduli: 27, 60, 60, 6, 67.
type SolarPositionRoot [5]int

// LunationRoot is the lunar anomaly at the start of a month.
// Digit moduli: 28, 126.
type LunationRoot [2]int

// Recurrence periods, in months.
const (
	lunarWeekdayPeriod  = 39592
	solarPositionPeriod = 804
	lunationPeriod      = 3528
)

var (
	weekdayModuli = [5]int{7, 60, 60, 6, 707}
	solarModuli   = [5]int{27, 60, 60, 6, 67}
)

// MonthRoots bundles the three roots of one month.
type MonthRoots struct {
	Weekday  LunarWeekdayRoot
	Solar    SolarPositionRoot
	Lunation LunationRoot
}

// RootsFor computes all three roots for an elapsed-month index.
func RootsFor(m int) MonthRoots {
	return MonthRoots{
		Weekday:  LunarWeekdayRootFor(m),
		Solar:    SolarPositionRootFor(m),
		Lunation: LunationRootFor(m),
	}
}

// normalizeIndex maps a negative index into [0, period) by whole periods.
// Non-negative indices are returned unchanged.
func normalizeIndex(m, period int) int {
	if m >= 0 {
		return m
	}
	m %= period
	if m < 0 {
		m += period
	}
	return m
}

// LunarWeekdayRootFor computes the lunar weekday root of month m.
func LunarWeekdayRootFor(m int) LunarWeekdayRoot {
	m = normalizeIndex(m, lunarWeekdayPeriod)

	var r LunarWeekdayRoot
	x := 480*m + 20
	r[4] = x % 707
	x = 2 + x/707
	r[3] = x % 6
	x = 50*m + 53 + x/6
	r[2] = x % 60
	x = 31*m + 57 + x/60
	r[1] = x % 60
	r[0] = (m + 6 + x/60) % 7
	return r
}

// SolarPositionRootFor computes the solar position root of month m.
func SolarPositionRootFor(m int) SolarPositionRoot {
	m = normalizeIndex(m, solarPositionPeriod)

	var r SolarPositionRoot
	x := 17*m + 32
	r[4] = x % 67
	x = m + 4 + x/67
	r[3] = x % 6
	x = 58*m + 10 + x/6
	r[2] = x % 60
	x = 10*m + 9 + x/60
	r[1] = x % 60
	r[0] = (2*m + 25 + x/60) % 27
	return r
}

// LunationRootFor computes the lunation root of month m.
func LunationRootFor(m int) LunationRoot {
	m = normalizeIndex(m, lunationPeriod)

	var r LunationRoot
	x := m + 103
	r[1] = x % 126
	r[0] = (2*m + 13 + x/126) % 28
	return r
}
