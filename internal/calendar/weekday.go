package calendar

import "fmt"

// correction selects whether an equation of motion is added to or
// subtracted from the mean position.
type correction int

const (
	correctionAdd correction = iota
	correctionSubtract
)

// Equation of the moon: (offset, multiplier) per step of the 14-step
// anomaly cycle.
var moonEquationTable = [14][2]int{
	{0, 5}, {5, 5}, {10, 5}, {15, 4}, {19, 3}, {22, 2}, {24, 1},
	{25, 1}, {24, 2}, {22, 3}, {19, 4}, {15, 5}, {10, 5}, {5, 5},
}

// Equation of the sun: (offset, multiplier) per 135-unit sector.
var sunEquationTable = [6][2]int{
	{0, 6}, {6, 4}, {10, 1}, {11, 1}, {10, 4}, {6, 6},
}

// The corrected weekday carries one extra fractional digit.
var correctedModuli = [6]int{7, 60, 60, 6, 67, 707}

// After rescaling, the last digit of the lunar weekday is in 67ths.
var sunCorrectionModuli = []int{7, 60, 60, 6, 67}

// CorrectedWeekday returns the corrected lunar weekday (0..6) of day d of a
// month with the given roots.
func CorrectedWeekday(d int, roots MonthRoots) (int, error) {
	meanWeekday := addDigits(roots.Weekday[:], weekdayMotion(d), weekdayModuli[:])
	meanSun := addDigits(roots.Solar[:], solarMotion(d), solarModuli[:])

	moonCase, moonCorr, err := moonEquation(d, roots.Lunation)
	if err != nil {
		return 0, err
	}
	halfCorrected := applyCorrection(moonCase, meanWeekday, moonCorr, weekdayModuli[:])

	sunCase, sunCorr, err := sunEquation(meanSun)
	if err != nil {
		return 0, err
	}

	// Rescale the last digit from 707ths to 67ths and keep the remainder
	// as a sixth digit.
	scaled := 67 * halfCorrected[4]
	whole := []int{halfCorrected[0], halfCorrected[1], halfCorrected[2], halfCorrected[3], scaled / 707}
	fraction := scaled % 707

	var result [6]int
	switch sunCase {
	case correctionAdd:
		copy(result[:5], addDigits(whole, sunCorr, sunCorrectionModuli))
		result[5] = fraction
	case correctionSubtract:
		// The fractional digit is subtracted as a whole unit from the
		// last integral digit and returned as its complement.
		sub := []int{sunCorr[0], sunCorr[1], sunCorr[2], sunCorr[3], sunCorr[4] + 1}
		copy(result[:5], subtractDigits(whole, sub, sunCorrectionModuli))
		result[5] = 707 - fraction
	}

	normalizeDigits(result[:], correctedModuli[:])
	return result[0], nil
}

// weekdayMotion is the mean lunar weekday travelled in d lunar days.
func weekdayMotion(d int) []int {
	out := make([]int, 5)
	x := 16 * d
	out[4] = x % 707
	x = 4*d + x/707
	out[3] = x % 6
	x = 3*d + x/6
	out[2] = x % 60
	x = 59*d + x/60
	out[1] = x % 60
	out[0] = (x / 60) % 7
	return out
}

// solarMotion is the mean solar longitude travelled in d lunar days.
func solarMotion(d int) []int {
	out := make([]int, 5)
	x := 43 * d
	out[4] = x % 67
	x = 5*d + x/67
	out[3] = x % 6
	x = 21*d + x/6
	out[2] = x % 60
	x = 4*d + x/60
	out[1] = x % 60
	out[0] = (x / 60) % 27
	return out
}

// moonEquation returns the lunar correction for day d, expressed in lunar
// weekday units, and whether it is to be added or subtracted.
func moonEquation(d int, lun LunationRoot) (correction, []int, error) {
	step := lun[0] + d
	half := step / 14
	idx := step % 14
	offset, mult := moonEquationTable[idx][0], moonEquationTable[idx][1]

	x := lun[1] * mult
	q2, r2 := x/126, x%126
	q3, r3 := (60*r2)/126, (60*r2)%126
	q4, r4 := (6*r3)/126, (6*r3)%126
	q5, r5 := (707*r4)/126, (707*r4)%126
	if r5 != 0 {
		return 0, nil, fmt.Errorf("%w: moon equation remainder %d for day %d", ErrInvariant, r5, d)
	}

	var corr []int
	if idx <= 6 {
		corr = []int{0, offset + q2, q3, q4, q5}
	} else {
		corr = []int{0, offset - q2 - 1, 59 - q3, 5 - q4, 707 - q5}
	}

	if half%2 == 0 {
		return correctionAdd, corr, nil
	}
	return correctionSubtract, corr, nil
}

// sunEquation returns the solar correction for a mean sun position and
// whether it is to be added or subtracted.
func sunEquation(meanSun []int) (correction, []int, error) {
	sign, degrees, minutes := sunAnomaly(meanSun[0], meanSun[1])

	b1, b2 := degrees, minutes
	switch {
	case degrees >= 13 && minutes >= 30:
		b1, b2 = degrees-13, minutes-30
	case degrees > 13:
		b1, b2 = degrees-14, minutes+30
	}

	sector := (60*b1 + b2) / 135
	rem := (60*b1 + b2) % 135
	if sector < 0 || sector >= len(sunEquationTable) {
		return 0, nil, fmt.Errorf("%w: sun equation sector %d", ErrInvariant, sector)
	}
	offset, mult := sunEquationTable[sector][0], sunEquationTable[sector][1]

	x := meanSun[4] * mult
	r5q, r5 := x/67, x%67
	x = meanSun[3]*mult + r5q
	r4q, r4 := x/6, x%6
	x = meanSun[2]*mult + r4q
	r3q, r3 := x/60, x%60
	x = rem*mult + r3q

	e2q, e2r := x/135, x%135
	x = 60*e2r + r3
	e3q, e3r := x/135, x%135
	x = 6*e3r + r4
	e4q, e4r := x/135, x%135
	x = 67*e4r + r5
	e5q, e5r := x/135, x%135
	if e5r != 0 {
		return 0, nil, fmt.Errorf("%w: sun equation remainder %d", ErrInvariant, e5r)
	}

	var corr []int
	if sector <= 2 {
		corr = []int{0, offset + e2q, e3q, e4q, e5q}
	} else {
		corr = []int{0, offset - e2q - 1, 59 - e3q, 5 - e4q, 67 - e5q}
	}
	return sign, corr, nil
}

// sunAnomaly measures the mean sun from the solar apogee, in lunar mansions
// and their sixtieths, and picks the half of the orbit it falls in.
func sunAnomaly(mansions, minutes int) (correction, int, int) {
	if mansions < 6 {
		mansions += 27
	}
	if minutes < 45 {
		mansions--
		minutes += 60
	}
	degrees, mins := mansions-6, minutes-45

	if (degrees >= 13 && mins >= 30) || degrees > 13 {
		return correctionAdd, degrees, mins
	}
	return correctionSubtract, degrees, mins
}

// applyCorrection adds or subtracts a correction from a mean position.
func applyCorrection(c correction, mean, corr, moduli []int) []int {
	switch c {
	case correctionSubtract:
		return subtractDigits(mean, corr, moduli)
	default:
		return addDigits(mean, corr, moduli)
	}
}

// addDigits adds two mixed-radix numbers with a single carry per digit.
// The most significant digit wraps at its modulus.
func addDigits(a, b, moduli []int) []int {
	out := make([]int, len(a))
	carry := 0
	for i := len(a) - 1; i >= 0; i-- {
		v := a[i] + b[i] + carry
		carry = 0
		if v >= moduli[i] {
			v -= moduli[i]
			carry = 1
		}
		out[i] = v
	}
	return out
}

// subtractDigits subtracts b from a digit by digit. A digit borrows from its
// more significant neighbour whenever b's digit exceeds a's; the incoming
// borrow is not considered, so digits may come out as -1 and are left for
// normalizeDigits. The most significant digit does not wrap.
func subtractDigits(a, b, moduli []int) []int {
	out := make([]int, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	for i := len(a) - 1; i > 0; i-- {
		if b[i] > a[i] {
			out[i] += moduli[i]
			out[i-1]--
		}
	}
	return out
}

// normalizeDigits makes one pass from the least significant digit, adding
// the modulus to a negative digit and borrowing from the next.
func normalizeDigits(digits, moduli []int) {
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < 0 {
			digits[i] += moduli[i]
			if i > 0 {
				digits[i-1]--
			}
		}
	}
}
