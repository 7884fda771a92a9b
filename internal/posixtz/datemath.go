package posixtz

// isLeapYear determines if the year is a leap year.
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysInMonth returns the number of days in a given month for a specific year.
func daysInMonth(month, year int) int {
	if month == 2 {
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}
	return 31
}

// dayOfWeek calculates the day of the week for a given date,
// where 0=Sunday, 1=Monday, ..., 6=Saturday.
func dayOfWeek(day, month, year int) int {
	// Zeller's Congruence adjusted for the Gregorian calendar.
	if month < 3 {
		month += 12
		year -= 1
	}
	k := year % 100
	j := year / 100
	h := (day + ((13 * (month + 1)) / 5) + k + (k / 4) + (j / 4) + (5 * j)) % 7
	return (h + 6) % 7
}

// lastWeekdayOfMonth finds the last instance of a given weekday in a specific month and year.
func lastWeekdayOfMonth(year, month, weekday int) int {
	lastDay := daysInMonth(month, year)
	offset := (dayOfWeek(lastDay, month, year) - weekday + 7) % 7
	return lastDay - offset
}

// nthWeekdayOfMonth returns the day of month of the n-th (1-based) weekday
// in month. Week 5 always means the last such weekday, as in POSIX "Mm.w.d".
func nthWeekdayOfMonth(year, month, n, weekday int) int {
	if n >= 5 {
		return lastWeekdayOfMonth(year, month, weekday)
	}
	first := 1 + (weekday-dayOfWeek(1, month, year)+7)%7
	return first + 7*(n-1)
}
