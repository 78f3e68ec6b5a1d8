package domain

import "strconv"

var monthTable = map[string]bool{
	"01": true, "02": true, "03": true, "04": true,
	"05": true, "06": true, "07": true, "08": true,
	"09": true, "10": true, "11": true, "12": true,
}

var dayTable = buildDayTable()

func buildDayTable() map[string]bool {
	days := make(map[string]bool, 31)
	for d := 1; d <= 31; d++ {
		days[twoDigits(d)] = true
	}
	return days
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// ValidYear reports whether s is a 4-digit year string in (1000, 3000).
func ValidYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return y > 1000 && y < 3000
}

// ValidMonth reports whether s is one of the 12 zero-padded month strings.
func ValidMonth(s string) bool {
	return monthTable[s]
}

// ValidDay reports whether s is a zero-padded day string between 01 and 31.
func ValidDay(s string) bool {
	return dayTable[s]
}
