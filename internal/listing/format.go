package listing

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatSalary renders a salary range the way job cards show it.
func FormatSalary(min, max int) string {
	switch {
	case min == 0 && max == 0:
		return "Salary not specified"
	case min != 0 && max != 0:
		return formatAmount(min) + " - " + formatAmount(max)
	case min != 0:
		return formatAmount(min) + "+"
	default:
		return "Up to " + formatAmount(max)
	}
}

func formatAmount(amount int) string {
	if amount >= 1000 {
		return fmt.Sprintf("$%.0fK", math.Round(float64(amount)/1000))
	}
	return "$" + humanize.Comma(int64(amount))
}

// FormatPosted renders how long ago a job was posted, counted in started
// calendar-length days.
func FormatPosted(posted, now time.Time) string {
	diff := now.Sub(posted)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(float64(diff) / float64(day)))

	switch {
	case days <= 1:
		return "Today"
	case days == 2:
		return "Yesterday"
	case days <= 7:
		return fmt.Sprintf("%d days ago", days-1)
	case days <= 30:
		return plural(ceilDiv(days, 7), "week")
	case days <= 365:
		return plural(ceilDiv(days, 30), "month")
	default:
		return plural(ceilDiv(days, 365), "year")
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func plural(n int, unit string) string {
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// FormatCount renders a results count with thousands separators.
func FormatCount(n int) string {
	if n == 1 {
		return "1 job"
	}
	return humanize.Comma(int64(n)) + " jobs"
}
