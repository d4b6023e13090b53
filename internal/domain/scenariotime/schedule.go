package scenariotime

import (
	"fmt"
	"strings"
)

// Criterion decides whether a periodic process runs today. Criteria must be
// pure functions of the clock.
type Criterion func(*ScenarioTime) bool

// Daily runs every day.
func Daily(*ScenarioTime) bool { return true }

// Never skips every day.
func Never(*ScenarioTime) bool { return false }

// Weekly runs on the first day of each week.
func Weekly(s *ScenarioTime) bool { return s.FirstDayOfWeek(nil) }

// Monthly runs on the first day of each four-week month.
func Monthly(s *ScenarioTime) bool { return s.FirstDayOfMonth() }

// Yearly runs on the first day of each year.
func Yearly(s *ScenarioTime) bool { return s.FirstDayOfYear() }

// EveryNDays runs on days 1, 1+n, 1+2n, ... of the scenario's absolute day
// count. n of 0 never runs.
func EveryNDays(n Time) Criterion {
	return func(s *ScenarioTime) bool {
		return n > 0 && (s.CurrentTime()-1)%n == 0
	}
}

// ParseSchedule maps a configuration name to a Criterion.
// Accepts: daily, weekly, monthly, yearly, never (case-insensitive).
func ParseSchedule(name string) (Criterion, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	case "never":
		return Never, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrSchedule, name)
	}
}
