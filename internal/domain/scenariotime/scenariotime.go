// Package scenariotime tracks elapsed simulated days and derives calendar
// predicates from them.
//
// A scenario year has 364 days: 52 weeks of 7 days, or 13 months of 28 days.
// Day and week numbering within a year start at 1, and day 364 is the last
// day of a year rather than day 0 of the next.
package scenariotime

import (
	"fmt"
	"math"
	"time"
)

// Time counts scenario days.
type Time = uint64

// Calendar constants.
const (
	DaysInYear   Time = 364
	WeeksInYear  Time = 52
	DaysInWeek   Time = 7
	DaysInMonth  Time = 28
	MonthsInYear Time = 13
)

// ScenarioTime keeps track of elapsed days. The zero value is not useful;
// construct with New.
type ScenarioTime struct {
	startTime   Time
	endTime     *Time
	elapsedTime Time
}

// New creates a clock starting at start. end is optional; pass nil for an
// open-ended scenario. A start of 0 is allowed as long as the clock is
// advanced before it is read.
func New(start Time, end *Time) (*ScenarioTime, error) {
	st := &ScenarioTime{startTime: start}
	if end != nil {
		if *end < start {
			return nil, fmt.Errorf("%w: start %d, end %d", ErrInvalidRange, start, *end)
		}
		e := *end
		st.endTime = &e
	}
	return st, nil
}

// At is a convenience for an open-ended clock already positioned at day t.
func At(t Time) *ScenarioTime {
	return &ScenarioTime{startTime: t}
}

// Advance moves the clock forward by days. It must only be called from the
// scenario loop.
func (s *ScenarioTime) Advance(days Time) error {
	if days > math.MaxUint64-s.startTime-s.elapsedTime {
		return fmt.Errorf("%w: elapsed %d + %d", ErrTimeOverflow, s.elapsedTime, days)
	}
	s.elapsedTime += days
	return nil
}

// CurrentTime returns the current day. Reading the clock while it is still
// at day 0 is a programming error and panics.
func (s *ScenarioTime) CurrentTime() Time {
	t := s.startTime + s.elapsedTime
	if t == 0 {
		panic("scenariotime: current time must be greater than 0; advance the clock first")
	}
	return t
}

// StartTime returns the first day of the scenario.
func (s *ScenarioTime) StartTime() Time { return s.startTime }

// EndTime returns the configured end day, if any.
func (s *ScenarioTime) EndTime() (Time, bool) {
	if s.endTime == nil {
		return 0, false
	}
	return *s.endTime, true
}

// ElapsedDuration returns the days elapsed since the start.
func (s *ScenarioTime) ElapsedDuration() Time { return s.elapsedTime }

// ScenarioDuration returns end - start, or the elapsed duration for an
// open-ended scenario.
func (s *ScenarioTime) ScenarioDuration() Time {
	if s.endTime == nil {
		return s.ElapsedDuration()
	}
	return *s.endTime - s.startTime
}

// Ended reports whether the current time has reached the end time.
func (s *ScenarioTime) Ended() (bool, error) {
	if s.endTime == nil {
		return false, ErrNoEndTime
	}
	return s.CurrentTime() >= *s.endTime, nil
}

// Year returns the scenario year, starting from 1.
func (s *ScenarioTime) Year() Time {
	return ceilDiv(s.CurrentTime(), DaysInYear)
}

// DayInYear returns the day within the year in 1..=364.
func (s *ScenarioTime) DayInYear() Time {
	t := s.CurrentTime()
	if d := t % DaysInYear; d != 0 {
		return d
	}
	return DaysInYear
}

// WeekInYear returns the week within the year in 1..=52.
func (s *ScenarioTime) WeekInYear() Time {
	return ceilDiv(s.DayInYear(), DaysInWeek)
}

// MonthInYear returns the four-week month within the year in 1..=13.
func (s *ScenarioTime) MonthInYear() Time {
	return ceilDiv(s.DayInYear(), DaysInMonth)
}

// FirstDayOfYear reports whether today is day 1 of a year.
func (s *ScenarioTime) FirstDayOfYear() bool { return s.DayInYear() == 1 }

// LastDayOfYear reports whether today is day 364 of a year.
func (s *ScenarioTime) LastDayOfYear() bool { return s.DayInYear() == DaysInYear }

// FirstDayOfWeek reports whether today starts a week. When week is non-nil
// the week number within the year must match as well.
func (s *ScenarioTime) FirstDayOfWeek(week *Time) bool {
	if s.CurrentTime()%DaysInWeek != 1 {
		return false
	}
	return week == nil || *week == s.WeekInYear()
}

// FirstDayOfMonth reports whether today starts a four-week month.
func (s *ScenarioTime) FirstDayOfMonth() bool {
	return (s.DayInYear()-1)%DaysInMonth == 0
}

// FirstDayDate is the calendar date assigned to day 1, used when plotting.
func FirstDayDate() time.Time {
	return time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Date maps the current day onto the calendar, with day 1 at FirstDayDate.
func (s *ScenarioTime) Date() time.Time {
	return FirstDayDate().AddDate(0, 0, int(s.CurrentTime()-1))
}

func (s *ScenarioTime) String() string {
	return fmt.Sprintf("Time: %d; Week no. %d", s.CurrentTime(), s.WeekInYear())
}

func ceilDiv(a, b Time) Time {
	if a <= b {
		return 1
	}
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
