package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okian/epiherd/internal/domain/scenariotime"
)

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "calendar TICK...",
		Short:   "Show how scenario ticks map onto the 364-day calendar",
		Example: `  epiherd calendar 1 28 29 364 365`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			marker := color.New(color.FgCyan)
			for _, arg := range args {
				tick, err := strconv.ParseUint(arg, 10, 64)
				if err != nil || tick == 0 {
					return fmt.Errorf("invalid tick %q: must be a positive integer", arg)
				}
				st := scenariotime.At(tick)

				var flags string
				if st.FirstDayOfYear() {
					flags += marker.Sprint(" first-of-year")
				}
				if st.LastDayOfYear() {
					flags += marker.Sprint(" last-of-year")
				}
				if st.FirstDayOfMonth() {
					flags += marker.Sprint(" first-of-month")
				}
				if st.FirstDayOfWeek(nil) {
					flags += marker.Sprint(" first-of-week")
				}

				_, _ = fmt.Fprintf(w, "%s; Year %d; Day %d; Month %d; %s%s\n",
					st, st.Year(), st.DayInYear(), st.MonthInYear(), st.Date().Format("2006-01-02"), flags)
			}
			return nil
		},
	}
}
