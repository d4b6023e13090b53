package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/epiherd/internal/adapters/recorder"
	"github.com/okian/epiherd/internal/config"
)

func execute(args ...string) (string, error) {
	color.NoColor = true
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCalendarCommand(t *testing.T) {
	convey.Convey("Given the calendar command", t, func() {
		convey.Convey("When asked about the edges of the first year", func() {
			out, err := execute("calendar", "1", "29", "364", "365")

			convey.Convey("Then every tick should be described", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Time: 1; Week no. 1; Year 1; Day 1; Month 1; 2000-01-01 first-of-year first-of-month first-of-week")
				convey.So(out, convey.ShouldContainSubstring, "Time: 29; Week no. 5; Year 1; Day 29; Month 2;")
				convey.So(out, convey.ShouldContainSubstring, "Time: 364; Week no. 52; Year 1; Day 364; Month 13;")
				convey.So(out, convey.ShouldContainSubstring, "Time: 365; Week no. 1; Year 2; Day 1; Month 1;")
			})
		})

		convey.Convey("When given an invalid tick", func() {
			_, err := execute("calendar", "0")

			convey.Convey("Then it should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestRunCommand(t *testing.T) {
	convey.Convey("Given the run command", t, func() {
		_ = os.Unsetenv(config.EnvConfig)
		dir := filepath.Join(t.TempDir(), "out")

		convey.Convey("When running a short scenario with CSV output", func() {
			out, err := execute("run", "--days", "7", "--seed", "3", "--output", dir, "--no-progress", "--parallel")

			convey.Convey("Then it should print a summary", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Scenario summary")
				convey.So(out, convey.ShouldContainSubstring, "seed")
				convey.So(out, convey.ShouldContainSubstring, dir)
			})

			convey.Convey("Then it should write the farm states", func() {
				_, err := os.Stat(filepath.Join(dir, recorder.FarmStatesFile))
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a flag makes the configuration invalid", func() {
			_, err := execute("run", "--days", "0", "--no-progress", "--output", dir)

			convey.Convey("Then it should fail before running", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "max_timesteps")
			})
		})

		convey.Convey("When the config file is missing", func() {
			_, err := execute("run", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--no-progress")

			convey.Convey("Then it should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
