package worker_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/okian/epiherd/internal/adapters/worker"
	"github.com/okian/epiherd/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPool(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	Convey("Given a pool of four workers", t, func() {
		p := worker.NewPool(4, worker.WithName("test-pool"))
		ctx := context.Background()

		Convey("Then it should report its size", func() {
			So(p.Size(), ShouldEqual, 4)
		})

		Convey("When running over more items than workers", func() {
			visited := make([]int32, 103)
			err := p.Run(ctx, len(visited), func(_ context.Context, i int) error {
				atomic.AddInt32(&visited[i], 1)
				return nil
			})

			Convey("Then every index should be visited exactly once", func() {
				So(err, ShouldBeNil)
				for i := range visited {
					So(visited[i], ShouldEqual, 1)
				}
			})
		})

		Convey("When running over fewer items than workers", func() {
			var calls int32
			err := p.Run(ctx, 2, func(_ context.Context, _ int) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})

			Convey("Then only those items should be processed", func() {
				So(err, ShouldBeNil)
				So(calls, ShouldEqual, 2)
			})
		})

		Convey("When there is nothing to do", func() {
			err := p.Run(ctx, 0, func(_ context.Context, _ int) error {
				return errors.New("unexpected call")
			})

			Convey("Then it should return immediately", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When an item fails", func() {
			boom := errors.New("boom")
			err := p.Run(ctx, 50, func(_ context.Context, i int) error {
				if i == 17 {
					return boom
				}
				return nil
			})

			Convey("Then the error should be returned wrapped with its index", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "index 17")
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			err := p.Run(cctx, 10, func(_ context.Context, _ int) error { return nil })

			Convey("Then the cancellation should be reported", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When no function is given", func() {
			Convey("Then it should fail", func() {
				So(errors.Is(p.Run(ctx, 1, nil), worker.ErrNilFunc), ShouldBeTrue)
			})
		})
	})

	Convey("Given a pool without an explicit size", t, func() {
		p := worker.NewPool(0, worker.WithLogger(logger.Get()))

		Convey("Then it should default to at least one worker", func() {
			So(p.Size(), ShouldBeGreaterThanOrEqualTo, 1)
		})
	})
}
