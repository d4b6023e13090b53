package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/epiherd/internal/adapters/http/api"
	"github.com/okian/epiherd/pkg/metrics"
)

func serve(mux *http.ServeMux, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a status server for a running scenario", t, func() {
		tracker := api.NewTracker("run-1", 364)
		mux := http.NewServeMux()
		api.NewServer(tracker, metrics.GetRegistry()).Register(mux)

		Convey("When the health endpoint is requested", func() {
			w := serve(mux, http.MethodGet, "/healthz")

			Convey("Then it should report ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
			})
		})

		Convey("When the health endpoint receives a POST", func() {
			w := serve(mux, http.MethodPost, "/healthz")

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When days are observed and stats are requested", func() {
			tracker.Observe(5, 5, 2, 30, 1, 0)
			tracker.Observe(6, 6, 3, 41, 2, 1)
			w := serve(mux, http.MethodGet, "/stats")

			Convey("Then the latest progress should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var p api.Progress
				So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
				So(p.RunID, ShouldEqual, "run-1")
				So(p.State, ShouldEqual, api.StateRunning)
				So(p.Tick, ShouldEqual, 6)
				So(p.MaxTimesteps, ShouldEqual, 364)
				So(p.InfectedFarms, ShouldEqual, 3)
				So(p.InfectedAnimals, ShouldEqual, 41)
				So(p.Transmissions, ShouldEqual, 3)
				So(p.Detections, ShouldEqual, 1)
			})
		})

		Convey("When the run finishes", func() {
			tracker.Finish("no_infection")
			p := tracker.Snapshot()

			Convey("Then the snapshot should carry the reason", func() {
				So(p.State, ShouldEqual, api.StateFinished)
				So(p.Reason, ShouldEqual, "no_infection")
			})
		})

		Convey("When metrics are requested after a status call", func() {
			serve(mux, http.MethodGet, "/healthz")
			w := serve(mux, http.MethodGet, "/metrics")

			Convey("Then the request counter should be exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "epiherd_http_requests_total")
			})
		})

		Convey("When an unknown path is requested", func() {
			w := serve(mux, http.MethodGet, "/leaderboard")

			Convey("Then it should not be found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
