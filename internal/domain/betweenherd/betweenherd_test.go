package betweenherd_test

import (
	"errors"
	"testing"

	"github.com/okian/epiherd/internal/domain/betweenherd"
	"github.com/okian/epiherd/internal/domain/model"
	"github.com/okian/epiherd/internal/domain/parameters"
	"github.com/okian/epiherd/internal/domain/population"
	. "github.com/smartystreets/goconvey/convey"
)

type farmSetup struct {
	id          population.FarmID
	herd        int
	susceptible int
	infected    int
	adjacent    []population.FarmID
}

func buildStore(contactRate float64, setups ...farmSetup) *population.Store {
	records := make([]population.Record, len(setups))
	for i, s := range setups {
		records[i] = population.Record{ID: s.id, HerdSize: s.herd, AdjacentFarms: s.adjacent}
	}
	store, err := population.NewStore(records, population.Defaults{
		ContactRate: parameters.ContactRate(parameters.MustProbability(contactRate)),
	})
	if err != nil {
		panic(err)
	}
	for i, s := range setups {
		f := store.At(i)
		f.Susceptible = s.susceptible
		f.Infected = s.infected
		f.Recovered = s.herd - s.susceptible - s.infected
	}
	return store
}

func TestUpdate(t *testing.T) {
	Convey("Given two fully infected origins targeting one susceptible farm", t, func() {
		store := buildStore(1,
			farmSetup{id: 1, herd: 10, infected: 10, adjacent: []population.FarmID{2}},
			farmSetup{id: 2, herd: 10, susceptible: 10, adjacent: []population.FarmID{1}},
			farmSetup{id: 3, herd: 5, infected: 5, adjacent: []population.FarmID{2}},
		)
		m := betweenherd.New()
		rng := parameters.NewSource(20210426)

		Convey("When one day is simulated", func() {
			batch, err := m.Update(store, rng, 1)

			Convey("Then both transmissions should be recorded in origin order", func() {
				So(err, ShouldBeNil)
				So(batch, ShouldNotBeNil)
				So(batch.Tick, ShouldEqual, 1)
				So(batch.BatchID, ShouldEqual, 1)
				So(batch.Events, ShouldResemble, []model.InfectionEvent{
					{Origin: 1, Target: 2, NewInfections: 1},
					{Origin: 3, Target: 2, NewInfections: 1},
				})
			})

			Convey("Then the target should have moved two animals", func() {
				f, _ := store.Lookup(2)
				So(f.Susceptible, ShouldEqual, 8)
				So(f.Infected, ShouldEqual, 2)
				So(store.Totals().Total(), ShouldEqual, 25)
			})

			Convey("When a second day is simulated", func() {
				next, err := m.Update(store, rng, 2)

				Convey("Then the batch id should advance", func() {
					So(err, ShouldBeNil)
					So(next.BatchID, ShouldEqual, 2)
					So(m.BatchID(), ShouldEqual, 2)
					So(next.Events[0], ShouldResemble, model.InfectionEvent{Origin: 1, Target: 2, NewInfections: 1})
					So(next.Events[len(next.Events)-1], ShouldResemble, model.InfectionEvent{Origin: 3, Target: 2, NewInfections: 1})
				})
			})
		})
	})

	Convey("Given a target with a single susceptible animal", t, func() {
		store := buildStore(1,
			farmSetup{id: 1, herd: 4, infected: 4, adjacent: []population.FarmID{3}},
			farmSetup{id: 2, herd: 4, infected: 4, adjacent: []population.FarmID{3}},
			farmSetup{id: 3, herd: 4, susceptible: 1, adjacent: []population.FarmID{1}},
		)

		Convey("When both origins transmit to it", func() {
			batch, err := betweenherd.New().Update(store, parameters.NewSource(1), 5)

			Convey("Then only the first should be recorded", func() {
				So(err, ShouldBeNil)
				So(batch.Events, ShouldResemble, []model.InfectionEvent{{Origin: 1, Target: 3, NewInfections: 1}})
				f, _ := store.Lookup(3)
				So(f.Susceptible, ShouldEqual, 0)
				So(f.Infected, ShouldEqual, 1)
			})
		})
	})

	Convey("Given farms that never send animals", t, func() {
		store := buildStore(0,
			farmSetup{id: 1, herd: 10, infected: 10, adjacent: []population.FarmID{2}},
			farmSetup{id: 2, herd: 10, susceptible: 10, adjacent: []population.FarmID{1}},
		)
		m := betweenherd.New()

		Convey("Then no batch should be emitted and the counter should stay", func() {
			batch, err := m.Update(store, parameters.NewSource(1), 1)
			So(err, ShouldBeNil)
			So(batch, ShouldBeNil)
			So(m.BatchID(), ShouldEqual, 0)
		})
	})

	Convey("Given no infected farms", t, func() {
		store := buildStore(1,
			farmSetup{id: 1, herd: 10, susceptible: 10},
		)

		Convey("Then an empty adjacency list should not matter", func() {
			batch, err := betweenherd.New().Update(store, parameters.NewSource(1), 1)
			So(err, ShouldBeNil)
			So(batch, ShouldBeNil)
		})
	})
}

func TestOriginSnapshot(t *testing.T) {
	Convey("Given an origin that is itself infected earlier the same day", t, func() {
		const trials = 2000
		sent := 0
		for seed := uint64(0); seed < trials; seed++ {
			// Farm 2 is half infected when selected and fully infected after
			// farm 1 transmits to it.
			store := buildStore(1,
				farmSetup{id: 1, herd: 10, infected: 10, adjacent: []population.FarmID{2}},
				farmSetup{id: 2, herd: 2, susceptible: 1, infected: 1, adjacent: []population.FarmID{3}},
				farmSetup{id: 3, herd: 10, susceptible: 10, adjacent: []population.FarmID{1}},
			)
			batch, err := betweenherd.New().Update(store, parameters.NewSource(seed), 1)
			So(err, ShouldBeNil)
			for _, e := range batch.Events {
				if e.Origin == 2 {
					sent++
				}
			}
		}

		Convey("Then its pressure should come from the selection-time count", func() {
			So(float64(sent)/trials, ShouldBeBetween, 0.4, 0.6)
		})
	})
}

func TestFatalConditions(t *testing.T) {
	Convey("Given a sending farm with no neighbours", t, func() {
		store := buildStore(1, farmSetup{id: 1, herd: 10, infected: 1, susceptible: 9})

		Convey("Then the update should fail on topology", func() {
			_, err := betweenherd.New().Update(store, parameters.NewSource(1), 1)
			So(errors.Is(err, betweenherd.ErrTopology), ShouldBeTrue)
		})
	})

	Convey("Given a neighbour missing from the store", t, func() {
		store := buildStore(1,
			farmSetup{id: 1, herd: 10, infected: 10, adjacent: []population.FarmID{2}},
			farmSetup{id: 2, herd: 10, susceptible: 10, adjacent: []population.FarmID{1}},
		)
		store.At(0).AdjacentFarms = []population.FarmID{42}

		Convey("Then the update should fail on topology", func() {
			_, err := betweenherd.New().Update(store, parameters.NewSource(1), 1)
			So(errors.Is(err, betweenherd.ErrTopology), ShouldBeTrue)
		})
	})

	Convey("Given an origin with more infected than its herd size", t, func() {
		store := buildStore(1,
			farmSetup{id: 1, herd: 10, infected: 10, adjacent: []population.FarmID{2}},
			farmSetup{id: 2, herd: 10, susceptible: 10, adjacent: []population.FarmID{1}},
		)
		store.At(0).Infected = 11

		Convey("Then the update should fail on the invariant", func() {
			_, err := betweenherd.New().Update(store, parameters.NewSource(1), 1)
			So(errors.Is(err, betweenherd.ErrInvariant), ShouldBeTrue)
		})
	})
}

func TestDeterminism(t *testing.T) {
	Convey("Given two identical ring populations and seeds", t, func() {
		ring := func() *population.Store {
			setups := make([]farmSetup, 30)
			for i := range setups {
				id := population.FarmID(i + 1)
				setups[i] = farmSetup{
					id:          id,
					herd:        20,
					susceptible: 20,
					adjacent:    []population.FarmID{population.FarmID((i+29)%30 + 1), population.FarmID((i+1)%30 + 1)},
				}
			}
			setups[0].susceptible, setups[0].infected = 10, 10
			return buildStore(0.5, setups...)
		}
		a, b := ring(), ring()
		ma, mb := betweenherd.New(), betweenherd.New()
		ra, rb := parameters.NewSource(20210426), parameters.NewSource(20210426)

		Convey("Then they should emit identical batches", func() {
			for day := uint64(1); day <= 60; day++ {
				ba, errA := ma.Update(a, ra, day)
				bb, errB := mb.Update(b, rb, day)
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(ba, ShouldResemble, bb)
				So(a.Totals().Total(), ShouldEqual, 600)
			}
			So(a.Farms(), ShouldResemble, b.Farms())
		})
	})
}
