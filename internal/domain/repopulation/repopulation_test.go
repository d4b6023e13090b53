package repopulation_test

import (
	"testing"

	"github.com/okian/epiherd/internal/domain/population"
	"github.com/okian/epiherd/internal/domain/repopulation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRescale(t *testing.T) {
	Convey("Given farms depleted by culling", t, func() {
		store, err := population.NewStore([]population.Record{
			{ID: 1, HerdSize: 100},
			{ID: 2, HerdSize: 50},
			{ID: 3, HerdSize: 10},
		}, population.Defaults{})
		So(err, ShouldBeNil)

		store.At(0).Compartments = population.Compartments{Susceptible: 30, Infected: 10, Recovered: 10}
		store.At(1).Compartments = population.Compartments{Susceptible: 25, Infected: 5, Recovered: 20}
		store.At(2).Compartments = population.Compartments{}

		Convey("When rescaled", func() {
			changed := repopulation.Rescale(store)

			Convey("Then depleted farms should be scaled back to herd size", func() {
				So(changed, ShouldEqual, 2)
				So(store.At(0).Compartments, ShouldResemble, population.Compartments{Susceptible: 60, Infected: 20, Recovered: 20})
			})

			Convey("Then full farms should be left alone", func() {
				So(store.At(1).Compartments, ShouldResemble, population.Compartments{Susceptible: 25, Infected: 5, Recovered: 20})
			})

			Convey("Then empty farms should be restocked as susceptible", func() {
				So(store.At(2).Compartments, ShouldResemble, population.Compartments{Susceptible: 10})
			})
		})
	})
}

func TestRescaleRounding(t *testing.T) {
	Convey("Given small herds where rounding every compartment would overshoot", t, func() {
		store, err := population.NewStore([]population.Record{
			{ID: 1, HerdSize: 5},
			{ID: 2, HerdSize: 3},
		}, population.Defaults{})
		So(err, ShouldBeNil)

		store.At(0).Compartments = population.Compartments{Susceptible: 1, Infected: 1, Recovered: 1}
		store.At(1).Compartments = population.Compartments{Infected: 1, Recovered: 1}

		Convey("When rescaled", func() {
			repopulation.Rescale(store)

			Convey("Then susceptible should take the remainder", func() {
				So(store.At(0).Compartments, ShouldResemble, population.Compartments{Susceptible: 1, Infected: 2, Recovered: 2})
			})

			Convey("Then recovered should give up any overshoot", func() {
				So(store.At(1).Compartments, ShouldResemble, population.Compartments{Infected: 2, Recovered: 1})
			})

			Convey("Then every herd should be exactly full", func() {
				for i := 0; i < store.Len(); i++ {
					So(store.At(i).Total(), ShouldEqual, store.At(i).HerdSize)
				}
			})
		})
	})
}
