package insight

import (
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	convey.Convey("Given a tracker", t, func() {
		now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		tr := NewTracker(WithTrackerClock(func() time.Time { return now }), WithRetention(time.Minute))

		convey.Convey("A job moves from loading to success and is published", func() {
			j, err := tr.Begin("c1", "fp-a", "u1", "GROW - Cohort 1", Request{CompanyID: "c1"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(j.State, convey.ShouldEqual, StateLoading)
			convey.So(j.Generation, convey.ShouldEqual, 1)

			published, err := tr.Complete(j.ID, Result{Insights: "ok"}, nil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(published, convey.ShouldBeTrue)

			got, err := tr.Get(j.ID)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got.State, convey.ShouldEqual, StateSuccess)
			convey.So(got.Result.Insights, convey.ShouldEqual, "ok")

			latest, ok := tr.Latest("c1")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(latest.ID, convey.ShouldEqual, j.ID)
		})

		convey.Convey("An identical loading request is rejected", func() {
			_, err := tr.Begin("c1", "fp-a", "u1", "", Request{})
			convey.So(err, convey.ShouldBeNil)
			_, err = tr.Begin("c1", "fp-a", "u1", "", Request{})
			convey.So(errors.Is(err, ErrInFlight), convey.ShouldBeTrue)
		})

		convey.Convey("A superseded job is marked stale and not published", func() {
			old, _ := tr.Begin("c1", "fp-a", "u1", "", Request{})
			fresh, _ := tr.Begin("c1", "fp-b", "u1", "", Request{})
			convey.So(tr.Current("c1"), convey.ShouldEqual, 2)

			published, err := tr.Complete(old.ID, Result{Insights: "old"}, nil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(published, convey.ShouldBeFalse)
			got, _ := tr.Get(old.ID)
			convey.So(got.Stale, convey.ShouldBeTrue)
			_, ok := tr.Latest("c1")
			convey.So(ok, convey.ShouldBeFalse)

			published, _ = tr.Complete(fresh.ID, Result{Insights: "new"}, nil)
			convey.So(published, convey.ShouldBeTrue)
			latest, _ := tr.Latest("c1")
			convey.So(latest.Result.Insights, convey.ShouldEqual, "new")
		})

		convey.Convey("Scopes are independent", func() {
			a, _ := tr.Begin("c1", "fp", "u1", "", Request{})
			_, err := tr.Begin("c2", "fp", "u2", "", Request{})
			convey.So(err, convey.ShouldBeNil)
			published, _ := tr.Complete(a.ID, Result{}, nil)
			convey.So(published, convey.ShouldBeTrue)
		})

		convey.Convey("Failures record the message", func() {
			j, _ := tr.Begin("c1", "fp", "u1", "", Request{})
			_, _ = tr.Complete(j.ID, Result{}, errors.New("provider down"))
			got, _ := tr.Get(j.ID)
			convey.So(got.State, convey.ShouldEqual, StateError)
			convey.So(got.Error, convey.ShouldEqual, "provider down")
		})

		convey.Convey("Finished unpublished jobs are pruned after retention", func() {
			j, _ := tr.Begin("c1", "fp", "u1", "", Request{})
			_, _ = tr.Complete(j.ID, Result{}, errors.New("x"))
			now = now.Add(2 * time.Minute)
			_, _ = tr.Begin("c1", "other", "u1", "", Request{})
			_, err := tr.Get(j.ID)
			convey.So(errors.Is(err, ErrJobNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("Unknown jobs are reported", func() {
			_, err := tr.Complete("nope", Result{}, nil)
			convey.So(errors.Is(err, ErrJobNotFound), convey.ShouldBeTrue)
		})
	})
}
