package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/cohortinsights/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const fixturePath = "testdata/fixture.yaml"

func TestLoadDataset(t *testing.T) {
	Convey("Given the fixture file", t, func() {
		ds, err := LoadDataset(fixturePath)
		So(err, ShouldBeNil)

		Convey("Typed columns decode", func() {
			So(ds.Sessions, ShouldHaveLength, 4)
			So(ds.Sessions[0].Leadership.Values(), ShouldResemble, []string{"Delegation", "Feedback"})
			So(ds.Sessions[0].Communication.Present(), ShouldBeTrue)
			So(ds.Sessions[0].Wellbeing.Present(), ShouldBeFalse)
			So(*ds.Surveys[0].NPS, ShouldEqual, 9)
			So(ds.Baselines[0].FocusAreas.Selected(), ShouldResemble, []string{"delegation"})
			So(ds.ProgramConfigs[0].StartDate, ShouldNotBeNil)
			So(ds.ProgramConfigs[0].EndDate, ShouldBeNil)
		})
	})

	Convey("A missing file fails", t, func() {
		_, err := LoadDataset("testdata/missing.yaml")
		So(err, ShouldNotBeNil)
	})
}

func storeContract(s Store, ds Dataset) {
	ctx := context.Background()

	Convey("A company_id-only filter is exact", func() {
		rows, err := s.Sessions(ctx, model.CompanyFilter{CompanyID: "c1"})
		So(err, ShouldBeNil)
		So(rows, ShouldHaveLength, 2)
	})

	Convey("A filter with names also passes rows without an id", func() {
		rows, err := s.Sessions(ctx, model.CompanyFilter{CompanyID: "c1", AccountName: "Acme Corp"})
		So(err, ShouldBeNil)
		So(rows, ShouldHaveLength, 3)
	})

	Convey("An empty filter passes everything", func() {
		rows, err := s.Sessions(ctx, model.CompanyFilter{})
		So(err, ShouldBeNil)
		So(rows, ShouldHaveLength, len(ds.Sessions))
	})

	Convey("Every table is readable", func() {
		f := model.CompanyFilter{CompanyID: "c1"}
		emps, err := s.Employees(ctx, f)
		So(err, ShouldBeNil)
		So(emps, ShouldHaveLength, 2)
		surveys, err := s.Surveys(ctx, f)
		So(err, ShouldBeNil)
		So(surveys, ShouldHaveLength, 1)
		So(*surveys[0].CoachSatisfaction, ShouldEqual, 9.5)
		comps, err := s.Competencies(ctx, f)
		So(err, ShouldBeNil)
		So(comps[0].Complete(), ShouldBeTrue)
		bases, err := s.Baselines(ctx, f)
		So(err, ShouldBeNil)
		So(bases[0].FocusAreas["delegation"], ShouldBeTrue)
		focus, err := s.FocusSelections(ctx, f)
		So(err, ShouldBeNil)
		So(focus[0].Area, ShouldEqual, "Communication")
		cfgs, err := s.ProgramConfigs(ctx, f)
		So(err, ShouldBeNil)
		So(cfgs[0].SessionsPerEmployee, ShouldEqual, 6)
		So(cfgs[0].StartDate.Equal(time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		bench, err := s.Benchmarks(ctx)
		So(err, ShouldBeNil)
		So(bench, ShouldHaveLength, 2)
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		ds, err := LoadDataset(fixturePath)
		So(err, ShouldBeNil)
		s := NewMemoryStore(ds)
		defer s.Close()

		storeContract(s, ds)
	})
}

func TestSQLStore(t *testing.T) {
	Convey("Given a seeded in-memory sqlite store", t, func() {
		ctx := context.Background()
		ds, err := LoadDataset(fixturePath)
		So(err, ShouldBeNil)

		s, err := OpenSQL(ctx, DriverSQLite, ":memory:")
		So(err, ShouldBeNil)
		defer s.Close()
		So(s.Migrate(ctx), ShouldBeNil)
		So(s.Seed(ctx, ds), ShouldBeNil)

		storeContract(s, ds)

		Convey("Theme tags and dates survive the round trip", func() {
			rows, err := s.Sessions(ctx, model.CompanyFilter{CompanyID: "c1"})
			So(err, ShouldBeNil)
			var found bool
			for _, r := range rows {
				if r.ID == "s1" {
					found = true
					So(r.Leadership.Values(), ShouldResemble, []string{"Delegation", "Feedback"})
					So(r.Communication.Present(), ShouldBeTrue)
					So(r.SessionDate.Equal(time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)), ShouldBeTrue)
				}
			}
			So(found, ShouldBeTrue)
		})
	})

	Convey("An unknown driver is rejected", t, func() {
		_, err := OpenSQL(context.Background(), "oracle", "")
		So(errors.Is(err, ErrUnknownDriver), ShouldBeTrue)
	})
}
