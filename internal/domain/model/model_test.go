package model_test

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/okian/cohortinsights/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func TestThemeTag(t *testing.T) {
	convey.Convey("Given theme tags decoded from mixed sources", t, func() {
		convey.Convey("When the JSON value is a boolean", func() {
			var row struct {
				Leadership    model.ThemeTag `json:"leadership"`
				Communication model.ThemeTag `json:"communication"`
			}
			err := json.Unmarshal([]byte(`{"leadership": true, "communication": false}`), &row)

			convey.Convey("Then true is present without sub-themes and false is absent", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(row.Leadership.Present(), convey.ShouldBeTrue)
				convey.So(row.Leadership.Values(), convey.ShouldBeEmpty)
				convey.So(row.Communication.Present(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the YAML value is delimited text", func() {
			var row struct {
				Wellbeing model.ThemeTag `yaml:"wellbeing"`
			}
			err := yaml.Unmarshal([]byte("wellbeing: \"Stress management; Boundaries, sleep\"\n"), &row)

			convey.Convey("Then it splits on both delimiters", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(row.Wellbeing.Values(), convey.ShouldResemble, []string{"Stress management", "Boundaries", "sleep"})
			})
		})

		convey.Convey("When scanning database values", func() {
			var tag model.ThemeTag
			convey.So(tag.Scan(true), convey.ShouldBeNil)
			convey.So(string(tag), convey.ShouldEqual, "true")
			convey.So(tag.Scan(nil), convey.ShouldBeNil)
			convey.So(tag.Present(), convey.ShouldBeFalse)
			convey.So(tag.Scan([]byte("Delegation")), convey.ShouldBeNil)
			convey.So(tag.Values(), convey.ShouldResemble, []string{"Delegation"})
		})
	})
}

func TestFocusFlags(t *testing.T) {
	convey.Convey("Given focus flags stored as JSON text", t, func() {
		var flags model.FocusFlags
		err := flags.Scan(`{"leadership": true, "wellbeing": false}`)

		convey.Convey("Then only true flags are selected", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(flags.Selected(), convey.ShouldResemble, []string{"leadership"})
		})

		convey.Convey("And the value round-trips through the driver", func() {
			v, err := flags.Value()
			convey.So(err, convey.ShouldBeNil)
			var back model.FocusFlags
			convey.So(back.Scan(v), convey.ShouldBeNil)
			convey.So(back["leadership"], convey.ShouldBeTrue)
		})
	})
}

func TestWindow(t *testing.T) {
	convey.Convey("Given a bounded window", t, func() {
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
		w := model.Window{From: from, To: to}

		convey.So(w.Contains(from), convey.ShouldBeTrue)
		convey.So(w.Contains(to), convey.ShouldBeTrue)
		convey.So(w.Contains(to.Add(24*time.Hour)), convey.ShouldBeFalse)
		convey.So(w.String(), convey.ShouldEqual, "2024-01-01 to 2024-03-31")
		convey.So(model.Window{}.String(), convey.ShouldEqual, "All time")
	})
}

func TestCompetencyScoreComplete(t *testing.T) {
	convey.Convey("Given competency rows", t, func() {
		pre, post, zero := 6.0, 8.0, 0.0

		convey.So(model.CompetencyScore{Pre: &pre, Post: &post}.Complete(), convey.ShouldBeTrue)
		convey.So(model.CompetencyScore{Pre: &zero, Post: &post}.Complete(), convey.ShouldBeFalse)
		convey.So(model.CompetencyScore{Pre: &pre}.Complete(), convey.ShouldBeFalse)
	})
}
