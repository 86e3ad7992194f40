package scoring

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuoteScorer(t *testing.T) {
	Convey("Given a quote scorer with default configuration", t, func() {
		s := NewQuoteScorer()

		Convey("Short quotes and boilerplate never qualify", func() {
			_, ok := s.Score("Great sessions!")
			So(ok, ShouldBeFalse)

			_, ok = s.Score("n/a")
			So(ok, ShouldBeFalse)

			_, ok = s.Score("Not sure, I would need more time to think about how this program affected me")
			So(ok, ShouldBeFalse)
		})

		Convey("Outcome words outscore complaints", func() {
			good, ok := s.Score("My coach helped me build confidence when presenting to the leadership team every week.")
			So(ok, ShouldBeTrue)
			bad, ok := s.Score("Honestly it felt rushed and was a waste of an hour each time we met for the session.")
			So(ok, ShouldBeTrue)
			So(good, ShouldBeGreaterThan, bad)
		})

		Convey("Rank dedupes, filters and keeps the top N", func() {
			strong := "I learned practical strategies that improved how I delegate work across my team."
			candidates := []string{
				"n/a",
				"Too short to matter",
				strong,
				"  i learned practical strategies that improved how I delegate work across my   team. ",
				"The sessions were fine and we talked about several topics during the hour together.",
				"It was a waste of time and the sessions were rushed, not helpful for my situation.",
			}
			got := s.Rank(candidates, 2)
			So(got, ShouldHaveLength, 2)
			So(got[0].Text, ShouldEqual, strong)
			for _, q := range got {
				So(q.Text, ShouldNotEqual, "n/a")
				So(len(q.Text), ShouldBeGreaterThanOrEqualTo, 50)
			}
		})

		Convey("Rank with limit 0 uses the configured default", func() {
			var candidates []string
			for i := 0; i < 8; i++ {
				candidates = append(candidates, strings.Repeat("x", i+1)+" my coach helped me set clear goals for the quarter ahead")
			}
			So(s.Rank(candidates, 0), ShouldHaveLength, 5)
		})
	})

	Convey("Given custom options", t, func() {
		s := NewQuoteScorer(
			WithKeywordWeights(map[string]float64{"mentor": 5}),
			WithBoilerplate([]string{"see above"}),
			WithMinLength(10),
			WithLimit(1),
		)

		Convey("Custom boilerplate and weights apply", func() {
			_, ok := s.Score("See above.")
			So(ok, ShouldBeFalse)

			score, ok := s.Score("A great mentor")
			So(ok, ShouldBeTrue)
			So(score, ShouldEqual, 5)

			So(s.Rank([]string{"A great mentor", "Something else entirely"}, 0), ShouldHaveLength, 1)
		})
	})
}
