package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/cohortinsights/internal/domain/prompt"
	"github.com/okian/cohortinsights/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const fixture = "../../internal/adapters/repository/testdata/fixture.yaml"

func init() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		panic(err)
	}
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSummarize(t *testing.T) {
	Convey("Given the fixture dataset", t, func() {
		Convey("summarize prints the prompt document", func() {
			out, err := execute("summarize", "--fixture", fixture, "--company-id", "c1", "--account-name", "Acme Corp", "--program", "grow")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "## "+prompt.SectionOverview)
			So(out, ShouldContainSubstring, "Program: GROW")
		})

		Convey("--json prints the dashboard", func() {
			out, err := execute("summarize", "--fixture", fixture, "--company-id", "c1", "--json")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"summary"`)
			So(out, ShouldContainSubstring, `"prompt"`)
		})

		Convey("a company is required", func() {
			_, err := execute("summarize", "--fixture", fixture)
			So(err, ShouldNotBeNil)
		})

		Convey("the fixture is required", func() {
			_, err := execute("summarize", "--company-id", "c1")
			So(err, ShouldNotBeNil)
		})

		Convey("unknown programs are rejected", func() {
			_, err := execute("summarize", "--fixture", fixture, "--company-id", "c1", "--program", "pilot")
			So(err, ShouldNotBeNil)
		})

		Convey("inverted windows are rejected", func() {
			_, err := execute("summarize", "--fixture", fixture, "--company-id", "c1", "--from", "2024-03-10", "--to", "2024-03-01")
			So(err, ShouldNotBeNil)
		})

		Convey("--out requires --generate", func() {
			_, err := execute("summarize", "--fixture", fixture, "--company-id", "c1", "--out", t.TempDir())
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a remote insight service", t, func() {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"insights":"Adoption is strong.","companyContext":"Acme builds rockets."}`))
		}))
		defer srv.Close()

		Convey("--generate prints the export document", func() {
			out, err := execute("summarize", "--fixture", fixture, "--company-id", "c1", "--account-name", "Acme Corp",
				"--generate", "--endpoint", srv.URL, "--token", "tok")
			So(err, ShouldBeNil)
			So(gotAuth, ShouldEqual, "Bearer tok")
			So(out, ShouldContainSubstring, "Executive Insights: ")
			So(out, ShouldContainSubstring, "Adoption is strong.")
			So(out, ShouldContainSubstring, "Acme builds rockets.")
		})

		Convey("--out writes the export file", func() {
			dir := t.TempDir()
			out, err := execute("summarize", "--fixture", fixture, "--company-id", "c1", "--account-name", "Acme Corp",
				"--generate", "--endpoint", srv.URL, "--out", dir)
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "wrote ")

			files, err := filepath.Glob(filepath.Join(dir, "*_insights_*.txt"))
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 1)
		})
	})
}
