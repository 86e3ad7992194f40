package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/cohortinsights/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var acme = model.CompanyFilter{CompanyID: "c1", AccountName: "Acme Corp", CompanyName: "Acme - GROW"}

func newTestAuthenticator(now *time.Time) *Authenticator {
	a, err := NewAuthenticator([]byte("test-secret"),
		WithGrantTTL(2*time.Hour),
		WithClock(func() time.Time { return *now }),
	)
	So(err, ShouldBeNil)
	return a
}

func TestAuthenticate(t *testing.T) {
	Convey("Given an authenticator", t, func() {
		now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
		a := newTestAuthenticator(&now)

		Convey("A missing secret is rejected", func() {
			_, err := NewAuthenticator(nil)
			So(errors.Is(err, ErrMissingSecret), ShouldBeTrue)
		})

		Convey("Grant TTL is capped at one hour", func() {
			So(a.GrantTTL(), ShouldEqual, MaxGrantTTL)
		})

		Convey("A valid token yields its principal", func() {
			tok, err := a.IssueToken("alice", []string{"viewer"}, acme, time.Hour)
			So(err, ShouldBeNil)

			p, err := a.Authenticate(tok)
			So(err, ShouldBeNil)
			So(p.Subject, ShouldEqual, "alice")
			So(p.Company, ShouldResemble, acme)
			So(p.IsAdmin(), ShouldBeFalse)
		})

		Convey("An expired token is unauthorized", func() {
			tok, err := a.IssueToken("alice", nil, acme, time.Minute)
			So(err, ShouldBeNil)
			now = now.Add(2 * time.Minute)

			_, err = a.Authenticate(tok)
			So(errors.Is(err, ErrUnauthorized), ShouldBeTrue)
		})

		Convey("A token signed with another secret is unauthorized", func() {
			other, _ := NewAuthenticator([]byte("other"), WithClock(func() time.Time { return now }))
			tok, err := other.IssueToken("alice", nil, acme, time.Hour)
			So(err, ShouldBeNil)

			_, err = a.Authenticate(tok)
			So(errors.Is(err, ErrUnauthorized), ShouldBeTrue)
		})

		Convey("Garbage is unauthorized", func() {
			_, err := a.Authenticate("not-a-jwt")
			So(errors.Is(err, ErrUnauthorized), ShouldBeTrue)
		})
	})
}

func TestImpersonation(t *testing.T) {
	Convey("Given an administrator", t, func() {
		now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
		a := newTestAuthenticator(&now)
		admin := Principal{Subject: "root", Roles: []string{RoleAdmin}}

		Convey("Non-admins cannot issue grants", func() {
			_, err := a.IssueGrant(Principal{Subject: "bob"}, acme)
			So(errors.Is(err, ErrForbidden), ShouldBeTrue)
		})

		Convey("A grant requires a company id", func() {
			_, err := a.IssueGrant(admin, model.CompanyFilter{CompanyName: "Acme"})
			So(errors.Is(err, ErrInvalidGrant), ShouldBeTrue)
		})

		Convey("An issued grant", func() {
			g, err := a.IssueGrant(admin, acme)
			So(err, ShouldBeNil)
			So(g.ID, ShouldNotBeEmpty)
			So(g.ExpiresAt, ShouldEqual, now.Add(MaxGrantTTL))

			Convey("scopes the admin to the granted company", func() {
				p, err := a.Impersonate(admin, g.Token)
				So(err, ShouldBeNil)
				So(p.Impersonating, ShouldBeTrue)
				So(p.GrantID, ShouldEqual, g.ID)
				So(p.Company, ShouldResemble, acme)
				So(Authorize(p, "c1"), ShouldBeNil)
				So(errors.Is(Authorize(p, "c2"), ErrForbidden), ShouldBeTrue)
			})

			Convey("is rejected for another admin", func() {
				_, err := a.Impersonate(Principal{Subject: "mallory", Roles: []string{RoleAdmin}}, g.Token)
				So(errors.Is(err, ErrForbidden), ShouldBeTrue)
			})

			Convey("is rejected once expired", func() {
				now = now.Add(MaxGrantTTL + time.Second)
				_, err := a.Impersonate(admin, g.Token)
				So(errors.Is(err, ErrInvalidGrant), ShouldBeTrue)
			})

			Convey("cannot be used as a bearer token", func() {
				_, err := a.Authenticate(g.Token)
				So(errors.Is(err, ErrUnauthorized), ShouldBeTrue)
			})
		})

		Convey("A bearer token cannot be used as a grant", func() {
			tok, err := a.IssueToken("root", []string{RoleAdmin}, model.CompanyFilter{}, time.Hour)
			So(err, ShouldBeNil)
			_, err = a.Impersonate(admin, tok)
			So(errors.Is(err, ErrInvalidGrant), ShouldBeTrue)
		})
	})
}

func TestAuthorize(t *testing.T) {
	Convey("Authorize", t, func() {
		Convey("an anonymous principal is unauthorized", func() {
			So(errors.Is(Authorize(Principal{}, "c1"), ErrUnauthorized), ShouldBeTrue)
		})
		Convey("a member reads only its own company", func() {
			p := Principal{Subject: "alice", Company: acme}
			So(Authorize(p, "c1"), ShouldBeNil)
			So(errors.Is(Authorize(p, "c2"), ErrForbidden), ShouldBeTrue)
			So(errors.Is(Authorize(p, ""), ErrForbidden), ShouldBeTrue)
		})
		Convey("an admin reads any company", func() {
			So(Authorize(Principal{Subject: "root", Roles: []string{RoleAdmin}}, "c9"), ShouldBeNil)
		})
	})
}

func TestExtractToken(t *testing.T) {
	Convey("ExtractToken", t, func() {
		tok, err := ExtractToken("Bearer abc")
		So(err, ShouldBeNil)
		So(tok, ShouldEqual, "abc")

		tok, err = ExtractToken("abc")
		So(err, ShouldBeNil)
		So(tok, ShouldEqual, "abc")

		_, err = ExtractToken("")
		So(errors.Is(err, ErrUnauthorized), ShouldBeTrue)

		_, err = ExtractToken("Basic a b")
		So(errors.Is(err, ErrUnauthorized), ShouldBeTrue)
	})
}

func TestPrincipalContext(t *testing.T) {
	Convey("A principal round-trips through a context", t, func() {
		_, ok := FromContext(context.Background())
		So(ok, ShouldBeFalse)

		ctx := WithPrincipal(context.Background(), Principal{Subject: "alice"})
		p, ok := FromContext(ctx)
		So(ok, ShouldBeTrue)
		So(p.Subject, ShouldEqual, "alice")
	})
}
