package aggregate

import (
	"strings"

	"github.com/okian/cohortinsights/internal/domain/model"
)

// Status is the normalized class of a free-text session status.
type Status int

// Session status classes.
const (
	StatusOther Status = iota
	StatusCompleted
	StatusNoShow
	StatusCoachNoShow
	StatusScheduled
	StatusCancelled
)

// ClassifyStatus maps the free-text status of a session to a Status.
// Late cancels count as no-shows; a coach no-show is its own class.
func ClassifyStatus(status string) Status {
	s := strings.ToLower(strings.TrimSpace(status))
	switch {
	case s == "completed" || s == "complete":
		return StatusCompleted
	case strings.Contains(s, "coach no show") || strings.Contains(s, "coach no-show"):
		return StatusCoachNoShow
	case strings.Contains(s, "no show"), strings.Contains(s, "no-show"), strings.Contains(s, "noshow"),
		strings.Contains(s, "late cancel"):
		return StatusNoShow
	case strings.Contains(s, "scheduled"), strings.Contains(s, "upcoming"):
		return StatusScheduled
	case strings.Contains(s, "cancel"):
		return StatusCancelled
	}
	return StatusOther
}

// SessionCounts are the session tallies of a cohort in a window.
type SessionCounts struct {
	// Scheduled counts every session in the window regardless of status.
	Scheduled   int `json:"scheduled"`
	Completed   int `json:"completed"`
	NoShow      int `json:"no_show"`
	CoachNoShow int `json:"coach_no_show"`
	Upcoming    int `json:"upcoming"`
	Cancelled   int `json:"cancelled"`
	// Used is completed plus no-show/late-cancel sessions.
	Used int `json:"used"`
}

// CountSessions tallies sessions whose date falls inside w.
func CountSessions(sessions []model.Session, w model.Window) SessionCounts {
	var c SessionCounts
	for _, s := range sessions {
		if !w.Contains(s.SessionDate) {
			continue
		}
		c.Scheduled++
		switch ClassifyStatus(s.Status) {
		case StatusCompleted:
			c.Completed++
		case StatusNoShow:
			c.NoShow++
		case StatusCoachNoShow:
			c.CoachNoShow++
		case StatusScheduled:
			c.Upcoming++
		case StatusCancelled:
			c.Cancelled++
		}
	}
	c.Used = c.Completed + c.NoShow
	return c
}

// completedPerEmployee counts completed in-window sessions per employee key.
func completedPerEmployee(sessions []model.Session, w model.Window) map[string]int {
	out := make(map[string]int)
	for _, s := range sessions {
		if !w.Contains(s.SessionDate) || ClassifyStatus(s.Status) != StatusCompleted {
			continue
		}
		if key := s.EmployeeKey(); key != "" {
			out[key]++
		}
	}
	return out
}
