package aggregate

import (
	"time"
)

// Phase is a GROW program phase.
type Phase string

// Program phases in order.
const (
	PhaseLaunch     Phase = "Launch"
	PhaseEarly      Phase = "Early"
	PhaseMidEarly   Phase = "Mid-Early"
	PhaseMidProgram Phase = "Mid-Program"
	PhaseLate       Phase = "Late"
	PhaseCompleted  Phase = "Completed"
)

var phaseDescriptions = map[Phase]string{
	PhaseLaunch:     "The program has just launched; participants are completing onboarding and first sessions.",
	PhaseEarly:      "The program is in its early stage; participants are building rapport with coaches and setting goals.",
	PhaseMidEarly:   "The program is gaining momentum; participants are beginning to apply new strategies.",
	PhaseMidProgram: "The program is at its midpoint; early behavior change should be visible.",
	PhaseLate:       "The program is in its late stage; participants are consolidating growth and preparing for completion.",
	PhaseCompleted:  "The program has completed; results reflect the full coaching engagement.",
}

// Description returns the fixed descriptive sentence of the phase.
func (p Phase) Description() string { return phaseDescriptions[p] }

// ProgramPhase derives the phase from the weeks elapsed since start and the
// progress percentage. A nil start leaves only the progress thresholds.
func ProgramPhase(start *time.Time, now time.Time, progress float64) Phase {
	weeks := -1.0
	if start != nil && !start.IsZero() {
		weeks = now.Sub(*start).Hours() / (24 * 7)
	}
	known := weeks >= 0
	switch {
	case progress >= 100:
		return PhaseCompleted
	case known && weeks < 2:
		return PhaseLaunch
	case (known && weeks < 6) || progress < 20:
		return PhaseEarly
	case (known && weeks < 10) || progress < 40:
		return PhaseMidEarly
	case (known && weeks < 16) || progress < 70:
		return PhaseMidProgram
	}
	return PhaseLate
}
