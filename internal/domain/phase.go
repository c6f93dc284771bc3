package domain

import "time"

// Phase is a Sade Sati sub-phase.
type Phase string

const (
	PhaseBefore   Phase = "BEFORE"   // transit body in the sign before the natal sign
	PhasePeak     Phase = "PEAK"     // transit body in the natal sign
	PhaseAfter    Phase = "AFTER"    // transit body in the sign after the natal sign
	PhaseInactive Phase = "INACTIVE" // transit body elsewhere
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	return string(p)
}

// IsActive reports whether the phase is one of the three window phases.
func (p Phase) IsActive() bool {
	return p == PhaseBefore || p == PhasePeak || p == PhaseAfter
}

// TransitWindow holds the resolved boundaries of one three-phase window.
// A nil date means the boundary could not be resolved. The current phase and
// completion percentage are derived against a query moment and are not stored here.
type TransitWindow struct {
	NatalSign   Sign
	Predecessor Sign
	Successor   Sign

	Phase1Start *time.Time // predecessor-sign entry
	Phase2Start *time.Time // natal-sign entry
	Phase3Start *time.Time // successor-sign entry
	End         *time.Time // Phase3Start + 2 years 182 days
}

// NewTransitWindow creates an unresolved window around the natal sign.
func NewTransitWindow(natal Sign) TransitWindow {
	return TransitWindow{
		NatalSign:   natal,
		Predecessor: natal.Offset(-1),
		Successor:   natal.Offset(1),
	}
}

// PhaseFor classifies a sign relative to the window's three signs.
func (w TransitWindow) PhaseFor(s Sign) Phase {
	switch s {
	case w.Predecessor:
		return PhaseBefore
	case w.NatalSign:
		return PhasePeak
	case w.Successor:
		return PhaseAfter
	default:
		return PhaseInactive
	}
}

// Resolved reports whether the start and end of the window are both known.
func (w TransitWindow) Resolved() bool {
	return w.Phase1Start != nil && w.End != nil
}
