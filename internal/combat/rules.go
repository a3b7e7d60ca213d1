package combat

import (
	"fmt"

	"battlecalc/internal/config"
)

// Phase is a step of a combat round in which a unit fires.
type Phase int

const (
	PhaseGeneral Phase = iota
	// PhaseAntiAir opens the first round only.
	PhaseAntiAir
	// PhaseSurpriseStrike precedes general combat every round; its
	// casualties are removed before they can fire back.
	PhaseSurpriseStrike
)

var (
	openingPhases = []Phase{PhaseAntiAir, PhaseSurpriseStrike, PhaseGeneral}
	roundPhases   = []Phase{PhaseSurpriseStrike, PhaseGeneral}
)

// phasesOf lists the phases of round number round, starting at 1.
func phasesOf(round int) []Phase {
	if round <= 1 {
		return openingPhases
	}
	return roundPhases
}

func (p Phase) String() string {
	switch p {
	case PhaseAntiAir:
		return config.PhaseAntiAir
	case PhaseSurpriseStrike:
		return config.PhaseSurpriseStrike
	default:
		return config.PhaseGeneral
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	v, err := parsePhase(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func parsePhase(s string) (Phase, error) {
	switch s {
	case "", config.PhaseGeneral:
		return PhaseGeneral, nil
	case config.PhaseAntiAir:
		return PhaseAntiAir, nil
	case config.PhaseSurpriseStrike:
		return PhaseSurpriseStrike, nil
	default:
		return PhaseGeneral, fmt.Errorf("unknown phase %q", s)
	}
}

// Targets restricts which enemy units a hit may remove.
type Targets int

const (
	TargetsAll Targets = iota
	TargetsAir
	TargetsNotAir
	TargetsNotSubmarine
	numTargets
)

// hitOrder assigns the most restricted hits first so that they are not
// wasted on units an unrestricted hit could have taken.
var hitOrder = [...]Targets{TargetsAir, TargetsNotAir, TargetsNotSubmarine, TargetsAll}

func (t Targets) hits(u UnitDefinition) bool {
	switch t {
	case TargetsAir:
		return u.Air
	case TargetsNotAir:
		return !u.Air
	case TargetsNotSubmarine:
		return !u.Submarine
	default:
		return true
	}
}

func (t Targets) String() string {
	switch t {
	case TargetsAir:
		return config.TargetsAir
	case TargetsNotAir:
		return config.TargetsNotAir
	case TargetsNotSubmarine:
		return config.TargetsNotSubmarine
	default:
		return config.TargetsAll
	}
}

func (t Targets) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Targets) UnmarshalText(b []byte) error {
	v, err := parseTargets(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func parseTargets(s string) (Targets, error) {
	switch s {
	case "", config.TargetsAll:
		return TargetsAll, nil
	case config.TargetsAir:
		return TargetsAir, nil
	case config.TargetsNotAir:
		return TargetsNotAir, nil
	case config.TargetsNotSubmarine:
		return TargetsNotSubmarine, nil
	default:
		return TargetsAll, fmt.Errorf("unknown targets %q", s)
	}
}

// hitCounts are the hits of one volley, by target restriction.
type hitCounts [numTargets]int

func (h hitCounts) total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}
