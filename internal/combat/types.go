package combat

import "encoding/json"

type Event struct {
	T       float64        `json:"t"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Side identifies which roster a force fights for.
type Side int

const (
	Attacker Side = iota
	Defender
)

func (s Side) String() string {
	if s == Defender {
		return "defender"
	}
	return "attacker"
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Outcome is the terminal result of one trial.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAttackerVictory
	OutcomeDefenderVictory
	OutcomeDraw
	OutcomeRoundLimit
	numOutcomes
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeAttackerVictory:
		return "attacker_victory"
	case OutcomeDefenderVictory:
		return "defender_victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeRoundLimit:
		return "round_limit"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// outcomeOf classifies a pair of forces after a round. OutcomeNone means the
// battle goes on.
func outcomeOf(attacker, defender Force) Outcome {
	switch a, d := attacker.IsEmpty(), defender.IsEmpty(); {
	case a && d:
		return OutcomeDraw
	case d:
		return OutcomeAttackerVictory
	case a:
		return OutcomeDefenderVictory
	default:
		return OutcomeNone
	}
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
