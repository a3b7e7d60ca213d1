package combat

// RoundOutcome is what one side's fire achieved in a round.
type RoundOutcome struct {
	Dice       int `json:"dice"`
	Hits       int `json:"hits"`
	Casualties int `json:"casualties"`
}

// RoundResult holds both forces after a round and the roll facts behind them.
type RoundResult struct {
	Attacker     Force
	Defender     Force
	AttackerRoll RoundOutcome
	DefenderRoll RoundOutcome
	Outcome      Outcome
}

// ResolveRound simulates combat round number round, starting at 1. Each
// phase of the round is simultaneous fire: defender hits are taken from the
// attacker and attacker hits from the defender, and hits beyond the units
// that can take them are discarded. Casualties of a phase do not fire in the
// later phases, and the round ends early once a side is destroyed in it.
func ResolveRound(attacker, defender Force, dice Roller, round int) RoundResult {
	start := outcomeOf(attacker, defender)
	res := RoundResult{Attacker: attacker, Defender: defender, Outcome: start}
	for _, phase := range phasesOf(round) {
		if start == OutcomeNone && res.Outcome != OutcomeNone {
			break
		}
		a := fire(res.Attacker, res.Defender, phase, dice)
		d := fire(res.Defender, res.Attacker, phase, dice)

		nextAttacker, attackerLost := res.Attacker.applyHits(d.hits)
		nextDefender, defenderLost := res.Defender.applyHits(a.hits)

		res.AttackerRoll.add(a, defenderLost)
		res.DefenderRoll.add(d, attackerLost)
		res.Attacker, res.Defender = nextAttacker, nextDefender
		res.Outcome = outcomeOf(nextAttacker, nextDefender)
	}
	return res
}

func (o *RoundOutcome) add(v volley, casualties int) {
	o.Dice += v.dice
	o.Hits += v.hits.total()
	o.Casualties += casualties
}
