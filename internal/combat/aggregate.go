package combat

// SideStats are the per-round distributions for one side.
type SideStats struct {
	IPC       Stat `json:"ipc"`
	UnitCount Stat `json:"unitCount"`
	Strength  Stat `json:"strength"`
}

// RoundStats summarises every trial at one round index. Index 0 is the
// pre-battle state. Win and draw probabilities count battles decided by the
// end of the round; PendingProbability is the share still fighting.
type RoundStats struct {
	Index                  int       `json:"index"`
	Attacker               SideStats `json:"attacker"`
	Defender               SideStats `json:"defender"`
	AttackerWinProbability float64   `json:"attackerWinProbability"`
	DefenderWinProbability float64   `json:"defenderWinProbability"`
	DrawProbability        float64   `json:"drawProbability"`
	PendingProbability     float64   `json:"pendingProbability"`
}

// SideLosses are the distributions of what one side lost by the end of the
// battle.
type SideLosses struct {
	IPC       Stat `json:"ipc"`
	UnitCount Stat `json:"unitCount"`
	Strength  Stat `json:"strength"`
}

// CumulativeStats describes how the trials ended. DrawProbability includes
// trials stopped by the round limit; the two draw causes are also reported
// separately.
type CumulativeStats struct {
	Trials                       int        `json:"trials"`
	AttackerWinProbability       float64    `json:"attackerWinProbability"`
	DefenderWinProbability       float64    `json:"defenderWinProbability"`
	DrawProbability              float64    `json:"drawProbability"`
	MutualDestructionProbability float64    `json:"mutualDestructionProbability"`
	RoundLimitProbability        float64    `json:"roundLimitProbability"`
	TerminalRounds               []float64  `json:"terminalRounds"`
	TerminalRound                Stat       `json:"terminalRound"`
	MostLikely                   Outcome    `json:"mostLikely"`
	AttackerLosses               SideLosses `json:"attackerLosses"`
	DefenderLosses               SideLosses `json:"defenderLosses"`
}

type sideAccum struct {
	ipc, units, strength welford
}

func (s *sideAccum) add(m Metrics) {
	s.ipc.add(float64(m.IPC))
	s.units.add(float64(m.Units))
	s.strength.add(float64(m.Strength))
}

func (s *sideAccum) merge(o sideAccum) {
	s.ipc.merge(o.ipc)
	s.units.merge(o.units)
	s.strength.merge(o.strength)
}

func (s sideAccum) stats() SideStats {
	return SideStats{IPC: s.ipc.stat(), UnitCount: s.units.stat(), Strength: s.strength.stat()}
}

func constantSide(m Metrics, n int) sideAccum {
	return sideAccum{
		ipc:      constantWelford(float64(m.IPC), n),
		units:    constantWelford(float64(m.Units), n),
		strength: constantWelford(float64(m.Strength), n),
	}
}

type roundAccum struct {
	attacker, defender sideAccum
}

func (r *roundAccum) add(attacker, defender Metrics) {
	r.attacker.add(attacker)
	r.defender.add(defender)
}

func (r *roundAccum) merge(o roundAccum) {
	r.attacker.merge(o.attacker)
	r.defender.merge(o.defender)
}

// aggregate folds trials into per-round accumulators. A trial is added to
// visited at every round it reaches and, once, to ended at its terminal round.
// Trials that ended earlier are carried into later rounds when summarizing,
// so memory stays proportional to the longest trial.
type aggregate struct {
	trials   int
	visited  []roundAccum
	ended    []roundAccum
	outcomes [][numOutcomes]int
}

func (a *aggregate) grow(round int) {
	for len(a.visited) <= round {
		a.visited = append(a.visited, roundAccum{})
		a.ended = append(a.ended, roundAccum{})
		a.outcomes = append(a.outcomes, [numOutcomes]int{})
	}
}

func (a *aggregate) observe(round int, attacker, defender Metrics) {
	a.grow(round)
	a.visited[round].add(attacker, defender)
}

func (a *aggregate) finish(round int, outcome Outcome, attacker, defender Metrics) {
	a.grow(round)
	a.ended[round].add(attacker, defender)
	a.outcomes[round][outcome]++
	a.trials++
}

func (a *aggregate) merge(o *aggregate) {
	a.grow(len(o.visited) - 1)
	for k := range o.visited {
		a.visited[k].merge(o.visited[k])
		a.ended[k].merge(o.ended[k])
		for i, c := range o.outcomes[k] {
			a.outcomes[k][i] += c
		}
	}
	a.trials += o.trials
}

// settledAggregate records n trials that are over before the first round.
func settledAggregate(n int, outcome Outcome, attacker, defender Metrics) *aggregate {
	a := &aggregate{trials: n}
	a.grow(0)
	a.visited[0] = roundAccum{attacker: constantSide(attacker, n), defender: constantSide(defender, n)}
	a.ended[0] = a.visited[0]
	a.outcomes[0][outcome] = n
	return a
}

func (a *aggregate) summarize() ([]RoundStats, CumulativeStats) {
	total := float64(a.trials)
	rounds := make([]RoundStats, len(a.visited))
	cum := CumulativeStats{Trials: a.trials, TerminalRounds: make([]float64, len(a.visited))}

	var carry roundAccum
	var decided [numOutcomes]int
	var terminal welford
	for k := range a.visited {
		acc := a.visited[k]
		acc.merge(carry)
		carry.merge(a.ended[k])

		ending := 0
		for o, c := range a.outcomes[k] {
			decided[o] += c
			ending += c
		}
		terminal.merge(constantWelford(float64(k), ending))
		cum.TerminalRounds[k] = float64(ending) / total

		draws := decided[OutcomeDraw] + decided[OutcomeRoundLimit]
		pending := a.trials - decided[OutcomeAttackerVictory] - decided[OutcomeDefenderVictory] - draws
		rounds[k] = RoundStats{
			Index:                  k,
			Attacker:               acc.attacker.stats(),
			Defender:               acc.defender.stats(),
			AttackerWinProbability: float64(decided[OutcomeAttackerVictory]) / total,
			DefenderWinProbability: float64(decided[OutcomeDefenderVictory]) / total,
			DrawProbability:        float64(draws) / total,
			PendingProbability:     float64(pending) / total,
		}
	}

	cum.AttackerWinProbability = float64(decided[OutcomeAttackerVictory]) / total
	cum.DefenderWinProbability = float64(decided[OutcomeDefenderVictory]) / total
	cum.MutualDestructionProbability = float64(decided[OutcomeDraw]) / total
	cum.RoundLimitProbability = float64(decided[OutcomeRoundLimit]) / total
	cum.DrawProbability = cum.MutualDestructionProbability + cum.RoundLimitProbability
	cum.TerminalRound = terminal.stat()
	cum.MostLikely = mostLikely(cum)

	first, last := rounds[0], rounds[len(rounds)-1]
	cum.AttackerLosses = losses(first.Attacker, last.Attacker)
	cum.DefenderLosses = losses(first.Defender, last.Defender)
	return rounds, cum
}

func losses(initial, final SideStats) SideLosses {
	return SideLosses{
		IPC:       final.IPC.lostFrom(initial.IPC.Mean),
		UnitCount: final.UnitCount.lostFrom(initial.UnitCount.Mean),
		Strength:  final.Strength.lostFrom(initial.Strength.Mean),
	}
}

func mostLikely(cum CumulativeStats) Outcome {
	best, p := OutcomeAttackerVictory, cum.AttackerWinProbability
	if cum.DefenderWinProbability > p {
		best, p = OutcomeDefenderVictory, cum.DefenderWinProbability
	}
	if cum.DrawProbability > p {
		best = OutcomeDraw
	}
	return best
}
