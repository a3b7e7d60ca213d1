package combat

// TrialTrace is the record of a single trial, round by round.
type TrialTrace struct {
	Outcome  Outcome       `json:"outcome"`
	Rounds   int           `json:"rounds"`
	Attacker []RosterEntry `json:"attacker"`
	Defender []RosterEntry `json:"defender"`
	Events   []Event       `json:"events"`
}

// ReplayTrial plays one trial with the given dice and records an event per
// round. Event times are round indexes.
func ReplayTrial(attacker, defender Force, dice Roller, roundLimit int) TrialTrace {
	if roundLimit <= 0 {
		roundLimit = DefaultRoundLimit
	}
	attacker.side, defender.side = Attacker, Defender

	var events []Event
	emit := func(ev Event) { events = append(events, ev) }
	snapshot := func(f Force) map[string]any {
		m := f.Metrics()
		return map[string]any{"roster": f.Roster(), "ipc": m.IPC, "units": m.Units, "strength": m.Strength}
	}

	t := newTrial(attacker, defender, roundLimit)
	emit(Event{T: 0, Type: "BattleStart", Payload: map[string]any{
		"attacker": snapshot(attacker),
		"defender": snapshot(defender),
	}})
	t.start()
	for t.state == TrialRunning {
		res := t.step(dice)
		emit(Event{T: float64(t.round), Type: "Round", Payload: map[string]any{
			"attacker_roll": res.AttackerRoll,
			"defender_roll": res.DefenderRoll,
			"attacker":      snapshot(res.Attacker),
			"defender":      snapshot(res.Defender),
		}})
	}
	emit(Event{T: float64(t.round), Type: "BattleEnd", Payload: map[string]any{
		"outcome": t.outcome.String(),
		"rounds":  t.round,
	}})

	return TrialTrace{
		Outcome:  t.outcome,
		Rounds:   t.round,
		Attacker: t.attacker.Roster(),
		Defender: t.defender.Roster(),
		Events:   events,
	}
}
