package combat

// Roller is the randomness source for die rolls. *rand.Rand satisfies it,
// which lets tests pass a seeded generator.
type Roller interface {
	Intn(n int) int
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(dice Roller, sides int) int {
	return dice.Intn(sides) + 1
}

// volley is what one side's fire produced in a single phase.
type volley struct {
	dice int
	hits hitCounts
}

func isAntiSub(u UnitDefinition) bool { return u.AntiSub }

// phaseOf is the phase u fires in against enemy. Surprise strikes are lost
// when the enemy brings an anti-submarine unit.
func phaseOf(u UnitDefinition, enemy Force) Phase {
	if u.Phase == PhaseSurpriseStrike && enemy.has(isAntiSub) {
		return PhaseGeneral
	}
	return u.Phase
}

// targetsOf is what u's hits may remove. A friendly anti-submarine unit lifts
// the restriction on hitting submarines.
func targetsOf(u UnitDefinition, friends Force) Targets {
	if u.Targets == TargetsNotSubmarine && friends.has(isAntiSub) {
		return TargetsAll
	}
	return u.Targets
}

// shotsOf is the number of dice each u rolls. Units with a shot cap roll one
// die per matching enemy unit, up to the cap.
func shotsOf(u UnitDefinition, t Targets, enemy Force) int {
	if u.MaxShots <= 0 {
		return 1
	}
	return min(u.MaxShots, enemy.countWhere(t.hits))
}

// fire rolls for every unit of f firing in phase against enemy, in catalog
// order, and counts the rolls at or below each unit's value by target
// restriction. Boosted units roll after the unboosted ones of their kind.
func fire(f, enemy Force, phase Phase, dice Roller) volley {
	var v volley
	if f.rs == nil {
		return v
	}
	sides := f.rs.dieSides
	roll := func(n, value int, t Targets) {
		for j := 0; j < n; j++ {
			if rollDie(dice, sides) <= value {
				v.hits[t]++
			}
		}
		v.dice += n
	}
	for i, c := range f.counts {
		if c == 0 {
			continue
		}
		u := f.rs.units[i]
		if phaseOf(u, enemy) != phase {
			continue
		}
		t := targetsOf(u, f)
		shots := shotsOf(u, t, enemy)
		boosted := 0
		if f.side == Attacker {
			boosted = f.boosted(i)
		}
		roll((c-boosted)*shots, u.Value(f.side), t)
		roll(boosted*shots, u.BoostedAttack, t)
	}
	return v
}

// canHit reports whether f could still score a hit on enemy in some phase,
// counting opening-round fire only when opening is set.
func canHit(f, enemy Force, opening bool) bool {
	if f.rs == nil {
		return false
	}
	for i, c := range f.counts {
		if c == 0 {
			continue
		}
		u := f.rs.units[i]
		if phaseOf(u, enemy) == PhaseAntiAir && !opening {
			continue
		}
		value := u.Value(f.side)
		if f.side == Attacker && f.boosted(i) > 0 {
			value = max(value, u.BoostedAttack)
		}
		if value <= 0 {
			continue
		}
		t := targetsOf(u, f)
		if enemy.has(t.hits) {
			return true
		}
	}
	return false
}
