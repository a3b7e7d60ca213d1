package combat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"battlecalc/internal/config"
)

// scriptedDice returns the given die faces in order, cycling when exhausted.
type scriptedDice struct {
	faces []int
	next  int
}

func (d *scriptedDice) Intn(n int) int {
	face := d.faces[d.next%len(d.faces)]
	d.next++
	return face - 1
}

func defaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadCatalog("")
	require.NoError(t, err)
	return c
}

func skirmish(t *testing.T) *Ruleset {
	t.Helper()
	rs, err := defaultCatalog(t).Ruleset("skirmish")
	require.NoError(t, err)
	return rs
}

// pricedRuleset declares units out of cost order so that ordering by
// catalog position and by cost disagree.
func pricedRuleset() *Ruleset {
	return NewRuleset(config.RulesetDef{
		ID:       "priced",
		Name:     "Priced",
		DieSides: 6,
		Units: []config.UnitDef{
			{ID: "pricey", Name: "Pricey", IPC: 5, Attack: 4, Defense: 4},
			{ID: "cheap", Name: "Cheap", IPC: 1, Attack: 1, Defense: 1},
			{ID: "mid", Name: "Mid", IPC: 3, Attack: 2, Defense: 2},
		},
	})
}

func mustForce(t *testing.T, rs *Ruleset, side Side, roster ...RosterEntry) Force {
	t.Helper()
	f, err := NewForceFromRoster(rs, side, roster)
	require.NoError(t, err)
	return f
}

func duelRuleset(value int) *Ruleset {
	return NewRuleset(config.RulesetDef{
		ID:       "duel",
		DieSides: 6,
		Units:    []config.UnitDef{{ID: "fighter", Name: "Fighter", IPC: 1, Attack: value, Defense: value}},
	})
}
