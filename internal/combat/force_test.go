package combat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForceWithUnit(t *testing.T) {
	rs := pricedRuleset()
	f := NewForce(rs, Attacker)

	g, err := f.WithUnit("mid", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Count("mid"))
	assert.Zero(t, f.Count("mid"), "receiver must not change")

	g, err = g.WithUnit("mid", 0)
	require.NoError(t, err)
	assert.True(t, g.IsEmpty())

	_, err = f.WithUnit("mid", -1)
	assert.True(t, errors.Is(err, ErrInvalidCount))
	assert.Contains(t, err.Error(), "-1")

	_, err = f.WithUnit("ghost", 1)
	assert.True(t, errors.Is(err, ErrUnknownUnitID))
	assert.Contains(t, err.Error(), "ghost")
}

func TestNewForceFromRoster(t *testing.T) {
	rs := pricedRuleset()

	f := mustForce(t, rs, Defender, RosterEntry{ID: "cheap", Count: 2}, RosterEntry{ID: "cheap", Count: 1})
	assert.Equal(t, 3, f.Count("cheap"))
	assert.Equal(t, []RosterEntry{{ID: "cheap", Count: 3}}, f.Roster())

	_, err := NewForceFromRoster(rs, Defender, []RosterEntry{{ID: "cheap", Count: -2}})
	assert.True(t, errors.Is(err, ErrInvalidCount))

	_, err = NewForceFromRoster(rs, Defender, []RosterEntry{{ID: "ghost", Count: 1}})
	assert.True(t, errors.Is(err, ErrUnknownUnitID))
}

func TestForceTotals(t *testing.T) {
	rs := pricedRuleset()
	f := mustForce(t, rs, Attacker,
		RosterEntry{ID: "pricey", Count: 1},
		RosterEntry{ID: "cheap", Count: 2},
		RosterEntry{ID: "mid", Count: 3},
	)

	assert.Equal(t, 5+2*1+3*3, f.TotalIPC())
	assert.Equal(t, 6, f.TotalUnitCount())
	assert.Equal(t, 4+2*1+3*2, f.TotalStrength(true))
	assert.Equal(t, 4+2*1+3*2, f.TotalStrength(false))
	assert.Equal(t, Metrics{IPC: 16, Units: 6, Strength: 12}, f.Metrics())
	assert.Equal(t, []RosterEntry{{"pricey", 1}, {"cheap", 2}, {"mid", 3}}, f.Roster())
}

func TestForceStrengthDependsOnSide(t *testing.T) {
	rs := skirmish(t)
	a := mustForce(t, rs, Attacker, RosterEntry{ID: "archer", Count: 2})
	d := mustForce(t, rs, Defender, RosterEntry{ID: "archer", Count: 2})

	assert.Equal(t, 4, a.Strength())
	assert.Equal(t, 10, d.Strength())
}

func TestApplyCasualtiesCount(t *testing.T) {
	rs := pricedRuleset()
	f := mustForce(t, rs, Defender,
		RosterEntry{ID: "pricey", Count: 2},
		RosterEntry{ID: "cheap", Count: 3},
		RosterEntry{ID: "mid", Count: 1},
	)
	orig := f.TotalUnitCount()

	for n := 0; n <= orig+3; n++ {
		g, removed := f.ApplyCasualties(n)
		assert.Equal(t, max(0, orig-n), g.TotalUnitCount(), "n=%d", n)
		assert.Equal(t, min(n, orig), removed, "n=%d", n)
		assert.Equal(t, orig, f.TotalUnitCount(), "receiver must not change")
	}
}

func TestApplyCasualtiesCheapestFirst(t *testing.T) {
	rs := pricedRuleset()
	f := mustForce(t, rs, Defender,
		RosterEntry{ID: "pricey", Count: 2},
		RosterEntry{ID: "cheap", Count: 3},
		RosterEntry{ID: "mid", Count: 2},
	)

	for f.TotalUnitCount() > 0 {
		if f.Count("cheap") > 0 {
			assert.Equal(t, 2, f.Count("mid"))
			assert.Equal(t, 2, f.Count("pricey"))
		} else if f.Count("mid") > 0 {
			assert.Equal(t, 2, f.Count("pricey"))
		}
		var removed int
		f, removed = f.ApplyCasualties(1)
		require.Equal(t, 1, removed)
	}
}

func TestApplyCasualtiesReserve(t *testing.T) {
	rs, err := defaultCatalog(t).Ruleset("aa1942_2e")
	require.NoError(t, err)

	f := mustForce(t, rs, Attacker,
		RosterEntry{ID: "tank", Count: 2},
		RosterEntry{ID: "bomber", Count: 1},
		RosterEntry{ID: "infantry", Count: 1},
	)

	g, removed := f.ApplyCasualties(3)
	assert.Equal(t, 3, removed)
	assert.Equal(t, 1, g.Count("tank"), "last tank is held back")
	assert.Zero(t, g.Count("bomber"))

	g, removed = g.ApplyCasualties(5)
	assert.Equal(t, 1, removed)
	assert.True(t, g.IsEmpty())

	// The defender has no reserve and loses tanks before bombers.
	d := mustForce(t, rs, Defender, RosterEntry{ID: "tank", Count: 1}, RosterEntry{ID: "bomber", Count: 1})
	d, _ = d.ApplyCasualties(1)
	assert.Zero(t, d.Count("tank"))
	assert.Equal(t, 1, d.Count("bomber"))
}

func TestApplyCasualtiesEmpty(t *testing.T) {
	f := NewForce(pricedRuleset(), Attacker)
	g, removed := f.ApplyCasualties(4)
	assert.Zero(t, removed)
	assert.True(t, g.IsEmpty())

	var zero Force
	g, removed = zero.ApplyCasualties(1)
	assert.Zero(t, removed)
	assert.True(t, g.IsEmpty())
}

func aa1942(t *testing.T) *Ruleset {
	t.Helper()
	rs, err := defaultCatalog(t).Ruleset("aa1942_2e")
	require.NoError(t, err)
	return rs
}

func TestApplyCasualtiesDamagesBattleship(t *testing.T) {
	rs := aa1942(t)
	f := mustForce(t, rs, Defender,
		RosterEntry{ID: "battleship", Count: 1},
		RosterEntry{ID: "infantry", Count: 1},
	)

	g, absorbed := f.ApplyCasualties(1)
	assert.Equal(t, 1, absorbed)
	assert.Zero(t, g.Count("battleship"))
	assert.Equal(t, 1, g.Count("battleship_damaged"))
	assert.Equal(t, 1, g.Count("infantry"), "the battleship soaks the first hit")
	assert.Equal(t, 2, g.TotalUnitCount())

	g, absorbed = f.ApplyCasualties(2)
	assert.Equal(t, 2, absorbed)
	assert.Equal(t, 1, g.Count("battleship_damaged"))
	assert.Zero(t, g.Count("infantry"))

	g, absorbed = mustForce(t, rs, Attacker, RosterEntry{ID: "battleship", Count: 1}).ApplyCasualties(2)
	assert.Equal(t, 2, absorbed)
	assert.True(t, g.IsEmpty(), "a damaged battleship sinks on the second hit")
}

func TestApplyHitsRestricted(t *testing.T) {
	rs := aa1942(t)
	f := mustForce(t, rs, Defender,
		RosterEntry{ID: "submarine", Count: 1},
		RosterEntry{ID: "fighter", Count: 1},
		RosterEntry{ID: "infantry", Count: 1},
	)

	var h hitCounts
	h[TargetsAir] = 2
	g, absorbed := f.applyHits(h)
	assert.Equal(t, 1, absorbed, "only one unit can take air-only hits")
	assert.Zero(t, g.Count("fighter"))
	assert.Equal(t, 2, g.TotalUnitCount())

	h = hitCounts{}
	h[TargetsNotSubmarine] = 3
	g, absorbed = f.applyHits(h)
	assert.Equal(t, 2, absorbed)
	assert.Equal(t, []RosterEntry{{ID: "submarine", Count: 1}}, g.Roster())

	// Restricted hits are assigned before unrestricted ones.
	h = hitCounts{}
	h[TargetsAll] = 1
	h[TargetsNotAir] = 1
	g, absorbed = f.applyHits(h)
	assert.Equal(t, 2, absorbed)
	assert.Equal(t, []RosterEntry{{ID: "fighter", Count: 1}}, g.Roster())
}

func TestForceStrengthWithBoost(t *testing.T) {
	rs := aa1942(t)
	roster := []RosterEntry{{ID: "infantry", Count: 2}, {ID: "artillery", Count: 1}}

	a := mustForce(t, rs, Attacker, roster...)
	assert.Equal(t, 1+2+2, a.Strength(), "one infantry is boosted per artillery")

	d := mustForce(t, rs, Defender, roster...)
	assert.Equal(t, 2+2+2, d.Strength())
}
