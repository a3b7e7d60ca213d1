package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battlecalc/internal/util"
)

func TestWorkerSeedZeroKeepsItsOwnStream(t *testing.T) {
	seed := int64(-workerSeedStride)
	require.Zero(t, workerSeed(seed, 1))

	derived, one := util.New(workerSeed(seed, 1)), util.New(1)
	differ := false
	for i := 0; i < 8; i++ {
		if derived.Intn(6) != one.Intn(6) {
			differ = true
		}
	}
	assert.True(t, differ, "a derived seed of zero must not replay seed 1")
}

func TestTrialStallsOnlyWithoutTargets(t *testing.T) {
	rs := aa1942(t)
	fighter := mustForce(t, rs, Defender, RosterEntry{ID: "fighter", Count: 1})
	sub := mustForce(t, rs, Attacker, RosterEntry{ID: "submarine", Count: 1})
	assert.True(t, stalled(sub, fighter, true))

	gun := mustForce(t, rs, Defender, RosterEntry{ID: "aa_gun", Count: 1})
	bomber := mustForce(t, rs, Attacker, RosterEntry{ID: "bomber", Count: 1})
	assert.False(t, stalled(bomber, gun, true))
	assert.True(t, canHit(gun, bomber, true))
	assert.False(t, canHit(gun, bomber, false), "anti-air fire opens the battle only")

	tr := newTrial(sub, fighter, 10)
	tr.start()
	assert.Equal(t, TrialTerminal, tr.state)
	assert.Equal(t, OutcomeRoundLimit, tr.outcome)
	assert.Zero(t, tr.round)
}
