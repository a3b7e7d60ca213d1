package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultRulesets(t *testing.T) {
	rc, err := LoadDefaultRulesets()
	require.NoError(t, err)

	aa, ok := rc.Find("aa1942_2e")
	require.True(t, ok)
	assert.Equal(t, 6, aa.DieSides)
	assert.Len(t, aa.Units, 12)
	assert.Equal(t, "tank", aa.Reserve.Attacker)
	assert.Equal(t, "battleship", aa.LossOrder.Defender[0])

	inf := aa.Units[0]
	require.NotNil(t, inf.Boost)
	assert.Equal(t, BoostDef{By: "artillery", Attack: 2}, *inf.Boost)
	assert.Equal(t, PhaseGeneral, inf.Phase)
	assert.Equal(t, TargetsAll, inf.Targets)
	assert.Equal(t, PhaseAntiAir, aa.Units[3].Phase)
	assert.Equal(t, 3, aa.Units[3].MaxShots)
	assert.Equal(t, "battleship_damaged", aa.Units[10].DamagedTo)

	sk, ok := rc.Find("skirmish")
	require.True(t, ok)
	assert.Equal(t, "soldier", sk.Units[2].ID)
	assert.Equal(t, 4, sk.Units[2].Attack)
}

func TestLoadRulesetsEmptyDirUsesEmbedded(t *testing.T) {
	rc, err := LoadRulesets("")
	require.NoError(t, err)
	_, ok := rc.Find("skirmish")
	assert.True(t, ok)
}

func TestLoadRulesetsFSAppliesDefaults(t *testing.T) {
	fsys := fstest.MapFS{
		"tiny.yaml": {Data: []byte("id: tiny\nunits:\n  - { id: pawn, ipc: 1, attack: 2, defense: 2 }\n")},
	}
	rc, err := LoadRulesetsFS(fsys)
	require.NoError(t, err)
	require.Len(t, rc.Rulesets, 1)

	rs := rc.Rulesets[0]
	assert.Equal(t, "tiny", rs.Name)
	assert.Equal(t, 6, rs.DieSides)
	assert.Equal(t, "pawn", rs.Units[0].Name)
}

func TestLoadRulesetsFSErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "attack above die",
			data: "id: x\ndie_sides: 6\nunits:\n  - { id: a, ipc: 1, attack: 7, defense: 1 }\n",
			want: "attack 7 outside 0..6",
		},
		{
			name: "negative ipc",
			data: "id: x\nunits:\n  - { id: a, ipc: -1, attack: 1, defense: 1 }\n",
			want: "ipc must be non-negative",
		},
		{
			name: "duplicate unit",
			data: "id: x\nunits:\n  - { id: a, ipc: 1 }\n  - { id: a, ipc: 2 }\n",
			want: "duplicate unit",
		},
		{
			name: "unknown loss order unit",
			data: "id: x\nunits:\n  - { id: a, ipc: 1 }\nloss_order:\n  attacker: [b]\n",
			want: "unknown unit \"b\"",
		},
		{
			name: "unknown reserve unit",
			data: "id: x\nunits:\n  - { id: a, ipc: 1 }\nreserve:\n  defender: b\n",
			want: "defender reserve",
		},
		{
			name: "unknown phase",
			data: "id: x\nunits:\n  - { id: a, ipc: 1, phase: naval }\n",
			want: "unknown phase \"naval\"",
		},
		{
			name: "unknown targets",
			data: "id: x\nunits:\n  - { id: a, ipc: 1, targets: land }\n",
			want: "unknown targets",
		},
		{
			name: "unknown booster",
			data: "id: x\nunits:\n  - { id: a, ipc: 1, boost: { by: b, attack: 2 } }\n",
			want: "boost: unknown unit \"b\"",
		},
		{
			name: "boost above die",
			data: "id: x\nunits:\n  - { id: a, ipc: 1, boost: { by: a, attack: 9 } }\n",
			want: "boost: attack 9 outside 0..6",
		},
		{
			name: "damaged to self",
			data: "id: x\nunits:\n  - { id: a, ipc: 1, damaged_to: a }\n",
			want: "damaged_to",
		},
		{
			name: "chained damage",
			data: "id: x\nunits:\n  - { id: a, ipc: 1, damaged_to: b }\n  - { id: b, ipc: 1, damaged_to: c }\n  - { id: c, ipc: 1 }\n",
			want: "is itself damageable",
		},
		{
			name: "missing id",
			data: "name: nameless\n",
			want: "ruleset id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRulesetsFS(fstest.MapFS{"r.yaml": {Data: []byte(tt.data)}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRulesetsFSDuplicateRuleset(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("id: same\n")},
		"b.yaml": {Data: []byte("id: same\n")},
	}
	_, err := LoadRulesetsFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate ruleset")
}

func TestLoadRulesetsFSNoFiles(t *testing.T) {
	_, err := LoadRulesetsFS(fstest.MapFS{})
	require.Error(t, err)
}
