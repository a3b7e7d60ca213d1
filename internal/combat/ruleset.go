package combat

import (
	"fmt"
	"sort"

	"battlecalc/internal/config"
)

// UnitDefinition is one catalog entry. Attack and defense are hit thresholds
// on the ruleset's die: a roll at or below the value scores a hit.
type UnitDefinition struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IPC     int    `json:"ipc"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`

	Air       bool    `json:"air,omitempty"`
	Submarine bool    `json:"submarine,omitempty"`
	AntiSub   bool    `json:"antiSub,omitempty"`
	Phase     Phase   `json:"phase"`
	Targets   Targets `json:"targets"`
	MaxShots  int     `json:"maxShots,omitempty"`

	// BoostedBy names the friendly unit that raises the attack of one of
	// these units each to BoostedAttack.
	BoostedBy     string `json:"boostedBy,omitempty"`
	BoostedAttack int    `json:"boostedAttack,omitempty"`
	// DamagedTo names the unit this one becomes when it absorbs a hit.
	DamagedTo string `json:"damagedTo,omitempty"`
}

// Value returns the hit threshold the unit rolls against on the given side.
func (u UnitDefinition) Value(side Side) int {
	if side == Defender {
		return u.Defense
	}
	return u.Attack
}

// Ruleset is an immutable unit catalog plus its loss-ordering policy. It is
// shared read-only by every battle built from it.
type Ruleset struct {
	id       string
	name     string
	dieSides int
	units    []UnitDefinition
	index    map[string]int

	// lossOrder holds catalog indexes in removal order, per side.
	lossOrder [2][]int
	// reserve is the catalog index held back per side, or -1.
	reserve [2]int
	// boostBy and damagedTo hold catalog indexes per unit, or -1.
	boostBy   []int
	damagedTo []int
}

// NewRuleset builds a ruleset from its configuration. The definition is
// expected to have passed config validation.
func NewRuleset(def config.RulesetDef) *Ruleset {
	rs := &Ruleset{
		id:       def.ID,
		name:     def.Name,
		dieSides: def.DieSides,
		units:    make([]UnitDefinition, 0, len(def.Units)),
		index:    make(map[string]int, len(def.Units)),
		reserve:  [2]int{-1, -1},
	}
	for i, u := range def.Units {
		phase, _ := parsePhase(u.Phase)
		targets, _ := parseTargets(u.Targets)
		ud := UnitDefinition{
			ID:        u.ID,
			Name:      u.Name,
			IPC:       u.IPC,
			Attack:    u.Attack,
			Defense:   u.Defense,
			Air:       u.Air,
			Submarine: u.Submarine,
			AntiSub:   u.AntiSub,
			Phase:     phase,
			Targets:   targets,
			MaxShots:  u.MaxShots,
			DamagedTo: u.DamagedTo,
		}
		if u.Boost != nil {
			ud.BoostedBy = u.Boost.By
			ud.BoostedAttack = u.Boost.Attack
		}
		rs.units = append(rs.units, ud)
		rs.index[u.ID] = i
	}
	rs.boostBy = make([]int, len(rs.units))
	rs.damagedTo = make([]int, len(rs.units))
	for i, u := range rs.units {
		rs.boostBy[i] = rs.lookup(u.BoostedBy)
		rs.damagedTo[i] = rs.lookup(u.DamagedTo)
	}
	rs.lossOrder[Attacker] = rs.buildLossOrder(Attacker, def.LossOrder.Attacker)
	rs.lossOrder[Defender] = rs.buildLossOrder(Defender, def.LossOrder.Defender)
	if i, ok := rs.index[def.Reserve.Attacker]; ok {
		rs.reserve[Attacker] = i
	}
	if i, ok := rs.index[def.Reserve.Defender]; ok {
		rs.reserve[Defender] = i
	}
	return rs
}

func (rs *Ruleset) lookup(id string) int {
	if i, ok := rs.index[id]; ok && id != "" {
		return i
	}
	return -1
}

// buildLossOrder puts the explicitly listed units first and orders the rest
// cheapest first, then by the side's value, then by catalog position.
func (rs *Ruleset) buildLossOrder(side Side, explicit []string) []int {
	order := make([]int, 0, len(rs.units))
	listed := make(map[int]bool, len(explicit))
	for _, id := range explicit {
		i, ok := rs.index[id]
		if !ok || listed[i] {
			continue
		}
		listed[i] = true
		order = append(order, i)
	}

	rest := make([]int, 0, len(rs.units)-len(order))
	for i := range rs.units {
		if !listed[i] {
			rest = append(rest, i)
		}
	}
	sort.SliceStable(rest, func(a, b int) bool {
		ua, ub := rs.units[rest[a]], rs.units[rest[b]]
		if ua.IPC != ub.IPC {
			return ua.IPC < ub.IPC
		}
		if va, vb := ua.Value(side), ub.Value(side); va != vb {
			return va < vb
		}
		return rest[a] < rest[b]
	})
	return append(order, rest...)
}

func (rs *Ruleset) ID() string    { return rs.id }
func (rs *Ruleset) Name() string  { return rs.name }
func (rs *Ruleset) DieSides() int { return rs.dieSides }

// Units returns the catalog in declaration order.
func (rs *Ruleset) Units() []UnitDefinition {
	out := make([]UnitDefinition, len(rs.units))
	copy(out, rs.units)
	return out
}

func (rs *Ruleset) Unit(id string) (UnitDefinition, bool) {
	i, ok := rs.index[id]
	if !ok {
		return UnitDefinition{}, false
	}
	return rs.units[i], true
}

// LossOrder returns unit ids in the order the side removes casualties.
func (rs *Ruleset) LossOrder(side Side) []string {
	ids := make([]string, 0, len(rs.lossOrder[side]))
	for _, i := range rs.lossOrder[side] {
		ids = append(ids, rs.units[i].ID)
	}
	return ids
}

// Reserve reports the unit the side holds back, if any.
func (rs *Ruleset) Reserve(side Side) (string, bool) {
	i := rs.reserve[side]
	if i < 0 {
		return "", false
	}
	return rs.units[i].ID, true
}

// Catalog maps ruleset ids to rulesets.
type Catalog struct {
	rulesets []*Ruleset
	byID     map[string]*Ruleset
}

func NewCatalog(rc *config.RulesetsConfig) *Catalog {
	c := &Catalog{byID: map[string]*Ruleset{}}
	if rc == nil {
		return c
	}
	for _, def := range rc.Rulesets {
		c.Add(NewRuleset(def))
	}
	return c
}

// LoadCatalog reads rulesets from dir, or the embedded defaults when dir is
// empty.
func LoadCatalog(dir string) (*Catalog, error) {
	rc, err := config.LoadRulesets(dir)
	if err != nil {
		return nil, fmt.Errorf("load rulesets: %w", err)
	}
	return NewCatalog(rc), nil
}

// Add registers rs, replacing any ruleset with the same id.
func (c *Catalog) Add(rs *Ruleset) {
	if _, ok := c.byID[rs.id]; ok {
		for i, existing := range c.rulesets {
			if existing.id == rs.id {
				c.rulesets[i] = rs
			}
		}
	} else {
		c.rulesets = append(c.rulesets, rs)
	}
	c.byID[rs.id] = rs
}

// Rulesets returns all rulesets in load order.
func (c *Catalog) Rulesets() []*Ruleset {
	out := make([]*Ruleset, len(c.rulesets))
	copy(out, c.rulesets)
	return out
}

// IDs lists ruleset ids in load order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.rulesets))
	for _, rs := range c.rulesets {
		ids = append(ids, rs.id)
	}
	return ids
}

func (c *Catalog) Ruleset(id string) (*Ruleset, error) {
	rs, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleset, id)
	}
	return rs, nil
}

// Definitions lists the units of a ruleset in catalog order.
func (c *Catalog) Definitions(id string) ([]UnitDefinition, error) {
	rs, err := c.Ruleset(id)
	if err != nil {
		return nil, err
	}
	return rs.Units(), nil
}

func (c *Catalog) LossOrder(id string, side Side) ([]string, error) {
	rs, err := c.Ruleset(id)
	if err != nil {
		return nil, err
	}
	return rs.LossOrder(side), nil
}
