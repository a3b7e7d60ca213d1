package combat

import "fmt"

// RosterEntry is one (unit id, count) pair of a roster.
type RosterEntry struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Metrics is the snapshot of a force the statistics track.
type Metrics struct {
	IPC      int `json:"ipc"`
	Units    int `json:"units"`
	Strength int `json:"strength"`
}

// Force is one side's roster: a count per catalog unit. Values are immutable;
// every operation that changes counts returns a new Force.
type Force struct {
	rs     *Ruleset
	side   Side
	counts []int
}

func NewForce(rs *Ruleset, side Side) Force {
	return Force{rs: rs, side: side, counts: make([]int, len(rs.units))}
}

// NewForceFromRoster builds a force from (id, count) pairs. Repeated ids add
// up.
func NewForceFromRoster(rs *Ruleset, side Side, roster []RosterEntry) (Force, error) {
	f := NewForce(rs, side)
	for _, entry := range roster {
		if entry.Count < 0 {
			return Force{}, fmt.Errorf("%w: %s %q has count %d", ErrInvalidCount, side, entry.ID, entry.Count)
		}
		i, ok := rs.index[entry.ID]
		if !ok {
			return Force{}, fmt.Errorf("%w: %s roster references %q in ruleset %q", ErrUnknownUnitID, side, entry.ID, rs.id)
		}
		f.counts[i] += entry.Count
	}
	return f, nil
}

// WithUnit returns a copy of f holding exactly count units of id.
func (f Force) WithUnit(id string, count int) (Force, error) {
	if count < 0 {
		return f, fmt.Errorf("%w: %q has count %d", ErrInvalidCount, id, count)
	}
	if f.rs == nil {
		return f, fmt.Errorf("%w: %q", ErrUnknownUnitID, id)
	}
	i, ok := f.rs.index[id]
	if !ok {
		return f, fmt.Errorf("%w: %q in ruleset %q", ErrUnknownUnitID, id, f.rs.id)
	}
	counts := f.clone()
	counts[i] = count
	return Force{rs: f.rs, side: f.side, counts: counts}, nil
}

func (f Force) clone() []int {
	counts := make([]int, len(f.counts))
	copy(counts, f.counts)
	return counts
}

func (f Force) Ruleset() *Ruleset { return f.rs }
func (f Force) Side() Side        { return f.side }

func (f Force) rulesetID() string {
	if f.rs == nil {
		return ""
	}
	return f.rs.id
}

func (f Force) Count(id string) int {
	if f.rs == nil {
		return 0
	}
	i, ok := f.rs.index[id]
	if !ok {
		return 0
	}
	return f.counts[i]
}

func (f Force) IsEmpty() bool {
	for _, c := range f.counts {
		if c > 0 {
			return false
		}
	}
	return true
}

func (f Force) TotalIPC() int {
	total := 0
	for i, c := range f.counts {
		total += c * f.rs.units[i].IPC
	}
	return total
}

func (f Force) TotalUnitCount() int {
	total := 0
	for _, c := range f.counts {
		total += c
	}
	return total
}

// TotalStrength sums attack values when attacking, defense values otherwise.
// Attacking units boosted by a friendly unit count their boosted attack.
func (f Force) TotalStrength(attacking bool) int {
	side := Defender
	if attacking {
		side = Attacker
	}
	total := 0
	for i, c := range f.counts {
		boosted := 0
		if attacking {
			boosted = f.boosted(i)
		}
		u := f.rs.units[i]
		total += (c-boosted)*u.Value(side) + boosted*u.BoostedAttack
	}
	return total
}

// boosted is how many units at catalog index i roll at their boosted attack.
func (f Force) boosted(i int) int {
	b := f.rs.boostBy[i]
	if b < 0 {
		return 0
	}
	return min(f.counts[i], f.counts[b])
}

// has reports whether any present unit satisfies pred.
func (f Force) has(pred func(UnitDefinition) bool) bool {
	return f.countWhere(pred) > 0
}

func (f Force) countWhere(pred func(UnitDefinition) bool) int {
	n := 0
	for i, c := range f.counts {
		if c > 0 && pred(f.rs.units[i]) {
			n += c
		}
	}
	return n
}

// Strength is TotalStrength for the side the force fights on.
func (f Force) Strength() int { return f.TotalStrength(f.side == Attacker) }

func (f Force) Metrics() Metrics {
	return Metrics{IPC: f.TotalIPC(), Units: f.TotalUnitCount(), Strength: f.Strength()}
}

// Roster lists the units present, in catalog order.
func (f Force) Roster() []RosterEntry {
	var out []RosterEntry
	for i, c := range f.counts {
		if c > 0 {
			out = append(out, RosterEntry{ID: f.rs.units[i].ID, Count: c})
		}
	}
	return out
}

// ApplyCasualties assigns n unrestricted hits following the side's loss
// order and returns the new force with the number of hits absorbed. A unit
// with a damaged form absorbs a hit by turning into it. A reserved unit keeps
// its last instance until nothing else can take the hit.
func (f Force) ApplyCasualties(n int) (Force, int) {
	var h hitCounts
	h[TargetsAll] = n
	return f.applyHits(h)
}

func (f Force) applyHits(h hitCounts) (Force, int) {
	if h.total() <= 0 || f.rs == nil || f.IsEmpty() {
		return f, 0
	}
	counts := f.clone()
	absorbed := 0
	for _, t := range hitOrder {
		n := h[t]
		if n <= 0 {
			continue
		}
		took := f.takeHits(counts, t, n, true)
		if took < n {
			took += f.takeHits(counts, t, n-took, false)
		}
		absorbed += took
	}
	return Force{rs: f.rs, side: f.side, counts: counts}, absorbed
}

// takeHits walks the loss order once, assigning up to n hits of kind t to
// counts, and returns how many landed.
func (f Force) takeHits(counts []int, t Targets, n int, holdReserve bool) int {
	reserve := f.rs.reserve[f.side]
	took := 0
	for _, i := range f.rs.lossOrder[f.side] {
		if took == n {
			break
		}
		if !t.hits(f.rs.units[i]) {
			continue
		}
		avail := counts[i]
		if holdReserve && i == reserve && avail > 0 {
			avail--
		}
		take := min(avail, n-took)
		counts[i] -= take
		if d := f.rs.damagedTo[i]; d >= 0 {
			counts[d] += take
		}
		took += take
	}
	return took
}
