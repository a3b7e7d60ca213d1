package main

import (
	"fmt"
	"strconv"
	"strings"

	"battlecalc/internal/combat"
)

// parseRoster reads "id=count,id=count". A bare id counts as one unit.
func parseRoster(s string) ([]combat.RosterEntry, error) {
	var roster []combat.RosterEntry
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, countStr, found := strings.Cut(part, "=")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("roster entry %q has no unit id", part)
		}
		count := 1
		if found {
			c, err := strconv.Atoi(strings.TrimSpace(countStr))
			if err != nil {
				return nil, fmt.Errorf("roster entry %q: bad count: %w", part, err)
			}
			count = c
		}
		roster = append(roster, combat.RosterEntry{ID: id, Count: count})
	}
	return roster, nil
}
