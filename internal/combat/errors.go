package combat

import "errors"

// ErrUnknownRuleset indicates a ruleset id absent from the catalog.
var ErrUnknownRuleset = errors.New("unknown ruleset")

// ErrEmptyRuleset indicates a ruleset that defines no units.
var ErrEmptyRuleset = errors.New("ruleset defines no units")

// ErrUnknownUnitID indicates a roster entry naming a unit the ruleset lacks.
var ErrUnknownUnitID = errors.New("unknown unit id")

// ErrInvalidCount indicates a negative unit count.
var ErrInvalidCount = errors.New("unit count must be non-negative")

// ErrRulesetMismatch indicates forces built from different rulesets.
var ErrRulesetMismatch = errors.New("attacker and defender use different rulesets")
