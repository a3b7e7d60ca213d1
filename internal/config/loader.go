package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed assets/rulesets/*.yaml
var defaultAssets embed.FS

const defaultDieSides = 6

func loadYAML(fsys fs.FS, name string, out any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadRulesets reads every *.yaml file in dir as one ruleset. An empty dir
// selects the catalog compiled into the binary.
func LoadRulesets(dir string) (*RulesetsConfig, error) {
	if dir == "" {
		return LoadDefaultRulesets()
	}
	return LoadRulesetsFS(os.DirFS(dir))
}

func LoadDefaultRulesets() (*RulesetsConfig, error) {
	sub, err := fs.Sub(defaultAssets, "assets/rulesets")
	if err != nil {
		return nil, err
	}
	return LoadRulesetsFS(sub)
}

func LoadRulesetsFS(fsys fs.FS) (*RulesetsConfig, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("no ruleset files found")
	}
	sort.Strings(names)

	var rc RulesetsConfig
	for _, name := range names {
		var def RulesetDef
		if err := loadYAML(fsys, name, &def); err != nil {
			return nil, fmt.Errorf("load %s: %w", path.Base(name), err)
		}
		applyDefaults(&def)
		rc.Rulesets = append(rc.Rulesets, def)
	}
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return &rc, nil
}

func applyDefaults(def *RulesetDef) {
	if def.DieSides == 0 {
		def.DieSides = defaultDieSides
	}
	if def.Name == "" {
		def.Name = def.ID
	}
	for i := range def.Units {
		u := &def.Units[i]
		if u.Name == "" {
			u.Name = u.ID
		}
		if u.Phase == "" {
			u.Phase = PhaseGeneral
		}
		if u.Targets == "" {
			u.Targets = TargetsAll
		}
	}
}

// Validate checks ids and value ranges. Rulesets without units are accepted
// here; building a battle from one fails later.
func (rc *RulesetsConfig) Validate() error {
	seen := map[string]bool{}
	for _, rs := range rc.Rulesets {
		if rs.ID == "" {
			return errors.New("ruleset id is required")
		}
		if seen[rs.ID] {
			return fmt.Errorf("duplicate ruleset %q", rs.ID)
		}
		seen[rs.ID] = true
		if err := rs.validate(); err != nil {
			return fmt.Errorf("ruleset %q: %w", rs.ID, err)
		}
	}
	return nil
}

func (rs RulesetDef) validate() error {
	if rs.DieSides <= 0 {
		return fmt.Errorf("die_sides must be positive, got %d", rs.DieSides)
	}
	units := map[string]bool{}
	for _, u := range rs.Units {
		units[u.ID] = u.ID != ""
	}
	seen := map[string]bool{}
	for _, u := range rs.Units {
		if u.ID == "" {
			return errors.New("unit id is required")
		}
		if seen[u.ID] {
			return fmt.Errorf("duplicate unit %q", u.ID)
		}
		seen[u.ID] = true
		if u.IPC < 0 {
			return fmt.Errorf("unit %q: ipc must be non-negative, got %d", u.ID, u.IPC)
		}
		if u.Attack < 0 || u.Attack > rs.DieSides {
			return fmt.Errorf("unit %q: attack %d outside 0..%d", u.ID, u.Attack, rs.DieSides)
		}
		if u.Defense < 0 || u.Defense > rs.DieSides {
			return fmt.Errorf("unit %q: defense %d outside 0..%d", u.ID, u.Defense, rs.DieSides)
		}
		if err := rs.validateRules(u, units); err != nil {
			return fmt.Errorf("unit %q: %w", u.ID, err)
		}
	}
	for side, order := range map[string][]string{"attacker": rs.LossOrder.Attacker, "defender": rs.LossOrder.Defender} {
		listed := map[string]bool{}
		for _, id := range order {
			if !units[id] {
				return fmt.Errorf("%s loss order: unknown unit %q", side, id)
			}
			if listed[id] {
				return fmt.Errorf("%s loss order: unit %q listed twice", side, id)
			}
			listed[id] = true
		}
	}
	for side, id := range map[string]string{"attacker": rs.Reserve.Attacker, "defender": rs.Reserve.Defender} {
		if id != "" && !units[id] {
			return fmt.Errorf("%s reserve: unknown unit %q", side, id)
		}
	}
	return nil
}

func (rs RulesetDef) validateRules(u UnitDef, units map[string]bool) error {
	switch u.Phase {
	case "", PhaseGeneral, PhaseAntiAir, PhaseSurpriseStrike:
	default:
		return fmt.Errorf("unknown phase %q", u.Phase)
	}
	switch u.Targets {
	case "", TargetsAll, TargetsAir, TargetsNotAir, TargetsNotSubmarine:
	default:
		return fmt.Errorf("unknown targets %q", u.Targets)
	}
	if u.MaxShots < 0 {
		return fmt.Errorf("max_shots must be non-negative, got %d", u.MaxShots)
	}
	if b := u.Boost; b != nil {
		if !units[b.By] {
			return fmt.Errorf("boost: unknown unit %q", b.By)
		}
		if b.Attack < 0 || b.Attack > rs.DieSides {
			return fmt.Errorf("boost: attack %d outside 0..%d", b.Attack, rs.DieSides)
		}
	}
	if u.DamagedTo != "" {
		if u.DamagedTo == u.ID {
			return errors.New("damaged_to: unit cannot damage into itself")
		}
		if !units[u.DamagedTo] {
			return fmt.Errorf("damaged_to: unknown unit %q", u.DamagedTo)
		}
		for _, other := range rs.Units {
			if other.ID == u.DamagedTo && other.DamagedTo != "" {
				return fmt.Errorf("damaged_to: %q is itself damageable", u.DamagedTo)
			}
		}
	}
	return nil
}
