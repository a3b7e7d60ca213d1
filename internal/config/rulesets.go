package config

type RulesetDef struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	DieSides  int          `yaml:"die_sides"`
	Units     []UnitDef    `yaml:"units"`
	LossOrder LossOrderDef `yaml:"loss_order"`
	Reserve   ReserveDef   `yaml:"reserve"`
	Note      string       `yaml:"note"`
}

type UnitDef struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	IPC     int    `yaml:"ipc"`
	Attack  int    `yaml:"attack"`
	Defense int    `yaml:"defense"`
	Note    string `yaml:"note"`

	// Air and Submarine classify the unit for hit restrictions.
	Air       bool `yaml:"air"`
	Submarine bool `yaml:"submarine"`
	// AntiSub lets friendly air units hit submarines and cancels the
	// surprise strike of hostile submarines.
	AntiSub bool `yaml:"anti_sub"`

	// Phase is one of general (default), anti_air or surprise_strike.
	Phase string `yaml:"phase"`
	// Targets is one of all (default), air, not_air or not_submarine.
	Targets string `yaml:"targets"`
	// MaxShots caps the dice an anti_air unit rolls: one per hostile air
	// unit, at most MaxShots. Zero means no cap.
	MaxShots int `yaml:"max_shots"`

	Boost *BoostDef `yaml:"boost"`
	// DamagedTo names the unit this one turns into when it takes a hit
	// instead of being removed.
	DamagedTo string `yaml:"damaged_to"`
}

// BoostDef raises the attack of up to one unit per friendly booster unit.
type BoostDef struct {
	By     string `yaml:"by"`
	Attack int    `yaml:"attack"`
}

const (
	PhaseGeneral        = "general"
	PhaseAntiAir        = "anti_air"
	PhaseSurpriseStrike = "surprise_strike"

	TargetsAll          = "all"
	TargetsAir          = "air"
	TargetsNotAir       = "not_air"
	TargetsNotSubmarine = "not_submarine"
)

// LossOrderDef lists unit ids that are removed first, in order, for each
// side. Units not listed follow in the default cheapest-first order.
type LossOrderDef struct {
	Attacker []string `yaml:"attacker"`
	Defender []string `yaml:"defender"`
}

// ReserveDef names a unit each side holds back: its last instance is only
// taken once nothing else is left.
type ReserveDef struct {
	Attacker string `yaml:"attacker"`
	Defender string `yaml:"defender"`
}

type RulesetsConfig struct {
	Rulesets []RulesetDef
}

func (rc *RulesetsConfig) Find(id string) (RulesetDef, bool) {
	for _, rs := range rc.Rulesets {
		if rs.ID == id {
			return rs, true
		}
	}
	return RulesetDef{}, false
}
