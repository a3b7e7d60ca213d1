package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"battlecalc/internal/combat"
)

var (
	// ErrBattleNotFound indicates an id that is not (or no longer) registered.
	ErrBattleNotFound = errors.New("battle not found")
	// ErrInvalidRequest indicates request parameters outside their range.
	ErrInvalidRequest = errors.New("invalid battle request")
	// ErrBuildTimeout indicates a simulation that did not finish in time.
	ErrBuildTimeout = errors.New("battle build timed out")
)

type Config struct {
	Trials       int
	Workers      int
	RoundLimit   int
	MaxBattles   int
	BuildTimeout time.Duration
}

// CreateBattleRequest describes a battle to simulate. Zero Trials,
// RoundLimit and Seed fall back to the service defaults.
type CreateBattleRequest struct {
	Ruleset    string               `json:"ruleset"`
	Attacker   []combat.RosterEntry `json:"attacker"`
	Defender   []combat.RosterEntry `json:"defender"`
	Trials     int                  `json:"trials,omitempty"`
	RoundLimit int                  `json:"roundLimit,omitempty"`
	Seed       int64                `json:"seed,omitempty"`
}

// BattleInfo is the status of a registered battle.
type BattleInfo struct {
	ID            string               `json:"id"`
	Ruleset       string               `json:"ruleset"`
	CreatedAt     time.Time            `json:"createdAt"`
	Trials        int                  `json:"trials"`
	Seed          int64                `json:"seed"`
	Attacker      []combat.RosterEntry `json:"attacker"`
	Defender      []combat.RosterEntry `json:"defender"`
	CurrentRound  int                  `json:"currentRound"`
	TerminalRound int                  `json:"terminalRound"`
	Complete      bool                 `json:"complete"`
}

type RulesetInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DieSides int    `json:"dieSides"`
	Units    int    `json:"units"`
}

type entry struct {
	id      string
	created time.Time
	battle  *combat.Battle
}

// Service keeps built battles in memory, keyed by generated ids. When
// MaxBattles is reached the oldest battle is evicted.
type Service struct {
	catalog *combat.Catalog
	cfg     Config
	log     zerolog.Logger

	mu      sync.RWMutex
	battles map[string]*entry
	order   []string

	now func() time.Time
}

func New(catalog *combat.Catalog, cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		catalog: catalog,
		cfg:     cfg,
		log:     logger.With().Str("component", "service").Logger(),
		battles: map[string]*entry{},
		now:     time.Now,
	}
}

func (s *Service) ListRulesets() []RulesetInfo {
	var out []RulesetInfo
	for _, rs := range s.catalog.Rulesets() {
		out = append(out, RulesetInfo{
			ID:       rs.ID(),
			Name:     rs.Name(),
			DieSides: rs.DieSides(),
			Units:    len(rs.Units()),
		})
	}
	return out
}

func (s *Service) ListUnits(ruleset string) ([]combat.UnitDefinition, error) {
	return s.catalog.Definitions(ruleset)
}

// CreateBattle simulates the requested battle and registers it.
func (s *Service) CreateBattle(ctx context.Context, req CreateBattleRequest) (BattleInfo, error) {
	if req.Trials < 0 {
		return BattleInfo{}, fmt.Errorf("%w: trials %d", ErrInvalidRequest, req.Trials)
	}
	if req.RoundLimit < 0 {
		return BattleInfo{}, fmt.Errorf("%w: round limit %d", ErrInvalidRequest, req.RoundLimit)
	}
	opts := combat.Options{
		Trials:     req.Trials,
		Workers:    s.cfg.Workers,
		RoundLimit: req.RoundLimit,
		Seed:       req.Seed,
	}
	if opts.Trials == 0 {
		opts.Trials = s.cfg.Trials
	}
	if opts.RoundLimit == 0 {
		opts.RoundLimit = s.cfg.RoundLimit
	}

	if s.cfg.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.BuildTimeout)
		defer cancel()
	}

	started := s.now()
	b, err := combat.Build(ctx, s.catalog, req.Ruleset, req.Attacker, req.Defender, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return BattleInfo{}, fmt.Errorf("%w: %w", ErrBuildTimeout, err)
		}
		return BattleInfo{}, err
	}

	e := &entry{id: uuid.NewString(), created: s.now(), battle: b}
	s.mu.Lock()
	evicted := s.insertLocked(e)
	s.mu.Unlock()

	s.log.Info().
		Str("battle_id", e.id).
		Str("ruleset", req.Ruleset).
		Int("trials", b.Trials()).
		Int64("seed", b.Seed()).
		Int("terminal_round", b.TerminalRound()).
		Dur("elapsed", e.created.Sub(started)).
		Msg("battle created")
	for _, id := range evicted {
		s.log.Debug().Str("battle_id", id).Msg("battle evicted")
	}
	return e.info(), nil
}

func (s *Service) insertLocked(e *entry) []string {
	var evicted []string
	for s.cfg.MaxBattles > 0 && len(s.order) >= s.cfg.MaxBattles {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.battles, oldest)
		evicted = append(evicted, oldest)
	}
	s.battles[e.id] = e
	s.order = append(s.order, e.id)
	return evicted
}

func (s *Service) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.battles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBattleNotFound, id)
	}
	return e, nil
}

func (s *Service) Battle(id string) (*combat.Battle, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.battle, nil
}

func (s *Service) Info(id string) (BattleInfo, error) {
	e, err := s.lookup(id)
	if err != nil {
		return BattleInfo{}, err
	}
	return e.info(), nil
}

// Advance moves the battle's display cursor one round forward.
func (s *Service) Advance(id string) (BattleInfo, error) {
	e, err := s.lookup(id)
	if err != nil {
		return BattleInfo{}, err
	}
	e.battle.AdvanceRound()
	return e.info(), nil
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.battles[id]; !ok {
		return fmt.Errorf("%w: %q", ErrBattleNotFound, id)
	}
	delete(s.battles, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.battles)
}

func (e *entry) info() BattleInfo {
	b := e.battle
	return BattleInfo{
		ID:            e.id,
		Ruleset:       b.Ruleset().ID(),
		CreatedAt:     e.created,
		Trials:        b.Trials(),
		Seed:          b.Seed(),
		Attacker:      b.Attacker().Roster(),
		Defender:      b.Defender().Roster(),
		CurrentRound:  b.CurrentRoundIndex(),
		TerminalRound: b.TerminalRound(),
		Complete:      b.IsComplete(),
	}
}
