package combat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("battlecalc/internal/combat")

// Battle combines two starting forces with the statistics of every round of
// their simulated trials. The statistics never change after construction;
// only the display cursor moves.
type Battle struct {
	ruleset    *Ruleset
	attacker   Force
	defender   Force
	opts       Options
	rounds     []RoundStats
	cumulative CumulativeStats

	mu     sync.Mutex
	cursor int
}

// Build validates two rosters against a ruleset of the catalog and simulates
// the battle between them.
func Build(ctx context.Context, catalog *Catalog, rulesetID string, attackerRoster, defenderRoster []RosterEntry, opts Options) (*Battle, error) {
	rs, err := catalog.Ruleset(rulesetID)
	if err != nil {
		return nil, err
	}
	if len(rs.units) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyRuleset, rulesetID)
	}
	attacker, err := NewForceFromRoster(rs, Attacker, attackerRoster)
	if err != nil {
		return nil, err
	}
	defender, err := NewForceFromRoster(rs, Defender, defenderRoster)
	if err != nil {
		return nil, err
	}
	return New(ctx, attacker, defender, opts)
}

// New simulates the battle between two prepared forces. The forces are
// rebound to the attacker and defender sides respectively.
func New(ctx context.Context, attacker, defender Force, opts Options) (*Battle, error) {
	rs := attacker.rs
	if rs == nil || len(rs.units) == 0 {
		return nil, ErrEmptyRuleset
	}
	if defender.rs != rs {
		return nil, fmt.Errorf("%w: %q and %q", ErrRulesetMismatch, rs.id, defender.rulesetID())
	}
	attacker.side, defender.side = Attacker, Defender

	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "combat.Build", trace.WithAttributes(
		attribute.String("ruleset", rs.id),
		attribute.Int("trials", opts.Trials),
		attribute.Int("workers", opts.Workers),
		attribute.Int("attacker.units", attacker.TotalUnitCount()),
		attribute.Int("defender.units", defender.TotalUnitCount()),
	))
	defer span.End()

	started := time.Now()
	var agg *aggregate
	if o := outcomeOf(attacker, defender); o != OutcomeNone {
		agg = settledAggregate(opts.Trials, o, attacker.Metrics(), defender.Metrics())
	} else {
		agg, err = runTrials(ctx, attacker, defender, opts)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("simulate battle: %w", err)
		}
	}

	rounds, cumulative := agg.summarize()
	span.SetAttributes(attribute.Int("terminal_round", len(rounds)-1))
	log.Debug().
		Str("ruleset", rs.id).
		Int("trials", opts.Trials).
		Int("workers", opts.Workers).
		Int("terminal_round", len(rounds)-1).
		Float64("attacker_win_p", cumulative.AttackerWinProbability).
		Dur("elapsed", time.Since(started)).
		Msg("battle simulated")

	return &Battle{
		ruleset:    rs,
		attacker:   attacker,
		defender:   defender,
		opts:       opts,
		rounds:     rounds,
		cumulative: cumulative,
	}, nil
}

func (b *Battle) Ruleset() *Ruleset { return b.ruleset }
func (b *Battle) Attacker() Force   { return b.attacker }
func (b *Battle) Defender() Force   { return b.defender }
func (b *Battle) Trials() int       { return b.opts.Trials }
func (b *Battle) Seed() int64       { return b.opts.Seed }

// TerminalRound is the last round any trial reached.
func (b *Battle) TerminalRound() int { return len(b.rounds) - 1 }

// RoundStats returns the statistics of round i. Indexes past the terminal
// round return the terminal round; negative indexes return round 0.
func (b *Battle) RoundStats(i int) RoundStats {
	switch {
	case i < 0:
		i = 0
	case i > b.TerminalRound():
		i = b.TerminalRound()
	}
	return b.rounds[i]
}

func (b *Battle) CurrentRoundIndex() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

func (b *Battle) CurrentRoundStats() RoundStats {
	return b.RoundStats(b.CurrentRoundIndex())
}

// AdvanceRound moves the cursor one round forward, stopping at the terminal
// round, and reports whether the battle is now complete.
func (b *Battle) AdvanceRound() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cursor < b.TerminalRound() {
		b.cursor++
	}
	return b.cursor == b.TerminalRound()
}

func (b *Battle) IsComplete() bool {
	return b.CurrentRoundIndex() == b.TerminalRound()
}

// AllRoundSummaries returns the statistics of rounds 0 through the terminal
// round.
func (b *Battle) AllRoundSummaries() []RoundStats {
	out := make([]RoundStats, len(b.rounds))
	copy(out, b.rounds)
	return out
}

func (b *Battle) CumulativeStats() CumulativeStats {
	cum := b.cumulative
	cum.TerminalRounds = append([]float64(nil), b.cumulative.TerminalRounds...)
	return cum
}
