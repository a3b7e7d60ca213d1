package combat

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"battlecalc/internal/util"
)

const (
	DefaultTrials     = 5000
	DefaultRoundLimit = 100

	// workerSeedStride spaces the per-worker seeds derived from Options.Seed.
	workerSeedStride = 7919
)

// Options control the trial simulation behind a battle.
type Options struct {
	// Trials is the number of independent playthroughs.
	Trials int
	// Workers is the number of goroutines sharing the trials. Results for a
	// fixed Seed are reproducible only with the same Workers value.
	Workers int
	// RoundLimit stops trials that are still undecided after that many rounds.
	RoundLimit int
	// Seed fixes the random streams. Zero draws a fresh seed. Worker w uses
	// Seed + w*7919, so seeds that differ by a multiple of 7919 share streams
	// across workers.
	Seed int64
}

func (o Options) withDefaults() (Options, error) {
	if o.Trials <= 0 {
		o.Trials = DefaultTrials
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Workers > o.Trials {
		o.Workers = o.Trials
	}
	if o.RoundLimit <= 0 {
		o.RoundLimit = DefaultRoundLimit
	}
	if o.Seed == 0 {
		seed, err := util.NewSeed()
		if err != nil {
			return o, err
		}
		o.Seed = seed
	}
	return o, nil
}

type TrialState int

const (
	TrialNotStarted TrialState = iota
	TrialRunning
	TrialTerminal
)

func (s TrialState) String() string {
	switch s {
	case TrialNotStarted:
		return "not_started"
	case TrialRunning:
		return "running"
	case TrialTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// trial is one playthrough from the starting forces to a terminal outcome.
type trial struct {
	state    TrialState
	round    int
	limit    int
	attacker Force
	defender Force
	outcome  Outcome
}

func newTrial(attacker, defender Force, limit int) *trial {
	return &trial{attacker: attacker, defender: defender, limit: limit}
}

func (t *trial) start() {
	t.state = TrialRunning
	t.settle(outcomeOf(t.attacker, t.defender))
}

// settle moves the trial to its terminal state when o is decisive, when
// neither side can score a hit any more, or when the round limit is reached.
func (t *trial) settle(o Outcome) {
	switch {
	case o != OutcomeNone:
		t.terminate(o)
	case stalled(t.attacker, t.defender, t.round == 0), t.round >= t.limit:
		t.terminate(OutcomeRoundLimit)
	}
}

func (t *trial) terminate(o Outcome) {
	t.state = TrialTerminal
	t.outcome = o
}

func (t *trial) step(dice Roller) RoundResult {
	t.round++
	res := ResolveRound(t.attacker, t.defender, dice, t.round)
	t.attacker, t.defender = res.Attacker, res.Defender
	t.settle(res.Outcome)
	return res
}

// stalled reports that neither side can remove a unit of the other, such as
// a submarine facing only aircraft.
func stalled(attacker, defender Force, opening bool) bool {
	return !canHit(attacker, defender, opening) && !canHit(defender, attacker, opening)
}

// runTrial plays one trial to the end, folding every round into agg.
func runTrial(attacker, defender Force, limit int, dice Roller, agg *aggregate) {
	t := newTrial(attacker, defender, limit)
	t.start()
	agg.observe(0, attacker.Metrics(), defender.Metrics())
	for t.state == TrialRunning {
		t.step(dice)
		agg.observe(t.round, t.attacker.Metrics(), t.defender.Metrics())
	}
	agg.finish(t.round, t.outcome, t.attacker.Metrics(), t.defender.Metrics())
}

// workerSeed derives the seed of worker w. Distinct derived seeds give
// distinct streams, including a derived seed of zero.
func workerSeed(seed int64, w int) int64 {
	return seed + int64(w)*workerSeedStride
}

// runTrials splits opts.Trials across opts.Workers goroutines, each with its
// own random stream and partial aggregate, and merges the partials in worker
// order. Cancelling ctx abandons the run.
func runTrials(ctx context.Context, attacker, defender Force, opts Options) (*aggregate, error) {
	partials := make([]*aggregate, opts.Workers)
	per, rem := opts.Trials/opts.Workers, opts.Trials%opts.Workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		n := per
		if w < rem {
			n++
		}
		g.Go(func() error {
			rng := util.New(workerSeed(opts.Seed, w))
			agg := &aggregate{}
			for i := 0; i < n; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				runTrial(attacker, defender, opts.RoundLimit, rng, agg)
			}
			partials[w] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := partials[0]
	for _, p := range partials[1:] {
		total.merge(p)
	}
	return total, nil
}
