package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"battlecalc/internal/combat"
	"battlecalc/internal/util"
)

func main() {
	var cfgDir, out, rulesetID, attackerFlag, defenderFlag, logLevel string
	var seed int64
	var n, workers, limit int
	var saveLog bool
	flag.StringVar(&cfgDir, "config", "", "ruleset dir (empty: built-in rulesets)")
	flag.StringVar(&out, "out", "out.json", "output file (trace) or summary file (batch)")
	flag.StringVar(&rulesetID, "ruleset", "aa1942_2e", "ruleset id")
	flag.StringVar(&attackerFlag, "attacker", "infantry=3,tank=2", "attacker roster, id=count,...")
	flag.StringVar(&defenderFlag, "defender", "infantry=4", "defender roster, id=count,...")
	flag.Int64Var(&seed, "seed", 12345, "seed (0: random)")
	flag.IntVar(&n, "n", combat.DefaultTrials, "number of trials")
	flag.IntVar(&workers, "workers", 0, "worker goroutines (0: GOMAXPROCS)")
	flag.IntVar(&limit, "limit", combat.DefaultRoundLimit, "round limit per trial")
	flag.BoolVar(&saveLog, "log", true, "save the round-by-round event log when n==1")
	flag.StringVar(&logLevel, "v", "warn", "log level")
	flag.Parse()

	util.NewLogger(logLevel, true)

	catalog, err := combat.LoadCatalog(cfgDir)
	if err != nil {
		panic(err)
	}
	attackerRoster, err := parseRoster(attackerFlag)
	if err != nil {
		panic(fmt.Errorf("-attacker: %w", err))
	}
	defenderRoster, err := parseRoster(defenderFlag)
	if err != nil {
		panic(fmt.Errorf("-defender: %w", err))
	}

	if n <= 1 {
		rs, err := catalog.Ruleset(rulesetID)
		if err != nil {
			panic(err)
		}
		attacker, err := combat.NewForceFromRoster(rs, combat.Attacker, attackerRoster)
		if err != nil {
			panic(err)
		}
		defender, err := combat.NewForceFromRoster(rs, combat.Defender, defenderRoster)
		if err != nil {
			panic(err)
		}
		if seed == 0 {
			if seed, err = util.NewSeed(); err != nil {
				panic(err)
			}
		}

		tr := combat.ReplayTrial(attacker, defender, util.New(seed), limit)
		if !saveLog {
			tr.Events = nil
		}
		if err := os.WriteFile(out, combat.MarshalPretty(tr), 0644); err != nil {
			panic(err)
		}
		fmt.Printf("Single trial finished. Outcome=%s, rounds=%d -> %s\n", tr.Outcome, tr.Rounds, out)
		return
	}

	b, err := combat.Build(context.Background(), catalog, rulesetID, attackerRoster, defenderRoster, combat.Options{
		Trials:     n,
		Workers:    workers,
		RoundLimit: limit,
		Seed:       seed,
	})
	if err != nil {
		panic(err)
	}

	summary := map[string]any{
		"ruleset":    rulesetID,
		"trials":     b.Trials(),
		"seed":       b.Seed(),
		"attacker":   b.Attacker().Roster(),
		"defender":   b.Defender().Roster(),
		"rounds":     b.AllRoundSummaries(),
		"cumulative": b.CumulativeStats(),
	}
	if err := os.WriteFile(out, combat.MarshalPretty(summary), 0644); err != nil {
		panic(err)
	}
	report(message.NewPrinter(language.English), b)
	fmt.Printf("Batch %d done -> %s\n", b.Trials(), filepath.Base(out))
}

func report(p *message.Printer, b *combat.Battle) {
	cum := b.CumulativeStats()
	p.Printf("%s: %d trials, seed %d\n", b.Ruleset().Name(), b.Trials(), b.Seed())
	p.Printf("  attacker wins  %5.1f%%\n", 100*cum.AttackerWinProbability)
	p.Printf("  defender wins  %5.1f%%\n", 100*cum.DefenderWinProbability)
	p.Printf("  draw           %5.1f%% (round limit %.1f%%)\n", 100*cum.DrawProbability, 100*cum.RoundLimitProbability)
	p.Printf("  rounds         %.2f ± %.2f, longest %d\n", cum.TerminalRound.Mean, cum.TerminalRound.StdDev(), b.TerminalRound())
	p.Printf("  attacker loses %.1f units, %.1f IPC\n", cum.AttackerLosses.UnitCount.Mean, cum.AttackerLosses.IPC.Mean)
	p.Printf("  defender loses %.1f units, %.1f IPC\n", cum.DefenderLosses.UnitCount.Mean, cum.DefenderLosses.IPC.Mean)
}
