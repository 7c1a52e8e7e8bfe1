package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/wheelgate/wheelgate/internal/config"
	"github.com/wheelgate/wheelgate/internal/engine"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/logger"
)

func main() {
	spins := flag.Int("n", 100000, "spins per risk tier")
	seed := flag.Int64("seed", 1, "rng seed (0 = random)")
	segments := flag.Int("segments", 12, "wheel segment count")
	risk := flag.String("risk", "", "only simulate this tier")
	flag.Parse()

	// keep stdout for the report
	logger.InitWithWriter("warn", os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	tables, err := engine.TablesFromConfig(cfg.Game.Tables)
	if err != nil {
		log.Fatalf("Invalid multiplier tables: %v", err)
	}
	eng, err := engine.New(tables)
	if err != nil {
		log.Fatalf("Invalid multiplier tables: %v", err)
	}
	rng, err := engine.NewLockedRand(*seed)
	if err != nil {
		log.Fatalf("Failed to seed RNG: %v", err)
	}

	tiers := model.RiskTiers
	if *risk != "" {
		tier, err := model.ParseRiskTier(*risk)
		if err != nil {
			log.Fatal(err)
		}
		tiers = []model.RiskTier{tier}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, tier := range tiers {
		report, err := eng.Simulate(tier, model.SegmentCount(*segments), *spins, rng)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprintf(w, "--- %s (%d spins, %d segments) ---\n", report.Risk, report.Spins, report.Segments)
		fmt.Fprintln(w, "multiplier\tprobability\thits\tfrequency\tdelta")
		for _, b := range report.Buckets {
			fmt.Fprintf(w, "%sx\t%.4f\t%d\t%.4f\t%+.4f\n", b.Multiplier.StringFixed(2), b.Probability, b.Hits, b.Frequency, b.Frequency-b.Probability)
		}
		fmt.Fprintf(w, "rtp\texpected %.4f\tobserved %.4f\tchi2 %.3f (df %d)\n\n",
			report.ExpectedRTP, report.EmpiricalRTP, report.ChiSquare, len(report.Buckets)-1)
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
}
