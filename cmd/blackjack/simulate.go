package main

import (
	"fmt"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

type SimulateCmd struct {
	Games    int   `default:"10000" help:"Number of games to play"`
	Seed     int64 `help:"Master seed (0 picks one from the clock)"`
	HitBelow int   `name:"hit-below" default:"17" help:"Player hits while under this total"`
}

func (c *SimulateCmd) Run() error {
	if c.Games <= 0 {
		return fmt.Errorf("games must be positive")
	}
	seed := randutil.Seed(c.Seed, quartz.NewReal())
	fmt.Println(okStyle.Render(fmt.Sprintf("Simulating %d games, hit below %d, seed %d", c.Games, c.HitBelow, seed)))

	start := time.Now()
	stats := simulate(c.Games, seed, blackjack.HitBelow(c.HitBelow), func(done int, s *statistics.Statistics) {
		fmt.Printf("Game %d: %.4f units/game\n", done, s.Mean())
	})
	elapsed := time.Since(start)

	if err := stats.Validate(); err != nil {
		return fmt.Errorf("statistics inconsistent: %w", err)
	}
	printResults(stats, elapsed)
	return nil
}

const progressEvery = 10000

// simulate plays games back to back. Each game gets its own seed drawn from
// the master seed, so any single game can be replayed.
func simulate(games int, seed int64, policy blackjack.Policy, progress func(int, *statistics.Statistics)) *statistics.Statistics {
	stats := &statistics.Statistics{}
	master := randutil.New(seed)

	for i := range games {
		g := blackjack.NewGame(blackjack.WithShuffler(blackjack.FisherYates{Rand: randutil.New(master.Int64())}))
		blackjack.PlayOut(g, policy)
		if r, ok := statistics.FromGame(g); ok {
			stats.Add(r)
		}
		if progress != nil && (i+1)%progressEvery == 0 {
			progress(i+1, stats)
		}
	}
	return stats
}

func printResults(s *statistics.Statistics, elapsed time.Duration) {
	low, high := s.ConfidenceInterval95()
	pct := func(n int) float64 { return 100 * float64(n) / float64(max(s.Games, 1)) }

	fmt.Println()
	fmt.Println(okStyle.Render("=== RESULTS ==="))
	fmt.Printf("Games:        %d in %s\n", s.Games, elapsed.Round(time.Millisecond))
	fmt.Printf("Wins:         %d (%.1f%%)\n", s.Wins, pct(s.Wins))
	fmt.Printf("Losses:       %d (%.1f%%)\n", s.Losses, pct(s.Losses))
	fmt.Printf("Pushes:       %d (%.1f%%)\n", s.Pushes, pct(s.Pushes))
	fmt.Printf("Naturals:     %d\n", s.Naturals)
	fmt.Printf("Player busts: %d\n", s.PlayerBusts)
	fmt.Printf("Dealer busts: %d\n", s.DealerBusts)
	fmt.Printf("Mean:         %.4f units/game ± %.4f SE\n", s.Mean(), s.StdError())
	fmt.Printf("95%% CI:       [%.4f, %.4f]\n", low, high)

	fmt.Println(dimStyle.Render("By final hand size:"))
	for n, b := range s.BySize {
		if b.Games == 0 {
			continue
		}
		fmt.Printf("  %d cards: %6d games, %.4f units/game\n", n, b.Games, s.SizeMean(n))
	}
}
