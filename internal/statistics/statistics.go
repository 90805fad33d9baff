// Package statistics tallies finished games from the player's side.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/blackjack"
)

// NaturalPayout is what a winning two-card 21 returns per unit staked.
const NaturalPayout = 1.5

// GameResult is the outcome of one finished game.
type GameResult struct {
	Net         float64 // units won or lost by the player
	Result      blackjack.GameResult
	Natural     bool // player's first two cards made 21
	PlayerBust  bool
	DealerBust  bool
	PlayerCards int
	DealerCards int
}

// FromGame summarises a game in GameOver. It returns false for a game
// still in progress.
func FromGame(g *blackjack.Game) (GameResult, bool) {
	if g.State() != blackjack.GameOver {
		return GameResult{}, false
	}
	player, dealer := g.PlayerHand(), g.DealerHand()
	r := GameResult{
		Result:      g.Result(),
		Natural:     player.IsBlackjack(),
		PlayerBust:  player.IsBust(),
		DealerBust:  dealer.IsBust(),
		PlayerCards: player.Len(),
		DealerCards: dealer.Len(),
	}
	switch r.Result {
	case blackjack.PlayerWins:
		r.Net = 1
		if r.Natural {
			r.Net = NaturalPayout
		}
	case blackjack.DealerWins:
		r.Net = -1
	}
	return r, true
}

// HandSizeStats tracks games by how many cards the player ended with.
type HandSizeStats struct {
	Games int
	Sum   float64
}

// Statistics accumulates GameResults.
type Statistics struct {
	Games  int
	Sum    float64
	SumSq  float64   // sum of squares for variance
	Values []float64 // every Net, for median and percentiles

	Wins        int
	Losses      int
	Pushes      int
	Naturals    int
	PlayerBusts int
	DealerBusts int

	// indexed by final player hand size
	BySize [blackjack.MaxHandSize + 1]HandSizeStats
}

// Add incorporates a finished game.
func (s *Statistics) Add(r GameResult) {
	s.Games++
	s.Sum += r.Net
	s.SumSq += r.Net * r.Net
	s.Values = append(s.Values, r.Net)

	switch r.Result {
	case blackjack.PlayerWins:
		s.Wins++
	case blackjack.DealerWins:
		s.Losses++
	default:
		s.Pushes++
	}
	if r.Natural {
		s.Naturals++
	}
	if r.PlayerBust {
		s.PlayerBusts++
	}
	if r.DealerBust {
		s.DealerBusts++
	}

	if n := r.PlayerCards; n >= 0 && n < len(s.BySize) {
		s.BySize[n].Games++
		s.BySize[n].Sum += r.Net
	}
}

// Mean returns the average units won per game.
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.Sum / float64(s.Games)
}

// Variance returns the sample variance of Net.
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate is the share of games the player won.
func (s *Statistics) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// Median returns the median Net
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated Net at p in [0, 1].
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SizeMean returns the mean Net for games the player ended with n cards.
func (s *Statistics) SizeMean(n int) float64 {
	if n < 0 || n >= len(s.BySize) || s.BySize[n].Games == 0 {
		return 0
	}
	return s.BySize[n].Sum / float64(s.BySize[n].Games)
}

// Validate checks the tallies agree with each other
func (s *Statistics) Validate() error {
	if s.Wins+s.Losses+s.Pushes != s.Games {
		return fmt.Errorf("outcomes (%d+%d+%d) do not match games (%d)",
			s.Wins, s.Losses, s.Pushes, s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("values length (%d) does not match games (%d)", len(s.Values), s.Games)
	}
	if s.Naturals > s.Games || s.PlayerBusts > s.Losses {
		return fmt.Errorf("naturals (%d) or busts (%d) out of range", s.Naturals, s.PlayerBusts)
	}

	sized, sum := 0, 0.0
	for _, b := range s.BySize {
		sized += b.Games
		sum += b.Sum
	}
	if sized != s.Games {
		return fmt.Errorf("hand size games (%d) do not match games (%d)", sized, s.Games)
	}
	if math.Abs(sum-s.Sum) > 1e-6 {
		return fmt.Errorf("ledger mismatch: total %.6f, by hand size %.6f", s.Sum, sum)
	}
	return nil
}
