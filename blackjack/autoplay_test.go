package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayOut(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cards  []string
		policy Policy
		want   GameResult
		player int
		dealer int
	}{
		{"natural", []string{"Ah", "9c", "Kd", "7s"}, HitBelow(17), PlayerWins, 21, 16},
		{"stand and dealer stands", []string{"Th", "9c", "8d", "8s"}, HitBelow(17), PlayerWins, 18, 17},
		{"hit then bust", []string{"Th", "9c", "6d", "8s", "Kc"}, HitBelow(17), DealerWins, 26, 17},
		{"dealer draws and busts", []string{"Th", "6c", "8d", "Ts", "9h"}, HitBelow(17), PlayerWins, 18, 25},
		{"hit to 21 stands", []string{"5h", "Tc", "7d", "8s", "9h"}, HitBelow(21), PlayerWins, 21, 18},
		{"push", []string{"Th", "Tc", "8d", "8s"}, HitBelow(12), Push, 18, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewGame(WithDeckSource(func() *Deck {
				return NewStackedDeck(MustParseCards(tt.cards...)...)
			}))

			got := PlayOut(g, tt.policy)
			require.Equal(t, GameOver, g.State())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.player, g.PlayerValue())
			assert.Equal(t, tt.dealer, g.DealerValue())
		})
	}
}

func TestPlayOutDeckExhausted(t *testing.T) {
	t.Parallel()

	// enough for the deal only; the policy always hits
	g := NewGame(WithDeckSource(func() *Deck {
		return NewStackedDeck(MustParseCards("2h", "9c", "3d", "8s")...)
	}))
	always := func(Hand, Card) bool { return true }

	assert.Equal(t, InProgress, PlayOut(g, always))
	assert.Equal(t, PlayerTurn, g.State())
}

func TestPlayOutShuffledDecks(t *testing.T) {
	t.Parallel()

	for seed := range uint64(200) {
		g := NewGame(WithShuffler(FisherYates{Rand: newPCG(seed)}))
		r := PlayOut(g, HitBelow(17))
		require.Equal(t, GameOver, g.State(), "seed %d", seed)
		require.NotEqual(t, InProgress, r, "seed %d", seed)
		assert.True(t, g.DealerRevealed() || g.PlayerHand().IsBust(), "seed %d", seed)
	}
}
