package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStackedGame returns a started game whose deck deals cards in the given
// order. Deal order is player, dealer, player, dealer, then hits.
func newStackedGame(t *testing.T, cards ...string) *Game {
	t.Helper()
	g := NewGame(WithDeckSource(func() *Deck {
		return NewStackedDeck(MustParseCards(cards...)...)
	}))
	require.Equal(t, WaitingForStart, g.State())
	g.StartGame()
	require.Equal(t, DealerDealing, g.State())
	return g
}

func TestDealOrderAndFacing(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "7h", "Tc", "5d", "8s")
	require.True(t, g.DealInitialCards())

	player := g.PlayerHand()
	dealer := g.DealerHand()
	require.Equal(t, 2, player.Len())
	require.Equal(t, 2, dealer.Len())

	assert.Equal(t, MustParseCards("7h", "5d"), player.Cards())

	up, _ := dealer.Card(0)
	down, _ := dealer.Card(1)
	assert.Equal(t, NewCard(Ten, Clubs), up)
	assert.True(t, up.FaceUp)
	assert.Equal(t, Eight, down.Rank)
	assert.False(t, down.FaceUp, "dealer's second card is dealt face down")

	assert.Equal(t, PlayerTurn, g.State())
	assert.Equal(t, InProgress, g.Result())
	assert.False(t, g.DealerRevealed())
}

func TestPlayerBlackjackWinsImmediately(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "Ah", "9c", "Kd", "5s", "Ks")
	require.True(t, g.DealInitialCards())

	assert.Equal(t, GameOver, g.State())
	assert.Equal(t, PlayerWins, g.Result())
	assert.True(t, g.DealerRevealed())

	dealer := g.DealerHand()
	assert.Equal(t, 2, dealer.Len(), "dealer never draws")
	for _, c := range dealer.Cards() {
		assert.True(t, c.FaceUp)
	}
	assert.Equal(t, 14, g.DealerValue())
	assert.False(t, g.DealerDrawCard())
}

func TestBothBlackjackIsPush(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "Ah", "As", "Kd", "Qs")
	require.True(t, g.DealInitialCards())

	assert.Equal(t, GameOver, g.State())
	assert.Equal(t, Push, g.Result())
}

func TestHitToTwentyOneIsNotBlackjack(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "7h", "Tc", "5d", "8s", "9c")
	require.True(t, g.DealInitialCards())
	require.Equal(t, 12, g.PlayerValue())

	require.True(t, g.PlayerHit())
	player := g.PlayerHand()
	assert.Equal(t, 21, g.PlayerValue())
	assert.False(t, player.IsBlackjack())
	assert.Equal(t, PlayerTurn, g.State(), "21 is not a bust")
	assert.Equal(t, InProgress, g.Result())

	require.True(t, g.StandOnTwentyOne())
	assert.Equal(t, DealerTurn, g.State())
}

func TestStandOnTwentyOneRequires21(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "7h", "Tc", "5d", "8s")
	require.True(t, g.DealInitialCards())

	assert.False(t, g.StandOnTwentyOne())
	assert.Equal(t, PlayerTurn, g.State())
}

func TestPlayerBustKeepsHoleCardHidden(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "9h", "Tc", "6d", "8s", "Kh")
	require.True(t, g.DealInitialCards())
	require.Equal(t, 15, g.PlayerValue())

	require.True(t, g.PlayerHit())
	assert.Equal(t, 25, g.PlayerValue())
	assert.Equal(t, GameOver, g.State())
	assert.Equal(t, DealerWins, g.Result())
	assert.False(t, g.DealerRevealed())

	hole, _ := g.DealerHand().Card(1)
	assert.False(t, hole.FaceUp, "hole card stays face down after a player bust")
}

func TestPlayerHitOnFullHandStands(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "2h", "Tc", "3d", "7s", "2c", "3c", "4c", "5c")
	require.True(t, g.DealInitialCards())

	require.True(t, g.PlayerHit())
	require.True(t, g.PlayerHit())
	require.Equal(t, 4, g.PlayerHand().Len())
	require.Equal(t, PlayerTurn, g.State())

	require.True(t, g.PlayerHit())
	assert.Equal(t, 4, g.PlayerHand().Len())
	assert.Equal(t, 10, g.PlayerValue())
	assert.Equal(t, DealerTurn, g.State())

	// the rejected card was consumed from the deck
	require.True(t, g.StartDealerTurn())
	require.True(t, g.RevealDealerCards())
	assert.Equal(t, GameOver, g.State(), "dealer has 17")
	assert.Equal(t, DealerWins, g.Result())
}

func TestDealerValueHidesHoleCard(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "9h", "Ac", "8d", "6s")
	assert.Equal(t, 0, g.DealerValue())
	require.True(t, g.DealInitialCards())

	assert.Equal(t, 11, g.DealerValue(), "only the face-up ace counts")
	require.True(t, g.PlayerStand())
	require.True(t, g.StartDealerTurn())
	require.True(t, g.RevealDealerCards())
	assert.Equal(t, 17, g.DealerValue())
	assert.Equal(t, GameOver, g.State())
	assert.Equal(t, Push, g.Result())
}

func TestDealerStandsOnSeventeenAfterReveal(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "Th", "Tc", "9d", "7s")
	require.True(t, g.DealInitialCards())
	require.True(t, g.PlayerStand())
	assert.Equal(t, DealerTurn, g.State())

	require.True(t, g.StartDealerTurn())
	assert.Equal(t, DealerRevealing, g.State())
	require.True(t, g.RevealDealerCards())

	assert.Equal(t, GameOver, g.State())
	assert.Equal(t, PlayerWins, g.Result())
	assert.False(t, g.DealerNeedsCard())
}

func TestDealerDrawsUntilSeventeen(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "Th", "6c", "8d", "5s", "4h", "Kc")
	require.True(t, g.DealInitialCards())
	require.True(t, g.PlayerStand())
	require.True(t, g.StartDealerTurn())
	require.True(t, g.RevealDealerCards())
	require.Equal(t, DealerDrawing, g.State())

	require.True(t, g.DealerNeedsCard())
	require.True(t, g.DealerDrawCard())
	assert.Equal(t, 15, g.DealerValue())
	assert.Equal(t, DealerDrawing, g.State())

	require.True(t, g.DealerDrawCard())
	assert.Equal(t, 25, g.DealerValue())
	assert.Equal(t, GameOver, g.State())
	assert.Equal(t, PlayerWins, g.Result(), "dealer bust")
}

func TestDealerStandsAfterDrawingToSeventeen(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "Th", "6c", "8d", "5s", "9h")
	require.True(t, g.DealInitialCards())
	require.True(t, g.PlayerStand())
	require.True(t, g.StartDealerTurn())
	require.True(t, g.RevealDealerCards())

	require.True(t, g.DealerDrawCard())
	assert.Equal(t, 20, g.DealerValue())
	assert.Equal(t, GameOver, g.State())
	assert.Equal(t, DealerWins, g.Result())
}

func TestDealerFullHandStands(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "Th", "6c", "Td", "5s", "2h", "3c", "9d")
	require.True(t, g.DealInitialCards())
	require.True(t, g.PlayerStand())
	require.True(t, g.StartDealerTurn())
	require.True(t, g.RevealDealerCards())

	require.True(t, g.DealerDrawCard())
	require.True(t, g.DealerDrawCard())
	require.Equal(t, 4, g.DealerHand().Len())
	require.Equal(t, 16, g.DealerValue())
	require.True(t, g.DealerNeedsCard(), "under 17 the dealer still wants a card")

	require.True(t, g.DealerDrawCard())
	assert.Equal(t, 4, g.DealerHand().Len())
	assert.Equal(t, GameOver, g.State())
	assert.Equal(t, PlayerWins, g.Result(), "20 beats a capped 16")
}

func TestDealerNeverDrawsOnSeventeenOrMore(t *testing.T) {
	t.Parallel()
	for seed := uint64(0); seed < 200; seed++ {
		g := NewGame(WithShuffler(FisherYates{Rand: newPCG(seed)}))
		g.StartGame()
		g.DealInitialCards()
		if g.State() == GameOver {
			continue // player blackjack, dealer never plays
		}
		require.True(t, g.PlayerStand())
		g.StartDealerTurn()
		g.RevealDealerCards()

		for g.State() == DealerDrawing {
			before := g.DealerHand()
			require.Less(t, before.Value(), DealerStandsOn, "seed %d", seed)
			g.DealerDrawCard()
		}

		require.Equal(t, GameOver, g.State(), "seed %d", seed)
		require.NotEqual(t, InProgress, g.Result(), "seed %d", seed)
		dealer := g.DealerHand()
		if dealer.Value() < DealerStandsOn {
			assert.Equal(t, MaxHandSize, dealer.Len(), "seed %d: dealer stopped under 17 without a full hand", seed)
		}
	}
}

func TestIllegalCallsAreRejected(t *testing.T) {
	t.Parallel()
	g := NewGame()

	assert.False(t, g.DealInitialCards())
	assert.False(t, g.PlayerHit())
	assert.False(t, g.PlayerStand())
	assert.False(t, g.StartDealerTurn())
	assert.False(t, g.RevealDealerCards())
	assert.False(t, g.DealerDrawCard())
	assert.Equal(t, WaitingForStart, g.State())

	g.StartGame()
	require.True(t, g.DealInitialCards())
	assert.False(t, g.DealInitialCards(), "cannot deal twice")
	assert.False(t, g.StartDealerTurn())
}

func TestStartGameResets(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "Ah", "9c", "Kd", "5s")
	require.True(t, g.DealInitialCards())
	require.Equal(t, GameOver, g.State())

	g.StartGame()
	assert.Equal(t, DealerDealing, g.State())
	assert.Equal(t, InProgress, g.Result())
	assert.Equal(t, 0, g.PlayerHand().Len())
	assert.Equal(t, 0, g.DealerHand().Len())
	assert.False(t, g.DealerRevealed())
}

func TestHandsAreCopies(t *testing.T) {
	t.Parallel()
	g := newStackedGame(t, "7h", "Tc", "5d", "8s")
	require.True(t, g.DealInitialCards())

	dealer := g.DealerHand()
	dealer.RevealAll()
	hole, _ := g.DealerHand().Card(1)
	assert.False(t, hole.FaceUp)
}
