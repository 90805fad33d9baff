// Package blackjack implements the rules engine of the BlackJack table.
//
// The main type is Game, which owns the deck and both hands and steps
// through the phases of a single game:
//
//	WaitingForStart -> DealerDealing -> PlayerTurn -> DealerTurn
//	    -> DealerRevealing -> DealerDrawing -> GameOver
//
// Every phase change happens through a method call made by the caller's
// loop; the package never waits or blocks. Methods called in the wrong
// phase return false so an event-driven caller can simply re-query State.
//
// # Basic Usage
//
//	g := blackjack.NewGame()
//	g.StartGame()
//	g.DealInitialCards()
//	if g.State() == blackjack.PlayerTurn {
//	    g.PlayerStand()
//	}
//	g.StartDealerTurn()
//	g.RevealDealerCards()
//	for g.DealerNeedsCard() {
//	    g.DealerDrawCard()
//	}
//
// # Display Limit
//
// Each side has four card displays, so a Hand never holds more than
// MaxHandSize cards. A player hit on a full hand moves to the dealer's
// turn and a dealer draw on a full hand stands.
//
// # Deterministic Testing
//
// Decks are produced by a Shuffler. Inject a seeded FisherYates, or hand
// the game a stacked deck:
//
//	g := blackjack.NewGame(blackjack.WithDeckSource(func() *blackjack.Deck {
//	    return blackjack.NewStackedDeck(blackjack.MustParseCards("Ah", "9c", "Kd", "5s")...)
//	}))
package blackjack
