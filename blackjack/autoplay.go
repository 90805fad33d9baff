package blackjack

// Policy decides whether the player hits, given their hand and the
// dealer's up card.
type Policy func(player Hand, dealerUp Card) bool

// HitBelow hits while the player's total is under n. HitBelow(17) mirrors
// the dealer's rule.
func HitBelow(n int) Policy {
	return func(player Hand, _ Card) bool {
		return player.Value() < n
	}
}

// maxSteps bounds PlayOut; a game takes at most a dozen transitions.
const maxSteps = 64

// PlayOut drives g to GameOver without pacing or displays, consulting
// policy at every player decision. A game waiting for start is started.
// It returns the result, or InProgress if the deck ran dry.
func PlayOut(g *Game, policy Policy) GameResult {
	if g.State() == WaitingForStart {
		g.StartGame()
	}

	for range maxSteps {
		switch g.State() {
		case GameOver:
			return g.Result()
		case DealerDealing:
			g.DealInitialCards()
		case PlayerTurn:
			if g.StandOnTwentyOne() {
				continue
			}
			up, _ := g.DealerHand().Card(0)
			if policy(g.PlayerHand(), up) {
				if !g.PlayerHit() {
					return g.Result()
				}
			} else {
				g.PlayerStand()
			}
		case DealerTurn:
			g.StartDealerTurn()
		case DealerRevealing:
			g.RevealDealerCards()
		case DealerDrawing:
			g.DealerDrawCard()
		}
	}
	return g.Result()
}
