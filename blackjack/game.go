package blackjack

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/looplab/fsm"
)

// DealerStandsOn is the total at which the dealer stops drawing
const DealerStandsOn = 17

// transition event names
const (
	eventDeal        = "deal"
	eventFinish      = "finish"
	eventStand       = "stand"
	eventStartDealer = "start_dealer"
	eventDealerDraw  = "dealer_draw"
)

// Game is a single-player BlackJack table: one player against the dealer,
// one deck per game. All methods are synchronous. Calls made in the wrong
// phase return false and leave the game untouched.
type Game struct {
	deck           *Deck
	player         Hand
	dealer         Hand
	result         GameResult
	dealerRevealed bool

	sm      *fsm.FSM
	newDeck func() *Deck
	logger  *log.Logger
}

// Option configures a Game during creation.
type Option func(*Game)

// WithShuffler sets the shuffle strategy used for every new deck.
func WithShuffler(s Shuffler) Option {
	return func(g *Game) {
		g.newDeck = func() *Deck { return NewDeck(s) }
	}
}

// WithDeckSource sets a function producing the deck for each new game.
// It overrides WithShuffler.
func WithDeckSource(source func() *Deck) Option {
	return func(g *Game) {
		g.newDeck = source
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGame creates a game waiting for StartGame.
//
// Without options decks are shuffled from the global random source:
//
//	// Production - clock-seeded
//	rng := randutil.New(clock.Now().UnixNano())
//	g := NewGame(WithShuffler(FisherYates{Rand: rng}))
//
//	// Testing - fixed cards
//	g := NewGame(WithDeckSource(func() *Deck {
//	    return NewStackedDeck(MustParseCards("Ah", "9c", "Kd", "5s")...)
//	}))
func NewGame(opts ...Option) *Game {
	g := &Game{
		result: InProgress,
		logger: log.New(io.Discard),
	}
	g.newDeck = func() *Deck { return NewDeck(FisherYates{}) }

	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.WithPrefix("game")
	g.deck = g.newDeck()

	g.sm = fsm.NewFSM(
		WaitingForStart.String(),
		fsm.Events{
			{Name: eventDeal, Src: []string{DealerDealing.String()}, Dst: PlayerTurn.String()},
			{Name: eventStand, Src: []string{PlayerTurn.String()}, Dst: DealerTurn.String()},
			{Name: eventStartDealer, Src: []string{DealerTurn.String()}, Dst: DealerRevealing.String()},
			{Name: eventDealerDraw, Src: []string{DealerRevealing.String()}, Dst: DealerDrawing.String()},
			{
				Name: eventFinish,
				Src: []string{
					DealerDealing.String(),
					PlayerTurn.String(),
					DealerRevealing.String(),
					DealerDrawing.String(),
				},
				Dst: GameOver.String(),
			},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				g.logger.Debug("State change", "from", e.Src, "to", e.Dst, "event", e.Event)
			},
		},
	)
	return g
}

// State returns the current phase
func (g *Game) State() GameState {
	return statesByName[g.sm.Current()]
}

// Result returns the outcome; InProgress until GameOver.
func (g *Game) Result() GameResult {
	return g.result
}

// PlayerHand returns a copy of the player's hand
func (g *Game) PlayerHand() Hand {
	return g.player.clone()
}

// DealerHand returns a copy of the dealer's hand
func (g *Game) DealerHand() Hand {
	return g.dealer.clone()
}

// DealerRevealed reports whether the dealer's hole card has been turned.
func (g *Game) DealerRevealed() bool {
	return g.dealerRevealed
}

// PlayerValue returns the player's total
func (g *Game) PlayerValue() int {
	return g.player.Value()
}

// DealerValue returns the dealer's total as the player may see it. Before
// the reveal, while dealing or during the player's turn, only face-up cards
// count; afterwards it is the full ace-adjusted total.
func (g *Game) DealerValue() int {
	state := g.State()
	if !g.dealerRevealed && (state == PlayerTurn || state == DealerDealing) {
		return g.dealer.VisibleValue()
	}
	return g.dealer.Value()
}

// StartGame discards the previous game and begins dealing with a fresh deck.
// It is legal from any state.
func (g *Game) StartGame() {
	g.logger.Info("Starting new game")

	g.deck = g.newDeck()
	g.player = Hand{}
	g.dealer = Hand{}
	g.result = InProgress
	g.dealerRevealed = false
	g.sm.SetState(DealerDealing.String())
}

// DealInitialCards deals player, dealer (up), player, dealer (down). A player
// BlackJack ends the game at once: the dealer's hand is revealed and the
// result is a push if the dealer also has BlackJack.
func (g *Game) DealInitialCards() bool {
	if !g.sm.Is(DealerDealing.String()) {
		g.logger.Debug("Cannot deal: not dealing phase", "state", g.State())
		return false
	}

	g.deal(&g.player, true, "player")
	g.deal(&g.dealer, true, "dealer")
	g.deal(&g.player, true, "player")
	g.deal(&g.dealer, false, "dealer")

	g.logger.Info("Cards dealt",
		"player", g.player.String(),
		"player_value", g.player.Value(),
		"dealer", g.dealer.String(),
		"dealer_visible", g.DealerValue())

	if g.player.IsBlackjack() {
		g.dealer.RevealAll()
		g.dealerRevealed = true

		if g.dealer.IsBlackjack() {
			g.logger.Info("Both have BlackJack, push")
			g.result = Push
		} else {
			g.logger.Info("Player wins with BlackJack")
			g.result = PlayerWins
		}
		g.fire(eventFinish)
		return true
	}

	g.fire(eventDeal)
	return true
}

// PlayerHit draws a card for the player. A full hand discards the drawn
// card and moves straight to the dealer's turn. Going over 21 ends the game
// as a dealer win without revealing the dealer's hole card.
func (g *Game) PlayerHit() bool {
	if !g.sm.Is(PlayerTurn.String()) {
		g.logger.Debug("Cannot hit: not player's turn", "state", g.State())
		return false
	}

	card, ok := g.deck.Draw()
	if !ok {
		g.logger.Warn("Deck exhausted")
		return false
	}

	if !g.player.Add(card) {
		g.logger.Info("Player hand full, standing", "max", MaxHandSize)
		g.fire(eventStand)
		return true
	}

	g.logger.Info("Player hits", "card", card, "hand", g.player.String(), "value", g.player.Value())

	if g.player.IsBust() {
		g.logger.Info("Player busts", "value", g.player.Value())
		g.result = DealerWins
		g.fire(eventFinish)
	}
	return true
}

// StandOnTwentyOne ends the player's turn once their total is exactly 21.
func (g *Game) StandOnTwentyOne() bool {
	if !g.sm.Is(PlayerTurn.String()) || g.player.Value() != 21 {
		return false
	}
	g.logger.Info("Player has 21")
	return g.fire(eventStand)
}

// PlayerStand ends the player's turn
func (g *Game) PlayerStand() bool {
	if !g.sm.Is(PlayerTurn.String()) {
		g.logger.Debug("Cannot stand: not player's turn", "state", g.State())
		return false
	}
	g.logger.Info("Player stands", "value", g.player.Value())
	return g.fire(eventStand)
}

// StartDealerTurn moves from the dealer's turn to the reveal.
func (g *Game) StartDealerTurn() bool {
	if !g.sm.Is(DealerTurn.String()) {
		return false
	}
	return g.fire(eventStartDealer)
}

// RevealDealerCards turns the dealer's cards face up. Under 17 the dealer
// goes on to draw; otherwise the game ends on a value comparison.
func (g *Game) RevealDealerCards() bool {
	if !g.sm.Is(DealerRevealing.String()) {
		return false
	}

	g.dealer.RevealAll()
	g.dealerRevealed = true
	g.logger.Info("Dealer reveals", "hand", g.dealer.String(), "value", g.dealer.Value())

	if g.dealer.Value() < DealerStandsOn {
		return g.fire(eventDealerDraw)
	}
	g.finishByComparison()
	return true
}

// DealerNeedsCard reports whether the dealer must draw again.
func (g *Game) DealerNeedsCard() bool {
	return g.sm.Is(DealerDrawing.String()) && g.dealer.Value() < DealerStandsOn
}

// DealerDrawCard draws one card for the dealer. It returns false without
// drawing when the dealer already stands (the game is then settled). A full
// hand forces a stand; a bust is a player win; 17 or more stands.
func (g *Game) DealerDrawCard() bool {
	if !g.sm.Is(DealerDrawing.String()) {
		g.logger.Debug("Cannot draw: not dealer's drawing phase", "state", g.State())
		return false
	}

	if g.dealer.Value() >= DealerStandsOn {
		g.logger.Info("Dealer stands", "value", g.dealer.Value())
		g.finishByComparison()
		return false
	}

	card, ok := g.deck.Draw()
	if !ok {
		g.logger.Warn("Deck exhausted")
		return false
	}

	if !g.dealer.Add(card) {
		g.logger.Info("Dealer hand full, standing", "max", MaxHandSize)
		g.finishByComparison()
		return true
	}

	g.logger.Info("Dealer draws", "card", card, "hand", g.dealer.String(), "value", g.dealer.Value())

	switch {
	case g.dealer.IsBust():
		g.logger.Info("Dealer busts", "value", g.dealer.Value())
		g.result = PlayerWins
		g.fire(eventFinish)
	case g.dealer.Value() >= DealerStandsOn:
		g.logger.Info("Dealer must stand", "value", g.dealer.Value())
		g.finishByComparison()
	}
	return true
}

func (g *Game) deal(h *Hand, faceUp bool, who string) {
	card, ok := g.deck.Draw()
	if !ok {
		g.logger.Warn("Deck exhausted while dealing")
		return
	}
	card.FaceUp = faceUp
	h.Add(card)
	if faceUp {
		g.logger.Debug("Dealt", "to", who, "card", card)
	} else {
		g.logger.Debug("Dealt face down", "to", who)
	}
}

func (g *Game) finishByComparison() {
	player, dealer := g.player.Value(), g.dealer.Value()
	switch {
	case player > dealer:
		g.result = PlayerWins
	case player < dealer:
		g.result = DealerWins
	default:
		g.result = Push
	}
	g.logger.Info("Game settled", "result", g.result, "player", player, "dealer", dealer)
	g.fire(eventFinish)
}

func (g *Game) fire(event string) bool {
	if err := g.sm.Event(event); err != nil {
		g.logger.Error("Rejected transition", "event", event, "state", g.sm.Current(), "error", err)
		return false
	}
	return true
}
