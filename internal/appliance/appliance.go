// Package appliance runs the table: it sequences game phases, keeps the
// status panel and card panels in step with the game, and paces each phase
// so a person can follow along.
package appliance

import (
	"context"
	"errors"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/render"
	"github.com/lox/blackjack/internal/statistics"
)

var errInputClosed = errors.New("input closed")

// Status is the message panel.
type Status interface {
	ShowWelcome() error
	Show(message string, player, dealer int) error
}

// Table is the set of card panels.
type Table interface {
	ClearAll() error
	RefreshDealer(h blackjack.Hand) error
	RefreshPlayer(h blackjack.Hand) error
}

// Pacing sets how long each screen stays up.
type Pacing struct {
	Short  time.Duration // announcements before an action
	Pause  time.Duration // results of an action
	Result time.Duration // final result before the table resets
}

// DefaultPacing is the cabinet's standard timing.
func DefaultPacing() Pacing {
	return Pacing{
		Short:  2 * time.Second,
		Pause:  3 * time.Second,
		Result: 5 * time.Second,
	}
}

// Option configures an Appliance.
type Option func(*Appliance)

// WithClock sets the clock used for pacing and shuffle seeding.
func WithClock(clock quartz.Clock) Option {
	return func(a *Appliance) {
		a.clock = clock
	}
}

// WithPacing overrides the screen timings.
func WithPacing(p Pacing) Option {
	return func(a *Appliance) {
		a.pacing = p
	}
}

// WithSeed fixes the shuffle seed. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(a *Appliance) {
		a.seed = seed
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(a *Appliance) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithGameOptions passes extra options to every game the appliance
// creates, after its own.
func WithGameOptions(opts ...blackjack.Option) Option {
	return func(a *Appliance) {
		a.gameOpts = append(a.gameOpts, opts...)
	}
}

// Appliance owns the single game and the displays for the lifetime of Run.
type Appliance struct {
	table  Table
	status Status
	events <-chan Event

	clock    quartz.Clock
	pacing   Pacing
	seed     int64
	gameOpts []blackjack.Option
	logger   *log.Logger

	shuffler blackjack.Shuffler
	game     *blackjack.Game
	games    int
	session  statistics.Statistics
}

// New wires an appliance to its displays and input events. Nothing is
// drawn until Run.
func New(table Table, status Status, events <-chan Event, opts ...Option) *Appliance {
	a := &Appliance{
		table:  table,
		status: status,
		events: events,
		clock:  quartz.NewReal(),
		pacing: DefaultPacing(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithPrefix("appliance")

	seed := randutil.Seed(a.seed, a.clock)
	a.logger.Info("Shuffle seeded", "seed", seed)
	a.shuffler = blackjack.FisherYates{Rand: randutil.New(seed)}
	a.game = a.newGame()
	return a
}

func (a *Appliance) newGame() *blackjack.Game {
	opts := []blackjack.Option{
		blackjack.WithShuffler(a.shuffler),
		blackjack.WithLogger(a.logger),
	}
	return blackjack.NewGame(append(opts, a.gameOpts...)...)
}

// Game returns the game in play. It is replaced after every GameOver.
func (a *Appliance) Game() *blackjack.Game { return a.game }

// Games counts completed games.
func (a *Appliance) Games() int { return a.games }

// Session returns the tally of completed games.
func (a *Appliance) Session() statistics.Statistics { return a.session }

// Run shows the welcome screen and plays games until ctx is cancelled or
// the event channel is closed. Display failures are logged and play
// carries on.
func (a *Appliance) Run(ctx context.Context) error {
	a.welcome()
	if err := a.wait(ctx, a.pacing.Short); err != nil {
		return err
	}
	a.logger.Info("Appliance ready")

	for {
		err := a.Step(ctx)
		switch {
		case errors.Is(err, errInputClosed):
			a.logger.Info("Input closed, stopping")
			return nil
		case err != nil:
			return err
		}
	}
}

// Step plays out the current phase, blocking for input or pacing as the
// phase requires.
func (a *Appliance) Step(ctx context.Context) error {
	g := a.game
	switch g.State() {
	case blackjack.WaitingForStart:
		a.logger.Info("Waiting for start")
		if _, err := a.await(ctx, Start); err != nil {
			return err
		}
		a.show("Starting\ngame...", render.NoScore, render.NoScore)
		a.clearTable()
		if err := a.wait(ctx, a.pacing.Short); err != nil {
			return err
		}
		g.StartGame()

	case blackjack.DealerDealing:
		a.show("Dealer is\ndealing cards...", render.NoScore, render.NoScore)
		if err := a.wait(ctx, a.pacing.Short); err != nil {
			return err
		}
		g.DealInitialCards()
		a.refreshDealer()
		a.refreshPlayer()
		a.show("Cards dealt!", g.PlayerValue(), g.DealerValue())
		return a.wait(ctx, a.pacing.Pause)

	case blackjack.PlayerTurn:
		return a.playerTurn(ctx)

	case blackjack.DealerTurn:
		a.show("Dealer's turn...", render.NoScore, render.NoScore)
		if err := a.wait(ctx, a.pacing.Short); err != nil {
			return err
		}
		g.StartDealerTurn()

	case blackjack.DealerRevealing:
		a.show("Dealer will\nreveal his\ncards...", render.NoScore, render.NoScore)
		if err := a.wait(ctx, a.pacing.Short); err != nil {
			return err
		}
		g.RevealDealerCards()
		a.refreshDealer()
		a.show("Cards revealed", render.NoScore, g.DealerValue())
		return a.wait(ctx, a.pacing.Pause)

	case blackjack.DealerDrawing:
		if !g.DealerNeedsCard() {
			// nothing left to draw; settle rather than spin
			a.logger.Info("Dealer finished drawing")
			g.DealerDrawCard()
			return nil
		}
		a.show("Dealer will\ndraw one\nmore card", render.NoScore, render.NoScore)
		if err := a.wait(ctx, a.pacing.Pause); err != nil {
			return err
		}
		if g.DealerDrawCard() {
			a.refreshDealer()
			a.show("New dealer\nvalue!", render.NoScore, g.DealerValue())
			return a.wait(ctx, a.pacing.Pause)
		}

	case blackjack.GameOver:
		return a.gameOver(ctx)
	}
	return nil
}

func (a *Appliance) playerTurn(ctx context.Context) error {
	g := a.game
	a.show("HIT/STAND", g.PlayerValue(), g.DealerValue())
	if err := a.wait(ctx, a.pacing.Short); err != nil {
		return err
	}

	a.logger.Info("Waiting for player action")
	ev, err := a.await(ctx, Hit, Stand)
	if err != nil {
		return err
	}

	if ev == Stand {
		a.show("You stand!", g.PlayerValue(), render.NoScore)
		if err := a.wait(ctx, a.pacing.Pause); err != nil {
			return err
		}
		g.PlayerStand()
		return nil
	}

	if !g.PlayerHit() {
		return nil
	}
	a.refreshPlayer()
	a.show("You hit!", g.PlayerValue(), g.DealerValue())
	if err := a.wait(ctx, a.pacing.Pause); err != nil {
		return err
	}

	switch {
	case g.State() == blackjack.GameOver:
		a.show("Bust! You lose.", g.PlayerValue(), render.NoScore)
		return a.wait(ctx, a.pacing.Pause)
	case g.State() == blackjack.PlayerTurn && g.PlayerValue() == 21:
		a.show("21 points!\nWe move to\ndealer's turn.", render.NoScore, render.NoScore)
		if err := a.wait(ctx, a.pacing.Pause); err != nil {
			return err
		}
		g.StandOnTwentyOne()
	}
	return nil
}

func (a *Appliance) gameOver(ctx context.Context) error {
	g := a.game
	bust := g.PlayerValue() > 21

	if bust {
		a.show("Player busted!\nDealer wins!", render.NoScore, render.NoScore)
	} else {
		a.show("Dealer\nFinished", render.NoScore, g.DealerValue())
	}
	if err := a.wait(ctx, a.pacing.Pause); err != nil {
		return err
	}

	msg := ResultMessage(g.Result(), bust)
	a.logger.Info("Game over", "result", g.Result(), "player", g.PlayerValue(), "dealer", g.DealerValue())
	if bust {
		a.show(msg, render.NoScore, render.NoScore)
	} else {
		a.show(msg, g.PlayerValue(), g.DealerValue())
	}
	if err := a.wait(ctx, a.pacing.Result); err != nil {
		return err
	}

	a.games++
	if r, ok := statistics.FromGame(g); ok {
		a.session.Add(r)
		a.logger.Info("Session",
			"games", a.session.Games,
			"wins", a.session.Wins,
			"losses", a.session.Losses,
			"pushes", a.session.Pushes,
			"net", a.session.Sum)
	}
	a.game = a.newGame()
	a.clearTable()
	a.welcome()
	return nil
}

// ResultMessage is the closing line for a finished game.
func ResultMessage(r blackjack.GameResult, playerBust bool) string {
	switch r {
	case blackjack.PlayerWins:
		return "You win!"
	case blackjack.DealerWins:
		if playerBust {
			return "You busted!"
		}
		return "Dealer wins!"
	case blackjack.Push:
		return "It's a tie."
	}
	return "Game in progress..."
}

func (a *Appliance) show(message string, player, dealer int) {
	if err := a.status.Show(message, player, dealer); err != nil {
		a.logger.Warn("Failed to update status display", "error", err)
	}
}

func (a *Appliance) welcome() {
	if err := a.status.ShowWelcome(); err != nil {
		a.logger.Warn("Failed to show welcome", "error", err)
	}
}

func (a *Appliance) clearTable() {
	if err := a.table.ClearAll(); err != nil {
		a.logger.Warn("Failed to clear card displays", "error", err)
	}
}

func (a *Appliance) refreshDealer() {
	if err := a.table.RefreshDealer(a.game.DealerHand()); err != nil {
		a.logger.Warn("Failed to update dealer cards", "error", err)
	}
}

func (a *Appliance) refreshPlayer() {
	if err := a.table.RefreshPlayer(a.game.PlayerHand()); err != nil {
		a.logger.Warn("Failed to update player cards", "error", err)
	}
}

// wait holds the current screen for d.
func (a *Appliance) wait(ctx context.Context, d time.Duration) error {
	t := a.clock.NewTimer(d, "appliance", "pace")
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// await blocks for one of want, discarding other presses.
func (a *Appliance) await(ctx context.Context, want ...Event) (Event, error) {
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case ev, ok := <-a.events:
			if !ok {
				return 0, errInputClosed
			}
			if slices.Contains(want, ev) {
				return ev, nil
			}
			a.logger.Debug("Ignoring input", "event", ev, "state", a.game.State())
		}
	}
}
