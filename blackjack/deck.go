package blackjack

import rand "math/rand/v2"

// DeckSize is the number of cards in a fresh deck
const DeckSize = 52

// Shuffler reorders a deck in place. Implementations decide where the
// randomness comes from so tests can make it deterministic.
type Shuffler interface {
	Shuffle(cards []Card)
}

// FisherYates shuffles with a uniform random source.
type FisherYates struct {
	Rand *rand.Rand
}

// Shuffle performs an unbiased Fisher-Yates shuffle. A nil Rand falls back
// to the global source.
func (s FisherYates) Shuffle(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		var j int
		if s.Rand != nil {
			j = s.Rand.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// ShufflerFunc adapts a function to the Shuffler interface.
type ShufflerFunc func(cards []Card)

// Shuffle calls f(cards)
func (f ShufflerFunc) Shuffle(cards []Card) {
	f(cards)
}

// NoShuffle leaves the deck in construction order.
var NoShuffle Shuffler = ShufflerFunc(func([]Card) {})

// Deck is a single 52 card deck consumed from the top. Drawn cards are
// never returned and the deck is never reshuffled once play starts.
type Deck struct {
	cards []Card
}

// NewDeck builds all 52 cards, face up, and shuffles them with s.
// A nil shuffler leaves construction order.
func NewDeck(s Shuffler) *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(rank, suit))
		}
	}

	if s != nil {
		s.Shuffle(cards)
	}
	return &Deck{cards: cards}
}

// NewStackedDeck creates a deck that deals exactly the given cards in
// order: the first argument is drawn first. Used for fixed scenarios.
func NewStackedDeck(cards ...Card) *Deck {
	stack := make([]Card, len(cards))
	for i, c := range cards {
		c.FaceUp = true
		stack[len(cards)-1-i] = c
	}
	return &Deck{cards: stack}
}

// Draw pops the top card. Returns false when the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
