package blackjack

import "fmt"

// Suit is one of the four card suits.
type Suit uint8

// Suit constants, in deck construction order
const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Rank is the face value of a card, Ace through King.
type Rank uint8

// Rank constants (Ace=0 .. King=12)
const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Suits lists every suit in deck construction order.
var Suits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

// Ranks lists every rank in deck construction order.
var Ranks = [13]Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var suitNames = [4]string{"Hearts", "Diamonds", "Clubs", "Spades"}
var suitSymbols = [4]string{"♥", "♦", "♣", "♠"}
var rankNames = [13]string{"Ace", "2", "3", "4", "5", "6", "7", "8", "9", "10", "Jack", "Queen", "King"}

// String returns the suit name, e.g. "Hearts"
func (s Suit) String() string {
	if int(s) >= len(suitNames) {
		return "?"
	}
	return suitNames[s]
}

// Symbol returns the unicode suit symbol
func (s Suit) Symbol() string {
	if int(s) >= len(suitSymbols) {
		return "?"
	}
	return suitSymbols[s]
}

// Red reports whether the suit is printed in red.
func (s Suit) Red() bool {
	return s == Hearts || s == Diamonds
}

// String returns the rank name, e.g. "Ace" or "10"
func (r Rank) String() string {
	if int(r) >= len(rankNames) {
		return "?"
	}
	return rankNames[r]
}

// Short returns the single character rank used in card notation ("A", "T", "K")
func (r Rank) Short() string {
	const ranks = "A23456789TJQK"
	if int(r) >= len(ranks) {
		return "?"
	}
	return string(ranks[r])
}

// Value returns the BlackJack value of the rank. Aces count 11 here;
// demotion to 1 is a property of the hand, not the card.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r) + 1
	}
}

// Card is a single playing card. Suit and rank never change once dealt;
// FaceUp is flipped when the dealer reveals.
type Card struct {
	Suit   Suit
	Rank   Rank
	FaceUp bool
}

// NewCard creates a face-up card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Suit: suit, Rank: rank, FaceUp: true}
}

// Value returns the card's BlackJack value (Ace=11).
func (c Card) Value() int {
	return c.Rank.Value()
}

// String returns the long form, e.g. "Ace of Hearts"
func (c Card) String() string {
	return c.Rank.String() + " of " + c.Suit.String()
}

// Short returns compact notation with a suit symbol, e.g. "A♥", "T♠"
func (c Card) Short() string {
	return c.Rank.Short() + c.Suit.Symbol()
}

// ParseCard parses two-character notation like "Ah", "Td" or "ks".
// The parsed card is face up.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	var rank Rank
	switch s[0] {
	case 'A', 'a':
		rank = Ace
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = Rank(s[0]-'1') + Ace
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	default:
		return Card{}, fmt.Errorf("invalid rank: %c", s[0])
	}

	var suit Suit
	switch s[1] {
	case 'h', 'H':
		suit = Hearts
	case 'd', 'D':
		suit = Diamonds
	case 'c', 'C':
		suit = Clubs
	case 's', 'S':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit: %c", s[1])
	}

	return NewCard(rank, suit), nil
}

// MustParseCards parses a list of card strings and panics on error.
// Intended for tests and fixed decks.
func MustParseCards(strs ...string) []Card {
	cards := make([]Card, len(strs))
	for i, s := range strs {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		cards[i] = c
	}
	return cards
}
