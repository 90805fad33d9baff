package blackjack

import "strings"

// MaxHandSize is the number of card displays available per side. It caps
// a hand even though BlackJack itself has no such limit.
const MaxHandSize = 4

// Hand is an ordered set of up to MaxHandSize cards. The score is always
// derived from the cards, never stored.
type Hand struct {
	cards []Card
}

// NewHand creates a hand holding the given cards. Cards past MaxHandSize
// are dropped.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h.Add(c)
	}
	return h
}

// Add appends a card. Returns false when the hand is already full.
func (h *Hand) Add(c Card) bool {
	if len(h.cards) >= MaxHandSize {
		return false
	}
	h.cards = append(h.cards, c)
	return true
}

// Len returns the number of cards in the hand
func (h Hand) Len() int {
	return len(h.cards)
}

// Full reports whether the hand has reached MaxHandSize.
func (h Hand) Full() bool {
	return len(h.cards) >= MaxHandSize
}

// Card returns the card at index i.
func (h Hand) Card(i int) (Card, bool) {
	if i < 0 || i >= len(h.cards) {
		return Card{}, false
	}
	return h.cards[i], true
}

// Cards returns a copy of the cards in deal order
func (h Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Value returns the BlackJack total. Aces count 11 and are demoted to 1,
// one at a time, while the total exceeds 21.
func (h Hand) Value() int {
	total, _ := h.score()
	return total
}

// Soft reports whether at least one ace still counts as 11 in Value.
func (h Hand) Soft() bool {
	_, soft := h.score()
	return soft > 0
}

func (h Hand) score() (total, softAces int) {
	for _, c := range h.cards {
		if c.Rank == Ace {
			softAces++
		}
		total += c.Value()
	}

	for total > 21 && softAces > 0 {
		total -= 10
		softAces--
	}
	return total, softAces
}

// VisibleValue sums the face-up cards only, without ace demotion.
// This is the dealer's score as shown before the hole card is revealed.
func (h Hand) VisibleValue() int {
	total := 0
	for _, c := range h.cards {
		if c.FaceUp {
			total += c.Value()
		}
	}
	return total
}

// IsBust reports whether the hand is over 21
func (h Hand) IsBust() bool {
	return h.Value() > 21
}

// IsBlackjack reports a two-card 21
func (h Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Value() == 21
}

// RevealAll turns every card face up
func (h *Hand) RevealAll() {
	for i := range h.cards {
		h.cards[i].FaceUp = true
	}
}

// String renders the hand in short notation, hiding face-down cards.
func (h Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		if c.FaceUp {
			parts[i] = c.Short()
		} else {
			parts[i] = "??"
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// clone returns an independent copy so callers cannot mutate game state.
func (h Hand) clone() Hand {
	return Hand{cards: h.Cards()}
}
