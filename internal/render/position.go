package render

import "fmt"

// Position is one of the eight card slots on the table. Its value is also
// the multiplexer channel of the panel behind it.
type Position int

const (
	DealerCard1 Position = iota
	DealerCard2
	DealerCard3
	DealerCard4
	PlayerCard1
	PlayerCard2
	PlayerCard3
	PlayerCard4
)

// Positions is the number of card slots.
const Positions = 8

var (
	// DealerPositions are the dealer's slots, left to right
	DealerPositions = [4]Position{DealerCard1, DealerCard2, DealerCard3, DealerCard4}
	// PlayerPositions are the player's slots, left to right
	PlayerPositions = [4]Position{PlayerCard1, PlayerCard2, PlayerCard3, PlayerCard4}
)

// Channel returns the multiplexer channel wired to the position.
func (p Position) Channel() int { return int(p) }

// Valid reports whether p names a real slot.
func (p Position) Valid() bool { return p >= 0 && p < Positions }

func (p Position) String() string {
	switch {
	case p >= DealerCard1 && p <= DealerCard4:
		return fmt.Sprintf("dealer-%d", int(p-DealerCard1)+1)
	case p >= PlayerCard1 && p <= PlayerCard4:
		return fmt.Sprintf("player-%d", int(p-PlayerCard1)+1)
	}
	return fmt.Sprintf("position(%d)", int(p))
}
