package blackjack

// GameState is the phase of a game. It is the single source of truth for
// which operations are legal.
type GameState int

const (
	WaitingForStart GameState = iota
	DealerDealing
	PlayerTurn
	DealerTurn
	DealerRevealing
	DealerDrawing
	GameOver
)

var stateNames = map[GameState]string{
	WaitingForStart: "waiting_for_start",
	DealerDealing:   "dealer_dealing",
	PlayerTurn:      "player_turn",
	DealerTurn:      "dealer_turn",
	DealerRevealing: "dealer_revealing",
	DealerDrawing:   "dealer_drawing",
	GameOver:        "game_over",
}

var statesByName = func() map[string]GameState {
	m := make(map[string]GameState, len(stateNames))
	for s, name := range stateNames {
		m[name] = s
	}
	return m
}()

func (s GameState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// GameResult is the outcome of a game, set when it enters GameOver.
type GameResult int

const (
	InProgress GameResult = iota
	PlayerWins
	DealerWins
	Push
)

func (r GameResult) String() string {
	switch r {
	case InProgress:
		return "in_progress"
	case PlayerWins:
		return "player_wins"
	case DealerWins:
		return "dealer_wins"
	case Push:
		return "push"
	default:
		return "unknown"
	}
}
